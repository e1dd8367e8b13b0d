package pathutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePathEmpty(t *testing.T) {
	if _, err := ValidatePath(""); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestValidatePathNullBytes(t *testing.T) {
	if _, err := ValidatePath("a\x00b"); !errors.Is(err, ErrNullBytes) {
		t.Fatalf("expected ErrNullBytes, got %v", err)
	}
}

func TestValidatePathCleans(t *testing.T) {
	got, err := ValidatePath("a/b/../c")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != filepath.Clean("a/c") {
		t.Fatalf("expected cleaned path, got %q", got)
	}
}

func TestValidatePathResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real.txt")
	if err := os.WriteFile(real, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := ValidatePath(link)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want, err := filepath.EvalSymlinks(real)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != want {
		t.Fatalf("expected resolved path %q, got %q", want, got)
	}
}

func TestValidatePathMissingAllowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-yet.txt")
	got, err := ValidatePath(path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != path {
		t.Fatalf("expected cleaned path returned, got %q", got)
	}
}
