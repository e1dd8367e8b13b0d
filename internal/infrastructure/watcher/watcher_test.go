package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherEmitsOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "coverage.out")
	if err := os.WriteFile(target, []byte("mode: set\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := New(WithDebounce(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	if err := w.WatchFile(target); err != nil {
		t.Fatalf("watch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events := w.Events(ctx)

	if err := os.WriteFile(target, []byte("mode: set\nchanged\n"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case <-events:
	case <-ctx.Done():
		t.Fatalf("no event after write")
	}
}

func TestWatcherSurvivesReplacement(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "coverage.out")
	if err := os.WriteFile(target, []byte("mode: set\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := New(WithDebounce(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	if err := w.WatchFile(target); err != nil {
		t.Fatalf("watch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events := w.Events(ctx)

	// Replace the file wholesale, the way the rewriter does.
	replacement := filepath.Join(dir, "coverage.out.new")
	if err := os.WriteFile(replacement, []byte("mode: set\nnew\n"), 0o600); err != nil {
		t.Fatalf("write replacement: %v", err)
	}
	if err := os.Rename(replacement, target); err != nil {
		t.Fatalf("rename: %v", err)
	}

	select {
	case <-events:
	case <-ctx.Done():
		t.Fatalf("no event after replacement")
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "coverage.out")
	if err := os.WriteFile(target, []byte("mode: set\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := New(WithDebounce(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	if err := w.WatchFile(target); err != nil {
		t.Fatalf("watch: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := w.Events(ctx)

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case <-events:
		t.Fatalf("sibling write must not trigger an event")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherContextCancel(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "coverage.out")
	if err := os.WriteFile(target, []byte("mode: set\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	if err := w.WatchFile(target); err != nil {
		t.Fatalf("watch: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := w.Events(ctx)
	cancel()

	select {
	case _, ok := <-events:
		if ok {
			t.Fatalf("expected channel closed after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("channel not closed after cancel")
	}
}
