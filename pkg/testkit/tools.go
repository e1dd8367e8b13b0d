package testkit

import (
	"os"
	"os/exec"
	"testing"
)

// RequireTool skips the test when the named executable is not on PATH.
// On CI the absence is an infrastructure problem rather than a local
// setup gap, so the test fails instead.
func RequireTool(t *testing.T, name string) string {
	t.Helper()

	path, err := exec.LookPath(name)
	if err == nil {
		return path
	}

	if os.Getenv("CI") != "" {
		t.Fatalf("required tool %q not found on PATH", name)
	}
	t.Skipf("tool %q not found on PATH", name)
	return ""
}
