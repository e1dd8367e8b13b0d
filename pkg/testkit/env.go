// Package testkit provides helpers for tests that touch process-global
// state: the environment, the working directory, and external tools.
package testkit

import (
	"os"
	"strings"
	"testing"
)

// Variables forced to fixed values so test behavior does not depend on
// the invoking user's environment.
var pinnedEnv = map[string]string{
	"TZ":   "UTC",
	"LANG": "C",
}

// Variables dropped entirely; proxies and temp overrides leak host
// configuration into subprocesses spawned by tests.
var droppedEnv = []string{
	"http_proxy",
	"https_proxy",
	"HTTP_PROXY",
	"HTTPS_PROXY",
	"NO_PROXY",
	"TMPDIR",
}

// Protect snapshots the process environment and working directory,
// switches to a fresh temporary directory with a sanitized environment,
// and restores everything when the test finishes.
func Protect(t *testing.T) string {
	t.Helper()

	saved := os.Environ()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	t.Cleanup(func() {
		os.Clearenv()
		for _, entry := range saved {
			key, value, ok := strings.Cut(entry, "=")
			if !ok {
				continue
			}
			os.Setenv(key, value)
		}
		if err := os.Chdir(cwd); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})

	for key, value := range pinnedEnv {
		if err := os.Setenv(key, value); err != nil {
			t.Fatalf("setenv %s: %v", key, err)
		}
	}
	for _, key := range droppedEnv {
		os.Unsetenv(key)
	}

	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	return dir
}
