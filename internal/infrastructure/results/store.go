// Package results emits test outcomes in the anod results format: one
// "name:OUTCOME" line per test in a results file, with failure detail in
// per-test .diff files alongside it.
package results

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/covfix/covfix/internal/domain"
)

const (
	resultsFile = "results"
	errorsFile  = "errors"
)

// Store writes results files into a directory. A store with an empty or
// missing directory is disabled and drops every record silently, matching
// the behavior of an unset results directory in the host runner.
type Store struct {
	Dir string
}

// Note: fileLock and acquireLock/release are defined in platform-specific
// files: lock_unix.go and lock_windows.go.

// Enabled reports whether the store points at an existing directory.
func (s *Store) Enabled() bool {
	if s.Dir == "" {
		return false
	}
	info, err := os.Stat(s.Dir)
	return err == nil && info.IsDir()
}

// Record persists one test outcome. Only call-phase outcomes produce a
// results line; a failure in setup or teardown is recorded as a session
// error instead. Concurrent recorders are serialized with a file lock.
func (s *Store) Record(outcome domain.TestOutcome) error {
	if !s.Enabled() {
		return nil
	}

	if outcome.Phase != domain.PhaseCall {
		if outcome.IsError() {
			return s.appendLine(errorsFile, outcome.ResultID())
		}
		return nil
	}

	id := outcome.ResultID()
	if outcome.Detail != "" {
		diffPath := filepath.Join(s.Dir, id+".diff")
		if err := os.WriteFile(diffPath, []byte(outcome.Detail), 0o600); err != nil {
			return fmt.Errorf("write diff file: %w", err)
		}
	}
	return s.appendLine(resultsFile, fmt.Sprintf("%s:%s", id, outcome.Status))
}

// HadErrors reports whether any session errors were recorded.
func (s *Store) HadErrors() (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	info, err := os.Stat(filepath.Join(s.Dir, errorsFile))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Size() > 0, nil
}

func (s *Store) appendLine(name, line string) error {
	lock, err := s.acquireLock()
	if err != nil {
		return err
	}
	defer lock.release()

	path := filepath.Join(s.Dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304 - path rooted in configured results dir
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
