//go:build unix

package results

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// fileLock represents a file-based lock for concurrent access protection.
type fileLock struct {
	file *os.File
}

// acquireLock takes an exclusive lock on the results directory so that
// concurrent recorders append whole lines.
func (s *Store) acquireLock() (*fileLock, error) {
	lockPath := filepath.Join(s.Dir, ".lock")

	// #nosec G304 -- Path rooted in the configured results dir
	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}

	// Blocking exclusive lock
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX); err != nil {
		_ = file.Close()
		return nil, err
	}

	return &fileLock{file: file}, nil
}

// release releases the file lock.
func (l *fileLock) release() error {
	if l.file == nil {
		return nil
	}
	unlockErr := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
