// Package pathutil provides utilities for safe path handling.
package pathutil

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyPath is returned when an empty path is supplied.
	ErrEmptyPath = errors.New("path cannot be empty")
	// ErrNullBytes is returned when a path contains null bytes.
	ErrNullBytes = errors.New("path contains null bytes")
)

// ValidatePath cleans a caller-supplied path and rejects obviously
// malicious ones. Symlinks are resolved when the target exists so that a
// link cannot smuggle reads outside the intended tree; a path that does
// not exist yet is returned cleaned, which allows creating new files.
func ValidatePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	cleaned := filepath.Clean(path)
	if strings.Contains(cleaned, "\x00") {
		return "", ErrNullBytes
	}

	realPath, err := filepath.EvalSymlinks(cleaned)
	if err != nil {
		return cleaned, nil
	}
	return realPath, nil
}
