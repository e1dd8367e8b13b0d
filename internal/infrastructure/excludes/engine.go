// Package excludes matches exclusion markers against source lines.
// Markers are regular expressions; a line carrying one is omitted from
// coverage accounting by the database engine.
package excludes

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
)

// Engine holds the compiled exclusion patterns.
type Engine struct {
	patterns []*regexp.Regexp
}

// New compiles the marker list. Markers come from configuration and the
// OS-conditional assembly, so a pattern that fails to compile is a caller
// error.
func New(patterns []string) (*Engine, error) {
	engine := &Engine{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		engine.patterns = append(engine.patterns, re)
	}
	return engine, nil
}

// Empty reports whether the engine has no patterns.
func (e *Engine) Empty() bool {
	return len(e.patterns) == 0
}

// MatchLine reports whether a source line carries an exclusion marker.
func (e *Engine) MatchLine(line string) bool {
	for _, re := range e.patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// ExcludedLines scans a source file and returns the 1-based numbers of
// lines carrying a marker. An unreadable file yields nil: the source tree
// may legitimately differ from the recorded one, and a report must not
// fail because of it.
func (e *Engine) ExcludedLines(path string) map[int]bool {
	f, err := os.Open(path) // #nosec G304 - identifiers come from the coverage database
	if err != nil {
		return nil
	}
	defer f.Close()

	excluded := make(map[int]bool)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if e.MatchLine(scanner.Text()) {
			excluded[lineNo] = true
		}
	}
	return excluded
}
