// Package textdiff computes unified diffs between expected and actual
// test output for the per-test .diff result files.
package textdiff

import (
	"os"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Options control how the two sides are compared.
type Options struct {
	// FromName and ToName label the two sides in the diff header.
	// Defaults are "expected" and "output".
	FromName string
	ToName   string
	// Ignore drops lines matching the pattern from both sides before
	// comparing.
	Ignore *regexp.Regexp
	// KeepWhitespace disables the default normalization, which trims
	// leading and trailing whitespace and discards blank lines.
	KeepWhitespace bool
}

// Unified diffs two line slices. An empty string means no difference.
func Unified(a, b []string, opts Options) (string, error) {
	if opts.FromName == "" {
		opts.FromName = "expected"
	}
	if opts.ToName == "" {
		opts.ToName = "output"
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        normalize(a, opts),
		B:        normalize(b, opts),
		FromFile: opts.FromName,
		ToFile:   opts.ToName,
		Context:  3,
	})
}

// Files diffs two files line by line. A missing file compares as empty,
// so a diff against a not-yet-recorded baseline reports every line as
// added.
func Files(a, b string, opts Options) (string, error) {
	return Unified(readLines(a), readLines(b), opts)
}

// FileDiffer adapts Files to the application differ port with default
// options.
type FileDiffer struct{}

func (FileDiffer) Files(a, b string) (string, error) {
	return Files(a, b, Options{})
}

func readLines(path string) []string {
	data, err := os.ReadFile(path) // #nosec G304 - caller-supplied comparison input
	if err != nil {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func normalize(lines []string, opts Options) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !opts.KeepWhitespace {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
		}
		if opts.Ignore != nil && opts.Ignore.MatchString(line) {
			continue
		}
		out = append(out, line+"\n")
	}
	return out
}
