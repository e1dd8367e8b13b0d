package application

import (
	"context"
	"io"

	"github.com/covfix/covfix/internal/domain"
)

// OutputFormat selects the report rendering.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputHTML OutputFormat = "html"
	OutputXML  OutputFormat = "xml"
)

// RewriteRule is the optional origin->visible directory pair resolved once
// at configuration load. A nil rule means no rewrite is performed; there
// is no runtime probing for the option.
type RewriteRule struct {
	From string
	To   string
}

// ReportConfig controls which report artifacts finalization produces.
// Text always goes to the service output; HTML and XML are written only
// when a destination is configured.
type ReportConfig struct {
	Precision int
	HTMLDir   string
	XMLPath   string
}

// OmitConfig lists files dropped from reports: glob patterns from the
// config file plus OS-specific omit-files-<os> lists read from ConfDir.
type OmitConfig struct {
	Patterns []string
	ConfDir  string
}

// Config is the resolved covfix configuration.
type Config struct {
	Rewrite      *RewriteRule
	Report       ReportConfig
	Omit         OmitConfig
	SourceRoot   string
	ResultsDir   string
	Requirements string
	Database     string
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Report:   ReportConfig{Precision: 3},
		Database: ".coverage.out",
	}
}

// ConfigLoader reads the configuration file and the OS-specific omit
// lists.
type ConfigLoader interface {
	Exists(path string) (bool, error)
	Load(path string) (Config, error)
	OmitFiles(confDir, osName string) ([]string, error)
}

// SummarizeOptions control how a database is reduced to a report summary.
type SummarizeOptions struct {
	// Excludes are regular-expression markers; blocks starting on a
	// matching source line are dropped.
	Excludes []string
	// Omit are glob patterns; matching file identifiers are dropped
	// entirely.
	Omit []string
	// SourceRoot resolves relative identifiers when scanning sources for
	// exclusion markers.
	SourceRoot string
	Precision  int
}

// Engine is the coverage database collaborator: the rewrite operation and
// summary extraction.
type Engine interface {
	Rewrite(originDir, newDir, dbPath string) error
	Summarize(dbPath string, opts SummarizeOptions) (domain.Summary, error)
}

// Reporter renders a summary in one of the output formats.
type Reporter interface {
	Write(w io.Writer, summary domain.Summary, format OutputFormat) error
}

// ResultsStore persists per-test outcomes for the session.
type ResultsStore interface {
	Enabled() bool
	Record(outcome domain.TestOutcome) error
	HadErrors() (bool, error)
}

// RequirementTracker records test-to-requirement links.
type RequirementTracker interface {
	Enabled() bool
	Add(test, requirement string) error
}

// Differ computes the unified diff between two files for failure detail.
type Differ interface {
	Files(a, b string) (string, error)
}

// FileWatcher emits an event when the watched coverage database changes.
type FileWatcher interface {
	WatchFile(path string) error
	Events(ctx context.Context) <-chan struct{}
	Close() error
}

// WatchCallback is invoked after each watch-triggered report run.
type WatchCallback func(runNumber int, err error)

type RewriteOptions struct {
	ConfigPath string
	Database   string
	From       string
	To         string
}

type ReportOptions struct {
	ConfigPath string
	Database   string
	Output     OutputFormat
	OS         string
}

type FinalizeOptions struct {
	ConfigPath string
	Database   string
	OS         string
}

type RecordOptions struct {
	ConfigPath  string
	Test        string
	Phase       string
	Status      string
	Detail      string
	Requirement string
	// Expected and Actual optionally name files whose unified diff
	// becomes the failure detail.
	Expected string
	Actual   string
}

type WatchOptions struct {
	ConfigPath string
	Database   string
	Output     OutputFormat
	OS         string
}
