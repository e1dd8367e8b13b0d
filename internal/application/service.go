package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/covfix/covfix/internal/domain"
)

// Service wires the collaborators behind the CLI operations. All state
// that spans hook invocations travels through explicit arguments; the
// service itself holds no per-session mutable state.
type Service struct {
	ConfigLoader ConfigLoader
	Engine       Engine
	Reporter     Reporter
	Differ       Differ
	Out          io.Writer
}

// Rewrite rewrites the coverage database so identifiers under the origin
// directory resolve against the visible source tree. The rule comes from
// the command line when given, otherwise from the configuration; with
// neither present the operation fails rather than guessing.
func (s *Service) Rewrite(ctx context.Context, opts RewriteOptions) error {
	cfg, err := s.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	rule := cfg.Rewrite
	if opts.From != "" || opts.To != "" {
		if opts.From == "" || opts.To == "" {
			return fmt.Errorf("rewrite needs both --from and --to")
		}
		rule = &RewriteRule{From: opts.From, To: opts.To}
	}
	if rule == nil {
		return fmt.Errorf("no rewrite rule configured")
	}

	db := firstNonEmpty(opts.Database, cfg.Database)
	slog.Debug("Rewriting coverage database", "db", db, "from", rule.From, "to", rule.To)
	return s.Engine.Rewrite(rule.From, rule.To, db)
}

// Report renders the coverage summary for an existing database in the
// requested format.
func (s *Service) Report(ctx context.Context, opts ReportOptions) error {
	summary, err := s.ReportSummary(ctx, opts)
	if err != nil {
		return err
	}
	return s.Reporter.Write(s.Out, summary, opts.Output)
}

// ReportSummary computes the summary for an existing database without
// rendering it.
func (s *Service) ReportSummary(ctx context.Context, opts ReportOptions) (domain.Summary, error) {
	cfg, err := s.loadConfig(opts.ConfigPath)
	if err != nil {
		return domain.Summary{}, err
	}
	return s.summarize(cfg, firstNonEmpty(opts.Database, cfg.Database), opts.OS)
}

// Record persists one test outcome: the results line, the failure diff
// file, the requirement link and the session error flag.
func (s *Service) Record(ctx context.Context, opts RecordOptions, store ResultsStore, tracker RequirementTracker, state *domain.SessionState) error {
	outcome, err := s.buildOutcome(opts)
	if err != nil {
		return err
	}

	state.Observe(outcome)
	if err := store.Record(outcome); err != nil {
		return err
	}
	if outcome.Requirement != "" && tracker != nil {
		return tracker.Add(outcome.ResultID(), outcome.Requirement)
	}
	return nil
}

// Finalize runs the session-finish sequence: optional path rewrite,
// exclude assembly for the current OS, report emission, and the session
// exit status. The returned status is zero unless session errors were
// recorded, in which case it is domain.ExitSessionError.
func (s *Service) Finalize(ctx context.Context, opts FinalizeOptions, store ResultsStore) (int, error) {
	cfg, err := s.loadConfig(opts.ConfigPath)
	if err != nil {
		return 0, err
	}
	db := firstNonEmpty(opts.Database, cfg.Database)

	if cfg.Rewrite != nil {
		slog.Debug("Rewriting coverage database", "db", db, "from", cfg.Rewrite.From, "to", cfg.Rewrite.To)
		if err := s.Engine.Rewrite(cfg.Rewrite.From, cfg.Rewrite.To, db); err != nil {
			return 0, err
		}
	}

	summary, err := s.summarize(cfg, db, opts.OS)
	if err != nil {
		return 0, err
	}

	if err := s.Reporter.Write(s.Out, summary, OutputText); err != nil {
		return 0, err
	}
	if cfg.Report.HTMLDir != "" {
		if err := s.writeReportFile(filepath.Join(cfg.Report.HTMLDir, "index.html"), summary, OutputHTML); err != nil {
			return 0, err
		}
	}
	if cfg.Report.XMLPath != "" {
		if err := s.writeReportFile(cfg.Report.XMLPath, summary, OutputXML); err != nil {
			return 0, err
		}
	}

	state := domain.SessionState{}
	if store != nil {
		hadErrors, err := store.HadErrors()
		if err != nil {
			return 0, err
		}
		state.HadError = hadErrors
	}
	return state.ExitStatus(), nil
}

// Excludes returns the exclusion marker list for the given OS, defaulting
// to the current one.
func (s *Service) Excludes(ctx context.Context, osName string) []string {
	if osName == "" {
		osName = domain.CurrentOS()
	}
	return domain.BuildExcludes(osName)
}

// Watch regenerates the report whenever the coverage database changes,
// until the context is canceled.
func (s *Service) Watch(ctx context.Context, opts WatchOptions, watcher FileWatcher, callback WatchCallback) error {
	cfg, err := s.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	db := firstNonEmpty(opts.Database, cfg.Database)
	if err := watcher.WatchFile(db); err != nil {
		return err
	}

	report := ReportOptions{ConfigPath: opts.ConfigPath, Database: db, Output: opts.Output, OS: opts.OS}
	run := 0
	runOnce := func() {
		run++
		err := s.Report(ctx, report)
		if callback != nil {
			callback(run, err)
		}
	}
	runOnce()

	events := watcher.Events(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return nil
			}
			runOnce()
		}
	}
}

func (s *Service) summarize(cfg Config, db, osName string) (domain.Summary, error) {
	if osName == "" {
		osName = domain.CurrentOS()
	}

	omit := append([]string(nil), cfg.Omit.Patterns...)
	if cfg.Omit.ConfDir != "" {
		extra, err := s.ConfigLoader.OmitFiles(cfg.Omit.ConfDir, osName)
		if err != nil {
			return domain.Summary{}, err
		}
		omit = append(omit, extra...)
	}

	return s.Engine.Summarize(db, SummarizeOptions{
		Excludes:   domain.BuildExcludes(osName),
		Omit:       omit,
		SourceRoot: cfg.SourceRoot,
		Precision:  cfg.Report.Precision,
	})
}

func (s *Service) buildOutcome(opts RecordOptions) (domain.TestOutcome, error) {
	if opts.Test == "" {
		return domain.TestOutcome{}, fmt.Errorf("missing test name")
	}

	phase := domain.Phase(opts.Phase)
	switch phase {
	case "":
		phase = domain.PhaseCall
	case domain.PhaseSetup, domain.PhaseCall, domain.PhaseTeardown:
	default:
		return domain.TestOutcome{}, fmt.Errorf("invalid phase: %s", opts.Phase)
	}

	status := domain.Status(opts.Status)
	switch status {
	case domain.StatusPassed, domain.StatusFailed, domain.StatusSkipped:
	default:
		return domain.TestOutcome{}, fmt.Errorf("invalid status: %s", opts.Status)
	}

	detail := opts.Detail
	if detail == "" && opts.Expected != "" && opts.Actual != "" && s.Differ != nil {
		diff, err := s.Differ.Files(opts.Expected, opts.Actual)
		if err != nil {
			return domain.TestOutcome{}, err
		}
		detail = diff
	}

	return domain.TestOutcome{
		Name:        opts.Test,
		Phase:       phase,
		Status:      status,
		Detail:      detail,
		Requirement: opts.Requirement,
	}, nil
}

func (s *Service) writeReportFile(path string, summary domain.Summary, format OutputFormat) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	file, err := os.Create(path) // #nosec G304 - destination comes from config
	if err != nil {
		return err
	}
	defer file.Close()
	return s.Reporter.Write(file, summary, format)
}

func (s *Service) loadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	exists, err := s.ConfigLoader.Exists(path)
	if err != nil {
		return Config{}, err
	}
	if !exists {
		return DefaultConfig(), nil
	}
	return s.ConfigLoader.Load(path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
