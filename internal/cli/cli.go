package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/covfix/covfix/internal/application"
	"github.com/covfix/covfix/internal/domain"
	"github.com/covfix/covfix/internal/infrastructure/config"
	"github.com/covfix/covfix/internal/infrastructure/coverdb"
	"github.com/covfix/covfix/internal/infrastructure/report"
	"github.com/covfix/covfix/internal/infrastructure/requirements"
	"github.com/covfix/covfix/internal/infrastructure/results"
	"github.com/covfix/covfix/internal/infrastructure/textdiff"
	"github.com/covfix/covfix/internal/infrastructure/watcher"
	"github.com/covfix/covfix/internal/infrastructure/wizard"
	"github.com/covfix/covfix/internal/mcp"
)

const defaultConfigPath = ".covfix.yaml"

type Service interface {
	Rewrite(ctx context.Context, opts application.RewriteOptions) error
	Report(ctx context.Context, opts application.ReportOptions) error
	ReportSummary(ctx context.Context, opts application.ReportOptions) (domain.Summary, error)
	Record(ctx context.Context, opts application.RecordOptions, store application.ResultsStore, tracker application.RequirementTracker, state *domain.SessionState) error
	Finalize(ctx context.Context, opts application.FinalizeOptions, store application.ResultsStore) (int, error)
	Excludes(ctx context.Context, osName string) []string
	Watch(ctx context.Context, opts application.WatchOptions, watcher application.FileWatcher, callback application.WatchCallback) error
}

var initWizard = wizard.Run

func Run(args []string, stdout, stderr io.Writer, svc Service) int {
	if len(args) < 2 {
		usage(stderr)
		return 2
	}

	ctx := context.Background()

	switch args[1] {
	case "rewrite":
		fs := flag.NewFlagSet("rewrite", flag.ExitOnError)
		configPath := fs.String("config", defaultConfigPath, "Config file path")
		db := fs.String("db", "", "Coverage database path")
		from := fs.String("from", "", "Origin directory prefix")
		to := fs.String("to", "", "Replacement directory prefix")
		logOpts := logFlags(fs)
		_ = fs.Parse(args[2:])
		configureLogging(logOpts)
		err := svc.Rewrite(ctx, application.RewriteOptions{
			ConfigPath: *configPath,
			Database:   *db,
			From:       *from,
			To:         *to,
		})
		return exitCode(err, 1, stderr)
	case "finalize":
		fs := flag.NewFlagSet("finalize", flag.ExitOnError)
		configPath := fs.String("config", defaultConfigPath, "Config file path")
		db := fs.String("db", "", "Coverage database path")
		osName := fs.String("os", "", "Operating system name (default: current)")
		resultsDir := fs.String("results", "", "Results directory override")
		logOpts := logFlags(fs)
		_ = fs.Parse(args[2:])
		configureLogging(logOpts)
		store, _, err := sessionStores(*configPath, *resultsDir)
		if err != nil {
			return exitCode(err, 1, stderr)
		}
		status, err := svc.Finalize(ctx, application.FinalizeOptions{
			ConfigPath: *configPath,
			Database:   *db,
			OS:         *osName,
		}, store)
		if err != nil {
			return exitCode(err, 1, stderr)
		}
		return status
	case "report":
		fs := flag.NewFlagSet("report", flag.ExitOnError)
		configPath := fs.String("config", defaultConfigPath, "Config file path")
		db := fs.String("db", "", "Coverage database path")
		osName := fs.String("os", "", "Operating system name (default: current)")
		output := outputFlags(fs)
		logOpts := logFlags(fs)
		_ = fs.Parse(args[2:])
		configureLogging(logOpts)
		err := svc.Report(ctx, application.ReportOptions{
			ConfigPath: *configPath,
			Database:   *db,
			Output:     *output,
			OS:         *osName,
		})
		return exitCode(err, 1, stderr)
	case "record":
		fs := flag.NewFlagSet("record", flag.ExitOnError)
		configPath := fs.String("config", defaultConfigPath, "Config file path")
		test := fs.String("test", "", "Test identifier, e.g. tests/test_fs.py::test_rm")
		phase := fs.String("phase", string(domain.PhaseCall), "Lifecycle phase: setup|call|teardown")
		status := fs.String("status", "", "Outcome: PASSED|FAILED|SKIPPED")
		detail := fs.String("detail", "", "Failure detail written to the diff file")
		req := fs.String("req", "", "Requirement tag covered by the test (REQ-*)")
		expected := fs.String("expected", "", "Expected-output file for diff generation")
		actual := fs.String("actual", "", "Actual-output file for diff generation")
		resultsDir := fs.String("results", "", "Results directory override")
		logOpts := logFlags(fs)
		_ = fs.Parse(args[2:])
		configureLogging(logOpts)
		store, tracker, err := sessionStores(*configPath, *resultsDir)
		if err != nil {
			return exitCode(err, 1, stderr)
		}
		state := domain.SessionState{}
		err = svc.Record(ctx, application.RecordOptions{
			ConfigPath:  *configPath,
			Test:        *test,
			Phase:       *phase,
			Status:      *status,
			Detail:      *detail,
			Requirement: *req,
			Expected:    *expected,
			Actual:      *actual,
		}, store, tracker, &state)
		return exitCode(err, 1, stderr)
	case "excludes":
		fs := flag.NewFlagSet("excludes", flag.ExitOnError)
		osName := fs.String("os", "", "Operating system name (default: current)")
		_ = fs.Parse(args[2:])
		for _, pattern := range svc.Excludes(ctx, *osName) {
			fmt.Fprintln(stdout, pattern)
		}
		return 0
	case "init":
		fs := flag.NewFlagSet("init", flag.ExitOnError)
		configPath := fs.String("config", defaultConfigPath, "Config file path")
		force := fs.Bool("force", false, "Overwrite existing config file")
		noInteractive := fs.Bool("no-interactive", false, "Skip the interactive init wizard")
		_ = fs.Parse(args[2:])
		cfg := application.DefaultConfig()
		if !*noInteractive {
			var confirmed bool
			var err error
			cfg, confirmed, err = initWizard(cfg, stdout, os.Stdin)
			if err != nil {
				return exitCode(err, 5, stderr)
			}
			if !confirmed {
				fmt.Fprintln(stdout, "Init cancelled; no configuration written.")
				return 0
			}
		}
		if err := writeConfigFile(*configPath, cfg, stdout, *force); err != nil {
			return exitCode(err, 2, stderr)
		}
		return 0
	case "watch":
		fs := flag.NewFlagSet("watch", flag.ExitOnError)
		configPath := fs.String("config", defaultConfigPath, "Config file path")
		db := fs.String("db", "", "Coverage database path")
		osName := fs.String("os", "", "Operating system name (default: current)")
		output := outputFlags(fs)
		logOpts := logFlags(fs)
		_ = fs.Parse(args[2:])
		configureLogging(logOpts)
		return runWatch(ctx, stdout, stderr, svc, application.WatchOptions{
			ConfigPath: *configPath,
			Database:   *db,
			Output:     *output,
			OS:         *osName,
		})
	case "mcp":
		fs := flag.NewFlagSet("mcp", flag.ExitOnError)
		configPath := fs.String("config", defaultConfigPath, "Config file path")
		db := fs.String("db", "", "Coverage database path")
		logOpts := logFlags(fs)
		_ = fs.Parse(args[2:])
		configureLogging(logOpts)
		server := mcp.New(svc, mcp.Config{ConfigPath: *configPath, Database: *db})
		return exitCode(server.Run(ctx), 1, stderr)
	case "version":
		fmt.Fprintf(stdout, "covfix %s (commit %s, built %s)\n", Version, Commit, Date)
		return 0
	default:
		usage(stderr)
		return 2
	}
}

func BuildService(out *os.File) *application.Service {
	return &application.Service{
		ConfigLoader: config.Loader{},
		Engine:       coverdb.Engine{},
		Reporter:     report.Writer{},
		Differ:       textdiff.FileDiffer{},
		Out:          out,
	}
}

// sessionStores resolves the results store and requirement tracker for a
// session: the explicit override wins, then the config file, then the
// RESULTS_DIR environment variable the host runners already use.
func sessionStores(configPath, override string) (*results.Store, *requirements.Tracker, error) {
	cfg := application.DefaultConfig()
	loader := config.Loader{}
	if exists, err := loader.Exists(configPath); err != nil {
		return nil, nil, err
	} else if exists {
		cfg, err = loader.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
	}

	dir := override
	if dir == "" {
		dir = cfg.ResultsDir
	}
	if dir == "" {
		dir = os.Getenv("RESULTS_DIR")
	}
	return &results.Store{Dir: dir}, &requirements.Tracker{Path: cfg.Requirements}, nil
}

func outputFlags(fs *flag.FlagSet) *application.OutputFormat {
	output := application.OutputText
	fs.Var((*outputValue)(&output), "output", "Output format: text|json|html|xml")
	fs.Var((*outputValue)(&output), "o", "Output format: text|json|html|xml")
	return &output
}

type outputValue application.OutputFormat

func (o *outputValue) String() string { return string(*o) }

func (o *outputValue) Set(value string) error {
	switch value {
	case string(application.OutputText), string(application.OutputJSON),
		string(application.OutputHTML), string(application.OutputXML):
		*o = outputValue(value)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s", value)
	}
}

func writeConfigFile(path string, cfg application.Config, stdout io.Writer, force bool) error {
	if path == "-" {
		return config.Write(stdout, cfg)
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists", path)
		}
	}
	file, err := os.Create(path) // #nosec G304 - caller-supplied config path
	if err != nil {
		return err
	}
	defer file.Close()
	return config.Write(file, cfg)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `covfix <command>

Commands:
  rewrite   Rewrite coverage database paths from the install dir to the source tree
  finalize  Run the session-finish sequence: rewrite, excludes, reports, exit status
  report    Render a coverage summary for an existing database
  record    Record one test outcome in the results directory
  excludes  Print the exclusion marker list for an OS
  init      Write .covfix.yaml (interactive unless --no-interactive)
  watch     Re-render the report whenever the database changes
  mcp       Serve rewrite/report/excludes over the Model Context Protocol
  version   Print version information`)
}

func exitCode(err error, code int, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, err)
	return code
}

func runWatch(ctx context.Context, stdout, stderr io.Writer, svc Service, opts application.WatchOptions) int {
	w, err := watcher.New(watcher.WithDebounce(500 * time.Millisecond))
	if err != nil {
		fmt.Fprintf(stderr, "failed to create watcher: %v\n", err)
		return 1
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(stdout, "\nStopping watch mode...")
		cancel()
	}()

	fmt.Fprintln(stdout, "Watching the coverage database... (Ctrl+C to stop)")
	fmt.Fprintln(stdout, "")

	callback := func(runNumber int, runErr error) {
		fmt.Fprintf(stdout, "\n--- Run #%d at %s ---\n", runNumber, time.Now().Format("15:04:05"))
		if runErr != nil {
			fmt.Fprintf(stderr, "report failed: %v\n", runErr)
		}
	}

	if err := svc.Watch(ctx, opts, w, callback); err != nil {
		if ctx.Err() == context.Canceled {
			return 0
		}
		fmt.Fprintf(stderr, "watch error: %v\n", err)
		return 1
	}
	return 0
}
