package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/covfix/covfix/internal/application"
	"github.com/covfix/covfix/internal/domain"
)

func TestOutputValueSet(t *testing.T) {
	val := outputValue(application.OutputText)
	if err := val.Set("json"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if string(val) != "json" {
		t.Fatalf("expected json")
	}
	if err := val.Set("bad"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteConfigFile(t *testing.T) {
	cfg := application.DefaultConfig()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := writeConfigFile(path, cfg, os.Stdout, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file: %v", err)
	}
	// A second write without force refuses to clobber.
	if err := writeConfigFile(path, cfg, os.Stdout, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if err := writeConfigFile(path, cfg, os.Stdout, true); err != nil {
		t.Fatalf("forced write: %v", err)
	}
}

type fakeService struct {
	rewriteErr   error
	rewriteOpts  application.RewriteOptions
	reportErr    error
	summary      domain.Summary
	summaryErr   error
	recordErr    error
	recordOpts   application.RecordOptions
	finalizeCode int
	finalizeErr  error
	excludes     []string
	watchErr     error
}

func (f *fakeService) Rewrite(_ context.Context, opts application.RewriteOptions) error {
	f.rewriteOpts = opts
	return f.rewriteErr
}

func (f *fakeService) Report(_ context.Context, _ application.ReportOptions) error {
	return f.reportErr
}

func (f *fakeService) ReportSummary(_ context.Context, _ application.ReportOptions) (domain.Summary, error) {
	return f.summary, f.summaryErr
}

func (f *fakeService) Record(_ context.Context, opts application.RecordOptions, _ application.ResultsStore, _ application.RequirementTracker, state *domain.SessionState) error {
	f.recordOpts = opts
	return f.recordErr
}

func (f *fakeService) Finalize(_ context.Context, _ application.FinalizeOptions, _ application.ResultsStore) (int, error) {
	return f.finalizeCode, f.finalizeErr
}

func (f *fakeService) Excludes(_ context.Context, _ string) []string {
	return f.excludes
}

func (f *fakeService) Watch(_ context.Context, _ application.WatchOptions, _ application.FileWatcher, _ application.WatchCallback) error {
	return f.watchErr
}

func run(svc Service, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Run(append([]string{"covfix"}, args...), &stdout, &stderr, svc)
	return code, stdout.String(), stderr.String()
}

func TestRunNoArgs(t *testing.T) {
	code, _, stderr := run(&fakeService{})
	if code != 2 {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if !strings.Contains(stderr, "Commands:") {
		t.Fatalf("expected usage on stderr")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	code, _, _ := run(&fakeService{}, "frobnicate")
	if code != 2 {
		t.Fatalf("expected usage exit, got %d", code)
	}
}

func TestRunRewrite(t *testing.T) {
	svc := &fakeService{}
	code, _, _ := run(svc, "rewrite", "--from", "/build", "--to", "/src", "--db", "c.out")
	if code != 0 {
		t.Fatalf("expected success, got %d", code)
	}
	if svc.rewriteOpts.From != "/build" || svc.rewriteOpts.To != "/src" || svc.rewriteOpts.Database != "c.out" {
		t.Fatalf("flags not forwarded: %+v", svc.rewriteOpts)
	}
}

func TestRunRewriteError(t *testing.T) {
	svc := &fakeService{rewriteErr: errors.New("boom")}
	code, _, stderr := run(svc, "rewrite", "--from", "/a", "--to", "/b")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "boom") {
		t.Fatalf("expected error on stderr, got %q", stderr)
	}
}

func TestRunFinalizeSessionStatus(t *testing.T) {
	svc := &fakeService{finalizeCode: domain.ExitSessionError}
	code, _, _ := run(svc, "finalize")
	if code != domain.ExitSessionError {
		t.Fatalf("expected session exit status %d, got %d", domain.ExitSessionError, code)
	}
}

func TestRunExcludes(t *testing.T) {
	svc := &fakeService{excludes: []string{"all: no cover", "linux-only"}}
	code, stdout, _ := run(svc, "excludes")
	if code != 0 {
		t.Fatalf("expected success, got %d", code)
	}
	if stdout != "all: no cover\nlinux-only\n" {
		t.Fatalf("unexpected output %q", stdout)
	}
}

func TestRunRecord(t *testing.T) {
	svc := &fakeService{}
	code, _, _ := run(svc, "record",
		"--test", "tests/test_fs.py::test_rm",
		"--status", "PASSED",
		"--req", "REQ-001",
		"--results", t.TempDir())
	if code != 0 {
		t.Fatalf("expected success, got %d", code)
	}
	if svc.recordOpts.Test != "tests/test_fs.py::test_rm" || svc.recordOpts.Requirement != "REQ-001" {
		t.Fatalf("flags not forwarded: %+v", svc.recordOpts)
	}
	if svc.recordOpts.Phase != string(domain.PhaseCall) {
		t.Fatalf("phase must default to call, got %q", svc.recordOpts.Phase)
	}
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := run(&fakeService{}, "version")
	if code != 0 {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "covfix") {
		t.Fatalf("unexpected version output %q", stdout)
	}
}

func TestRunInitNoInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".covfix.yaml")
	code, _, _ := run(&fakeService{}, "init", "--no-interactive", "--config", path)
	if code != 0 {
		t.Fatalf("expected success, got %d", code)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config written: %v", err)
	}
}

func TestRunInitWizardCancelled(t *testing.T) {
	orig := initWizard
	initWizard = func(cfg application.Config, _ io.Writer, _ io.Reader) (application.Config, bool, error) {
		return cfg, false, nil
	}
	defer func() { initWizard = orig }()

	path := filepath.Join(t.TempDir(), ".covfix.yaml")
	code, stdout, _ := run(&fakeService{}, "init", "--config", path)
	if code != 0 {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "cancelled") {
		t.Fatalf("expected cancellation notice, got %q", stdout)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("cancelled init must not write config")
	}
}

func TestSessionStoresPrecedence(t *testing.T) {
	t.Setenv("RESULTS_DIR", "/env/results")

	store, _, err := sessionStores(filepath.Join(t.TempDir(), "missing.yaml"), "/flag/results")
	if err != nil {
		t.Fatalf("session stores: %v", err)
	}
	if store.Dir != "/flag/results" {
		t.Fatalf("flag override must win, got %q", store.Dir)
	}

	store, _, err = sessionStores(filepath.Join(t.TempDir(), "missing.yaml"), "")
	if err != nil {
		t.Fatalf("session stores: %v", err)
	}
	if store.Dir != "/env/results" {
		t.Fatalf("env fallback expected, got %q", store.Dir)
	}
}

func TestSessionStoresFromConfig(t *testing.T) {
	t.Setenv("RESULTS_DIR", "/env/results")

	path := filepath.Join(t.TempDir(), ".covfix.yaml")
	content := "results:\n  dir: /cfg/results\nrequirements:\n  output: reqs.yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	store, tracker, err := sessionStores(path, "")
	if err != nil {
		t.Fatalf("session stores: %v", err)
	}
	if store.Dir != "/cfg/results" {
		t.Fatalf("config must beat env, got %q", store.Dir)
	}
	if tracker.Path != "reqs.yaml" {
		t.Fatalf("tracker path not resolved, got %q", tracker.Path)
	}
}
