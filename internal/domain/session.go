package domain

import "strings"

// Phase identifies where in a test's lifecycle an outcome was produced.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseCall     Phase = "call"
	PhaseTeardown Phase = "teardown"
)

// Status is the result of one test phase.
type Status string

const (
	StatusPassed  Status = "PASSED"
	StatusFailed  Status = "FAILED"
	StatusSkipped Status = "SKIPPED"
)

// ExitSessionError is the process exit status reported when a session saw
// errors (failures outside the test call proper), as opposed to plain test
// failures which keep the runner's own exit status.
const ExitSessionError = 3

// TestOutcome is one recorded test result, as reported by the host test
// runner at a lifecycle hook point.
type TestOutcome struct {
	// Name is the runner's test identifier, e.g. "tests/anod/test_spec.py::test_deps".
	Name   string
	Phase  Phase
	Status Status
	// Detail holds the failure representation written to the diff file.
	Detail string
	// Requirement optionally names a "REQ-*" requirement the test covers.
	Requirement string
}

// ResultID returns the test name mangled for use as a results-file key and
// diff filename: path separators become dots and "::" becomes "--".
func (o TestOutcome) ResultID() string {
	name := strings.ReplaceAll(o.Name, "::", "--")
	return strings.ReplaceAll(name, "/", ".")
}

// IsError reports whether this outcome is an error rather than a test
// failure: a failed setup or teardown phase, typically a broken fixture or
// a syntax error in test code.
func (o TestOutcome) IsError() bool {
	return o.Status == StatusFailed && o.Phase != PhaseCall
}

// SessionState carries the error flag for one test-session run. It is
// passed explicitly into both the per-test outcome handler and session
// finalization; its lifecycle is scoped to a single session and it is
// never persisted beyond it.
type SessionState struct {
	HadError bool
}

// Observe folds one test outcome into the session state.
func (s *SessionState) Observe(o TestOutcome) {
	if o.IsError() {
		s.HadError = true
	}
}

// ExitStatus returns the exit status the enclosing session should report:
// ExitSessionError when errors were observed, zero otherwise.
func (s *SessionState) ExitStatus() int {
	if s.HadError {
		return ExitSessionError
	}
	return 0
}
