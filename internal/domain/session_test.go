package domain

import "testing"

func TestResultID(t *testing.T) {
	outcome := TestOutcome{Name: "tests/anod/test_spec.py::test_deps"}
	if got := outcome.ResultID(); got != "tests.anod.test_spec.py--test_deps" {
		t.Fatalf("unexpected result id %q", got)
	}
}

func TestResultIDPlainName(t *testing.T) {
	outcome := TestOutcome{Name: "test_simple"}
	if got := outcome.ResultID(); got != "test_simple" {
		t.Fatalf("unexpected result id %q", got)
	}
}

func TestIsError(t *testing.T) {
	cases := []struct {
		name    string
		outcome TestOutcome
		want    bool
	}{
		{"setup failure", TestOutcome{Phase: PhaseSetup, Status: StatusFailed}, true},
		{"teardown failure", TestOutcome{Phase: PhaseTeardown, Status: StatusFailed}, true},
		{"call failure", TestOutcome{Phase: PhaseCall, Status: StatusFailed}, false},
		{"setup pass", TestOutcome{Phase: PhaseSetup, Status: StatusPassed}, false},
		{"call skip", TestOutcome{Phase: PhaseCall, Status: StatusSkipped}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.outcome.IsError(); got != tc.want {
				t.Fatalf("IsError = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSessionStateExitStatus(t *testing.T) {
	state := SessionState{}
	if got := state.ExitStatus(); got != 0 {
		t.Fatalf("clean session must exit 0, got %d", got)
	}

	state.Observe(TestOutcome{Phase: PhaseCall, Status: StatusFailed})
	if got := state.ExitStatus(); got != 0 {
		t.Fatalf("test failures alone must not flip the session status, got %d", got)
	}

	state.Observe(TestOutcome{Phase: PhaseSetup, Status: StatusFailed})
	if got := state.ExitStatus(); got != ExitSessionError {
		t.Fatalf("expected exit %d after a session error, got %d", ExitSessionError, got)
	}

	// The flag is sticky.
	state.Observe(TestOutcome{Phase: PhaseCall, Status: StatusPassed})
	if got := state.ExitStatus(); got != ExitSessionError {
		t.Fatalf("error flag must stay set, got %d", got)
	}
}
