package crossway

import (
	"testing"
)

func TestTickOutcome_String(t *testing.T) {
	testCases := map[TickOutcome]string{
		OutcomeIdle:             "idle",
		OutcomeSuspended:        "suspended",
		OutcomeEmergencyStarted: "emergency_started",
		OutcomeCycle:            "cycle",
		OutcomeComplete:         "complete",
		TickOutcome(99):         "unknown",
	}

	for outcome, expected := range testCases {
		if outcome.String() != expected {
			t.Errorf("Expected %q, got %q", expected, outcome.String())
		}
	}
}

func TestTickResult_Served(t *testing.T) {
	testCases := []struct {
		outcome TickOutcome
		served  bool
	}{
		{OutcomeIdle, false},
		{OutcomeSuspended, false},
		{OutcomeEmergencyStarted, true},
		{OutcomeCycle, true},
		{OutcomeComplete, true},
	}

	for _, tc := range testCases {
		if got := (TickResult{Outcome: tc.outcome}).Served(); got != tc.served {
			t.Errorf("%s: expected Served() = %v, got %v", tc.outcome, tc.served, got)
		}
	}
}
