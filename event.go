package crossway

import (
	"github.com/google/uuid"
)

// TickOutcome describes what a tick did
type TickOutcome int

const (
	// OutcomeIdle means no run was in progress
	OutcomeIdle TickOutcome = iota
	// OutcomeSuspended means an emergency is being serviced and the cycle is held
	OutcomeSuspended
	// OutcomeEmergencyStarted means the tick preempted the cycle
	OutcomeEmergencyStarted
	// OutcomeCycle means the scheduled lane was served for one second
	OutcomeCycle
	// OutcomeComplete means the schedule was exhausted and the run ended
	OutcomeComplete
)

func (o TickOutcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeSuspended:
		return "suspended"
	case OutcomeEmergencyStarted:
		return "emergency_started"
	case OutcomeCycle:
		return "cycle"
	case OutcomeComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// TickResult represents the result of processing a tick
type TickResult struct {
	Outcome TickOutcome
	RunID   uuid.UUID
	Tick    int

	// Lane is the lane held green by this tick, Next the yellow one
	Lane LaneID
	Next LaneID

	// Remaining is the countdown shown to the user for Lane
	Remaining int

	// Emergency is the lane being serviced, if any
	Emergency LaneID
}

// Served returns true if the tick changed the intersection
func (r TickResult) Served() bool {
	return r.Outcome == OutcomeCycle || r.Outcome == OutcomeEmergencyStarted || r.Outcome == OutcomeComplete
}
