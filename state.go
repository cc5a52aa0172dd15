package crossway

import (
	"time"

	"github.com/google/uuid"
)

const (
	// GreenSeconds is the countdown each scheduled lane starts its green from
	GreenSeconds = 10

	// TickInterval is the period of the cycle tick
	TickInterval = time.Second

	// EmergencyDuration is how long an emergency lane is held green
	EmergencyDuration = 5 * time.Second
)

// Cursor points at the lane currently served and the seconds it has left
type Cursor struct {
	Index     int
	Remaining int
}

// Emergency is the preemption state of the intersection
type Emergency struct {
	Active bool
	Lane   LaneID
}

// SimulationState is everything a run knows about the intersection
type SimulationState struct {
	RunID     uuid.UUID
	Counts    map[LaneID]int
	Schedule  []LaneID
	Cursor    Cursor
	Emergency Emergency
	Lights    Lights
	Running   bool
	Ticks     int
}

func newSimulationState() SimulationState {
	return SimulationState{
		Lights: AllRed(),
		Cursor: Cursor{Remaining: GreenSeconds},
	}
}

// Clone returns a deep copy safe to hand out to callers
func (s SimulationState) Clone() SimulationState {
	c := s
	if s.Counts != nil {
		c.Counts = make(map[LaneID]int, len(s.Counts))
		for k, v := range s.Counts {
			c.Counts[k] = v
		}
	}
	if s.Schedule != nil {
		c.Schedule = make([]LaneID, len(s.Schedule))
		copy(c.Schedule, s.Schedule)
	}
	return c
}

// Current returns the lane the cursor points at, or NoLane once the
// schedule is exhausted
func (s SimulationState) Current() LaneID {
	if s.Cursor.Index < 0 || s.Cursor.Index >= len(s.Schedule) {
		return NoLane
	}
	return s.Schedule[s.Cursor.Index]
}

// Next returns the lane following the current one, or NoLane
func (s SimulationState) Next() LaneID {
	i := s.Cursor.Index + 1
	if i < 1 || i >= len(s.Schedule) {
		return NoLane
	}
	return s.Schedule[i]
}

// Exhausted reports whether every scheduled lane has been served
func (s SimulationState) Exhausted() bool {
	return s.Cursor.Index >= len(s.Schedule)
}
