package crossway

import (
	"testing"
)

func TestSimulationState_Cursor(t *testing.T) {
	s := newSimulationState()
	s.Schedule = []LaneID{Lane2, Lane4, Lane1, Lane3}

	if s.Current() != Lane2 || s.Next() != Lane4 {
		t.Errorf("Expected Lane 2 then Lane 4, got %s then %s", s.Current(), s.Next())
	}
	if s.Cursor.Remaining != GreenSeconds {
		t.Errorf("Expected a fresh cursor at %d, got %d", GreenSeconds, s.Cursor.Remaining)
	}

	s.Cursor.Index = 3
	if s.Current() != Lane3 || s.Next() != NoLane {
		t.Errorf("Expected Lane 3 with nothing after, got %s then %s", s.Current(), s.Next())
	}
	if s.Exhausted() {
		t.Error("Expected schedule not exhausted on its last lane")
	}

	s.Cursor.Index = 4
	if s.Current() != NoLane || !s.Exhausted() {
		t.Error("Expected an exhausted schedule past its last lane")
	}
}

func TestSimulationState_Clone(t *testing.T) {
	s := newSimulationState()
	s.Counts = map[LaneID]int{Lane1: 3}
	s.Schedule = []LaneID{Lane1, Lane2, Lane3, Lane4}

	c := s.Clone()
	c.Counts[Lane1] = 9
	c.Schedule[0] = Lane4
	c.Lights = c.Lights.Set(Lane1, Green)

	if s.Counts[Lane1] != 3 || s.Schedule[0] != Lane1 || s.Lights.Get(Lane1) != Red {
		t.Error("Expected Clone to be independent of the original")
	}

	empty := SimulationState{}.Clone()
	if empty.Counts != nil || empty.Schedule != nil {
		t.Error("Expected Clone of an empty state to stay empty")
	}
}
