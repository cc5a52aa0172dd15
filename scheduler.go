package crossway

import (
	"errors"
	"fmt"

	"github.com/anggasct/crossway/pkg/clock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Status messages shown to the user
const (
	StatusInvalidInput = "Invalid Input! Enter numbers only."
	StatusComplete     = "Simulation Complete!"
	StatusResuming     = "Resuming normal cycle..."
)

// EmergencyStatus is the status shown while lane is being cleared
func EmergencyStatus(lane LaneID) string {
	return fmt.Sprintf("Emergency! Clearing %s...", lane)
}

// TimeLeftStatus is the status shown while lane is served
func TimeLeftStatus(lane LaneID, remaining int) string {
	return fmt.Sprintf("%s: Time Left: %ds", lane, remaining)
}

// Panel is the input side of the display: the lane count fields and the
// emergency selector.
type Panel interface {
	// LaneCounts returns the raw text typed for every lane
	LaneCounts() map[LaneID]string

	// EmergencyDesignation returns the current selector value
	EmergencyDesignation() string

	// ClearEmergencyDesignation resets the selector to "none"
	ClearEmergencyDesignation()
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithLogger sets the logger used by the scheduler
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Scheduler) {
		s.log = log
	}
}

// WithObserver registers an observer at construction time
func WithObserver(observer Observer) Option {
	return func(s *Scheduler) {
		s.observers.AddObserver(observer)
	}
}

// Scheduler runs the intersection: it orders the lanes by vehicle count,
// serves them one after the other and lets an emergency preempt the cycle.
//
// A Scheduler is not safe for concurrent use. Every method and every clock
// callback must run on the same goroutine, which clock.Manual and
// clock.Loop both guarantee.
type Scheduler struct {
	clock     clock.Clock
	panel     Panel
	observers *ObserverManager
	log       logrus.FieldLogger

	state          SimulationState
	tickTimer      clock.Timer
	emergencyTimer clock.Timer
}

// NewScheduler creates an idle scheduler driven by c and reading input
// from panel
func NewScheduler(c clock.Clock, panel Panel, opts ...Option) (*Scheduler, error) {
	if c == nil {
		return nil, NewConfigurationError("Scheduler", "clock is required")
	}
	if panel == nil {
		return nil, NewConfigurationError("Scheduler", "panel is required")
	}
	s := &Scheduler{
		clock: c,
		panel: panel,
		log:   logrus.WithField("module", "scheduler"),
		state: newSimulationState(),
	}
	s.observers = NewObserverManager(nil)
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddObserver adds an observer
func (s *Scheduler) AddObserver(observer Observer) {
	s.observers.AddObserver(observer)
}

// RemoveObserver removes an observer
func (s *Scheduler) RemoveObserver(observer Observer) {
	s.observers.RemoveObserver(observer)
}

// State returns a copy of the current simulation state
func (s *Scheduler) State() SimulationState {
	return s.state.Clone()
}

// Running reports whether a run is in progress
func (s *Scheduler) Running() bool {
	return s.state.Running
}

// Start reads the lane counts from the panel and starts a run
func (s *Scheduler) Start() error {
	return s.StartWith(s.panel.LaneCounts())
}

// StartWith starts a run from raw lane count text. Invalid input returns
// an *InvalidInputError and leaves the scheduler untouched. A run already
// in progress is replaced, and its pending callbacks are cancelled.
func (s *Scheduler) StartWith(raw map[LaneID]string) error {
	counts, err := ParseCounts(raw)
	if err != nil {
		s.log.WithError(err).Warn("lane counts rejected")
		s.observers.NotifyStatus(StatusInvalidInput)
		var inputErr *InvalidInputError
		if errors.As(err, &inputErr) {
			s.observers.NotifyInputRejected(inputErr)
		}
		return err
	}

	s.cancelTimers()
	if s.state.Emergency.Active {
		// the interrupted emergency belongs to the replaced run
		s.panel.ClearEmergencyDesignation()
	}
	wasRunning := s.state.Running
	lights := s.state.Lights

	s.state = newSimulationState()
	s.state.RunID = uuid.New()
	s.state.Counts = counts
	s.state.Schedule = BuildSchedule(counts)
	s.state.Lights = lights
	s.state.Running = true

	s.log.WithField("run", s.state.RunID).Infof("run started, schedule %v, counts %v", s.state.Schedule, counts)
	snapshot := s.State()
	s.observers.NotifyScheduleBuilt(snapshot.RunID, snapshot.Schedule, snapshot.Counts)
	if !wasRunning {
		s.observers.NotifyRunState(true)
	}

	s.fire()
	return nil
}

// Tick advances the intersection by one second. designation is the lane
// currently selected for an emergency, NoLane if none.
func (s *Scheduler) Tick(designation LaneID) TickResult {
	st := &s.state
	res := TickResult{RunID: st.RunID, Tick: st.Ticks}

	if !st.Running {
		res.Outcome = OutcomeIdle
		return res
	}

	if st.Emergency.Active {
		if designation.Valid() && designation != st.Emergency.Lane {
			s.log.WithField("run", st.RunID).Warnf("ignoring emergency for %s while clearing %s", designation, st.Emergency.Lane)
			s.observers.NotifyEmergencyIgnored(designation, st.Emergency.Lane)
		}
		res.Outcome = OutcomeSuspended
		res.Emergency = st.Emergency.Lane
		s.observers.NotifyTick(res)
		return res
	}

	st.Ticks++

	switch {
	case designation.Valid():
		s.startEmergency(designation)
		res.Outcome = OutcomeEmergencyStarted
		res.Lane = designation
		res.Emergency = designation

	case st.Exhausted():
		s.complete()
		res.Outcome = OutcomeComplete

	default:
		current, next := st.Current(), st.Next()
		lights := AllRed().Set(current, Green)
		if next.Valid() {
			lights = lights.Set(next, Yellow)
		}
		s.applyLights(lights)

		res.Outcome = OutcomeCycle
		res.Lane = current
		res.Next = next
		res.Remaining = st.Cursor.Remaining
		s.log.Debugf("tick %d: %s green, %d s left", res.Tick, current, st.Cursor.Remaining)
		s.observers.NotifyStatus(TimeLeftStatus(current, st.Cursor.Remaining))

		if st.Cursor.Remaining > 0 {
			st.Cursor.Remaining--
		} else {
			st.Cursor.Remaining = GreenSeconds
			st.Cursor.Index++
		}
	}

	s.observers.NotifyTick(res)
	return res
}

// EndEmergency releases the emergency lane and resumes the cycle where it
// was interrupted. It does nothing when no emergency is active.
func (s *Scheduler) EndEmergency() {
	st := &s.state
	if !st.Emergency.Active {
		return
	}
	if s.emergencyTimer != nil {
		s.emergencyTimer.Stop()
		s.emergencyTimer = nil
	}

	lane := st.Emergency.Lane
	st.Emergency = Emergency{}
	s.panel.ClearEmergencyDesignation()

	s.log.WithField("run", st.RunID).Infof("emergency on %s cleared, resuming at %+v", lane, st.Cursor)
	s.observers.NotifyStatus(StatusResuming)
	s.observers.NotifyEmergencyEnded(lane, st.Cursor)

	if st.Running {
		s.armTick()
	}
}

// Stop ends the current run and cancels every pending callback. An
// emergency in progress is abandoned and its designation cleared.
func (s *Scheduler) Stop() {
	s.cancelTimers()
	if s.state.Emergency.Active {
		s.panel.ClearEmergencyDesignation()
	}
	s.state.Emergency = Emergency{}
	if s.state.Running {
		s.state.Running = false
		s.log.WithField("run", s.state.RunID).Info("run stopped")
		s.observers.NotifyRunState(false)
	}
}

// fire is the periodic tick callback
func (s *Scheduler) fire() {
	s.tickTimer = nil
	res := s.Tick(ParseLaneID(s.panel.EmergencyDesignation()))
	if res.Outcome == OutcomeCycle {
		s.armTick()
	}
}

func (s *Scheduler) armTick() {
	s.stopTick()
	runID := s.state.RunID
	s.tickTimer = s.clock.AfterFunc(TickInterval, func() {
		if s.state.RunID == runID {
			s.fire()
		}
	})
}

func (s *Scheduler) stopTick() {
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
}

func (s *Scheduler) cancelTimers() {
	s.stopTick()
	if s.emergencyTimer != nil {
		s.emergencyTimer.Stop()
		s.emergencyTimer = nil
	}
}

func (s *Scheduler) startEmergency(lane LaneID) {
	st := &s.state
	st.Emergency = Emergency{Active: true, Lane: lane}
	s.stopTick()

	s.applyLights(AllRed())
	s.applyLights(AllRed().Set(lane, Green))

	s.log.WithField("run", st.RunID).Warnf("emergency on %s, cycle held at %+v", lane, st.Cursor)
	s.observers.NotifyStatus(EmergencyStatus(lane))
	s.observers.NotifyEmergencyStarted(lane, st.Cursor)

	runID := st.RunID
	s.emergencyTimer = s.clock.AfterFunc(EmergencyDuration, func() {
		if s.state.RunID == runID {
			s.EndEmergency()
		}
	})
}

func (s *Scheduler) complete() {
	s.stopTick()
	s.state.Running = false
	s.log.WithField("run", s.state.RunID).Infof("run complete after %d ticks", s.state.Ticks)
	s.observers.NotifyStatus(StatusComplete)
	s.observers.NotifyRunState(false)
}

func (s *Scheduler) applyLights(target Lights) {
	for _, lane := range AllLanes {
		if s.state.Lights.Get(lane) == target.Get(lane) {
			continue
		}
		s.state.Lights = s.state.Lights.Set(lane, target.Get(lane))
		s.observers.NotifyLight(lane, target.Get(lane))
	}
}
