package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/crossway"
	"github.com/google/uuid"
)

// ValidationObserver checks the signal invariants after every tick: in
// normal operation exactly one lane is green and at most one is yellow,
// during an emergency the emergency lane is the only green and nothing is
// yellow.
type ValidationObserver struct {
	crossway.BaseObserver

	lights     crossway.Lights
	emergency  crossway.LaneID
	checked    int
	violations []string
	mutex      sync.RWMutex
}

// NewValidationObserver creates a new validation observer
func NewValidationObserver() *ValidationObserver {
	return &ValidationObserver{
		lights:     crossway.AllRed(),
		violations: make([]string, 0),
	}
}

// OnLaneLightChanged tracks the displayed signals
func (o *ValidationObserver) OnLaneLightChanged(lane crossway.LaneID, color crossway.LightColor) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.lights = o.lights.Set(lane, color)
}

// OnScheduleBuilt resets the emergency tracking for a new run
func (o *ValidationObserver) OnScheduleBuilt(uuid.UUID, []crossway.LaneID, map[crossway.LaneID]int) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.emergency = crossway.NoLane
}

// OnEmergencyStarted validates the preemption lights
func (o *ValidationObserver) OnEmergencyStarted(lane crossway.LaneID, _ crossway.Cursor) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.emergency = lane
}

// OnEmergencyEnded clears the emergency tracking
func (o *ValidationObserver) OnEmergencyEnded(crossway.LaneID, crossway.Cursor) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.emergency = crossway.NoLane
}

// OnTick validates the lights a tick left behind
func (o *ValidationObserver) OnTick(result crossway.TickResult) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if result.Outcome != crossway.OutcomeCycle && result.Outcome != crossway.OutcomeEmergencyStarted {
		return
	}
	o.checked++

	greens := o.lights.With(crossway.Green)
	yellows := o.lights.With(crossway.Yellow)

	if o.emergency.Valid() {
		if len(greens) != 1 || greens[0] != o.emergency {
			o.addViolation("tick %d: emergency on %s but green lanes are %v", result.Tick, o.emergency, greens)
		}
		if len(yellows) != 0 {
			o.addViolation("tick %d: yellow lanes %v during emergency", result.Tick, yellows)
		}
		return
	}

	if len(greens) != 1 {
		o.addViolation("tick %d: expected exactly one green lane, got %v", result.Tick, greens)
	} else if greens[0] != result.Lane {
		o.addViolation("tick %d: %s is green but %s is scheduled", result.Tick, greens[0], result.Lane)
	}
	if len(yellows) > 1 {
		o.addViolation("tick %d: more than one yellow lane %v", result.Tick, yellows)
	}
	if len(yellows) == 1 && yellows[0] != result.Next {
		o.addViolation("tick %d: %s is yellow but %s is next", result.Tick, yellows[0], result.Next)
	}
}

// addViolation records a violation, the mutex must be held
func (o *ValidationObserver) addViolation(format string, args ...any) {
	o.violations = append(o.violations, fmt.Sprintf(format, args...))
}

// GetViolations returns all validation violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Checked returns the number of ticks validated
func (o *ValidationObserver) Checked() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.checked
}

// Reset resets the validation state
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.lights = crossway.AllRed()
	o.emergency = crossway.NoLane
	o.checked = 0
	o.violations = make([]string, 0)
}
