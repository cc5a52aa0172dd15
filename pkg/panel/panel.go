// Package panel is a headless model of the intersection control window:
// four lane count fields, the emergency selector, one signal per lane, the
// status line and the start control.
//
// A Panel feeds a scheduler through crossway.Panel and mirrors it through
// crossway.ExtendedObserver. It is safe for concurrent use, so input may
// arrive from a goroutine other than the one driving the scheduler.
package panel

import (
	"sync"

	"github.com/anggasct/crossway"
	"github.com/google/uuid"
)

// Panel holds the state of every widget
type Panel struct {
	crossway.BaseObserver

	mutex        sync.RWMutex
	laneText     map[crossway.LaneID]string
	highlighted  map[crossway.LaneID]bool
	designation  string
	lights       crossway.Lights
	status       string
	startEnabled bool
}

// New creates a panel with empty fields, no emergency and all lights red
func New() *Panel {
	return &Panel{
		laneText:     make(map[crossway.LaneID]string),
		highlighted:  make(map[crossway.LaneID]bool),
		designation:  crossway.NoLane.String(),
		lights:       crossway.AllRed(),
		status:       crossway.TimeLeftStatus(crossway.Lane1, crossway.GreenSeconds),
		startEnabled: true,
	}
}

// SetLaneText sets the text typed into a lane field
func (p *Panel) SetLaneText(lane crossway.LaneID, text string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.laneText[lane] = text
}

// SetCounts fills several lane fields at once
func (p *Panel) SetCounts(counts map[crossway.LaneID]string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for lane, text := range counts {
		p.laneText[lane] = text
	}
}

// LaneCounts returns the raw text of every lane field
func (p *Panel) LaneCounts() map[crossway.LaneID]string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	out := make(map[crossway.LaneID]string, crossway.NumLanes)
	for _, lane := range crossway.AllLanes {
		out[lane] = p.laneText[lane]
	}
	return out
}

// Designate selects an emergency lane; NoLane selects "None"
func (p *Panel) Designate(lane crossway.LaneID) {
	p.DesignateText(lane.String())
}

// DesignateText sets the selector to arbitrary text, as a free-form
// control would
func (p *Panel) DesignateText(text string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.designation = text
}

// EmergencyDesignation returns the selector value
func (p *Panel) EmergencyDesignation() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.designation
}

// ClearEmergencyDesignation resets the selector to "None"
func (p *Panel) ClearEmergencyDesignation() {
	p.Designate(crossway.NoLane)
}

// Light returns the signal displayed for lane
func (p *Panel) Light(lane crossway.LaneID) crossway.LightColor {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.lights.Get(lane)
}

// Lights returns every displayed signal
func (p *Panel) Lights() crossway.Lights {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.lights
}

// Status returns the status line
func (p *Panel) Status() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.status
}

// StartEnabled reports whether a new run may be started
func (p *Panel) StartEnabled() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.startEnabled
}

// Highlighted reports whether a lane field is flagged as invalid
func (p *Panel) Highlighted(lane crossway.LaneID) bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.highlighted[lane]
}

// OnStatusChanged shows text on the status line
func (p *Panel) OnStatusChanged(text string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.status = text
}

// OnLaneLightChanged repaints the signal of lane
func (p *Panel) OnLaneLightChanged(lane crossway.LaneID, color crossway.LightColor) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.lights = p.lights.Set(lane, color)
}

// OnRunStateChanged disables the start control while a run is in progress
func (p *Panel) OnRunStateChanged(running bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.startEnabled = !running
}

// OnInputRejected highlights exactly the lane fields err rejected
func (p *Panel) OnInputRejected(err *crossway.InvalidInputError) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for _, lane := range crossway.AllLanes {
		p.highlighted[lane] = err.Offending(lane)
	}
}

// OnScheduleBuilt clears the highlights once a run starts
func (p *Panel) OnScheduleBuilt(_ uuid.UUID, _ []crossway.LaneID, _ map[crossway.LaneID]int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.highlighted = make(map[crossway.LaneID]bool)
}
