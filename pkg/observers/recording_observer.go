package observers

import (
	"sync"

	"github.com/anggasct/crossway"
	"github.com/google/uuid"
)

// LightEvent is a recorded signal change
type LightEvent struct {
	Lane  crossway.LaneID
	Color crossway.LightColor
}

// EmergencyEvent is a recorded emergency start or end
type EmergencyEvent struct {
	Lane   crossway.LaneID
	Cursor crossway.Cursor
}

// RecordingObserver captures every notification it receives
type RecordingObserver struct {
	mutex       sync.RWMutex
	Statuses    []string
	Lights      []LightEvent
	RunStates   []bool
	Schedules   [][]crossway.LaneID
	RunIDs      []uuid.UUID
	Rejections  []*crossway.InvalidInputError
	Started     []EmergencyEvent
	Ended       []EmergencyEvent
	Ignored     []crossway.LaneID
	TickResults []crossway.TickResult
}

// NewRecordingObserver creates an empty recording observer
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

// OnStatusChanged records a status message
func (o *RecordingObserver) OnStatusChanged(text string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Statuses = append(o.Statuses, text)
}

// OnLaneLightChanged records a signal change
func (o *RecordingObserver) OnLaneLightChanged(lane crossway.LaneID, color crossway.LightColor) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Lights = append(o.Lights, LightEvent{Lane: lane, Color: color})
}

// OnRunStateChanged records a run start or end
func (o *RecordingObserver) OnRunStateChanged(running bool) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.RunStates = append(o.RunStates, running)
}

// OnScheduleBuilt records the run id and lane order
func (o *RecordingObserver) OnScheduleBuilt(runID uuid.UUID, schedule []crossway.LaneID, _ map[crossway.LaneID]int) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.RunIDs = append(o.RunIDs, runID)
	o.Schedules = append(o.Schedules, schedule)
}

// OnInputRejected records the rejection
func (o *RecordingObserver) OnInputRejected(err *crossway.InvalidInputError) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Rejections = append(o.Rejections, err)
}

// OnEmergencyStarted records the emergency lane and the held cursor
func (o *RecordingObserver) OnEmergencyStarted(lane crossway.LaneID, cursor crossway.Cursor) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Started = append(o.Started, EmergencyEvent{Lane: lane, Cursor: cursor})
}

// OnEmergencyEnded records the released lane and the resumed cursor
func (o *RecordingObserver) OnEmergencyEnded(lane crossway.LaneID, cursor crossway.Cursor) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Ended = append(o.Ended, EmergencyEvent{Lane: lane, Cursor: cursor})
}

// OnEmergencyIgnored records the requested lane
func (o *RecordingObserver) OnEmergencyIgnored(requested crossway.LaneID, _ crossway.LaneID) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Ignored = append(o.Ignored, requested)
}

// OnTick records the tick result
func (o *RecordingObserver) OnTick(result crossway.TickResult) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.TickResults = append(o.TickResults, result)
}

// LastStatus returns the most recent status, or "" if none
func (o *RecordingObserver) LastStatus() string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Statuses) == 0 {
		return ""
	}
	return o.Statuses[len(o.Statuses)-1]
}

// LastTick returns the most recent tick result
func (o *RecordingObserver) LastTick() (crossway.TickResult, bool) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.TickResults) == 0 {
		return crossway.TickResult{}, false
	}
	return o.TickResults[len(o.TickResults)-1], true
}

// Reset clears everything recorded so far
func (o *RecordingObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Statuses = nil
	o.Lights = nil
	o.RunStates = nil
	o.Schedules = nil
	o.RunIDs = nil
	o.Rejections = nil
	o.Started = nil
	o.Ended = nil
	o.Ignored = nil
	o.TickResults = nil
}
