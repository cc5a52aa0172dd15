package crossway

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Observer receives the notifications a display needs to mirror a run
type Observer interface {
	// OnStatusChanged is called with every human-readable status message
	OnStatusChanged(text string)

	// OnLaneLightChanged is called whenever a lane's signal changes
	OnLaneLightChanged(lane LaneID, color LightColor)

	// OnRunStateChanged is called when a run starts or ends
	OnRunStateChanged(running bool)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnScheduleBuilt is called when a run starts with its lane order
	OnScheduleBuilt(runID uuid.UUID, schedule []LaneID, counts map[LaneID]int)

	// OnInputRejected is called when lane counts fail validation
	OnInputRejected(err *InvalidInputError)

	// OnEmergencyStarted is called when a lane preempts the cycle
	OnEmergencyStarted(lane LaneID, cursor Cursor)

	// OnEmergencyEnded is called when the cycle resumes
	OnEmergencyEnded(lane LaneID, cursor Cursor)

	// OnEmergencyIgnored is called when a second emergency is requested
	// while one is already being serviced
	OnEmergencyIgnored(requested LaneID, active LaneID)

	// OnTick is called after every tick
	OnTick(result TickResult)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnStatusChanged implements the required Observer method
func (o *BaseObserver) OnStatusChanged(text string) {
	// Default implementation - no operation
}

// OnLaneLightChanged implements the required Observer method
func (o *BaseObserver) OnLaneLightChanged(lane LaneID, color LightColor) {
	// Default implementation - no operation
}

// OnRunStateChanged implements the required Observer method
func (o *BaseObserver) OnRunStateChanged(running bool) {
	// Default implementation - no operation
}

// OnScheduleBuilt implements the optional ExtendedObserver method
func (o *BaseObserver) OnScheduleBuilt(runID uuid.UUID, schedule []LaneID, counts map[LaneID]int) {
	// Default implementation - no operation
}

// OnInputRejected implements the optional ExtendedObserver method
func (o *BaseObserver) OnInputRejected(err *InvalidInputError) {
	// Default implementation - no operation
}

// OnEmergencyStarted implements the optional ExtendedObserver method
func (o *BaseObserver) OnEmergencyStarted(lane LaneID, cursor Cursor) {
	// Default implementation - no operation
}

// OnEmergencyEnded implements the optional ExtendedObserver method
func (o *BaseObserver) OnEmergencyEnded(lane LaneID, cursor Cursor) {
	// Default implementation - no operation
}

// OnEmergencyIgnored implements the optional ExtendedObserver method
func (o *BaseObserver) OnEmergencyIgnored(requested LaneID, active LaneID) {
	// Default implementation - no operation
}

// OnTick implements the optional ExtendedObserver method
func (o *BaseObserver) OnTick(result TickResult) {
	// Default implementation - no operation
}

// ObserverManager manages a collection of observers. A panicking observer
// is logged and skipped; it never interrupts a tick.
type ObserverManager struct {
	observers []Observer
	log       logrus.FieldLogger
}

// NewObserverManager creates a new observer manager
func NewObserverManager(log logrus.FieldLogger) *ObserverManager {
	if log == nil {
		log = logrus.WithField("module", "observer")
	}
	return &ObserverManager{
		observers: make([]Observer, 0),
		log:       log,
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered observers
func (om *ObserverManager) Len() int {
	return len(om.observers)
}

func (om *ObserverManager) each(name string, fn func(Observer)) {
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					om.log.Errorf("observer panic in %s: %v", name, r)
				}
			}()
			fn(observer)
		}()
	}
}

func (om *ObserverManager) eachExtended(name string, fn func(ExtendedObserver)) {
	om.each(name, func(o Observer) {
		if ext, ok := o.(ExtendedObserver); ok {
			fn(ext)
		}
	})
}

// NotifyStatus notifies all observers of a status message
func (om *ObserverManager) NotifyStatus(text string) {
	om.each("OnStatusChanged", func(o Observer) { o.OnStatusChanged(text) })
}

// NotifyLight notifies all observers of a lane signal change
func (om *ObserverManager) NotifyLight(lane LaneID, color LightColor) {
	om.each("OnLaneLightChanged", func(o Observer) { o.OnLaneLightChanged(lane, color) })
}

// NotifyRunState notifies all observers that a run started or ended
func (om *ObserverManager) NotifyRunState(running bool) {
	om.each("OnRunStateChanged", func(o Observer) { o.OnRunStateChanged(running) })
}

// NotifyScheduleBuilt notifies extended observers of a new run's schedule
func (om *ObserverManager) NotifyScheduleBuilt(runID uuid.UUID, schedule []LaneID, counts map[LaneID]int) {
	om.eachExtended("OnScheduleBuilt", func(o ExtendedObserver) { o.OnScheduleBuilt(runID, schedule, counts) })
}

// NotifyInputRejected notifies extended observers of rejected lane counts
func (om *ObserverManager) NotifyInputRejected(err *InvalidInputError) {
	om.eachExtended("OnInputRejected", func(o ExtendedObserver) { o.OnInputRejected(err) })
}

// NotifyEmergencyStarted notifies extended observers of a preemption
func (om *ObserverManager) NotifyEmergencyStarted(lane LaneID, cursor Cursor) {
	om.eachExtended("OnEmergencyStarted", func(o ExtendedObserver) { o.OnEmergencyStarted(lane, cursor) })
}

// NotifyEmergencyEnded notifies extended observers that the cycle resumed
func (om *ObserverManager) NotifyEmergencyEnded(lane LaneID, cursor Cursor) {
	om.eachExtended("OnEmergencyEnded", func(o ExtendedObserver) { o.OnEmergencyEnded(lane, cursor) })
}

// NotifyEmergencyIgnored notifies extended observers of a dropped request
func (om *ObserverManager) NotifyEmergencyIgnored(requested, active LaneID) {
	om.eachExtended("OnEmergencyIgnored", func(o ExtendedObserver) { o.OnEmergencyIgnored(requested, active) })
}

// NotifyTick notifies extended observers of a processed tick
func (om *ObserverManager) NotifyTick(result TickResult) {
	om.eachExtended("OnTick", func(o ExtendedObserver) { o.OnTick(result) })
}
