// Package observers provides observers for monitoring intersection runs
package observers

import (
	"github.com/anggasct/crossway"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoggingObserver logs every scheduler notification
type LoggingObserver struct {
	log   logrus.Ext1FieldLogger
	level logrus.Level
}

// NewLoggingObserver creates a logging observer writing routine
// notifications at level; warnings are always logged at warn level.
func NewLoggingObserver(log logrus.Ext1FieldLogger, level logrus.Level) *LoggingObserver {
	if log == nil {
		log = logrus.WithField("module", "intersection")
	}
	return &LoggingObserver{
		log:   log,
		level: level,
	}
}

// NewDefaultLoggingObserver creates a logging observer at info level
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(nil, logrus.InfoLevel)
}

func (o *LoggingObserver) logf(format string, args ...any) {
	switch o.level {
	case logrus.TraceLevel:
		o.log.Tracef(format, args...)
	case logrus.DebugLevel:
		o.log.Debugf(format, args...)
	default:
		o.log.Infof(format, args...)
	}
}

// OnStatusChanged logs status messages
func (o *LoggingObserver) OnStatusChanged(text string) {
	o.logf("status: %s", text)
}

// OnLaneLightChanged logs signal changes
func (o *LoggingObserver) OnLaneLightChanged(lane crossway.LaneID, color crossway.LightColor) {
	o.logf("%s -> %s", lane, color)
}

// OnRunStateChanged logs run start and end
func (o *LoggingObserver) OnRunStateChanged(running bool) {
	if running {
		o.logf("run started")
	} else {
		o.logf("run ended")
	}
}

// OnScheduleBuilt logs the lane order of a new run
func (o *LoggingObserver) OnScheduleBuilt(runID uuid.UUID, schedule []crossway.LaneID, counts map[crossway.LaneID]int) {
	o.log.WithField("run", runID).Infof("schedule %v", schedule)
}

// OnInputRejected logs rejected lane counts
func (o *LoggingObserver) OnInputRejected(err *crossway.InvalidInputError) {
	o.log.WithError(err).Warn("input rejected")
}

// OnEmergencyStarted logs a preemption
func (o *LoggingObserver) OnEmergencyStarted(lane crossway.LaneID, cursor crossway.Cursor) {
	o.log.Warnf("emergency on %s (cycle held at index %d, %ds left)", lane, cursor.Index, cursor.Remaining)
}

// OnEmergencyEnded logs the cycle resuming
func (o *LoggingObserver) OnEmergencyEnded(lane crossway.LaneID, cursor crossway.Cursor) {
	o.logf("emergency on %s over, resuming at index %d", lane, cursor.Index)
}

// OnEmergencyIgnored logs a dropped second emergency
func (o *LoggingObserver) OnEmergencyIgnored(requested crossway.LaneID, active crossway.LaneID) {
	o.log.Warnf("emergency request for %s ignored, %s still clearing", requested, active)
}

// OnTick logs ticks at debug level
func (o *LoggingObserver) OnTick(result crossway.TickResult) {
	o.log.Debugf("tick %d %s lane=%s next=%s remaining=%d", result.Tick, result.Outcome, result.Lane, result.Next, result.Remaining)
}
