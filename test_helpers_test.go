package crossway_test

import (
	"testing"
	"time"

	"github.com/anggasct/crossway"
	"github.com/anggasct/crossway/pkg/clock"
	"github.com/anggasct/crossway/pkg/observers"
	"github.com/anggasct/crossway/pkg/panel"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// harness wires a scheduler to a logical clock, a panel and recorders
type harness struct {
	clock     *clock.Manual
	panel     *panel.Panel
	rec       *observers.RecordingObserver
	validator *observers.ValidationObserver
	metrics   *observers.MetricsObserver
	logs      *logtest.Hook
	sched     *crossway.Scheduler
}

func newHarness(t *testing.T, counts ...string) *harness {
	t.Helper()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	h := &harness{
		clock:     clock.NewManual(),
		panel:     panel.New(),
		rec:       observers.NewRecordingObserver(),
		validator: observers.NewValidationObserver(),
		metrics:   observers.NewMetricsObserver(),
		logs:      hook,
	}
	sched, err := crossway.NewScheduler(h.clock, h.panel,
		crossway.WithLogger(logger.WithField("module", "scheduler")),
		crossway.WithObserver(h.panel),
		crossway.WithObserver(h.rec),
		crossway.WithObserver(h.validator),
		crossway.WithObserver(h.metrics),
	)
	require.NoError(t, err)
	h.sched = sched

	for i, text := range counts {
		h.panel.SetLaneText(crossway.AllLanes[i], text)
	}
	return h
}

// start starts a run and fails the test on invalid input
func (h *harness) start(t *testing.T) {
	t.Helper()
	require.NoError(t, h.sched.Start())
}

// advance moves the logical clock forward by whole seconds
func (h *harness) advance(seconds int) {
	h.clock.Advance(time.Duration(seconds) * time.Second)
}

// lights returns the scheduler's current lights
func (h *harness) lights() crossway.Lights {
	return h.sched.State().Lights
}

// warnings returns the messages logged at warn level
func (h *harness) warnings() []string {
	var out []string
	for _, e := range h.logs.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, e.Message)
		}
	}
	return out
}
