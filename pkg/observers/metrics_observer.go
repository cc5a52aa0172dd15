package observers

import (
	"math"
	"sync"

	"github.com/anggasct/crossway"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MetricsObserver collects metrics about the most recent run
type MetricsObserver struct {
	crossway.BaseObserver

	runID        uuid.UUID
	counts       map[crossway.LaneID]int
	ticks        int
	emergencies  int
	ignored      int
	lightChanges int
	greenTicks   map[crossway.LaneID]int
	firstGreen   map[crossway.LaneID]int
	mutex        sync.RWMutex
}

// Summary is the digest of a run
type Summary struct {
	RunID        uuid.UUID
	Ticks        int
	Emergencies  int
	Ignored      int
	LightChanges int
	GreenTicks   map[crossway.LaneID]int

	// Waits holds, for every lane that was served, the number of ticks
	// before it first went green
	Waits map[crossway.LaneID]int

	// MeanWait and WaitStdDev weight every lane's wait by its vehicle count
	MeanWait   float64
	WaitStdDev float64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	o := &MetricsObserver{}
	o.reset(uuid.Nil, nil)
	return o
}

func (o *MetricsObserver) reset(runID uuid.UUID, counts map[crossway.LaneID]int) {
	o.runID = runID
	o.counts = make(map[crossway.LaneID]int, len(counts))
	for lane, n := range counts {
		o.counts[lane] = n
	}
	o.ticks = 0
	o.emergencies = 0
	o.ignored = 0
	o.lightChanges = 0
	o.greenTicks = make(map[crossway.LaneID]int)
	o.firstGreen = make(map[crossway.LaneID]int)
}

// OnScheduleBuilt starts collecting for a new run
func (o *MetricsObserver) OnScheduleBuilt(runID uuid.UUID, _ []crossway.LaneID, counts map[crossway.LaneID]int) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.reset(runID, counts)
}

// OnLaneLightChanged counts signal changes
func (o *MetricsObserver) OnLaneLightChanged(crossway.LaneID, crossway.LightColor) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.lightChanges++
}

// OnEmergencyIgnored counts dropped emergency requests
func (o *MetricsObserver) OnEmergencyIgnored(crossway.LaneID, crossway.LaneID) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.ignored++
}

// OnTick records served ticks
func (o *MetricsObserver) OnTick(result crossway.TickResult) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if !result.Served() {
		return
	}
	o.ticks++
	switch result.Outcome {
	case crossway.OutcomeEmergencyStarted:
		o.emergencies++
	case crossway.OutcomeCycle:
		o.greenTicks[result.Lane]++
		if _, seen := o.firstGreen[result.Lane]; !seen {
			o.firstGreen[result.Lane] = result.Tick
		}
	}
}

// Summary returns the metrics of the current or last run
func (o *MetricsObserver) Summary() Summary {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	s := Summary{
		RunID:        o.runID,
		Ticks:        o.ticks,
		Emergencies:  o.emergencies,
		Ignored:      o.ignored,
		LightChanges: o.lightChanges,
		GreenTicks:   lo.Assign(o.greenTicks),
		Waits:        lo.Assign(o.firstGreen),
	}

	served := lo.Filter(crossway.AllLanes, func(lane crossway.LaneID, _ int) bool {
		_, ok := o.firstGreen[lane]
		return ok
	})
	if len(served) == 0 {
		return s
	}
	waits := lo.Map(served, func(lane crossway.LaneID, _ int) float64 {
		return float64(o.firstGreen[lane])
	})
	weights := lo.Map(served, func(lane crossway.LaneID, _ int) float64 {
		return float64(o.counts[lane])
	})
	if floats.Sum(weights) == 0 {
		weights = nil
	}
	s.MeanWait = finite(stat.Mean(waits, weights))
	s.WaitStdDev = finite(stat.StdDev(waits, weights))
	return s
}

// Reset clears all metrics
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.reset(uuid.Nil, nil)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
