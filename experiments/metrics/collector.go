package metrics

import (
	"sync/atomic"
	"time"
)

type EvaluationMetric struct {
	Workers    int
	Duration   time.Duration
	Trials     int // Trials that finished with a reward
	Failures   int // Trials aborted by a fault or cancellation
	Pieces     int
	LookAheads int // Placements decided with look-ahead
}

type Collector interface {
	Start(workers int)
	AddTrial()
	AddFailure()
	AddPieces(pieces int)
	AddLookAhead()
	Complete() EvaluationMetric
}

type collector struct {
	workers    int
	startTime  time.Time
	trials     atomic.Int32
	failures   atomic.Int32
	pieces     atomic.Int64
	lookAheads atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new generation. It must not overlap with workers
// still reporting into the previous one.
func (m *collector) Start(workers int) {
	m.startTime = time.Now()
	m.workers = workers
	m.trials.Store(0)
	m.failures.Store(0)
	m.pieces.Store(0)
	m.lookAheads.Store(0)
}

func (m *collector) AddTrial() {
	m.trials.Add(1)
}

func (m *collector) AddFailure() {
	m.failures.Add(1)
}

func (m *collector) AddPieces(pieces int) {
	m.pieces.Add(int64(pieces))
}

func (m *collector) AddLookAhead() {
	m.lookAheads.Add(1)
}

func (m *collector) Complete() EvaluationMetric {
	return EvaluationMetric{
		Workers:    m.workers,
		Duration:   time.Since(m.startTime),
		Trials:     int(m.trials.Load()),
		Failures:   int(m.failures.Load()),
		Pieces:     int(m.pieces.Load()),
		LookAheads: int(m.lookAheads.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(workers int)          {}
func (m *dummyCollector) AddTrial()                  {}
func (m *dummyCollector) AddFailure()                {}
func (m *dummyCollector) AddPieces(pieces int)       {}
func (m *dummyCollector) AddLookAhead()              {}
func (m *dummyCollector) Complete() EvaluationMetric { return EvaluationMetric{} }
