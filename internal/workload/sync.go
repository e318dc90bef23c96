// Package workload provides the demonstration workloads shipped with the
// command-line runner: a CPU-bound blocking workload sweeping sort and
// aggregation algorithms, and a latency-bound suspension-capable workload
// simulating network and disk operations.
package workload

import (
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/benchmatrix/benchmatrix/pkg/errors"
	"github.com/benchmatrix/benchmatrix/pkg/harness"
	"github.com/benchmatrix/benchmatrix/pkg/matrix"
	stringpool "github.com/benchmatrix/benchmatrix/pkg/strings"
	"github.com/benchmatrix/benchmatrix/pkg/suite"
)

// Algorithm selects the CPU-bound algorithm the blocking workload measures.
type Algorithm string

const (
	// AlgorithmSort repeatedly sorts a copy of the dataset.
	AlgorithmSort Algorithm = "Sort"
	// AlgorithmProcess runs a wrapping arithmetic aggregation over the dataset.
	AlgorithmProcess Algorithm = "Process"
)

// SyncConfig is the concrete configuration one blocking-workload combination
// maps to.
type SyncConfig struct {
	Algorithm    Algorithm
	DataElements uint64
	Intensity    string
}

// Clone returns an independent copy handed to each sample.
func (c SyncConfig) Clone() SyncConfig { return c }

func (c SyncConfig) String() string {
	return stringpool.Sprintf("SyncConfig{Algorithm:%s, DataElements:%d, Intensity:%s}",
		string(c.Algorithm), c.DataElements, c.Intensity)
}

func (c SyncConfig) intensityMultiplier() int {
	switch c.Intensity {
	case "Low":
		return 1
	case "Medium":
		return 3
	case "High":
		return 10
	default:
		return 1
	}
}

// SyncContext accumulates per-batch bookkeeping across iterations.
type SyncContext struct {
	ItemsProcessed int
}

// SyncState holds the dataset one sample operates on.
type SyncState struct {
	dataset   []uint64
	auxBuffer []uint64
}

// SyncAxes returns the parameter axes of the blocking demo sweep:
// algorithm x element count x intensity.
func SyncAxes() []matrix.Axis {
	return []matrix.Axis{
		{matrix.Tag("Sort"), matrix.Tag("Process")},
		{matrix.Uint(100), matrix.Uint(500)},
		{matrix.String("Low"), matrix.String("Medium")},
	}
}

// SyncAxisNames returns the display names matching SyncAxes.
func SyncAxisNames() []string {
	return []string{"Algo", "Elements", "Intensity"}
}

// SyncWorkload is the blocking demo workload. The counter tracks global
// setup invocations across configurations, the way a shared resource pool
// would be reference-counted.
type SyncWorkload struct {
	counter atomic.Int64
	log     *zap.Logger
}

// NewSyncWorkload builds the blocking demo workload.
func NewSyncWorkload(log *zap.Logger) *SyncWorkload {
	return &SyncWorkload{log: log}
}

// ExtractConfig maps one combination to a SyncConfig, validating the
// algorithm tag.
func (w *SyncWorkload) ExtractConfig(combo matrix.Combination) (SyncConfig, error) {
	algo, err := combo.TagAt(0)
	if err != nil {
		return SyncConfig{}, err
	}
	switch Algorithm(algo) {
	case AlgorithmSort, AlgorithmProcess:
	default:
		return SyncConfig{}, errors.Newf(errors.ErrorTypeExtraction, "unknown sync algorithm type: %s", algo)
	}

	elements, err := combo.UintAt(1)
	if err != nil {
		return SyncConfig{}, err
	}
	intensity, err := combo.StringAt(2)
	if err != nil {
		return SyncConfig{}, err
	}

	return SyncConfig{
		Algorithm:    Algorithm(algo),
		DataElements: elements,
		Intensity:    intensity,
	}, nil
}

// GlobalSetup runs once per configuration before its samples.
func (w *SyncWorkload) GlobalSetup(cfg SyncConfig) error {
	w.log.Info("sync global setup",
		zap.String("config", cfg.String()),
		zap.Int64("counter", w.counter.Add(1)),
	)
	return nil
}

// GlobalTeardown runs once per configuration after its samples.
func (w *SyncWorkload) GlobalTeardown(cfg SyncConfig) error {
	w.log.Info("sync global teardown",
		zap.String("config", cfg.String()),
		zap.Int64("counter", w.counter.Load()),
	)
	return nil
}

// Setup builds a fresh random dataset for one sample.
func (w *SyncWorkload) Setup(cfg SyncConfig) (SyncContext, SyncState, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // benchmark data, not security sensitive
	dataset := make([]uint64, cfg.DataElements)
	for i := range dataset {
		dataset[i] = uint64(rng.Int63n(100_000))
	}
	return SyncContext{}, SyncState{
		dataset:   dataset,
		auxBuffer: make([]uint64, cfg.DataElements),
	}, nil
}

// Logic runs one measured iteration of the configured algorithm.
func (w *SyncWorkload) Logic(ctx SyncContext, state SyncState, cfg SyncConfig) (SyncContext, SyncState, time.Duration) {
	start := time.Now()
	multiplier := cfg.intensityMultiplier()

	switch cfg.Algorithm {
	case AlgorithmSort:
		toSort := make([]uint64, len(state.dataset))
		copy(toSort, state.dataset)
		for i := 0; i < multiplier; i++ {
			sort.Slice(toSort, func(a, b int) bool { return toSort[a] < toSort[b] })
		}
		state.auxBuffer = toSort
	case AlgorithmProcess:
		var sum uint64
		for _, v := range state.dataset {
			for i := 0; i < multiplier; i++ {
				sum += v*3 - v/2
			}
		}
		if len(state.auxBuffer) > 0 {
			state.auxBuffer[0] = sum
		}
	}

	elapsed := time.Since(start)
	ctx.ItemsProcessed += len(state.dataset)
	return ctx, state, elapsed
}

// Teardown releases the sample's dataset.
func (w *SyncWorkload) Teardown(ctx SyncContext, state SyncState, cfg SyncConfig) {
	state.dataset = nil
	state.auxBuffer = nil
}

// Suite assembles the fully configured blocking demo suite.
func (w *SyncWorkload) Suite() *suite.Suite[SyncConfig, SyncContext, SyncState] {
	return suite.New("SyncExampleSuite", SyncAxes(),
		w.ExtractConfig, w.Setup, w.Logic, w.Teardown,
	).
		WithAxisNames(SyncAxisNames()...).
		WithGlobalSetup(w.GlobalSetup).
		WithGlobalTeardown(w.GlobalTeardown).
		WithGroupConfig(harness.GroupConfig{
			SampleSize:      15,
			MeasurementTime: 2 * time.Second,
			Scale:           harness.ScaleLinear,
		}).
		WithThroughput(func(cfg SyncConfig) harness.Throughput {
			return harness.Elements(cfg.DataElements)
		}).
		WithLogger(w.log)
}
