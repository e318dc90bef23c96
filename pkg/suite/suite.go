// Package suite orchestrates parameterized benchmark suites: it expands a
// list of parameter axes into every combination, resolves each combination
// into a caller-defined configuration through an extractor, and drives a
// setup/iterate/teardown lifecycle per combination against an external
// benchmarking harness.
//
// # Lifecycle
//
// For every combination the orchestrator runs, in order:
//
//	extractor -> [global setup] -> {sample setup -> logic x N -> sample teardown}... -> [global teardown]
//
// Extraction and global-setup failures skip the combination (logged, counted,
// never fatal); a global-setup failure triggers a best-effort compensating
// global teardown. Per-sample setup failures are unrecoverable: they occur
// inside the harness's timed region and escalate through the harness's own
// failure path. Teardown failures are logged warnings and never mask an
// earlier error.
//
// Combinations are processed strictly one at a time in generator order; the
// orchestrator introduces no concurrency of its own. The asynchronous
// variant only delegates each lifecycle step to a cooperative Runtime and
// awaits its completion before proceeding.
package suite

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/benchmatrix/benchmatrix/pkg/matrix"
)

// Config is the constraint for caller-defined concrete configurations
// produced by an extractor. Configurations are cloned to hand a fresh copy
// into each sample and rendered into diagnostics, so they must be cheap to
// copy and side-effect-free to read.
type Config[C any] interface {
	// Clone returns an independent copy of the configuration.
	Clone() C
	fmt.Stringer
}

// ExtractorFunc resolves one combination into a concrete configuration.
// A failure skips only that combination; processing continues.
type ExtractorFunc[C any] func(combo matrix.Combination) (C, error)

// GlobalFunc runs once per distinct configuration, before any sampling
// (global setup) or after the last sample (global teardown).
type GlobalFunc[C any] func(cfg C) error

// Report summarizes one suite run. It is observational only; the
// orchestrator makes no control decisions from it.
type Report struct {
	// Combinations is the total number of combinations the axes produce.
	Combinations int
	// Completed counts combinations whose cases were registered and ran.
	Completed int
	// SkippedExtraction counts combinations whose extractor failed.
	SkippedExtraction int
	// SkippedGlobalSetup counts combinations whose global setup failed.
	SkippedGlobalSetup int
}

// logSummary emits the per-run summary line.
func (r Report) logSummary(log *zap.Logger) {
	if r.SkippedExtraction > 0 || r.SkippedGlobalSetup > 0 {
		log.Warn("suite finished with skipped combinations",
			zap.Int("attempted", r.Combinations),
			zap.Int("completed", r.Completed),
			zap.Int("skipped_extraction", r.SkippedExtraction),
			zap.Int("skipped_global_setup", r.SkippedGlobalSetup),
		)
		return
	}
	if r.Completed > 0 {
		log.Info("suite finished",
			zap.Int("completed", r.Completed),
		)
	}
}

// emptyReason explains why a product yielded nothing to run.
func emptyReason(axes []matrix.Axis) string {
	if len(axes) == 0 {
		return "no parameter axes defined"
	}
	return "no combinations generated (an axis is empty)"
}

// sampleBatch drives one sample: setup once, logic iterations times with
// durations summed, teardown once. Shared by both suite variants through
// small step adapters so the lifecycle ordering lives in exactly one place.
func sampleBatch[C Config[C], X, S any](
	cfg C,
	iterations uint64,
	setup func(C) (X, S, error),
	logic func(X, S, C) (X, S, time.Duration),
	teardown func(X, S, C),
) (time.Duration, error) {
	sampleCfg := cfg.Clone()

	userCtx, state, err := setup(sampleCfg)
	if err != nil {
		return 0, err
	}

	var total time.Duration
	for i := uint64(0); i < iterations; i++ {
		var elapsed time.Duration
		userCtx, state, elapsed = logic(userCtx, state, sampleCfg)
		total += elapsed
	}

	teardown(userCtx, state, sampleCfg)
	return total, nil
}
