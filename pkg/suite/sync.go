package suite

import (
	"time"

	"go.uber.org/zap"

	"github.com/benchmatrix/benchmatrix/pkg/errors"
	"github.com/benchmatrix/benchmatrix/pkg/harness"
	"github.com/benchmatrix/benchmatrix/pkg/logger"
	"github.com/benchmatrix/benchmatrix/pkg/matrix"
)

// SetupFunc produces the initial (context, state) pair for one sample.
// Failure is fatal to the benchmark case: it happens inside the harness's
// timed measurement region where partial recovery is not well-defined.
type SetupFunc[C, X, S any] func(cfg C) (X, S, error)

// LogicFunc runs one measured iteration, returning the updated context and
// state plus the elapsed duration the iteration measured for itself.
type LogicFunc[C, X, S any] func(userCtx X, state S, cfg C) (X, S, time.Duration)

// TeardownFunc releases resources created by setup. It runs exactly once
// per sample and does not report failure; cleanup is best-effort.
type TeardownFunc[C, X, S any] func(userCtx X, state S, cfg C)

// Suite is the blocking suite variant: setup, logic, and teardown are
// ordinary calls invoked directly on the calling goroutine.
type Suite[C Config[C], X, S any] struct {
	name      string
	axes      []matrix.Axis
	axisNames []string

	extractor ExtractorFunc[C]
	setup     SetupFunc[C, X, S]
	logic     LogicFunc[C, X, S]
	teardown  TeardownFunc[C, X, S]

	globalSetup    GlobalFunc[C]
	globalTeardown GlobalFunc[C]
	groupConfig    *harness.GroupConfig
	throughput     func(cfg C) harness.Throughput

	log *zap.Logger
}

// New creates a blocking suite over the given axes and mandatory callbacks.
// Optional behavior (axis names, global setup/teardown, group configuration,
// throughput) is attached through the With methods.
func New[C Config[C], X, S any](
	name string,
	axes []matrix.Axis,
	extractor ExtractorFunc[C],
	setup SetupFunc[C, X, S],
	logic LogicFunc[C, X, S],
	teardown TeardownFunc[C, X, S],
) *Suite[C, X, S] {
	return &Suite[C, X, S]{
		name:      name,
		axes:      axes,
		extractor: extractor,
		setup:     setup,
		logic:     logic,
		teardown:  teardown,
		log:       logger.Get(),
	}
}

// WithAxisNames attaches display names for the axes, used to build named
// case identifiers. A count mismatch is a caller configuration error: it is
// logged as a warning and the names are ignored.
func (s *Suite[C, X, S]) WithAxisNames(names ...string) *Suite[C, X, S] {
	if len(names) != len(s.axes) {
		s.log.Warn("axis name count does not match axis count, names ignored",
			zap.String("suite", s.name),
			zap.Int("names", len(names)),
			zap.Int("axes", len(s.axes)),
		)
		s.axisNames = nil
		return s
	}
	s.axisNames = names
	return s
}

// WithGlobalSetup attaches a setup hook that runs once per configuration
// before any sampling begins.
func (s *Suite[C, X, S]) WithGlobalSetup(fn GlobalFunc[C]) *Suite[C, X, S] {
	s.globalSetup = fn
	return s
}

// WithGlobalTeardown attaches a teardown hook that runs once per
// configuration after sampling, or as compensation after a failed global
// setup.
func (s *Suite[C, X, S]) WithGlobalTeardown(fn GlobalFunc[C]) *Suite[C, X, S] {
	s.globalTeardown = fn
	return s
}

// WithGroupConfig overrides the harness group configuration for this suite.
func (s *Suite[C, X, S]) WithGroupConfig(cfg harness.GroupConfig) *Suite[C, X, S] {
	s.groupConfig = &cfg
	return s
}

// WithThroughput attaches a hook computing the per-case throughput hint
// from the concrete configuration.
func (s *Suite[C, X, S]) WithThroughput(fn func(cfg C) harness.Throughput) *Suite[C, X, S] {
	s.throughput = fn
	return s
}

// WithLogger replaces the suite logger.
func (s *Suite[C, X, S]) WithLogger(log *zap.Logger) *Suite[C, X, S] {
	s.log = log
	return s
}

// Run generates every combination, registers one harness case per valid
// combination within a group named after the suite, and returns the run
// report. Combinations are processed strictly sequentially; combination k+1
// does not start before combination k's full lifecycle has finished.
func (s *Suite[C, X, S]) Run(h harness.Harness) Report {
	log := s.log.With(zap.String("suite", s.name))

	product := matrix.NewProduct(s.axes)
	report := Report{Combinations: product.Count()}

	if product.Count() == 0 {
		log.Warn("nothing to run", zap.String("reason", emptyReason(s.axes)))
		return report
	}

	group := h.Group(s.name)
	if s.groupConfig != nil {
		group.Configure(*s.groupConfig)
	}

	for {
		combo, ok := product.Next()
		if !ok {
			break
		}
		s.runCombination(group, combo, &report, log)
		combo.Release()
	}

	group.Finish()
	report.logSummary(log)
	return report
}

func (s *Suite[C, X, S]) runCombination(group harness.Group, combo matrix.Combination, report *Report, log *zap.Logger) {
	cfg, err := s.extractor(combo)
	if err != nil {
		log.Error("failed to extract concrete configuration, skipping combination",
			zap.String("combination", combo.IDSuffix()),
			zap.Error(err),
		)
		report.SkippedExtraction++
		return
	}

	if s.globalSetup != nil {
		if err := s.globalSetup(cfg); err != nil {
			log.Error("global setup failed, skipping configuration",
				zap.String("combination", combo.IDSuffix()),
				zap.String("config", cfg.String()),
				zap.Error(err),
			)
			report.SkippedGlobalSetup++
			s.compensate(cfg, combo, log)
			return
		}
	}

	var throughput *harness.Throughput
	if s.throughput != nil {
		tp := s.throughput(cfg)
		throughput = &tp
	}

	group.Register(combo.CaseName(s.axisNames, log), throughput, func(iterations uint64) (time.Duration, error) {
		total, err := sampleBatch(cfg, iterations, s.setup, s.logic, s.teardown)
		if err != nil {
			return 0, errors.Wrap(err, errors.ErrorTypeSetup, "per-sample setup failed").
				WithDetail("config", cfg.String())
		}
		return total, nil
	})
	report.Completed++

	if s.globalTeardown != nil {
		if err := s.globalTeardown(cfg); err != nil {
			log.Warn("global teardown failed",
				zap.String("combination", combo.IDSuffix()),
				zap.String("config", cfg.String()),
				zap.Error(err),
			)
		}
	}
}

// compensate invokes the global teardown after a failed global setup.
// Secondary failure is a warning, never promoted to a hard failure.
func (s *Suite[C, X, S]) compensate(cfg C, combo matrix.Combination, log *zap.Logger) {
	if s.globalTeardown == nil {
		return
	}
	if err := s.globalTeardown(cfg); err != nil {
		log.Warn("global teardown after failed global setup also failed",
			zap.String("combination", combo.IDSuffix()),
			zap.Error(err),
		)
	}
}
