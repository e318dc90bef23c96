package suite

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/benchmatrix/benchmatrix/pkg/errors"
	"github.com/benchmatrix/benchmatrix/pkg/harness"
	"github.com/benchmatrix/benchmatrix/pkg/logger"
	"github.com/benchmatrix/benchmatrix/pkg/matrix"
)

// Runtime is the externally supplied cooperative scheduler the asynchronous
// suite variant delegates lifecycle steps to. Execute runs fn to completion
// and returns its error; the orchestrator awaits every step before starting
// the next, so a Runtime never sees two steps of the same suite in flight.
type Runtime interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// GoRuntime is the default Runtime: each step runs on its own goroutine and
// Execute blocks until it finishes. It gives callbacks a scheduling point
// without changing the orchestrator's strictly sequential control flow.
type GoRuntime struct{}

// Execute runs fn on a fresh goroutine and always waits for it to finish:
// the orchestrator reuses the step's outputs, so returning before fn is done
// would race with its final writes. Cancellation is fn's to observe through
// ctx; when it is cancelled and fn finishes cleanly, the context error is
// reported.
func (GoRuntime) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()
	err := <-done
	if err == nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// AsyncSetupFunc produces the initial (context, state) pair for one sample.
// It may suspend on the supplied context and runtime. Failure is fatal to
// the benchmark case. The context carries the suite, combination, and case
// identifiers; logger.WithContext derives a tagged logger from it.
type AsyncSetupFunc[C, X, S any] func(ctx context.Context, rt Runtime, cfg C) (X, S, error)

// AsyncLogicFunc runs one measured iteration and may suspend cooperatively.
type AsyncLogicFunc[C, X, S any] func(ctx context.Context, userCtx X, state S, cfg C) (X, S, time.Duration)

// AsyncTeardownFunc releases per-sample resources; best-effort, may suspend.
type AsyncTeardownFunc[C, X, S any] func(ctx context.Context, userCtx X, state S, rt Runtime, cfg C)

// AsyncSuite is the suspension-capable suite variant. It shares the blocking
// variant's contract exactly; the only difference is that setup, logic, and
// teardown are executed through a cooperative Runtime, with the context
// threaded through every call. Suspension never crosses a combination
// boundary.
type AsyncSuite[C Config[C], X, S any] struct {
	name      string
	runtime   Runtime
	axes      []matrix.Axis
	axisNames []string

	extractor ExtractorFunc[C]
	setup     AsyncSetupFunc[C, X, S]
	logic     AsyncLogicFunc[C, X, S]
	teardown  AsyncTeardownFunc[C, X, S]

	globalSetup    GlobalFunc[C]
	globalTeardown GlobalFunc[C]
	groupConfig    *harness.GroupConfig
	throughput     func(cfg C) harness.Throughput

	log *zap.Logger
}

// NewAsync creates a suspension-capable suite executing its lifecycle steps
// through rt. A nil rt selects GoRuntime.
func NewAsync[C Config[C], X, S any](
	name string,
	rt Runtime,
	axes []matrix.Axis,
	extractor ExtractorFunc[C],
	setup AsyncSetupFunc[C, X, S],
	logic AsyncLogicFunc[C, X, S],
	teardown AsyncTeardownFunc[C, X, S],
) *AsyncSuite[C, X, S] {
	if rt == nil {
		rt = GoRuntime{}
	}
	return &AsyncSuite[C, X, S]{
		name:      name,
		runtime:   rt,
		axes:      axes,
		extractor: extractor,
		setup:     setup,
		logic:     logic,
		teardown:  teardown,
		log:       logger.Get(),
	}
}

// WithAxisNames attaches display names for the axes; mismatched counts are
// warned about and ignored.
func (s *AsyncSuite[C, X, S]) WithAxisNames(names ...string) *AsyncSuite[C, X, S] {
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

// WithGlobalSetup attaches a per-configuration setup hook.
func (s *AsyncSuite[C, X, S]) WithGlobalSetup(fn GlobalFunc[C]) *AsyncSuite[C, X, S] {
	s.globalSetup = fn
	return s
}

// WithGlobalTeardown attaches a per-configuration teardown hook.
func (s *AsyncSuite[C, X, S]) WithGlobalTeardown(fn GlobalFunc[C]) *AsyncSuite[C, X, S] {
	s.globalTeardown = fn
	return s
}

// WithGroupConfig overrides the harness group configuration for this suite.
func (s *AsyncSuite[C, X, S]) WithGroupConfig(cfg harness.GroupConfig) *AsyncSuite[C, X, S] {
	s.groupConfig = &cfg
	return s
}

// WithThroughput attaches the per-case throughput hook.
func (s *AsyncSuite[C, X, S]) WithThroughput(fn func(cfg C) harness.Throughput) *AsyncSuite[C, X, S] {
	s.throughput = fn
	return s
}

// WithLogger replaces the suite logger.
func (s *AsyncSuite[C, X, S]) WithLogger(log *zap.Logger) *AsyncSuite[C, X, S] {
	s.log = log
	return s
}

// Run generates every combination and registers one harness case per valid
// combination, identical to the blocking variant except that each sample's
// setup, logic iterations, and teardown are dispatched through the Runtime
// and awaited in turn.
func (s *AsyncSuite[C, X, S]) Run(ctx context.Context, h harness.Harness) Report {
	log := s.log.With(zap.String("suite", s.name))
	ctx = context.WithValue(ctx, logger.SuiteKey, s.name)

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
		s.runCombination(ctx, group, combo, &report, log)
		combo.Release()
	}

	group.Finish()
	report.logSummary(log)
	return report
}

func (s *AsyncSuite[C, X, S]) runCombination(ctx context.Context, group harness.Group, combo matrix.Combination, report *Report, log *zap.Logger) {
	ctx = context.WithValue(ctx, logger.CombinationKey, combo.IDSuffix())

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
			if s.globalTeardown != nil {
				if tdErr := s.globalTeardown(cfg); tdErr != nil {
					log.Warn("global teardown after failed global setup also failed",
						zap.String("combination", combo.IDSuffix()),
						zap.Error(tdErr),
					)
				}
			}
			return
		}
	}

	var throughput *harness.Throughput
	if s.throughput != nil {
		tp := s.throughput(cfg)
		throughput = &tp
	}

	caseName := combo.CaseName(s.axisNames, log)
	ctx = context.WithValue(ctx, logger.CaseKey, caseName)

	group.Register(caseName, throughput, func(iterations uint64) (time.Duration, error) {
		total, err := sampleBatch(cfg, iterations,
			func(c C) (X, S, error) { return s.runSetup(ctx, c) },
			func(x X, st S, c C) (X, S, time.Duration) { return s.runLogic(ctx, x, st, c) },
			func(x X, st S, c C) { s.runTeardown(ctx, x, st, c) },
		)
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

// runSetup dispatches the per-sample setup through the runtime and awaits it.
func (s *AsyncSuite[C, X, S]) runSetup(ctx context.Context, cfg C) (X, S, error) {
	var userCtx X
	var state S
	err := s.runtime.Execute(ctx, func(ctx context.Context) error {
		var setupErr error
		userCtx, state, setupErr = s.setup(ctx, s.runtime, cfg)
		return setupErr
	})
	return userCtx, state, err
}

// runLogic dispatches one measured iteration through the runtime.
func (s *AsyncSuite[C, X, S]) runLogic(ctx context.Context, userCtx X, state S, cfg C) (X, S, time.Duration) {
	var elapsed time.Duration
	_ = s.runtime.Execute(ctx, func(ctx context.Context) error {
		userCtx, state, elapsed = s.logic(ctx, userCtx, state, cfg)
		return nil
	})
	return userCtx, state, elapsed
}

// runTeardown dispatches the per-sample teardown through the runtime.
func (s *AsyncSuite[C, X, S]) runTeardown(ctx context.Context, userCtx X, state S, cfg C) {
	_ = s.runtime.Execute(ctx, func(ctx context.Context) error {
		s.teardown(ctx, userCtx, state, s.runtime, cfg)
		return nil
	})
}
