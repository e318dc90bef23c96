// Package console implements a standalone operator-facing harness: it runs
// cases immediately on the calling goroutine, aggregates per-iteration
// latency into an HDR histogram, and prints a human-readable summary per
// case plus an optional JSON report per group.
package console

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/benchmatrix/benchmatrix/pkg/harness"
)

// maxIterationsPerSample bounds the calibrated batch size so a mis-measured
// calibration pass cannot spin for minutes.
const maxIterationsPerSample = 1 << 20

// CaseResult is the aggregated outcome of one benchmark case.
type CaseResult struct {
	Group      string        `json:"group"`
	Case       string        `json:"case"`
	Samples    int           `json:"samples"`
	Iterations uint64        `json:"iterations"`
	Mean       time.Duration `json:"mean_ns"`
	P50        time.Duration `json:"p50_ns"`
	P99        time.Duration `json:"p99_ns"`
	Max        time.Duration `json:"max_ns"`
	Rate       float64       `json:"rate,omitempty"`
	RateUnit   string        `json:"rate_unit,omitempty"`
	Failed     bool          `json:"failed,omitempty"`
}

// Harness runs benchmark cases synchronously and reports to an output stream.
type Harness struct {
	log     *zap.Logger
	out     io.Writer
	results []CaseResult
}

// Option configures a console harness.
type Option func(*Harness)

// WithOutput redirects the harness's human-readable report. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Harness) { h.out = w }
}

// New creates a console harness logging through log.
func New(log *zap.Logger, opts ...Option) *Harness {
	h := &Harness{
		log: log,
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Group opens a named group with default configuration.
func (h *Harness) Group(name string) harness.Group {
	return &group{
		harness: h,
		name:    name,
		cfg:     harness.DefaultGroupConfig(),
	}
}

// Results returns the aggregated case results collected so far.
func (h *Harness) Results() []CaseResult {
	return h.results
}

// WriteJSON writes all collected case results as a JSON array.
func (h *Harness) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(h.results)
}

type group struct {
	harness *Harness
	name    string
	cfg     harness.GroupConfig
}

func (g *group) Configure(cfg harness.GroupConfig) {
	if cfg.SampleSize > 0 {
		g.cfg.SampleSize = cfg.SampleSize
	}
	if cfg.MeasurementTime > 0 {
		g.cfg.MeasurementTime = cfg.MeasurementTime
	}
	g.cfg.Scale = cfg.Scale
}

// Register runs the case to completion immediately: one calibration sample
// with a single iteration, then SampleSize batches sized to fill the
// measurement-time budget.
func (g *group) Register(name string, throughput *harness.Throughput, sample harness.SampleFunc) {
	log := g.harness.log.With(
		zap.String("group", g.name),
		zap.String("case", name),
	)

	calibration, err := sample(1)
	if err != nil {
		log.Error("sample setup failed, aborting case", zap.Error(err))
		g.harness.results = append(g.harness.results, CaseResult{
			Group:  g.name,
			Case:   name,
			Failed: true,
		})
		return
	}

	iterations := calibrateIterations(calibration, g.cfg)
	log.Debug("case calibrated",
		zap.Duration("calibration", calibration),
		zap.Uint64("iterations_per_sample", iterations),
		zap.Int("samples", g.cfg.SampleSize),
	)

	hist := hdrhistogram.New(1, int64(10*time.Minute), 3)
	totalIterations := uint64(0)
	var totalTime time.Duration

	for s := 0; s < g.cfg.SampleSize; s++ {
		batch, err := sample(iterations)
		if err != nil {
			log.Error("sample setup failed mid-run, aborting case",
				zap.Int("sample", s), zap.Error(err))
			g.harness.results = append(g.harness.results, CaseResult{
				Group:  g.name,
				Case:   name,
				Failed: true,
			})
			return
		}

		perIteration := batch.Nanoseconds() / int64(iterations) //nolint:gosec // bounded above
		if perIteration < 1 {
			perIteration = 1
		}
		if err := hist.RecordValue(perIteration); err != nil {
			log.Warn("histogram rejected value", zap.Int64("ns", perIteration), zap.Error(err))
		}
		totalIterations += iterations
		totalTime += batch
	}

	result := CaseResult{
		Group:      g.name,
		Case:       name,
		Samples:    g.cfg.SampleSize,
		Iterations: totalIterations,
		Mean:       time.Duration(int64(hist.Mean())),
		P50:        time.Duration(hist.ValueAtQuantile(50)),
		P99:        time.Duration(hist.ValueAtQuantile(99)),
		Max:        time.Duration(hist.Max()),
	}

	if throughput != nil && totalTime > 0 {
		perSecond := float64(throughput.N) * float64(totalIterations) / totalTime.Seconds()
		result.Rate = perSecond
		if throughput.Kind == harness.ThroughputBytes {
			result.RateUnit = "B/s"
		} else {
			result.RateUnit = "elems/s"
		}
	}

	g.harness.results = append(g.harness.results, result)
	g.print(result)
}

func (g *group) print(r CaseResult) {
	fmt.Fprintf(g.harness.out, "%s/%s: %s iterations in %d samples\n",
		r.Group, r.Case, humanize.Comma(int64(r.Iterations)), r.Samples) //nolint:gosec // display only
	fmt.Fprintf(g.harness.out, "  mean %v  p50 %v  p99 %v  max %v\n",
		r.Mean, r.P50, r.P99, r.Max)
	if r.RateUnit != "" {
		fmt.Fprintf(g.harness.out, "  throughput %s %s\n",
			humanize.SIWithDigits(r.Rate, 2, ""), r.RateUnit)
	}
}

func (g *group) Finish() {
	g.harness.log.Info("group finished",
		zap.String("group", g.name),
		zap.String("scale", g.cfg.Scale.String()),
	)
}

// calibrateIterations sizes one sample batch so that SampleSize batches
// roughly fill the measurement-time budget.
func calibrateIterations(calibration time.Duration, cfg harness.GroupConfig) uint64 {
	if calibration <= 0 {
		calibration = time.Nanosecond
	}
	budget := cfg.MeasurementTime / time.Duration(cfg.SampleSize)
	iterations := uint64(budget / calibration) //nolint:gosec // both positive
	if iterations < 1 {
		iterations = 1
	}
	if iterations > maxIterationsPerSample {
		iterations = maxIterationsPerSample
	}
	return iterations
}
