// Package harness defines the boundary to the external benchmarking harness
// consumed by the suite orchestrator. The orchestrator registers one named
// case per combination within a group; the harness owns sampling, statistical
// aggregation, and reporting. Adapters for the standard testing.B harness and
// a standalone console harness live in subpackages.
package harness

import "time"

// AxisScale selects the display scale the harness should use when plotting
// a group's results. The zero value is the logarithmic default, so a
// zero-valued GroupConfig defers to it like the other fields.
type AxisScale uint8

const (
	// ScaleLogarithmic plots values on a logarithmic axis, the default for
	// parameter sweeps spanning orders of magnitude.
	ScaleLogarithmic AxisScale = iota
	// ScaleLinear plots values on a linear axis.
	ScaleLinear
)

// String returns the scale name.
func (s AxisScale) String() string {
	if s == ScaleLinear {
		return "linear"
	}
	return "logarithmic"
}

// GroupConfig carries per-group display and sampling configuration handed to
// the harness. Zero values defer to the harness defaults.
type GroupConfig struct {
	// SampleSize is the number of sample batches the harness collects per case.
	SampleSize int
	// MeasurementTime is the wall-clock budget the harness should aim for
	// per case.
	MeasurementTime time.Duration
	// Scale is the plotting scale for the group.
	Scale AxisScale
}

// DefaultGroupConfig returns the configuration applied when the caller
// supplies none: 10 samples on a logarithmic scale with a 5 second budget.
func DefaultGroupConfig() GroupConfig {
	return GroupConfig{
		SampleSize:      10,
		MeasurementTime: 5 * time.Second,
		Scale:           ScaleLogarithmic,
	}
}

// ThroughputKind distinguishes element and byte throughput annotations.
type ThroughputKind uint8

const (
	// ThroughputElements annotates a case with elements processed per iteration.
	ThroughputElements ThroughputKind = iota
	// ThroughputBytes annotates a case with bytes processed per iteration.
	ThroughputBytes
)

// Throughput is a per-case throughput hint: how many elements or bytes one
// logic iteration processes. The harness converts it into a rate.
type Throughput struct {
	Kind ThroughputKind
	N    uint64
}

// Elements builds an element-count throughput hint.
func Elements(n uint64) Throughput {
	return Throughput{Kind: ThroughputElements, N: n}
}

// Bytes builds a byte-count throughput hint.
func Bytes(n uint64) Throughput {
	return Throughput{Kind: ThroughputBytes, N: n}
}

// SampleFunc runs one sample batch of the given number of iterations and
// returns the summed measured duration. The iterations count is the
// harness-supplied hint; the orchestrator runs setup once, logic that many
// times, and teardown once per call. A non-nil error means per-sample setup
// failed, an unrecoverable condition the harness resolves through its own
// failure path (aborting the case).
type SampleFunc func(iterations uint64) (time.Duration, error)

// Group is one named benchmark group within a harness. Cases registered on a
// group share its configuration.
type Group interface {
	// Configure overrides the group-level sampling and display configuration.
	Configure(cfg GroupConfig)

	// Register adds one named benchmark case driven by sample. The
	// throughput hint is optional.
	Register(name string, throughput *Throughput, sample SampleFunc)

	// Finish marks the group complete; the harness may flush reports.
	Finish()
}

// Harness is the external benchmarking harness the orchestrator drives.
type Harness interface {
	// Group opens (or returns) the named benchmark group.
	Group(name string) Group
}
