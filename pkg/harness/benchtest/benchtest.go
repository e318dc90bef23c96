// Package benchtest adapts the standard testing.B benchmark harness to the
// harness boundary, so a matrix suite can run inside an ordinary
// `go test -bench` invocation. Each registered case becomes a b.Run
// sub-benchmark and the iterations hint is b.N.
package benchtest

import (
	"testing"

	"github.com/benchmatrix/benchmatrix/pkg/harness"
)

// Harness wraps a *testing.B as a harness.Harness.
type Harness struct {
	b *testing.B
}

// New creates a testing.B-backed harness.
func New(b *testing.B) *Harness {
	return &Harness{b: b}
}

// Group opens a named benchmark group. Group configuration is accepted but
// mostly advisory here: sampling count and measurement time are owned by the
// go test framework (-benchtime, -count).
func (h *Harness) Group(name string) harness.Group {
	return &group{b: h.b, name: name}
}

type group struct {
	b    *testing.B
	name string
}

func (g *group) Configure(harness.GroupConfig) {}

func (g *group) Register(name string, throughput *harness.Throughput, sample harness.SampleFunc) {
	g.b.Run(g.name+"/"+name, func(b *testing.B) {
		if throughput != nil && throughput.Kind == harness.ThroughputBytes {
			b.SetBytes(int64(throughput.N)) //nolint:gosec // throughput hints are small
		}

		total, err := sample(uint64(b.N))
		if err != nil {
			b.Fatalf("sample failed: %v", err)
		}

		// The callback measures its own critical section, so report its
		// summed time instead of the wall clock testing.B observed.
		perOp := float64(total.Nanoseconds()) / float64(b.N)
		b.ReportMetric(perOp, "measured-ns/op")

		if throughput != nil && throughput.Kind == harness.ThroughputElements && total > 0 {
			rate := float64(throughput.N) * float64(b.N) / total.Seconds()
			b.ReportMetric(rate, "elems/s")
		}
	})
}

func (g *group) Finish() {}
