package benchtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/benchmatrix/benchmatrix/pkg/harness"
	"github.com/benchmatrix/benchmatrix/pkg/matrix"
	"github.com/benchmatrix/benchmatrix/pkg/suite"
)

type benchConfig struct {
	Size uint64
}

func (c benchConfig) Clone() benchConfig { return c }
func (c benchConfig) String() string     { return fmt.Sprintf("benchConfig{Size:%d}", c.Size) }

func newDemoSuite(iterationsRun *uint64) *suite.Suite[benchConfig, struct{}, []uint64] {
	return suite.New("AdapterDemo",
		[]matrix.Axis{{matrix.Uint(8), matrix.Uint(64)}},
		func(combo matrix.Combination) (benchConfig, error) {
			size, err := combo.UintAt(0)
			if err != nil {
				return benchConfig{}, err
			}
			return benchConfig{Size: size}, nil
		},
		func(cfg benchConfig) (struct{}, []uint64, error) {
			return struct{}{}, make([]uint64, cfg.Size), nil
		},
		func(_ struct{}, buf []uint64, cfg benchConfig) (struct{}, []uint64, time.Duration) {
			start := time.Now()
			var sum uint64
			for i := range buf {
				buf[i] = uint64(i)
				sum += buf[i]
			}
			_ = sum
			*iterationsRun++
			return struct{}{}, buf, time.Since(start)
		},
		func(struct{}, []uint64, benchConfig) {},
	).
		WithAxisNames("Size").
		WithThroughput(func(cfg benchConfig) harness.Throughput {
			return harness.Elements(cfg.Size)
		}).
		WithLogger(zap.NewNop())
}

func TestAdapterRunsSuite(t *testing.T) {
	var iterations uint64
	var report suite.Report

	testing.Benchmark(func(b *testing.B) {
		report = newDemoSuite(&iterations).Run(New(b))
	})

	assert.Equal(t, 2, report.Combinations)
	assert.Equal(t, 2, report.Completed)
	assert.Greater(t, iterations, uint64(0), "logic callbacks ran under the adapter")
}

// Benchmark entry point for running the demo sweep with `go test -bench .`.
func BenchmarkAdapterDemo(b *testing.B) {
	var iterations uint64
	newDemoSuite(&iterations).Run(New(b))
}
