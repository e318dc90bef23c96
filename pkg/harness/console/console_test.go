package console

import (
	"bytes"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchmatrix/benchmatrix/pkg/errors"
	"github.com/benchmatrix/benchmatrix/pkg/harness"
	"github.com/benchmatrix/benchmatrix/pkg/testutil"
)

// smallConfig keeps test runs to a handful of short samples.
var smallConfig = harness.GroupConfig{
	SampleSize:      3,
	MeasurementTime: 3 * time.Millisecond,
	Scale:           harness.ScaleLinear,
}

func TestRegisterCollectsResult(t *testing.T) {
	var out bytes.Buffer
	h := New(testutil.TestLogger(t), WithOutput(&out))

	g := h.Group("DemoGroup")
	g.Configure(smallConfig)

	var calls int
	g.Register("DemoCase", nil, func(iterations uint64) (time.Duration, error) {
		calls++
		return time.Duration(iterations) * time.Microsecond, nil
	})
	g.Finish()

	// One calibration call plus SampleSize measured batches.
	assert.Equal(t, 1+smallConfig.SampleSize, calls)

	results := h.Results()
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "DemoGroup", r.Group)
	assert.Equal(t, "DemoCase", r.Case)
	assert.Equal(t, smallConfig.SampleSize, r.Samples)
	assert.False(t, r.Failed)
	assert.Greater(t, r.Iterations, uint64(0))
	// Each iteration reports 1us.
	assert.Equal(t, time.Microsecond, r.P50)

	assert.Contains(t, out.String(), "DemoGroup/DemoCase")
	assert.Contains(t, out.String(), "mean")
}

func TestRegisterThroughput(t *testing.T) {
	var out bytes.Buffer
	h := New(testutil.TestLogger(t), WithOutput(&out))

	g := h.Group("TpGroup")
	g.Configure(smallConfig)

	tp := harness.Bytes(1024)
	g.Register("TpCase", &tp, func(iterations uint64) (time.Duration, error) {
		return time.Duration(iterations) * time.Microsecond, nil
	})

	results := h.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "B/s", results[0].RateUnit)
	assert.Greater(t, results[0].Rate, float64(0))
	assert.Contains(t, out.String(), "throughput")
}

func TestRegisterSetupFailure(t *testing.T) {
	var out bytes.Buffer
	h := New(testutil.TestLogger(t), WithOutput(&out))

	g := h.Group("FailGroup")
	g.Configure(smallConfig)
	g.Register("FailCase", nil, func(uint64) (time.Duration, error) {
		return 0, errors.New(errors.ErrorTypeSetup, "no resources")
	})

	results := h.Results()
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed)
	assert.NotContains(t, out.String(), "FailGroup/FailCase", "failed cases print nothing")

	// The harness keeps accepting cases after a failure.
	g.Register("NextCase", nil, func(iterations uint64) (time.Duration, error) {
		return time.Duration(iterations) * time.Microsecond, nil
	})
	require.Len(t, h.Results(), 2)
	assert.False(t, h.Results()[1].Failed)
}

func TestWriteJSON(t *testing.T) {
	h := New(testutil.TestLogger(t), WithOutput(&bytes.Buffer{}))

	g := h.Group("JSONGroup")
	g.Configure(smallConfig)
	g.Register("JSONCase", nil, func(iterations uint64) (time.Duration, error) {
		return time.Duration(iterations) * time.Microsecond, nil
	})

	var buf bytes.Buffer
	require.NoError(t, h.WriteJSON(&buf))

	var decoded []CaseResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "JSONGroup", decoded[0].Group)
	assert.Equal(t, "JSONCase", decoded[0].Case)
}

func TestConfigureZeroValueKeepsDefaults(t *testing.T) {
	h := New(testutil.TestLogger(t), WithOutput(&bytes.Buffer{}))

	g := h.Group("ZeroGroup").(*group)
	g.Configure(harness.GroupConfig{})
	assert.Equal(t, harness.DefaultGroupConfig(), g.cfg)

	// An explicit linear choice still propagates.
	g.Configure(harness.GroupConfig{Scale: harness.ScaleLinear})
	assert.Equal(t, harness.ScaleLinear, g.cfg.Scale)
}

func TestCalibrateIterations(t *testing.T) {
	cfg := harness.GroupConfig{SampleSize: 10, MeasurementTime: time.Second}

	// 1ms per iteration, 100ms budget per sample -> 100 iterations.
	assert.Equal(t, uint64(100), calibrateIterations(time.Millisecond, cfg))

	// Slower than the whole budget still runs one iteration.
	assert.Equal(t, uint64(1), calibrateIterations(time.Minute, cfg))

	// Sub-nanosecond calibration is clamped to the ceiling.
	assert.Equal(t, uint64(maxIterationsPerSample), calibrateIterations(0, cfg))
}
