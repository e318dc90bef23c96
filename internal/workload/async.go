package workload

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/benchmatrix/benchmatrix/pkg/errors"
	"github.com/benchmatrix/benchmatrix/pkg/harness"
	"github.com/benchmatrix/benchmatrix/pkg/logger"
	"github.com/benchmatrix/benchmatrix/pkg/matrix"
	stringpool "github.com/benchmatrix/benchmatrix/pkg/strings"
	"github.com/benchmatrix/benchmatrix/pkg/suite"
)

// WorkloadType selects the simulated I/O pattern of the suspension-capable
// demo workload.
type WorkloadType string

const (
	// WorkloadNetwork simulates network round trips scaled by packet size.
	WorkloadNetwork WorkloadType = "Network"
	// WorkloadDisk simulates disk operations with a higher base latency.
	WorkloadDisk WorkloadType = "Disk"
)

// AsyncConfig is the concrete configuration one suspension-capable
// combination maps to.
type AsyncConfig struct {
	Workload      WorkloadType
	PacketSize    uint32
	ConcurrentOps uint16
}

// Clone returns an independent copy handed to each sample.
func (c AsyncConfig) Clone() AsyncConfig { return c }

func (c AsyncConfig) String() string {
	return stringpool.Sprintf("AsyncConfig{Workload:%s, PacketSize:%d, ConcurrentOps:%d}",
		string(c.Workload), c.PacketSize, c.ConcurrentOps)
}

// delayPerOp returns the simulated latency of one operation.
func (c AsyncConfig) delayPerOp() time.Duration {
	switch c.Workload {
	case WorkloadDisk:
		return time.Duration(20+uint64(c.PacketSize)/100) * time.Microsecond
	default:
		return time.Duration(10+uint64(c.PacketSize)/200) * time.Microsecond
	}
}

// AsyncContext accumulates per-iteration operation counts.
type AsyncContext struct {
	OpsThisIteration uint32
}

// AsyncState holds the simulated packet and connection set for one sample.
type AsyncState struct {
	dataPacket  []byte
	connections []string
}

// AsyncAxes returns the parameter axes of the suspension-capable demo sweep:
// workload type x packet size x concurrency.
func AsyncAxes() []matrix.Axis {
	return []matrix.Axis{
		{matrix.Tag("Network"), matrix.Tag("Disk")},
		{matrix.Uint(64), matrix.Uint(512)},
		{matrix.Uint(1), matrix.Uint(4)},
	}
}

// AsyncAxisNames returns the display names matching AsyncAxes.
func AsyncAxisNames() []string {
	return []string{"WorkloadType", "PktSize", "Concurrency"}
}

// AsyncWorkload is the suspension-capable demo workload.
type AsyncWorkload struct {
	counter atomic.Int64
	log     *zap.Logger
}

// NewAsyncWorkload builds the suspension-capable demo workload.
func NewAsyncWorkload(log *zap.Logger) *AsyncWorkload {
	return &AsyncWorkload{log: log}
}

// ExtractConfig maps one combination to an AsyncConfig, validating the
// workload tag.
func (w *AsyncWorkload) ExtractConfig(combo matrix.Combination) (AsyncConfig, error) {
	workload, err := combo.TagAt(0)
	if err != nil {
		return AsyncConfig{}, err
	}
	switch WorkloadType(workload) {
	case WorkloadNetwork, WorkloadDisk:
	default:
		return AsyncConfig{}, errors.Newf(errors.ErrorTypeExtraction, "unknown async workload type: %s", workload)
	}

	packetSize, err := combo.UintAt(1)
	if err != nil {
		return AsyncConfig{}, err
	}
	concurrentOps, err := combo.UintAt(2)
	if err != nil {
		return AsyncConfig{}, err
	}

	return AsyncConfig{
		Workload:      WorkloadType(workload),
		PacketSize:    uint32(packetSize),
		ConcurrentOps: uint16(concurrentOps),
	}, nil
}

// GlobalSetup runs once per configuration before its samples.
func (w *AsyncWorkload) GlobalSetup(cfg AsyncConfig) error {
	w.log.Info("async global setup",
		zap.String("config", cfg.String()),
		zap.Int64("counter", w.counter.Add(1)),
	)
	return nil
}

// GlobalTeardown runs once per configuration after its samples.
func (w *AsyncWorkload) GlobalTeardown(cfg AsyncConfig) error {
	w.log.Info("async global teardown",
		zap.String("config", cfg.String()),
		zap.Int64("counter", w.counter.Load()),
	)
	return nil
}

// Setup builds the simulated packet and connection set for one sample. It
// may suspend on the context.
func (w *AsyncWorkload) Setup(ctx context.Context, rt suite.Runtime, cfg AsyncConfig) (AsyncContext, AsyncState, error) {
	if err := sleep(ctx, 10*time.Microsecond); err != nil {
		return AsyncContext{}, AsyncState{}, err
	}

	logger.WithContext(ctx).Debug("sample setup", zap.Uint32("packet_size", cfg.PacketSize))

	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // benchmark data, not security sensitive
	packet := make([]byte, cfg.PacketSize)
	rng.Read(packet)

	connections := make([]string, cfg.ConcurrentOps)
	for i := range connections {
		connections[i] = stringpool.Sprintf("conn-%d-%s-%d", i, string(cfg.Workload), cfg.PacketSize)
	}

	return AsyncContext{}, AsyncState{
		dataPacket:  packet,
		connections: connections,
	}, nil
}

// Logic runs one measured iteration: a simulated batch of concurrent
// operations followed by a checksum over the packet.
func (w *AsyncWorkload) Logic(ctx context.Context, actx AsyncContext, state AsyncState, cfg AsyncConfig) (AsyncContext, AsyncState, time.Duration) {
	start := time.Now()

	ops := uint32(cfg.ConcurrentOps)
	if ops == 0 {
		ops = 1
	}
	_ = sleep(ctx, cfg.delayPerOp()*time.Duration(ops))

	var checksum uint8
	for _, b := range state.dataPacket {
		checksum += b
	}
	_ = checksum

	elapsed := time.Since(start)
	actx.OpsThisIteration += ops
	return actx, state, elapsed
}

// Teardown drops the sample's simulated connections.
func (w *AsyncWorkload) Teardown(ctx context.Context, actx AsyncContext, state AsyncState, rt suite.Runtime, cfg AsyncConfig) {
	_ = sleep(ctx, 5*time.Microsecond)
	state.dataPacket = nil
	state.connections = nil
}

// Suite assembles the fully configured suspension-capable demo suite. A nil
// runtime selects the default goroutine-backed one.
func (w *AsyncWorkload) Suite(rt suite.Runtime) *suite.AsyncSuite[AsyncConfig, AsyncContext, AsyncState] {
	return suite.NewAsync("AsyncNamedSuite", rt, AsyncAxes(),
		w.ExtractConfig, w.Setup, w.Logic, w.Teardown,
	).
		WithAxisNames(AsyncAxisNames()...).
		WithGlobalSetup(w.GlobalSetup).
		WithGlobalTeardown(w.GlobalTeardown).
		WithGroupConfig(harness.GroupConfig{
			SampleSize:      10,
			MeasurementTime: 3 * time.Second,
			Scale:           harness.ScaleLogarithmic,
		}).
		WithThroughput(func(cfg AsyncConfig) harness.Throughput {
			if cfg.ConcurrentOps > 0 {
				return harness.Elements(uint64(cfg.ConcurrentOps))
			}
			return harness.Elements(1)
		}).
		WithLogger(w.log)
}

// sleep blocks for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
