// Package benchmatrix generates parameter combinations for benchmark sweeps
// and orchestrates the full benchmark lifecycle for each one.
//
// A sweep is described as a list of parameter axes, each holding typed cell
// values. The matrix package walks the Cartesian product of those axes
// lazily and in a fixed order, and each resulting combination maps to one
// named benchmark case. The suite package drives the per-combination
// lifecycle against an external harness: configuration extraction, optional
// global setup and teardown, and per-sample setup, measured logic, and
// teardown.
//
// # Quick Start
//
// Sweep a sort benchmark across data sizes:
//
//	import (
//	    "github.com/benchmatrix/benchmatrix/pkg/harness"
//	    "github.com/benchmatrix/benchmatrix/pkg/harness/console"
//	    "github.com/benchmatrix/benchmatrix/pkg/matrix"
//	    "github.com/benchmatrix/benchmatrix/pkg/suite"
//	)
//
//	axes := []matrix.Axis{
//	    {matrix.Tag("Sort"), matrix.Tag("Process")},
//	    {matrix.Uint(100), matrix.Uint(500)},
//	}
//
//	s := suite.New("Demo", axes, extractConfig, setup, logic, teardown).
//	    WithAxisNames("Algo", "Elements").
//	    WithThroughput(func(cfg Config) harness.Throughput {
//	        return harness.Elements(cfg.Elements)
//	    })
//
//	report := s.Run(console.New(logger.Get()))
//
// # Key Packages
//
//	pkg/matrix           - Typed cells, axes, and the lazy Cartesian product
//	pkg/suite            - Blocking and suspension-capable suite orchestrators
//	pkg/harness          - Boundary types for external benchmark harnesses
//	pkg/harness/benchtest - testing.B adapter for go test -bench
//	pkg/harness/console  - Standalone console harness with HDR histograms
//	pkg/config           - YAML runner configuration
//	pkg/errors           - Structured error handling
//	pkg/logger           - High-performance structured logging
//	pkg/pool             - Object pooling for combination row buffers
//	pkg/strings          - Pooled string building helpers
//
// The cmd/matrixbench command runs the bundled demonstration suites from the
// command line.
package benchmatrix
