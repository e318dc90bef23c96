package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benchmatrix/benchmatrix/internal/workload"
	"github.com/benchmatrix/benchmatrix/pkg/config"
	"github.com/benchmatrix/benchmatrix/pkg/harness"
	"github.com/benchmatrix/benchmatrix/pkg/harness/console"
	"github.com/benchmatrix/benchmatrix/pkg/logger"
	"github.com/benchmatrix/benchmatrix/pkg/matrix"
	stringpool "github.com/benchmatrix/benchmatrix/pkg/strings"
	"github.com/benchmatrix/benchmatrix/pkg/suite"
)

var version = "0.1.0"

const (
	suiteSync  = "sync"
	suiteAsync = "async"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	root := &cobra.Command{
		Use:   "matrixbench",
		Short: "matrixbench - parameter-matrix benchmark runner",
		Long: `matrixbench sweeps benchmark suites across the Cartesian product of their
parameter axes, running the full setup/logic/teardown lifecycle for every
combination and reporting per-case timing statistics.`,
	}

	// Version command
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("matrixbench v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	// List command to show bundled suites and their parameter axes
	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List bundled benchmark suites",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Bundled suites:")
			fmt.Printf("  - %s: axes %s, %d combinations\n",
				suiteSync, stringpool.Join(workload.SyncAxisNames(), ", "),
				matrix.NewProduct(workload.SyncAxes()).Count())
			fmt.Printf("  - %s: axes %s, %d combinations\n",
				suiteAsync, stringpool.Join(workload.AsyncAxisNames(), ", "),
				matrix.NewProduct(workload.AsyncAxes()).Count())
		},
	})

	// Main run command
	var configFile, logLevel, jsonOutput string
	var sampleSize int
	var measurementTime time.Duration
	var suites []string

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the bundled benchmark suites",
		Long: `Run the bundled benchmark suites against the console harness.
An optional YAML configuration file overrides sampling parameters per suite.

Example:
  matrixbench run --suites sync --sample-size 20 --json-output results.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(runOptions{
				configFile:      configFile,
				logLevel:        logLevel,
				jsonOutput:      jsonOutput,
				sampleSize:      sampleSize,
				measurementTime: measurementTime,
				suites:          suites,
			})
		},
	}

	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to runner configuration YAML file (optional)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	runCmd.Flags().StringVar(&jsonOutput, "json-output", "", "Write per-case results to this file as JSON")
	runCmd.Flags().IntVar(&sampleSize, "sample-size", 0, "Sample batches per case; overrides the config file and suite defaults")
	runCmd.Flags().DurationVar(&measurementTime, "measurement-time", 0, "Wall-clock budget per case (e.g. 2s, 1m); overrides the config file and suite defaults")
	runCmd.Flags().StringSliceVar(&suites, "suites", []string{suiteSync, suiteAsync}, "Suites to run")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runOptions struct {
	configFile      string
	logLevel        string
	jsonOutput      string
	sampleSize      int
	measurementTime time.Duration
	suites          []string
}

func runSuites(opts runOptions) error {
	cfg := config.DefaultRunnerConfig()
	if opts.configFile != "" {
		if err := config.Load(opts.configFile, cfg); err != nil {
			return err
		}
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.jsonOutput != "" {
		cfg.JSONOutput = opts.jsonOutput
	}
	if opts.sampleSize != 0 {
		cfg.Defaults.SampleSize = opts.sampleSize
	}
	if opts.measurementTime != 0 {
		cfg.Defaults.MeasurementTime = opts.measurementTime.String()
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Encoding:    "console",
		OutputPaths: []string{"stderr"},
	}); err != nil {
		return err
	}
	log := logger.Get()
	defer func() { _ = logger.Sync() }()

	h := console.New(log)

	var reports []suite.Report
	for _, name := range opts.suites {
		switch name {
		case suiteSync:
			s := workload.NewSyncWorkload(log).Suite()
			if gc, ok := resolveGroupConfig(cfg, "SyncExampleSuite", opts); ok {
				s.WithGroupConfig(gc)
			}
			reports = append(reports, s.Run(h))
		case suiteAsync:
			s := workload.NewAsyncWorkload(log).Suite(nil)
			if gc, ok := resolveGroupConfig(cfg, "AsyncNamedSuite", opts); ok {
				s.WithGroupConfig(gc)
			}
			ctx, cancel := signalContext()
			reports = append(reports, s.Run(ctx, h))
			cancel()
		default:
			return fmt.Errorf("unknown suite %q, want %s or %s", name, suiteSync, suiteAsync)
		}
	}

	var completed, skipped int
	for _, r := range reports {
		completed += r.Completed
		skipped += r.SkippedExtraction + r.SkippedGlobalSetup
	}
	log.Info("all suites finished",
		zap.Int("suites", len(reports)),
		zap.Int("completed", completed),
		zap.Int("skipped", skipped),
	)

	if cfg.JSONOutput != "" {
		f, err := os.Create(cfg.JSONOutput) //nolint:gosec // G304: path supplied by the operator
		if err != nil {
			return fmt.Errorf("failed to create results file: %w", err)
		}
		defer f.Close()
		if err := h.WriteJSON(f); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		log.Info("results written", zap.String("path", cfg.JSONOutput))
	}

	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// resolveGroupConfig layers the config file and command-line overrides over
// the suite's built-in sampling parameters. The boolean is false when
// nothing was overridden and the suite's own configuration should stand.
func resolveGroupConfig(cfg *config.RunnerConfig, suiteName string, opts runOptions) (harness.GroupConfig, bool) {
	overridden := opts.configFile != "" || opts.sampleSize != 0 || opts.measurementTime != 0
	if !overridden {
		return harness.GroupConfig{}, false
	}
	gc, err := cfg.GroupConfig(suiteName)
	if err != nil {
		logger.Warn("invalid group configuration, using suite defaults",
			zap.String("suite", suiteName),
			zap.Error(err),
		)
		return harness.GroupConfig{}, false
	}
	return gc, true
}
