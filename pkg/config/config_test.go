package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchmatrix/benchmatrix/pkg/errors"
	"github.com/benchmatrix/benchmatrix/pkg/harness"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRunnerConfig(t *testing.T) {
	path := writeConfigFile(t, `
log_level: debug
json_output: results.json
defaults:
  sample_size: 20
  measurement_time: 3s
suites:
  SortSuite:
    sample_size: 50
    scale: linear
`)

	cfg := DefaultRunnerConfig()
	require.NoError(t, Load(path, cfg))

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "results.json", cfg.JSONOutput)
	assert.Equal(t, 20, cfg.Defaults.SampleSize)
	assert.Equal(t, "3s", cfg.Defaults.MeasurementTime)
}

func TestLoadMissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &RunnerConfig{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "log_level: [unclosed")
	err := Load(path, &RunnerConfig{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestEnvSubstitution(t *testing.T) {
	t.Setenv("BENCH_LOG_LEVEL", "warn")
	path := writeConfigFile(t, "log_level: ${BENCH_LOG_LEVEL}\n")

	var cfg RunnerConfig
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestGroupConfigDefaults(t *testing.T) {
	cfg := DefaultRunnerConfig()

	gc, err := cfg.GroupConfig("AnySuite")
	require.NoError(t, err)
	assert.Equal(t, harness.DefaultGroupConfig(), gc)
}

func TestGroupConfigOverrides(t *testing.T) {
	cfg := DefaultRunnerConfig()
	cfg.Suites = map[string]SuiteConfig{
		"SortSuite": {SampleSize: 50, MeasurementTime: "2s", Scale: "linear"},
	}

	gc, err := cfg.GroupConfig("SortSuite")
	require.NoError(t, err)
	assert.Equal(t, 50, gc.SampleSize)
	assert.Equal(t, 2*time.Second, gc.MeasurementTime)
	assert.Equal(t, harness.ScaleLinear, gc.Scale)

	// Other suites keep the defaults.
	gc, err = cfg.GroupConfig("OtherSuite")
	require.NoError(t, err)
	assert.Equal(t, harness.DefaultGroupConfig(), gc)
}

func TestGroupConfigBadValues(t *testing.T) {
	cfg := DefaultRunnerConfig()
	cfg.Defaults.Scale = "sideways"
	_, err := cfg.GroupConfig("AnySuite")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	cfg = DefaultRunnerConfig()
	cfg.Defaults.MeasurementTime = "five seconds"
	_, err = cfg.GroupConfig("AnySuite")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	in := DefaultRunnerConfig()
	in.LogLevel = "error"
	in.Suites = map[string]SuiteConfig{"SortSuite": {SampleSize: 30}}

	require.NoError(t, Save(path, in))

	var out RunnerConfig
	require.NoError(t, Load(path, &out))
	assert.Equal(t, *in, out)
}
