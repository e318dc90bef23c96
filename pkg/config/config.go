// Package config loads and saves runner configuration from YAML files, with
// ${VAR} environment substitution applied before parsing.
package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benchmatrix/benchmatrix/pkg/errors"
	"github.com/benchmatrix/benchmatrix/pkg/harness"
)

// RunnerConfig is the top-level configuration for the command-line runner.
type RunnerConfig struct {
	// LogLevel is one of debug, info, warn, error. Empty means info.
	LogLevel string `yaml:"log_level"`

	// JSONOutput, when non-empty, is the path the per-case results are
	// written to as JSON after the run.
	JSONOutput string `yaml:"json_output"`

	// Defaults apply to every suite that has no override of its own.
	Defaults SuiteConfig `yaml:"defaults"`

	// Suites overrides sampling parameters per suite name.
	Suites map[string]SuiteConfig `yaml:"suites"`
}

// SuiteConfig holds the sampling parameters for one suite. MeasurementTime
// uses Go duration syntax, e.g. "5s" or "1m30s".
type SuiteConfig struct {
	SampleSize      int    `yaml:"sample_size"`
	MeasurementTime string `yaml:"measurement_time"`
	Scale           string `yaml:"scale"`
}

// DefaultRunnerConfig returns the configuration used when no file is given.
func DefaultRunnerConfig() *RunnerConfig {
	return &RunnerConfig{
		LogLevel: "info",
		Defaults: SuiteConfig{
			SampleSize:      10,
			MeasurementTime: "5s",
			Scale:           "logarithmic",
		},
	}
}

// GroupConfig resolves the effective harness group configuration for the
// named suite, layering the per-suite override over the defaults.
func (c *RunnerConfig) GroupConfig(suite string) (harness.GroupConfig, error) {
	eff := c.Defaults
	if override, ok := c.Suites[suite]; ok {
		if override.SampleSize != 0 {
			eff.SampleSize = override.SampleSize
		}
		if override.MeasurementTime != "" {
			eff.MeasurementTime = override.MeasurementTime
		}
		if override.Scale != "" {
			eff.Scale = override.Scale
		}
	}

	scale, err := parseScale(eff.Scale)
	if err != nil {
		return harness.GroupConfig{}, err
	}

	out := harness.DefaultGroupConfig()
	if eff.SampleSize != 0 {
		out.SampleSize = eff.SampleSize
	}
	if eff.MeasurementTime != "" {
		d, err := time.ParseDuration(eff.MeasurementTime)
		if err != nil {
			return harness.GroupConfig{}, errors.Wrap(err, errors.ErrorTypeConfig, "invalid measurement_time").
				WithDetail("suite", suite)
		}
		out.MeasurementTime = d
	}
	out.Scale = scale
	return out, nil
}

func parseScale(s string) (harness.AxisScale, error) {
	switch strings.ToLower(s) {
	case "", "logarithmic", "log":
		return harness.ScaleLogarithmic, nil
	case "linear":
		return harness.ScaleLinear, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeConfig, "unknown scale %q, want linear or logarithmic", s)
	}
}

// Load reads a YAML configuration file into config, substituting ${VAR}
// references with environment variable values first.
func Load(filePath string, config interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller and validated
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file").
			WithDetail("path", filePath)
	}

	content := substituteEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(content), config); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML").
			WithDetail("path", filePath)
	}

	return nil
}

// Save writes config to a YAML file.
func Save(filePath string, config interface{}) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to write config file").
			WithDetail("path", filePath)
	}

	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}
