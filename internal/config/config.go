// Package config provides unified configuration loading for leverage.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/leverage/internal/constants"
	"github.com/nvandessel/leverage/internal/network"
)

// LeverageConfig contains all leverage configuration settings.
type LeverageConfig struct {
	// Simulation holds the defaults applied to every run.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Logging contains settings for operational logging and run traces.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Metrics contains settings for solver metrics export.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// SimulationConfig holds default stakes, constants and iteration bounds.
// Scenario files and command-line flags override individual values.
type SimulationConfig struct {
	Stakes    network.StakeInputs `json:"stakes" yaml:"stakes"`
	Constants network.Constants   `json:"constants" yaml:"constants"`

	// MaxIterations is the iteration budget. Must be at least 1.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// ConvergenceThreshold is the strict bound on every dynamic delta.
	ConvergenceThreshold float64 `json:"convergence_threshold" yaml:"convergence_threshold"`
}

// SolverConfig returns the iteration bounds as a network.Config.
func (s SimulationConfig) SolverConfig() network.Config {
	return network.Config{
		MaxIterations:        s.MaxIterations,
		ConvergenceThreshold: s.ConvergenceThreshold,
	}
}

// LoggingConfig configures leverage's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables per-run JSONL traces under TraceDir.
	// "trace" additionally logs every iteration to stderr.
	Level string `json:"level" yaml:"level"`

	// TraceDir is where trace.jsonl is written. Empty means ~/.leverage.
	TraceDir string `json:"trace_dir,omitempty" yaml:"trace_dir,omitempty"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives solver metrics in Prometheus text
	// format after each command. Supports ${VAR} expansion.
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

// Default returns a LeverageConfig with the reference scenario defaults.
func Default() *LeverageConfig {
	return &LeverageConfig{
		Simulation: SimulationConfig{
			Stakes: network.StakeInputs{
				QK: constants.DefaultQK,
				PK: constants.DefaultPK,
				XK: constants.DefaultXK,
				XD: constants.DefaultXD,
				ZK: constants.DefaultZK,
				ZD: constants.DefaultZD,
				OK: constants.DefaultOK,
				RK: constants.DefaultRK,
				YK: constants.DefaultYK,
			},
			Constants: network.Constants{
				K: constants.DefaultK,
				D: constants.DefaultD,
				V: constants.DefaultV,
				A: constants.DefaultA,
			},
			MaxIterations:        constants.DefaultMaxIterations,
			ConvergenceThreshold: constants.DefaultConvergenceThreshold,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.leverage/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(homeDir, ".leverage", "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.leverage/config.yaml -> environment variables
func Load() (*LeverageConfig, error) {
	path, err := DefaultPath()
	if err != nil {
		config := Default()
		applyEnvOverrides(config)
		return config, nil
	}
	return LoadWithPath(path)
}

// LoadWithPath behaves like Load but reads the config file at path.
// A missing file is not an error.
func LoadWithPath(path string) (*LeverageConfig, error) {
	config := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		fileConfig, loadErr := LoadFromFile(path)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
// Keys absent from the file keep their default values.
func LoadFromFile(path string) (*LeverageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Metrics.Textfile = expandEnvVars(config.Metrics.Textfile)
	config.Logging.TraceDir = expandEnvVars(config.Logging.TraceDir)

	return config, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *LeverageConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid. Simulation defaults are
// checked with the same rules the solver applies, so errors name the
// offending field.
func (c *LeverageConfig) Validate() error {
	if err := network.ValidateStakes(c.Simulation.Stakes); err != nil {
		return err
	}
	if err := network.ValidateConstants(c.Simulation.Constants); err != nil {
		return err
	}
	if err := network.ValidateConfig(c.Simulation.SolverConfig()); err != nil {
		return err
	}
	if c.Simulation.MaxIterations > constants.MaxIterationsCeiling {
		return fmt.Errorf("max_iterations must be at most %d, got %d", constants.MaxIterationsCeiling, c.Simulation.MaxIterations)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// ResolvedTraceDir returns TraceDir, falling back to ~/.leverage.
func (c *LeverageConfig) ResolvedTraceDir() string {
	if c.Logging.TraceDir != "" {
		return c.Logging.TraceDir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".leverage"
	}
	return filepath.Join(homeDir, ".leverage")
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *LeverageConfig) {
	if v := os.Getenv("LEVERAGE_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("LEVERAGE_TRACE_DIR"); v != "" {
		config.Logging.TraceDir = v
	}

	if v := os.Getenv("LEVERAGE_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.MaxIterations = n
		}
	}

	if v := os.Getenv("LEVERAGE_CONVERGENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.ConvergenceThreshold = f
		}
	}

	if v := os.Getenv("LEVERAGE_METRICS_TEXTFILE"); v != "" {
		config.Metrics.Textfile = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
