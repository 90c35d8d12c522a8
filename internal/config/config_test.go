package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/leverage/internal/network"
)

func TestDefault(t *testing.T) {
	config := Default()

	// Simulation defaults
	s := config.Simulation
	if s.Stakes.QK != 10 || s.Stakes.PK != 5 {
		t.Errorf("expected primary stakes 10/5, got %v/%v", s.Stakes.QK, s.Stakes.PK)
	}
	if s.Stakes.XK != 5 || s.Stakes.XD != 3 || s.Stakes.ZK != 2 || s.Stakes.ZD != 1 {
		t.Errorf("unexpected restake defaults: %+v", s.Stakes)
	}
	if s.Constants.A != 0.5 {
		t.Errorf("expected A 0.5, got %v", s.Constants.A)
	}
	if s.MaxIterations != 10 {
		t.Errorf("expected MaxIterations 10, got %d", s.MaxIterations)
	}
	if s.ConvergenceThreshold != 0.01 {
		t.Errorf("expected ConvergenceThreshold 0.01, got %v", s.ConvergenceThreshold)
	}

	// Logging defaults
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
	if config.Metrics.Textfile != "" {
		t.Errorf("expected empty Metrics.Textfile, got '%s'", config.Metrics.Textfile)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
simulation:
  stakes:
    q_k: 20
    x_k: 8
  constants:
    a_const: 0.25
  max_iterations: 50

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Simulation.Stakes.QK != 20 {
		t.Errorf("expected q_k 20, got %v", config.Simulation.Stakes.QK)
	}
	if config.Simulation.Stakes.XK != 8 {
		t.Errorf("expected x_k 8, got %v", config.Simulation.Stakes.XK)
	}
	// Unset keys keep defaults
	if config.Simulation.Stakes.PK != 5 {
		t.Errorf("expected p_k to keep default 5, got %v", config.Simulation.Stakes.PK)
	}
	if config.Simulation.Constants.A != 0.25 {
		t.Errorf("expected a_const 0.25, got %v", config.Simulation.Constants.A)
	}
	if config.Simulation.Constants.K != 1 {
		t.Errorf("expected k_const to keep default 1, got %v", config.Simulation.Constants.K)
	}
	if config.Simulation.MaxIterations != 50 {
		t.Errorf("expected max_iterations 50, got %d", config.Simulation.MaxIterations)
	}
	if config.Simulation.ConvergenceThreshold != 0.01 {
		t.Errorf("expected threshold default 0.01, got %v", config.Simulation.ConvergenceThreshold)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected level 'debug', got '%s'", config.Logging.Level)
	}
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("TEST_METRICS_DIR", "/var/lib/node_exporter")

	configContent := `
metrics:
  textfile: ${TEST_METRICS_DIR}/leverage.prom
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	want := "/var/lib/node_exporter/leverage.prom"
	if config.Metrics.Textfile != want {
		t.Errorf("expected textfile %q, got %q", want, config.Metrics.Textfile)
	}
}

func TestLoadWithPath_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadWithPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadWithPath failed: %v", err)
	}
	if config.Simulation.MaxIterations != 10 {
		t.Errorf("expected default max_iterations, got %d", config.Simulation.MaxIterations)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LEVERAGE_LOG_LEVEL", "trace")
	t.Setenv("LEVERAGE_MAX_ITERATIONS", "25")
	t.Setenv("LEVERAGE_CONVERGENCE_THRESHOLD", "0.001")
	t.Setenv("LEVERAGE_METRICS_TEXTFILE", "/tmp/leverage.prom")
	t.Setenv("LEVERAGE_TRACE_DIR", "/tmp/traces")

	config := Default()
	applyEnvOverrides(config)

	if config.Logging.Level != "trace" {
		t.Errorf("expected level 'trace', got '%s'", config.Logging.Level)
	}
	if config.Simulation.MaxIterations != 25 {
		t.Errorf("expected max_iterations 25, got %d", config.Simulation.MaxIterations)
	}
	if config.Simulation.ConvergenceThreshold != 0.001 {
		t.Errorf("expected threshold 0.001, got %v", config.Simulation.ConvergenceThreshold)
	}
	if config.Metrics.Textfile != "/tmp/leverage.prom" {
		t.Errorf("expected textfile override, got '%s'", config.Metrics.Textfile)
	}
	if config.ResolvedTraceDir() != "/tmp/traces" {
		t.Errorf("expected trace dir override, got '%s'", config.ResolvedTraceDir())
	}
}

func TestEnvOverrides_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("LEVERAGE_MAX_ITERATIONS", "many")
	t.Setenv("LEVERAGE_CONVERGENCE_THRESHOLD", "tiny")

	config := Default()
	applyEnvOverrides(config)

	if config.Simulation.MaxIterations != 10 {
		t.Errorf("expected max_iterations to stay 10, got %d", config.Simulation.MaxIterations)
	}
	if config.Simulation.ConvergenceThreshold != 0.01 {
		t.Errorf("expected threshold to stay 0.01, got %v", config.Simulation.ConvergenceThreshold)
	}
}

func TestValidate_InvalidSimulation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LeverageConfig)
		field  string
	}{
		{"doubt above restake", func(c *LeverageConfig) { c.Simulation.Stakes.XD = 9 }, "x_d"},
		{"attenuation above one", func(c *LeverageConfig) { c.Simulation.Constants.A = 2 }, "a_const"},
		{"zero iterations", func(c *LeverageConfig) { c.Simulation.MaxIterations = 0 }, "max_iterations"},
		{"negative threshold", func(c *LeverageConfig) { c.Simulation.ConvergenceThreshold = -1 }, "convergence_threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)

			err := config.Validate()
			var ce *network.ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ce.Field)
			}
		})
	}
}

func TestValidate_IterationCeiling(t *testing.T) {
	config := Default()
	config.Simulation.MaxIterations = 1_000_000

	err := config.Validate()
	if err == nil || !strings.Contains(err.Error(), "at most") {
		t.Errorf("expected ceiling error, got %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	config := Default()
	config.Logging.Level = "verbose"

	if err := config.Validate(); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestValidate_ValidLogLevels(t *testing.T) {
	for _, level := range []string{"", "info", "debug", "trace"} {
		config := Default()
		config.Logging.Level = level
		if err := config.Validate(); err != nil {
			t.Errorf("level %q should be valid: %v", level, err)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := Default()
	config.Simulation.Stakes.QK = 42
	config.Logging.Level = "debug"
	if err := config.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Simulation.Stakes.QK != 42 {
		t.Errorf("expected q_k 42, got %v", loaded.Simulation.Stakes.QK)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("expected level 'debug', got '%s'", loaded.Logging.Level)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("simulation: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
