package mcp

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/leverage/internal/config"
	"github.com/nvandessel/leverage/internal/logging"
	"github.com/nvandessel/leverage/internal/metrics"
)

func TestNewServer(t *testing.T) {
	server, err := NewServer(&Config{
		Name:    "test-server",
		Version: "v1.0.0",
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	if server.server == nil {
		t.Error("Server.server is nil")
	}
	if server.settings == nil {
		t.Error("Server.settings should default when not supplied")
	}
	if server.logger == nil {
		t.Error("Server.logger should default to a discarding logger")
	}
	if len(server.toolLimiters) == 0 {
		t.Error("Server.toolLimiters is empty")
	}
}

func TestNewServer_InvalidSettings(t *testing.T) {
	settings := config.Default()
	settings.Simulation.Constants.A = 1.5

	if _, err := NewServer(&Config{Name: "test", Version: "v0", Settings: settings}); err == nil {
		t.Fatal("expected error for invalid settings")
	} else if !strings.Contains(err.Error(), "a_const") {
		t.Errorf("error should name a_const, got %v", err)
	}
}

func TestNewServer_WiresObservers(t *testing.T) {
	var buf bytes.Buffer
	rec := metrics.NewRecorder()
	trace := logging.NewTraceLogger(t.TempDir(), "debug")
	defer trace.Close()

	server, err := NewServer(&Config{
		Name:     "test",
		Version:  "v0",
		Logger:   logging.NewLogger("debug", &buf),
		Trace:    trace,
		Recorder: rec,
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if server.recorder != rec || server.trace != trace {
		t.Error("server should keep the supplied recorder and trace logger")
	}
}

func TestNewServer_ScenarioDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	server, err := NewServer(&Config{Name: "test", Version: "v0"})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	want := filepath.Join(home, ".leverage", "scenarios")
	if len(server.scenarioDirs) != 1 || server.scenarioDirs[0] != want {
		t.Errorf("scenarioDirs = %v, want [%s]", server.scenarioDirs, want)
	}

	custom := []string{t.TempDir()}
	server, err = NewServer(&Config{Name: "test", Version: "v0", ScenarioDirs: custom})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if len(server.scenarioDirs) != 1 || server.scenarioDirs[0] != custom[0] {
		t.Errorf("scenarioDirs = %v, want %v", server.scenarioDirs, custom)
	}
}
