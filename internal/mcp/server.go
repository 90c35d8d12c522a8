// Package mcp provides an MCP (Model Context Protocol) server for leverage.
package mcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/leverage/internal/config"
	"github.com/nvandessel/leverage/internal/logging"
	"github.com/nvandessel/leverage/internal/metrics"
	"github.com/nvandessel/leverage/internal/network"
	"github.com/nvandessel/leverage/internal/pathutil"
	"github.com/nvandessel/leverage/internal/ratelimit"
)

// Server wraps the MCP SDK server and exposes the solver as tools.
type Server struct {
	server       *sdk.Server
	settings     *config.LeverageConfig
	logger       *slog.Logger
	trace        *logging.TraceLogger
	recorder     *metrics.Recorder
	scenarioDirs []string
	toolLimiters ratelimit.ToolLimiters
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "leverage")
	Version string // Server version

	// Settings supplies simulation defaults. Nil means config.Default().
	Settings *config.LeverageConfig

	// Logger receives operational logs. Nil discards them.
	Logger *slog.Logger

	// Trace, when non-nil, records every run the server performs.
	Trace *logging.TraceLogger

	// Recorder, when non-nil, collects solver metrics.
	Recorder *metrics.Recorder

	// ScenarioDirs limits where leverage_simulate may read scenario files.
	// Nil means pathutil.DefaultScenarioDirs().
	ScenarioDirs []string
}

// NewServer creates a new MCP server with leverage tools.
func NewServer(cfg *Config) (*Server, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	scenarioDirs := cfg.ScenarioDirs
	if scenarioDirs == nil {
		// Without a home directory no scenario file is reachable.
		scenarioDirs, _ = pathutil.DefaultScenarioDirs()
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			logger.Debug("mcp client initialized")
		},
	})

	s := &Server{
		server:       mcpServer,
		settings:     settings,
		logger:       logger,
		trace:        cfg.Trace,
		recorder:     cfg.Recorder,
		scenarioDirs: scenarioDirs,
		toolLimiters: ratelimit.NewToolLimiters(),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// observers returns the observers attached to every run.
func (s *Server) observers() network.Option {
	return network.WithObserver(s.trace, s.recorder, logging.NewSlogObserver(s.logger))
}

// Run serves MCP over stdio until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &sdk.StdioTransport{})
}
