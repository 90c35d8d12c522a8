package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/leverage/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve the solver as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing
leverage_simulate, leverage_explore and leverage_defaults, plus the
network topology as a resource.

Logs go to stderr so they never interleave with protocol traffic.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			rt := newRuntime(cfg, cmd.ErrOrStderr())
			defer rt.close()

			server, err := mcp.NewServer(&mcp.Config{
				Name:     "leverage",
				Version:  version,
				Settings: cfg,
				Logger:   rt.logger,
				Trace:    rt.trace,
				Recorder: rt.recorder,
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			rt.logger.Info("mcp server starting", "version", version)
			return server.Run(ctx)
		},
	}
}
