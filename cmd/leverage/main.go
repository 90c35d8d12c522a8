package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/leverage/internal/config"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leverage",
		Short: "Epistemic leverage - stake network dynamics solver",
		Long: `leverage iterates the seven-node stake network of an epistemic
leverage market until the dynamic scores converge, then reports final
scores and normalized token prices.

Defaults come from ~/.leverage/config.yaml; scenario files and flags
override them per run.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.leverage/config.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(),
		newExploreCmd(),
		newValidateCmd(),
		newConfigCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}

// loadConfig loads and validates the configuration named by --config, or
// the default location when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.LeverageConfig, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.LeverageConfig
		err error
	)
	if path != "" {
		cfg, err = config.LoadWithPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// configPath returns the path config changes are saved to.
func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return config.DefaultPath()
}
