package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/leverage/internal/constants"
	"github.com/nvandessel/leverage/internal/network"
	"github.com/nvandessel/leverage/internal/render"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Iterate the stake network until it converges",
		Long: `Iterate the stake network from its initial stakes until every dynamic
score moves by less than the convergence threshold, or until the
iteration budget runs out. Both outcomes are reported, neither is an
error.

Examples:
  leverage simulate                          # Reference scenario
  leverage simulate --x-d 0 --z-d 0          # Remove both doubts
  leverage simulate --scenario heavy.yaml    # Run a scenario file
  leverage simulate --trajectory --json      # Full trajectory as JSON`,
		RunE: runSimulate,
	}

	addScenarioFlags(cmd, simulateFlags)
	cmd.Flags().Int("max-iterations", constants.DefaultMaxIterations, "Iteration budget (default from config)")
	cmd.Flags().Bool("trajectory", false, "Include the per-iteration trajectory")

	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	showTrajectory, _ := cmd.Flags().GetBool("trajectory")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := resolveScenario(cmd, cfg, simulateFlags)
	if err != nil {
		return err
	}

	rt := newRuntime(cfg, cmd.ErrOrStderr())
	defer rt.close()

	solver, err := sc.Solver(rt.observers())
	if err != nil {
		rt.recorder.RecordError(err)
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	rt.logger.Debug("simulation starting", "scenario", sc.Name)
	res, runErr := solver.Run(ctx)

	if err := writeSimulation(cmd, res, jsonOut, showTrajectory); err != nil {
		return err
	}
	return runErr
}

func writeSimulation(cmd *cobra.Command, res network.SimulationResult, jsonOut, showTrajectory bool) error {
	out := cmd.OutOrStdout()

	if jsonOut {
		if !showTrajectory {
			res.Trajectory = nil
		}
		return json.NewEncoder(out).Encode(res)
	}

	if showTrajectory {
		if err := render.Trajectory(out, res); err != nil {
			return fmt.Errorf("rendering trajectory: %w", err)
		}
	}
	if err := render.Summary(out, res); err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}
	return nil
}
