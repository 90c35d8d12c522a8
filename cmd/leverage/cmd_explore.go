package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/leverage/internal/constants"
	"github.com/nvandessel/leverage/internal/render"
)

func newExploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Evaluate q's score once from supplied neighbor scores",
		Long: `Evaluate the score function of q a single time, with the scores of
its neighbors supplied directly instead of iterated. Shows how the
restake bonus, doubt penalty and influence combine.

Examples:
  leverage explore                      # Reference inputs
  leverage explore --z-s 0 --o-s 0      # No influence from z or o
  leverage explore --json`,
		RunE: runExplore,
	}

	addScenarioFlags(cmd, exploreFlags)

	return cmd
}

func runExplore(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := resolveScenario(cmd, cfg, exploreFlags)
	if err != nil {
		return err
	}
	// explore reads the explore block of any scenario file.
	sc.Mode = constants.ModeExplore

	rt := newRuntime(cfg, cmd.ErrOrStderr())
	defer rt.close()

	res, err := sc.RunExplore()
	if err != nil {
		rt.recorder.RecordError(err)
		return err
	}
	rt.recorder.RecordExplore()
	rt.logger.Debug("explore evaluated", "scenario", sc.Name, "q_s", res.QS)

	if jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
	}
	if err := render.Explore(cmd.OutOrStdout(), res); err != nil {
		return fmt.Errorf("rendering explore: %w", err)
	}
	return nil
}
