package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/leverage/internal/config"
	"github.com/nvandessel/leverage/internal/scenario"
)

// floatFlag binds a command-line flag to one numeric scenario field.
// Flags only override the scenario when set explicitly.
type floatFlag struct {
	name  string
	usage string
	field func(sc *scenario.Scenario) *float64
}

var constantFlags = []floatFlag{
	{"k-const", "Restake bonus constant", func(sc *scenario.Scenario) *float64 { return &sc.Constants.K }},
	{"d-const", "Doubt penalty constant", func(sc *scenario.Scenario) *float64 { return &sc.Constants.D }},
	{"v-const", "Influence constant", func(sc *scenario.Scenario) *float64 { return &sc.Constants.V }},
	{"a-const", "Attenuation constant in [0, 1]", func(sc *scenario.Scenario) *float64 { return &sc.Constants.A }},
}

var simulateFlags = append([]floatFlag{
	{"q-k", "Stake on q", func(sc *scenario.Scenario) *float64 { return &sc.Stakes.QK }},
	{"p-k", "Stake on p", func(sc *scenario.Scenario) *float64 { return &sc.Stakes.PK }},
	{"x-k", "Restake from q into x", func(sc *scenario.Scenario) *float64 { return &sc.Stakes.XK }},
	{"x-d", "Doubt against x", func(sc *scenario.Scenario) *float64 { return &sc.Stakes.XD }},
	{"z-k", "Restake from p into z", func(sc *scenario.Scenario) *float64 { return &sc.Stakes.ZK }},
	{"z-d", "Doubt against z", func(sc *scenario.Scenario) *float64 { return &sc.Stakes.ZD }},
	{"o-k", "Stake on o", func(sc *scenario.Scenario) *float64 { return &sc.Stakes.OK }},
	{"r-k", "Stake on r", func(sc *scenario.Scenario) *float64 { return &sc.Stakes.RK }},
	{"y-k", "Stake on y", func(sc *scenario.Scenario) *float64 { return &sc.Stakes.YK }},
	{"threshold", "Convergence threshold", func(sc *scenario.Scenario) *float64 { return &sc.ConvergenceThreshold }},
}, constantFlags...)

var exploreFlags = append([]floatFlag{
	{"q-k", "Stake on q", func(sc *scenario.Scenario) *float64 { return &sc.Explore.QK }},
	{"p-k", "Stake on p", func(sc *scenario.Scenario) *float64 { return &sc.Explore.PK }},
	{"x-k", "Restake from q into x", func(sc *scenario.Scenario) *float64 { return &sc.Explore.XK }},
	{"x-d", "Doubt against x", func(sc *scenario.Scenario) *float64 { return &sc.Explore.XD }},
	{"r-s", "Score of r", func(sc *scenario.Scenario) *float64 { return &sc.Explore.RS }},
	{"y-s", "Score of y", func(sc *scenario.Scenario) *float64 { return &sc.Explore.YS }},
	{"o-s", "Score of o", func(sc *scenario.Scenario) *float64 { return &sc.Explore.OS }},
	{"z-s", "Score of z", func(sc *scenario.Scenario) *float64 { return &sc.Explore.ZS }},
}, constantFlags...)

func addScenarioFlags(cmd *cobra.Command, flags []floatFlag) {
	for _, f := range flags {
		cmd.Flags().Float64(f.name, 0, f.usage+" (default from config)")
	}
	cmd.Flags().String("scenario", "", "Scenario file (YAML)")
}

// resolveScenario builds the run's scenario: config defaults, then the
// --scenario file, then explicitly set flags.
func resolveScenario(cmd *cobra.Command, cfg *config.LeverageConfig, flags []floatFlag) (*scenario.Scenario, error) {
	sc := scenario.FromConfig(cfg.Simulation)
	if path, _ := cmd.Flags().GetString("scenario"); path != "" {
		loaded, err := scenario.Load(path, cfg.Simulation)
		if err != nil {
			return nil, err
		}
		sc = loaded
	}

	for _, f := range flags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, err := cmd.Flags().GetFloat64(f.name)
		if err != nil {
			return nil, fmt.Errorf("reading --%s: %w", f.name, err)
		}
		*f.field(sc) = v
	}

	if f := cmd.Flags().Lookup("max-iterations"); f != nil && f.Changed {
		n, err := cmd.Flags().GetInt("max-iterations")
		if err != nil {
			return nil, fmt.Errorf("reading --max-iterations: %w", err)
		}
		sc.MaxIterations = n
	}

	return sc, nil
}
