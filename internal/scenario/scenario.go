// Package scenario loads named solver inputs from YAML files.
//
// A scenario file lists only the values it changes; everything else comes
// from the simulation defaults in the active configuration:
//
//	name: heavy-doubt
//	mode: simulate
//	stakes:
//	  x_d: 5
//	constants:
//	  a_const: 0.25
//	max_iterations: 40
//
// Explore scenarios set mode: explore and an explore block with q_k, p_k,
// x_k, x_d and the context scores r_s, y_s, o_s, z_s.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/leverage/internal/config"
	"github.com/nvandessel/leverage/internal/constants"
	"github.com/nvandessel/leverage/internal/network"
)

// Scenario is a fully resolved set of solver inputs.
type Scenario struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Mode        constants.Mode `json:"mode" yaml:"mode"`

	Stakes               network.StakeInputs `json:"stakes" yaml:"stakes"`
	Constants            network.Constants   `json:"constants" yaml:"constants"`
	MaxIterations        int                 `json:"max_iterations" yaml:"max_iterations"`
	ConvergenceThreshold float64             `json:"convergence_threshold" yaml:"convergence_threshold"`

	Explore network.ExploreInputs `json:"explore" yaml:"explore"`
}

// FromConfig returns the scenario implied by the simulation defaults alone.
func FromConfig(sim config.SimulationConfig) *Scenario {
	return &Scenario{
		Name:                 "default",
		Mode:                 constants.ModeSimulate,
		Stakes:               sim.Stakes,
		Constants:            sim.Constants,
		MaxIterations:        sim.MaxIterations,
		ConvergenceThreshold: sim.ConvergenceThreshold,
		Explore: network.ExploreInputs{
			QK: sim.Stakes.QK,
			PK: sim.Stakes.PK,
			XK: sim.Stakes.XK,
			XD: sim.Stakes.XD,
			RS: constants.DefaultExploreRS,
			YS: constants.DefaultExploreYS,
			OS: constants.DefaultExploreOS,
			ZS: constants.DefaultExploreZS,
		},
	}
}

// Load reads and parses the scenario file at path.
func Load(path string, defaults config.SimulationConfig) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	sc, err := Parse(data, defaults)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a YAML scenario on top of defaults. Unknown keys are
// rejected so a misspelled stake does not silently fall back to its default.
// Parse does not check solver bounds; call Validate or Solver for that.
func Parse(data []byte, defaults config.SimulationConfig) (*Scenario, error) {
	sc := FromConfig(defaults)
	sc.Name = ""

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	if sc.Mode == "" {
		sc.Mode = constants.ModeSimulate
	}
	if !sc.Mode.Valid() {
		return nil, fmt.Errorf("invalid mode: %s (valid: simulate, explore)", sc.Mode)
	}
	return sc, nil
}

// SolverConfig returns the scenario's iteration bounds.
func (s *Scenario) SolverConfig() network.Config {
	return network.Config{
		MaxIterations:        s.MaxIterations,
		ConvergenceThreshold: s.ConvergenceThreshold,
	}
}

// Validate checks the inputs the scenario's mode will use.
func (s *Scenario) Validate() error {
	if err := network.ValidateConstants(s.Constants); err != nil {
		return err
	}
	if s.Mode == constants.ModeExplore {
		return network.ValidateExplore(s.Explore)
	}
	if err := network.ValidateStakes(s.Stakes); err != nil {
		return err
	}
	return network.ValidateConfig(s.SolverConfig())
}

// Solver builds a solver for a simulate scenario.
func (s *Scenario) Solver(opts ...network.Option) (*network.Solver, error) {
	if s.Mode != constants.ModeSimulate {
		return nil, fmt.Errorf("scenario %q has mode %s, not %s", s.Name, s.Mode, constants.ModeSimulate)
	}
	return network.NewSolver(s.Stakes, s.Constants, s.SolverConfig(), opts...)
}

// RunExplore evaluates an explore scenario.
func (s *Scenario) RunExplore() (network.ExploreResult, error) {
	if s.Mode != constants.ModeExplore {
		return network.ExploreResult{}, fmt.Errorf("scenario %q has mode %s, not %s", s.Name, s.Mode, constants.ModeExplore)
	}
	return network.Explore(s.Explore, s.Constants)
}
