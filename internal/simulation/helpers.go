package simulation

import (
	"math/rand/v2"

	"github.com/nvandessel/leverage/internal/config"
	"github.com/nvandessel/leverage/internal/network"
	"github.com/nvandessel/leverage/internal/scenario"
)

// Baseline returns the reference scenario built from the default settings.
func Baseline() Scenario {
	return FromFile(scenario.FromConfig(config.Default().Simulation))
}

// FromFile converts a loaded scenario file into a harness scenario.
func FromFile(sc *scenario.Scenario) Scenario {
	return Scenario{
		Name:      sc.Name,
		Inputs:    sc.Stakes,
		Constants: sc.Constants,
		Config:    sc.SolverConfig(),
	}
}

// RandomScenario draws a valid scenario from rng. Restakes never exceed
// their source and doubts never exceed their restake.
func RandomScenario(rng *rand.Rand) Scenario {
	in := network.StakeInputs{
		QK: rng.Float64() * 20,
		PK: rng.Float64() * 20,
		OK: rng.Float64() * 10,
		RK: rng.Float64() * 10,
		YK: rng.Float64() * 10,
	}
	in.XK = rng.Float64() * in.QK
	in.XD = rng.Float64() * in.XK
	in.ZK = rng.Float64() * in.PK
	in.ZD = rng.Float64() * in.ZK

	return Scenario{
		Name:   "random",
		Inputs: in,
		Constants: network.Constants{
			K: rng.Float64() * 3,
			D: rng.Float64() * 3,
			V: rng.Float64() * 3,
			A: rng.Float64(),
		},
		Config: network.Config{
			MaxIterations:        1 + rng.IntN(50),
			ConvergenceThreshold: rng.Float64() * 0.1,
		},
	}
}

// FirstQ returns q's score after the first iteration.
func FirstQ(r RunResult) float64 {
	if len(r.Result.Trajectory) == 0 {
		return 0
	}
	return r.Result.Trajectory[0].Scores.Q
}

// FinalQ returns q's final score.
func FinalQ(r RunResult) float64 {
	return r.Result.Final.Q
}

// Iterations returns the number of iterations a run performed.
func Iterations(r RunResult) float64 {
	return float64(r.Result.Iterations)
}
