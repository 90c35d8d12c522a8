package simulation_test

import (
	"testing"

	"github.com/nvandessel/leverage/internal/simulation"
)

func TestSweeps(t *testing.T) {
	tests := []struct {
		name   string
		param  string
		values []float64
		metric func(simulation.RunResult) float64
		dir    simulation.Direction
	}{
		{
			name:   "doubt on x lowers first q",
			param:  "x_d",
			values: []float64{0, 1, 2, 3, 4, 5},
			metric: simulation.FirstQ,
			dir:    simulation.NonIncreasing,
		},
		{
			name:   "doubt constant lowers first q",
			param:  "d_const",
			values: []float64{0, 0.5, 1, 2, 4},
			metric: simulation.FirstQ,
			dir:    simulation.NonIncreasing,
		},
		{
			name:   "restake constant raises first q",
			param:  "k_const",
			values: []float64{0, 0.5, 1, 2, 4},
			metric: simulation.FirstQ,
			dir:    simulation.NonDecreasing,
		},
		{
			name:   "attenuation raises influence on q",
			param:  "a_const",
			values: []float64{0, 0.25, 0.5, 0.75, 1},
			metric: simulation.FirstQ,
			dir:    simulation.NonIncreasing,
		},
		{
			name:   "looser threshold stops no later",
			param:  "convergence_threshold",
			values: []float64{0, 0.001, 0.01, 0.1, 1, 10},
			metric: simulation.Iterations,
			dir:    simulation.NonIncreasing,
		},
	}

	r := simulation.NewRunner(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := r.Sweep(simulation.Sweep{
				Base:   simulation.Baseline(),
				Param:  tt.param,
				Values: tt.values,
			})
			for _, p := range points {
				simulation.AssertAll(t, p.Run)
			}
			simulation.AssertMonotone(t, points, tt.metric, tt.dir)
		})
	}
}
