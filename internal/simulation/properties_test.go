package simulation_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/nvandessel/leverage/internal/config"
	"github.com/nvandessel/leverage/internal/network"
	"github.com/nvandessel/leverage/internal/scenario"
	"github.com/nvandessel/leverage/internal/simulation"
)

// TestBaselineProperties runs the reference network and checks every
// structural property plus the known convergence point.
func TestBaselineProperties(t *testing.T) {
	r := simulation.NewRunner(t)
	res := r.Run(simulation.Baseline())

	simulation.AssertAll(t, res)
	simulation.AssertConvergesWithin(t, res, 4)
	if res.Result.Final.Q != 6 {
		t.Errorf("final q_s = %v, want 6", res.Result.Final.Q)
	}
}

// TestRandomScenarios checks structural properties over a deterministic
// sample of valid inputs.
func TestRandomScenarios(t *testing.T) {
	r := simulation.NewRunner(t)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		sc := simulation.RandomScenario(rng)
		res := r.Run(sc)
		simulation.AssertAll(t, res)
		if res.Err != nil {
			t.Fatalf("scenario %d: unexpected error: %v", i, res.Err)
		}
	}
}

// TestDeterminism runs the same scenario twice and expects identical output.
func TestDeterminism(t *testing.T) {
	r := simulation.NewRunner(t)
	rng := rand.New(rand.NewPCG(7, 7))

	for i := 0; i < 20; i++ {
		sc := simulation.RandomScenario(rng)
		a, b := r.Run(sc), r.Run(sc)
		if len(a.Result.Trajectory) != len(b.Result.Trajectory) || a.Result.Final != b.Result.Final || a.Result.Prices != b.Result.Prices {
			t.Errorf("scenario %d not deterministic:\n%v\n%v", i, a, b)
		}
	}
}

// TestZeroDoubtOscillation checks that removing both doubts keeps the
// network moving through the whole default budget.
func TestZeroDoubtOscillation(t *testing.T) {
	r := simulation.NewRunner(t)

	sc, err := simulation.Baseline().With("x_d", 0)
	if err != nil {
		t.Fatal(err)
	}
	if sc, err = sc.With("z_d", 0); err != nil {
		t.Fatal(err)
	}

	res := r.Run(sc)
	simulation.AssertAll(t, res)
	if res.Result.Converged {
		t.Errorf("expected no convergence, got %v", res)
	}
}

// TestCancellation cancels mid-run and checks the partial result.
func TestCancellation(t *testing.T) {
	r := simulation.NewRunner(t)

	sc := simulation.Baseline()
	sc.Inputs.XD, sc.Inputs.ZD = 0, 0
	sc.CancelAfter = 3

	res := r.Run(sc)
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", res.Err)
	}
	if res.Result.Iterations != 3 {
		t.Errorf("expected 3 iterations before cancellation, got %d", res.Result.Iterations)
	}
	if len(res.Outcomes) != 1 || res.Outcomes[0] != network.OutcomeCancelled {
		t.Errorf("expected a single cancelled outcome, got %v", res.Outcomes)
	}
	simulation.AssertAll(t, res)
}

// TestScenarioFiles runs the checked-in scenario files through the harness.
func TestScenarioFiles(t *testing.T) {
	r := simulation.NewRunner(t)
	defaults := config.Default().Simulation

	for _, name := range []string{"baseline.yaml", "zero_doubt.yaml"} {
		t.Run(name, func(t *testing.T) {
			sc, err := scenario.Load(filepath.Join("..", "scenario", "testdata", name), defaults)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			simulation.AssertAll(t, r.Run(simulation.FromFile(sc)))
		})
	}
}

func TestWith_UnknownParam(t *testing.T) {
	if _, err := simulation.Baseline().With("w_k", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
