package simulation

import (
	"math"
	"testing"

	"github.com/nvandessel/leverage/internal/network"
)

// AssertAll runs every structural assertion that holds for any valid run.
func AssertAll(t *testing.T, r RunResult) {
	t.Helper()
	AssertNonNegative(t, r)
	AssertStaticInvariant(t, r)
	AssertTermination(t, r)
	AssertPricesNormalized(t, r)
	AssertObserved(t, r)
}

// AssertNonNegative asserts that no score in any iteration is negative.
func AssertNonNegative(t *testing.T, r RunResult) {
	t.Helper()
	for _, rec := range r.Result.Trajectory {
		for _, n := range network.Nodes() {
			if v := rec.Scores.Get(n); v < 0 || math.IsNaN(v) {
				t.Errorf("AssertNonNegative: %s: iteration %d: %s_s = %v", r.Scenario.Name, rec.Iteration, n, v)
			}
		}
	}
}

// AssertStaticInvariant asserts that o, r and y keep their stake in every
// iteration.
func AssertStaticInvariant(t *testing.T, r RunResult) {
	t.Helper()
	in := r.Scenario.Inputs
	for _, rec := range r.Result.Trajectory {
		if rec.Scores.O != in.OK || rec.Scores.R != in.RK || rec.Scores.Y != in.YK {
			t.Errorf("AssertStaticInvariant: %s: iteration %d: static scores (%v, %v, %v) != stakes (%v, %v, %v)",
				r.Scenario.Name, rec.Iteration, rec.Scores.O, rec.Scores.R, rec.Scores.Y, in.OK, in.RK, in.YK)
		}
	}
}

// AssertTermination asserts the iteration budget is respected and that the
// convergence flag agrees with the last recorded deltas.
func AssertTermination(t *testing.T, r RunResult) {
	t.Helper()
	res, cfg := r.Result, r.Scenario.Config

	if res.Iterations > cfg.MaxIterations {
		t.Errorf("AssertTermination: %s: %d iterations exceed budget %d", r.Scenario.Name, res.Iterations, cfg.MaxIterations)
	}
	if len(res.Trajectory) != res.Iterations {
		t.Errorf("AssertTermination: %s: trajectory has %d records for %d iterations", r.Scenario.Name, len(res.Trajectory), res.Iterations)
	}
	if r.Err != nil {
		return
	}
	if !res.Converged && res.Iterations != cfg.MaxIterations {
		t.Errorf("AssertTermination: %s: stopped at %d of %d iterations without converging", r.Scenario.Name, res.Iterations, cfg.MaxIterations)
	}
	if res.Converged {
		last := res.Trajectory[len(res.Trajectory)-1]
		if !last.Deltas.Below(cfg.ConvergenceThreshold) {
			t.Errorf("AssertTermination: %s: converged with max delta %v >= %v", r.Scenario.Name, last.Deltas.Max(), cfg.ConvergenceThreshold)
		}
	}
	for _, rec := range res.Trajectory[:max(len(res.Trajectory)-1, 0)] {
		if rec.Deltas.Below(cfg.ConvergenceThreshold) {
			t.Errorf("AssertTermination: %s: iteration %d already met the threshold", r.Scenario.Name, rec.Iteration)
		}
	}
}

// AssertPricesNormalized asserts every price is in [0, 1], and that prices
// sum to 1 whenever the final total is at least 1.
func AssertPricesNormalized(t *testing.T, r RunResult) {
	t.Helper()
	p := r.Result.Prices
	for _, n := range network.Nodes() {
		if v := p.Get(n); v < 0 || v > 1 {
			t.Errorf("AssertPricesNormalized: %s: price of %s = %v", r.Scenario.Name, n, v)
		}
	}
	if r.Result.Final.Total() >= 1 && math.Abs(p.Sum()-1) > 1e-9 {
		t.Errorf("AssertPricesNormalized: %s: prices sum to %v", r.Scenario.Name, p.Sum())
	}
}

// AssertObserved asserts the observer saw exactly the returned trajectory
// and exactly one completion.
func AssertObserved(t *testing.T, r RunResult) {
	t.Helper()
	if len(r.Observed) != len(r.Result.Trajectory) {
		t.Fatalf("AssertObserved: %s: observed %d records, trajectory has %d", r.Scenario.Name, len(r.Observed), len(r.Result.Trajectory))
	}
	for i := range r.Observed {
		if r.Observed[i] != r.Result.Trajectory[i] {
			t.Errorf("AssertObserved: %s: record %d differs", r.Scenario.Name, i)
		}
	}
	if len(r.Outcomes) != 1 {
		t.Errorf("AssertObserved: %s: expected 1 completion, got %v", r.Scenario.Name, r.Outcomes)
	}
}

// AssertConvergesWithin asserts the run converged in at most n iterations.
func AssertConvergesWithin(t *testing.T, r RunResult, n int) {
	t.Helper()
	if !r.Result.Converged {
		t.Errorf("AssertConvergesWithin: %s: did not converge (%d iterations)", r.Scenario.Name, r.Result.Iterations)
		return
	}
	if r.Result.Iterations > n {
		t.Errorf("AssertConvergesWithin: %s: converged after %d iterations, want <= %d", r.Scenario.Name, r.Result.Iterations, n)
	}
}

// Direction is the expected ordering of a metric across a sweep.
type Direction int

const (
	NonDecreasing Direction = iota
	NonIncreasing
)

// AssertMonotone asserts metric moves in the given direction across the
// sweep points, within a small tolerance.
func AssertMonotone(t *testing.T, points []SweepPoint, metric func(RunResult) float64, dir Direction) {
	t.Helper()
	const tol = 1e-12
	for i := 1; i < len(points); i++ {
		prev, cur := metric(points[i-1].Run), metric(points[i].Run)
		switch dir {
		case NonDecreasing:
			if cur < prev-tol {
				t.Errorf("AssertMonotone: value %g -> %g: metric fell %v -> %v", points[i-1].Value, points[i].Value, prev, cur)
			}
		case NonIncreasing:
			if cur > prev+tol {
				t.Errorf("AssertMonotone: value %g -> %g: metric rose %v -> %v", points[i-1].Value, points[i].Value, prev, cur)
			}
		}
	}
}
