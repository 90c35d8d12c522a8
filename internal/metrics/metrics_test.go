package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nvandessel/leverage/internal/network"
)

func runBaseline(t *testing.T, r *Recorder, in network.StakeInputs, cfg network.Config) network.SimulationResult {
	t.Helper()
	s, err := network.NewSolver(in, network.Constants{K: 1, D: 1, V: 1, A: 0.5}, cfg, network.WithObserver(r))
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func baselineStakes() network.StakeInputs {
	return network.StakeInputs{QK: 10, PK: 5, XK: 5, XD: 3, ZK: 2, ZD: 1, OK: 4, RK: 2, YK: 1}
}

func TestRecorder_CountsOutcomes(t *testing.T) {
	r := NewRecorder()
	cfg := network.Config{MaxIterations: 10, ConvergenceThreshold: 0.01}

	converged := runBaseline(t, r, baselineStakes(), cfg)

	zeroDoubt := baselineStakes()
	zeroDoubt.XD, zeroDoubt.ZD = 0, 0
	exhausted := runBaseline(t, r, zeroDoubt, cfg)

	if got := testutil.ToFloat64(r.RunsTotal.WithLabelValues(network.OutcomeConverged)); got != 1 {
		t.Errorf("converged runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.RunsTotal.WithLabelValues(network.OutcomeExhausted)); got != 1 {
		t.Errorf("exhausted runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.RunsTotal.WithLabelValues(network.OutcomeCancelled)); got != 0 {
		t.Errorf("cancelled runs = %v, want 0", got)
	}

	wantIterations := float64(converged.Iterations + exhausted.Iterations)
	if got := testutil.ToFloat64(r.IterationsTotal); got != wantIterations {
		t.Errorf("iterations_total = %v, want %v", got, wantIterations)
	}

	last := exhausted.Trajectory[len(exhausted.Trajectory)-1]
	if got := testutil.ToFloat64(r.FinalMaxDelta); got != last.Deltas.Max() {
		t.Errorf("final_max_delta = %v, want %v", got, last.Deltas.Max())
	}

	if n := testutil.CollectAndCount(r.Iterations); n != 1 {
		t.Errorf("expected 1 histogram series, got %d", n)
	}
}

func TestRecorder_RecordError(t *testing.T) {
	r := NewRecorder()

	in := baselineStakes()
	in.ZD = 9
	_, err := network.NewSolver(in, network.Constants{}, network.Config{MaxIterations: 1})
	r.RecordError(err)
	r.RecordError(errors.New("unrelated"))
	r.RecordError(nil)

	if got := testutil.ToFloat64(r.ConfigErrorsTotal.WithLabelValues("z_d")); got != 1 {
		t.Errorf("config_errors_total{field=z_d} = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(r.ConfigErrorsTotal); n != 1 {
		t.Errorf("expected 1 error series, got %d", n)
	}
}

func TestRecorder_RecordExplore(t *testing.T) {
	r := NewRecorder()
	r.RecordExplore()
	r.RecordExplore()

	if got := testutil.ToFloat64(r.ExploreTotal); got != 2 {
		t.Errorf("explore_total = %v, want 2", got)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	runBaseline(t, r, baselineStakes(), network.Config{MaxIterations: 10, ConvergenceThreshold: 0.01})

	path := filepath.Join(t.TempDir(), "leverage.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading textfile: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`leverage_solver_runs_total{outcome="converged"} 1`,
		`leverage_solver_iterations_total 4`,
		`leverage_solver_iterations_bucket{le="5"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
}

func TestRecorder_NilSafety(t *testing.T) {
	var r *Recorder
	r.OnIteration("run", network.IterationRecord{})
	r.OnComplete(network.SimulationResult{}, network.OutcomeConverged)
	r.RecordError(errors.New("x"))
	r.RecordExplore()
	if err := r.WriteTextfile("/nonexistent/leverage.prom"); err != nil {
		t.Errorf("nil recorder WriteTextfile should be a no-op, got %v", err)
	}
	if r.Registry() != nil {
		t.Error("nil recorder should have nil registry")
	}
}
