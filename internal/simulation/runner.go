package simulation

import (
	"context"
	"fmt"
	"testing"

	"github.com/nvandessel/leverage/internal/network"
)

// Runner executes scenarios against the real solver.
type Runner struct {
	t *testing.T
}

// NewRunner creates a simulation runner bound to t.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t}
}

// Run executes the scenario and returns the collected results. Invalid
// scenarios fail the test immediately; cancellation is reported in Err.
func (r *Runner) Run(sc Scenario) RunResult {
	r.t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{cancelAfter: sc.CancelAfter, cancel: cancel}
	solver, err := network.NewSolver(sc.Inputs, sc.Constants, sc.Config,
		network.WithObserver(rec),
		network.WithRunIDFunc(func() string { return sc.Name }),
	)
	if err != nil {
		r.t.Fatalf("Run(%s): NewSolver: %v", sc.Name, err)
	}

	res, err := solver.Run(ctx)
	return RunResult{
		Scenario: sc,
		Result:   res,
		Err:      err,
		Observed: rec.records,
		Outcomes: rec.outcomes,
	}
}

// Sweep runs one scenario per value, in order.
func (r *Runner) Sweep(sw Sweep) []SweepPoint {
	r.t.Helper()

	points := make([]SweepPoint, 0, len(sw.Values))
	for _, v := range sw.Values {
		sc, err := sw.Base.With(sw.Param, v)
		if err != nil {
			r.t.Fatalf("Sweep: %v", err)
		}
		points = append(points, SweepPoint{Value: v, Run: r.Run(sc)})
	}
	return points
}

// recorder captures observer callbacks and optionally cancels the run.
type recorder struct {
	records     []network.IterationRecord
	outcomes    []string
	cancelAfter int
	cancel      context.CancelFunc
}

func (rc *recorder) OnIteration(_ string, rec network.IterationRecord) {
	rc.records = append(rc.records, rec)
	if rc.cancelAfter > 0 && len(rc.records) == rc.cancelAfter {
		rc.cancel()
	}
}

func (rc *recorder) OnComplete(_ network.SimulationResult, outcome string) {
	rc.outcomes = append(rc.outcomes, outcome)
}

// String implements fmt.Stringer for failure messages.
func (r RunResult) String() string {
	return fmt.Sprintf("%s: iterations=%d converged=%v final=%+v", r.Scenario.Name, r.Result.Iterations, r.Result.Converged, r.Result.Final)
}
