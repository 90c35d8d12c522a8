// Package network implements the iterative dynamics solver for the fixed
// seven-node stake network.
//
// Nodes q and p hold primary stakes. x is restaked out of q and z out of p,
// and each restake may be contested by a doubt. Nodes o, r and y are
// external and keep their stake for the whole run. Every iteration
// recomputes the four dynamic scores from the previous iteration's
// complete state (synchronous update), records an immutable snapshot, and
// stops once all four scores move by less than the convergence threshold
// or the iteration budget runs out.
//
// Topology:
//
//	q --restake--> x    bonus scales with p_s / x_s
//	p --restake--> z    bonus scales with q_s / z_s
//	q <--influence-- p, z (a), o (a^2)
//	p <--influence-- q, x (a), r (a^2)
//	x <--influence-- y (a)
//	z <--influence-- o (a)
package network

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/nvandessel/leverage/internal/score"
)

// maxPreallocatedRecords caps the initial trajectory capacity so a huge
// iteration budget does not allocate up front.
const maxPreallocatedRecords = 1024

// Terms are the intermediate quantities of one iteration.
type Terms struct {
	XBonus     float64 `json:"x_b"`
	ZBonus     float64 `json:"z_b"`
	XPenalty   float64 `json:"x_penalty"`
	ZPenalty   float64 `json:"z_penalty"`
	InfluenceQ float64 `json:"influence_on_q"`
	InfluenceP float64 `json:"influence_on_p"`
	InfluenceX float64 `json:"influence_on_x"`
	InfluenceZ float64 `json:"influence_on_z"`
}

// Option configures a Solver.
type Option func(*Solver)

// WithObserver attaches observers that receive per-iteration progress.
func WithObserver(obs ...Observer) Option {
	return func(s *Solver) {
		s.observer = append(s.observer, obs...)
	}
}

// WithRunIDFunc overrides how run identifiers are generated.
func WithRunIDFunc(fn func() string) Option {
	return func(s *Solver) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

// Solver drives the network to a fixed point or exhausts its budget.
// A Solver holds only immutable inputs; every call to Run starts from the
// initial state and owns its own ScoreState and trajectory.
type Solver struct {
	inputs    StakeInputs
	constants Constants
	config    Config
	observer  Observers
	newRunID  func() string
}

// NewSolver validates all inputs once and returns a ready solver.
// It fails with a *ConfigurationError naming the offending field.
func NewSolver(inputs StakeInputs, constants Constants, config Config, opts ...Option) (*Solver, error) {
	if err := ValidateStakes(inputs); err != nil {
		return nil, err
	}
	if err := ValidateConstants(constants); err != nil {
		return nil, err
	}
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	s := &Solver{
		inputs:    inputs,
		constants: constants,
		config:    config,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Inputs returns the stake inputs the solver was built with.
func (s *Solver) Inputs() StakeInputs { return s.inputs }

// Constants returns the constants the solver was built with.
func (s *Solver) Constants() Constants { return s.constants }

// Config returns the iteration bounds the solver was built with.
func (s *Solver) Config() Config { return s.config }

// Run iterates until convergence or until MaxIterations is reached. Both
// are normal outcomes reported through SimulationResult.Converged.
//
// The context is checked between iterations. On cancellation Run returns
// the partial result computed so far together with the context error.
func (s *Solver) Run(ctx context.Context) (SimulationResult, error) {
	result := SimulationResult{
		RunID:      s.newRunID(),
		Trajectory: make([]IterationRecord, 0, min(s.config.MaxIterations, maxPreallocatedRecords)),
	}

	current := InitialState(s.inputs)
	converged := false

	for result.Iterations < s.config.MaxIterations && !converged {
		if err := ctx.Err(); err != nil {
			result = finish(result, current, false)
			s.observer.OnComplete(result, OutcomeCancelled)
			return result, fmt.Errorf("run %s cancelled after %d iterations: %w", result.RunID, result.Iterations, err)
		}

		result.Iterations++
		previous := current

		var terms Terms
		current, terms = Step(s.inputs, s.constants, previous)

		deltas := Deltas{
			Q: math.Abs(current.Q - previous.Q),
			P: math.Abs(current.P - previous.P),
			X: math.Abs(current.X - previous.X),
			Z: math.Abs(current.Z - previous.Z),
		}

		rec := IterationRecord{
			Iteration: result.Iterations,
			Scores:    current,
			Deltas:    deltas,
			Terms:     terms,
		}
		result.Trajectory = append(result.Trajectory, rec)
		s.observer.OnIteration(result.RunID, rec)

		converged = deltas.Below(s.config.ConvergenceThreshold)
	}

	result = finish(result, current, converged)
	s.observer.OnComplete(result, result.Outcome())
	return result, nil
}

func finish(result SimulationResult, final ScoreState, converged bool) SimulationResult {
	result.Converged = converged
	result.Final = final
	result.Prices = NormalizePrices(final)
	return result
}

// Step computes the next state from cur. Every term is derived from cur,
// so the four dynamic updates do not see each other's new values. Static
// nodes are carried over unchanged.
//
// Influence on q and p is capped at what the node has available (base
// stake plus its own bonus). Influence on x and z is single-hop and
// uncapped.
func Step(in StakeInputs, c Constants, cur ScoreState) (ScoreState, Terms) {
	var t Terms

	// x's bonus scales with p, z's with q; this couples q and p.
	t.XBonus = score.RestakeBonus(in.XK, cur.P, cur.X, c.K)
	t.ZBonus = score.RestakeBonus(in.ZK, cur.Q, cur.Z, c.K)

	t.XPenalty = score.DoubtPenalty(in.XD, c.D)
	t.ZPenalty = score.DoubtPenalty(in.ZD, c.D)

	t.InfluenceQ = math.Min(score.Influence(cur.P, cur.Z, cur.O, c.A, c.V), in.QK+t.XBonus)
	t.InfluenceP = math.Min(score.Influence(cur.Q, cur.X, cur.R, c.A, c.V), in.PK+t.ZBonus)
	t.InfluenceX = score.SingleHopInfluence(cur.Y, c.A, c.V)
	t.InfluenceZ = score.SingleHopInfluence(cur.O, c.A, c.V)

	next := cur
	// Restake targets share their source's bonus and penalty terms.
	next.Q = score.Score(in.QK, t.XBonus, t.XPenalty, t.InfluenceQ)
	next.P = score.Score(in.PK, t.ZBonus, t.ZPenalty, t.InfluenceP)
	next.X = score.Score(in.XK, t.XBonus, t.XPenalty, t.InfluenceX)
	next.Z = score.Score(in.ZK, t.ZBonus, t.ZPenalty, t.InfluenceZ)

	return next, t
}
