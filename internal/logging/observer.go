package logging

import (
	"context"
	"log/slog"

	"github.com/nvandessel/leverage/internal/network"
)

// SlogObserver reports solver progress through a slog.Logger. Iterations
// are logged at LevelTrace and completion at Debug.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver returns an observer logging to logger. A nil logger
// yields a nil observer, which network.Observers skips.
func NewSlogObserver(logger *slog.Logger) network.Observer {
	if logger == nil {
		return nil
	}
	return &SlogObserver{logger: logger}
}

// OnIteration implements network.Observer.
func (o *SlogObserver) OnIteration(runID string, rec network.IterationRecord) {
	o.logger.Log(context.Background(), LevelTrace, "iteration",
		"run_id", runID,
		"iteration", rec.Iteration,
		"q_s", rec.Scores.Q,
		"p_s", rec.Scores.P,
		"x_s", rec.Scores.X,
		"z_s", rec.Scores.Z,
		"max_delta", rec.Deltas.Max(),
	)
}

// OnComplete implements network.Observer.
func (o *SlogObserver) OnComplete(result network.SimulationResult, outcome string) {
	o.logger.Debug("run complete",
		"run_id", result.RunID,
		"outcome", outcome,
		"iterations", result.Iterations,
	)
}
