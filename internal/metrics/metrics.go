// Package metrics records solver activity as Prometheus metrics.
//
// A Recorder owns its own registry so commands and tests never share the
// global default registry. The CLI is short-lived, so metrics are exported
// by writing the registry to a node_exporter textfile rather than serving
// a /metrics endpoint.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nvandessel/leverage/internal/network"
)

const (
	metricsNamespace = "leverage"
	solverSubsystem  = "solver"
)

// Recorder holds the solver metrics and implements network.Observer.
// A nil Recorder is safe to use; all methods are no-ops.
type Recorder struct {
	registry *prometheus.Registry

	// RunsTotal counts finished runs. Labels: outcome (converged, exhausted, cancelled)
	RunsTotal *prometheus.CounterVec

	// Iterations observes the iteration count of each finished run.
	Iterations prometheus.Histogram

	// IterationsTotal counts every iteration across all runs.
	IterationsTotal prometheus.Counter

	// FinalMaxDelta is the largest dynamic delta of the most recent run's
	// last iteration.
	FinalMaxDelta prometheus.Gauge

	// ConfigErrorsTotal counts rejected inputs. Labels: field
	ConfigErrorsTotal *prometheus.CounterVec

	// ExploreTotal counts single-shot score evaluations.
	ExploreTotal prometheus.Counter
}

// NewRecorder creates a Recorder registered on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "runs_total",
				Help:      "Total number of solver runs by outcome",
			},
			[]string{"outcome"},
		),
		Iterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "iterations",
				Help:      "Iterations performed per solver run",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 500, 1000},
			},
		),
		IterationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "iterations_total",
				Help:      "Total iterations across all solver runs",
			},
		),
		FinalMaxDelta: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "final_max_delta",
				Help:      "Largest dynamic score delta in the last iteration of the most recent run",
			},
		),
		ConfigErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "config_errors_total",
				Help:      "Total number of rejected solver inputs by field",
			},
			[]string{"field"},
		),
		ExploreTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "explore_total",
				Help:      "Total number of single-shot score evaluations",
			},
		),
	}

	r.registry.MustRegister(
		r.RunsTotal,
		r.Iterations,
		r.IterationsTotal,
		r.FinalMaxDelta,
		r.ConfigErrorsTotal,
		r.ExploreTotal,
	)

	// Pre-create outcome series so dashboards see zeros.
	for _, outcome := range []string{network.OutcomeConverged, network.OutcomeExhausted, network.OutcomeCancelled} {
		r.RunsTotal.WithLabelValues(outcome)
	}
	return r
}

// Registry returns the registry the metrics are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// OnIteration implements network.Observer.
func (r *Recorder) OnIteration(_ string, _ network.IterationRecord) {
	if r == nil {
		return
	}
	r.IterationsTotal.Inc()
}

// OnComplete implements network.Observer.
func (r *Recorder) OnComplete(result network.SimulationResult, outcome string) {
	if r == nil {
		return
	}
	r.RunsTotal.WithLabelValues(outcome).Inc()
	r.Iterations.Observe(float64(result.Iterations))
	if n := len(result.Trajectory); n > 0 {
		r.FinalMaxDelta.Set(result.Trajectory[n-1].Deltas.Max())
	}
}

// RecordExplore counts one explore evaluation.
func (r *Recorder) RecordExplore() {
	if r == nil {
		return
	}
	r.ExploreTotal.Inc()
}

// RecordError counts err when it is a *network.ConfigurationError.
// Other errors are ignored.
func (r *Recorder) RecordError(err error) {
	if r == nil || err == nil {
		return
	}
	var ce *network.ConfigurationError
	if errors.As(err, &ce) {
		r.ConfigErrorsTotal.WithLabelValues(ce.Field).Inc()
	}
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
