package main

import (
	"io"
	"log/slog"

	"github.com/nvandessel/leverage/internal/config"
	"github.com/nvandessel/leverage/internal/logging"
	"github.com/nvandessel/leverage/internal/metrics"
	"github.com/nvandessel/leverage/internal/network"
)

// runtime bundles the logging and metrics sinks of one command.
type runtime struct {
	logger   *slog.Logger
	trace    *logging.TraceLogger
	recorder *metrics.Recorder
	textfile string
}

func newRuntime(cfg *config.LeverageConfig, stderr io.Writer) *runtime {
	return &runtime{
		logger:   logging.NewLogger(cfg.Logging.Level, stderr),
		trace:    logging.NewTraceLogger(cfg.ResolvedTraceDir(), cfg.Logging.Level),
		recorder: metrics.NewRecorder(),
		textfile: cfg.Metrics.Textfile,
	}
}

// observers attaches every sink to a solver run.
func (r *runtime) observers() network.Option {
	return network.WithObserver(r.trace, r.recorder, logging.NewSlogObserver(r.logger))
}

// close flushes metrics and closes the trace file.
func (r *runtime) close() {
	if err := r.recorder.WriteTextfile(r.textfile); err != nil {
		r.logger.Warn("metrics export failed", "path", r.textfile, "error", err)
	}
	r.trace.Close()
}
