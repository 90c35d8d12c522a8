package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nvandessel/leverage/internal/constants"
	"github.com/nvandessel/leverage/internal/network"
)

// Trace event kinds.
const (
	EventIteration = "iteration"
	EventComplete  = "complete"
)

// Event is one line of trace.jsonl. Iteration events carry the record
// fields; complete events carry the outcome and final state.
type Event struct {
	Time  string `json:"time"`
	Kind  string `json:"event"`
	RunID string `json:"run_id"`

	Iteration int                 `json:"iteration,omitempty"`
	Scores    *network.ScoreState `json:"scores,omitempty"`
	Deltas    *network.Deltas     `json:"deltas,omitempty"`
	Terms     *network.Terms      `json:"terms,omitempty"`

	Outcome    string               `json:"outcome,omitempty"`
	Iterations int                  `json:"iterations,omitempty"`
	Final      *network.ScoreState  `json:"final,omitempty"`
	Prices     *network.TokenPrices `json:"token_prices,omitempty"`
}

// TraceLogger appends run events to a JSONL file and implements
// network.Observer. It is safe for concurrent use, and a nil TraceLogger
// is a valid no-op.
type TraceLogger struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	now  func() time.Time
}

// NewTraceLogger opens dir/trace.jsonl for append when level is debug or
// trace. At info level, or when the file cannot be opened, it returns nil.
func NewTraceLogger(dir string, level string) *TraceLogger {
	if ParseLevel(level) >= slog.LevelInfo {
		return nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	f, err := os.OpenFile(filepath.Join(dir, constants.TraceFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}
	return &TraceLogger{file: f, enc: json.NewEncoder(f), now: time.Now}
}

// Write appends ev as one line, stamping Time when it is empty.
// Writes after Close are dropped.
func (tl *TraceLogger) Write(ev Event) {
	if tl == nil {
		return
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.file == nil {
		return
	}
	if ev.Time == "" {
		ev.Time = tl.now().UTC().Format(time.RFC3339Nano)
	}
	_ = tl.enc.Encode(ev)
}

// Close closes the underlying file.
func (tl *TraceLogger) Close() {
	if tl == nil {
		return
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.file != nil {
		tl.file.Close()
		tl.file = nil
	}
}

// OnIteration implements network.Observer.
func (tl *TraceLogger) OnIteration(runID string, rec network.IterationRecord) {
	tl.Write(Event{
		Kind:      EventIteration,
		RunID:     runID,
		Iteration: rec.Iteration,
		Scores:    &rec.Scores,
		Deltas:    &rec.Deltas,
		Terms:     &rec.Terms,
	})
}

// OnComplete implements network.Observer.
func (tl *TraceLogger) OnComplete(result network.SimulationResult, outcome string) {
	tl.Write(Event{
		Kind:       EventComplete,
		RunID:      result.RunID,
		Outcome:    outcome,
		Iterations: result.Iterations,
		Final:      &result.Final,
		Prices:     &result.Prices,
	})
}
