package mcp

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// auditParams summarizes which tool arguments a caller supplied. Stake and
// constant values are logged as given; they carry no sensitive content.
// Keys are emitted in sorted order so log lines are stable.
func auditParams(params map[string]any) []any {
	attrs := make([]any, 0, 2*len(params)+2)
	for _, key := range slices.Sorted(maps.Keys(params)) {
		attrs = append(attrs, key, fmt.Sprintf("%v", params[key]))
	}
	return append(attrs, "param_count", len(params))
}

// auditTool logs a tool invocation with its duration and status.
func (s *Server) auditTool(toolName string, start time.Time, err error, params map[string]any) {
	attrs := []any{
		"tool", toolName,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	attrs = append(attrs, auditParams(params)...)

	if err != nil {
		s.recorder.RecordError(err)
		s.logger.Warn("tool call failed", append(attrs, "status", "error", "error", err.Error())...)
		return
	}
	s.logger.Debug("tool call", append(attrs, "status", "success")...)
}

// setParams collects the pointer arguments a caller actually set.
func setParams(fields map[string]*float64) map[string]any {
	out := make(map[string]any, len(fields))
	for name, v := range fields {
		if v != nil {
			out[name] = *v
		}
	}
	return out
}
