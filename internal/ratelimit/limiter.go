// Package ratelimit provides per-tool token bucket rate limiting for MCP tools.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Limiter is a single token bucket. Requests carry a cost, so an expensive
// call drains more of the bucket than a cheap one.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	tokens  float64
	last    time.Time
	rate    float64          // tokens per second
	burst   float64          // bucket capacity (also initial token count)
	nowFunc func() time.Time // injectable clock for testing
}

// NewLimiter creates a full bucket with the given refill rate (tokens/sec)
// and capacity.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		tokens:  float64(burst),
		rate:    rate,
		burst:   float64(burst),
		nowFunc: time.Now,
	}
}

// Allow is AllowN with a cost of 1.
func (l *Limiter) Allow() bool {
	return l.AllowN(1)
}

// AllowN takes cost tokens if available and reports whether it did.
// A cost above the bucket capacity is clamped to the capacity so the call
// can still succeed from a full bucket.
func (l *Limiter) AllowN(cost float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if l.last.IsZero() {
		l.last = now
	}
	if elapsed := now.Sub(l.last).Seconds(); elapsed > 0 {
		l.tokens = min(l.tokens+l.rate*elapsed, l.burst)
		l.last = now
	}

	cost = min(cost, l.burst)
	if l.tokens < cost {
		return false
	}
	l.tokens -= cost
	return true
}

// ToolLimiters maps tool names to their rate limiters.
type ToolLimiters map[string]*Limiter

// NewToolLimiters creates the default set of per-tool rate limiters.
func NewToolLimiters() ToolLimiters {
	return ToolLimiters{
		"leverage_simulate": NewLimiter(1.0, 10), // 60/minute, burst 10
		"leverage_explore":  NewLimiter(5.0, 20), // 300/minute, burst 20
		"leverage_defaults": NewLimiter(1.0, 10), // 60/minute, burst 10
	}
}

// CheckLimit charges cost against the limiter for toolName.
// Returns nil if allowed, or an error if rate limited.
// Tools without a configured limiter are always allowed.
func CheckLimit(limiters ToolLimiters, toolName string, cost float64) error {
	limiter, ok := limiters[toolName]
	if !ok {
		return nil
	}

	if !limiter.AllowN(cost) {
		return fmt.Errorf("rate limit exceeded for %s, please try again shortly", toolName)
	}

	return nil
}
