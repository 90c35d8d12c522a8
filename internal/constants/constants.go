// Package constants provides named defaults used throughout the leverage codebase.
// Stake defaults describe the reference scenario: two primaries, one restake
// out of each, and three external nodes.
package constants

// Primary stake defaults
const (
	// DefaultQK is the stake held in q.
	DefaultQK = 10.0

	// DefaultPK is the stake held in p.
	DefaultPK = 5.0
)

// Restake and doubt defaults. Restakes are drawn from their source primary
// and doubts contest a restake, so each value here is bounded by the one
// above it.
const (
	// DefaultXK is the amount restaked from q into x.
	DefaultXK = 5.0

	// DefaultXD is the doubt held against x.
	DefaultXD = 3.0

	// DefaultZK is the amount restaked from p into z.
	DefaultZK = 2.0

	// DefaultZD is the doubt held against z.
	DefaultZD = 1.0
)

// External stake defaults. External nodes never change score.
const (
	DefaultOK = 4.0
	DefaultRK = 2.0
	DefaultYK = 1.0
)

// Scalar parameter defaults
const (
	// DefaultK scales the restaking bonus.
	DefaultK = 1.0

	// DefaultD scales the doubt penalty.
	DefaultD = 1.0

	// DefaultV scales influence.
	DefaultV = 1.0

	// DefaultA is the per-hop attenuation. Must stay within [0, 1].
	DefaultA = 0.5
)

// Iteration bounds
const (
	// DefaultMaxIterations is the iteration budget for a run.
	DefaultMaxIterations = 10

	// DefaultConvergenceThreshold is the strict bound every dynamic delta
	// must fall under for a run to converge.
	DefaultConvergenceThreshold = 0.01

	// MaxIterationsCeiling bounds the budget accepted from untrusted callers
	// such as MCP tool requests.
	MaxIterationsCeiling = 10000
)

// Explore mode context score defaults. Only DefaultExploreZS and
// DefaultExploreOS enter q's score function.
const (
	DefaultExploreRS = 2.0
	DefaultExploreYS = 1.0
	DefaultExploreOS = 4.0
	DefaultExploreZS = 3.0
)

// Output constants
const (
	// DisplayPrecision is the number of decimals used when rendering scores.
	DisplayPrecision = 2

	// TraceFileName is the JSONL file written under the trace directory.
	TraceFileName = "trace.jsonl"
)
