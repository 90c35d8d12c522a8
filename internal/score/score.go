// Package score implements the per-node scoring primitives of the stake
// network. Every function is pure: no hidden state, no allocation, and no
// error paths. Division by zero is guarded explicitly, and every result is
// a finite float64: overflow saturates at math.MaxFloat64 instead of
// becoming +Inf, so later subtractions can never produce NaN.
package score

import "math"

// RestakeBonus computes the bonus a source node earns for restaking into a
// target. The bonus scales with the score of the node the target draws from
// (sourceS) relative to the target's current combined score.
//
// Formula: k * restakeK * (sourceS / restakeTotalS)
//
// Returns exactly 0 when restakeTotalS <= 0 or k * restakeK is 0.
func RestakeBonus(restakeK, sourceS, restakeTotalS, k float64) float64 {
	if restakeTotalS <= 0 {
		return 0
	}
	weight := k * restakeK
	if weight == 0 {
		return 0
	}
	return saturate(weight * (sourceS / restakeTotalS))
}

// DoubtPenalty computes the penalty applied for doubts against a restake.
func DoubtPenalty(doubtK, d float64) float64 {
	return saturate(d * doubtK)
}

// Influence computes the score drained from a node toward its neighbors.
//
// Formula: v * (primaryS + a*attenuated1S + a^2*attenuated2S)
//
// A direct neighbor is attenuated once, a neighbor-of-a-neighbor twice.
func Influence(primaryS, attenuated1S, attenuated2S, a, v float64) float64 {
	return saturate(v * (primaryS + a*attenuated1S + a*a*attenuated2S))
}

// SingleHopInfluence is the influence of one neighbor attenuated once:
// v * a * neighborS.
func SingleHopInfluence(neighborS, a, v float64) float64 {
	return saturate(v * a * neighborS)
}

// Score combines the base stake with bonus, penalty and influence terms.
// The result is floored at zero; scores are never negative or NaN.
func Score(baseK, bonus, penalty, influence float64) float64 {
	s := baseK + bonus - penalty - influence
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	return saturate(s)
}

// saturate maps +Inf to math.MaxFloat64 and NaN to 0.
func saturate(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}
