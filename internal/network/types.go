package network

import "math"

// Node identifies one of the seven fixed nodes of the stake network.
type Node string

const (
	NodeQ Node = "q" // primary, restakes into x
	NodeP Node = "p" // primary, restakes into z
	NodeX Node = "x" // restake target out of q
	NodeZ Node = "z" // restake target out of p
	NodeO Node = "o" // static
	NodeR Node = "r" // static
	NodeY Node = "y" // static
)

// Nodes returns all nodes in canonical display order.
func Nodes() []Node {
	return []Node{NodeQ, NodeP, NodeX, NodeZ, NodeO, NodeR, NodeY}
}

// DynamicNodes returns the nodes whose scores change between iterations.
func DynamicNodes() []Node {
	return []Node{NodeQ, NodeP, NodeX, NodeZ}
}

// IsStatic reports whether a node's score is fixed for the whole run.
func (n Node) IsStatic() bool {
	return n == NodeO || n == NodeR || n == NodeY
}

// StakeInputs holds the initial stakes, restakes and doubts for a run.
// Restakes are bounded by their source stake and doubts by their restake.
type StakeInputs struct {
	QK float64 `json:"q_k" yaml:"q_k" validate:"gte=0"`
	PK float64 `json:"p_k" yaml:"p_k" validate:"gte=0"`
	XK float64 `json:"x_k" yaml:"x_k" validate:"gte=0,ltefield=QK"`
	XD float64 `json:"x_d" yaml:"x_d" validate:"gte=0,ltefield=XK"`
	ZK float64 `json:"z_k" yaml:"z_k" validate:"gte=0,ltefield=PK"`
	ZD float64 `json:"z_d" yaml:"z_d" validate:"gte=0,ltefield=ZK"`
	OK float64 `json:"o_k" yaml:"o_k" validate:"gte=0"`
	RK float64 `json:"r_k" yaml:"r_k" validate:"gte=0"`
	YK float64 `json:"y_k" yaml:"y_k" validate:"gte=0"`
}

// Constants holds the scalar parameters shared by every iteration.
type Constants struct {
	// K scales the restaking bonus.
	K float64 `json:"k_const" yaml:"k_const" validate:"gte=0"`

	// D scales the doubt penalty.
	D float64 `json:"d_const" yaml:"d_const" validate:"gte=0"`

	// V scales influence.
	V float64 `json:"v_const" yaml:"v_const" validate:"gte=0"`

	// A is the per-hop attenuation factor. Two-hop influence uses A^2.
	A float64 `json:"a_const" yaml:"a_const" validate:"gte=0,lte=1"`
}

// Config bounds the iteration loop.
type Config struct {
	// MaxIterations is the iteration budget. Must be at least 1.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations" validate:"gte=1"`

	// ConvergenceThreshold is the strict upper bound every dynamic delta
	// must fall under for the run to be considered converged.
	ConvergenceThreshold float64 `json:"convergence_threshold" yaml:"convergence_threshold" validate:"gte=0"`
}

// ScoreState is the vector of seven current scores.
type ScoreState struct {
	Q float64 `json:"q_s"`
	P float64 `json:"p_s"`
	X float64 `json:"x_s"`
	Z float64 `json:"z_s"`
	O float64 `json:"o_s"`
	R float64 `json:"r_s"`
	Y float64 `json:"y_s"`
}

// InitialState derives the starting scores from the stake inputs.
// Restake targets start at restake plus doubt.
func InitialState(in StakeInputs) ScoreState {
	return ScoreState{
		Q: in.QK,
		P: in.PK,
		X: in.XK + in.XD,
		Z: in.ZK + in.ZD,
		O: in.OK,
		R: in.RK,
		Y: in.YK,
	}
}

// Get returns the score of a single node. Unknown nodes score 0.
func (s ScoreState) Get(n Node) float64 {
	switch n {
	case NodeQ:
		return s.Q
	case NodeP:
		return s.P
	case NodeX:
		return s.X
	case NodeZ:
		return s.Z
	case NodeO:
		return s.O
	case NodeR:
		return s.R
	case NodeY:
		return s.Y
	default:
		return 0
	}
}

// Total returns the sum of all seven scores.
func (s ScoreState) Total() float64 {
	return s.Q + s.P + s.X + s.Z + s.O + s.R + s.Y
}

// Deltas holds absolute per-iteration changes of the dynamic scores.
type Deltas struct {
	Q float64 `json:"delta_q"`
	P float64 `json:"delta_p"`
	X float64 `json:"delta_x"`
	Z float64 `json:"delta_z"`
}

// Max returns the largest of the four deltas.
func (d Deltas) Max() float64 {
	m := d.Q
	for _, v := range []float64{d.P, d.X, d.Z} {
		if v > m {
			m = v
		}
	}
	return m
}

// Below reports whether every delta is strictly less than threshold.
func (d Deltas) Below(threshold float64) bool {
	return d.Q < threshold && d.P < threshold && d.X < threshold && d.Z < threshold
}

// IterationRecord is an immutable snapshot taken after one iteration.
type IterationRecord struct {
	Iteration int        `json:"iteration"` // 1-based
	Scores    ScoreState `json:"scores"`
	Deltas    Deltas     `json:"deltas"`
	Terms     Terms      `json:"terms"`
}

// TokenPrices holds each node's final score normalized by the total.
type TokenPrices struct {
	Q float64 `json:"q"`
	P float64 `json:"p"`
	X float64 `json:"x"`
	Z float64 `json:"z"`
	O float64 `json:"o"`
	R float64 `json:"r"`
	Y float64 `json:"y"`
}

// NormalizePrices divides every score by the total, with the total floored
// at 1 so a near-empty network never divides by zero. When the sum of
// scores overflows, the scores are scaled down by a power of two first;
// the prices are unchanged by that scaling.
func NormalizePrices(s ScoreState) TokenPrices {
	total := s.Total()
	if math.IsInf(total, 1) {
		s = s.scale(0.125)
		total = s.Total()
	}
	if total < 1 {
		total = 1
	}
	return TokenPrices{
		Q: s.Q / total,
		P: s.P / total,
		X: s.X / total,
		Z: s.Z / total,
		O: s.O / total,
		R: s.R / total,
		Y: s.Y / total,
	}
}

func (s ScoreState) scale(f float64) ScoreState {
	return ScoreState{Q: s.Q * f, P: s.P * f, X: s.X * f, Z: s.Z * f, O: s.O * f, R: s.R * f, Y: s.Y * f}
}

// Get returns the price of a single node. Unknown nodes price at 0.
func (tp TokenPrices) Get(n Node) float64 {
	switch n {
	case NodeQ:
		return tp.Q
	case NodeP:
		return tp.P
	case NodeX:
		return tp.X
	case NodeZ:
		return tp.Z
	case NodeO:
		return tp.O
	case NodeR:
		return tp.R
	case NodeY:
		return tp.Y
	default:
		return 0
	}
}

// Sum returns the sum of all seven prices.
func (tp TokenPrices) Sum() float64 {
	return tp.Q + tp.P + tp.X + tp.Z + tp.O + tp.R + tp.Y
}

// SimulationResult is the complete output of a solver run.
type SimulationResult struct {
	RunID      string            `json:"run_id"`
	Trajectory []IterationRecord `json:"trajectory"`
	Iterations int               `json:"iterations"`
	Converged  bool              `json:"converged"`
	Final      ScoreState        `json:"final"`
	Prices     TokenPrices       `json:"token_prices"`
}

// Outcome labels how a run terminated.
func (r SimulationResult) Outcome() string {
	if r.Converged {
		return OutcomeConverged
	}
	return OutcomeExhausted
}

// Run outcomes.
const (
	OutcomeConverged = "converged"
	OutcomeExhausted = "exhausted"
	OutcomeCancelled = "cancelled"
)
