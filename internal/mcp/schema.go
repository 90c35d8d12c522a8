// Package mcp provides an MCP (Model Context Protocol) server for leverage.
package mcp

import "github.com/nvandessel/leverage/internal/network"

// LeverageSimulateInput defines the input for the leverage_simulate tool.
// Omitted values fall back to the configured simulation defaults.
type LeverageSimulateInput struct {
	Scenario string `json:"scenario,omitempty" jsonschema:"Scenario file under ~/.leverage/scenarios used as the base; explicit arguments override it"`

	QK *float64 `json:"q_k,omitempty" jsonschema:"Stake in q"`
	PK *float64 `json:"p_k,omitempty" jsonschema:"Stake in p"`
	XK *float64 `json:"x_k,omitempty" jsonschema:"Amount restaked from q into x (at most q_k)"`
	XD *float64 `json:"x_d,omitempty" jsonschema:"Doubt against x (at most x_k)"`
	ZK *float64 `json:"z_k,omitempty" jsonschema:"Amount restaked from p into z (at most p_k)"`
	ZD *float64 `json:"z_d,omitempty" jsonschema:"Doubt against z (at most z_k)"`
	OK *float64 `json:"o_k,omitempty" jsonschema:"Stake in external node o"`
	RK *float64 `json:"r_k,omitempty" jsonschema:"Stake in external node r"`
	YK *float64 `json:"y_k,omitempty" jsonschema:"Stake in external node y"`

	K *float64 `json:"k_const,omitempty" jsonschema:"Restaking bonus scaling constant"`
	D *float64 `json:"d_const,omitempty" jsonschema:"Doubt penalty scaling constant"`
	V *float64 `json:"v_const,omitempty" jsonschema:"Influence scaling constant"`
	A *float64 `json:"a_const,omitempty" jsonschema:"Per-hop attenuation factor in [0, 1]"`

	MaxIterations        *int     `json:"max_iterations,omitempty" jsonschema:"Iteration budget (1 to 10000)"`
	ConvergenceThreshold *float64 `json:"convergence_threshold,omitempty" jsonschema:"Every dynamic delta must fall strictly below this to converge"`

	IncludeTrajectory bool `json:"include_trajectory,omitempty" jsonschema:"Return every iteration record, not just the final state"`
}

// LeverageSimulateOutput defines the output for the leverage_simulate tool.
type LeverageSimulateOutput struct {
	RunID      string                    `json:"run_id" jsonschema:"Identifier of this run"`
	Converged  bool                      `json:"converged" jsonschema:"Whether every dynamic delta fell below the threshold"`
	Iterations int                       `json:"iterations" jsonschema:"Number of iterations performed"`
	Final      network.ScoreState        `json:"final" jsonschema:"Scores after the last iteration"`
	Prices     network.TokenPrices       `json:"token_prices" jsonschema:"Final scores normalized by their total"`
	Trajectory []network.IterationRecord `json:"trajectory,omitempty" jsonschema:"Per-iteration records when requested"`
	Message    string                    `json:"message" jsonschema:"Human-readable result message"`
}

// LeverageExploreInput defines the input for the leverage_explore tool.
type LeverageExploreInput struct {
	QK *float64 `json:"q_k,omitempty" jsonschema:"Stake in q"`
	PK *float64 `json:"p_k,omitempty" jsonschema:"Stake in p"`
	XK *float64 `json:"x_k,omitempty" jsonschema:"Amount restaked from q into x (at most q_k)"`
	XD *float64 `json:"x_d,omitempty" jsonschema:"Doubt against x (at most x_k)"`
	RS *float64 `json:"r_s,omitempty" jsonschema:"Score of r (context only)"`
	YS *float64 `json:"y_s,omitempty" jsonschema:"Score of y (context only)"`
	OS *float64 `json:"o_s,omitempty" jsonschema:"Score of o"`
	ZS *float64 `json:"z_s,omitempty" jsonschema:"Score of z"`

	K *float64 `json:"k_const,omitempty" jsonschema:"Restaking bonus scaling constant"`
	D *float64 `json:"d_const,omitempty" jsonschema:"Doubt penalty scaling constant"`
	V *float64 `json:"v_const,omitempty" jsonschema:"Influence scaling constant"`
	A *float64 `json:"a_const,omitempty" jsonschema:"Per-hop attenuation factor in [0, 1]"`
}

// LeverageExploreOutput defines the output for the leverage_explore tool.
type LeverageExploreOutput struct {
	Result  network.ExploreResult `json:"result" jsonschema:"Breakdown of the score of q"`
	Message string                `json:"message" jsonschema:"Human-readable result message"`
}

// LeverageDefaultsInput defines the input for the leverage_defaults tool.
type LeverageDefaultsInput struct{}

// LeverageDefaultsOutput defines the output for the leverage_defaults tool.
type LeverageDefaultsOutput struct {
	Stakes               network.StakeInputs   `json:"stakes" jsonschema:"Default stakes, restakes and doubts"`
	Constants            network.Constants     `json:"constants" jsonschema:"Default scalar parameters"`
	MaxIterations        int                   `json:"max_iterations" jsonschema:"Default iteration budget"`
	ConvergenceThreshold float64               `json:"convergence_threshold" jsonschema:"Default convergence threshold"`
	Explore              network.ExploreInputs `json:"explore" jsonschema:"Default explore inputs"`
}
