package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/leverage/internal/constants"
	"github.com/nvandessel/leverage/internal/network"
	"github.com/nvandessel/leverage/internal/pathutil"
	"github.com/nvandessel/leverage/internal/ratelimit"
	"github.com/nvandessel/leverage/internal/render"
	"github.com/nvandessel/leverage/internal/scenario"
)

const topologyURI = "leverage://network/topology"

// registerTools registers all leverage MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "leverage_simulate",
		Description: "Run the stake network to convergence or until the iteration budget is spent; returns final scores and token prices",
	}, s.handleLeverageSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "leverage_explore",
		Description: "Evaluate the score of q once from supplied stakes and context scores, with a breakdown of every term",
	}, s.handleLeverageExplore)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "leverage_defaults",
		Description: "Show the default stakes, constants and iteration bounds used when a tool argument is omitted",
	}, s.handleLeverageDefaults)
}

// registerResources registers MCP resources for auto-loading into context.
func (s *Server) registerResources() {
	s.server.AddResource(&sdk.Resource{
		URI:         topologyURI,
		Name:        "leverage-topology",
		Description: "The seven nodes of the stake network and how they influence each other.",
		MIMEType:    "text/markdown",
	}, s.handleTopologyResource)
}

// handleTopologyResource describes the network and the active defaults.
func (s *Server) handleTopologyResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	st := s.settings.Simulation.Stakes

	var sb strings.Builder
	sb.WriteString("# Stake Network\n\n")
	sb.WriteString("Primaries q and p hold stakes. x is restaked out of q, z out of p, and a doubt may contest each restake.\n")
	sb.WriteString("o, r and y are external and keep their stake for the whole run.\n\n")
	sb.WriteString("| node | role | default stake |\n|---|---|---|\n")
	fmt.Fprintf(&sb, "| q | primary | %s |\n", render.Number(st.QK))
	fmt.Fprintf(&sb, "| p | primary | %s |\n", render.Number(st.PK))
	fmt.Fprintf(&sb, "| x | restake from q (doubt %s) | %s |\n", render.Number(st.XD), render.Number(st.XK))
	fmt.Fprintf(&sb, "| z | restake from p (doubt %s) | %s |\n", render.Number(st.ZD), render.Number(st.ZK))
	fmt.Fprintf(&sb, "| o | external | %s |\n", render.Number(st.OK))
	fmt.Fprintf(&sb, "| r | external | %s |\n", render.Number(st.RK))
	fmt.Fprintf(&sb, "| y | external | %s |\n", render.Number(st.YK))
	sb.WriteString("\nInfluence: q from p, z and o; p from q, x and r; x from y; z from o.\n")
	sb.WriteString("Use `leverage_simulate` to iterate and `leverage_explore` for a single evaluation.\n")

	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      topologyURI,
				MIMEType: "text/markdown",
				Text:     sb.String(),
			},
		},
	}, nil
}

// handleLeverageSimulate implements the leverage_simulate tool.
func (s *Server) handleLeverageSimulate(ctx context.Context, req *sdk.CallToolRequest, args LeverageSimulateInput) (_ *sdk.CallToolResult, _ LeverageSimulateOutput, retErr error) {
	start := time.Now()
	params := setParams(map[string]*float64{
		"q_k": args.QK, "p_k": args.PK, "x_k": args.XK, "x_d": args.XD,
		"z_k": args.ZK, "z_d": args.ZD, "o_k": args.OK, "r_k": args.RK, "y_k": args.YK,
		"k_const": args.K, "d_const": args.D, "v_const": args.V, "a_const": args.A,
		"convergence_threshold": args.ConvergenceThreshold,
	})
	if args.MaxIterations != nil {
		params["max_iterations"] = *args.MaxIterations
	}
	if args.Scenario != "" {
		params["scenario"] = pathutil.Redact(args.Scenario)
	}
	defer func() {
		s.auditTool("leverage_simulate", start, retErr, params)
	}()

	sc, err := s.baseScenario(args.Scenario)
	if err != nil {
		return nil, LeverageSimulateOutput{}, err
	}

	stakes := sc.Stakes
	override(&stakes.QK, args.QK)
	override(&stakes.PK, args.PK)
	override(&stakes.XK, args.XK)
	override(&stakes.XD, args.XD)
	override(&stakes.ZK, args.ZK)
	override(&stakes.ZD, args.ZD)
	override(&stakes.OK, args.OK)
	override(&stakes.RK, args.RK)
	override(&stakes.YK, args.YK)

	consts := sc.Constants
	override(&consts.K, args.K)
	override(&consts.D, args.D)
	override(&consts.V, args.V)
	override(&consts.A, args.A)

	bounds := sc.SolverConfig()
	if args.MaxIterations != nil {
		bounds.MaxIterations = *args.MaxIterations
	}
	override(&bounds.ConvergenceThreshold, args.ConvergenceThreshold)

	if bounds.MaxIterations > constants.MaxIterationsCeiling {
		return nil, LeverageSimulateOutput{}, fmt.Errorf("max_iterations must be at most %d, got %d", constants.MaxIterationsCeiling, bounds.MaxIterations)
	}

	// Large budgets drain the bucket faster.
	cost := 1 + float64(bounds.MaxIterations)/1000
	if err := ratelimit.CheckLimit(s.toolLimiters, "leverage_simulate", cost); err != nil {
		return nil, LeverageSimulateOutput{}, err
	}

	solver, err := network.NewSolver(stakes, consts, bounds, s.observers())
	if err != nil {
		return nil, LeverageSimulateOutput{}, err
	}

	res, err := solver.Run(ctx)
	if err != nil {
		return nil, LeverageSimulateOutput{}, err
	}

	out := LeverageSimulateOutput{
		RunID:      res.RunID,
		Converged:  res.Converged,
		Iterations: res.Iterations,
		Final:      res.Final,
		Prices:     res.Prices,
	}
	if args.IncludeTrajectory {
		out.Trajectory = res.Trajectory
	}
	if res.Converged {
		out.Message = fmt.Sprintf("Converged after %d iterations", res.Iterations)
	} else {
		out.Message = fmt.Sprintf("Did not converge within %d iterations", res.Iterations)
	}

	return nil, out, nil
}

// baseScenario returns the configured defaults, or the named scenario file
// when path is set. The file must lie inside the allowed scenario
// directories and describe a simulate run.
func (s *Server) baseScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.FromConfig(s.settings.Simulation), nil
	}

	resolved, err := pathutil.ScenarioFile(path, s.scenarioDirs)
	if err != nil {
		return nil, fmt.Errorf("scenario rejected: %w", err)
	}
	sc, err := scenario.Load(resolved, s.settings.Simulation)
	if err != nil {
		return nil, fmt.Errorf("loading scenario %s: %w", pathutil.Redact(resolved), err)
	}
	if sc.Mode != constants.ModeSimulate {
		return nil, fmt.Errorf("scenario %q has mode %s, not %s", sc.Name, sc.Mode, constants.ModeSimulate)
	}
	return sc, nil
}

// handleLeverageExplore implements the leverage_explore tool.
func (s *Server) handleLeverageExplore(ctx context.Context, req *sdk.CallToolRequest, args LeverageExploreInput) (_ *sdk.CallToolResult, _ LeverageExploreOutput, retErr error) {
	start := time.Now()
	params := setParams(map[string]*float64{
		"q_k": args.QK, "p_k": args.PK, "x_k": args.XK, "x_d": args.XD,
		"r_s": args.RS, "y_s": args.YS, "o_s": args.OS, "z_s": args.ZS,
		"k_const": args.K, "d_const": args.D, "v_const": args.V, "a_const": args.A,
	})
	defer func() {
		s.auditTool("leverage_explore", start, retErr, params)
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "leverage_explore", 1); err != nil {
		return nil, LeverageExploreOutput{}, err
	}

	sc := scenario.FromConfig(s.settings.Simulation)
	in := sc.Explore
	override(&in.QK, args.QK)
	override(&in.PK, args.PK)
	override(&in.XK, args.XK)
	override(&in.XD, args.XD)
	override(&in.RS, args.RS)
	override(&in.YS, args.YS)
	override(&in.OS, args.OS)
	override(&in.ZS, args.ZS)

	consts := sc.Constants
	override(&consts.K, args.K)
	override(&consts.D, args.D)
	override(&consts.V, args.V)
	override(&consts.A, args.A)

	res, err := network.Explore(in, consts)
	if err != nil {
		return nil, LeverageExploreOutput{}, err
	}
	s.recorder.RecordExplore()

	return nil, LeverageExploreOutput{
		Result:  res,
		Message: fmt.Sprintf("Score of q is %s", render.Number(res.QS)),
	}, nil
}

// handleLeverageDefaults implements the leverage_defaults tool.
func (s *Server) handleLeverageDefaults(ctx context.Context, req *sdk.CallToolRequest, args LeverageDefaultsInput) (_ *sdk.CallToolResult, _ LeverageDefaultsOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("leverage_defaults", start, retErr, nil)
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "leverage_defaults", 1); err != nil {
		return nil, LeverageDefaultsOutput{}, err
	}

	sim := s.settings.Simulation
	return nil, LeverageDefaultsOutput{
		Stakes:               sim.Stakes,
		Constants:            sim.Constants,
		MaxIterations:        sim.MaxIterations,
		ConvergenceThreshold: sim.ConvergenceThreshold,
		Explore:              scenario.FromConfig(sim).Explore,
	}, nil
}

// override replaces *dst with *src when src is set.
func override(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
