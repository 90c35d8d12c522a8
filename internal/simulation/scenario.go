package simulation

import (
	"fmt"

	"github.com/nvandessel/leverage/internal/network"
)

// Scenario defines a single solver experiment.
type Scenario struct {
	Name      string
	Inputs    network.StakeInputs
	Constants network.Constants
	Config    network.Config

	// CancelAfter, when positive, cancels the run's context once that many
	// iterations have been observed.
	CancelAfter int
}

// RunResult captures one solver run together with what its observer saw.
type RunResult struct {
	Scenario Scenario
	Result   network.SimulationResult
	Err      error

	// Observed holds every record delivered to OnIteration, in order.
	Observed []network.IterationRecord

	// Outcomes holds every outcome delivered to OnComplete.
	Outcomes []string
}

// Sweep varies one input of Base across Values. Param is the wire name of
// a stake or constant (e.g. "x_d", "a_const").
type Sweep struct {
	Base   Scenario
	Param  string
	Values []float64
}

// SweepPoint is one run of a sweep.
type SweepPoint struct {
	Value float64
	Run   RunResult
}

// With returns a copy of the scenario with the named input set to value.
func (s Scenario) With(param string, value float64) (Scenario, error) {
	in, c := &s.Inputs, &s.Constants
	fields := map[string]*float64{
		"q_k": &in.QK, "p_k": &in.PK,
		"x_k": &in.XK, "x_d": &in.XD,
		"z_k": &in.ZK, "z_d": &in.ZD,
		"o_k": &in.OK, "r_k": &in.RK, "y_k": &in.YK,
		"k_const": &c.K, "d_const": &c.D, "v_const": &c.V, "a_const": &c.A,
		"convergence_threshold": &s.Config.ConvergenceThreshold,
	}
	dst, ok := fields[param]
	if !ok {
		return s, fmt.Errorf("unknown sweep parameter %q", param)
	}
	*dst = value
	s.Name = fmt.Sprintf("%s/%s=%g", s.Name, param, value)
	return s, nil
}
