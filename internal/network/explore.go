package network

import "github.com/nvandessel/leverage/internal/score"

// ExploreInputs drive a single evaluation of q's score function with the
// surrounding scores supplied directly instead of iterated.
type ExploreInputs struct {
	QK float64 `json:"q_k" yaml:"q_k" validate:"gte=0"`
	PK float64 `json:"p_k" yaml:"p_k" validate:"gte=0"`
	XK float64 `json:"x_k" yaml:"x_k" validate:"gte=0,ltefield=QK"`
	XD float64 `json:"x_d" yaml:"x_d" validate:"gte=0,ltefield=XK"`

	// RS and YS are context scores. They are echoed back but q's score
	// function does not read them.
	RS float64 `json:"r_s" yaml:"r_s" validate:"gte=0"`
	YS float64 `json:"y_s" yaml:"y_s" validate:"gte=0"`
	OS float64 `json:"o_s" yaml:"o_s" validate:"gte=0"`
	ZS float64 `json:"z_s" yaml:"z_s" validate:"gte=0"`
}

// ExploreResult is the breakdown of one score function evaluation.
type ExploreResult struct {
	Inputs     ExploreInputs `json:"inputs"`
	Constants  Constants     `json:"constants"`
	XS         float64       `json:"x_s"`
	XBonus     float64       `json:"x_b"`
	XPenalty   float64       `json:"x_penalty"`
	InfluenceQ float64       `json:"influence_on_q"`
	QS         float64       `json:"q_s"`
}

// ValidateExplore checks explore inputs with the same bounds the solver
// applies to stakes.
func ValidateExplore(in ExploreInputs) error {
	if err := checkFinite(
		named{"q_k", in.QK}, named{"p_k", in.PK},
		named{"x_k", in.XK}, named{"x_d", in.XD},
		named{"r_s", in.RS}, named{"y_s", in.YS},
		named{"o_s", in.OS}, named{"z_s", in.ZS},
	); err != nil {
		return err
	}
	return structError(in)
}

// Explore evaluates q's score once. Unlike Step, influence on q is not
// capped and p's stake stands in for p's score.
func Explore(in ExploreInputs, c Constants) (ExploreResult, error) {
	if err := ValidateExplore(in); err != nil {
		return ExploreResult{}, err
	}
	if err := ValidateConstants(c); err != nil {
		return ExploreResult{}, err
	}

	res := ExploreResult{Inputs: in, Constants: c}
	res.XS = in.XK + in.XD
	res.XBonus = score.RestakeBonus(in.XK, in.PK, res.XS, c.K)
	res.XPenalty = score.DoubtPenalty(in.XD, c.D)
	res.InfluenceQ = score.Influence(in.PK, in.ZS, in.OS, c.A, c.V)
	res.QS = score.Score(in.QK, res.XBonus, res.XPenalty, res.InfluenceQ)
	return res, nil
}
