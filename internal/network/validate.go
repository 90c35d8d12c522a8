package network

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// inputValidate checks struct tags on every solver input type.
// validator.Validate caches struct metadata and is safe for concurrent use.
var inputValidate *validator.Validate

func init() {
	inputValidate = validator.New()
	inputValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateStakes checks stake, restake and doubt bounds:
// 0 <= x_d <= x_k <= q_k and 0 <= z_d <= z_k <= p_k, other stakes >= 0.
func ValidateStakes(in StakeInputs) error {
	if err := checkFinite(
		named{"q_k", in.QK}, named{"p_k", in.PK},
		named{"x_k", in.XK}, named{"x_d", in.XD},
		named{"z_k", in.ZK}, named{"z_d", in.ZD},
		named{"o_k", in.OK}, named{"r_k", in.RK}, named{"y_k", in.YK},
	); err != nil {
		return err
	}
	return structError(in)
}

// ValidateConstants checks that k, d, v are non-negative and a is in [0, 1].
func ValidateConstants(c Constants) error {
	if err := checkFinite(
		named{"k_const", c.K}, named{"d_const", c.D},
		named{"v_const", c.V}, named{"a_const", c.A},
	); err != nil {
		return err
	}
	return structError(c)
}

// ValidateConfig checks the iteration budget and convergence threshold.
func ValidateConfig(cfg Config) error {
	if err := checkFinite(named{"convergence_threshold", cfg.ConvergenceThreshold}); err != nil {
		return err
	}
	return structError(cfg)
}

type named struct {
	field string
	value float64
}

func checkFinite(values ...named) error {
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return &ConfigurationError{
				Field:   v.field,
				Value:   v.value,
				Rule:    "finite",
				Message: "must be a finite number",
			}
		}
	}
	return nil
}

// structError runs tag validation on s and converts the first failure
// into a ConfigurationError.
func structError(s any) error {
	err := inputValidate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate %T: %w", s, err)
	}

	fe := verrs[0]
	ce := &ConfigurationError{
		Field: fe.Field(),
		Value: numericValue(fe.Value()),
		Rule:  fe.Tag(),
	}

	switch fe.Tag() {
	case "gte":
		ce.Message = fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		ce.Message = fmt.Sprintf("must be <= %s", fe.Param())
	case "ltefield":
		ce.Message = fmt.Sprintf("must not exceed %s", wireName(reflect.TypeOf(s), fe.Param()))
	default:
		ce.Message = fmt.Sprintf("failed %q check", fe.Tag())
	}
	return ce
}

// wireName maps a Go field name to its json tag name on t.
func wireName(t reflect.Type, goName string) string {
	f, ok := t.FieldByName(goName)
	if !ok {
		return goName
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return goName
	}
	return name
}

func numericValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return math.NaN()
	}
}
