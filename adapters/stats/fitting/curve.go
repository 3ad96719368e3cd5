package fitting

import (
	"fmt"
	"math"

	"hypotest/domain/core"
	"hypotest/domain/stats"

	"gonum.org/v1/gonum/optimize"
)

// Model is a parametric curve y = f(x; params)
type Model func(x float64, params []float64) float64

// maxEvaluations bounds the simplex search
const maxEvaluations = 50000

// Curve fits an arbitrary model by minimising the sum of squared residuals
// with Nelder-Mead, starting from initial. ParamCount is len(initial).
func Curve(label string, model Model, x, y, initial []float64) (stats.ModelFit, error) {
	if err := checkPoints(x, y); err != nil {
		return stats.ModelFit{}, err
	}
	if model == nil {
		return stats.ModelFit{}, core.NewInvalidParameterError("model", nil, "model function is required")
	}
	if len(initial) == 0 {
		return stats.ModelFit{}, core.NewInvalidParameterError("initial", "[]", "at least one parameter is required")
	}
	if len(x) < len(initial) {
		return stats.ModelFit{}, core.NewInsufficientDataError("points", len(x), len(initial))
	}

	residuals := func(params []float64) float64 {
		var ssr float64
		for i := range x {
			r := y[i] - model(x[i], params)
			ssr += r * r
		}
		if math.IsNaN(ssr) {
			return math.Inf(1)
		}
		return ssr
	}

	problem := optimize.Problem{Func: residuals}
	settings := &optimize.Settings{FuncEvaluations: maxEvaluations}
	result, err := optimize.Minimize(problem, initial, settings, &optimize.NelderMead{})
	if err != nil {
		return stats.ModelFit{}, fmt.Errorf("fitting %s: %w", label, err)
	}

	params := make([]float64, len(result.X))
	copy(params, result.X)

	return stats.ModelFit{
		Label:      label,
		SSR:        residuals(params),
		ParamCount: len(params),
		Params:     params,
	}, nil
}
