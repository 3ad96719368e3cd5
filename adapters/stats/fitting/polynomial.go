package fitting

import (
	"fmt"
	"math"

	"hypotest/domain/core"
	"hypotest/domain/stats"

	"gonum.org/v1/gonum/mat"
)

// Polynomial fits y = c₀ + c₁x + … + c_d x^d by linear least squares.
// Params holds the coefficients lowest power first; ParamCount is degree+1.
func Polynomial(x, y []float64, degree int) (stats.ModelFit, error) {
	if err := checkPoints(x, y); err != nil {
		return stats.ModelFit{}, err
	}
	if degree < 0 {
		return stats.ModelFit{}, core.NewInvalidParameterError("degree", degree, "must be non-negative")
	}
	k := degree + 1
	if len(x) < k {
		return stats.ModelFit{}, core.NewInsufficientDataError("points", len(x), k)
	}

	design := vandermonde(x, degree)
	coef := mat.NewVecDense(k, nil)
	if err := coef.SolveVec(design, mat.NewVecDense(len(y), y)); err != nil {
		return stats.ModelFit{}, core.NewInvalidParameterError("x", degree, fmt.Sprintf("design matrix is singular: %v", err))
	}

	params := make([]float64, k)
	for i := range params {
		params[i] = coef.AtVec(i)
	}

	var ssr float64
	for i := range x {
		r := y[i] - evalPolynomial(params, x[i])
		ssr += r * r
	}

	return stats.ModelFit{
		Label:      polynomialLabel(degree),
		SSR:        ssr,
		ParamCount: k,
		Params:     params,
	}, nil
}

// PolynomialFamily fits degrees 0..maxDegree, producing a nested family
// ordered by increasing parameter count. Residual sums are settled (see
// settleResiduals) so exact data selects its true degree.
func PolynomialFamily(x, y []float64, maxDegree int) ([]stats.ModelFit, error) {
	if maxDegree < 1 {
		return nil, core.NewInvalidParameterError("maxDegree", maxDegree, "must be at least 1")
	}
	fits := make([]stats.ModelFit, 0, maxDegree+1)
	for d := 0; d <= maxDegree; d++ {
		fit, err := Polynomial(x, y, d)
		if err != nil {
			return nil, fmt.Errorf("degree %d: %w", d, err)
		}
		fits = append(fits, fit)
	}
	settleResiduals(fits, y)
	return fits, nil
}

func vandermonde(x []float64, degree int) *mat.Dense {
	m := mat.NewDense(len(x), degree+1, nil)
	for i, xi := range x {
		p := 1.0
		for j := 0; j <= degree; j++ {
			m.Set(i, j, p)
			p *= xi
		}
	}
	return m
}

// Horner
func evalPolynomial(params []float64, x float64) float64 {
	var v float64
	for i := len(params) - 1; i >= 0; i-- {
		v = v*x + params[i]
	}
	return v
}

func polynomialLabel(degree int) string {
	switch degree {
	case 0:
		return "constant"
	case 1:
		return "linear"
	case 2:
		return "quadratic"
	case 3:
		return "cubic"
	default:
		return fmt.Sprintf("degree-%d", degree)
	}
}

func checkPoints(x, y []float64) error {
	if len(x) != len(y) {
		return core.NewDimensionMismatchError("x", len(x), "y", len(y))
	}
	if len(x) == 0 {
		return core.NewInsufficientDataError("points", 0, 1)
	}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return core.NewInvalidParameterError("points", i, "non-finite value at index")
		}
	}
	return nil
}
