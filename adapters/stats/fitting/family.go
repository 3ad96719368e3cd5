package fitting

import (
	"fmt"
	"math"

	"hypotest/domain/core"
	"hypotest/domain/stats"
)

// Nested model families understood by Family
const (
	FamilyPolynomial  = "polynomial"
	FamilyExponential = "exponential"
)

// exactFitTolerance is the residual sum, relative to Σy², below which a fit
// counts as exact
const exactFitTolerance = 1e-12

// Family fits the named nested family to the points. maxDegree bounds the
// polynomial family and is ignored by the others. An empty name selects the
// polynomial family.
func Family(name string, x, y []float64, maxDegree int) ([]stats.ModelFit, error) {
	switch name {
	case "", FamilyPolynomial:
		return PolynomialFamily(x, y, maxDegree)
	case FamilyExponential:
		return ExponentialFamily(x, y)
	default:
		return nil, core.NewInvalidParameterError("family", name,
			fmt.Sprintf("must be %s or %s", FamilyPolynomial, FamilyExponential))
	}
}

// ExponentialFamily fits the nested family
//
//	constant           y = a
//	exponential        y = a·e^(bx)
//	exponential+offset y = a·e^(bx) + c
//
// The curved models are fitted with Nelder-Mead. Each search starts where the
// simpler model left off, so a richer model never fits worse than the one
// it extends.
func ExponentialFamily(x, y []float64) ([]stats.ModelFit, error) {
	constant, err := Polynomial(x, y, 0)
	if err != nil {
		return nil, fmt.Errorf("constant: %w", err)
	}

	// b = 0 reproduces the constant fit; a log-linear fit usually starts
	// closer when every y is positive
	growth, err := Curve("exponential", exponential, x, y, []float64{constant.Params[0], 0})
	if err != nil {
		return nil, err
	}
	if start, ok := logLinearStart(x, y); ok {
		if alt, err := Curve("exponential", exponential, x, y, start); err == nil && alt.SSR < growth.SSR {
			growth = alt
		}
	}

	offset, err := Curve("exponential+offset", exponentialOffset, x, y,
		[]float64{growth.Params[0], growth.Params[1], 0})
	if err != nil {
		return nil, err
	}

	fits := []stats.ModelFit{constant, growth, offset}
	settleResiduals(fits, y)
	return fits, nil
}

func exponential(x float64, p []float64) float64 {
	return p[0] * math.Exp(p[1]*x)
}

func exponentialOffset(x float64, p []float64) float64 {
	return p[0]*math.Exp(p[1]*x) + p[2]
}

// logLinearStart estimates a and b from a straight line through (x, ln y)
func logLinearStart(x, y []float64) ([]float64, bool) {
	logY := make([]float64, len(y))
	for i, v := range y {
		if v <= 0 {
			return nil, false
		}
		logY[i] = math.Log(v)
	}
	fit, err := Polynomial(x, logY, 1)
	if err != nil {
		return nil, false
	}
	start := []float64{math.Exp(fit.Params[0]), fit.Params[1]}
	if !isFinite(start[0]) || !isFinite(start[1]) {
		return nil, false
	}
	return start, true
}

// settleResiduals zeroes residual sums that are round-off relative to Σy²
// and makes them non-increasing along the family. fits must be nested and
// ordered by increasing parameter count.
func settleResiduals(fits []stats.ModelFit, y []float64) {
	var scale float64
	for _, v := range y {
		scale += v * v
	}
	floor := exactFitTolerance * scale

	for i := range fits {
		if fits[i].SSR <= floor {
			fits[i].SSR = 0
		}
		if i > 0 && fits[i].SSR > fits[i-1].SSR {
			fits[i].SSR = fits[i-1].SSR
		}
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
