package fitting

import (
	"testing"

	"hypotest/adapters/stats/distributions"
	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/internal/hypothesis"
	"hypotest/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolynomial_ExactLine(t *testing.T) {
	x, y := testkit.LinearPoints()

	fit, err := Polynomial(x, y, 1)
	require.NoError(t, err)
	assert.Equal(t, "linear", fit.Label)
	assert.Equal(t, 2, fit.ParamCount)
	require.Len(t, fit.Params, 2)
	assert.InDelta(t, 1.0, fit.Params[0], 1e-9)
	assert.InDelta(t, 2.0, fit.Params[1], 1e-9)
	assert.InDelta(t, 0.0, fit.SSR, 1e-12)
}

func TestPolynomial_ConstantIsMean(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{2, 4, 6, 8}

	fit, err := Polynomial(x, y, 0)
	require.NoError(t, err)
	assert.Equal(t, "constant", fit.Label)
	assert.InDelta(t, 5.0, fit.Params[0], 1e-12)
	// (3² + 1² + 1² + 3²)
	assert.InDelta(t, 20.0, fit.SSR, 1e-9)
}

func TestPolynomial_NoisyQuadratic(t *testing.T) {
	x, y := testkit.NoisyQuadraticPoints()

	fit, err := Polynomial(x, y, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3.0203297, fit.Params[0], 1e-6)
	assert.InDelta(t, -1.0113586, fit.Params[1], 1e-6)
	assert.InDelta(t, 0.5010390, fit.Params[2], 1e-6)
	assert.InDelta(t, 0.0155253, fit.SSR, 1e-6)
}

func TestPolynomial_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		x, y   []float64
		degree int
		want   error
	}{
		{"length mismatch", []float64{1, 2}, []float64{1}, 1, core.ErrDimensionMismatch},
		{"empty", nil, nil, 1, core.ErrInsufficientData},
		{"negative degree", []float64{1, 2}, []float64{1, 2}, -1, core.ErrInvalidParameter},
		{"too few points", []float64{1, 2}, []float64{1, 2}, 2, core.ErrInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Polynomial(tt.x, tt.y, tt.degree)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPolynomialFamily_FeedsComparator(t *testing.T) {
	x, y := testkit.NoisyQuadraticPoints()

	family, err := PolynomialFamily(x, y, 3)
	require.NoError(t, err)
	require.Len(t, family, 4)
	for i := 1; i < len(family); i++ {
		assert.Equal(t, family[i-1].ParamCount+1, family[i].ParamCount)
		assert.LessOrEqual(t, family[i].SSR, family[i-1].SSR+1e-9)
	}

	comparator := hypothesis.NewComparator(hypothesis.NewEvaluator(distributions.NewGonumProvider()))
	result, err := comparator.Compare(family, len(x), 0.05)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SelectedIndex)
	assert.Equal(t, "quadratic", result.Selected.Label)
	assert.False(t, result.Exhausted())
}

func TestPolynomialFamily_RequiresDegree(t *testing.T) {
	x, y := testkit.LinearPoints()
	_, err := PolynomialFamily(x, y, 0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestPolynomialFamily_ExactDataSettlesResiduals(t *testing.T) {
	x := make([]float64, 12)
	y := make([]float64, len(x))
	for i := range x {
		x[i] = float64(i + 1)
		y[i] = 2.1*x[i] + 1.3
	}

	family, err := PolynomialFamily(x, y, 3)
	require.NoError(t, err)
	assert.Greater(t, family[0].SSR, 0.0)
	for _, fit := range family[1:] {
		assert.Equal(t, 0.0, fit.SSR, fit.Label)
	}
}

func TestSettleResiduals(t *testing.T) {
	fits := []stats.ModelFit{
		{Label: "a", SSR: 10},
		{Label: "b", SSR: 4},
		{Label: "c", SSR: 4.000001},
		{Label: "d", SSR: 1e-20},
		{Label: "e", SSR: 3e-20},
	}
	settleResiduals(fits, []float64{1, 2, 3})

	got := make([]float64, len(fits))
	for i, f := range fits {
		got[i] = f.SSR
	}
	assert.Equal(t, []float64{10, 4, 4, 0, 0}, got)
}

func TestEvalPolynomial(t *testing.T) {
	// 3 - x + 0.5x²
	assert.InDelta(t, 5.0, evalPolynomial([]float64{3, -1, 0.5}, 4), 1e-12)
	assert.Equal(t, 0.0, evalPolynomial(nil, 10))
}
