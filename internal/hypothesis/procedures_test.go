package hypothesis

import (
	"math"
	"testing"

	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcedures() *Procedures {
	return NewProcedures(newEvaluator())
}

func TestProcedures_ZTest(t *testing.T) {
	sc := testkit.ZScenario

	out, err := newProcedures().ZTest(sc.Observed, sc.Mean, sc.Sigma, stats.TailTwoSided, 0.05)
	require.NoError(t, err)
	assert.Equal(t, stats.TestZ, out.Config.Kind)
	assert.InDelta(t, sc.Statistic, math.Abs(out.Result.Statistic), 1e-4)
	assert.InDelta(t, sc.PValue, out.Result.PValue, 1e-6)
	assert.Equal(t, stats.DecisionRetain, out.Result.Decision)
}

func TestProcedures_ZTestSample(t *testing.T) {
	sample := []float64{1054, 1055, 1056, 1053}
	out, err := newProcedures().ZTestSample(sample, 1060, 3, stats.TailTwoSided, 0.05)
	require.NoError(t, err)
	require.NotNil(t, out.Summary)
	assert.Equal(t, 4, out.Summary.N)
	assert.InDelta(t, 1054.5, out.Summary.Mean, 1e-9)
	// sigma_mu = 3/2
	assert.InDelta(t, -5.5/1.5, out.Result.Statistic, 1e-9)
	assert.Equal(t, stats.DecisionReject, out.Result.Decision)

	_, err = newProcedures().ZTestSample(nil, 1060, 3, stats.TailTwoSided, 0.05)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
	_, err = newProcedures().ZTestSample(sample, 1060, 0, stats.TailTwoSided, 0.05)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestProcedures_TTest(t *testing.T) {
	sc := testkit.TScenario

	out, err := newProcedures().TTest(sc.Sample, sc.Mu, stats.TailTwoSided, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.Config.DoF1)
	assert.InDelta(t, sc.Statistic, out.Result.Statistic, 1e-6)
	assert.InDelta(t, sc.PValue, out.Result.PValue, 1e-6)
	assert.Equal(t, stats.DecisionReject, out.Result.Decision)
	require.NotNil(t, out.Summary)
	assert.InDelta(t, sc.SampleMean, out.Summary.Mean, 1e-9)
	assert.InDelta(t, sc.SampleStd, out.Summary.StdDev, 1e-6)

	_, err = newProcedures().TTest([]float64{1}, 0, stats.TailTwoSided, 0.05)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestProcedures_ChiSquareTest(t *testing.T) {
	out, err := newProcedures().ChiSquareTest(
		[]float64{10, 12, 9, 11, 8},
		[]float64{10, 10, 10, 10, 10},
		[]float64{1, 1, 1, 1, 1},
		stats.TailUpper,
		0.05,
	)
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.Config.DoF1)
	assert.Equal(t, stats.TailUpper, out.Config.Tail)
	assert.InDelta(t, 10.0, out.Result.Statistic, 1e-12)
	assert.InDelta(t, 6*math.Exp(-5), out.Result.PValue, 1e-9)
	assert.Equal(t, stats.DecisionReject, out.Result.Decision)

	_, err = newProcedures().ChiSquareTest([]float64{1, 2, 3, 4, 5}, []float64{1, 2, 3, 4}, []float64{1, 1, 1, 1, 1}, stats.TailUpper, 0.05)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	// one bin leaves zero degrees of freedom
	_, err = newProcedures().ChiSquareTest([]float64{1}, []float64{1}, []float64{1}, stats.TailUpper, 0.05)
	assert.ErrorIs(t, err, core.ErrDistribution)
}

func TestProcedures_FTest(t *testing.T) {
	simpler := stats.ModelFit{SSR: 100, ParamCount: 1}
	richer := stats.ModelFit{SSR: 10, ParamCount: 2}

	out, err := newProcedures().FTest(simpler, richer, 20, stats.TailUpper, 0.05)
	require.NoError(t, err)
	assert.Equal(t, stats.TestF, out.Config.Kind)
	assert.InDelta(t, 162.0, out.Result.Statistic, 1e-9)
	assert.Less(t, out.Result.PValue, 1e-9)
	assert.Equal(t, stats.DecisionReject, out.Result.Decision)

	_, err = newProcedures().FTest(richer, simpler, 20, stats.TailUpper, 0.05)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestProcedures_UpperTailOnlyKinds(t *testing.T) {
	observed := []float64{10, 12, 9, 11, 8}
	expected := []float64{10, 10, 10, 10, 10}
	sigma := []float64{1, 1, 1, 1, 1}
	simpler := stats.ModelFit{SSR: 100, ParamCount: 1}
	richer := stats.ModelFit{SSR: 10, ParamCount: 2}
	p := newProcedures()

	_, err := p.ChiSquareTest(observed, expected, sigma, stats.TailTwoSided, 0.05)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = p.FTest(simpler, richer, 20, stats.TailTwoSided, 0.05)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	upper, err := p.ChiSquareTest(observed, expected, sigma, stats.TailUpper, 0.05)
	require.NoError(t, err)
	lower, err := p.ChiSquareTest(observed, expected, sigma, stats.TailLower, 0.05)
	require.NoError(t, err)
	assert.Equal(t, upper, lower)
	assert.Equal(t, stats.TailUpper, lower.Config.Tail)

	out, err := p.FTest(simpler, richer, 20, stats.TailLower, 0.05)
	require.NoError(t, err)
	assert.Equal(t, stats.TailUpper, out.Config.Tail)
	assert.Equal(t, stats.DecisionReject, out.Result.Decision)
}
