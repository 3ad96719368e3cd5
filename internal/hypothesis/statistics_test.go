package hypothesis

import (
	"math"
	"testing"

	"hypotest/domain/core"
	"hypotest/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZScore(t *testing.T) {
	z, err := ZScore(testkit.ZScenario.Observed, testkit.ZScenario.Mean, testkit.ZScenario.Sigma)
	require.NoError(t, err)
	assert.InDelta(t, -1.766667, z, 1e-6)
	assert.InDelta(t, 1.766667, math.Abs(z), 1e-6)

	for _, sigma := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		_, err := ZScore(1054.7, 1060, sigma)
		assert.ErrorIs(t, err, core.ErrInvalidParameter, "sigmaMu=%v", sigma)
	}
}

func TestTScore(t *testing.T) {
	summary, err := SampleSummary(testkit.TScenario.Sample)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.N)
	assert.InDelta(t, 1041.2, summary.Mean, 1e-9)
	assert.InDelta(t, 13.953494, summary.StdDev, 1e-6)

	tScore, err := TScore(testkit.TScenario.Sample, testkit.TScenario.Mu)
	require.NoError(t, err)
	assert.InDelta(t, -3.012728, tScore, 1e-6)
}

func TestTScore_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		sample []float64
		want   error
	}{
		{"empty", nil, core.ErrInsufficientData},
		{"single observation", []float64{1035}, core.ErrInsufficientData},
		{"nan observation", []float64{1, math.NaN(), 3}, core.ErrInvalidParameter},
		{"constant sample", []float64{4, 4, 4}, core.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TScore(tt.sample, 0)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestChiSquare(t *testing.T) {
	chi2, err := ChiSquare(
		[]float64{10, 12, 9, 11, 8},
		[]float64{10, 10, 10, 10, 10},
		[]float64{1, 1, 1, 1, 1},
	)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, chi2, 1e-12)

	chi2, err = ChiSquare([]float64{3}, []float64{1}, []float64{2})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, chi2, 1e-12)
}

func TestChiSquare_InvalidInput(t *testing.T) {
	tests := []struct {
		name                      string
		observed, expected, sigma []float64
		want                      error
	}{
		{"observed longer than expected", []float64{1, 2, 3, 4, 5}, []float64{1, 2, 3, 4}, []float64{1, 1, 1, 1, 1}, core.ErrDimensionMismatch},
		{"sigma too short", []float64{1, 2}, []float64{1, 2}, []float64{1}, core.ErrDimensionMismatch},
		{"empty", []float64{}, []float64{}, []float64{}, core.ErrInvalidParameter},
		{"zero sigma", []float64{1, 2}, []float64{1, 2}, []float64{1, 0}, core.ErrInvalidParameter},
		{"negative sigma", []float64{1}, []float64{1}, []float64{-1}, core.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ChiSquare(tt.observed, tt.expected, tt.sigma)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFStatistic(t *testing.T) {
	f, err := FStatistic(100, 10, 1, 2, 20)
	require.NoError(t, err)
	assert.InDelta(t, 162.0, f, 1e-9)

	f, err = FStatistic(12, 12, 2, 4, 30)
	require.NoError(t, err)
	assert.Zero(t, f)

	f, err = FStatistic(5, 0, 1, 3, 10)
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, 1))
}

func TestFStatistic_InvalidInput(t *testing.T) {
	tests := []struct {
		name             string
		ssr1, ssr2       float64
		dof1, dof2, nTot int
	}{
		{"dof2 equals dof1", 10, 5, 2, 2, 20},
		{"dof2 below dof1", 10, 5, 3, 2, 20},
		{"nTotal equals dof2", 10, 5, 1, 2, 2},
		{"nTotal below dof2", 10, 5, 1, 4, 3},
		{"negative ssr2", 10, -1, 1, 2, 20},
		{"misordered pair", 5, 10, 1, 2, 20},
		{"both exact", 0, 0, 1, 2, 20},
		{"nan ssr", math.NaN(), 1, 1, 2, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FStatistic(tt.ssr1, tt.ssr2, tt.dof1, tt.dof2, tt.nTot)
			assert.ErrorIs(t, err, core.ErrInvalidParameter)
			assert.Zero(t, f)
		})
	}
}
