package hypothesis

import (
	"math"

	"hypotest/domain/core"

	"github.com/montanaflynn/stats"
)

// Statistic calculators. All are pure functions over their inputs and safe
// for concurrent use.

// ZScore returns (sampleMean - mu) / sigmaMu
func ZScore(sampleMean, mu, sigmaMu float64) (float64, error) {
	if !(sigmaMu > 0) || math.IsInf(sigmaMu, 1) {
		return 0, core.NewInvalidParameterError("sigmaMu", sigmaMu, "must be positive and finite")
	}
	if !isFinite(sampleMean) {
		return 0, core.NewInvalidParameterError("sampleMean", sampleMean, "must be finite")
	}
	if !isFinite(mu) {
		return 0, core.NewInvalidParameterError("mu", mu, "must be finite")
	}
	return (sampleMean - mu) / sigmaMu, nil
}

// TScore returns the one-sample t statistic (x̄ - mu) / (s/√n) using the
// unbiased sample variance.
func TScore(sample []float64, mu float64) (float64, error) {
	summary, err := SampleSummary(sample)
	if err != nil {
		return 0, err
	}
	return tScore(summary, mu)
}

func tScore(summary Summary, mu float64) (float64, error) {
	if !isFinite(mu) {
		return 0, core.NewInvalidParameterError("mu", mu, "must be finite")
	}
	if summary.StdDev == 0 {
		return 0, core.NewInvalidParameterError("sample", "constant", "zero variance leaves the t statistic undefined")
	}
	return (summary.Mean - mu) / summary.StdErr(), nil
}

// ChiSquare returns Σ (observedᵢ - expectedᵢ)² / sigmaᵢ²
func ChiSquare(observed, expected, sigma []float64) (float64, error) {
	if len(observed) != len(expected) {
		return 0, core.NewDimensionMismatchError("observed", len(observed), "expected", len(expected))
	}
	if len(observed) != len(sigma) {
		return 0, core.NewDimensionMismatchError("observed", len(observed), "sigma", len(sigma))
	}
	if len(observed) == 0 {
		return 0, core.NewInvalidParameterError("observed", "[]", "must contain at least one value")
	}

	var chi2 float64
	for i := range observed {
		if !(sigma[i] > 0) || math.IsInf(sigma[i], 1) {
			return 0, core.NewInvalidParameterError("sigma", sigma[i], "every uncertainty must be positive and finite")
		}
		if !isFinite(observed[i]) || !isFinite(expected[i]) {
			return 0, core.NewInvalidParameterError("observed/expected", i, "non-finite value at index")
		}
		d := observed[i] - expected[i]
		chi2 += d * d / (sigma[i] * sigma[i])
	}
	return chi2, nil
}

// FStatistic compares two nested least-squares fits:
//
//	((ssr1-ssr2)/(dof2-dof1)) / (ssr2/(nTotal-dof2))
//
// dof1 and dof2 are the parameter counts of the simpler and richer model.
// A richer model with a larger residual is a misordered pair and is rejected
// rather than clamped.
func FStatistic(ssr1, ssr2 float64, dof1, dof2, nTotal int) (float64, error) {
	if dof2 <= dof1 {
		return 0, core.NewInvalidParameterError("dof2", dof2, "must exceed dof1")
	}
	if nTotal <= dof2 {
		return 0, core.NewInvalidParameterError("nTotal", nTotal, "must exceed dof2")
	}
	if !isFinite(ssr1) || !isFinite(ssr2) {
		return 0, core.NewInvalidParameterError("ssr", []float64{ssr1, ssr2}, "must be finite")
	}
	if ssr2 < 0 {
		return 0, core.NewInvalidParameterError("ssr2", ssr2, "must be non-negative")
	}
	if ssr1 < ssr2 {
		return 0, core.NewInvalidParameterError("ssr1", ssr1, "below ssr2; model pair is misordered")
	}
	if ssr2 == 0 {
		if ssr1 == 0 {
			return 0, core.NewInvalidParameterError("ssr", 0, "both models fit exactly; F statistic undefined")
		}
		// The richer model fits exactly: infinitely strong evidence against the simpler one.
		return math.Inf(1), nil
	}

	num := (ssr1 - ssr2) / float64(dof2-dof1)
	den := ssr2 / float64(nTotal-dof2)
	return num / den, nil
}

// Summary describes a sample for variance-based tests
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // sample standard deviation (n-1)
}

// StdErr returns the standard error of the mean
func (s Summary) StdErr() float64 {
	return s.StdDev / math.Sqrt(float64(s.N))
}

// SampleSummary computes n, mean and unbiased standard deviation.
// Fewer than two observations leave the variance undefined.
func SampleSummary(sample []float64) (Summary, error) {
	if len(sample) < 2 {
		return Summary{}, core.NewInsufficientDataError("sample", len(sample), 2)
	}
	for i, v := range sample {
		if !isFinite(v) {
			return Summary{}, core.NewInvalidParameterError("sample", i, "non-finite observation at index")
		}
	}

	mean, err := stats.Mean(sample)
	if err != nil {
		return Summary{}, core.NewInvalidParameterError("sample", len(sample), err.Error())
	}
	variance, err := stats.SampleVariance(sample)
	if err != nil {
		return Summary{}, core.NewInvalidParameterError("sample", len(sample), err.Error())
	}

	return Summary{
		N:      len(sample),
		Mean:   mean,
		StdDev: math.Sqrt(variance),
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
