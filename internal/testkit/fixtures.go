package testkit

import (
	"math"

	"hypotest/domain/stats"
)

// ZScenario is a Z-test with known process sigma: one measurement of
// 1054.7 against a nominal 1060 with sigma 3.
var ZScenario = struct {
	Observed  float64
	Mean      float64
	Sigma     float64
	Statistic float64 // |Z|
	PValue    float64 // two-sided
}{
	Observed:  1054.7,
	Mean:      1060,
	Sigma:     3,
	Statistic: 1.766667,
	PValue:    0.0772841,
}

// TScenario is a one-sample t-test of five readings against 1060
var TScenario = struct {
	Sample     []float64
	Mu         float64
	SampleMean float64
	SampleStd  float64
	Statistic  float64
	PValue     float64 // two-sided, 4 degrees of freedom
}{
	Sample:     []float64{1035, 1050, 1020, 1055, 1046},
	Mu:         1060,
	SampleMean: 1041.2,
	SampleStd:  13.953494,
	Statistic:  -3.012728,
	PValue:     0.0394443,
}

// LinearPoints lies exactly on y = 2x + 1
func LinearPoints() (x, y []float64) {
	x = []float64{0, 1, 2, 3, 4, 5, 6, 7}
	y = make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}
	return x, y
}

// NoisyQuadraticPoints follows y = 0.5x² - x + 3 with a small fixed jitter,
// so a quadratic fits far better than a line but a cubic adds nothing.
func NoisyQuadraticPoints() (x, y []float64) {
	jitter := []float64{0.05, -0.04, 0.03, -0.06, 0.02, 0.04, -0.03, 0.01, -0.05, 0.03, -0.02, 0.04}
	x = make([]float64, len(jitter))
	y = make([]float64, len(jitter))
	for i := range jitter {
		v := float64(i)
		x[i] = v
		y[i] = 0.5*v*v - v + 3 + jitter[i]
	}
	return x, y
}

// NoisyExponentialPoints follows y = 2e^(0.7x) on [0, 4] with an alternating
// ±0.05 jitter, so an offset term adds nothing to the exponential.
func NoisyExponentialPoints() (x, y []float64) {
	const n = 17
	x = make([]float64, n)
	y = make([]float64, n)
	for i := range x {
		v := 0.25 * float64(i)
		jitter := 0.05
		if i%2 == 1 {
			jitter = -jitter
		}
		x[i] = v
		y[i] = 2*math.Exp(0.7*v) + jitter
	}
	return x, y
}

// Record builds a stored evaluation with the given kind and decision
func Record(label string, kind stats.TestKind, decision stats.Decision) stats.Record {
	cfg := stats.TestConfig{Kind: kind, Tail: stats.TailTwoSided, Alpha: 0.05}
	if kind.UpperTailOnly() {
		cfg.Tail = stats.TailUpper
		cfg.DoF1 = 4
		if kind == stats.TestF {
			cfg.DoF1, cfg.DoF2 = 1, 18
		}
	}
	pValue := 0.5
	if decision == stats.DecisionReject {
		pValue = 0.01
	}
	return stats.NewRecord(label, cfg, stats.TestResult{Statistic: 1.5, PValue: pValue, Decision: decision}, nil)
}
