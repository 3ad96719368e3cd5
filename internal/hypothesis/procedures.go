package hypothesis

import (
	"math"

	"hypotest/domain/core"
	"hypotest/domain/stats"
)

// Outcome pairs the configuration a procedure derived with its result
type Outcome struct {
	Config  stats.TestConfig `json:"config"`
	Result  stats.TestResult `json:"result"`
	Summary *Summary         `json:"summary,omitempty"`
}

// Procedures runs complete tests: statistic, degrees of freedom, evaluation.
type Procedures struct {
	evaluator *Evaluator
}

// NewProcedures creates the test procedures on top of an evaluator
func NewProcedures(evaluator *Evaluator) *Procedures {
	return &Procedures{evaluator: evaluator}
}

// Evaluator exposes the underlying evaluator
func (p *Procedures) Evaluator() *Evaluator {
	return p.evaluator
}

// ZTest compares a sample mean against mu when the standard error sigmaMu is known
func (p *Procedures) ZTest(sampleMean, mu, sigmaMu float64, tail stats.TailMode, alpha float64) (Outcome, error) {
	z, err := ZScore(sampleMean, mu, sigmaMu)
	if err != nil {
		return Outcome{}, err
	}
	return p.run(z, stats.TestConfig{Kind: stats.TestZ, Tail: tail, Alpha: alpha}, nil)
}

// ZTestSample runs a Z-test on raw observations with known population sigma
func (p *Procedures) ZTestSample(sample []float64, mu, sigma float64, tail stats.TailMode, alpha float64) (Outcome, error) {
	if len(sample) == 0 {
		return Outcome{}, core.NewInsufficientDataError("sample", 0, 1)
	}
	if !(sigma > 0) {
		return Outcome{}, core.NewInvalidParameterError("sigma", sigma, "must be positive")
	}

	var sum float64
	for i, v := range sample {
		if !isFinite(v) {
			return Outcome{}, core.NewInvalidParameterError("sample", i, "non-finite observation at index")
		}
		sum += v
	}
	n := float64(len(sample))
	mean := sum / n

	out, err := p.ZTest(mean, mu, sigma/math.Sqrt(n), tail, alpha)
	if err != nil {
		return Outcome{}, err
	}
	out.Summary = &Summary{N: len(sample), Mean: mean, StdDev: sigma}
	return out, nil
}

// TTest runs a one-sample Student t-test with n-1 degrees of freedom
func (p *Procedures) TTest(sample []float64, mu float64, tail stats.TailMode, alpha float64) (Outcome, error) {
	summary, err := SampleSummary(sample)
	if err != nil {
		return Outcome{}, err
	}
	t, err := tScore(summary, mu)
	if err != nil {
		return Outcome{}, err
	}

	cfg := stats.TestConfig{
		Kind:  stats.TestT,
		Tail:  tail,
		Alpha: alpha,
		DoF1:  float64(summary.N - 1),
	}
	return p.run(t, cfg, &summary)
}

// ChiSquareTest runs a chi-squared goodness-of-fit test. Degrees of freedom are
// n-1 even when expected values came from a fitted model. The test is
// upper-tailed: lower is evaluated as upper and two-sided is refused.
func (p *Procedures) ChiSquareTest(observed, expected, sigma []float64, tail stats.TailMode, alpha float64) (Outcome, error) {
	if err := upperTailOnly(stats.TestChi2, tail, alpha); err != nil {
		return Outcome{}, err
	}
	chi2, err := ChiSquare(observed, expected, sigma)
	if err != nil {
		return Outcome{}, err
	}

	cfg := stats.TestConfig{
		Kind:  stats.TestChi2,
		Tail:  stats.TailUpper,
		Alpha: alpha,
		DoF1:  float64(len(observed) - 1),
	}
	return p.run(chi2, cfg, nil)
}

// FTest checks whether richer explains significantly more variance than
// simpler. Like ChiSquareTest it accepts upper or lower and refuses two-sided.
func (p *Procedures) FTest(simpler, richer stats.ModelFit, nTotal int, tail stats.TailMode, alpha float64) (Outcome, error) {
	if err := upperTailOnly(stats.TestF, tail, alpha); err != nil {
		return Outcome{}, err
	}
	f, err := FStatistic(simpler.SSR, richer.SSR, simpler.ParamCount, richer.ParamCount, nTotal)
	if err != nil {
		return Outcome{}, err
	}
	return p.run(f, FTestConfig(simpler.ParamCount, richer.ParamCount, nTotal, alpha), nil)
}

// upperTailOnly validates the requested tail of a chi-squared or F test
// before it is normalised to upper
func upperTailOnly(kind stats.TestKind, tail stats.TailMode, alpha float64) error {
	return stats.TestConfig{Kind: kind, Tail: tail, Alpha: alpha}.Validate()
}

func (p *Procedures) run(statistic float64, cfg stats.TestConfig, summary *Summary) (Outcome, error) {
	result, err := p.evaluator.Evaluate(statistic, cfg)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Config: cfg, Result: result, Summary: summary}, nil
}
