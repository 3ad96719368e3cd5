package hypothesis

import (
	"errors"
	"fmt"
	"math"

	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/ports"
)

// Evaluator turns a test statistic into a p-value and a decision.
// It holds no mutable state; one Evaluator may serve concurrent callers.
type Evaluator struct {
	dist ports.DistributionProvider
}

// NewEvaluator creates an evaluator backed by the given distribution provider
func NewEvaluator(dist ports.DistributionProvider) *Evaluator {
	return &Evaluator{dist: dist}
}

// Evaluate maps statistic through the reference distribution of cfg.
//
// Normal and t statistics use the requested tail. Chi-squared and F tests are
// upper-tailed whatever the tail mode, and two-sided is refused for them.
// The null hypothesis is rejected only when p < alpha.
func (e *Evaluator) Evaluate(statistic float64, cfg stats.TestConfig) (stats.TestResult, error) {
	if err := cfg.Validate(); err != nil {
		return stats.TestResult{}, err
	}
	if math.IsNaN(statistic) {
		return stats.TestResult{}, core.NewInvalidParameterError("statistic", statistic, "must be a number")
	}

	pValue, err := e.pValue(statistic, cfg)
	if err != nil {
		return stats.TestResult{}, err
	}

	decision := stats.DecisionRetain
	if pValue < cfg.Alpha {
		decision = stats.DecisionReject
	}

	return stats.TestResult{
		Statistic: statistic,
		PValue:    pValue,
		Decision:  decision,
	}, nil
}

func (e *Evaluator) pValue(s float64, cfg stats.TestConfig) (float64, error) {
	ref := cfg.Reference()

	if cfg.Kind.UpperTailOnly() {
		return e.upper(ref, s)
	}

	switch cfg.Tail {
	case stats.TailTwoSided:
		abs := math.Abs(s)
		lower, err := e.cdf(ref, -abs)
		if err != nil {
			return 0, err
		}
		upper, err := e.upper(ref, abs)
		if err != nil {
			return 0, err
		}
		// lower+upper can round one ulp above 1 near s = 0
		return math.Min(lower+upper, 1), nil
	case stats.TailUpper:
		return e.upper(ref, s)
	case stats.TailLower:
		return e.cdf(ref, s)
	default:
		return 0, core.NewInvalidParameterError("tail", cfg.Tail, "unknown tail mode")
	}
}

func (e *Evaluator) upper(ref stats.Reference, s float64) (float64, error) {
	f, err := e.cdf(ref, s)
	if err != nil {
		return 0, err
	}
	return 1 - f, nil
}

func (e *Evaluator) cdf(ref stats.Reference, s float64) (float64, error) {
	f, err := e.dist.CDF(ref, s)
	if err != nil {
		return 0, wrapDistributionError(ref, err)
	}
	if math.IsNaN(f) || f < 0 || f > 1 {
		return 0, core.NewDistributionError(string(ref.Family), fmt.Sprintf("CDF(%g) = %g outside [0,1]", s, f))
	}
	return f, nil
}

// CriticalValues returns the statistic values at which the decision flips:
// the alpha/2 and 1-alpha/2 quantiles for a two-sided test, otherwise the
// single alpha (lower) or 1-alpha (upper) quantile.
func (e *Evaluator) CriticalValues(cfg stats.TestConfig) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ref := cfg.Reference()

	var probs []float64
	switch {
	case cfg.Kind.UpperTailOnly() || cfg.Tail == stats.TailUpper:
		probs = []float64{1 - cfg.Alpha}
	case cfg.Tail == stats.TailLower:
		probs = []float64{cfg.Alpha}
	default:
		probs = []float64{cfg.Alpha / 2, 1 - cfg.Alpha/2}
	}

	values := make([]float64, 0, len(probs))
	for _, p := range probs {
		q, err := e.dist.Quantile(ref, p)
		if err != nil {
			return nil, wrapDistributionError(ref, err)
		}
		values = append(values, q)
	}
	return values, nil
}

// wrapDistributionError keeps provider failures inside the taxonomy
func wrapDistributionError(ref stats.Reference, err error) error {
	if errors.Is(err, core.ErrDistribution) {
		return err
	}
	return core.NewDistributionError(ref.String(), err.Error())
}
