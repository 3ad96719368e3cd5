package hypothesis

import (
	"fmt"

	"hypotest/domain/core"
	"hypotest/domain/stats"
)

// Comparator selects the smallest sufficient model from a nested family by
// running F-tests on adjacent candidates.
type Comparator struct {
	evaluator *Evaluator
}

// NewComparator creates a comparator that evaluates F statistics with evaluator
func NewComparator(evaluator *Evaluator) *Comparator {
	return &Comparator{evaluator: evaluator}
}

// Compare walks candidates, ordered by strictly increasing parameter count,
// pair by pair. The first pair whose F-test retains the null selects the
// simpler model. If every pair rejects, the richest model is selected and the
// result carries core.ErrNoSufficientModel as an advisory; that outcome is
// not returned as an error. A pair of exact fits (both SSRs zero) retains
// the simpler model.
func (c *Comparator) Compare(candidates []stats.ModelFit, nTotal int, alpha float64) (stats.ComparisonResult, error) {
	if len(candidates) < 2 {
		return stats.ComparisonResult{}, core.NewInsufficientDataError("candidates", len(candidates), 2)
	}
	for i, m := range candidates {
		if m.ParamCount < 1 {
			return stats.ComparisonResult{}, core.NewInvalidParameterError(fmt.Sprintf("candidates[%d].ParamCount", i), m.ParamCount, "must be at least 1")
		}
		if i > 0 && m.ParamCount <= candidates[i-1].ParamCount {
			return stats.ComparisonResult{}, core.NewInvalidParameterError(fmt.Sprintf("candidates[%d].ParamCount", i), m.ParamCount, "parameter counts must strictly increase")
		}
	}

	steps := make([]stats.ComparisonStep, 0, len(candidates)-1)
	for i := 0; i+1 < len(candidates); i++ {
		simpler, richer := candidates[i], candidates[i+1]

		step, err := c.step(i, simpler, richer, nTotal, alpha)
		if err != nil {
			return stats.ComparisonResult{}, fmt.Errorf("comparing candidates %d and %d: %w", i, i+1, err)
		}
		steps = append(steps, step)

		if !step.Result.Rejected() {
			return stats.ComparisonResult{
				Selected:      simpler,
				SelectedIndex: i,
				Steps:         steps,
			}, nil
		}
	}

	last := len(candidates) - 1
	return stats.ComparisonResult{
		Selected:      candidates[last],
		SelectedIndex: last,
		Steps:         steps,
		Advisory:      core.ErrNoSufficientModel,
	}, nil
}

func (c *Comparator) step(i int, simpler, richer stats.ModelFit, nTotal int, alpha float64) (stats.ComparisonStep, error) {
	f, err := nestedF(simpler, richer, nTotal)
	if err != nil {
		return stats.ComparisonStep{}, err
	}

	cfg := FTestConfig(simpler.ParamCount, richer.ParamCount, nTotal, alpha)
	result, err := c.evaluator.Evaluate(f, cfg)
	if err != nil {
		return stats.ComparisonStep{}, err
	}

	return stats.ComparisonStep{
		Simpler:    i,
		Richer:     i + 1,
		FStatistic: f,
		Config:     cfg,
		Result:     result,
	}, nil
}

// nestedF is FStatistic, except that two exact fits give F = 0: the richer
// model explains nothing the simpler one leaves over, so the simpler one is
// retained.
func nestedF(simpler, richer stats.ModelFit, nTotal int) (float64, error) {
	if simpler.SSR == 0 && richer.SSR == 0 {
		if nTotal <= richer.ParamCount {
			return 0, core.NewInvalidParameterError("nTotal", nTotal, "must exceed dof2")
		}
		return 0, nil
	}
	return FStatistic(simpler.SSR, richer.SSR, simpler.ParamCount, richer.ParamCount, nTotal)
}

// FTestConfig builds the upper-tailed F configuration for two nested models
// with k1 < k2 parameters fitted to nTotal points.
func FTestConfig(k1, k2, nTotal int, alpha float64) stats.TestConfig {
	return stats.TestConfig{
		Kind:  stats.TestF,
		Tail:  stats.TailUpper,
		Alpha: alpha,
		DoF1:  float64(k2 - k1),
		DoF2:  float64(nTotal - k2),
	}
}
