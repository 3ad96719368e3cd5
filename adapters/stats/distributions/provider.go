package distributions

import (
	"math"

	"hypotest/domain/core"
	"hypotest/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// GonumProvider evaluates reference distributions with gonum's distuv package.
// It is stateless and safe for concurrent use.
type GonumProvider struct{}

// NewGonumProvider creates a new distribution provider
func NewGonumProvider() *GonumProvider {
	return &GonumProvider{}
}

// distribution is the subset of distuv behaviour the provider relies on
type distribution interface {
	CDF(x float64) float64
	Prob(x float64) float64
	Quantile(p float64) float64
}

// CDF returns P(X <= x) for the reference distribution
func (p *GonumProvider) CDF(ref stats.Reference, x float64) (float64, error) {
	dist, err := p.resolve(ref)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(x) {
		return 0, core.NewDistributionError(string(ref.Family), "cannot evaluate CDF at NaN")
	}

	// distuv feeds the argument straight into the incomplete gamma/beta
	// functions, which are undefined outside the support.
	switch {
	case math.IsInf(x, 1):
		return 1, nil
	case math.IsInf(x, -1):
		return 0, nil
	case !ref.Family.Symmetric() && x <= 0:
		return 0, nil
	}

	return clamp01(dist.CDF(x)), nil
}

// PDF returns the density of the reference distribution at x
func (p *GonumProvider) PDF(ref stats.Reference, x float64) (float64, error) {
	dist, err := p.resolve(ref)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(x) {
		return 0, core.NewDistributionError(string(ref.Family), "cannot evaluate PDF at NaN")
	}
	if math.IsInf(x, 0) || (!ref.Family.Symmetric() && x < 0) {
		return 0, nil
	}
	if ref.Family == stats.FamilyF && x == 0 {
		return 0, nil
	}
	return dist.Prob(x), nil
}

// Quantile returns the inverse CDF of the reference distribution at probability q
func (p *GonumProvider) Quantile(ref stats.Reference, q float64) (float64, error) {
	dist, err := p.resolve(ref)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(q) || q < 0 || q > 1 {
		return 0, core.NewDistributionError(string(ref.Family), "quantile probability must be in [0,1]")
	}
	return dist.Quantile(q), nil
}

// resolve validates the reference parameters and builds the gonum distribution
func (p *GonumProvider) resolve(ref stats.Reference) (distribution, error) {
	switch ref.Family {
	case stats.FamilyNormal:
		return distuv.UnitNormal, nil
	case stats.FamilyStudentT:
		if !positiveFinite(ref.DoF1) {
			return nil, core.NewDistributionError(string(ref.Family), "degrees of freedom must be positive")
		}
		return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: ref.DoF1}, nil
	case stats.FamilyChiSquared:
		if !positiveFinite(ref.DoF1) {
			return nil, core.NewDistributionError(string(ref.Family), "degrees of freedom must be positive")
		}
		return distuv.ChiSquared{K: ref.DoF1}, nil
	case stats.FamilyF:
		if !positiveFinite(ref.DoF1) || !positiveFinite(ref.DoF2) {
			return nil, core.NewDistributionError(string(ref.Family), "both degrees of freedom must be positive")
		}
		return distuv.F{D1: ref.DoF1, D2: ref.DoF2}, nil
	default:
		return nil, core.NewDistributionError(string(ref.Family), "unknown distribution family")
	}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// clamp01 absorbs rounding in the incomplete beta/gamma series
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
