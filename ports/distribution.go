package ports

import (
	"hypotest/domain/stats"
)

// DistributionProvider evaluates reference probability distributions.
// Implementations return core.ErrDistribution when the reference cannot be
// evaluated (e.g. non-positive degrees of freedom).
type DistributionProvider interface {
	CDF(ref stats.Reference, x float64) (float64, error)
	PDF(ref stats.Reference, x float64) (float64, error)
	Quantile(ref stats.Reference, p float64) (float64, error)
}
