package stats

import "gonum.org/v1/gonum/stat/distuv"

// Distribution is the slice of a continuous distribution the proportion
// calculators need: the cumulative distribution function and its inverse.
type Distribution interface {
	CDF(x float64) float64
	Quantile(p float64) float64
}

// StdNormal is the standard normal distribution (mean 0, stdev 1).
var StdNormal Distribution = distuv.UnitNormal

// ZVal returns the two-tailed Z-value associated with a specific confidence level.
// The level is a fraction, e.g. 0.95.
func ZVal(confidenceLevel float64) float64 {
	area := (1 + confidenceLevel) / 2
	return StdNormal.Quantile(area)
}

// OneSidedZVal returns the Z-value that leaves alpha in the upper tail.
func OneSidedZVal(alpha float64) float64 {
	return StdNormal.Quantile(1 - alpha)
}
