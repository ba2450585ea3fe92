package proportion

import "github.com/domino14/splittest/stats"

// Calculator runs the proportion calculations against a normal distribution.
// The zero value is not usable; use Default or NewCalculator.
type Calculator struct {
	dist stats.Distribution
}

func NewCalculator(dist stats.Distribution) Calculator {
	return Calculator{dist: dist}
}

// Default uses the standard normal distribution.
var Default = NewCalculator(stats.StdNormal)

// criticalZ is the Z-value for the given error bound under the alternative.
func (c Calculator) criticalZ(alpha float64, alt Alternative) float64 {
	if alt == TwoSided {
		return c.dist.Quantile(1 - alpha/2)
	}
	return c.dist.Quantile(1 - alpha)
}
