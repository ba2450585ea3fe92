package proportion

import "math"

// SignificanceResult is the outcome of a two-proportion z-test.
type SignificanceResult struct {
	ZStatistic  float64
	PValue      float64
	PooledRate  float64
	Difference  float64
	Alternative Alternative
}

// Significant reports whether the null hypothesis is rejected at alpha.
func (r SignificanceResult) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// ConfidenceLevel is 1 - PValue, the level at which the result would just
// become significant.
func (r SignificanceResult) ConfidenceLevel() float64 {
	return 1 - r.PValue
}

func TwoProportionZTest(control, treatment Sample, alt Alternative) (SignificanceResult, error) {
	return Default.TwoProportionZTest(control, treatment, alt)
}

// TwoProportionZTest compares the conversion rates of two samples under the
// null hypothesis that they share the pooled rate. With Greater the p-value
// is 1 - Phi(z), the probability of a z at least this large when the
// treatment does not convert better.
func (c Calculator) TwoProportionZTest(control, treatment Sample, alt Alternative) (SignificanceResult, error) {
	if err := control.Validate(); err != nil {
		return SignificanceResult{}, err
	}
	if err := treatment.Validate(); err != nil {
		return SignificanceResult{}, err
	}
	pooled := float64(control.Successes+treatment.Successes) /
		float64(control.Size+treatment.Size)
	if pooled == 0 || pooled == 1 {
		return SignificanceResult{}, domainErrorf("z-test",
			"pooled rate is %v, the samples have no variance", pooled)
	}
	diff := treatment.ConversionRate() - control.ConversionRate()
	se := math.Sqrt(pooled*(1-pooled)) *
		math.Sqrt(1/float64(control.Size)+1/float64(treatment.Size))
	z := diff / se

	var p float64
	switch alt {
	case Greater:
		p = 1 - c.dist.CDF(z)
	case Less:
		p = c.dist.CDF(z)
	case TwoSided:
		p = 2 * (1 - c.dist.CDF(math.Abs(z)))
	default:
		return SignificanceResult{}, domainErrorf("z-test", "unknown alternative %v", alt)
	}
	return SignificanceResult{
		ZStatistic:  z,
		PValue:      p,
		PooledRate:  pooled,
		Difference:  diff,
		Alternative: alt,
	}, nil
}
