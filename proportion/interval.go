package proportion

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// MinNormalCount is the fewest successes and failures a sample needs for
// the normal approximation to be trusted.
const MinNormalCount = 15

// IntervalMethod names how an interval was computed.
type IntervalMethod string

const (
	Wald   IntervalMethod = "wald"
	Wilson IntervalMethod = "wilson"
)

// Warning is a precision diagnostic: the sample is too small on one side for
// the normal approximation.
type Warning struct {
	Successes int
	Failures  int
	Threshold int
}

func (w Warning) String() string {
	return fmt.Sprintf("normal approximation unreliable: %d successes, %d failures (need at least %d of each)",
		w.Successes, w.Failures, w.Threshold)
}

// PrecisionWarning returns the warning for s, if any.
func PrecisionWarning(s Sample) (Warning, bool) {
	if s.Successes >= MinNormalCount && s.Failures() >= MinNormalCount {
		return Warning{}, false
	}
	return Warning{Successes: s.Successes, Failures: s.Failures(), Threshold: MinNormalCount}, true
}

// Interval is a confidence interval around a sample's conversion rate.
type Interval struct {
	Rate            float64
	Lower           float64
	Upper           float64
	ConfidenceLevel float64
	Method          IntervalMethod
	Warnings        []Warning
}

func (iv Interval) Width() float64 {
	return iv.Upper - iv.Lower
}

func (iv Interval) Contains(rate float64) bool {
	return rate >= iv.Lower && rate <= iv.Upper
}

// Overlaps reports whether the two intervals share any point.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Lower <= o.Upper && o.Lower <= iv.Upper
}

func WaldInterval(s Sample, level float64) (Interval, error) {
	return Default.WaldInterval(s, level)
}

func WilsonInterval(s Sample, level float64) (Interval, error) {
	return Default.WilsonInterval(s, level)
}

func (c Calculator) twoSidedZ(level float64) float64 {
	return c.dist.Quantile(1 - (1-level)/2)
}

func checkIntervalArgs(s Sample, level float64) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return checkOpenUnit("interval", "confidence level", level)
}

// WaldInterval is the normal-approximation interval rate ± z*se. It is
// symmetric around the rate and is not clamped to [0, 1]. Samples with fewer
// than MinNormalCount successes or failures get a Warning attached.
func (c Calculator) WaldInterval(s Sample, level float64) (Interval, error) {
	if err := checkIntervalArgs(s, level); err != nil {
		return Interval{}, err
	}
	z := c.twoSidedZ(level)
	rate := s.ConversionRate()
	margin := z * s.StandardError()
	iv := Interval{
		Rate:            rate,
		Lower:           rate - margin,
		Upper:           rate + margin,
		ConfidenceLevel: level,
		Method:          Wald,
	}
	if w, ok := PrecisionWarning(s); ok {
		log.Warn().Int("size", s.Size).Int("successes", s.Successes).
			Msg("wald-interval-small-sample")
		iv.Warnings = append(iv.Warnings, w)
	}
	return iv, nil
}

// WilsonInterval is the Wilson score interval. It behaves at the edges
// where the Wald interval does not, and always lies inside [0, 1].
func (c Calculator) WilsonInterval(s Sample, level float64) (Interval, error) {
	if err := checkIntervalArgs(s, level); err != nil {
		return Interval{}, err
	}
	z := c.twoSidedZ(level)
	n := float64(s.Size)
	p := s.ConversionRate()
	z2 := z * z

	denom := 1 + z2/n
	center := (p + z2/(2*n)) / denom
	margin := z * math.Sqrt(p*(1-p)/n+z2/(4*n*n)) / denom

	return Interval{
		Rate:            p,
		Lower:           math.Max(0, center-margin),
		Upper:           math.Min(1, center+margin),
		ConfidenceLevel: level,
		Method:          Wilson,
	}, nil
}
