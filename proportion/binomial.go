package proportion

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Point is one value of a probability mass function.
type Point struct {
	Successes int
	Prob      float64
}

func binomialOf(s Sample, src rand.Source) distuv.Binomial {
	return distuv.Binomial{N: float64(s.Size), P: s.ConversionRate(), Src: src}
}

// BinomialPMF evaluates the binomial distribution with the sample's size and
// conversion rate at lo, lo+step, ... up to hi inclusive.
func BinomialPMF(s Sample, lo, hi, step int) ([]Point, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if step <= 0 {
		return nil, domainErrorf("pmf", "step must be positive, got %d", step)
	}
	if lo < 0 || hi < lo {
		return nil, domainErrorf("pmf", "invalid range [%d, %d]", lo, hi)
	}
	b := binomialOf(s, nil)
	pts := make([]Point, 0, (hi-lo)/step+1)
	for k := lo; k <= hi; k += step {
		pts = append(pts, Point{Successes: k, Prob: binomialProb(s, b, k)})
	}
	return pts, nil
}

// binomialProb is b.Prob(k), except that a sample which converted none or
// all of its trials is a point mass at 0 or Size.
func binomialProb(s Sample, b distuv.Binomial, k int) float64 {
	if s.Successes != 0 && s.Successes != s.Size {
		return b.Prob(float64(k))
	}
	if k == s.Successes {
		return 1
	}
	return 0
}

// PMFRange is the span of success counts within sds standard deviations of
// the expected count, clamped to [0, size].
func PMFRange(s Sample, sds float64) (lo, hi int) {
	b := binomialOf(s, nil)
	mean, sd := b.Mean(), b.StdDev()
	lo = max(0, int(mean-sds*sd))
	hi = min(s.Size, int(mean+sds*sd+1))
	return lo, hi
}

// SimulateConversions draws the number of converted users for draws
// independent repetitions of the sample's experiment.
func SimulateConversions(s Sample, draws int, src rand.Source) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if draws <= 0 {
		return nil, domainErrorf("simulate", "draws must be positive, got %d", draws)
	}
	out := make([]float64, draws)
	if s.Successes == 0 || s.Successes == s.Size {
		for i := range out {
			out[i] = float64(s.Successes)
		}
		return out, nil
	}
	b := binomialOf(s, src)
	for i := range out {
		out[i] = b.Rand()
	}
	return out, nil
}
