package proportion

import "math"

// Sample is a binomial sample: Size trials, Successes of them converted.
type Sample struct {
	Size      int
	Successes int
}

// NewSample validates and returns a Sample.
func NewSample(size, successes int) (Sample, error) {
	s := Sample{Size: size, Successes: successes}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

func (s Sample) Validate() error {
	switch {
	case s.Size <= 0:
		return domainErrorf("sample", "size must be positive, got %d", s.Size)
	case s.Successes < 0:
		return domainErrorf("sample", "successes must be non-negative, got %d", s.Successes)
	case s.Successes > s.Size:
		return domainErrorf("sample", "successes (%d) exceed size (%d)", s.Successes, s.Size)
	}
	return nil
}

func (s Sample) Failures() int {
	return s.Size - s.Successes
}

// ConversionRate is successes/size.
func (s Sample) ConversionRate() float64 {
	return float64(s.Successes) / float64(s.Size)
}

// StandardError is the standard error of the conversion rate,
// sqrt(p(1-p)/n). It is 0 when every trial or no trial converted.
func (s Sample) StandardError() float64 {
	p := s.ConversionRate()
	return math.Sqrt(p * (1 - p) / float64(s.Size))
}

// StandardError computes the standard error for a proportion directly from a
// size and a success count.
func StandardError(size, successes int) float64 {
	return Sample{Size: size, Successes: successes}.StandardError()
}
