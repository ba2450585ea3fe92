package stats

import (
	"math"
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Iterations(), len(c.scores))
	}
}

func TestMinMax(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	for _, v := range []float64{312, 290, 355, 301} {
		s.Push(v)
	}
	is.Equal(s.Min(), 290.0)
	is.Equal(s.Max(), 355.0)
	is.Equal(s.Last(), 301.0)
}

func TestStandardErrorEmpty(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	is.Equal(s.StandardError(), 0.0)
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(WithinTolerance(ZVal(0.95), 1.959964, 1e-5))
	is.True(WithinTolerance(ZVal(0.99), 2.575829, 1e-5))
	is.True(WithinTolerance(OneSidedZVal(0.05), 1.644854, 1e-5))
	is.True(WithinTolerance(StdNormal.Quantile(0.8), 0.841621, 1e-5))
}

func TestCDFQuantileRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, p := range []float64{0.01, 0.2, 0.5, 0.8, 0.975} {
		is.True(WithinTolerance(StdNormal.CDF(StdNormal.Quantile(p)), p, 1e-9))
	}
	is.True(math.Abs(StdNormal.CDF(0)-0.5) < 1e-12)
}
