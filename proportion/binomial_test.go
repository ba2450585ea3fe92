package proportion

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/splittest/stats"
)

func TestBinomialPMF(t *testing.T) {
	is := is.New(t)
	s := Sample{8847, 347}
	pts, err := BinomialPMF(s, 200, 450, 2)
	is.NoErr(err)
	is.Equal(len(pts), 126)
	is.Equal(pts[0].Successes, 200)
	is.Equal(pts[len(pts)-1].Successes, 450)

	total := 0.0
	best := pts[0]
	for _, p := range pts {
		total += p.Prob
		if p.Prob > best.Prob {
			best = p
		}
	}
	// every other count is sampled, so the mass is about half.
	is.True(stats.WithinTolerance(total, 0.5, 0.01))
	is.True(best.Successes >= 344 && best.Successes <= 350)
}

func TestBinomialPMFPointMass(t *testing.T) {
	is := is.New(t)
	type tc struct {
		s      Sample
		lo, hi int
		mass   int
	}
	for _, c := range []tc{
		{Sample{200, 0}, 0, 3, 0},
		{Sample{200, 200}, 197, 200, 200},
	} {
		pts, err := BinomialPMF(c.s, c.lo, c.hi, 1)
		is.NoErr(err)
		is.Equal(len(pts), 4)
		for _, p := range pts {
			is.True(!math.IsNaN(p.Prob))
			if p.Successes == c.mass {
				is.Equal(p.Prob, 1.0)
			} else {
				is.Equal(p.Prob, 0.0)
			}
		}
	}
}

func TestBinomialPMFDomain(t *testing.T) {
	is := is.New(t)
	_, err := BinomialPMF(Sample{100, 5}, 0, 10, 0)
	is.True(errors.Is(err, ErrDomain))
	_, err = BinomialPMF(Sample{100, 5}, 10, 0, 1)
	is.True(errors.Is(err, ErrDomain))
}

func TestPMFRange(t *testing.T) {
	is := is.New(t)
	lo, hi := PMFRange(Sample{8847, 347}, 4)
	is.True(lo > 250 && lo < 347)
	is.True(hi > 347 && hi < 450)

	lo, hi = PMFRange(Sample{10, 0}, 4)
	is.Equal(lo, 0)
	is.True(hi <= 10)
}

func TestSimulateConversions(t *testing.T) {
	is := is.New(t)
	s := Sample{8732, 293}
	draws, err := SimulateConversions(s, 5000, rand.NewPCG(42, 1024))
	is.NoErr(err)
	is.Equal(len(draws), 5000)

	st := &stats.Statistic{}
	for _, d := range draws {
		st.Push(d)
	}
	// mean n*p = 293, stdev sqrt(n*p*(1-p)) ~ 16.9
	is.True(stats.WithinTolerance(st.Mean(), 293, 2))
	is.True(stats.WithinTolerance(st.Stdev(), 16.9, 1.5))

	again, err := SimulateConversions(s, 5000, rand.NewPCG(42, 1024))
	is.NoErr(err)
	is.Equal(draws[17], again[17])

	flat, err := SimulateConversions(Sample{200, 200}, 10, rand.NewPCG(1, 2))
	is.NoErr(err)
	for _, d := range flat {
		is.Equal(d, 200.0)
	}

	_, err = SimulateConversions(s, 0, nil)
	is.True(errors.Is(err, ErrDomain))
}
