// Package report evaluates an experiment and renders the result as text.
package report

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/text/language"

	"github.com/domino14/splittest/experiment"
	"github.com/domino14/splittest/proportion"
	"github.com/domino14/splittest/stats"
)

// pmfSpread is how many standard deviations around the expected count the
// distribution overlap is summed over.
const pmfSpread = 6

type Options struct {
	ConfidenceLevel float64
	Locale          language.Tag
	HistogramBins   int
	// SimulationDraws of 0 skips the simulation.
	SimulationDraws int
	Seed            uint64
	Width           int
}

func DefaultOptions() Options {
	return Options{
		ConfidenceLevel: 0.95,
		Locale:          language.English,
		HistogramBins:   15,
		SimulationDraws: 10000,
		Seed:            42,
		Width:           60,
	}
}

// PlanResult is the sizing half of the report.
type PlanResult struct {
	Plan         proportion.Plan
	ZAlpha       float64
	ZPower       float64
	RequiredSize int
	LehrSize     int
	Sufficient   bool
	// AchievedPower is the power reached by the smaller collected group.
	AchievedPower float64
}

type GroupResult struct {
	Name     string
	Sample   proportion.Sample
	Wald     proportion.Interval
	Wilson   proportion.Interval
	Expected float64
	ExpSD    float64
	// Simulated is nil when the simulation is disabled.
	Simulated *stats.Statistic
	Histogram histogram.Histogram
}

func (g GroupResult) Warnings() []proportion.Warning {
	return g.Wald.Warnings
}

type Result struct {
	Name         string
	Options      Options
	Plan         PlanResult
	Control      GroupResult
	Treatment    GroupResult
	Significance proportion.SignificanceResult
	// Overlap is the probability mass the two groups' binomial
	// distributions share.
	Overlap float64
}

func (r *Result) Groups() []GroupResult {
	return []GroupResult{r.Control, r.Treatment}
}

// TotalClients is the number of users across both groups.
func (r *Result) TotalClients() int {
	return lo.SumBy(r.Groups(), func(g GroupResult) int { return g.Sample.Size })
}

// Significant reports whether the treatment effect is significant at the
// plan's alpha.
func (r *Result) Significant() bool {
	return r.Significance.Significant(r.Plan.Plan.Alpha)
}

// Evaluate runs every calculation in the report for the experiment.
func Evaluate(e *experiment.Experiment, opts Options) (*Result, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if opts.HistogramBins <= 0 {
		return nil, fmt.Errorf("histogram bins must be positive, got %d", opts.HistogramBins)
	}
	plan := e.ProportionPlan()
	pr, err := evaluatePlan(plan, e.Control.Sample(), e.Treatment.Sample())
	if err != nil {
		return nil, err
	}

	src := rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)
	groups, err := evaluateGroups([]experiment.GroupSpec{e.Control, e.Treatment}, opts, src)
	if err != nil {
		return nil, err
	}

	sig, err := proportion.TwoProportionZTest(e.Control.Sample(), e.Treatment.Sample(), plan.Alternative)
	if err != nil {
		return nil, fmt.Errorf("significance test: %w", err)
	}
	overlap, err := distributionOverlap(e.Control.Sample(), e.Treatment.Sample())
	if err != nil {
		return nil, err
	}

	res := &Result{
		Name:         e.Name,
		Options:      opts,
		Plan:         pr,
		Control:      groups[0],
		Treatment:    groups[1],
		Significance: sig,
		Overlap:      overlap,
	}
	log.Debug().Str("experiment", e.Name).Int("required", pr.RequiredSize).
		Float64("z", sig.ZStatistic).Float64("p", sig.PValue).
		Bool("significant", res.Significant()).Msg("evaluated-experiment")
	return res, nil
}

func evaluatePlan(plan proportion.Plan, control, treatment proportion.Sample) (PlanResult, error) {
	n, err := plan.RequiredSampleSize()
	if err != nil {
		return PlanResult{}, fmt.Errorf("sample size: %w", err)
	}
	lehr, err := plan.LehrSampleSize()
	if err != nil {
		return PlanResult{}, fmt.Errorf("lehr estimate: %w", err)
	}
	sufficient, err := plan.Sufficient(control, treatment)
	if err != nil {
		return PlanResult{}, err
	}
	power, err := plan.AchievedPower(min(control.Size, treatment.Size))
	if err != nil {
		return PlanResult{}, err
	}
	zAlpha := stats.OneSidedZVal(plan.Alpha)
	if plan.Alternative == proportion.TwoSided {
		zAlpha = stats.OneSidedZVal(plan.Alpha / 2)
	}
	return PlanResult{
		Plan:          plan,
		ZAlpha:        zAlpha,
		ZPower:        stats.StdNormal.Quantile(plan.Power),
		RequiredSize:  n,
		LehrSize:      lehr,
		Sufficient:    sufficient,
		AchievedPower: power,
	}, nil
}

func evaluateGroups(specs []experiment.GroupSpec, opts Options, src rand.Source) ([]GroupResult, error) {
	out := make([]GroupResult, 0, len(specs))
	for _, g := range specs {
		s := g.Sample()
		wald, err := proportion.WaldInterval(s, opts.ConfidenceLevel)
		if err != nil {
			return nil, fmt.Errorf("%s interval: %w", g.Name, err)
		}
		wilson, err := proportion.WilsonInterval(s, opts.ConfidenceLevel)
		if err != nil {
			return nil, fmt.Errorf("%s interval: %w", g.Name, err)
		}
		p := s.ConversionRate()
		gr := GroupResult{
			Name:     g.Name,
			Sample:   s,
			Wald:     wald,
			Wilson:   wilson,
			Expected: float64(s.Size) * p,
			ExpSD:    math.Sqrt(float64(s.Size) * p * (1 - p)),
		}
		if opts.SimulationDraws > 0 {
			draws, err := proportion.SimulateConversions(s, opts.SimulationDraws, src)
			if err != nil {
				return nil, err
			}
			st := &stats.Statistic{}
			for _, d := range draws {
				st.Push(d)
			}
			gr.Simulated = st
			// Hist needs a non-empty range to size its buckets.
			if st.Max() > st.Min() {
				gr.Histogram = histogram.Hist(opts.HistogramBins, draws)
			}
		}
		out = append(out, gr)
	}
	return out, nil
}

// distributionOverlap sums min(P_control(k), P_treatment(k)) over the
// success counts where either distribution has noticeable mass.
func distributionOverlap(control, treatment proportion.Sample) (float64, error) {
	clo, chi := proportion.PMFRange(control, pmfSpread)
	tlo, thi := proportion.PMFRange(treatment, pmfSpread)
	from, to := min(clo, tlo), max(chi, thi)
	cp, err := proportion.BinomialPMF(control, from, to, 1)
	if err != nil {
		return 0, err
	}
	tp, err := proportion.BinomialPMF(treatment, from, to, 1)
	if err != nil {
		return 0, err
	}
	return lo.SumBy(lo.Zip2(cp, tp), func(t lo.Tuple2[proportion.Point, proportion.Point]) float64 {
		return min(t.A.Prob, t.B.Prob)
	}), nil
}
