package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"golang.org/x/text/message"

	"github.com/domino14/splittest/proportion"
)

// Render writes the full text report for r to w.
func Render(w io.Writer, r *Result) error {
	p := message.NewPrinter(r.Options.Locale)
	sections := []func(io.Writer, *message.Printer, *Result) error{
		renderSummary,
		renderPlan,
		renderIntervals,
		renderSignificance,
		renderDistribution,
	}
	p.Fprintf(w, "# A/B test report: %s\n\n", r.Name)
	for _, s := range sections {
		if err := s(w, p, r); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func pct(p *message.Printer, v float64) string {
	return p.Sprintf("%.1f%%", 100*v)
}

func wholePct(p *message.Printer, v float64) string {
	return p.Sprintf("%.0f%%", 100*v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func renderSummary(w io.Writer, p *message.Printer, r *Result) error {
	fmt.Fprintln(w, "## Summary")
	p.Fprintf(w, "- The test needs at least %d clients in the treatment group and as many in the control group.\n",
		r.Plan.RequiredSize)
	enough := "enough"
	if !r.Plan.Sufficient {
		enough = "NOT enough"
	}
	p.Fprintf(w, "- The collected groups (%d treatment, %d control) are %s for a conclusive result.\n",
		r.Treatment.Sample.Size, r.Control.Sample.Size, enough)
	if r.Significant() {
		p.Fprintf(w, "- The difference in conversion is statistically significant (p = %.4f < %.2f); the treatment can be rolled out to all users.\n",
			r.Significance.PValue, r.Plan.Plan.Alpha)
	} else {
		p.Fprintf(w, "- The difference in conversion is not statistically significant (p = %.4f >= %.2f).\n",
			r.Significance.PValue, r.Plan.Plan.Alpha)
	}
	return nil
}

func renderPlan(w io.Writer, p *message.Printer, r *Result) error {
	pl := r.Plan.Plan
	fmt.Fprintln(w, "## Experiment plan")
	p.Fprintf(w, "Baseline conversion %s, expected %s: %s points, a relative lift of %s.\n",
		pct(p, pl.BaselineRate), pct(p, pl.TargetRate),
		p.Sprintf("%.1f", 100*pl.Effect()), wholePct(p, pl.RelativeLift()))
	p.Fprintf(w, "Hypothesis: %s, alpha %.2f, power %.2f.\n", hypothesis(pl.Alternative), pl.Alpha, pl.Power)

	table := tablewriter.NewWriter(w)
	table.Header("Estimate", "Per group", "Notes")
	table.Append(
		"Lehr's rule",
		p.Sprintf("%d", r.Plan.LehrSize),
		"16*p(1-p)/delta^2, two-sided 5% at 80% power",
	)
	table.Append(
		"Formula",
		p.Sprintf("%d", r.Plan.RequiredSize),
		p.Sprintf("Z_alpha %.3f, Z_power %.3f", r.Plan.ZAlpha, r.Plan.ZPower),
	)
	table.Append(
		"Collected",
		p.Sprintf("%d", min(r.Control.Sample.Size, r.Treatment.Sample.Size)),
		p.Sprintf("achieved power %s, sufficient: %s", pct(p, r.Plan.AchievedPower), yesNo(r.Plan.Sufficient)),
	)
	return table.Render()
}

func hypothesis(a proportion.Alternative) string {
	switch a {
	case proportion.Less:
		return "treatment lowers conversion (one-sided)"
	case proportion.TwoSided:
		return "treatment changes conversion (two-sided)"
	}
	return "treatment raises conversion (one-sided)"
}

func renderIntervals(w io.Writer, p *message.Printer, r *Result) error {
	p.Fprintf(w, "## %s confidence intervals for conversion\n", wholePct(p, r.Options.ConfidenceLevel))
	table := tablewriter.NewWriter(w)
	table.Header("Group", "Clients", "Converted", "Rate", "Std err", "Wald", "Wilson")
	for _, g := range r.Groups() {
		table.Append(
			g.Name,
			p.Sprintf("%d", g.Sample.Size),
			p.Sprintf("%d", g.Sample.Successes),
			p.Sprintf("%.4f", g.Sample.ConversionRate()),
			p.Sprintf("%.5f", g.Sample.StandardError()),
			intervalStr(p, g.Wald),
			intervalStr(p, g.Wilson),
		)
	}
	if err := table.Render(); err != nil {
		return err
	}
	if r.Control.Wald.Overlaps(r.Treatment.Wald) {
		fmt.Fprintln(w, "The intervals overlap, so they alone do not settle the question; see the z-test below.")
	} else {
		fmt.Fprintln(w, "The intervals do not overlap.")
	}
	warned := lo.Filter(r.Groups(), func(g GroupResult, _ int) bool { return len(g.Warnings()) > 0 })
	for _, g := range warned {
		for _, wn := range g.Warnings() {
			p.Fprintf(w, "WARNING (%s): %s; prefer the Wilson interval.\n", g.Name, wn)
		}
	}
	return nil
}

func intervalStr(p *message.Printer, iv proportion.Interval) string {
	return p.Sprintf("%.4f - %.4f", iv.Lower, iv.Upper)
}

func renderSignificance(w io.Writer, p *message.Printer, r *Result) error {
	s := r.Significance
	fmt.Fprintln(w, "## Statistical significance (two-proportion z-test)")
	table := tablewriter.NewWriter(w)
	table.Header("Pooled rate", "Difference", "Z", "p-value", "Alternative", "Significant")
	table.Append(
		p.Sprintf("%.4f", s.PooledRate),
		p.Sprintf("%+.4f", s.Difference),
		p.Sprintf("%.4f", s.ZStatistic),
		p.Sprintf("%.4f", s.PValue),
		s.Alternative.String(),
		p.Sprintf("%s at alpha %.2f", yesNo(r.Significant()), r.Plan.Plan.Alpha),
	)
	return table.Render()
}

func renderDistribution(w io.Writer, p *message.Printer, r *Result) error {
	fmt.Fprintln(w, "## Distribution of converted users")
	p.Fprintf(w, "The binomial distributions of the two groups share %s of their probability mass.\n",
		pct(p, r.Overlap))
	if r.Control.Simulated == nil {
		return nil
	}
	p.Fprintf(w, "Simulated %d repetitions of each group (seed %d).\n", r.Options.SimulationDraws, r.Options.Seed)
	table := tablewriter.NewWriter(w)
	table.Header("Group", "Expected", "Sim mean", "Expected sd", "Sim sd", "Min", "Max")
	for _, g := range r.Groups() {
		table.Append(
			g.Name,
			p.Sprintf("%.1f", g.Expected),
			p.Sprintf("%.1f", g.Simulated.Mean()),
			p.Sprintf("%.2f", g.ExpSD),
			p.Sprintf("%.2f", g.Simulated.Stdev()),
			p.Sprintf("%.0f", g.Simulated.Min()),
			p.Sprintf("%.0f", g.Simulated.Max()),
		)
	}
	if err := table.Render(); err != nil {
		return err
	}
	for _, g := range r.Groups() {
		fmt.Fprintf(w, "\n%s\n%s\n", g.Name, strings.Repeat("-", len(g.Name)))
		if len(g.Histogram.Buckets) == 0 {
			p.Fprintf(w, "every repetition converted %.0f users\n", g.Simulated.Min())
			continue
		}
		if err := histogram.Fprint(w, g.Histogram, histogram.Linear(r.Options.Width)); err != nil {
			return err
		}
	}
	return nil
}
