package report

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/domino14/splittest/experiment"
	"github.com/domino14/splittest/proportion"
)

func TestEvaluateDefault(t *testing.T) {
	res, err := Evaluate(experiment.Default(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 6702, res.Plan.RequiredSize)
	assert.Equal(t, 8676, res.Plan.LehrSize)
	assert.True(t, res.Plan.Sufficient)
	assert.Greater(t, res.Plan.AchievedPower, 0.8)
	assert.InDelta(t, 1.6449, res.Plan.ZAlpha, 1e-4)
	assert.InDelta(t, 0.8416, res.Plan.ZPower, 1e-4)

	assert.True(t, res.Significant())
	assert.InDelta(t, 0.0224, res.Significance.PValue, 1e-3)
	assert.Equal(t, 17579, res.TotalClients())

	assert.Greater(t, res.Overlap, 0.05)
	assert.Less(t, res.Overlap, 0.3)

	for _, g := range res.Groups() {
		assert.Empty(t, g.Warnings())
		require.NotNil(t, g.Simulated)
		assert.Equal(t, 10000, g.Simulated.Iterations())
		assert.InDelta(t, g.Expected, g.Simulated.Mean(), 2)
		assert.InDelta(t, g.ExpSD, g.Simulated.Stdev(), 1.5)
		assert.NotEmpty(t, g.Histogram.Buckets)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	a, err := Evaluate(experiment.Default(), DefaultOptions())
	require.NoError(t, err)
	b, err := Evaluate(experiment.Default(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a.Treatment.Simulated.Mean(), b.Treatment.Simulated.Mean())
}

func TestEvaluateInsufficient(t *testing.T) {
	e := experiment.Default()
	e.Control.Size, e.Control.Successes = 3000, 100
	e.Treatment.Size, e.Treatment.Successes = 3000, 120
	res, err := Evaluate(e, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, res.Plan.Sufficient)
	assert.Less(t, res.Plan.AchievedPower, 0.8)
	assert.False(t, res.Significant())
}

func TestEvaluateEqualRates(t *testing.T) {
	e := experiment.Default()
	e.Plan.TargetRate = e.Plan.BaselineRate
	_, err := Evaluate(e, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, proportion.ErrEqualRates))
}

func TestRenderDefault(t *testing.T) {
	res, err := Evaluate(experiment.Default(), DefaultOptions())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res))
	out := buf.String()

	assert.Contains(t, out, "second-course-recommendations")
	assert.Contains(t, out, "6,702")
	assert.Contains(t, out, "8,676")
	assert.Contains(t, out, "statistically significant (p = 0.0224")
	assert.Contains(t, out, "95% confidence intervals")
	assert.Contains(t, out, "treatment raises conversion (one-sided)")
	assert.Contains(t, out, "treatment\n---------\n")
	assert.NotContains(t, out, "WARNING")
}

func TestRenderSmallSample(t *testing.T) {
	e := experiment.Default()
	e.Control.Size, e.Control.Successes = 200, 9
	e.Treatment.Size, e.Treatment.Successes = 210, 20
	opts := DefaultOptions()
	opts.SimulationDraws = 0
	res, err := Evaluate(e, opts)
	require.NoError(t, err)
	assert.Nil(t, res.Control.Simulated)
	assert.Len(t, res.Control.Warnings(), 1)
	assert.Empty(t, res.Treatment.Warnings())

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res))
	out := buf.String()
	assert.Contains(t, out, "WARNING (control)")
	assert.Contains(t, out, "NOT enough")
	assert.NotContains(t, out, "Simulated")
}

func TestEvaluateNoConversions(t *testing.T) {
	e := experiment.Default()
	e.Control.Size, e.Control.Successes = 200, 0
	e.Treatment.Size, e.Treatment.Successes = 210, 20
	res, err := Evaluate(e, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, math.IsNaN(res.Overlap))
	assert.GreaterOrEqual(t, res.Overlap, 0.0)
	assert.LessOrEqual(t, res.Overlap, 1.0)
	assert.Equal(t, 0.0, res.Control.Simulated.Mean())
	assert.Empty(t, res.Control.Histogram.Buckets)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res))
	assert.NotContains(t, buf.String(), "NaN")
	assert.Contains(t, buf.String(), "every repetition converted 0 users")
}

func TestRenderLocale(t *testing.T) {
	opts := DefaultOptions()
	opts.Locale = language.Russian
	opts.SimulationDraws = 0
	res, err := Evaluate(experiment.Default(), opts)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res))
	assert.NotContains(t, buf.String(), "6,702")
	assert.Contains(t, buf.String(), "second-course-recommendations")
}
