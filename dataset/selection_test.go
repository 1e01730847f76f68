package dataset_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/jsonld-quality/dataset"
	"github.com/jonesrussell/north-cloud/jsonld-quality/logger"
	"github.com/jonesrussell/north-cloud/jsonld-quality/prescore"
	"github.com/jonesrussell/north-cloud/jsonld-quality/telemetry"
)

func result(url, domain string, tier prescore.Tier, score float64) prescore.Result {
	return prescore.Result{URL: url, Domain: domain, Tier: tier, PreScore: score}
}

func urls(results []prescore.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.URL)
	}
	return out
}

func TestSelect_RanksAndFilters(t *testing.T) {
	t.Parallel()

	excluded := result("https://a.com/faq/search", "a.com", prescore.TierGold, 95)
	excluded.ShouldExclude = true

	in := []prescore.Result{
		result("https://a.com/low", "a.com", prescore.TierGold, 39.9),
		result("https://a.com/b", "a.com", prescore.TierGold, 70),
		excluded,
		result("https://a.com/a", "a.com", prescore.TierGold, 70),
		result("https://b.com/faq", "b.com", prescore.TierHigh, 88),
		result("https://a.com/edge", "a.com", prescore.TierGold, 40),
	}
	before := append([]prescore.Result(nil), in...)

	got := dataset.Select(in, dataset.DefaultSelectionPolicy())

	assert.Equal(t, []string{
		"https://b.com/faq",
		"https://a.com/a",
		"https://a.com/b",
		"https://a.com/edge",
	}, urls(got))
	assert.Equal(t, before, in, "input is not modified")
}

func TestSelect_TierCapsPerDomain(t *testing.T) {
	t.Parallel()

	policy := dataset.SelectionPolicy{
		MinPreScore: 0,
		TierCaps: map[prescore.Tier]int{
			prescore.TierGold:     3,
			prescore.TierStandard: 1,
		},
	}

	var in []prescore.Result
	for i, score := range []float64{50, 60, 70, 80, 90} {
		in = append(in, result("https://gold.com/"+string(rune('a'+i)), "gold.com", prescore.TierGold, score))
		in = append(in, result("https://std.com/"+string(rune('a'+i)), "std.com", prescore.TierStandard, score))
		in = append(in, result("https://none.com/"+string(rune('a'+i)), "none.com", "", score))
		in = append(in, result("https://high.com/"+string(rune('a'+i)), "high.com", prescore.TierHigh, score))
	}

	got := dataset.Select(in, policy)

	perDomain := map[string][]string{}
	for _, r := range got {
		perDomain[r.Domain] = append(perDomain[r.Domain], r.URL)
	}
	assert.Equal(t, []string{"https://gold.com/e", "https://gold.com/d", "https://gold.com/c"}, perDomain["gold.com"])
	assert.Equal(t, []string{"https://std.com/e"}, perDomain["std.com"])
	assert.Equal(t, []string{"https://none.com/e"}, perDomain["none.com"], "an empty tier is capped as standard")
	assert.Len(t, perDomain["high.com"], 5, "tiers without a cap are not limited")
}

func TestSelect_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, dataset.Select(nil, dataset.DefaultSelectionPolicy()))
}

func TestScoreCandidates(t *testing.T) {
	t.Parallel()

	s, err := prescore.NewScorer(prescore.DefaultConfig(), logger.NewNop())
	require.NoError(t, err)
	tp := telemetry.NewProvider(prometheus.NewRegistry())

	candidates := []prescore.Candidate{
		{URL: "https://ex.fr/blog/assurance-auto", Domain: "ex.fr", Tier: prescore.TierHigh},
		{URL: "https://other.fr/blog/assurance-auto", Domain: "other.fr", Tier: prescore.TierHigh},
		{URL: "https://ex.fr/wp-content/logo.png", Domain: "ex.fr"},
	}
	patterns := map[string]prescore.DomainPatterns{
		"ex.fr": prescore.NewDomainPatterns("insurance", []string{"/assurance"}),
	}

	got := dataset.ScoreCandidates(context.Background(), s, candidates, patterns, tp)
	require.Len(t, got, 3)

	assert.Equal(t, candidates[0].URL, got[0].URL)
	assert.InDelta(t, 5.0,
		got[0].Breakdown.Points(prescore.ComponentPatternMatch)-got[1].Breakdown.Points(prescore.ComponentPatternMatch), 1e-9,
		"category patterns only apply to their own domain")
	assert.True(t, got[2].ShouldExclude)

	assert.InDelta(t, 2.0, testutil.ToFloat64(tp.Metrics.PreScoresTotal.WithLabelValues("article", "false")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(tp.Metrics.PreScoresTotal.WithLabelValues("unknown", "true")), 1e-9)

	assert.Len(t, dataset.ScoreCandidates(context.Background(), s, candidates, nil, nil), 3, "telemetry is optional")
}
