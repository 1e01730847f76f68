// Package dataset connects the scoring core to its collaborators: it selects which discovered URLs
// to fetch, evaluates fetched pages, and writes the accepted and rejected records.
package dataset

import (
	"cmp"
	"context"
	"slices"

	"github.com/jonesrussell/north-cloud/jsonld-quality/prescore"
	"github.com/jonesrussell/north-cloud/jsonld-quality/telemetry"
)

// Default selection values.
const (
	DefaultMinPreScore = 40.0
	DefaultGoldCap     = 100
	DefaultHighCap     = 50
	DefaultStandardCap = 30
)

// SelectionPolicy decides which pre-scored URLs are fetched.
type SelectionPolicy struct {
	MinPreScore float64
	// TierCaps bounds the selected URLs per domain. Tiers without an entry are uncapped.
	TierCaps map[prescore.Tier]int
}

// DefaultSelectionPolicy returns the default minimum and tier caps.
func DefaultSelectionPolicy() SelectionPolicy {
	return SelectionPolicy{
		MinPreScore: DefaultMinPreScore,
		TierCaps: map[prescore.Tier]int{
			prescore.TierGold:     DefaultGoldCap,
			prescore.TierHigh:     DefaultHighCap,
			prescore.TierStandard: DefaultStandardCap,
		},
	}
}

// capFor returns the cap of tier and whether one applies. An empty tier counts as standard.
func (p SelectionPolicy) capFor(tier prescore.Tier) (int, bool) {
	if tier == "" {
		tier = prescore.TierStandard
	}
	limit, ok := p.TierCaps[tier]
	return limit, ok
}

// Select drops excluded and below-minimum results, ranks the rest by pre-score descending with ties
// broken by URL, and keeps at most the tier cap per domain. The input is not modified.
func Select(results []prescore.Result, policy SelectionPolicy) []prescore.Result {
	ranked := make([]prescore.Result, 0, len(results))
	for _, r := range results {
		if r.ShouldExclude || r.PreScore < policy.MinPreScore {
			continue
		}
		ranked = append(ranked, r)
	}

	slices.SortStableFunc(ranked, func(a, b prescore.Result) int {
		if c := cmp.Compare(b.PreScore, a.PreScore); c != 0 {
			return c
		}
		return cmp.Compare(a.URL, b.URL)
	})

	perDomain := make(map[string]int)
	selected := ranked[:0]
	for _, r := range ranked {
		if limit, capped := policy.capFor(r.Tier); capped && perDomain[r.Domain] >= limit {
			continue
		}
		perDomain[r.Domain]++
		selected = append(selected, r)
	}
	return selected
}

// ScoreCandidates pre-scores every candidate in order. patterns maps a domain to its category
// patterns; domains without an entry get no category points. tp may be nil.
func ScoreCandidates(
	ctx context.Context,
	s *prescore.Scorer,
	candidates []prescore.Candidate,
	patterns map[string]prescore.DomainPatterns,
	tp *telemetry.Provider,
) []prescore.Result {
	results := make([]prescore.Result, 0, len(candidates))
	for _, c := range candidates {
		r := s.Score(c, patterns[c.Domain])
		if tp != nil {
			tp.RecordPreScore(ctx, string(r.ContentType), r.ShouldExclude, r.PreScore)
		}
		results = append(results, r)
	}
	return results
}
