package prescore_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/jsonld-quality/logger"
	"github.com/jonesrussell/north-cloud/jsonld-quality/logger/loggertest"
	"github.com/jonesrussell/north-cloud/jsonld-quality/prescore"
)

func ptr(f float64) *float64 { return &f }

func newScorer(t *testing.T) *prescore.Scorer {
	t.Helper()
	s, err := prescore.NewScorer(prescore.DefaultConfig(), logger.NewNop())
	require.NoError(t, err)
	return s
}

func TestScore_HardExclusionOverridesScore(t *testing.T) {
	t.Parallel()

	s := newScorer(t)

	tests := []struct {
		name   string
		url    string
		reason string
	}{
		{"plugin asset with session id", "https://site.com/wp-content/plugin/x.js?sid=abc123session", "pattern:/wp-content/"},
		{"search page on faq path", "https://example.com/faq/search?q=shipping", "pattern:/search"},
		{"search without trailing slash", "https://example.com/search", "pattern:/search"},
		{"tag listing", "https://example.com/blog/tag/go", "pattern:/tag/"},
		{"pdf file", "https://example.com/guide/manual.PDF", "extension:.pdf"},
		{"stylesheet", "https://example.com/assets/site.css?v=3", "extension:.css"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Score(prescore.Candidate{URL: tt.url, SitemapPriority: ptr(1)}, prescore.DomainPatterns{})
			assert.True(t, res.ShouldExclude)
			assert.Equal(t, tt.reason, res.ExclusionReason)
			assert.Len(t, res.Breakdown.Components, 5, "breakdown is computed for excluded URLs")
		})
	}

	res := s.Score(prescore.Candidate{URL: "https://example.com/faq/search?q=shipping"}, prescore.DomainPatterns{})
	assert.Greater(t, res.PreScore, 40.0)
	assert.True(t, res.ShouldExclude)
}

func TestScore_UnparseableURL(t *testing.T) {
	t.Parallel()

	s := newScorer(t)

	for _, raw := range []string{"::not a url", "ftp://example.com/file", "/relative/path", ""} {
		res := s.Score(prescore.Candidate{URL: raw}, prescore.DomainPatterns{})
		assert.True(t, res.ShouldExclude, raw)
		assert.Equal(t, prescore.ReasonUnparseableURL, res.ExclusionReason, raw)
		assert.Zero(t, res.PreScore, raw)
		require.Len(t, res.Breakdown.Components, 5, raw)
		for _, c := range res.Breakdown.Components {
			assert.Zero(t, c.Points, raw)
		}
	}
}

func TestScore_FullBreakdown(t *testing.T) {
	t.Parallel()

	s := newScorer(t)

	res := s.Score(prescore.Candidate{
		URL:             "https://example.com/support/faq",
		Tier:            prescore.TierGold,
		SitemapPriority: ptr(0.8),
	}, prescore.DomainPatterns{})

	assert.False(t, res.ShouldExclude)
	assert.Equal(t, prescore.ContentFAQ, res.ContentType)
	assert.Equal(t, "example.com", res.Domain, "domain falls back to the URL host")
	assert.Equal(t, prescore.TierGold, res.Tier)

	b := res.Breakdown
	assert.InDelta(t, 40.0, b.Points(prescore.ComponentPatternMatch), 1e-9)
	assert.InDelta(t, 20.0, b.Points(prescore.ComponentDepth), 1e-9)
	assert.InDelta(t, 15.0, b.Points(prescore.ComponentCleanliness), 1e-9)
	assert.InDelta(t, 12.0, b.Points(prescore.ComponentSitemapPriority), 1e-9)
	assert.InDelta(t, 10.0, b.Points(prescore.ComponentContentBonus), 1e-9)
	assert.InDelta(t, 97.0, res.PreScore, 1e-9)
}

func TestScore_PatternMatch(t *testing.T) {
	t.Parallel()

	s := newScorer(t)

	tests := []struct {
		name     string
		url      string
		category []string
		want     float64
		wantType prescore.ContentType
	}{
		{
			name:     "best universal pattern wins",
			url:      "https://example.com/help/guide",
			want:     25 + 10,
			wantType: prescore.ContentFAQ,
		},
		{
			name:     "category patterns add five per distinct match",
			url:      "https://example.com/recipes/dessert/vegan-chocolate-cake",
			category: []string{"/dessert", "/vegan", "/chocolate", "/cake", "/DESSERT"},
			want:     10 + 10,
			wantType: prescore.ContentRecipe,
		},
		{
			name:     "component capped at forty",
			url:      "https://example.com/faq/a/b/c",
			category: []string{"/a", "/b", "/c", "/faq"},
			want:     40,
			wantType: prescore.ContentFAQ,
		},
		{
			name:     "no pattern",
			url:      "https://example.com/about-us",
			want:     0,
			wantType: prescore.ContentUnknown,
		},
		{
			name:     "case insensitive",
			url:      "https://example.com/Blog/My-Post",
			want:     10,
			wantType: prescore.ContentArticle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := prescore.NewDomainPatterns("test", tt.category)
			res := s.Score(prescore.Candidate{URL: tt.url}, d)
			assert.InDelta(t, tt.want, res.Breakdown.Points(prescore.ComponentPatternMatch), 1e-9)
			assert.Equal(t, tt.wantType, res.ContentType)
		})
	}
}

func TestScore_Depth(t *testing.T) {
	t.Parallel()

	s := newScorer(t)

	tests := []struct {
		path string
		want float64
	}{
		{"", 5},
		{"/", 5},
		{"/a", 10},
		{"/a/b", 20},
		{"/a/b/c/d", 20},
		{"/a/b/c/d/e", 17},
		{"/a/b/c/d/e/f/g/h/i/j", 2},
		{"/a/b/c/d/e/f/g/h/i/j/k/l", 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res := s.Score(prescore.Candidate{URL: "https://example.com" + tt.path}, prescore.DomainPatterns{})
			assert.InDelta(t, tt.want, res.Breakdown.Points(prescore.ComponentDepth), 1e-9)
		})
	}
}

func TestScore_Cleanliness(t *testing.T) {
	t.Parallel()

	s := newScorer(t)
	long := "https://example.com/" + strings.Repeat("a", 150)

	tests := []struct {
		name string
		url  string
		want float64
	}{
		{"clean", "https://example.com/a/b", 15},
		{"one param", "https://example.com/a?x=1", 12},
		{"two params", "https://example.com/a?x=1&y=2", 12},
		{"three params", "https://example.com/a?x=1&y=2&z=3", 7},
		{"utm prefix", "https://example.com/a?utm_source=news", 7},
		{"path session", "https://example.com/shop;jsessionid=abc", 10},
		{"fragment", "https://example.com/a#top", 13},
		{"long", long, 12},
		{"floored at zero", long + "?a=1&b=2&c=3&gclid=z#f", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Score(prescore.Candidate{URL: tt.url}, prescore.DomainPatterns{})
			assert.InDelta(t, tt.want, res.Breakdown.Points(prescore.ComponentCleanliness), 1e-9)
		})
	}
}

func TestScore_SitemapPriority(t *testing.T) {
	t.Parallel()

	s := newScorer(t)

	tests := []struct {
		name     string
		priority *float64
		want     float64
	}{
		{"absent", nil, 0},
		{"half", ptr(0.5), 7.5},
		{"above one", ptr(1.5), 15},
		{"negative", ptr(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Score(prescore.Candidate{URL: "https://example.com/a", SitemapPriority: tt.priority}, prescore.DomainPatterns{})
			assert.InDelta(t, tt.want, res.Breakdown.Points(prescore.ComponentSitemapPriority), 1e-9)
		})
	}
}

func TestScore_ContentTypeBonus(t *testing.T) {
	t.Parallel()

	s := newScorer(t)

	tests := []struct {
		name      string
		url       string
		detected  string
		wantType  prescore.ContentType
		wantBonus float64
		wantMatch float64
	}{
		{"ai-priority type", "https://example.com/how-to/bake", "", prescore.ContentHowTo, 10, 40},
		{"other recognized type", "https://example.com/jobs/backend", "", prescore.ContentJob, 5, 10},
		{"detected type fallback", "https://example.com/x/y", "Product", prescore.ContentProduct, 5, 0},
		{"path beats detected type", "https://example.com/recipe/soup", "article", prescore.ContentRecipe, 10, 10},
		{"unknown", "https://example.com/x/y", "", prescore.ContentUnknown, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Score(prescore.Candidate{URL: tt.url, DetectedContentType: tt.detected}, prescore.DomainPatterns{})
			assert.Equal(t, tt.wantType, res.ContentType)
			assert.InDelta(t, tt.wantBonus, res.Breakdown.Points(prescore.ComponentContentBonus), 1e-9)
			assert.InDelta(t, tt.wantMatch, res.Breakdown.Points(prescore.ComponentPatternMatch), 1e-9)
		})
	}
}

func TestScore_ComponentsWithinCaps(t *testing.T) {
	t.Parallel()

	s := newScorer(t)
	d := prescore.NewDomainPatterns("news", []string{"/world", "/politics", "/tech", "/local"})

	urls := []string{
		"https://example.com",
		"https://example.com/faq/help/how-to/guide/support/world/politics/tech/local",
		"https://example.com/a/b/c/d/e/f/g/h/i/j/k/l/m/n?x=1&y=2&z=3&sid=1#frag",
		"https://example.com/news/2024/05/launch",
		"https://example.com/product/widget?color=red",
		"https://site.com/wp-content/plugin/x.js?sid=abc123session",
	}

	for _, raw := range urls {
		res := s.Score(prescore.Candidate{URL: raw, SitemapPriority: ptr(1)}, d)
		sum := 0.0
		for _, c := range res.Breakdown.Components {
			assert.GreaterOrEqual(t, c.Points, 0.0, raw)
			assert.LessOrEqual(t, c.Points, c.Max, raw)
			sum += c.Points
		}
		assert.InDelta(t, min(sum, prescore.TotalMax), res.PreScore, 1e-9, raw)
		assert.LessOrEqual(t, res.PreScore, prescore.TotalMax, raw)
	}
}

func TestScore_IdempotentAndConcurrent(t *testing.T) {
	t.Parallel()

	s := newScorer(t)
	d := prescore.NewDomainPatterns("food", []string{"/dessert"})
	candidates := []prescore.Candidate{
		{URL: "https://example.com/recipes/dessert/pie", SitemapPriority: ptr(0.6)},
		{URL: "https://example.com/faq"},
		{URL: "https://example.com/blog/post?utm_campaign=x"},
		{URL: "not a url"},
	}

	want := make([]prescore.Result, len(candidates))
	for i, c := range candidates {
		want[i] = s.Score(c, d)
		assert.Equal(t, want[i], s.Score(c, d))
	}

	const workers = 8
	got := make([][]prescore.Result, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, c := range candidates {
				got[w] = append(got[w], s.Score(c, d))
			}
		}()
	}
	wg.Wait()

	for w := range workers {
		assert.Equal(t, want, got[w])
	}
}

func TestScore_LogsAtDebug(t *testing.T) {
	t.Parallel()

	log, logs := loggertest.New("debug")
	s, err := prescore.NewScorer(prescore.DefaultConfig(), log)
	require.NoError(t, err)

	s.Score(prescore.Candidate{URL: "https://example.com/faq"}, prescore.DomainPatterns{})
	require.Equal(t, 1, logs.FilterMessage("url pre-scored").Len())
}

func TestNewScorer_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*prescore.Config)
	}{
		{"universal over thirty", func(c *prescore.Config) { c.Universal[0].Points = 35 }},
		{"blank universal", func(c *prescore.Config) { c.Universal[0].Pattern = " " }},
		{"unknown content type", func(c *prescore.Config) { c.ContentTypes[0].Type = "podcast" }},
		{"duplicate content type", func(c *prescore.Config) { c.ContentTypes[1].Type = prescore.ContentFAQ }},
		{"extension without dot", func(c *prescore.Config) { c.IgnoreExtensions[0] = "pdf" }},
		{"negative length", func(c *prescore.Config) { c.MaxURLLength = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := prescore.DefaultConfig()
			tt.mutate(&cfg)
			_, err := prescore.NewScorer(cfg, nil)
			assert.Error(t, err)
		})
	}
}

func TestParseTier(t *testing.T) {
	t.Parallel()

	tier, err := prescore.ParseTier(" GOLD ")
	require.NoError(t, err)
	assert.Equal(t, prescore.TierGold, tier)

	_, err = prescore.ParseTier("platinum")
	assert.True(t, errors.Is(err, prescore.ErrUnknownTier))
}

func TestNewDomainPatterns(t *testing.T) {
	t.Parallel()

	d := prescore.NewDomainPatterns("travel", []string{" /Hotels ", "/hotels", "", "/flights"})
	assert.Equal(t, []string{"/hotels", "/flights"}, d.Patterns())
	assert.Nil(t, prescore.DomainPatterns{}.Patterns())
}

func TestScore_FoldsAccents(t *testing.T) {
	t.Parallel()

	s := newScorer(t)

	res := s.Score(prescore.Candidate{URL: "https://example.fr/%C3%89v%C3%A8nements/salon-2026"}, prescore.DomainPatterns{})
	assert.Equal(t, prescore.ContentEvent, res.ContentType)

	d := prescore.NewDomainPatterns("health", []string{"/Santé"})
	assert.Equal(t, []string{"/sante"}, d.Patterns())

	withCategory := s.Score(prescore.Candidate{URL: "https://example.fr/santé/vaccins"}, d)
	without := s.Score(prescore.Candidate{URL: "https://example.fr/santé/vaccins"}, prescore.DomainPatterns{})
	assert.InDelta(t, prescore.CategoryMatchPoints,
		withCategory.Breakdown.Points(prescore.ComponentPatternMatch)-without.Breakdown.Points(prescore.ComponentPatternMatch), 1e-9)
}
