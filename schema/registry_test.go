package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/jsonld-quality/schema"
)

func TestDefault_CatalogCoverage(t *testing.T) {
	t.Parallel()

	reg := schema.Default()
	require.GreaterOrEqual(t, len(reg.Types()), 50)

	// One representative per category the dataset targets.
	for _, name := range []string{
		"Article", "NewsArticle", "Product", "Offer", "Recipe", "FAQPage", "QAPage", "Question",
		"Event", "JobPosting", "Organization", "LocalBusiness", "VideoObject", "ImageObject",
	} {
		assert.True(t, reg.Known(name), "expected %s in catalog", name)
	}
}

func TestDefault_SpecificityDepth(t *testing.T) {
	t.Parallel()

	reg := schema.Default()

	tests := []struct {
		name string
		want int
	}{
		{"Thing", 0},
		{"CreativeWork", 1},
		{"Product", 1},
		{"Article", 2},
		{"NewsArticle", 3},
		{"FAQPage", 3},
		{"Restaurant", 4},
		{"LiveBlogPosting", 5},
		{"schema:Article", 2},
		{"https://schema.org/NewsArticle", 3},
		{"NotARealType", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.SpecificityDepth(tt.name))
		})
	}

	assert.Equal(t, 5, reg.MaxDepth())
	assert.Equal(t, []string{"Article", "CreativeWork", "Thing"}, reg.Ancestors("NewsArticle"))
}

func TestDefault_AIPriority(t *testing.T) {
	t.Parallel()

	reg := schema.Default()
	assert.True(t, reg.IsAIPriority("FAQPage"))
	assert.True(t, reg.IsAIPriority("HowTo"))
	assert.True(t, reg.IsAIPriority("Article"))
	assert.False(t, reg.IsAIPriority("BlogPosting"), "flags are not inherited")
	assert.False(t, reg.IsAIPriority("Unknown"))
}

func TestLookup_UnknownType(t *testing.T) {
	t.Parallel()

	reg := schema.Default()

	_, err := reg.Lookup("Spaceship")
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrUnknownType))

	rule := reg.RuleFor("Spaceship")
	assert.Equal(t, "Spaceship", rule.Type)
	assert.Empty(t, rule.Required)
	assert.Empty(t, rule.Recommended)

	rule, err = reg.Lookup("Recipe")
	require.NoError(t, err)
	assert.Equal(t, "HowTo", rule.Parent)
	assert.Contains(t, rule.Required, "image")
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rules []schema.Rule
	}{
		{"missing root", []schema.Rule{{Type: "Article", Parent: "CreativeWork"}}},
		{"duplicate", []schema.Rule{{Type: "Thing"}, {Type: "Thing"}}},
		{"unknown parent", []schema.Rule{{Type: "Thing"}, {Type: "Article", Parent: "CreativeWork"}}},
		{"orphan", []schema.Rule{{Type: "Thing"}, {Type: "Article"}}},
		{"cycle", []schema.Rule{
			{Type: "Thing"},
			{Type: "A", Parent: "B"},
			{Type: "B", Parent: "A"},
		}},
		{"google subset", []schema.Rule{
			{Type: "Thing"},
			{Type: "A", Parent: "Thing", Required: []string{"name"}, GoogleRequired: []string{"image"}},
		}},
		{"root with parent", []schema.Rule{{Type: "Thing", Parent: "Entity"}, {Type: "Entity", Parent: "Thing"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.New(tt.rules)
			assert.Error(t, err)
		})
	}
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	reg, err := schema.New(schema.Catalog(),
		schema.WithAIPriorityTypes("Recipe", "schema:JobPosting"),
		schema.WithGoogleRequired(map[string][]string{"Product": {}, "Unregistered": {"x"}}),
	)
	require.NoError(t, err)

	assert.True(t, reg.IsAIPriority("Recipe"))
	assert.True(t, reg.IsAIPriority("JobPosting"))
	assert.False(t, reg.IsAIPriority("FAQPage"))

	product, err := reg.Lookup("Product")
	require.NoError(t, err)
	assert.Empty(t, product.GoogleRequired)
}

func TestNew_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	rules := []schema.Rule{
		{Type: "Thing"},
		{Type: "Article", Parent: "Thing", Required: []string{"headline"}},
	}
	reg, err := schema.New(rules)
	require.NoError(t, err)

	rules[1].Required[0] = "mutated"

	rule, err := reg.Lookup("Article")
	require.NoError(t, err)
	assert.Equal(t, []string{"headline"}, rule.Required)
}

func TestNormalizeType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Article", schema.NormalizeType("schema:Article"))
	assert.Equal(t, "Article", schema.NormalizeType("HTTPS://schema.org/Article"))
	assert.Equal(t, "Article", schema.NormalizeType(" Article "))
	assert.Equal(t, "https://schema.org/", schema.NormalizeType("https://schema.org/"))
}
