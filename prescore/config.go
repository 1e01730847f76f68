package prescore

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Component maxima. The rubric total is clipped to TotalMax.
const (
	PatternMatchMax     = 40.0
	UniversalMax        = 30.0
	ContentTypeMatch    = 10.0
	CategoryMatchPoints = 5.0
	CategoryMatchMax    = 15.0
	DepthMax            = 20.0
	CleanlinessMax      = 15.0
	SitemapPriorityMax  = 15.0
	ContentBonusMax     = 10.0
	TotalMax            = 100.0

	defaultMaxURLLength = 150
)

// WeightedPattern is a universal priority path pattern. Only the best-weighted match counts.
type WeightedPattern struct {
	Pattern string
	Points  float64
}

// ContentTypePatterns maps a content type to the path patterns that classify it.
type ContentTypePatterns struct {
	Type     ContentType
	Patterns []string
}

// Config is the pattern configuration of a Scorer. Matching is case-insensitive substring matching
// against the URL path with a trailing slash.
type Config struct {
	Universal []WeightedPattern
	// ContentTypes are tried in order; the first type with a matching pattern classifies the URL.
	ContentTypes []ContentTypePatterns
	// Exclude are hard-exclusion path patterns.
	Exclude          []string
	IgnoreExtensions []string
	// TrackingParams are session or tracking query parameter names. A trailing '*' makes a prefix.
	TrackingParams         []string
	AIPriorityContentTypes []ContentType
	// MaxURLLength is the length above which the cleanliness penalty applies.
	MaxURLLength int
}

// DefaultConfig returns the built-in pattern set.
func DefaultConfig() Config {
	return Config{
		Universal: []WeightedPattern{
			{Pattern: "/faq", Points: 30},
			{Pattern: "/foire-aux-questions", Points: 30},
			{Pattern: "/questions-frequentes", Points: 30},
			{Pattern: "/how-to", Points: 30},
			{Pattern: "/guide", Points: 25},
			{Pattern: "/tutorial", Points: 25},
			{Pattern: "/tutoriel", Points: 25},
			{Pattern: "/aide", Points: 20},
			{Pattern: "/help", Points: 20},
			{Pattern: "/support", Points: 15},
		},
		ContentTypes: []ContentTypePatterns{
			{Type: ContentFAQ, Patterns: []string{"/faq", "/questions", "/q-a", "/aide", "/help"}},
			{Type: ContentHowTo, Patterns: []string{"/how-to", "/guide", "/tutorial", "/tutoriel", "/tuto"}},
			{Type: ContentArticle, Patterns: []string{"/article", "/blog", "/post", "/news", "/actualites"}},
			{Type: ContentProduct, Patterns: []string{"/product", "/p/", "/dp/", "/item/", "/produit"}},
			{Type: ContentRecipe, Patterns: []string{"/recipe", "/recette", "/cooking"}},
			{Type: ContentJob, Patterns: []string{"/job", "/emploi", "/career"}},
			{Type: ContentEvent, Patterns: []string{"/event", "/evenement", "/salon"}},
		},
		Exclude: []string{
			"/tag/", "/tags/",
			"/author/", "/authors/", "/auteur/",
			"/category/", "/categories/", "/categorie/",
			"/page/",
			"/search", "/recherche",
			"/login", "/signin", "/register",
			"/cart", "/checkout", "/panier",
			"/wp-content/", "/wp-admin/",
			"/feed/", "/rss/",
			"/cdn-cgi/",
			"/api/",
		},
		IgnoreExtensions: []string{
			".pdf", ".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp",
			".zip", ".tar", ".gz", ".rar",
			".mp3", ".mp4", ".avi", ".mov",
			".css", ".js", ".xml", ".json",
		},
		TrackingParams: []string{
			"sid", "sessionid", "phpsessid", "jsessionid", "fbclid", "gclid", "msclkid", "utm_*",
		},
		AIPriorityContentTypes: []ContentType{ContentFAQ, ContentHowTo, ContentArticle, ContentRecipe},
		MaxURLLength:           defaultMaxURLLength,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	var errs []error
	for _, p := range c.Universal {
		if strings.TrimSpace(p.Pattern) == "" {
			errs = append(errs, errors.New("universal pattern is empty"))
		}
		if p.Points <= 0 || p.Points > UniversalMax {
			errs = append(errs, fmt.Errorf("universal pattern %q: points must be in (0, %g]", p.Pattern, UniversalMax))
		}
	}
	seen := make(map[ContentType]bool, len(c.ContentTypes))
	for _, ct := range c.ContentTypes {
		if ParseContentType(string(ct.Type)) == ContentUnknown {
			errs = append(errs, fmt.Errorf("content type %q is not recognized", ct.Type))
		}
		if seen[ct.Type] {
			errs = append(errs, fmt.Errorf("content type %q listed twice", ct.Type))
		}
		seen[ct.Type] = true
	}
	for _, ct := range c.AIPriorityContentTypes {
		if ParseContentType(string(ct)) == ContentUnknown {
			errs = append(errs, fmt.Errorf("ai-priority content type %q is not recognized", ct))
		}
	}
	for _, ext := range c.IgnoreExtensions {
		if !strings.HasPrefix(strings.TrimSpace(ext), ".") {
			errs = append(errs, fmt.Errorf("ignored extension %q must start with a dot", ext))
		}
	}
	if c.MaxURLLength < 0 {
		errs = append(errs, errors.New("max URL length cannot be negative"))
	}
	return errors.Join(errs...)
}

// normalizePatterns folds and trims patterns, dropping blanks and duplicates while keeping order.
func normalizePatterns(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = fold(strings.TrimSpace(p))
		if p == "" || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
