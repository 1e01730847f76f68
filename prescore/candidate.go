// Package prescore estimates, before fetching, how likely a discovered URL is to carry useful
// structured data. Scores range 0-100 across five independent components.
package prescore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/jsonld-quality/rubric"
)

// ErrUnknownTier is returned by ParseTier for names outside the tier set.
var ErrUnknownTier = errors.New("unknown domain tier")

// Tier is the quality class of a source domain. It controls per-domain URL caps.
type Tier string

const (
	TierGold     Tier = "gold"
	TierHigh     Tier = "high"
	TierStandard Tier = "standard"
)

// ParseTier converts a case-insensitive tier name.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierGold, TierHigh, TierStandard:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
}

// ContentType is the kind of page a URL is expected to be, inferred from its path.
type ContentType string

const (
	ContentFAQ     ContentType = "faq"
	ContentHowTo   ContentType = "howto"
	ContentArticle ContentType = "article"
	ContentProduct ContentType = "product"
	ContentRecipe  ContentType = "recipe"
	ContentJob     ContentType = "job"
	ContentEvent   ContentType = "event"
	ContentUnknown ContentType = "unknown"
)

var knownContentTypes = []ContentType{
	ContentFAQ, ContentHowTo, ContentArticle, ContentProduct, ContentRecipe, ContentJob, ContentEvent,
}

// ParseContentType converts a case-insensitive name, returning ContentUnknown for anything else.
func ParseContentType(s string) ContentType {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range knownContentTypes {
		if ct == known {
			return ct
		}
	}
	return ContentUnknown
}

// Candidate is a discovered URL with the metadata the discovery step attached to it.
type Candidate struct {
	URL    string
	Domain string
	Tier   Tier
	// SitemapPriority is the <priority> value from the site map, nil when absent.
	SitemapPriority *float64
	LastModified    *time.Time
	// DetectedContentType is discovery's own guess, used when the path does not classify the URL.
	DetectedContentType string
	// Category is the domain's declared content category.
	Category string
}

// Exclusion reasons.
const (
	ReasonUnparseableURL = "unparseable_url"
	reasonPatternPrefix  = "pattern:"
	reasonExtPrefix      = "extension:"
)

// Result is the pre-score of one candidate. It never aliases the candidate.
type Result struct {
	URL       string           `json:"url"`
	Domain    string           `json:"domain"`
	Tier      Tier             `json:"tier"`
	Category  string           `json:"category,omitempty"`
	Breakdown rubric.Breakdown `json:"breakdown"`
	PreScore  float64          `json:"pre_score"`
	// ShouldExclude overrides PreScore: excluded URLs are never selected.
	ShouldExclude   bool        `json:"should_exclude"`
	ExclusionReason string      `json:"exclusion_reason,omitempty"`
	ContentType     ContentType `json:"content_type"`
}
