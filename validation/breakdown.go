// Package validation inspects a structured-data block in five ordered layers: syntax, JSON-LD
// structure, schema.org property coverage, semantic richness and type specificity.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/jsonld-quality/jsonld"
)

// ErrMissingContext marks blocks with no schema.org context or no @type.
var ErrMissingContext = errors.New("no schema.org structured data found")

// Status is a layer outcome.
type Status string

const (
	StatusPass    Status = "pass"
	StatusPartial Status = "partial"
	StatusFail    Status = "fail"
	// StatusBlocked is reported for layers skipped because an earlier layer failed.
	StatusBlocked Status = "blocked"
)

// Layer names in evaluation order.
const (
	LayerSyntax      = "syntax"
	LayerStructure   = "structure"
	LayerProperties  = "properties"
	LayerRichness    = "richness"
	LayerSpecificity = "specificity"
)

// Layer is the outcome of one validation layer. Score is 0 or 1 for the binary layers and a
// fraction for the partial ones.
type Layer struct {
	Name   string   `json:"name"`
	Status Status   `json:"status"`
	Score  float64  `json:"score"`
	Notes  []string `json:"notes,omitempty"`
}

// Passed reports whether the layer fully passed.
func (l Layer) Passed() bool { return l.Status == StatusPass }

// Failed reports a hard failure. Blocked layers are not failures of their own.
func (l Layer) Failed() bool { return l.Status == StatusFail }

// Breakdown is the validator's report for one block. It is not mutated after Validate returns.
type Breakdown struct {
	Syntax      Layer `json:"syntax"`
	Structure   Layer `json:"structure"`
	Properties  Layer `json:"properties"`
	Richness    Layer `json:"richness"`
	Specificity Layer `json:"specificity"`

	// ResolvedType is the most specific declared type, empty when structure failed.
	ResolvedType string `json:"resolved_type,omitempty"`
	// Entity is the node carrying ResolvedType.
	Entity *jsonld.Node `json:"-"`

	RequiredFraction    float64  `json:"required_fraction"`
	RecommendedFraction float64  `json:"recommended_fraction"`
	MissingRequired     []string `json:"missing_required,omitempty"`
	MissingRecommended  []string `json:"missing_recommended,omitempty"`
	PropertyCount       int      `json:"property_count"`

	HasID               bool    `json:"has_id"`
	HasSameAs           bool    `json:"has_same_as"`
	SameAsCount         int     `json:"same_as_count"`
	AuthoritativeSameAs bool    `json:"authoritative_same_as"`
	NestedEntities      int     `json:"nested_entities"`
	Density             float64 `json:"density"`

	Depth    int `json:"depth"`
	MaxDepth int `json:"max_depth"`
}

// Layers returns the five layers in evaluation order.
func (b *Breakdown) Layers() []Layer {
	return []Layer{b.Syntax, b.Structure, b.Properties, b.Richness, b.Specificity}
}

// Err returns the error behind the earliest hard failure: one wrapping jsonld.ErrMalformedInput for
// a syntax failure, ErrMissingContext for a structure failure, nil otherwise.
func (b *Breakdown) Err() error {
	switch {
	case b.Syntax.Failed():
		return fmt.Errorf("%w: %s", jsonld.ErrMalformedInput, strings.Join(b.Syntax.Notes, "; "))
	case b.Structure.Failed():
		return fmt.Errorf("%w: %s", ErrMissingContext, strings.Join(b.Structure.Notes, "; "))
	default:
		return nil
	}
}

func blocked(name, upstream string) Layer {
	return Layer{
		Name:   name,
		Status: StatusBlocked,
		Notes:  []string{fmt.Sprintf("blocked by upstream layer %s", upstream)},
	}
}

// scoreEpsilon absorbs float rounding in weighted fractions such as 0.7*1 + 0.3*1.
const scoreEpsilon = 1e-9

// fractional builds a partial layer from a 0-1 score.
func fractional(name string, score float64, notes []string) Layer {
	switch {
	case score > 1-scoreEpsilon:
		score = 1
	case score < scoreEpsilon:
		score = 0
	}
	status := StatusPartial
	switch {
	case score >= 1:
		status = StatusPass
	case score <= 0:
		status = StatusFail
	}
	return Layer{Name: name, Status: status, Score: score, Notes: notes}
}
