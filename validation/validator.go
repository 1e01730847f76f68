package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jonesrussell/north-cloud/jsonld-quality/jsonld"
	"github.com/jonesrussell/north-cloud/jsonld-quality/logger"
	"github.com/jonesrussell/north-cloud/jsonld-quality/schema"
)

// Richness weighting: share of the three signals versus the nesting measure, and the nested-entity
// count beyond which more nesting adds nothing.
const (
	richnessSignals   = 3
	signalWeight      = 0.6
	nestingWeight     = 0.4
	nestingSaturation = 2
)

const (
	requiredWeight    = 0.7
	recommendedWeight = 0.3
	// propertyFallbackCap is the property count that fully covers a type without rules.
	propertyFallbackCap = 10
	minPropertyCount    = 3
)

// authoritySources are sameAs hosts treated as authoritative identity references.
var authoritySources = []string{
	"wikidata.org", "wikipedia.org", "linkedin.com", "facebook.com", "twitter.com", "x.com",
	"instagram.com", "youtube.com",
}

// Validator runs the five validation layers. It holds no mutable state.
type Validator struct {
	reg *schema.Registry
	log logger.Logger
}

// NewValidator returns a Validator backed by reg. A nil registry means schema.Default().
func NewValidator(reg *schema.Registry, log logger.Logger) *Validator {
	if reg == nil {
		reg = schema.Default()
	}
	return &Validator{reg: reg, log: logger.OrNop(log)}
}

// Registry returns the rule registry the validator resolves types against.
func (v *Validator) Registry() *schema.Registry { return v.reg }

// ValidatePayload parses raw and validates it. The document is nil when the syntax layer failed.
func (v *Validator) ValidatePayload(raw []byte) (*jsonld.Document, *Breakdown) {
	doc, err := jsonld.Parse(raw)
	if err != nil {
		note := strings.TrimPrefix(err.Error(), jsonld.ErrMalformedInput.Error()+": ")
		b := &Breakdown{
			Syntax:      Layer{Name: LayerSyntax, Status: StatusFail, Notes: []string{note}},
			Structure:   blocked(LayerStructure, LayerSyntax),
			Properties:  blocked(LayerProperties, LayerSyntax),
			Richness:    blocked(LayerRichness, LayerSyntax),
			Specificity: blocked(LayerSpecificity, LayerSyntax),
			MaxDepth:    v.reg.MaxDepth(),
		}
		v.log.Debug("structured data rejected at syntax layer", logger.Error(err))
		return nil, b
	}
	return doc, v.Validate(doc)
}

// Validate runs the layers on an already parsed document; the syntax layer passes for any non-nil
// document.
func (v *Validator) Validate(doc *jsonld.Document) *Breakdown {
	if doc == nil {
		return &Breakdown{
			Syntax:      Layer{Name: LayerSyntax, Status: StatusFail, Notes: []string{"no document"}},
			Structure:   blocked(LayerStructure, LayerSyntax),
			Properties:  blocked(LayerProperties, LayerSyntax),
			Richness:    blocked(LayerRichness, LayerSyntax),
			Specificity: blocked(LayerSpecificity, LayerSyntax),
			MaxDepth:    v.reg.MaxDepth(),
		}
	}

	b := &Breakdown{
		Syntax:   Layer{Name: LayerSyntax, Status: StatusPass, Score: 1},
		MaxDepth: v.reg.MaxDepth(),
	}

	b.Structure = v.checkStructure(doc)
	if b.Structure.Failed() {
		b.Properties = blocked(LayerProperties, LayerStructure)
		b.Richness = blocked(LayerRichness, LayerStructure)
		b.Specificity = blocked(LayerSpecificity, LayerStructure)
		v.log.Debug("structured data rejected at structure layer",
			logger.Strings("notes", b.Structure.Notes))
		return b
	}

	b.ResolvedType, b.Entity = ResolveType(doc, v.reg)
	if b.Entity == nil {
		b.Entity = &jsonld.Node{}
	}
	v.checkProperties(b)
	v.checkRichness(doc, b)
	v.checkSpecificity(b)

	v.log.Debug("structured data validated",
		logger.String("resolved_type", b.ResolvedType),
		logger.Float64("required_fraction", b.RequiredFraction),
		logger.Float64("density", b.Density))

	return b
}

func (v *Validator) checkStructure(doc *jsonld.Document) Layer {
	layer := Layer{Name: LayerStructure}

	hasContext := false
	for _, ctx := range doc.Contexts {
		hasContext = hasContext || referencesSchemaOrg(ctx)
	}
	doc.Walk(func(n *jsonld.Node, _ int) {
		if n.Context != nil {
			hasContext = hasContext || referencesSchemaOrg(n.Context)
		}
	})
	hasType := false
	for _, n := range documentEntities(doc) {
		hasType = hasType || len(n.Types) > 0
	}

	if !hasContext {
		layer.Notes = append(layer.Notes, "no @context referencing schema.org")
	}
	if !hasType {
		layer.Notes = append(layer.Notes, "no @type declared")
	}
	if !hasContext || !hasType {
		layer.Status = StatusFail
		return layer
	}

	layer.Status = StatusPass
	layer.Score = 1
	for _, root := range doc.Roots {
		if len(root.Properties) < minPropertyCount {
			layer.Notes = append(layer.Notes,
				fmt.Sprintf("entity %s has only %d properties", strings.Join(root.Types, ","), len(root.Properties)))
		}
	}
	return layer
}

// referencesSchemaOrg accepts a context IRI, a list of contexts, or a context object whose @vocab
// or prefix definitions point at schema.org.
func referencesSchemaOrg(ctx any) bool {
	switch c := ctx.(type) {
	case string:
		return strings.Contains(strings.ToLower(c), "schema.org")
	case []any:
		for _, item := range c {
			if referencesSchemaOrg(item) {
				return true
			}
		}
	case map[string]any:
		for _, val := range c {
			if s, ok := val.(string); ok && referencesSchemaOrg(s) {
				return true
			}
		}
	}
	return false
}

// mainEntityProperty links a page-level entity to the entity it is about.
const mainEntityProperty = "mainEntity"

// documentEntities returns the entities that can carry the document's type: top-level objects and
// @graph members, each followed by its mainEntity. Values of other properties such as offers, image
// or author describe the entity and never type the document.
func documentEntities(doc *jsonld.Document) []*jsonld.Node {
	var out []*jsonld.Node
	for _, root := range doc.Roots {
		out = append(out, root)
		if v, ok := root.Get(mainEntityProperty); ok {
			out = append(out, v.Nodes()...)
		}
	}
	return out
}

// ResolveType returns the most specific type declared by a document-level entity and the entity
// declaring it. Entities are compared in declaration order and types in listed order; the first of
// equally deep types wins. Unknown types have depth 0.
func ResolveType(doc *jsonld.Document, reg *schema.Registry) (string, *jsonld.Node) {
	var (
		bestType  string
		bestNode  *jsonld.Node
		bestDepth = -1
	)
	for _, n := range documentEntities(doc) {
		for _, t := range n.Types {
			name := schema.NormalizeType(t)
			if name == "" {
				continue
			}
			if depth := reg.SpecificityDepth(name); depth > bestDepth {
				bestType, bestNode, bestDepth = name, n, depth
			}
		}
	}
	return bestType, bestNode
}

func (v *Validator) checkProperties(b *Breakdown) {
	rule := v.reg.RuleFor(b.ResolvedType)
	entity := b.Entity
	b.PropertyCount = len(entity.Properties)

	var notes []string
	if !v.reg.Known(b.ResolvedType) {
		notes = append(notes, fmt.Sprintf("type %s has no registered rule", b.ResolvedType))
	}

	b.MissingRequired = missing(entity, rule.Required)
	b.MissingRecommended = missing(entity, rule.Recommended)

	switch {
	case len(rule.Required) == 0 && len(rule.Recommended) == 0:
		fallback := min(float64(b.PropertyCount)/propertyFallbackCap, 1)
		b.RequiredFraction, b.RecommendedFraction = fallback, fallback
		notes = append(notes, fmt.Sprintf("no property rules; coverage from %d properties", b.PropertyCount))
	default:
		b.RequiredFraction = coverage(len(rule.Required), len(b.MissingRequired))
		b.RecommendedFraction = coverage(len(rule.Recommended), len(b.MissingRecommended))
	}

	if len(b.MissingRequired) > 0 {
		notes = append(notes, "missing required: "+strings.Join(b.MissingRequired, ", "))
	}
	if len(b.MissingRecommended) > 0 {
		notes = append(notes, "missing recommended: "+strings.Join(b.MissingRecommended, ", "))
	}

	score := requiredWeight*b.RequiredFraction + recommendedWeight*b.RecommendedFraction
	b.Properties = fractional(LayerProperties, score, notes)
}

func missing(n *jsonld.Node, props []string) []string {
	var out []string
	for _, p := range props {
		if !n.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// coverage is the present fraction of total properties. An empty list is fully covered.
func coverage(total, absent int) float64 {
	if total == 0 {
		return 1
	}
	return float64(total-absent) / float64(total)
}

func (v *Validator) checkRichness(doc *jsonld.Document, b *Breakdown) {
	doc.Walk(func(n *jsonld.Node, depth int) {
		if n.ID != "" {
			b.HasID = true
		}
		if depth > 0 {
			b.NestedEntities++
		}
		sameAs, ok := n.Get("sameAs")
		if !ok || sameAs.IsEmpty() {
			return
		}
		b.HasSameAs = true
		for _, link := range sameAs.Strings() {
			if strings.TrimSpace(link) == "" {
				continue
			}
			b.SameAsCount++
			b.AuthoritativeSameAs = b.AuthoritativeSameAs || isAuthority(link)
		}
	})

	signals := 0
	var notes []string
	for _, s := range []struct {
		present bool
		note    string
	}{
		{b.HasID, "no @id"},
		{b.HasSameAs, "no sameAs"},
		{b.NestedEntities > 0, "no nested entities"},
	} {
		if s.present {
			signals++
			continue
		}
		notes = append(notes, s.note)
	}

	nesting := float64(min(b.NestedEntities, nestingSaturation)) / nestingSaturation
	b.Density = signalWeight*(float64(signals)/richnessSignals) + nestingWeight*nesting
	b.Richness = fractional(LayerRichness, b.Density, notes)
}

func isAuthority(link string) bool {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, source := range authoritySources {
		if host == source || strings.HasSuffix(host, "."+source) {
			return true
		}
	}
	return false
}

func (v *Validator) checkSpecificity(b *Breakdown) {
	b.Depth = v.reg.SpecificityDepth(b.ResolvedType)
	ratio := 0.0
	if b.MaxDepth > 0 {
		ratio = float64(b.Depth) / float64(b.MaxDepth)
	}
	var notes []string
	if b.Depth == 0 {
		notes = append(notes, fmt.Sprintf("type %s sits at the root of the hierarchy", b.ResolvedType))
	}
	b.Specificity = fractional(LayerSpecificity, ratio, notes)
}
