// Package quality turns a validation breakdown into a 0-110 composite score and an accept/reject
// decision with a typed reason.
package quality

import (
	"github.com/jonesrussell/north-cloud/jsonld-quality/jsonld"
	"github.com/jonesrussell/north-cloud/jsonld-quality/logger"
	"github.com/jonesrussell/north-cloud/jsonld-quality/rubric"
	"github.com/jonesrussell/north-cloud/jsonld-quality/schema"
	"github.com/jonesrussell/north-cloud/jsonld-quality/validation"
)

// Component names and weights. The bonus is added on top of the 100-point base.
const (
	ComponentSyntax           = "syntax"
	ComponentCompleteness     = "completeness"
	ComponentGoogleConformity = "google_conformity"
	ComponentSemanticRichness = "semantic_richness"
	ComponentTypeSpecificity  = "type_specificity"
	ComponentAIPriorityBonus  = "ai_priority_bonus"

	SyntaxWeight           = 15.0
	CompletenessWeight     = 30.0
	GoogleConformityWeight = 25.0
	SemanticRichnessWeight = 20.0
	TypeSpecificityWeight  = 10.0
	AIPriorityBonus        = 10.0

	// MaxScore is the top of the composite range.
	MaxScore = SyntaxWeight + CompletenessWeight + GoogleConformityWeight +
		SemanticRichnessWeight + TypeSpecificityWeight + AIPriorityBonus

	// DefaultMinScore is the default acceptance threshold.
	DefaultMinScore = 80.0
)

const (
	requiredShare    = 0.7
	recommendedShare = 0.3
	// neutralConformity applies to types with neither Google-required nor required properties.
	neutralConformity = 0.6
)

// signals are the rubric inputs for one block.
type signals struct {
	syntax      bool
	structure   bool
	required    float64
	recommended float64
	google      float64
	density     float64
	specificity float64
	aiPriority  bool
}

var composite = rubric.MustNew(MaxScore,
	rubric.Criterion[signals]{Name: ComponentSyntax, Max: SyntaxWeight, Score: func(s signals) float64 {
		if s.syntax {
			return SyntaxWeight
		}
		return 0
	}},
	rubric.Criterion[signals]{Name: ComponentCompleteness, Max: CompletenessWeight, Score: func(s signals) float64 {
		return CompletenessWeight * (requiredShare*s.required + recommendedShare*s.recommended)
	}},
	rubric.Criterion[signals]{Name: ComponentGoogleConformity, Max: GoogleConformityWeight, Score: func(s signals) float64 {
		return GoogleConformityWeight * s.google
	}},
	rubric.Criterion[signals]{Name: ComponentSemanticRichness, Max: SemanticRichnessWeight, Score: func(s signals) float64 {
		return SemanticRichnessWeight * s.density
	}},
	rubric.Criterion[signals]{Name: ComponentTypeSpecificity, Max: TypeSpecificityWeight, Score: func(s signals) float64 {
		return TypeSpecificityWeight * s.specificity
	}},
	rubric.Criterion[signals]{Name: ComponentAIPriorityBonus, Max: AIPriorityBonus, Score: func(s signals) float64 {
		if s.aiPriority {
			return AIPriorityBonus
		}
		return 0
	}},
)

// Scorer computes composite scores and decisions. It is immutable and safe for concurrent use.
type Scorer struct {
	reg       *schema.Registry
	validator *validation.Validator
	log       logger.Logger
	minScore  float64
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithMinScore sets the acceptance threshold, clipped to [0, MaxScore].
func WithMinScore(score float64) Option {
	return func(s *Scorer) {
		s.minScore = rubric.Clip(score, 0, MaxScore)
	}
}

// NewScorer returns a Scorer backed by reg. A nil registry means schema.Default().
func NewScorer(reg *schema.Registry, log logger.Logger, opts ...Option) *Scorer {
	if reg == nil {
		reg = schema.Default()
	}
	s := &Scorer{
		reg:      reg,
		log:      logger.OrNop(log),
		minScore: DefaultMinScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = validation.NewValidator(reg, s.log)
	return s
}

// MinScore returns the acceptance threshold.
func (s *Scorer) MinScore() float64 { return s.minScore }

// Validator returns the validator Evaluate uses, bound to the same registry.
func (s *Scorer) Validator() *validation.Validator { return s.validator }

// Evaluate validates raw and scores it.
func (s *Scorer) Evaluate(raw []byte) (ScoreBreakdown, Decision, *validation.Breakdown) {
	doc, b := s.validator.ValidatePayload(raw)
	sb, d := s.Score(doc, b)
	return sb, d, b
}

// Score combines b, produced by validating doc, into a composite score and a decision.
// doc may be nil when the syntax layer failed.
func (s *Scorer) Score(doc *jsonld.Document, b *validation.Breakdown) (ScoreBreakdown, Decision) {
	in := s.signals(doc, b)
	rb := composite.Evaluate(in)

	sb := ScoreBreakdown{
		Syntax:           rb.Points(ComponentSyntax),
		Completeness:     rb.Points(ComponentCompleteness),
		GoogleConformity: rb.Points(ComponentGoogleConformity),
		SemanticRichness: rb.Points(ComponentSemanticRichness),
		TypeSpecificity:  rb.Points(ComponentTypeSpecificity),
		AIPriorityBonus:  rb.Points(ComponentAIPriorityBonus),
		TotalScore:       rb.Total,
	}

	d := Decision{Score: sb.TotalScore, Threshold: s.minScore}
	if in.structure {
		d.SchemaType = b.ResolvedType
	}
	switch {
	case !in.syntax:
		d.RejectionReason = ReasonInvalidJSON
	case !in.structure:
		d.RejectionReason = ReasonNoJSONLD
	case sb.TotalScore < s.minScore:
		d.RejectionReason = ReasonScoreTooLow
	default:
		d.Accepted = true
	}

	s.log.Debug("structured data scored",
		logger.String("schema_type", d.SchemaType),
		logger.Float64("score", d.Score),
		logger.Bool("accepted", d.Accepted),
		logger.String("reason", string(d.RejectionReason)))

	return sb, d
}

func (s *Scorer) signals(doc *jsonld.Document, b *validation.Breakdown) signals {
	if b == nil {
		return signals{}
	}
	in := signals{
		syntax:    b.Syntax.Passed(),
		structure: b.Syntax.Passed() && b.Structure.Passed(),
	}
	if !in.structure {
		return in
	}

	resolved, entity := b.ResolvedType, b.Entity
	if entity == nil && doc != nil {
		resolved, entity = validation.ResolveType(doc, s.reg)
	}

	in.required = b.RequiredFraction
	in.recommended = b.RecommendedFraction
	in.google = s.googleConformity(resolved, entity, b.RequiredFraction)
	in.density = b.Density
	in.specificity = b.Specificity.Score
	in.aiPriority = s.reg.IsAIPriority(resolved)
	return in
}

// googleConformity is the present fraction of the type's Google-required properties. Types without
// that subset fall back to their required fraction, and types with no required properties at all
// get a neutral value.
func (s *Scorer) googleConformity(resolved string, entity *jsonld.Node, requiredFraction float64) float64 {
	rule := s.reg.RuleFor(resolved)
	switch {
	case len(rule.GoogleRequired) > 0:
		if entity == nil {
			return 0
		}
		present := 0
		for _, p := range rule.GoogleRequired {
			if entity.Has(p) {
				present++
			}
		}
		return float64(present) / float64(len(rule.GoogleRequired))
	case len(rule.Required) > 0:
		return requiredFraction
	default:
		return neutralConformity
	}
}
