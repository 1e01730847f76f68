package quality

import (
	"errors"
	"fmt"

	"github.com/jonesrussell/north-cloud/jsonld-quality/jsonld"
	"github.com/jonesrussell/north-cloud/jsonld-quality/validation"
)

// ErrScoreTooLow marks a structurally valid block whose composite score is under the threshold.
var ErrScoreTooLow = errors.New("quality score below threshold")

// RejectionReason is the closed set of reasons a block is rejected. The empty reason means accepted.
type RejectionReason string

const (
	ReasonInvalidJSON RejectionReason = "invalid_json"
	ReasonNoJSONLD    RejectionReason = "no_jsonld_found"
	ReasonScoreTooLow RejectionReason = "score_too_low"
)

// Err maps the reason to its sentinel error, nil for the empty reason.
func (r RejectionReason) Err() error {
	switch r {
	case ReasonInvalidJSON:
		return jsonld.ErrMalformedInput
	case ReasonNoJSONLD:
		return validation.ErrMissingContext
	case ReasonScoreTooLow:
		return ErrScoreTooLow
	default:
		return nil
	}
}

// ScoreBreakdown holds the six contributions and their sum.
type ScoreBreakdown struct {
	Syntax           float64 `json:"syntax"`
	Completeness     float64 `json:"completeness"`
	GoogleConformity float64 `json:"google_conformity"`
	SemanticRichness float64 `json:"semantic_richness"`
	TypeSpecificity  float64 `json:"type_specificity"`
	AIPriorityBonus  float64 `json:"ai_priority_bonus"`
	TotalScore       float64 `json:"total_score"`
}

// Decision is the accept/reject outcome for one block.
type Decision struct {
	Accepted   bool    `json:"accepted"`
	Score      float64 `json:"score"`
	SchemaType string  `json:"schema_type,omitempty"`
	// RejectionReason is set iff Accepted is false.
	RejectionReason RejectionReason `json:"rejection_reason,omitempty"`
	Threshold       float64         `json:"threshold"`
}

// Detail renders the decision for logs and reports, e.g. "score_too_low (72.50/80)".
func (d Decision) Detail() string {
	switch d.RejectionReason {
	case "":
		return fmt.Sprintf("accepted (%.2f/%g)", d.Score, d.Threshold)
	case ReasonScoreTooLow:
		return fmt.Sprintf("%s (%.2f/%g)", d.RejectionReason, d.Score, d.Threshold)
	default:
		return string(d.RejectionReason)
	}
}

// Err returns nil for accepted decisions and an error wrapping the reason's sentinel otherwise.
func (d Decision) Err() error {
	if d.Accepted {
		return nil
	}
	return fmt.Errorf("%w: %s", d.RejectionReason.Err(), d.Detail())
}
