package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jonesrussell/north-cloud/jsonld-quality/quality"
	"github.com/jonesrussell/north-cloud/jsonld-quality/validation"
)

// Record is the evaluation outcome of one page, written one per line.
type Record struct {
	URL        string                 `json:"url"`
	Passed     bool                   `json:"passed"`
	Score      float64                `json:"score"`
	SchemaType string                 `json:"schema_type,omitempty"`
	Breakdown  quality.ScoreBreakdown `json:"breakdown"`
	Layers     []validation.Layer     `json:"layers,omitempty"`
	// RejectionReason is empty iff Passed.
	RejectionReason quality.RejectionReason `json:"rejection_reason,omitempty"`
	Threshold       float64                 `json:"threshold"`
	BlockCount      int                     `json:"block_count"`
	// BlockIndex is the position of the kept block, -1 when the page had none.
	BlockIndex int `json:"block_index"`
	// JSONLD is the kept block, omitted when it is not valid JSON.
	JSONLD    json.RawMessage `json:"json_ld,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Partition splits records into passed and rejected, keeping order.
func Partition(records []Record) (passed, rejected []Record) {
	for _, r := range records {
		if r.Passed {
			passed = append(passed, r)
		} else {
			rejected = append(rejected, r)
		}
	}
	return passed, rejected
}

// WriteJSONL writes one JSON object per line.
func WriteJSONL(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("encode record %s: %w", records[i].URL, err)
		}
	}
	return nil
}
