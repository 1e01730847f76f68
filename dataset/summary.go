package dataset

import (
	"slices"

	"github.com/jonesrussell/north-cloud/jsonld-quality/quality"
)

// Summary aggregates a batch of records.
type Summary struct {
	Total    int                             `json:"total"`
	Passed   int                             `json:"passed"`
	Rejected int                             `json:"rejected"`
	ByReason map[quality.RejectionReason]int `json:"by_reason"`
	// BySchemaType counts passed records per resolved type.
	BySchemaType map[string]int `json:"by_schema_type"`
	// MeanScore and MedianScore cover passed records only.
	MeanScore   float64 `json:"mean_score"`
	MedianScore float64 `json:"median_score"`
}

// Summarize aggregates records.
func Summarize(records []Record) Summary {
	s := Summary{
		Total:        len(records),
		ByReason:     make(map[quality.RejectionReason]int),
		BySchemaType: make(map[string]int),
	}

	var scores []float64
	for _, r := range records {
		if !r.Passed {
			s.Rejected++
			s.ByReason[r.RejectionReason]++
			continue
		}
		s.Passed++
		s.BySchemaType[r.SchemaType]++
		scores = append(scores, r.Score)
	}

	if len(scores) == 0 {
		return s
	}
	sum := 0.0
	for _, v := range scores {
		sum += v
	}
	s.MeanScore = sum / float64(len(scores))

	slices.Sort(scores)
	mid := len(scores) / 2
	if len(scores)%2 == 0 {
		s.MedianScore = (scores[mid-1] + scores[mid]) / 2
	} else {
		s.MedianScore = scores[mid]
	}
	return s
}
