package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/claritynlp/cqldecode/internal/fhir"
)

// DecodedResult is one decoded clinical resource persisted for downstream
// analytics. DateTime and EndDateTime mirror the record's canonical sort
// keys so chronological queries never parse the decoded body.
type DecodedResult struct {
	ID           uuid.UUID   `json:"id"`
	SourceName   string      `json:"source_name,omitempty"`
	ResourceType string      `json:"resource_type"`
	DateTime     *time.Time  `json:"date_time,omitempty"`
	EndDateTime  *time.Time  `json:"end_date_time,omitempty"`
	Decoded      fhir.Record `json:"decoded"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewDecodedResult builds a DecodedResult from a decoded record, lifting
// the resource type and canonical timestamps out of the mapping.
func NewDecodedResult(sourceName string, rec fhir.Record) *DecodedResult {
	r := &DecodedResult{
		SourceName: sourceName,
		Decoded:    rec,
	}
	if rt, ok := rec["resourceType"].(string); ok {
		r.ResourceType = rt
	}
	r.DateTime = temporalField(rec, fhir.KeyDateTime)
	r.EndDateTime = temporalField(rec, fhir.KeyEndDateTime)
	return r
}

func temporalField(rec fhir.Record, key string) *time.Time {
	tv, ok := rec[key].(fhir.TemporalValue)
	if !ok {
		return nil
	}
	t := tv.Time
	return &t
}
