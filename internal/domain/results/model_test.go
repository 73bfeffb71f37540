package results

import (
	"testing"
	"time"

	"github.com/claritynlp/cqldecode/internal/fhir"
)

func TestNewDecodedResult(t *testing.T) {
	start := fhir.TemporalValue{Time: time.Date(2019, 6, 1, 10, 0, 0, 0, time.UTC)}
	end := fhir.TemporalValue{Time: time.Date(2019, 6, 1, 11, 30, 0, 0, time.UTC)}

	rec := fhir.Record{
		"resourceType":      "Procedure",
		"id":                "proc-1",
		fhir.KeyDateTime:    start,
		fhir.KeyEndDateTime: end,
	}

	res := NewDecodedResult("Procedures", rec)
	if res.SourceName != "Procedures" {
		t.Errorf("expected source name Procedures, got %q", res.SourceName)
	}
	if res.ResourceType != "Procedure" {
		t.Errorf("expected Procedure, got %q", res.ResourceType)
	}
	if res.DateTime == nil || !res.DateTime.Equal(start.Time) {
		t.Errorf("expected date_time %v, got %v", start.Time, res.DateTime)
	}
	if res.EndDateTime == nil || !res.EndDateTime.Equal(end.Time) {
		t.Errorf("expected end_date_time %v, got %v", end.Time, res.EndDateTime)
	}
	if res.Decoded["id"] != "proc-1" {
		t.Errorf("expected decoded body carried over, got %v", res.Decoded["id"])
	}
}

func TestNewDecodedResult_NoTimestamps(t *testing.T) {
	res := NewDecodedResult("", fhir.Record{"resourceType": "Patient"})
	if res.DateTime != nil || res.EndDateTime != nil {
		t.Errorf("expected nil timestamps, got %v / %v", res.DateTime, res.EndDateTime)
	}
	if res.ResourceType != "Patient" {
		t.Errorf("expected Patient, got %q", res.ResourceType)
	}
}
