package fhir

import (
	"encoding/json"
	"testing"
)

func TestDecodeTopLevel_PatientObject(t *testing.T) {
	top, err := testDecoder().DecodeTopLevel(map[string]interface{}{
		"name":       "PatientQuery",
		"resultType": "Patient",
		"result": map[string]interface{}{
			"resourceType": "Patient",
			"name": []interface{}{
				map[string]interface{}{"given": []interface{}{"Ann", "Marie"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top == nil {
		t.Fatal("expected a decoded envelope")
	}
	if top.Name != "PatientQuery" {
		t.Errorf("name = %q, want PatientQuery", top.Name)
	}
	if top.Patient == nil {
		t.Fatal("expected a patient record")
	}
	if top.Bundle != nil {
		t.Error("expected no bundle for a patient envelope")
	}
	if top.Patient["len_name"] != 1 {
		t.Errorf("len_name = %v, want 1", top.Patient["len_name"])
	}
	if top.Patient["len_name_0_given"] != 2 {
		t.Errorf("len_name_0_given = %v, want 2", top.Patient["len_name_0_given"])
	}
}

func TestDecodeTopLevel_PatientStringPayload(t *testing.T) {
	payload, _ := json.Marshal(map[string]interface{}{
		"resourceType": "Patient",
		"birthDate":    "1980-05-20",
	})

	top, err := testDecoder().DecodeTopLevel(map[string]interface{}{
		"resultType": "Patient",
		"result":     string(payload),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top == nil || top.Patient == nil {
		t.Fatal("expected a patient record")
	}
	bd, ok := top.Patient["birthDate"].(TemporalValue)
	if !ok {
		t.Fatalf("birthDate = %T, want TemporalValue", top.Patient["birthDate"])
	}
	if !bd.DateOnly || bd.Time.Year() != 1980 {
		t.Errorf("birthDate = %v (dateOnly=%v), want 1980-05-20 date-only", bd.Time, bd.DateOnly)
	}
}

func TestDecodeTopLevel_BundlePreservesOrderAndSkipsUnknown(t *testing.T) {
	payload, _ := json.Marshal([]map[string]interface{}{
		{"resourceType": "Observation", "effectiveDateTime": "2020-01-01", "id": "obs-1"},
		{"resourceType": "Unsupported", "id": "skip-me"},
		{"resourceType": "Condition", "onsetDateTime": "2020-02-01", "id": "cond-1"},
	})

	top, err := testDecoder().DecodeTopLevel(map[string]interface{}{
		"name":       "MixedBundle",
		"resultType": "FhirBundleCursorStu2",
		"result":     string(payload),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top == nil {
		t.Fatal("expected a decoded envelope")
	}
	if len(top.Bundle) != 2 {
		t.Fatalf("bundle has %d records, want 2", len(top.Bundle))
	}
	if top.Bundle[0]["id"] != "obs-1" || top.Bundle[1]["id"] != "cond-1" {
		t.Errorf("bundle order = %v, %v; want obs-1, cond-1",
			top.Bundle[0]["id"], top.Bundle[1]["id"])
	}
}

func TestDecodeTopLevel_Stu3Bundle(t *testing.T) {
	payload, _ := json.Marshal([]map[string]interface{}{
		{"resourceType": "Procedure", "performedDateTime": "2019-03-03"},
	})

	top, err := testDecoder().DecodeTopLevel(map[string]interface{}{
		"resultType": "FhirBundleCursorStu3",
		"result":     string(payload),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top == nil || len(top.Bundle) != 1 {
		t.Fatalf("expected a single-record bundle, got %+v", top)
	}
}

func TestDecodeTopLevel_MalformedBundlePayload(t *testing.T) {
	top, err := testDecoder().DecodeTopLevel(map[string]interface{}{
		"resultType": "FhirBundleCursorStu2",
		"result":     "{not json",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top == nil {
		t.Fatal("expected an envelope with an empty bundle")
	}
	if len(top.Bundle) != 0 {
		t.Errorf("bundle has %d records, want 0", len(top.Bundle))
	}
}

func TestDecodeTopLevel_BundleSkipsBadDatetimeRecord(t *testing.T) {
	payload, _ := json.Marshal([]map[string]interface{}{
		{"resourceType": "Observation", "effectiveDateTime": "2020-03-14T08:30:00Z09:15:00"},
		{"resourceType": "Observation", "effectiveDateTime": "2020-03-15"},
	})

	top, err := testDecoder().DecodeTopLevel(map[string]interface{}{
		"resultType": "FhirBundleCursorStu2",
		"result":     string(payload),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top.Bundle) != 1 {
		t.Fatalf("bundle has %d records, want 1 (bad record skipped)", len(top.Bundle))
	}
}

func TestDecodeTopLevel_UnknownResultType(t *testing.T) {
	top, err := testDecoder().DecodeTopLevel(map[string]interface{}{
		"resultType": "Quantity",
		"result":     map[string]interface{}{"value": 5.0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top != nil {
		t.Errorf("expected nil for unknown result type, got %+v", top)
	}
}

func TestDecodeTopLevel_MissingResultFields(t *testing.T) {
	top, err := testDecoder().DecodeTopLevel(map[string]interface{}{
		"name": "NoResult",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top != nil {
		t.Errorf("expected nil without result/resultType, got %+v", top)
	}
}
