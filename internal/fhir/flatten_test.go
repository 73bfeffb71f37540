package fhir

import "testing"

func TestFlatten_NestedObjectsAndArrays(t *testing.T) {
	obj := map[string]interface{}{
		"resourceType": "Patient",
		"name": []interface{}{
			map[string]interface{}{
				"family": []interface{}{"Smith"},
				"given":  []interface{}{"Ann", "Marie"},
			},
		},
		"animal": map[string]interface{}{
			"species": map[string]interface{}{
				"text": "dog",
			},
		},
	}

	flat := Flatten(obj)

	want := map[string]interface{}{
		"resourceType":        "Patient",
		"name_0_family_0":     "Smith",
		"name_0_given_0":      "Ann",
		"name_0_given_1":      "Marie",
		"animal_species_text": "dog",
	}
	for k, v := range want {
		if got, ok := flat[k]; !ok {
			t.Errorf("expected key %s to be present", k)
		} else if got != v {
			t.Errorf("%s = %v, want %v", k, got, v)
		}
	}
	if len(flat) != len(want) {
		t.Errorf("flattened record has %d keys, want %d", len(flat), len(want))
	}
}

func TestFlatten_RetainsPeriodObjects(t *testing.T) {
	obj := map[string]interface{}{
		"resourceType": "Condition",
		"onsetPeriod": map[string]interface{}{
			"start": "2019-01-01",
			"end":   "2019-02-01",
		},
	}

	flat := Flatten(obj)

	p, ok := flat["onsetPeriod"].(map[string]interface{})
	if !ok {
		t.Fatalf("onsetPeriod = %T, want nested map", flat["onsetPeriod"])
	}
	if p["start"] != "2019-01-01" {
		t.Errorf("onsetPeriod start = %v, want 2019-01-01", p["start"])
	}
	if p["end"] != "2019-02-01" {
		t.Errorf("onsetPeriod end = %v, want 2019-02-01", p["end"])
	}
}

func TestFlatten_NonPeriodTwoKeyMapIsFlattened(t *testing.T) {
	obj := map[string]interface{}{
		"valueQuantity": map[string]interface{}{
			"value": 5.5,
			"unit":  "mg",
		},
	}

	flat := Flatten(obj)

	if _, ok := flat["valueQuantity"]; ok {
		t.Error("expected valueQuantity to be flattened, not retained")
	}
	if flat["valueQuantity_value"] != 5.5 {
		t.Errorf("valueQuantity_value = %v, want 5.5", flat["valueQuantity_value"])
	}
	if flat["valueQuantity_unit"] != "mg" {
		t.Errorf("valueQuantity_unit = %v, want mg", flat["valueQuantity_unit"])
	}
}

func TestFlatten_ScalarsPreserved(t *testing.T) {
	obj := map[string]interface{}{
		"active": true,
		"count":  3.0,
		"note":   nil,
	}

	flat := Flatten(obj)

	if flat["active"] != true {
		t.Errorf("active = %v, want true", flat["active"])
	}
	if flat["count"] != 3.0 {
		t.Errorf("count = %v, want 3", flat["count"])
	}
	if v, ok := flat["note"]; !ok || v != nil {
		t.Errorf("note = %v (present=%v), want nil present", v, ok)
	}
}
