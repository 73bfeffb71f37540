package fhir

import (
	"encoding/json"
	"fmt"
)

// Result-type discriminators emitted by the CQL engine.
const (
	resultTypePatient    = "Patient"
	resultTypeBundleStu2 = "FhirBundleCursorStu2"
	resultTypeBundleStu3 = "FhirBundleCursorStu3"
)

const (
	keyName       = "name"
	keyResult     = "result"
	keyResultType = "resultType"
)

// TopLevel is a decoded CQL engine result envelope: either a single Patient
// record or an ordered bundle of mixed resources. Exactly one of Patient
// and Bundle is set.
type TopLevel struct {
	Name    string
	Patient Record
	Bundle  []Record
}

// DecodeTopLevel decodes the outermost object returned by the CQL engine.
// A nil result with a nil error means the envelope carried an unrecognized
// result type and should be skipped.
func (d *Decoder) DecodeTopLevel(obj map[string]interface{}) (*TopLevel, error) {
	name, _ := obj[keyName].(string)
	result, haveResult := obj[keyResult]
	resultType, haveType := obj[keyResultType].(string)
	if !haveResult || !haveType {
		return nil, nil
	}

	switch resultType {
	case resultTypePatient:
		patient, err := d.decodePatientResult(result)
		if err != nil {
			return nil, err
		}
		return &TopLevel{Name: name, Patient: patient}, nil
	case resultTypeBundleStu2, resultTypeBundleStu3:
		return &TopLevel{Name: name, Bundle: d.decodeBundle(name, result)}, nil
	default:
		if d.trace {
			d.log.Debug().Str("result_type", resultType).Msg("no decode for result type")
		}
		return nil, nil
	}
}

// decodePatientResult decodes a single embedded Patient, which arrives
// either as a nested object or as its JSON string encoding.
func (d *Decoder) decodePatientResult(result interface{}) (Record, error) {
	obj, ok := result.(map[string]interface{})
	if !ok {
		s, ok := result.(string)
		if !ok {
			return nil, fmt.Errorf("patient result is neither an object nor a string")
		}
		if err := json.Unmarshal([]byte(s), &obj); err != nil {
			return nil, fmt.Errorf("parse patient payload: %w", err)
		}
	}

	flat := Flatten(obj)
	if err := normalizeDateTimes(flat); err != nil {
		return nil, fmt.Errorf("normalize datetimes: %w", err)
	}
	return d.decodePatient(flat), nil
}

// decodeBundle decodes a bundle cursor payload: the JSON string encoding of
// an ordered array of raw resources. Each element is decoded independently;
// unknown resource types and per-record decode failures are skipped so one
// malformed record never halts the bundle. A malformed payload is reported
// and yields an empty sequence.
func (d *Decoder) decodeBundle(name string, result interface{}) []Record {
	payload, ok := result.(string)
	if !ok {
		d.log.Error().Str("name", name).Msg("bundle result is not a string payload")
		return []Record{}
	}

	var elements []map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &elements); err != nil {
		d.log.Error().Err(err).Str("name", name).Msg("bundle payload parse failed")
		return []Record{}
	}

	decoded := make([]Record, 0, len(elements))
	for i, elt := range elements {
		rec, err := d.DecodeResource(elt)
		if err != nil {
			d.log.Warn().Err(err).Str("name", name).Int("index", i).
				Msg("skipping undecodable bundle entry")
			continue
		}
		if rec != nil {
			decoded = append(decoded, rec)
		}
	}
	return decoded
}
