package fhir

import "strconv"

// Record is a flattened FHIR resource: a single-level mapping whose keys
// encode the original nesting path with '_' separators and numeric array
// indices, e.g. "name_0_given_1". Values are JSON scalars, TemporalValue
// after datetime normalization, or a one-level period map (start/end).
type Record map[string]interface{}

// Flatten converts a nested JSON object into a Record. Array elements are
// emitted in order starting at index 0, so indices are contiguous. Period
// objects, i.e. maps whose keys are a subset of {"start", "end"}, are kept
// as nested one-level maps because the decoders read their bounds directly.
func Flatten(obj map[string]interface{}) Record {
	out := make(Record, len(obj))
	for k, v := range obj {
		flattenValue(out, k, v)
	}
	return out
}

func flattenValue(out Record, prefix string, v interface{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		if isPeriod(val) {
			out[prefix] = val
			return
		}
		for k, inner := range val {
			flattenValue(out, prefix+"_"+k, inner)
		}
	case []interface{}:
		for i, elt := range val {
			flattenValue(out, prefix+"_"+strconv.Itoa(i), elt)
		}
	default:
		out[prefix] = v
	}
}

func isPeriod(m map[string]interface{}) bool {
	if len(m) == 0 || len(m) > 2 {
		return false
	}
	for k := range m {
		if k != "start" && k != "end" {
			return false
		}
	}
	return true
}
