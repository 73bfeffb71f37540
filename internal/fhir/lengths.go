package fhir

// InferListLength recovers the length of a flattened list whose element
// keys share the given prefix. Keys of the form "<prefix>_<digits>..." are
// scanned for the maximum index; the length (max index + 1) is written back
// under "len_<prefix>" and returned. When no key matches, the mapping is
// left untouched and 0 is returned. The result is a pure function of the
// key set, so re-running it is idempotent.
func InferListLength(obj Record, prefix string) int {
	maxIndex := -1
	for k := range obj {
		idx, ok := indexAfterPrefix(k, prefix)
		if ok && idx > maxIndex {
			maxIndex = idx
		}
	}
	if maxIndex < 0 {
		return 0
	}
	length := maxIndex + 1
	obj["len_"+prefix] = length
	return length
}

// indexAfterPrefix extracts the numeric index from a key of the form
// "<prefix>_<digits>...". The digits need not be followed by a separator;
// any maximal digit run directly after the prefix counts.
func indexAfterPrefix(key, prefix string) (int, bool) {
	if len(key) <= len(prefix)+1 || key[:len(prefix)] != prefix || key[len(prefix)] != '_' {
		return 0, false
	}
	rest := key[len(prefix)+1:]
	n := 0
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		n = n*10 + int(rest[digits]-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	return n, true
}
