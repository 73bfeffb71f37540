package fhir

import (
	"regexp"
	"strconv"
)

// TimeOfDay is the structured decomposition of a time-of-day string.
// Pointer fields are nil when the component is absent from the input.
type TimeOfDay struct {
	Hours             int
	Minutes           int
	Seconds           int
	FractionalSeconds *int64
	UTCDeltaSign      *string
	UTCDeltaHours     *int
	UTCDeltaMinutes   *int
}

// Matches HH:MM:SS with optional fractional seconds and optional UTC offset
// ("Z", "+05:00", "-0500", "+05").
var regexTimeOfDay = regexp.MustCompile(
	`(\d{2}):(\d{2}):(\d{2})(?:\.(\d+))?(?:(Z)|([-+])(\d{2}):?(\d{2})?)?`)

// DecomposeTime finds every time-of-day occurrence in s and returns the
// structured decomposition of each. Callers that expect a single time value
// must check the result count; a datetime field that yields anything other
// than exactly one decomposition violates the parser contract.
func DecomposeTime(s string) []TimeOfDay {
	matches := regexTimeOfDay.FindAllStringSubmatch(s, -1)
	result := make([]TimeOfDay, 0, len(matches))
	for _, m := range matches {
		tod := TimeOfDay{
			Hours:   atoi(m[1]),
			Minutes: atoi(m[2]),
			Seconds: atoi(m[3]),
		}
		if m[4] != "" {
			us := fractionToMicros(m[4])
			tod.FractionalSeconds = &us
		}
		if m[6] != "" {
			sign := m[6]
			tod.UTCDeltaSign = &sign
			hours := atoi(m[7])
			tod.UTCDeltaHours = &hours
			if m[8] != "" {
				mins := atoi(m[8])
				tod.UTCDeltaMinutes = &mins
			}
		}
		result = append(result, tod)
	}
	return result
}

// fractionToMicros scales a fractional-second digit string to microseconds:
// "5" -> 500000, "500" -> 500000, "1234567" -> 123456.
func fractionToMicros(digits string) int64 {
	if len(digits) > 6 {
		digits = digits[:6]
	}
	for len(digits) < 6 {
		digits += "0"
	}
	n, _ := strconv.ParseInt(digits, 10, 64)
	return n
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
