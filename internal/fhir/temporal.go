package fhir

import (
	"fmt"
	"regexp"
	"time"
)

// TemporalValue is the canonical representation of a FHIR datetime string:
// either a calendar date or a full timezone-aware instant. DateOnly is true
// iff the source string carried no time component.
type TemporalValue struct {
	Time     time.Time
	DateOnly bool
}

// MarshalJSON renders a date-only value as "2006-01-02" and a full instant
// as RFC 3339 with microsecond precision.
func (tv TemporalValue) MarshalJSON() ([]byte, error) {
	if tv.DateOnly {
		return []byte(`"` + tv.Time.Format("2006-01-02") + `"`), nil
	}
	return []byte(`"` + tv.Time.Format("2006-01-02T15:04:05.999999Z07:00") + `"`), nil
}

func (tv TemporalValue) String() string {
	if tv.DateOnly {
		return tv.Time.Format("2006-01-02")
	}
	return tv.Time.Format("2006-01-02T15:04:05.999999Z07:00")
}

// Matches FHIR datetime strings: YYYY-MM-DD with an optional time component
// handed to DecomposeTime.
var regexDateTime = regexp.MustCompile(
	`\A(\d{4})-(\d{2})-(\d{2})(?:T(\d{2}:\d{2}:\d{2}[-+.Z\d:]*))?\z`)

// ParseTemporal parses a FHIR datetime string. The second return value is
// false when s does not look like a datetime at all; an error is returned
// only when s matches the datetime pattern but its time component violates
// the decomposition contract.
func ParseTemporal(s string) (TemporalValue, bool, error) {
	m := regexDateTime.FindStringSubmatch(s)
	if m == nil {
		return TemporalValue{}, false, nil
	}

	year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if m[4] == "" {
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		return TemporalValue{Time: t, DateOnly: true}, true, nil
	}

	times := DecomposeTime(m[4])
	if len(times) != 1 {
		return TemporalValue{}, false, fmt.Errorf(
			"time decomposition of %q returned %d results, want 1", m[4], len(times))
	}
	tod := times[0]

	var us int64
	if tod.FractionalSeconds != nil {
		us = *tod.FractionalSeconds % 999999
	}

	mult := 1
	if tod.UTCDeltaSign != nil && *tod.UTCDeltaSign == "-" {
		mult = -1
	}
	deltaHours := 0
	if tod.UTCDeltaHours != nil {
		deltaHours = mult * *tod.UTCDeltaHours
	}
	deltaMin := 0
	if tod.UTCDeltaMinutes != nil {
		deltaMin = *tod.UTCDeltaMinutes
	}
	// The sign applies to the hour component only.
	offset := deltaHours*3600 + deltaMin*60
	loc := time.UTC
	if offset != 0 {
		loc = time.FixedZone("", offset)
	}

	t := time.Date(year, time.Month(month), day,
		tod.Hours, tod.Minutes, tod.Seconds, int(us)*1000, loc)
	return TemporalValue{Time: t}, true, nil
}

// normalizeDateTimes replaces every string-valued entry that parses as a
// FHIR datetime with its TemporalValue, including strings inside retained
// period maps, so canonical key promotion always sees structured values.
func normalizeDateTimes(obj Record) error {
	for k, v := range obj {
		switch val := v.(type) {
		case string:
			tv, ok, err := ParseTemporal(val)
			if err != nil {
				return fmt.Errorf("field %s: %w", k, err)
			}
			if ok {
				obj[k] = tv
			}
		case map[string]interface{}:
			for pk, pv := range val {
				s, ok := pv.(string)
				if !ok {
					continue
				}
				tv, ok, err := ParseTemporal(s)
				if err != nil {
					return fmt.Errorf("field %s_%s: %w", k, pk, err)
				}
				if ok {
					val[pk] = tv
				}
			}
		}
	}
	return nil
}
