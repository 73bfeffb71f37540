package fhir

import "testing"

func TestDecomposeTime_Basic(t *testing.T) {
	times := DecomposeTime("08:30:15")
	if len(times) != 1 {
		t.Fatalf("expected 1 decomposition, got %d", len(times))
	}
	tod := times[0]
	if tod.Hours != 8 || tod.Minutes != 30 || tod.Seconds != 15 {
		t.Errorf("got %d:%d:%d, want 8:30:15", tod.Hours, tod.Minutes, tod.Seconds)
	}
	if tod.FractionalSeconds != nil || tod.UTCDeltaSign != nil {
		t.Error("expected no fraction and no offset")
	}
}

func TestDecomposeTime_FractionScaling(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"08:30:15.5", 500000},
		{"08:30:15.500", 500000},
		{"08:30:15.000001", 1},
		{"08:30:15.1234567", 123456},
	}
	for _, c := range cases {
		times := DecomposeTime(c.in)
		if len(times) != 1 {
			t.Fatalf("%s: expected 1 decomposition, got %d", c.in, len(times))
		}
		if times[0].FractionalSeconds == nil {
			t.Fatalf("%s: expected fractional seconds", c.in)
		}
		if got := *times[0].FractionalSeconds; got != c.want {
			t.Errorf("%s: fractional seconds = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDecomposeTime_Offsets(t *testing.T) {
	times := DecomposeTime("08:30:15-05:30")
	if len(times) != 1 {
		t.Fatalf("expected 1 decomposition, got %d", len(times))
	}
	tod := times[0]
	if tod.UTCDeltaSign == nil || *tod.UTCDeltaSign != "-" {
		t.Error("expected negative offset sign")
	}
	if tod.UTCDeltaHours == nil || *tod.UTCDeltaHours != 5 {
		t.Error("expected offset hours 5")
	}
	if tod.UTCDeltaMinutes == nil || *tod.UTCDeltaMinutes != 30 {
		t.Error("expected offset minutes 30")
	}

	times = DecomposeTime("08:30:15+02")
	if len(times) != 1 {
		t.Fatalf("expected 1 decomposition, got %d", len(times))
	}
	tod = times[0]
	if tod.UTCDeltaSign == nil || *tod.UTCDeltaSign != "+" {
		t.Error("expected positive offset sign")
	}
	if tod.UTCDeltaHours == nil || *tod.UTCDeltaHours != 2 {
		t.Error("expected offset hours 2")
	}
	if tod.UTCDeltaMinutes != nil {
		t.Error("expected no offset minutes")
	}
}

func TestDecomposeTime_Zulu(t *testing.T) {
	times := DecomposeTime("23:59:59Z")
	if len(times) != 1 {
		t.Fatalf("expected 1 decomposition, got %d", len(times))
	}
	if times[0].UTCDeltaSign != nil {
		t.Error("expected no signed offset for Zulu time")
	}
}

func TestDecomposeTime_MultipleMatches(t *testing.T) {
	times := DecomposeTime("08:30:00Z09:15:00")
	if len(times) != 2 {
		t.Errorf("expected 2 decompositions, got %d", len(times))
	}
}

func TestDecomposeTime_NoMatch(t *testing.T) {
	if times := DecomposeTime("not a time"); len(times) != 0 {
		t.Errorf("expected no decompositions, got %d", len(times))
	}
}
