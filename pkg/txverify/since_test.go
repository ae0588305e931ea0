package txverify

import "testing"

func TestSince_AbsoluteBlockNumber(t *testing.T) {
	s := NewSince(false, SinceMetricBlockNumber, 100)
	if s.IsRelative() {
		t.Error("expected absolute lock")
	}
	if !s.IsAbsolute() {
		t.Error("expected IsAbsolute true")
	}
	if !s.FlagsValid() {
		t.Error("expected valid flags")
	}
	metric, value, ok := s.Metric()
	if !ok || metric != SinceMetricBlockNumber || value != 100 {
		t.Errorf("got metric=%d value=%d ok=%v, want BlockNumber 100 true", metric, value, ok)
	}
}

func TestSince_RelativeEpoch(t *testing.T) {
	s := NewSince(true, SinceMetricEpochNumber, 7)
	if !s.IsRelative() {
		t.Error("expected relative lock")
	}
	metric, value, ok := s.Metric()
	if !ok || metric != SinceMetricEpochNumber || value != 7 {
		t.Errorf("got metric=%d value=%d ok=%v", metric, value, ok)
	}
}

func TestSince_ZeroIsNoop(t *testing.T) {
	var s Since
	if s.Value() != 0 {
		t.Error("zero since should carry zero value")
	}
}

func TestSince_ReservedBitsMustBeZero(t *testing.T) {
	s := NewSince(false, SinceMetricTimestamp, 5)
	if !s.FlagsValid() {
		t.Fatal("expected freshly-built since to have valid flags")
	}
	corrupted := Since(uint64(s) | remainFlagsMask)
	if corrupted.FlagsValid() {
		t.Error("expected FlagsValid to reject set reserved bits")
	}
}

func TestSince_UnknownMetricRejected(t *testing.T) {
	// Metric bits 0b11 (3) is not one of the three defined metrics.
	raw := Since(uint64(3) << 61)
	if _, _, ok := raw.Metric(); ok {
		t.Error("expected unknown metric to report ok=false")
	}
}

func TestSince_RoundTrip(t *testing.T) {
	cases := []struct {
		relative   bool
		metric     SinceMetric
		value      uint64 // encoded (seconds, for timestamp)
		wantValue  uint64 // decoded (milliseconds, for timestamp)
	}{
		{false, SinceMetricBlockNumber, 0, 0},
		{true, SinceMetricBlockNumber, 1234, 1234},
		{false, SinceMetricEpochNumber, 42, 42},
		{true, SinceMetricTimestamp, 600, 600 * secondsToMillis},
	}
	for _, c := range cases {
		s := NewSince(c.relative, c.metric, c.value)
		if s.IsRelative() != c.relative {
			t.Errorf("relative round-trip failed for %+v", c)
		}
		metric, value, ok := s.Metric()
		if !ok || metric != c.metric || value != c.wantValue {
			t.Errorf("round-trip failed for %+v: got metric=%d value=%d ok=%v", c, metric, value, ok)
		}
	}
}
