package indicators

import "testing"

func TestMACD_ConstantSeries(t *testing.T) {
	values := []float64{50, 50, 50, 50, 50, 50}
	result := MACD(values, DefaultMACDConfig())

	want := make([]float64, len(values))
	assertSeries(t, result.Line, want)
	assertSeries(t, result.Signal, want)
	assertSeries(t, result.Histogram, want)
}

func TestMACD_SmallSpans(t *testing.T) {
	// Spans 3/5/2 give smoothing factors 1/2, 1/3 and 2/3, which keep
	// the expected values exact.
	values := []float64{1, 2, 3}
	result := MACD(values, MACDConfig{FastSpan: 3, SlowSpan: 5, SignalSpan: 2})

	assertSeries(t, result.Line, []float64{0, 1.0 / 6, 13.0 / 36})
	assertSeries(t, result.Signal, []float64{0, 1.0 / 9, 5.0 / 18})
	assertSeries(t, result.Histogram, []float64{0, 1.0 / 18, 1.0 / 12})
}

func TestMACD_RisingTrendPositiveHistogram(t *testing.T) {
	// In a sustained uptrend the fast EMA leads the slow one, so the
	// line and histogram end up positive.
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + float64(i)
	}
	result := MACD(values, DefaultMACDConfig())

	last := len(values) - 1
	if result.Line[last] <= 0 {
		t.Errorf("line ends at %v, want positive in an uptrend", result.Line[last])
	}
	if result.Histogram[last] <= 0 {
		t.Errorf("histogram ends at %v, want positive in an uptrend", result.Histogram[last])
	}
}

func TestMACD_AlignedLengths(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	result := MACD(values, DefaultMACDConfig())
	if len(result.Line) != len(values) || len(result.Signal) != len(values) || len(result.Histogram) != len(values) {
		t.Fatalf("output lengths %d/%d/%d, want all %d",
			len(result.Line), len(result.Signal), len(result.Histogram), len(values))
	}
}
