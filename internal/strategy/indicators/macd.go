package indicators

// MACDConfig holds the EMA spans for the MACD indicator.
type MACDConfig struct {
	FastSpan   int
	SlowSpan   int
	SignalSpan int
}

// DefaultMACDConfig returns the conventional 12/26/9 configuration.
func DefaultMACDConfig() MACDConfig {
	return MACDConfig{FastSpan: 12, SlowSpan: 26, SignalSpan: 9}
}

// MACDResult holds the three output series of a MACD computation,
// each aligned index-for-index with the input.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes the Moving Average Convergence Divergence series:
// line = EMA(fast) - EMA(slow), signal = EMA(line, signalSpan),
// histogram = line - signal.
func MACD(values []float64, cfg MACDConfig) MACDResult {
	fast := EMA(values, cfg.FastSpan)
	slow := EMA(values, cfg.SlowSpan)

	line := make([]float64, len(values))
	for i := range values {
		line[i] = fast[i] - slow[i]
	}

	signal := EMA(line, cfg.SignalSpan)

	histogram := make([]float64, len(values))
	for i := range values {
		histogram[i] = line[i] - signal[i]
	}

	return MACDResult{Line: line, Signal: signal, Histogram: histogram}
}
