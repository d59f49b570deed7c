package indicator

import "StockScout/internal/model"

const (
	macdFastSpan   = 12
	macdSlowSpan   = 26
	macdSignalSpan = 9
)

// EMASeries computes an exponential moving average with smoothing
// 2/(span+1), seeded from the first value.
func EMASeries(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACD computes the 12/26 EMA difference, its 9-EMA signal line, and the
// histogram. At least slow+signal bars are required before the lines are
// trustworthy.
func MACD(bars []model.OHLCV) (macd, signal, hist []float64, err error) {
	if len(bars) < macdSlowSpan+macdSignalSpan {
		return nil, nil, nil, ErrInsufficientData
	}
	closes := Closes(bars)
	fast := EMASeries(closes, macdFastSpan)
	slow := EMASeries(closes, macdSlowSpan)

	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}
	signal = EMASeries(macd, macdSignalSpan)
	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = macd[i] - signal[i]
	}
	return macd, signal, hist, nil
}

// GoldenCross reports whether the MACD line crossed above its signal line
// between the last two bars.
func GoldenCross(bars []model.OHLCV) bool {
	macd, signal, _, err := MACD(bars)
	if err != nil {
		return false
	}
	n := len(macd)
	return macd[n-2] < signal[n-2] && macd[n-1] > signal[n-1]
}

// HistRising reports whether the MACD histogram is positive and has risen
// strictly over the last three bars.
func HistRising(bars []model.OHLCV) bool {
	_, _, hist, err := MACD(bars)
	if err != nil {
		return false
	}
	n := len(hist)
	return hist[n-1] > 0 && hist[n-1] > hist[n-2] && hist[n-2] > hist[n-3]
}
