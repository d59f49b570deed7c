package indicator

import "StockScout/internal/model"

const obvMAPeriod = 10

// OBVSeries computes On-Balance Volume: a running total starting from the
// first bar's volume that adds volume on up-closes, subtracts it on
// down-closes, and holds on flat closes.
func OBVSeries(bars []model.OHLCV) []float64 {
	out := make([]float64, len(bars))
	if len(bars) == 0 {
		return out
	}
	out[0] = bars[0].Volume
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// OBVRising reports whether the current OBV sits above its 10-bar moving
// average.
func OBVRising(bars []model.OHLCV) bool {
	obv := OBVSeries(bars)
	ma, err := SMA(obv, obvMAPeriod)
	if err != nil {
		return false
	}
	return obv[len(obv)-1] > ma
}
