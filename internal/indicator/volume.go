package indicator

import "StockScout/internal/model"

const volumeAvgPeriod = 10

// VolumeSpike reports whether the latest bar's volume exceeds twice the
// average of the ten bars before it.
func VolumeSpike(bars []model.OHLCV) bool {
	return volumeSpikeAt(bars, len(bars)-1)
}

// RecentVolumeSurge reports whether any of the last lookback bars spiked
// against its own trailing ten-bar average.
func RecentVolumeSurge(bars []model.OHLCV, lookback int) bool {
	for i := len(bars) - lookback; i < len(bars); i++ {
		if i >= 0 && volumeSpikeAt(bars, i) {
			return true
		}
	}
	return false
}

func volumeSpikeAt(bars []model.OHLCV, i int) bool {
	if i < volumeAvgPeriod {
		return false
	}
	sum := 0.0
	for j := i - volumeAvgPeriod; j < i; j++ {
		sum += bars[j].Volume
	}
	avg := sum / float64(volumeAvgPeriod)
	if avg == 0 {
		return false
	}
	return bars[i].Volume > avg*2
}

// VolumeDecreasePattern reports whether volume has contracted across the
// three bars preceding the current one, the quiet stretch that precedes a
// new impulse leg.
func VolumeDecreasePattern(bars []model.OHLCV) bool {
	n := len(bars)
	if n < 4 {
		return false
	}
	return bars[n-4].Volume > bars[n-3].Volume && bars[n-3].Volume > bars[n-2].Volume
}

// UpDays counts the bars among the last lookback whose close rose against
// the prior bar.
func UpDays(bars []model.OHLCV, lookback int) int {
	n := len(bars)
	count := 0
	for i := n - lookback; i < n; i++ {
		if i < 1 {
			continue
		}
		if bars[i].Close > bars[i-1].Close {
			count++
		}
	}
	return count
}
