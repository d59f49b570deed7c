package indicator

import (
	"math"

	"StockScout/internal/model"
)

const bollingerWindow = 20

// PctB computes the Bollinger %B of the latest close over a 20-bar window
// with 2-sigma bands: 0 at the lower band, 1 at the upper. A collapsed band
// (zero standard deviation) yields ErrInsufficientData rather than a
// division fault.
func PctB(bars []model.OHLCV) (float64, error) {
	closes := Closes(bars)
	if len(closes) < bollingerWindow {
		return 0, ErrInsufficientData
	}
	window := closes[len(closes)-bollingerWindow:]

	mid := 0.0
	for _, v := range window {
		mid += v
	}
	mid /= float64(bollingerWindow)

	// Sample standard deviation, matching the usual rolling-std convention.
	variance := 0.0
	for _, v := range window {
		d := v - mid
		variance += d * d
	}
	variance /= float64(bollingerWindow - 1)
	std := math.Sqrt(variance)

	upper := mid + 2*std
	lower := mid - 2*std
	if upper == lower {
		return 0, ErrInsufficientData
	}
	current := closes[len(closes)-1]
	return (current - lower) / (upper - lower), nil
}

// NearLowerBand reports whether the latest close sits in the bottom fifth
// of its Bollinger Band (%B < 0.2).
func NearLowerBand(bars []model.OHLCV) bool {
	pctb, err := PctB(bars)
	if err != nil {
		return false
	}
	return pctb < 0.2
}
