// Package indicator implements the rolling technical indicators the
// screeners are built from. All functions are pure: they take a bar series
// and return derived values or boolean signals. Checks evaluated on fewer
// bars than their window requirement report false (or ErrInsufficientData)
// instead of returning partial values.
package indicator

import (
	"errors"

	"StockScout/internal/model"
)

// ErrInsufficientData is returned when a series is shorter than the window
// an indicator needs.
var ErrInsufficientData = errors.New("not enough bars for calculation")

// Closes extracts the close column from a bar series.
func Closes(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
