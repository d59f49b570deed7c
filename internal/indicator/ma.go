package indicator

import (
	"errors"
	"math"

	"StockScout/internal/model"
)

// SMA computes the simple moving average of the trailing period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// SMASeries computes the rolling simple moving average. Positions before the
// window has filled hold NaN.
func SMASeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// NearMA reports whether the latest close sits within tolerance of its
// period-bar moving average: |close - MA| / MA < tolerance.
func NearMA(bars []model.OHLCV, period int, tolerance float64) bool {
	ma, err := SMA(Closes(bars), period)
	if err != nil || ma == 0 {
		return false
	}
	current := bars[len(bars)-1].Close
	return math.Abs(current-ma)/ma < tolerance
}

// WithinMABand reports whether the latest close lies inside the band
// [MA*lower, MA*upper], the wave screener's wide MA240 membership check.
func WithinMABand(bars []model.OHLCV, period int, lower, upper float64) bool {
	ma, err := SMA(Closes(bars), period)
	if err != nil {
		return false
	}
	current := bars[len(bars)-1].Close
	return current >= ma*lower && current <= ma*upper
}

// maTransitionLookback is how many recent bars a fast/slow crossover is
// still counted as a transition.
const maTransitionLookback = 5

// MATransition reports whether the fast moving average crossed above the
// slow one within the last five bars, or already sits above it.
func MATransition(bars []model.OHLCV, fast, slow int) bool {
	closes := Closes(bars)
	if len(closes) < slow+1 {
		return false
	}
	fastMA := SMASeries(closes, fast)
	slowMA := SMASeries(closes, slow)
	n := len(closes)

	if fastMA[n-1] > slowMA[n-1] {
		return true
	}
	for i := n - maTransitionLookback; i < n; i++ {
		if i < slow {
			continue // both averages must be fully formed at i-1
		}
		if fastMA[i-1] < slowMA[i-1] && fastMA[i] > slowMA[i] {
			return true
		}
	}
	return false
}

// MAStacked reports whether the moving averages at the given periods are in
// strictly descending order, e.g. MA20 > MA60 > MA120 for a bull stack.
func MAStacked(bars []model.OHLCV, periods ...int) bool {
	if len(periods) < 2 {
		return false
	}
	closes := Closes(bars)
	prev := math.Inf(1)
	for _, p := range periods {
		ma, err := SMA(closes, p)
		if err != nil {
			return false
		}
		if ma >= prev {
			return false
		}
		prev = ma
	}
	return true
}

// AboveMA reports whether the latest close is above its period-bar moving
// average.
func AboveMA(bars []model.OHLCV, period int) bool {
	ma, err := SMA(Closes(bars), period)
	if err != nil {
		return false
	}
	return bars[len(bars)-1].Close > ma
}
