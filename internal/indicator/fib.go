package indicator

import (
	"errors"

	"StockScout/internal/model"
)

// Direction classifies the swing a retracement is measured against.
type Direction string

const (
	// DeclineThenRebound: price fell from a peak to a later trough and is
	// now recovering; the ratio measures how far it has climbed off the low.
	DeclineThenRebound Direction = "DECLINE_THEN_REBOUND"
	// RiseThenCorrection: price rose from a trough to a later peak and is
	// now pulling back; the ratio measures how far it has given back.
	RiseThenCorrection Direction = "RISE_THEN_CORRECTION"
)

// FibRatios are the standard retracement levels, ascending.
var FibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1.0}

// Retracement describes the most recent peak/trough swing and where the
// current close sits within it.
type Retracement struct {
	Peak      float64
	Trough    float64
	Direction Direction
	Ratio     float64 // position of the current close within the swing
	Bracket   float64 // the FibRatios level the close falls under
	InZone    bool    // Bracket == 0.382, the 23.6-38.2% band
	Rebound   bool    // latest close above the prior close
}

// LocalPeaks returns the indices of bars whose high strictly exceeds both
// immediate neighbors, scanned over the most recent lookback bars.
func LocalPeaks(bars []model.OHLCV, lookback int) []int {
	return localExtremes(bars, lookback, func(prev, cur, next model.OHLCV) bool {
		return cur.High > prev.High && cur.High > next.High
	})
}

// LocalTroughs returns the indices of bars whose low is strictly below both
// immediate neighbors, scanned over the most recent lookback bars.
func LocalTroughs(bars []model.OHLCV, lookback int) []int {
	return localExtremes(bars, lookback, func(prev, cur, next model.OHLCV) bool {
		return cur.Low < prev.Low && cur.Low < next.Low
	})
}

func localExtremes(bars []model.OHLCV, lookback int, match func(prev, cur, next model.OHLCV) bool) []int {
	start := len(bars) - lookback
	if start < 1 {
		start = 1
	}
	var idx []int
	for i := start; i < len(bars)-1; i++ {
		if match(bars[i-1], bars[i], bars[i+1]) {
			idx = append(idx, i)
		}
	}
	return idx
}

// FibLevels computes the retracement price levels between trough and peak
// at each of FibRatios, ascending from the trough.
func FibLevels(peak, trough float64) []float64 {
	span := peak - trough
	levels := make([]float64, len(FibRatios))
	for i, r := range FibRatios {
		levels[i] = trough + span*r
	}
	return levels
}

// FibBracket maps a retracement ratio to the smallest FibRatios level that
// contains it. Ratios outside [0, 1] clamp to the edge levels.
func FibBracket(ratio float64) float64 {
	for _, r := range FibRatios {
		if ratio <= r {
			return r
		}
	}
	return 1.0
}

// IdentifyRetracement finds the most recent local peak and trough within
// lookback bars and locates the current close within that swing. The later
// extreme decides the direction. Degenerate swings (peak not above trough,
// no extremes found) yield an error, which callers treat as check-fails.
func IdentifyRetracement(bars []model.OHLCV, lookback int) (*Retracement, error) {
	if len(bars) < 3 {
		return nil, ErrInsufficientData
	}
	peaks := LocalPeaks(bars, lookback)
	troughs := LocalTroughs(bars, lookback)
	if len(peaks) == 0 || len(troughs) == 0 {
		return nil, errors.New("no peak/trough pattern in window")
	}

	peakIdx := peaks[len(peaks)-1]
	troughIdx := troughs[len(troughs)-1]
	peak := bars[peakIdx].High
	trough := bars[troughIdx].Low
	span := peak - trough
	if span <= 0 {
		return nil, errors.New("degenerate swing: peak not above trough")
	}

	direction := RiseThenCorrection
	if troughIdx > peakIdx {
		direction = DeclineThenRebound
	}

	current := bars[len(bars)-1].Close
	var ratio float64
	if direction == DeclineThenRebound {
		ratio = (current - trough) / span
	} else {
		ratio = (peak - current) / span
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	bracket := FibBracket(ratio)
	return &Retracement{
		Peak:      peak,
		Trough:    trough,
		Direction: direction,
		Ratio:     ratio,
		Bracket:   bracket,
		InZone:    bracket == 0.382,
		Rebound:   len(bars) >= 2 && bars[len(bars)-1].Close > bars[len(bars)-2].Close,
	}, nil
}
