package indicator

import (
	"errors"
	"math"

	"StockScout/internal/model"
)

const rsiPeriod = 14

// RSISeries computes the Wilder-smoothed RSI over the given period for every
// bar. Positions before the first full period hold NaN. When the average
// loss is exactly zero the RSI resolves to 100.
func RSISeries(bars []model.OHLCV, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	closes := Closes(bars)
	if len(closes) < period+1 {
		return nil, ErrInsufficientData
	}

	out := make([]float64, len(closes))
	for i := 0; i < period; i++ {
		out[i] = math.NaN()
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFrom(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiFrom(avgGain, avgLoss)
	}
	return out, nil
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// RSI returns the latest Wilder-smoothed RSI value.
func RSI(bars []model.OHLCV, period int) (float64, error) {
	series, err := RSISeries(bars, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// Oversold reports whether the latest RSI(14) is below 30.
func Oversold(bars []model.OHLCV) bool {
	rsi, err := RSI(bars, rsiPeriod)
	if err != nil {
		return false
	}
	return rsi < 30
}

// RSIRising reports whether the RSI(14) has risen strictly over the last
// three values.
func RSIRising(bars []model.OHLCV) bool {
	series, err := RSISeries(bars, rsiPeriod)
	if err != nil || len(series) < rsiPeriod+3 {
		return false
	}
	n := len(series)
	return series[n-1] > series[n-2] && series[n-2] > series[n-3]
}
