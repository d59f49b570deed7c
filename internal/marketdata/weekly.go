package marketdata

import "StockScout/internal/model"

// AggregateWeekly folds daily bars into ISO-week bars: first open, max
// high, min low, last close, summed volume. Input must be ascending by
// date.
func AggregateWeekly(daily []model.OHLCV) []model.OHLCV {
	if len(daily) == 0 {
		return nil
	}
	var weekly []model.OHLCV
	var week model.OHLCV
	var started bool

	for _, d := range daily {
		year, isoWeek := d.Time.ISOWeek()
		key := year*100 + isoWeek

		if !started {
			week = model.OHLCV{Time: d.Time, Open: d.Open, High: d.High, Low: d.Low, Close: d.Close, Volume: d.Volume}
			started = true
			continue
		}

		cy, cw := week.Time.ISOWeek()
		currentKey := cy*100 + cw

		if key != currentKey {
			weekly = append(weekly, week)
			week = model.OHLCV{Time: d.Time, Open: d.Open, High: d.High, Low: d.Low, Close: d.Close, Volume: d.Volume}
		} else {
			if d.High > week.High {
				week.High = d.High
			}
			if d.Low < week.Low {
				week.Low = d.Low
			}
			week.Close = d.Close
			week.Volume += d.Volume
		}
	}
	if started {
		weekly = append(weekly, week)
	}
	return weekly
}
