package model

import "time"

// Market identifies the exchange an instrument trades on.
type Market string

const (
	MarketKOSPI   Market = "KOSPI"
	MarketKOSDAQ  Market = "KOSDAQ"
	MarketUnknown Market = "UNKNOWN"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// InstrumentMeta holds per-instrument reference data fetched at run time.
// MarketCap is zero when the upstream has no figure; a zero cap fails any
// cap-floor criterion instead of raising.
type InstrumentMeta struct {
	Code      string
	Name      string
	Market    Market
	MarketCap float64
}

// AnalysisWindow is the immutable query range of a single screener run.
// It is passed explicitly into every per-instrument evaluation; no global
// date state exists anywhere in the pipeline.
type AnalysisWindow struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window ending at end and reaching back the given
// number of calendar days.
func NewWindow(end time.Time, lookbackDays int) AnalysisWindow {
	return AnalysisWindow{
		Start: end.AddDate(0, 0, -lookbackDays),
		End:   end,
	}
}
