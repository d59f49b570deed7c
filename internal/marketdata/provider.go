package marketdata

import (
	"errors"
	"time"

	"StockScout/internal/model"
)

// Frequency selects the bar interval of an OHLCV query.
type Frequency string

const (
	FreqDaily  Frequency = "d"
	FreqWeekly Frequency = "w"
)

var (
	// ErrMalformed marks a non-JSON or otherwise unparseable upstream
	// response. The retry layer treats it as a rate-limit signal and doubles
	// its delay.
	ErrMalformed = errors.New("malformed upstream response")

	// ErrUnavailable is the definitive failure after all retries are
	// exhausted. Callers skip the instrument; only universe enumeration
	// treats it as fatal.
	ErrUnavailable = errors.New("upstream unavailable")
)

// Provider is the read-only market data boundary. All calls are idempotent;
// empty results are valid and are not retried.
type Provider interface {
	// ListInstruments returns every tradable instrument code as of the date.
	ListInstruments(asOf time.Time) ([]string, error)
	// InstrumentName returns the display name for a code.
	InstrumentName(code string) (string, error)
	// InstrumentMarket returns the exchange classification for a code.
	InstrumentMarket(code string) (model.Market, error)
	// OHLCV returns bars within the window, ascending by date.
	OHLCV(code string, w model.AnalysisWindow, adjusted bool, freq Frequency) ([]model.OHLCV, error)
	// MarketCap returns the latest market capitalization within the window,
	// or zero when the upstream has no figure.
	MarketCap(code string, w model.AnalysisWindow) (float64, error)
	// InstitutionalFlow returns the daily net traded value (buys minus
	// sells) of the given investor class within the window.
	InstitutionalFlow(code string, w model.AnalysisWindow, investor string) ([]float64, error)
}
