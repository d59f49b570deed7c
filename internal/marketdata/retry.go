package marketdata

import (
	"errors"
	"fmt"
	"log"
	"time"

	"StockScout/internal/model"
)

const (
	// DefaultAttempts is how many times a single upstream call is tried
	// before it degrades to ErrUnavailable.
	DefaultAttempts = 5
	// DefaultDelay is the sleep between attempts. It doubles after a
	// malformed response, which the upstream emits when rate-limiting.
	DefaultDelay = 3 * time.Second
)

// RetryProvider decorates a Provider with bounded retry. Errors from the
// wrapped provider never propagate raw: every call either succeeds or
// returns an error wrapping ErrUnavailable after the attempt budget is
// spent.
type RetryProvider struct {
	inner    Provider
	attempts int
	delay    time.Duration
	sleep    func(time.Duration)
}

// NewRetryProvider wraps p. Non-positive attempts or delay fall back to the
// defaults.
func NewRetryProvider(p Provider, attempts int, delay time.Duration) *RetryProvider {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &RetryProvider{inner: p, attempts: attempts, delay: delay, sleep: time.Sleep}
}

func retry[T any](r *RetryProvider, op string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	delay := r.delay
	for attempt := 1; attempt <= r.attempts; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
		log.Printf("[WARN] %s failed (attempt %d/%d): %v", op, attempt, r.attempts, err)
		if attempt == r.attempts {
			break
		}
		if errors.Is(err, ErrMalformed) {
			delay *= 2
		}
		r.sleep(delay)
	}
	return zero, fmt.Errorf("%s after %d attempts: %w: %w", op, r.attempts, ErrUnavailable, lastErr)
}

func (r *RetryProvider) ListInstruments(asOf time.Time) ([]string, error) {
	return retry(r, "list instruments", func() ([]string, error) {
		return r.inner.ListInstruments(asOf)
	})
}

func (r *RetryProvider) InstrumentName(code string) (string, error) {
	return retry(r, "instrument name "+code, func() (string, error) {
		return r.inner.InstrumentName(code)
	})
}

func (r *RetryProvider) InstrumentMarket(code string) (model.Market, error) {
	return retry(r, "instrument market "+code, func() (model.Market, error) {
		return r.inner.InstrumentMarket(code)
	})
}

func (r *RetryProvider) OHLCV(code string, w model.AnalysisWindow, adjusted bool, freq Frequency) ([]model.OHLCV, error) {
	return retry(r, "ohlcv "+code, func() ([]model.OHLCV, error) {
		return r.inner.OHLCV(code, w, adjusted, freq)
	})
}

func (r *RetryProvider) MarketCap(code string, w model.AnalysisWindow) (float64, error) {
	return retry(r, "market cap "+code, func() (float64, error) {
		return r.inner.MarketCap(code, w)
	})
}

func (r *RetryProvider) InstitutionalFlow(code string, w model.AnalysisWindow, investor string) ([]float64, error) {
	return retry(r, "institutional flow "+code, func() ([]float64, error) {
		return r.inner.InstitutionalFlow(code, w, investor)
	})
}
