package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"StockScout/internal/model"
)

// KRXClient implements Provider against a KRX market-data REST gateway.
// A token-bucket limiter throttles outgoing calls and a circuit breaker
// stops hammering the gateway once it starts failing consistently; a
// rejected call surfaces as an ordinary transient error and folds into the
// retry layer above.
type KRXClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewKRXClient creates a client with optional proxy support. rps bounds the
// request rate; zero or negative means 5 requests per second.
func NewKRXClient(baseURL, apiKey, proxyURL string, rps float64) *KRXClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if rps <= 0 {
		rps = 5
	}
	return &KRXClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "krx",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 10
			},
		}),
	}
}

// getJSON performs a rate-limited GET through the breaker and decodes the
// body into out. A body that fails to decode is reported as ErrMalformed.
func (c *KRXClient) getJSON(path string, params url.Values, out any) error {
	if err := c.limiter.Wait(context.Background()); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequest("GET", endpoint, nil)
		if err != nil {
			return nil, err
		}
		if c.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.APIKey)
		}
		resp, err := c.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", path, err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("get %s: status %d, body: %s", path, resp.StatusCode, string(body))
		}
		return body, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw.([]byte), out); err != nil {
		return fmt.Errorf("decode %s: %w: %v", path, ErrMalformed, err)
	}
	return nil
}

func (c *KRXClient) ListInstruments(asOf time.Time) ([]string, error) {
	params := url.Values{"date": {asOf.Format("20060102")}}
	var result struct {
		Codes []string `json:"codes"`
	}
	if err := c.getJSON("/api/v1/instruments", params, &result); err != nil {
		return nil, err
	}
	return result.Codes, nil
}

func (c *KRXClient) instrumentInfo(code string) (name string, market string, err error) {
	var result struct {
		Code   string `json:"code"`
		Name   string `json:"name"`
		Market string `json:"market"`
	}
	if err := c.getJSON("/api/v1/instruments/"+url.PathEscape(code), nil, &result); err != nil {
		return "", "", err
	}
	return result.Name, result.Market, nil
}

func (c *KRXClient) InstrumentName(code string) (string, error) {
	name, _, err := c.instrumentInfo(code)
	return name, err
}

func (c *KRXClient) InstrumentMarket(code string) (model.Market, error) {
	_, market, err := c.instrumentInfo(code)
	if err != nil {
		return model.MarketUnknown, err
	}
	switch market {
	case "KOSPI":
		return model.MarketKOSPI, nil
	case "KOSDAQ":
		return model.MarketKOSDAQ, nil
	default:
		return model.MarketUnknown, nil
	}
}

// krxBar is the wire shape of one candle.
type krxBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (c *KRXClient) OHLCV(code string, w model.AnalysisWindow, adjusted bool, freq Frequency) ([]model.OHLCV, error) {
	params := url.Values{
		"code": {code},
		"from": {w.Start.Format("20060102")},
		"to":   {w.End.Format("20060102")},
		"freq": {string(freq)},
	}
	if adjusted {
		params.Set("adjusted", "true")
	}
	var krxBars []krxBar
	if err := c.getJSON("/api/v1/ohlcv", params, &krxBars); err != nil {
		return nil, err
	}
	bars := make([]model.OHLCV, len(krxBars))
	for i, kb := range krxBars {
		bars[i] = model.OHLCV{
			Time:   time.Unix(kb.Timestamp, 0),
			Open:   kb.Open,
			High:   kb.High,
			Low:    kb.Low,
			Close:  kb.Close,
			Volume: kb.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (c *KRXClient) MarketCap(code string, w model.AnalysisWindow) (float64, error) {
	params := url.Values{
		"code": {code},
		"from": {w.Start.Format("20060102")},
		"to":   {w.End.Format("20060102")},
	}
	var rows []struct {
		Timestamp int64   `json:"timestamp"`
		MarketCap float64 `json:"market_cap"`
	}
	if err := c.getJSON("/api/v1/marketcap", params, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil // unknown cap fails cap floors downstream
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp < rows[j].Timestamp })
	return rows[len(rows)-1].MarketCap, nil
}

func (c *KRXClient) InstitutionalFlow(code string, w model.AnalysisWindow, investor string) ([]float64, error) {
	params := url.Values{
		"code":     {code},
		"from":     {w.Start.Format("20060102")},
		"to":       {w.End.Format("20060102")},
		"investor": {investor},
	}
	var rows []struct {
		Timestamp int64   `json:"timestamp"`
		Buy       float64 `json:"buy"`
		Sell      float64 `json:"sell"`
	}
	if err := c.getJSON("/api/v1/investor-flow", params, &rows); err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp < rows[j].Timestamp })
	net := make([]float64, len(rows))
	for i, r := range rows {
		net[i] = r.Buy - r.Sell
	}
	return net, nil
}
