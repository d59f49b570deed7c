package marketdata

import (
	"errors"
	"time"

	"StockScout/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
// Unset fields yield empty results; Err, when set, is returned by every
// call.
type MockProvider struct {
	Codes   []string
	Names   map[string]string
	Markets map[string]model.Market
	Bars    map[string][]model.OHLCV
	Caps    map[string]float64
	Flows   map[string][]float64
	Err     error
}

func (m *MockProvider) ListInstruments(_ time.Time) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Codes, nil
}

func (m *MockProvider) InstrumentName(code string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if name, ok := m.Names[code]; ok {
		return name, nil
	}
	return "", errors.New("unknown instrument " + code)
}

func (m *MockProvider) InstrumentMarket(code string) (model.Market, error) {
	if m.Err != nil {
		return model.MarketUnknown, m.Err
	}
	if mk, ok := m.Markets[code]; ok {
		return mk, nil
	}
	return model.MarketKOSPI, nil
}

func (m *MockProvider) OHLCV(code string, _ model.AnalysisWindow, _ bool, _ Frequency) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars[code], nil
}

func (m *MockProvider) MarketCap(code string, _ model.AnalysisWindow) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Caps[code], nil
}

func (m *MockProvider) InstitutionalFlow(code string, _ model.AnalysisWindow, _ string) ([]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Flows[code], nil
}
