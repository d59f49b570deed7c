package screener

import (
	"fmt"

	"StockScout/internal/indicator"
	"StockScout/internal/marketdata"
	"StockScout/internal/model"
)

// TrendConfig parameterizes the single-instrument trend screener.
type TrendConfig struct {
	Symbol        string
	MAPeriod      int
	EnvelopeRatio float64
	LookbackDays  int
}

// DefaultTrendConfig is the shipped leveraged-ETF rotation: 200-day MA with
// a 10% envelope on TQQQ.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		Symbol:        "TQQQ",
		MAPeriod:      200,
		EnvelopeRatio: 1.10,
		LookbackDays:  365,
	}
}

// EvaluateTrend maps the latest close against its long moving average and
// envelope to one of three mutually exclusive recommendations. It needs at
// least MAPeriod bars; anything less is an insufficient-data error, never a
// guessed recommendation.
func EvaluateTrend(bars []model.OHLCV, cfg TrendConfig) (*model.TrendResult, error) {
	ma, err := indicator.SMA(indicator.Closes(bars), cfg.MAPeriod)
	if err != nil {
		return nil, fmt.Errorf("trend %s: %w", cfg.Symbol, err)
	}
	envelope := ma * cfg.EnvelopeRatio
	closePrice := bars[len(bars)-1].Close

	var rec model.Recommendation
	switch {
	case closePrice < ma:
		rec = model.RecommendDefensive
	case closePrice < envelope:
		rec = model.RecommendHold
	default:
		rec = model.RecommendRotate
	}

	return &model.TrendResult{
		Symbol:         cfg.Symbol,
		ClosePrice:     closePrice,
		MA200:          ma,
		Envelope:       envelope,
		Diff:           closePrice - ma,
		Recommendation: rec,
	}, nil
}

// TrendScreener fetches the configured symbol's history and evaluates it.
type TrendScreener struct {
	Source marketdata.TrendSource
	Config TrendConfig
}

// Run fetches and evaluates in one step.
func (s *TrendScreener) Run() (*model.TrendResult, error) {
	bars, err := s.Source.DailyBars(s.Config.Symbol, s.Config.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", s.Config.Symbol, err)
	}
	return EvaluateTrend(bars, s.Config)
}
