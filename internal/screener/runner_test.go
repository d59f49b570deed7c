package screener

import (
	"errors"
	"testing"
	"time"

	"StockScout/internal/marketdata"
	"StockScout/internal/model"
)

// alwaysPass selects every instrument that survives the eligibility filter,
// isolating the runner mechanics from indicator math.
var alwaysPass = RuleSet{
	Name:         "always-pass",
	Mode:         GateAll,
	LookbackDays: 30,
	MinDailyBars: 1,
	Criteria: []Criterion{
		{Name: "anything", Check: func(*Instrument) bool { return true }},
	},
}

func fewBars(closes ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 100}
	}
	return bars
}

func threeCodeProvider() *marketdata.MockProvider {
	return &marketdata.MockProvider{
		Codes: []string{"000100", "000200", "000300"},
		Names: map[string]string{
			"000100": "가전자",
			"000200": "나화학",
			"000300": "다금융",
		},
		Markets: map[string]model.Market{
			"000100": model.MarketKOSPI,
			"000200": model.MarketKOSDAQ,
			"000300": model.MarketKOSPI,
		},
		Bars: map[string][]model.OHLCV{
			"000100": fewBars(100, 110),
			"000200": fewBars(200, 190),
			"000300": fewBars(300, 300),
		},
	}
}

// panicProvider panics inside OHLCV for one code to simulate a fault in the
// middle of an evaluation.
type panicProvider struct {
	*marketdata.MockProvider
	panicCode string
}

func (p *panicProvider) OHLCV(code string, w model.AnalysisWindow, adjusted bool, freq marketdata.Frequency) ([]model.OHLCV, error) {
	if code == p.panicCode {
		panic("simulated fault for " + code)
	}
	return p.MockProvider.OHLCV(code, w, adjusted, freq)
}

func TestRunner_AllEligibleSelected(t *testing.T) {
	r := NewRunner(threeCodeProvider())
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	results, err := r.Run(end, alwaysPass)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// GateAll results come back ordered by code.
	for i, want := range []string{"000100", "000200", "000300"} {
		if results[i].Code != want {
			t.Errorf("result %d: expected %s, got %s", i, want, results[i].Code)
		}
	}
	if results[1].Market != model.MarketKOSDAQ {
		t.Errorf("expected 000200 classified KOSDAQ, got %s", results[1].Market)
	}
	if results[0].Price != 110 {
		t.Errorf("expected latest close 110, got %.1f", results[0].Price)
	}
	if results[0].ChangeRate != 10 {
		t.Errorf("expected +10%% change rate, got %.2f", results[0].ChangeRate)
	}
}

func TestRunner_PanicIsolatedToOneInstrument(t *testing.T) {
	r := NewRunner(&panicProvider{MockProvider: threeCodeProvider(), panicCode: "000200"})
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	results, err := r.Run(end, alwaysPass)
	if err != nil {
		t.Fatalf("a per-instrument panic must not fail the batch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected the 2 healthy instruments, got %d", len(results))
	}
	for _, res := range results {
		if res.Code == "000200" {
			t.Error("the panicking instrument must be dropped")
		}
	}
}

func TestRunner_UniverseFailureAbortsRun(t *testing.T) {
	boom := errors.New("exchange offline")
	r := NewRunner(&marketdata.MockProvider{Err: boom})

	if _, err := r.Run(time.Now(), alwaysPass); !errors.Is(err, boom) {
		t.Fatalf("expected the universe error to abort the run, got %v", err)
	}
}

func TestRunner_IneligibleAndUnnamedSkipped(t *testing.T) {
	p := threeCodeProvider()
	p.Codes = append(p.Codes, "000405", "000500") // preferred suffix; no name
	r := NewRunner(p)

	results, err := r.Run(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), alwaysPass)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected only the 3 eligible named instruments, got %d", len(results))
	}
}

func TestRunner_ScoreOrdering(t *testing.T) {
	// Score equals the last close so ordering is observable from fixtures.
	byPrice := RuleSet{
		Name:         "by-price",
		Mode:         ScoreThreshold,
		Threshold:    1,
		LookbackDays: 30,
		MinDailyBars: 1,
		Criteria: []Criterion{
			{Name: "low", Points: 1, Check: func(inst *Instrument) bool {
				return inst.Daily[len(inst.Daily)-1].Close >= 100
			}},
			{Name: "mid", Points: 1, Check: func(inst *Instrument) bool {
				return inst.Daily[len(inst.Daily)-1].Close >= 200
			}},
			{Name: "high", Points: 1, Check: func(inst *Instrument) bool {
				return inst.Daily[len(inst.Daily)-1].Close >= 250
			}},
		},
	}

	r := NewRunner(threeCodeProvider())
	results, err := r.Run(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), byPrice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Score < results[i].Score {
			t.Fatalf("results not sorted by score desc: %d before %d",
				results[i-1].Score, results[i].Score)
		}
	}
	if results[0].Code != "000300" {
		t.Errorf("highest scorer should rank first, got %s", results[0].Code)
	}
}
