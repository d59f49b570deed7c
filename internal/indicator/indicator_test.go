package indicator

import (
	"math"
	"testing"
	"time"

	"StockScout/internal/model"
)

func barsFromCloses(closes ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestSMA_InsufficientData(t *testing.T) {
	if _, err := SMA([]float64{1, 2, 3}, 5); err == nil {
		t.Fatal("expected error for short input")
	}
	if _, err := SMA([]float64{1, 2, 3}, 0); err == nil {
		t.Fatal("expected error for non-positive period")
	}
}

func TestSMASeries_Warmup(t *testing.T) {
	s := SMASeries([]float64{1, 2, 3, 4}, 3)
	if !math.IsNaN(s[0]) || !math.IsNaN(s[1]) {
		t.Error("expected NaN before the window fills")
	}
	if s[2] != 2 || s[3] != 3 {
		t.Errorf("expected [_, _, 2, 3], got %v", s)
	}
}

func TestMATransition_CrossoverAtKnownBar(t *testing.T) {
	// 70 flat bars at 100, then a ramp: the 5-bar MA crosses above the
	// 20-bar MA shortly after the ramp begins and stays above.
	closes := make([]float64, 0, 90)
	for i := 0; i < 70; i++ {
		closes = append(closes, 100)
	}
	for i := 0; i < 20; i++ {
		closes = append(closes, 100+float64(i+1)*2)
	}
	bars := barsFromCloses(closes...)

	// Find the first prefix where the transition flag turns on.
	crossBar := -1
	for n := 25; n <= len(bars); n++ {
		if MATransition(bars[:n], 5, 20) {
			crossBar = n
			break
		}
	}
	if crossBar == -1 {
		t.Fatal("expected a crossover somewhere in the ramp")
	}
	if crossBar <= 70 {
		t.Fatalf("crossover flagged during the flat stretch, at prefix %d", crossBar)
	}
	// Once above, the flag must hold for every later prefix.
	for n := crossBar; n <= len(bars); n++ {
		if !MATransition(bars[:n], 5, 20) {
			t.Fatalf("flag dropped at prefix %d after crossover at %d", n, crossBar)
		}
	}
}

func TestMATransition_InsufficientData(t *testing.T) {
	if MATransition(barsFromCloses(1, 2, 3), 5, 20) {
		t.Error("expected false on short series")
	}
}

func TestRSI_Bounds(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/3)
	}
	rsi, err := RSI(barsFromCloses(closes...), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi < 0 || rsi > 100 {
		t.Errorf("RSI out of bounds: %.2f", rsi)
	}
}

func TestRSI_AllGainsResolvesTo100(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi, err := RSI(barsFromCloses(closes...), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("expected RSI=100 when average loss is zero, got %.2f", rsi)
	}
}

func TestRSI_InsufficientData(t *testing.T) {
	if _, err := RSI(barsFromCloses(1, 2, 3), 14); err == nil {
		t.Fatal("expected error on short series")
	}
	if Oversold(barsFromCloses(1, 2, 3)) {
		t.Error("oversold check must fail closed on short series")
	}
}

func TestOBV_StrictlyRisingPath(t *testing.T) {
	bars := barsFromCloses(10, 11, 12, 13, 14)
	for i := range bars {
		bars[i].Volume = float64((i + 1) * 100)
	}
	obv := OBVSeries(bars)
	// OBV(t) = OBV(0) + sum(volumes[1..t]) on a strictly increasing path.
	want := bars[0].Volume
	for i := 1; i < len(bars); i++ {
		want += bars[i].Volume
		if obv[i] != want {
			t.Fatalf("obv[%d]=%.0f, want %.0f", i, obv[i], want)
		}
	}
}

func TestOBV_FlatCloseHolds(t *testing.T) {
	bars := barsFromCloses(10, 10, 9, 10)
	bars[1].Volume = 500
	obv := OBVSeries(bars)
	if obv[1] != obv[0] {
		t.Errorf("flat close should hold OBV, got %.0f -> %.0f", obv[0], obv[1])
	}
	if obv[2] != obv[1]-bars[2].Volume {
		t.Errorf("down close should subtract volume")
	}
}

func TestVolumeSpike(t *testing.T) {
	bars := barsFromCloses(make([]float64, 12)...)
	for i := range bars {
		bars[i].Close = 100
		bars[i].Volume = 1000
	}
	bars[len(bars)-1].Volume = 2500
	if !VolumeSpike(bars) {
		t.Error("expected spike at 2.5x trailing average")
	}
	bars[len(bars)-1].Volume = 1900
	if VolumeSpike(bars) {
		t.Error("expected no spike below 2x")
	}
	if VolumeSpike(bars[:5]) {
		t.Error("expected false with fewer than 11 bars")
	}
}

func TestVolumeDecreasePattern(t *testing.T) {
	bars := barsFromCloses(1, 1, 1, 1, 1)
	vols := []float64{100, 900, 700, 500, 2000}
	for i := range bars {
		bars[i].Volume = vols[i]
	}
	if !VolumeDecreasePattern(bars) {
		t.Error("expected contracting volume pattern")
	}
}

func TestPctB_ZeroWidthBand(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100 // zero variance, band collapses
	}
	if _, err := PctB(barsFromCloses(closes...)); err == nil {
		t.Fatal("expected error for collapsed band")
	}
	if NearLowerBand(barsFromCloses(closes...)) {
		t.Error("collapsed band must fail the lower-band check")
	}
}

func TestFib_DeclineThenReboundClassification(t *testing.T) {
	// Flat, peak at 100, decline to trough at 50, rebound to 69:
	// ratio (69-50)/50 = 0.38 falls in the 0.382 bracket.
	closes := []float64{80, 80, 80, 100, 90, 75, 60, 50, 55, 62, 69}
	bars := barsFromCloses(closes...)
	// Widen highs/lows so the peak/trough are unambiguous.
	for i := range bars {
		bars[i].High = closes[i]
		bars[i].Low = closes[i]
	}

	ret, err := IdentifyRetracement(bars, len(bars))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ret.Direction != DeclineThenRebound {
		t.Fatalf("expected decline-then-rebound, got %s", ret.Direction)
	}
	if ret.Peak != 100 || ret.Trough != 50 {
		t.Fatalf("expected swing 100->50, got %.0f->%.0f", ret.Peak, ret.Trough)
	}
	if ret.Bracket != 0.382 {
		t.Errorf("expected 0.382 bracket for ratio %.3f, got %.3f", ret.Ratio, ret.Bracket)
	}
	if !ret.InZone {
		t.Error("expected close inside the 23.6-38.2%% zone")
	}
	if !ret.Rebound {
		t.Error("expected rebound flag, close rose on the last bar")
	}
}

func TestFib_NoPatternFailsClosed(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	bars := barsFromCloses(closes...)
	for i := range bars {
		bars[i].High = 100
		bars[i].Low = 100
	}
	if _, err := IdentifyRetracement(bars, 30); err == nil {
		t.Fatal("expected error when no peak/trough exists")
	}
}

func TestFibLevels(t *testing.T) {
	levels := FibLevels(100, 50)
	want := []float64{50, 61.8, 69.1, 75, 80.9, 89.3, 100}
	if len(levels) != len(want) {
		t.Fatalf("expected %d levels, got %d", len(want), len(levels))
	}
	for i := range want {
		if math.Abs(levels[i]-want[i]) > 1e-9 {
			t.Errorf("level %d: expected %.1f, got %.4f", i, want[i], levels[i])
		}
	}
}

func TestFibBracket_Edges(t *testing.T) {
	tests := []struct {
		ratio float64
		want  float64
	}{
		{0, 0},
		{0.1, 0.236},
		{0.236, 0.236},
		{0.3, 0.382},
		{0.382, 0.382},
		{0.55, 0.618},
		{0.9, 1.0},
		{1.0, 1.0},
	}
	for _, tt := range tests {
		if got := FibBracket(tt.ratio); got != tt.want {
			t.Errorf("FibBracket(%.3f)=%.3f, want %.3f", tt.ratio, got, tt.want)
		}
	}
}

func TestMACD_InsufficientData(t *testing.T) {
	if GoldenCross(barsFromCloses(1, 2, 3, 4, 5)) {
		t.Error("golden cross must fail closed on short series")
	}
	if HistRising(barsFromCloses(1, 2, 3, 4, 5)) {
		t.Error("histogram check must fail closed on short series")
	}
}

func TestGoldenCross_SyntheticTurn(t *testing.T) {
	// Long decline then a sharp recovery: the MACD line eventually crosses
	// back above its signal line.
	closes := make([]float64, 0, 120)
	for i := 0; i < 80; i++ {
		closes = append(closes, 200-float64(i))
	}
	for i := 0; i < 40; i++ {
		closes = append(closes, 120+float64(i)*3)
	}
	bars := barsFromCloses(closes...)

	crossed := false
	for n := 40; n <= len(bars); n++ {
		if GoldenCross(bars[:n]) {
			crossed = true
			break
		}
	}
	if !crossed {
		t.Error("expected a golden cross during the recovery leg")
	}
}
