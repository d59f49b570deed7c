package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"StockScout/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordScreen_SplitsByMarket(t *testing.T) {
	r := openTestRecorder(t)
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	records := []model.StockRecord{
		{Date: date, Code: "005930", Name: "삼성전자", Market: model.MarketKOSPI, Price: 71000, Screener: "breakout-largecap"},
		{Date: date, Code: "035720", Name: "카카오", Market: model.MarketKOSDAQ, Price: 42000, Screener: "wave-scored", Score: 8},
		{Date: date, Code: "000001", Name: "미분류", Market: model.MarketUnknown, Screener: "wave-scored"},
	}
	if err := r.RecordScreen(records); err != nil {
		t.Fatalf("record: %v", err)
	}

	for table, want := range map[string]int{"kospi_stocks": 1, "kosdaq_stocks": 1} {
		var n int
		if err := r.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != want {
			t.Errorf("%s: expected %d rows, got %d", table, want, n)
		}
	}
}

func TestRecordScreen_UpsertsSameDay(t *testing.T) {
	r := openTestRecorder(t)
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	rec := model.StockRecord{Date: date, Code: "005930", Name: "삼성전자", Market: model.MarketKOSPI, Price: 70000, Screener: "breakout-largecap"}

	if err := r.RecordScreen([]model.StockRecord{rec}); err != nil {
		t.Fatal(err)
	}
	rec.Price = 71500
	if err := r.RecordScreen([]model.StockRecord{rec}); err != nil {
		t.Fatal(err)
	}

	var n int
	var price float64
	if err := r.db.QueryRow("SELECT COUNT(*), MAX(price) FROM kospi_stocks").Scan(&n, &price); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("rerun on the same day must not duplicate rows, got %d", n)
	}
	if price != 71500 {
		t.Errorf("rerun must refresh the price, got %.0f", price)
	}
}

func TestRecordTrend(t *testing.T) {
	r := openTestRecorder(t)
	err := r.RecordTrend(&model.TrendResult{
		Symbol: "TQQQ", ClosePrice: 90, MA200: 100, Envelope: 110,
		Recommendation: model.RecommendDefensive,
	})
	if err != nil {
		t.Fatalf("record trend: %v", err)
	}

	var rec string
	if err := r.db.QueryRow("SELECT recommendation FROM trend_alerts").Scan(&rec); err != nil {
		t.Fatal(err)
	}
	if rec != string(model.RecommendDefensive) {
		t.Errorf("expected %s, got %s", model.RecommendDefensive, rec)
	}
}
