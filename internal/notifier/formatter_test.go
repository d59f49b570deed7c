package notifier

import (
	"strings"
	"testing"

	"StockScout/internal/model"
)

func TestFormatTrendReport(t *testing.T) {
	res := &model.TrendResult{
		Symbol:         "TQQQ",
		ClosePrice:     90,
		MA200:          100,
		Envelope:       110,
		Diff:           -10,
		Recommendation: model.RecommendDefensive,
	}
	msg := FormatTrendReport(res)
	if !strings.Contains(msg, "SGOV") {
		t.Error("defensive report must name the defensive instrument")
	}
	if !strings.Contains(msg, "TQQQ") {
		t.Error("report must name the screened symbol")
	}
}

func TestFormatScreenReport_GroupsByMarket(t *testing.T) {
	results := []model.ScreenResult{
		{Code: "005930", Name: "삼성전자", Market: model.MarketKOSPI, Price: 71000, ChangeRate: 1.5},
		{Code: "035720", Name: "카카오", Market: model.MarketKOSDAQ, Score: 8,
			Criteria: []model.CriterionResult{{Name: "macd_golden_cross", Passed: true, Points: 2}}},
	}
	msg := FormatScreenReport("Breakout Screen", results)
	for _, want := range []string{"KOSPI", "KOSDAQ", "삼성전자", "카카오", "score 8", "macd_golden_cross"} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatScreenReport_EmptyStillReports(t *testing.T) {
	msg := FormatScreenReport("Wave Screen", nil)
	if !strings.Contains(msg, "No instruments matched") {
		t.Error("an empty selection must still produce a message")
	}
}

func TestSplitMessage(t *testing.T) {
	line := strings.Repeat("x", 99) + "\n"
	text := strings.Repeat(line, 50) // 5000 bytes
	chunks := splitMessage(text, maxMessageLen)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > maxMessageLen {
			t.Errorf("chunk %d exceeds the limit: %d bytes", i, len(c))
		}
		if !strings.HasSuffix(c, "\n") {
			t.Errorf("chunk %d should end on a line boundary", i)
		}
	}
	if strings.Join(chunks, "") != text {
		t.Error("chunks must reassemble to the original text")
	}

	if got := splitMessage("short", maxMessageLen); len(got) != 1 || got[0] != "short" {
		t.Errorf("short text must pass through unchanged, got %v", got)
	}
}
