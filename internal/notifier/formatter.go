package notifier

import (
	"fmt"
	"strings"
	"time"

	"StockScout/internal/model"
)

// FormatTrendReport renders the leveraged-ETF trend verdict.
func FormatTrendReport(res *model.TrendResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s Trend Check</b> | %s\n\n", res.Symbol, time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Close: %.2f\n", res.ClosePrice))
	dev := 0.0
	if res.MA200 > 0 {
		dev = res.Diff / res.MA200 * 100
	}
	b.WriteString(fmt.Sprintf("MA200: %.2f (%+.1f%%)\n", res.MA200, dev))
	b.WriteString(fmt.Sprintf("Envelope (+10%%): %.2f\n\n", res.Envelope))

	switch res.Recommendation {
	case model.RecommendDefensive:
		b.WriteString("🔻 Below MA200. Recommended position: <b>SGOV</b>")
	case model.RecommendRotate:
		b.WriteString("🔺 Above the envelope. Recommended position: <b>SPLG</b>")
	default:
		b.WriteString("▶️ Within the envelope. Recommended position: <b>TQQQ</b>")
	}
	return b.String()
}

// FormatScreenReport renders one screen's selections grouped by market. An
// empty selection still produces a message so a silent day is
// distinguishable from a dead scheduler.
func FormatScreenReport(title string, results []model.ScreenResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔎 <b>%s</b> | %s\n", title, time.Now().Format("2006-01-02")))

	if len(results) == 0 {
		b.WriteString("\nNo instruments matched today.")
		return b.String()
	}

	byMarket := map[model.Market][]model.ScreenResult{}
	for _, res := range results {
		byMarket[res.Market] = append(byMarket[res.Market], res)
	}
	for _, market := range []model.Market{model.MarketKOSPI, model.MarketKOSDAQ, model.MarketUnknown} {
		group := byMarket[market]
		if len(group) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n<b>[%s]</b> %d found\n", market, len(group)))
		for _, res := range group {
			b.WriteString(formatResultLine(res))
		}
	}
	return b.String()
}

func formatResultLine(res model.ScreenResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("• <b>%s</b> (%s)", res.Name, res.Code))
	if res.Price > 0 {
		b.WriteString(fmt.Sprintf(" %.0f %+.2f%%", res.Price, res.ChangeRate))
	}
	if res.Score > 0 {
		b.WriteString(fmt.Sprintf(" | score %d", res.Score))
	}
	b.WriteString("\n")

	var passed []string
	for _, c := range res.Criteria {
		if c.Passed {
			passed = append(passed, c.Name)
		}
	}
	if len(passed) > 0 {
		b.WriteString(fmt.Sprintf("  ✓ %s\n", strings.Join(passed, ", ")))
	}
	return b.String()
}

// FormatErrorReport renders an operator alert for a failed task.
func FormatErrorReport(task string, err error) string {
	return fmt.Sprintf("⚠️ <b>%s failed</b> | %s\n\n%v", task, time.Now().Format("2006-01-02 15:04"), err)
}
