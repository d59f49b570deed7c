package recorder

import "StockScout/internal/model"

// Recorder persists screening output for later review.
type Recorder interface {
	// RecordScreen upserts one day's selections. Records for the same
	// date, code, and screener replace the earlier row.
	RecordScreen(records []model.StockRecord) error
	// RecordTrend appends one trend evaluation.
	RecordTrend(res *model.TrendResult) error
	Close() error
}
