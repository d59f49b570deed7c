package recorder

import "StockScout/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScreen(_ []model.StockRecord) error { return nil }
func (n *NoopRecorder) RecordTrend(_ *model.TrendResult) error   { return nil }
func (n *NoopRecorder) Close() error                             { return nil }
