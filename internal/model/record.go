package model

import "time"

// StockRecord is the persisted form of one selected instrument, keyed by
// (Date, Code). Records are append-only; the pipeline never reads them back.
type StockRecord struct {
	Date       time.Time
	Code       string
	Name       string
	Market     Market
	Price      float64
	ChangeRate float64
	Screener   string
	Score      int
}
