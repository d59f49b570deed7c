package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockScout/internal/model"
)

// SQLiteRecorder persists screening history to a SQLite database. KOSPI and
// KOSDAQ selections land in separate tables so each market's history reads
// independently.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc reads never block the recording writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stockTable := `CREATE TABLE IF NOT EXISTS %s (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		date        TEXT NOT NULL,
		code        TEXT NOT NULL,
		name        TEXT NOT NULL,
		price       REAL,
		change_rate REAL,
		screener    TEXT NOT NULL,
		score       INTEGER,
		UNIQUE(date, code, screener)
	)`
	stmts := []string{
		fmt.Sprintf(stockTable, "kospi_stocks"),
		fmt.Sprintf(stockTable, "kosdaq_stocks"),
		`CREATE INDEX IF NOT EXISTS idx_kospi_date ON kospi_stocks(date)`,
		`CREATE INDEX IF NOT EXISTS idx_kosdaq_date ON kosdaq_stocks(date)`,

		`CREATE TABLE IF NOT EXISTS trend_alerts (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			close_price    REAL,
			ma200          REAL,
			envelope       REAL,
			recommendation TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_ts ON trend_alerts(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func stockTableFor(market model.Market) (string, bool) {
	switch market {
	case model.MarketKOSPI:
		return "kospi_stocks", true
	case model.MarketKOSDAQ:
		return "kosdaq_stocks", true
	}
	return "", false
}

func (r *SQLiteRecorder) RecordScreen(records []model.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		table, ok := stockTableFor(rec.Market)
		if !ok {
			log.Printf("[WARN] %s has no market classification, not recorded", rec.Code)
			continue
		}
		_, err := tx.Exec(fmt.Sprintf(`INSERT INTO %s
			(date, code, name, price, change_rate, screener, score)
			VALUES (?,?,?,?,?,?,?)
			ON CONFLICT(date, code, screener) DO UPDATE SET
				name=excluded.name, price=excluded.price,
				change_rate=excluded.change_rate, score=excluded.score`, table),
			rec.Date.Format("2006-01-02"), rec.Code, rec.Name,
			rec.Price, rec.ChangeRate, rec.Screener, rec.Score,
		)
		if err != nil {
			return fmt.Errorf("insert %s into %s: %w", rec.Code, table, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordTrend(res *model.TrendResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trend_alerts
		(timestamp, symbol, close_price, ma200, envelope, recommendation)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), res.Symbol, res.ClosePrice,
		res.MA200, res.Envelope, string(res.Recommendation),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
