package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"PriceChart/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps price bars per symbol in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLiteStore opens (or creates) the database and runs migrations.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol TEXT    NOT NULL,
			ts     INTEGER NOT NULL,
			open   REAL,
			high   REAL,
			low    REAL,
			close  REAL,
			volume REAL,
			PRIMARY KEY (symbol, ts)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_bars_ts ON price_bars(ts)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Save upserts the series under symbol in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, symbol string, series model.Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO price_bars
		(symbol, ts, open, high, low, close, volume) VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(symbol, ts) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range series {
		if _, err := stmt.ExecContext(ctx, symbol, p.Date.UnixMilli(),
			nullable(p.Open), nullable(p.High), nullable(p.Low), nullable(p.Close), nullable(p.Volume)); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", p.Date.Format(time.RFC3339), err)
		}
	}
	return tx.Commit()
}

// Load returns every bar of symbol in chronological order.
func (s *SQLiteStore) Load(ctx context.Context, symbol string) (model.Series, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ts, open, high, low, close, volume
		FROM price_bars WHERE symbol = ? ORDER BY ts`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var series model.Series
	for rows.Next() {
		var (
			ts                       int64
			open, high, low, cl, vol sql.NullFloat64
		)
		if err := rows.Scan(&ts, &open, &high, &low, &cl, &vol); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		series = append(series, model.PricePoint{
			Date:   time.UnixMilli(ts).UTC(),
			Open:   orNaN(open),
			High:   orNaN(high),
			Low:    orNaN(low),
			Close:  orNaN(cl),
			Volume: orNaN(vol),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars: %w", err)
	}
	return finish("sqlite", series)
}

// Source returns a Source reading symbol from the store.
func (s *SQLiteStore) Source(symbol string) Source {
	return &sqliteSource{store: s, symbol: symbol}
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}

type sqliteSource struct {
	store  *SQLiteStore
	symbol string
}

func (s *sqliteSource) Name() string { return "sqlite" }

func (s *sqliteSource) Load(ctx context.Context) (model.Series, error) {
	return s.store.Load(ctx, s.symbol)
}

// nullable stores non-finite values as NULL; SQLite has no NaN.
func nullable(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
