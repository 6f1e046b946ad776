package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	// import sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/thrasher-corp/goose"
	"github.com/thrasher-corp/perpbacktester/common"
	"github.com/thrasher-corp/perpbacktester/common/file"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/log"
)

var (
	// ErrNoDatabaseProvided is returned when no database path is supplied
	ErrNoDatabaseProvided = errors.New("no database provided")

	errInvalidInput         = errors.New("symbol and a valid date range are required")
	errNoCandles            = errors.New("no candle data found")
	errMigrationDirNotFound = errors.New("migration folder not found")
)

// dialect selects the sqlite3.sql file of each migration folder
const dialect = "sqlite3"

// MigrationDir is the folder of goose migrations applied by Connect
var MigrationDir = filepath.Join("data", "kline", "database", "migrations")

var migrateMu sync.Mutex

// Connect opens a connection to a sqlite database and migrates it to the
// latest candle schema
func Connect(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, ErrNoDatabaseProvided
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.PingContext(ctx); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	if err = migrate(db, MigrationDir); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return db, nil
}

// migrate runs every pending migration. goose holds package level state so
// runs are serialised
func migrate(db *sql.DB, dir string) error {
	if !file.Exists(dir) {
		return fmt.Errorf("%w: %v", errMigrationDirNotFound, dir)
	}
	migrateMu.Lock()
	defer migrateMu.Unlock()
	if err := goose.Run("up", db, dialect, dir, ""); err != nil {
		return fmt.Errorf("migrating %v: %w", dir, err)
	}
	return nil
}

// Insert stores candles for a symbol, replacing any existing rows sharing a
// timestamp. Missing prices are stored as NULL
func Insert(ctx context.Context, db *sql.DB, symbol string, candles []kline.Candle) (int64, error) {
	if db == nil {
		return 0, fmt.Errorf("%w database", common.ErrNilPointer)
	}
	if symbol == "" {
		return 0, errInvalidInput
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO candle
		(symbol, timestamp, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Join(err, tx.Rollback())
	}
	defer stmt.Close()

	var inserted int64
	for i := range candles {
		c := &candles[i]
		if _, err = stmt.ExecContext(ctx,
			strings.ToUpper(symbol), c.Time.UnixMilli(),
			c.Open, c.High, c.Low, c.Close, c.Volume,
		); err != nil {
			return 0, errors.Join(err, tx.Rollback())
		}
		inserted++
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	log.Debugf(log.DataLoader, "inserted %d %v candles", inserted, symbol)
	return inserted, nil
}

// Series returns candles for a symbol between start and end inclusive,
// ordered by time
func Series(ctx context.Context, db *sql.DB, symbol string, start, end time.Time) ([]kline.Candle, error) {
	if db == nil {
		return nil, fmt.Errorf("%w database", common.ErrNilPointer)
	}
	if symbol == "" || start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, errInvalidInput
	}
	rows, err := db.QueryContext(ctx, `SELECT timestamp, open, high, low, close, volume FROM candle
		WHERE symbol = ? AND timestamp BETWEEN ? AND ? ORDER BY timestamp`,
		strings.ToUpper(symbol), start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candles []kline.Candle
	for rows.Next() {
		var (
			ts int64
			c  kline.Candle
		)
		if err = rows.Scan(&ts, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, err
		}
		c.Time = time.UnixMilli(ts).UTC()
		candles = append(candles, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w for %v between %v and %v", errNoCandles, symbol,
			start.Format(common.SimpleTimeFormat), end.Format(common.SimpleTimeFormat))
	}
	log.Infof(log.DataLoader, "loaded %d %v candles from database", len(candles), symbol)
	return candles, nil
}
