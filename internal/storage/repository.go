package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps ledger snapshots and export bookkeeping in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; modernc sqlite serialises anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Get implements snapshot.Store.
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM snapshots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get snapshot %s: %w", key, err)
	}
	return value, true, nil
}

// Put implements snapshot.Store. The previous value is replaced.
func (r *SQLiteRepository) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put snapshot %s: %w", key, err)
	}
	slog.DebugContext(ctx, "Snapshot saved to SQLite", "key", key, "bytes", len(value))
	return nil
}

// ExportRecord describes the last export written to a target. StartedAt is
// when the export read the snapshot; anything persisted before it is covered.
type ExportRecord struct {
	Target    string
	Revision  int64
	Rows      int
	StartedAt time.Time
}

// LastExport returns the most recent export to target.
func (r *SQLiteRepository) LastExport(ctx context.Context, target string) (ExportRecord, bool, error) {
	rec := ExportRecord{Target: target}
	var startedMs int64
	err := r.db.QueryRowContext(ctx,
		`SELECT revision, rows, started_at FROM exports WHERE target = ?`, target).
		Scan(&rec.Revision, &rec.Rows, &startedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return ExportRecord{}, false, nil
	}
	if err != nil {
		return ExportRecord{}, false, fmt.Errorf("get export %s: %w", target, err)
	}
	rec.StartedAt = time.UnixMilli(startedMs).UTC()
	return rec, true, nil
}

// RecordExport replaces the export record of rec.Target.
func (r *SQLiteRepository) RecordExport(ctx context.Context, rec ExportRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exports (target, revision, rows, started_at, exported_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(target) DO UPDATE SET
			revision = excluded.revision,
			rows = excluded.rows,
			started_at = excluded.started_at,
			exported_at = excluded.exported_at`,
		rec.Target, rec.Revision, rec.Rows, rec.StartedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("record export %s: %w", rec.Target, err)
	}
	slog.InfoContext(ctx, "Export recorded", "target", rec.Target, "revision", rec.Revision, "rows", rec.Rows)
	return nil
}
