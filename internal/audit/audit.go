// Package audit keeps a SQLite log of profiling runs and cleaning
// operations.
package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Actions recorded by the engine.
const (
	ActionProfile = "PROFILE"
	ActionClean   = "CLEAN"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS audit_log (
		id        TEXT PRIMARY KEY,
		action    TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		details   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp)`,
}

// stampLayout is fixed width so stored timestamps sort lexically.
const stampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one audit record.
type Entry struct {
	ID        string    `db:"id" json:"id"`
	Action    string    `db:"action" json:"action"`
	Timestamp time.Time `db:"-" json:"timestamp"`
	Stamp     string    `db:"timestamp" json:"-"`
	Details   string    `db:"details" json:"details"`
}

// Log is an append-only audit log.
type Log struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens or creates the audit database at path.
func Open(ctx context.Context, path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir audit dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping audit db: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create audit schema: %w", err)
		}
	}
	return &Log{db: db, now: time.Now}, nil
}

// Record appends an entry.
func (l *Log) Record(ctx context.Context, action, details string) error {
	e := Entry{
		ID:      uuid.NewString(),
		Action:  action,
		Stamp:   l.now().UTC().Format(stampLayout),
		Details: details,
	}
	_, err := l.db.NamedExecContext(ctx,
		`INSERT INTO audit_log (id, action, timestamp, details) VALUES (:id, :action, :timestamp, :details)`, e)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. An empty action matches
// every action.
func (l *Log) Recent(ctx context.Context, action string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []Entry
	err := l.db.SelectContext(ctx, &rows, `
		SELECT id, action, timestamp, details
		FROM audit_log
		WHERE ? = '' OR action = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?`, action, action, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	for i := range rows {
		t, err := time.Parse(stampLayout, rows[i].Stamp)
		if err != nil {
			return nil, fmt.Errorf("parse audit timestamp %q: %w", rows[i].Stamp, err)
		}
		rows[i].Timestamp = t
	}
	return rows, nil
}

// Close closes the database.
func (l *Log) Close() error { return l.db.Close() }
