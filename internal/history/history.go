// Package history keeps a SQLite log of reminders that have fired.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nissyi-gh/planner/internal/model"
	_ "modernc.org/sqlite"
)

const firedLayout = "2006-01-02 15:04:05"

// Entry is one fired reminder.
type Entry struct {
	ID          int
	Description string
	Date        model.Date
	Time        model.Clock
	Color       string
	FiredAt     time.Time
}

// Log manages the reminder history database.
type Log struct {
	db *sql.DB
}

// DefaultPath returns $XDG_DATA_HOME/planner/history.db, creating the directory.
func DefaultPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(dataHome, "planner")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// Open opens (or creates) the history database and ensures the schema exists.
func Open(dbPath string) (*Log, error) {
	if dbPath == "" {
		var err error
		dbPath, err = DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("determine history path: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS reminders (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		description    TEXT NOT NULL,
		scheduled_date TEXT NOT NULL,
		scheduled_time TEXT NOT NULL,
		color          TEXT NOT NULL,
		fired_at       TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Record appends a fired reminder.
func (l *Log) Record(ctx context.Context, t model.Task, firedAt time.Time) error {
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO reminders (description, scheduled_date, scheduled_time, color, fired_at) VALUES (?, ?, ?, ?, ?)",
		t.Description, t.Date.String(), t.Time.String(), t.Color, firedAt.Format(firedLayout),
	)
	if err != nil {
		return fmt.Errorf("record reminder: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (l *Log) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := l.db.QueryContext(ctx,
		"SELECT id, description, scheduled_date, scheduled_time, color, fired_at FROM reminders ORDER BY fired_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(scanner interface{ Scan(...any) error }) (Entry, error) {
	var e Entry
	var dateStr, timeStr, firedStr string
	if err := scanner.Scan(&e.ID, &e.Description, &dateStr, &timeStr, &e.Color, &firedStr); err != nil {
		return Entry{}, err
	}
	var err error
	if e.Date, err = model.ParseDate(dateStr); err != nil {
		return Entry{}, err
	}
	if e.Time, err = model.ParseClock(timeStr); err != nil {
		return Entry{}, err
	}
	if e.FiredAt, err = time.ParseInLocation(firedLayout, firedStr, time.Local); err != nil {
		return Entry{}, fmt.Errorf("fired_at %q: %w", firedStr, err)
	}
	return e, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	return l.db.Close()
}
