// Package journal keeps a sqlite log of what a timeline did: every Enter and
// Exit transition and every end of playback, grouped by session.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var ErrClosed = errors.New("journal: closed")

// Entry is one journal row.
type Entry struct {
	ID        int64
	Session   string
	Recorded  time.Time
	Sequencer string
	Event     string
	Kind      string
	Tag       string
	Target    string
	Mode      string
	At        float64
}

// Journal wraps the sqlite database.
type Journal struct {
	db      *sql.DB
	session string
}

// Open creates the database file and its directory when missing. Rows
// recorded through the returned journal carry session.
func Open(path, session string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS timeline_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		recorded INTEGER NOT NULL,
		sequencer TEXT NOT NULL,
		event TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT '',
		tag TEXT NOT NULL DEFAULT '',
		target TEXT NOT NULL DEFAULT '',
		mode TEXT NOT NULL DEFAULT '',
		at REAL NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_timeline_events_session ON timeline_events(session);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}

	return &Journal{db: db, session: session}, nil
}

func (j *Journal) Session() string {
	if j == nil {
		return ""
	}
	return j.session
}

// Record appends entries in one transaction. Session and Recorded are filled
// in when empty.
func (j *Journal) Record(ctx context.Context, entries ...Entry) error {
	if j == nil || j.db == nil {
		return ErrClosed
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("journal: begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO timeline_events (session, recorded, sequencer, event, kind, tag, target, mode, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("journal: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, e := range entries {
		if e.Session == "" {
			e.Session = j.session
		}
		if e.Recorded.IsZero() {
			e.Recorded = now
		}
		if _, err := stmt.ExecContext(ctx, e.Session, e.Recorded.UnixMilli(), e.Sequencer, e.Event, e.Kind, e.Tag, e.Target, e.Mode, e.At); err != nil {
			tx.Rollback()
			return fmt.Errorf("journal: insert %s: %w", e.Event, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("journal: commit: %w", err)
	}
	return nil
}

// Recent returns up to limit rows, newest first. An empty session matches all
// sessions.
func (j *Journal) Recent(ctx context.Context, session string, limit int) ([]Entry, error) {
	if j == nil || j.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, session, recorded, sequencer, event, kind, tag, target, mode, at
		FROM timeline_events
		WHERE ? = '' OR session = ?
		ORDER BY id DESC
		LIMIT ?`, session, session, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var recorded int64
		if err := rows.Scan(&e.ID, &e.Session, &recorded, &e.Sequencer, &e.Event, &e.Kind, &e.Tag, &e.Target, &e.Mode, &e.At); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.Recorded = time.UnixMilli(recorded)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}
