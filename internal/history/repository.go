// Package history keeps a local sqlite log of lookups and stopwatch sessions.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Repository struct {
	db        *sql.DB
	sessionID string
}

// Open opens or creates the database at path. ":memory:" keeps everything in
// memory.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// each connection to ":memory:" is its own database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	repo := &Repository{db: db, sessionID: uuid.NewString()}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return repo, nil
}

// SessionID identifies this run; every row written through r carries it.
func (r *Repository) SessionID() string {
	return r.sessionID
}

func (r *Repository) init() error {
	lookupsQuery := `
	CREATE TABLE IF NOT EXISTS lookups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		city TEXT NOT NULL,
		timezone TEXT NOT NULL,
		utc_label TEXT NOT NULL,
		time TEXT NOT NULL,
		date TEXT NOT NULL,
		looked_up_at TEXT NOT NULL
	)
	`
	if _, err := r.db.Exec(lookupsQuery); err != nil {
		return err
	}

	sessionsQuery := `
	CREATE TABLE IF NOT EXISTS stopwatch_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		started_at TEXT NOT NULL,
		stopped_at TEXT NOT NULL,
		elapsed INTEGER NOT NULL
	)
	`
	_, err := r.db.Exec(sessionsQuery)
	return err
}

func (r *Repository) SaveLookup(l *Lookup) error {
	l.SessionID = r.sessionID
	result, err := r.db.Exec(
		"INSERT INTO lookups (session_id, city, timezone, utc_label, time, date, looked_up_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		l.SessionID, l.City, l.Timezone, l.UTCLabel, l.Time, l.Date,
		l.LookedUpAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

// RecentLookups returns up to limit lookups, newest first.
func (r *Repository) RecentLookups(limit int) ([]Lookup, error) {
	rows, err := r.db.Query(
		"SELECT id, session_id, city, timezone, utc_label, time, date, looked_up_at FROM lookups ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []Lookup
	for rows.Next() {
		var l Lookup
		var lookedUpAt string
		if err := rows.Scan(&l.ID, &l.SessionID, &l.City, &l.Timezone, &l.UTCLabel, &l.Time, &l.Date, &lookedUpAt); err != nil {
			return nil, err
		}
		l.LookedUpAt, _ = time.Parse(time.RFC3339Nano, lookedUpAt)
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}

func (r *Repository) SaveSession(s *Session) error {
	s.SessionID = r.sessionID
	result, err := r.db.Exec(
		"INSERT INTO stopwatch_sessions (session_id, started_at, stopped_at, elapsed) VALUES (?, ?, ?, ?)",
		s.SessionID,
		s.StartedAt.UTC().Format(time.RFC3339Nano),
		s.StoppedAt.UTC().Format(time.RFC3339Nano),
		int64(s.Elapsed),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// RecentSessions returns up to limit stopwatch sessions, newest first.
func (r *Repository) RecentSessions(limit int) ([]Session, error) {
	rows, err := r.db.Query(
		"SELECT id, session_id, started_at, stopped_at, elapsed FROM stopwatch_sessions ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var startedAt, stoppedAt string
		var elapsed int64
		if err := rows.Scan(&s.ID, &s.SessionID, &startedAt, &stoppedAt, &elapsed); err != nil {
			return nil, err
		}
		s.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		s.StoppedAt, _ = time.Parse(time.RFC3339Nano, stoppedAt)
		s.Elapsed = time.Duration(elapsed)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}
