// Package audit keeps an append-only trail of admin actions in SQLite.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
)

var (
	// ErrOpenFailed indicates the audit database could not be opened.
	ErrOpenFailed = derrors.EventStoreError("could not open audit database").Build()
	// ErrAppendFailed indicates an event could not be recorded.
	ErrAppendFailed = derrors.EventStoreError("failed to append audit event").Build()
	// ErrQueryFailed indicates listing events failed.
	ErrQueryFailed = derrors.EventStoreError("failed to query audit events").Build()
)

// Recorder records admin actions.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// Noop discards events; used when auditing is disabled.
type Noop struct{}

func (Noop) Record(context.Context, Event) error { return nil }

// SQLiteStore implements Recorder using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens (and migrates) the audit database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryEventStore, ErrOpenFailed.Message()).Build()
	}
	// One connection: ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, derrors.WrapError(err, derrors.CategoryEventStore, "failed to initialize audit schema").Build()
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL UNIQUE,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		remote_addr TEXT,
		request_id TEXT,
		content_sha256 TEXT,
		size_bytes INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_event_type ON events(event_type);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends e. EventID and Timestamp are filled in when empty.
func (s *SQLiteStore) Record(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, event_type, timestamp, outcome, remote_addr, request_id, content_sha256, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EventID, string(e.Type), e.Timestamp.UnixMilli(), e.Outcome, e.RemoteAddr, e.RequestID, e.ContentSHA256, e.SizeBytes,
	)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryEventStore, ErrAppendFailed.Message()).
			WithContext("event_type", string(e.Type)).
			Build()
	}
	return nil
}

// List returns up to limit events, newest first. limit <= 0 means 50.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, event_type, timestamp, outcome, remote_addr, request_id, content_sha256, size_bytes
		FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryEventStore, ErrQueryFailed.Message()).Build()
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var (
			e          Event
			eventType  string
			tsMillis   int64
			remoteAddr sql.NullString
			requestID  sql.NullString
			digest     sql.NullString
			size       sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.EventID, &eventType, &tsMillis, &e.Outcome, &remoteAddr, &requestID, &digest, &size); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Type = EventType(eventType)
		e.Timestamp = time.UnixMilli(tsMillis).UTC()
		e.RemoteAddr = remoteAddr.String
		e.RequestID = requestID.String
		e.ContentSHA256 = digest.String
		e.SizeBytes = size.Int64
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return events, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
