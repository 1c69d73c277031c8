// Package journal records shell sessions in a SQLite database: every
// executed buffer and every buffer the cleaner rejected.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register the sqlite driver
)

// ErrNotOpen is returned by operations on a store without a database.
var ErrNotOpen = errors.New("journal not opened")

// ErrSessionNotFound is returned when a session ID is unknown.
var ErrSessionNotFound = errors.New("session not found")

// Store persists the journal.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewStore creates a store. Call Open before use.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{logger: logger}
}

// NewStoreWithDB wraps an existing connection, e.g. a mock in tests.
func NewStoreWithDB(db *sql.DB, logger *slog.Logger) *Store {
	s := NewStore(logger)
	s.db = db
	return s
}

// Open opens the database at path and runs migrations.
// Use ":memory:" for an in-memory database.
func (s *Store) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	s.path = path
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		s.db = nil
		return err
	}

	s.logger.Debug("journal opened", slog.String("path", path))
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// StartSession creates a session.
func (s *Store) StartSession(ctx context.Context, namespace string) (*Session, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	session := &Session{
		ID:        generateID(),
		Namespace: namespace,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, namespace, started_at) VALUES (?, ?, ?)`,
		session.ID, session.Namespace, session.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	s.logger.Debug("session started", slog.String("id", session.ID))
	return session, nil
}

// EndSession marks a session as ended.
func (s *Store) EndSession(ctx context.Context, id string) error {
	if s.db == nil {
		return ErrNotOpen
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// RecordEntry stores an executed buffer. ID, Seq and CreatedAt are filled
// in by the store.
func (s *Store) RecordEntry(ctx context.Context, entry *Entry) error {
	if s.db == nil {
		return ErrNotOpen
	}

	entry.ID = generateID()
	entry.CreatedAt = time.Now().UTC()
	if entry.Status == "" {
		entry.Status = StatusOK
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, session_id, seq, input, code, status, value, output, error, created_at)
		 VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM entries WHERE session_id = ?), ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.SessionID, entry.SessionID, entry.Input, entry.Code, entry.Status,
		entry.Value, entry.Output, entry.Error, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record entry: %w", err)
	}
	return nil
}

// RecordFailure stores a rejected buffer.
func (s *Store) RecordFailure(ctx context.Context, failure *Failure) error {
	if s.db == nil {
		return ErrNotOpen
	}

	failure.ID = generateID()
	failure.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO failures (id, session_id, input, kind, message, line, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		failure.ID, failure.SessionID, failure.Input, failure.Kind, failure.Message, failure.Line, failure.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record failure: %w", err)
	}
	return nil
}

// ListSessions returns the most recent sessions first. A limit of zero or
// less returns all of them.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.namespace, s.started_at, s.ended_at,
		       (SELECT COUNT(*) FROM entries e WHERE e.session_id = s.id),
		       (SELECT COUNT(*) FROM failures f WHERE f.session_id = s.id)
		FROM sessions s
		ORDER BY s.started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []Session
	for rows.Next() {
		var session Session
		var endedAt sql.NullTime
		if err := rows.Scan(&session.ID, &session.Namespace, &session.StartedAt, &endedAt, &session.Entries, &session.Failures); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if endedAt.Valid {
			session.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// ListEntries returns a session's entries in execution order.
func (s *Store) ListEntries(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, seq, input, code, status, value, output, error, created_at
		FROM entries
		WHERE session_id = ?
		ORDER BY seq
		LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &e.Input, &e.Code, &e.Status, &e.Value, &e.Output, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// ListFailures returns a session's rejected buffers, oldest first.
func (s *Store) ListFailures(ctx context.Context, sessionID string) ([]Failure, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, input, kind, message, line, created_at
		FROM failures
		WHERE session_id = ?
		ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list failures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.ID, &f.SessionID, &f.Input, &f.Kind, &f.Message, &f.Line, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list failures: %w", err)
	}
	return failures, nil
}
