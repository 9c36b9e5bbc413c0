// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/models"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 25 * time.Millisecond
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries runs poll and vote statements against a connection or a
// transaction. Outside InTx every statement autocommits.
type Queries struct {
	q       querier
	dialect db.Dialect
}

func (q *Queries) rebind(query string) string {
	return db.Rebind(q.dialect, query)
}

// Store is the durable home of polls and their vote ledgers.
type Store struct {
	*Queries

	conn     *sql.DB
	logger   *slog.Logger
	now      func() time.Time
	attempts int
	backoff  time.Duration
}

// New wraps an open database. A nil logger falls back to slog.Default().
func New(conn *sql.DB, dialect db.Dialect, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		Queries:  &Queries{q: conn, dialect: dialect},
		conn:     conn,
		logger:   logger,
		now:      time.Now,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
	}
}

// SetClock replaces the time source used for created_at and vote timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the current time truncated to the stored precision.
func (s *Store) Now() time.Time {
	return time.UnixMicro(s.now().UnixMicro())
}

// InTx runs fn inside a single transaction. The transaction is retried a
// bounded number of times when the database reports lock contention; any
// other error rolls back and is returned as is.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) error {
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err = s.runTx(ctx, fn)
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt == s.attempts {
			break
		}

		s.logger.Warn("transaction contention, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", models.ErrStorageIO, ctx.Err())
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(&Queries{q: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.conn.Close()
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStorageIO, op, err)
}

// isTransient reports lock contention that a retry can resolve.
func isTransient(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"55P03": // lock_not_available
			return true
		}
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}

	return false
}
