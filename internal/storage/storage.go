// Package storage provides sqlx repositories for the tracker's persisted
// entities. All multi-row writes run inside a database transaction and
// either fully commit or fully roll back.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a referenced entity no longer exists.
	ErrNotFound = errors.New("storage: not found")
	// ErrConflict is returned on unique constraint violations such as a
	// duplicate category or tag name.
	ErrConflict = errors.New("storage: conflict")
)

// Store bundles the shared database handle for all repositories.
type Store struct {
	db *sqlx.DB

	// Now supplies unix-seconds timestamps for created_at/updated_at and
	// limit resets. Overridable in tests.
	Now func() int64
}

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{
		db:  db,
		Now: func() int64 { return time.Now().Unix() },
	}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Categories returns the category repository.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s} }

// Transactions returns the balance entry repository.
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{s} }

// Movies returns the movie repository.
func (s *Store) Movies() *MovieRepo { return &MovieRepo{s} }

// Series returns the series repository.
func (s *Store) Series() *SeriesRepo { return &SeriesRepo{s} }

// runAtomic executes fn inside a transaction, rolling back on error or
// panic.
func (s *Store) runAtomic(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// rebind converts ?-style placeholders to the driver's notation so the
// same queries serve Postgres in production and SQLite in tests.
func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

// wrapConstraint maps driver-level unique violations onto ErrConflict.
func wrapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
