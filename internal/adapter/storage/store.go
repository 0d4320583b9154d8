package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/cims/internal/core/domain"
)

// Store is the relational store shared by every gateway. Each gateway call
// runs in one transaction; nothing is cached between calls.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

func NewStore(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Migrate applies the dialect's embedded schema.
func (s *Store) Migrate(ctx context.Context) error {
	return ApplyMigrations(ctx, s.db, s.dialect.Migrations)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return s.wrap("commit tx", err)
	}
	return nil
}

// wrap classifies driver constraint errors into domain error kinds.
func (s *Store) wrap(op string, err error) error {
	if kind := s.dialect.Classify(err); kind != nil {
		return fmt.Errorf("%s: %w", op, kind)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func rowExists(ctx context.Context, q querier, table, id string) (bool, error) {
	var found int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s %s: %w", table, id, err)
	}
	return true, nil
}

// requireRow fails with ErrReferentialIntegrity when a referenced row is missing.
func requireRow(ctx context.Context, q querier, table, id string) error {
	found, err := rowExists(ctx, q, table, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s %q does not exist: %w", table, id, domain.ErrReferentialIntegrity)
	}
	return nil
}

func requireExisting(ctx context.Context, q querier, table, id string) error {
	found, err := rowExists(ctx, q, table, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s %q: %w", table, id, domain.ErrNotFound)
	}
	return nil
}

func countRows(ctx context.Context, q querier, query string, args ...any) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

func (s *Store) deleteRow(ctx context.Context, q querier, table, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return s.wrap("delete "+table, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%s %q: %w", table, id, domain.ErrNotFound)
	}
	return nil
}
