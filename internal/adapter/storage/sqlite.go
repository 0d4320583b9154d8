package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/rl1809/cims/internal/adapter/storage/migrations"
	"github.com/rl1809/cims/internal/core/domain"
)

// SQLite is the embedded dialect used for local runs and tests.
var SQLite = Dialect{
	Name:           "sqlite",
	Migrations:     mustSub(migrations.FS, "sqlite"),
	InsertionOrder: "rowid",
	Classify:       classifySQLite,
}

// OpenSQLite opens (or creates) a SQLite database and applies the schema.
// path may be ":memory:".
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if path != ":memory:" {
		path = filepath.Clean(path)
	}
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection: an in-memory database lives and dies with its connection,
	// and SQLite serialises writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := NewStore(db, SQLite)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

func classifySQLite(err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return domain.ErrConflict
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return domain.ErrReferentialIntegrity
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK:
			return domain.ErrValidation
		}
	}
	if err == nil {
		return nil
	}
	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "unique constraint failed"):
		return domain.ErrConflict
	case strings.Contains(message, "foreign key constraint failed"):
		return domain.ErrReferentialIntegrity
	case strings.Contains(message, "check constraint failed"):
		return domain.ErrValidation
	}
	return nil
}
