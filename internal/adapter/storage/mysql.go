package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/cims/internal/adapter/storage/migrations"
	"github.com/rl1809/cims/internal/core/domain"
)

const (
	mysqlErrNoReferencedRow  = 1216
	mysqlErrRowIsReferenced  = 1217
	mysqlErrDupEntry         = 1062
	mysqlErrOutOfRange       = 1264
	mysqlErrRowIsReferenced2 = 1451
	mysqlErrNoReferencedRow2 = 1452
	mysqlErrCheckConstraint  = 3819
)

// MySQL is the production dialect.
var MySQL = Dialect{
	Name:           "mysql",
	Migrations:     mustSub(migrations.FS, "mysql"),
	InsertionOrder: "seq",
	Classify:       classifyMySQL,
}

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// OpenMySQL connects to MySQL and verifies the connection. The DSN must
// enable parseTime.
func OpenMySQL(ctx context.Context, dsn string, pool PoolOptions) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return NewStore(db, MySQL), nil
}

func classifyMySQL(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return nil
	}
	switch myErr.Number {
	case mysqlErrDupEntry:
		return domain.ErrConflict
	case mysqlErrRowIsReferenced, mysqlErrNoReferencedRow, mysqlErrRowIsReferenced2, mysqlErrNoReferencedRow2:
		return domain.ErrReferentialIntegrity
	case mysqlErrCheckConstraint, mysqlErrOutOfRange:
		return domain.ErrValidation
	}
	return nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("migrations %s: %v", dir, err))
	}
	return sub
}
