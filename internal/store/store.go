// Package store persists questions, submissions and categories.
//
// SQL is built with the ent dialect builder and runs on a plain *sql.DB, so
// the same code serves SQLite and PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("algebra.store")

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrCategoryInUse   = errors.New("category is used by questions")
	ErrUnknownCategory = errors.New("category does not exist")
	ErrUnknownDriver   = errors.New("unknown database driver")
)

// Store is the persistence layer. It is safe for concurrent use.
type Store struct {
	db      *sql.DB
	dialect string
}

// Open opens a database. driver is "sqlite3" or "postgres"; the matching
// database/sql driver must be registered by the caller.
func Open(driver, dsn string) (*Store, error) {
	var driverName, dialectName string

	switch driver {
	case dialect.SQLite:
		driverName, dialectName = "sqlite3", dialect.SQLite
	case dialect.Postgres, "pgx":
		driverName, dialectName = "pgx", dialect.Postgres
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	return New(db, dialectName), nil
}

// New wraps an opened database. dialectName is one of the ent dialect names.
func New(db *sql.DB, dialectName string) *Store {
	return &Store{db: db, dialect: dialectName}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name of the database.
func (s *Store) Dialect() string {
	return s.dialect
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insert runs an insert and returns the generated id.
func (s *Store) insert(ctx context.Context, q querier, b *entsql.InsertBuilder) (int, error) {
	if s.dialect == dialect.Postgres {
		query, args := b.Returning("id").Query()

		var id int
		if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args := b.Query()
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// exec runs a statement and reports ErrNotFound when no row was affected.
func exec(ctx context.Context, q querier, query string, args []any) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
