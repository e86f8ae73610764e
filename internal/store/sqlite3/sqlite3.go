// Package sqlite3 is the SQLite-backed implementation of image.Store,
// queried through goqu exactly as the reference pack's own store wires
// modernc.org/sqlite + doug-martin/goqu: no cgo driver, one embedded
// migration, single-writer connection pool.
package sqlite3

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store is a single SQLite-backed image.Store.
type Store struct {
	db   *sql.DB
	goqu *goqu.Database

	tableClasses exp.IdentifierExpression
	tableMethods exp.IdentifierExpression
	tableBase    exp.IdentifierExpression
}

// New opens datasource (a modernc.org/sqlite DSN, e.g. a file path or
// "file::memory:?cache=shared"), runs the embedded schema, and returns a
// ready Store. SQLite is single-writer, so the pool is capped at one
// connection, enforcing single-writer discipline at the adapter level.
func New(ctx context.Context, datasource string) (*Store, error) {
	if datasource == "" {
		return nil, errors.New("sqlite3: datasource is required")
	}

	db, err := sql.Open("sqlite", datasource)
	if err != nil {
		return nil, fmt.Errorf("sqlite3: open connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite3: ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite3: set WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite3: enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite3: apply schema: %w", err)
	}

	slog.Info("son: connected to sqlite store", "datasource", datasource)

	return &Store{
		db:           db,
		goqu:         goqu.New("sqlite3", db),
		tableClasses: goqu.T("son_classes"),
		tableMethods: goqu.T("son_methods"),
		tableBase:    goqu.T("son_base_environment"),
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		slog.Error("son: close sqlite store", "error", err)
	}
}
