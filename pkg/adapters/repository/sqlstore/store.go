// Package sqlstore persists the catalog with bun. The dialect follows DATABASE_URL: postgres URLs
// use pgdriver, libsql and wss URLs use the Turso client, anything else is a local SQLite file.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type Store struct {
	db *bun.DB
}

// Open connects to dbURL and pings it. poolSize bounds open connections on Postgres;
// SQLite is pinned to a single connection so in-memory databases survive and writers serialize.
func Open(dbURL string, poolSize int) (*Store, error) {
	var db *bun.DB

	switch {
	case strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://"):
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dbURL)))
		if poolSize > 0 {
			sqldb.SetMaxOpenConns(poolSize)
			sqldb.SetMaxIdleConns(poolSize)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	case strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://"):
		sqldb, err := sql.Open("libsql", dbURL)
		if err != nil {
			return nil, err
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		sqldb, err := sql.Open("sqlite", dbURL)
		if err != nil {
			return nil, err
		}
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing bun handle.
func NewWithDB(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *bun.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return domain.Internal("database unreachable", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// translate maps driver errors onto domain errors. Domain errors pass through untouched.
func translate(err error, entity string, id any) error {
	if err == nil {
		return nil
	}
	var derr *domain.Error
	if errors.As(err, &derr) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("%s %v not found", entity, id)
	}
	return domain.Internal(fmt.Sprintf("%s query failed", entity), err)
}

func expectRows(res sql.Result, entity string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err, entity, id)
	}
	if n == 0 {
		return domain.NotFound("%s %v not found", entity, id)
	}
	return nil
}
