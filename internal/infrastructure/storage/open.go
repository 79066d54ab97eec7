package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/awp-finanznachrichten/archive-llm/internal/config"
)

// Dialect selects dialect-specific DDL.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// OpenDB opens and pings the database described by cfg.
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		db, err := openMySQL(cfg.DSN)
		if err != nil {
			return nil, "", err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, "", fmt.Errorf("ping mysql: %w", err)
		}
		return db, DialectMySQL, nil
	case config.DriverSQLite:
		db, err := openSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, "", err
		}
		return db, DialectSQLite, nil
	default:
		return nil, "", fmt.Errorf("driver %q has no database handle", cfg.Driver)
	}
}

func openMySQL(dsn string) (*sql.DB, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	mcfg.ParseTime = true

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	return db, nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// In-memory databases live per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	return db, nil
}
