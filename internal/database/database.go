// Package database opens the SQL pools behind the postgres and mysql key store drivers.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/allisson/familykeys/internal/errors"
)

// Pool defaults for a single device. The key store issues one statement at a time per key.
const (
	DefaultMaxOpenConnections = 4
	DefaultMaxIdleConnections = 2
	DefaultConnMaxLifetime    = 30 * time.Minute
)

// Config holds database configuration settings. Zero pool values take the defaults.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxOpenConnections <= 0 {
		c.MaxOpenConnections = DefaultMaxOpenConnections
	}
	if c.MaxIdleConnections <= 0 {
		c.MaxIdleConnections = DefaultMaxIdleConnections
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	return c
}

// Connect opens a pool for cfg and verifies it with a ping bounded by ctx.
//
// Returns ErrInvalidInput for a driver other than postgres or mysql and ErrUnavailable
// when the server cannot be reached.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	if _, err := MigrationsSource(cfg.Driver); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("failed to open database: %v", err))
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrUnavailable, fmt.Sprintf("failed to ping database: %v", err))
	}

	return db, nil
}

// MigrationsSource returns the golang-migrate source URL holding the schema for driver.
// Paths are relative to the working directory.
func MigrationsSource(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "file://migrations/postgresql", nil
	case "mysql":
		return "file://migrations/mysql", nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidInput, "unsupported database driver %q", driver)
	}
}
