// Package sqlite provides a SQLite driver for tcore/data, backed by
// github.com/mattn/go-sqlite3. It registers itself automatically when
// imported:
//
//	import _ "github.com/tenantify/tcore/data/sqlite"
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/tenantify/tcore/config"
	"github.com/tenantify/tcore/data"
	"github.com/tenantify/tcore/paging/sqlstore"
)

// driver implements data.Driver for SQLite.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return "sqlite"
}

// Dialect returns the SQL dialect for query rendering.
func (d *driver) Dialect() sqlstore.Dialect {
	return sqlstore.SQLite
}

// Connect opens a SQLite database file, or an in-memory database when the
// source is ":memory:". The connection is verified with a ping before being
// returned.
func (d *driver) Connect(ctx context.Context, cfg *config.Database) (*sql.DB, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("sqlite: connection source is empty")
	}

	db, err := sql.Open("sqlite3", cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open connection: %w", err)
	}

	// SQLite serializes writes; a large pool only produces lock contention.
	db.SetMaxOpenConns(1)
	if cfg.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifeTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping database: %w", err)
	}

	return db, nil
}

func init() {
	data.RegisterDriver(&driver{})
}
