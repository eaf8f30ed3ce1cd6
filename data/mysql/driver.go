// Package mysql provides a MySQL driver for tcore/data, backed by
// github.com/go-sql-driver/mysql. It registers itself automatically when
// imported:
//
//	import _ "github.com/tenantify/tcore/data/mysql"
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/tenantify/tcore/config"
	"github.com/tenantify/tcore/data"
	"github.com/tenantify/tcore/paging/sqlstore"
)

// driver implements data.Driver for MySQL.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return "mysql"
}

// Dialect returns the SQL dialect for query rendering.
func (d *driver) Dialect() sqlstore.Dialect {
	return sqlstore.MySQL
}

// Connect establishes a MySQL connection using the provided configuration.
// Example DSN format:
//
//	user:pass@tcp(localhost:3306)/dbname?parseTime=true
//
// The connection is verified with a ping before being returned.
func (d *driver) Connect(ctx context.Context, cfg *config.Database) (*sql.DB, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("mysql: connection source is empty")
	}

	db, err := sql.Open("mysql", cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("mysql: failed to open connection: %w", err)
	}

	if cfg.MaxIdleConn > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifeTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: failed to ping database: %w", err)
	}

	return db, nil
}

func init() {
	data.RegisterDriver(&driver{})
}
