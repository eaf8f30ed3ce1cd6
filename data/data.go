package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tenantify/tcore/config"
	"github.com/tenantify/tcore/paging/sqlstore"
)

// Connection is an open database connection plus the dialect the paging
// stores need to render SQL against it.
type Connection struct {
	DB      *sql.DB
	Dialect sqlstore.Dialect

	driver Driver
}

// Open connects to the database named by the configuration, using whichever
// driver package the application imported.
func Open(ctx context.Context, cfg *config.Database) (*Connection, error) {
	if cfg == nil {
		return nil, fmt.Errorf("data: database configuration is nil")
	}

	driver, err := GetDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := driver.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Connection{DB: db, Dialect: driver.Dialect(), driver: driver}, nil
}

// Ping verifies the connection is alive and functional.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("data: ping %s: %w", c.driver.Name(), err)
	}
	return nil
}

// Close terminates the connection and releases resources.
func (c *Connection) Close() error {
	if err := c.DB.Close(); err != nil {
		return fmt.Errorf("data: close %s: %w", c.driver.Name(), err)
	}
	return nil
}
