// Package data manages relational database connections for the paging
// stores. Drivers follow the design pattern of database/sql: they register
// themselves from init() functions and are looked up at runtime based on
// configuration.
package data

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/tenantify/tcore/config"
	"github.com/tenantify/tcore/paging/sqlstore"
)

// Driver defines the interface for relational database drivers.
// Implementations handle connection lifecycle and health checks.
type Driver interface {
	// Name returns the driver identifier (e.g., "postgres", "mysql", "sqlite")
	Name() string

	// Dialect returns the SQL dialect used when rendering keyset queries.
	Dialect() sqlstore.Dialect

	// Connect establishes a new database connection using the provided
	// configuration. The returned connection is verified with a ping.
	Connect(ctx context.Context, cfg *config.Database) (*sql.DB, error)
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// RegisterDriver makes a database driver available by the provided name.
// It is intended to be called from the init function in driver packages.
//
// Example usage in a driver package:
//
//	func init() {
//	    data.RegisterDriver(&postgresDriver{})
//	}
//
// If RegisterDriver is called twice with the same name or if driver is nil,
// it panics.
func RegisterDriver(driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if driver == nil {
		panic("data: RegisterDriver driver is nil")
	}

	name := driver.Name()
	if name == "" {
		panic("data: RegisterDriver driver name is empty")
	}

	if _, exists := drivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterDriver called twice for driver %s", name))
	}

	drivers[name] = driver
}

// GetDriver retrieves a registered database driver by name.
// It returns an error with helpful instructions if the driver is not found.
func GetDriver(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()

	driver, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf(
			"data: database driver %q not registered\n\n"+
				"Did you forget to import the driver package?\n"+
				"Add to your imports:\n"+
				"    _ \"github.com/tenantify/tcore/data/%s\"\n\n"+
				"Available drivers: %v",
			name, name, listDriversLocked(),
		)
	}

	return driver, nil
}

// ListDrivers returns a snapshot of the registered driver names.
// Useful for debugging and diagnostics.
func ListDrivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	return listDriversLocked()
}

// listDriversLocked must be called with the lock held.
func listDriversLocked() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	return names
}
