package store

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DriverFactory is a function that creates a gorm.Dialector
type DriverFactory func(dsn string) gorm.Dialector

// driverFactories maps driver names to their factory functions. The host
// platform usually runs on postgres; sqlite serves tests and demos.
var driverFactories = map[string]DriverFactory{
	"sqlite":   sqlite.Open,
	"postgres": postgres.Open,
}

var driverAliases = map[string]string{
	"sqlite3":    "sqlite",
	"pgsql":      "postgres",
	"postgresql": "postgres",
}

// GetDialector returns a GORM dialector for the given driver name and DSN.
// Names are case-insensitive and accept the common aliases.
func GetDialector(driver, dsn string) (gorm.Dialector, error) {
	name := strings.ToLower(strings.TrimSpace(driver))
	if alias, ok := driverAliases[name]; ok {
		name = alias
	}
	factory, exists := driverFactories[name]
	if !exists {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return factory(dsn), nil
}

// RegisterDriver allows registering custom database drivers
func RegisterDriver(name string, factory DriverFactory) {
	driverFactories[name] = factory
}
