// Package database opens the connection a run introspects and wraps it with
// query tracking.
package database

import (
	"fmt"
	"slices"

	"github.com/gaborage/slimgen/config"
	"github.com/gaborage/slimgen/database/internal/tracking"
	"github.com/gaborage/slimgen/database/mysql"
	"github.com/gaborage/slimgen/database/postgresql"
	"github.com/gaborage/slimgen/database/types"
	"github.com/gaborage/slimgen/logger"
)

// Interface is the handle passed to the schema introspector.
type Interface = types.Interface

type opener func(*config.DatabaseConfig, logger.Logger) (types.Interface, error)

var openers = map[string]opener{
	types.MySQL:      mysql.NewConnection,
	types.PostgreSQL: postgresql.NewConnection,
}

// NewConnection opens the connection selected by cfg.Client and wraps it
// with tracking.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (Interface, error) {
	open, ok := openers[cfg.Client]
	if !ok {
		return nil, fmt.Errorf("unsupported database type: %s (supported: %v)", cfg.Client, SupportedDatabaseTypes())
	}

	conn, err := open(cfg, log)
	if err != nil {
		return nil, err
	}
	return tracking.NewConnection(conn, log, cfg), nil
}

// ValidateDatabaseType reports whether dbType is a supported client.
func ValidateDatabaseType(dbType string) error {
	if !slices.Contains(SupportedDatabaseTypes(), dbType) {
		return fmt.Errorf("unsupported database type: %s (supported: %v)", dbType, SupportedDatabaseTypes())
	}
	return nil
}

// SupportedDatabaseTypes lists the accepted clients.
func SupportedDatabaseTypes() []string {
	return []string{types.MySQL, types.PostgreSQL}
}
