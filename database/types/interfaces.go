// Package types holds the database contracts shared by the vendor packages,
// the tracking decorator and the schema introspector.
//
//nolint:revive // kept generic to avoid import cycles between vendor packages
package types

import (
	"context"
	"database/sql"
)

// Vendor identifies a database dialect.
type Vendor = string

const (
	MySQL      Vendor = "mysql"
	PostgreSQL Vendor = "postgresql"
)

// Row is a single result row.
type Row interface {
	Scan(dest ...any) error
	Err() error
}

type sqlRow struct {
	row *sql.Row
}

// NewRowFromSQL adapts *sql.Row to Row. A nil row yields nil.
func NewRowFromSQL(row *sql.Row) Row {
	if row == nil {
		return nil
	}
	return &sqlRow{row: row}
}

func (r *sqlRow) Scan(dest ...any) error {
	return r.row.Scan(dest...)
}

func (r *sqlRow) Err() error {
	return r.row.Err()
}

// Interface is a read-mostly database handle. One handle is opened per run
// and shared by every concurrent catalog lookup; database/sql's pool
// serializes access.
type Interface interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Health(ctx context.Context) error
	Stats() (map[string]any, error)
	Close() error
	DatabaseType() Vendor
}

// PoolStats flattens sql.DBStats for logging and doctor output.
func PoolStats(stats sql.DBStats) map[string]any {
	return map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
	}
}
