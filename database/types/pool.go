package types

import (
	"database/sql"
	"time"
)

// ApplyPool sets the pool limits that are positive. Zero keeps the
// database/sql default: unlimited open connections, two idle connections
// and no lifetime limit.
func ApplyPool(db *sql.DB, maxOpen, maxIdle int, lifetime time.Duration) {
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if lifetime > 0 {
		db.SetConnMaxLifetime(lifetime)
	}
}
