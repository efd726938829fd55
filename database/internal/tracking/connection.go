package tracking

import (
	"context"
	"database/sql"
	"time"

	"github.com/gaborage/slimgen/config"
	"github.com/gaborage/slimgen/database/types"
	"github.com/gaborage/slimgen/logger"
)

// Connection wraps a types.Interface and records every query it runs.
type Connection struct {
	conn     types.Interface
	logger   logger.Logger
	vendor   string
	settings Settings
}

// NewConnection wraps conn. The vendor label comes from conn.DatabaseType().
func NewConnection(conn types.Interface, log logger.Logger, cfg *config.DatabaseConfig) types.Interface {
	return &Connection{
		conn:     conn,
		logger:   log,
		vendor:   conn.DatabaseType(),
		settings: NewSettings(cfg),
	}
}

func (tc *Connection) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := tc.conn.Query(ctx, query, args...)
	tc.track(ctx, query, start, err)
	return rows, err
}

// QueryRow defers tracking until the row is scanned, since that is when the
// error (including sql.ErrNoRows) becomes known.
func (tc *Connection) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	start := time.Now()
	row := tc.conn.QueryRow(ctx, query, args...)
	return &trackedRow{row: row, done: func(err error) {
		tc.track(ctx, query, start, err)
	}}
}

func (tc *Connection) Health(ctx context.Context) error {
	return tc.conn.Health(ctx)
}

func (tc *Connection) Stats() (map[string]any, error) {
	return tc.conn.Stats()
}

func (tc *Connection) Close() error {
	return tc.conn.Close()
}

func (tc *Connection) DatabaseType() types.Vendor {
	return tc.conn.DatabaseType()
}

func (tc *Connection) track(ctx context.Context, query string, start time.Time, err error) {
	TrackDBOperation(ctx, &Context{Logger: tc.logger, Vendor: tc.vendor, Settings: tc.settings}, query, start, err)
}

type trackedRow struct {
	row     types.Row
	done    func(error)
	tracked bool
}

func (r *trackedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.finish(err)
	return err
}

func (r *trackedRow) Err() error {
	err := r.row.Err()
	if err != nil {
		r.finish(err)
	}
	return err
}

func (r *trackedRow) finish(err error) {
	if r.tracked {
		return
	}
	r.tracked = true
	r.done(err)
}
