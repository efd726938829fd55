// Package mysql opens MySQL connections through go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/gaborage/slimgen/config"
	"github.com/gaborage/slimgen/database/types"
	"github.com/gaborage/slimgen/logger"
)

const pingTimeout = 10 * time.Second

// Connection implements types.Interface for MySQL.
type Connection struct {
	db     *sql.DB
	config *config.DatabaseConfig
	logger logger.Logger
}

var (
	openMySQLDB = func(cfg *driver.Config) (*sql.DB, error) {
		connector, err := driver.NewConnector(cfg)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil
	}
	pingMySQLDB = func(ctx context.Context, db *sql.DB) error {
		return db.PingContext(ctx)
	}
)

func driverConfig(cfg *config.DatabaseConfig) *driver.Config {
	dc := driver.NewConfig()
	dc.Net = "tcp"
	dc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dc.User = cfg.User
	dc.Passwd = cfg.Pass
	dc.DBName = cfg.Name
	dc.ParseTime = true
	if cfg.SSLMode != "" && cfg.SSLMode != "disable" {
		dc.TLSConfig = cfg.SSLMode
	}
	return dc
}

// NewConnection opens and pings a MySQL connection.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (types.Interface, error) {
	db, err := openMySQLDB(driverConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	types.ApplyPool(db, cfg.Pool.Max, cfg.Pool.Idle, cfg.Pool.Lifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := pingMySQLDB(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close MySQL connection after ping failure")
		}
		return nil, config.NewConnectionError("database", fmt.Sprintf("failed to ping MySQL: %v", err), []string{
			fmt.Sprintf("check that %s:%d is reachable", cfg.Host, cfg.Port),
			"check DB_USER, DB_PASS and DB_NAME",
		})
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Msg("Connected to MySQL database")

	return &Connection{db: db, config: cfg, logger: log}, nil
}

func (c *Connection) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query, args...)
}

func (c *Connection) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	return types.NewRowFromSQL(c.db.QueryRowContext(ctx, query, args...))
}

func (c *Connection) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.db.PingContext(ctx)
}

func (c *Connection) Stats() (map[string]any, error) {
	return types.PoolStats(c.db.Stats()), nil
}

func (c *Connection) Close() error {
	c.logger.Debug().Msg("Closing MySQL connection")
	return c.db.Close()
}

func (c *Connection) DatabaseType() types.Vendor {
	return types.MySQL
}
