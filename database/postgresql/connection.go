// Package postgresql opens PostgreSQL connections through the pgx stdlib
// driver.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/gaborage/slimgen/config"
	"github.com/gaborage/slimgen/database/types"
	"github.com/gaborage/slimgen/logger"
)

const pingTimeout = 10 * time.Second

// Connection implements types.Interface for PostgreSQL.
type Connection struct {
	db     *sql.DB
	config *config.DatabaseConfig
	logger logger.Logger
}

var (
	openPostgresDB = func(cfg *pgx.ConnConfig) *sql.DB {
		return stdlib.OpenDB(*cfg)
	}
	pingPostgresDB = func(ctx context.Context, db *sql.DB) error {
		return db.PingContext(ctx)
	}
)

// quoteDSN quotes a keyword/value DSN value following libpq rules.
func quoteDSN(value string) string {
	if value == "" {
		return "''"
	}

	plain := true
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') && r != '.' && r != '_' && r != '-' {
			plain = false
			break
		}
	}
	if plain {
		return value
	}

	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}

func buildDSN(cfg *config.DatabaseConfig) string {
	parts := []string{
		"host=" + quoteDSN(cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		"user=" + quoteDSN(cfg.User),
		"password=" + quoteDSN(cfg.Pass),
		"dbname=" + quoteDSN(cfg.Name),
	}
	if cfg.SSLMode != "" {
		parts = append(parts, "sslmode="+quoteDSN(cfg.SSLMode))
	}
	return strings.Join(parts, " ")
}

// NewConnection opens and pings a PostgreSQL connection.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (types.Interface, error) {
	pgxConfig, err := pgx.ParseConfig(buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}

	db := openPostgresDB(pgxConfig)
	types.ApplyPool(db, cfg.Pool.Max, cfg.Pool.Idle, cfg.Pool.Lifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := pingPostgresDB(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close PostgreSQL connection after ping failure")
		}
		return nil, config.NewConnectionError("database", fmt.Sprintf("failed to ping PostgreSQL: %v", err), []string{
			fmt.Sprintf("check that %s:%d is reachable", cfg.Host, cfg.Port),
			"check DB_USER, DB_PASS and DB_NAME",
		})
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Str("schema", cfg.Schema).
		Msg("Connected to PostgreSQL database")

	return &Connection{db: db, config: cfg, logger: log}, nil
}

func (c *Connection) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query, args...)
}

func (c *Connection) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	return types.NewRowFromSQL(c.db.QueryRowContext(ctx, query, args...))
}

// Health pings the server with a short timeout.
func (c *Connection) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.db.PingContext(ctx)
}

func (c *Connection) Stats() (map[string]any, error) {
	return types.PoolStats(c.db.Stats()), nil
}

func (c *Connection) Close() error {
	c.logger.Debug().Msg("Closing PostgreSQL connection")
	return c.db.Close()
}

func (c *Connection) DatabaseType() types.Vendor {
	return types.PostgreSQL
}
