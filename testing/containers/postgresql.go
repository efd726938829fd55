//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gaborage/slimgen/config"
)

// StartPostgreSQL starts a PostgreSQL server, skipping the test when Docker
// is unavailable. The container is removed when the test ends.
func StartPostgreSQL(ctx context.Context, t *testing.T, opts *Options) *Database {
	t.Helper()
	skipWithoutDocker(ctx, t)
	o := opts.withDefaults("17-alpine")

	pg, err := postgres.Run(ctx,
		"postgres:"+o.ImageTag,
		postgres.WithDatabase(o.Database),
		postgres.WithUsername(o.Username),
		postgres.WithPassword(o.Password),
		postgres.WithInitScripts(initScript(t, o.InitSQL)...),
		testcontainers.WithWaitStrategy(
			// postgres restarts once after the init scripts
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(o.StartupTimeout),
		),
	)
	if err != nil {
		t.Fatalf("failed to start PostgreSQL container: %v", err)
	}
	db := (&Database{container: pg}).register(t)

	host, err := pg.Host(ctx)
	if err != nil {
		t.Fatalf("failed to read PostgreSQL host: %v", err)
	}
	port, err := pg.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to read PostgreSQL port: %v", err)
	}

	db.Config = config.DatabaseConfig{
		Client:  config.PostgreSQL,
		Host:    host,
		Port:    port.Int(),
		User:    o.Username,
		Pass:    o.Password,
		Name:    o.Database,
		Schema:  "public",
		SSLMode: "disable",
	}
	poolDefaults(&db.Config)
	t.Logf("PostgreSQL container listening on %s:%d", host, port.Int())
	return db
}
