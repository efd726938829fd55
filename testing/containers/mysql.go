//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/gaborage/slimgen/config"
)

// StartMySQL starts a MySQL server, skipping the test when Docker is
// unavailable. The container is removed when the test ends.
func StartMySQL(ctx context.Context, t *testing.T, opts *Options) *Database {
	t.Helper()
	skipWithoutDocker(ctx, t)
	o := opts.withDefaults("8.0")

	runOpts := []testcontainers.ContainerCustomizer{
		mysql.WithDatabase(o.Database),
		mysql.WithUsername(o.Username),
		mysql.WithPassword(o.Password),
	}
	if scripts := initScript(t, o.InitSQL); len(scripts) > 0 {
		runOpts = append(runOpts, mysql.WithScripts(scripts...))
	}

	my, err := mysql.Run(ctx, "mysql:"+o.ImageTag, runOpts...)
	if err != nil {
		t.Fatalf("failed to start MySQL container: %v", err)
	}
	db := (&Database{container: my}).register(t)

	host, err := my.Host(ctx)
	if err != nil {
		t.Fatalf("failed to read MySQL host: %v", err)
	}
	port, err := my.MappedPort(ctx, "3306/tcp")
	if err != nil {
		t.Fatalf("failed to read MySQL port: %v", err)
	}

	db.Config = config.DatabaseConfig{
		Client: config.MySQL,
		Host:   host,
		Port:   port.Int(),
		User:   o.Username,
		Pass:   o.Password,
		Name:   o.Database,
	}
	poolDefaults(&db.Config)
	t.Logf("MySQL container listening on %s:%d", host, port.Int())
	return db
}
