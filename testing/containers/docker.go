//go:build integration

// Package containers starts disposable MySQL and PostgreSQL servers for
// integration tests and describes them as slimgen database settings.
package containers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"

	"github.com/gaborage/slimgen/config"
)

const defaultStartupTimeout = 90 * time.Second

// Options configures a database container. Zero values take the
// per-vendor defaults.
type Options struct {
	ImageTag string
	Username string
	Password string
	Database string
	// InitSQL runs once when the server first starts.
	InitSQL        string
	StartupTimeout time.Duration
}

func (o *Options) withDefaults(tag string) Options {
	out := Options{
		ImageTag:       tag,
		Username:       "slimgen",
		Password:       "slimgen",
		Database:       "shop",
		StartupTimeout: defaultStartupTimeout,
	}
	if o == nil {
		return out
	}
	if o.ImageTag != "" {
		out.ImageTag = o.ImageTag
	}
	if o.Username != "" {
		out.Username = o.Username
	}
	if o.Password != "" {
		out.Password = o.Password
	}
	if o.Database != "" {
		out.Database = o.Database
	}
	if o.StartupTimeout > 0 {
		out.StartupTimeout = o.StartupTimeout
	}
	out.InitSQL = o.InitSQL
	return out
}

// Database is a running container and the settings that reach it.
type Database struct {
	Config    config.DatabaseConfig
	container testcontainers.Container
}

// Terminate stops and removes the container.
func (d *Database) Terminate(ctx context.Context) error {
	if d == nil || d.container == nil {
		return nil
	}
	return d.container.Terminate(ctx)
}

// register terminates the container when the test ends.
func (d *Database) register(t *testing.T) *Database {
	t.Helper()
	t.Cleanup(func() {
		if err := d.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate %s container: %v", d.Config.Client, err)
		}
	})
	return d
}

// isDockerAvailable reports whether the Docker daemon answers.
func isDockerAvailable(ctx context.Context) bool {
	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		return false
	}
	defer provider.Close()

	_, err = provider.DaemonHost(ctx)
	return err == nil
}

func skipWithoutDocker(ctx context.Context, t *testing.T) {
	t.Helper()
	if !isDockerAvailable(ctx) {
		t.Skip("Docker is not available, skipping integration test")
	}
}

// initScript writes sql to a file the container can mount. An empty sql
// yields no script.
func initScript(t *testing.T, sql string) []string {
	t.Helper()
	if sql == "" {
		return nil
	}
	path := filepath.Join(t.TempDir(), "init.sql")
	if err := os.WriteFile(path, []byte(sql), 0o644); err != nil {
		t.Fatalf("failed to write init script: %v", err)
	}
	return []string{path}
}

func poolDefaults(cfg *config.DatabaseConfig) {
	cfg.Pool = config.PoolConfig{Max: 4, Idle: 2, Lifetime: 5 * time.Minute}
}
