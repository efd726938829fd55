// Package commands implements the slimgen subcommands.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/slimgen/config"
	"github.com/gaborage/slimgen/database"
	"github.com/gaborage/slimgen/generator"
	"github.com/gaborage/slimgen/logger"
	"github.com/gaborage/slimgen/observability"
	"github.com/gaborage/slimgen/openapi"
	"github.com/gaborage/slimgen/reflector"
	"github.com/gaborage/slimgen/schema"
	"github.com/gaborage/slimgen/server"
)

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	ProjectRoot string
	ConfigFile  string
	Verbose     bool
	Trace       bool
}

// AddGlobalFlags registers the shared flags on root.
func AddGlobalFlags(root *cobra.Command, opts *GlobalOptions) {
	root.PersistentFlags().StringVarP(&opts.ProjectRoot, "project", "p", "", "PHP project root (default: project.root, then the working directory)")
	root.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file (default: config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug logging")
	root.PersistentFlags().BoolVar(&opts.Trace, "trace", false, "Print OpenTelemetry spans to stderr (default: log.trace)")
}

const (
	commandTracerName = "slimgen/commands"
	flushTimeout      = 5 * time.Second
)

// Seams for tests.
var (
	openDatabase = database.NewConnection
	newLogger    = func(level string, pretty bool) logger.Logger { return logger.New(level, pretty) }
)

// runtime is the per-run state a command works with.
type runtime struct {
	cfg *config.Config
	log logger.Logger
	db  database.Interface

	// ctx carries the command span.
	ctx      context.Context
	span     trace.Span
	shutdown observability.ShutdownFunc
}

// newRuntime loads configuration, builds the run logger and starts the
// command span. Callers must call finish.
func newRuntime(cmd *cobra.Command, opts *GlobalOptions) (*runtime, error) {
	cfg, err := config.Load(config.Options{ProjectRoot: opts.ProjectRoot, ConfigFile: opts.ConfigFile})
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	runID := uuid.NewString()
	log := newLogger(level, cfg.Log.Pretty).WithFields(map[string]any{
		"run_id":  runID,
		"command": cmd.Name(),
	})
	log.Debug().Str("project", cfg.Project.Root).Str("db_client", cfg.Database.Client).Msg("Configuration loaded")

	shutdown, err := observability.Setup(observability.Options{
		Enabled:        opts.Trace || cfg.Log.Trace,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Writer:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(commandTracerName).Start(commandContext(cmd), "slimgen."+cmd.Name(),
		trace.WithAttributes(attribute.String("slimgen.run_id", runID)))

	return &runtime{cfg: cfg, log: log, ctx: ctx, span: span, shutdown: shutdown}, nil
}

// finish ends the command span, flushes traces and closes the database.
func (r *runtime) finish() {
	r.close()
	r.span.End()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := r.shutdown(ctx); err != nil {
		r.log.Warn().Err(err).Msg("Failed to flush traces")
	}
}

// connect opens the database and returns an introspector over it.
func (r *runtime) connect() (*schema.Introspector, error) {
	db, err := openDatabase(&r.cfg.Database, r.log)
	if err != nil {
		return nil, err
	}
	r.db = db
	return r.freshCatalog()
}

// freshCatalog returns an introspector with empty caches over the open
// connection.
func (r *runtime) freshCatalog() (*schema.Introspector, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is not open")
	}
	return schema.New(r.db,
		schema.WithSchema(r.cfg.Database.Schema),
		schema.WithRateLimit(r.cfg.Database.Query.Rate),
		schema.WithLogger(r.log),
	)
}

func (r *runtime) close() {
	if r.db == nil {
		return
	}
	if err := r.db.Close(); err != nil {
		r.log.Warn().Err(err).Msg("Failed to close database connection")
	}
	r.db = nil
}

type docsResult struct {
	files []string
	paths int
}

// writeDocs rebuilds the API document from the project sources.
func (r *runtime) writeDocs(ctx context.Context, catalog openapi.Catalog) (*docsResult, error) {
	root := r.cfg.Project.Root
	src, err := os.ReadFile(filepath.Join(root, generator.RoutesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read routes file: %w", err)
	}

	fallback := openapi.DefaultInfo(r.cfg.App.Name, r.cfg.App.Version)
	info, err := openapi.LoadInfo(filepath.Join(root, r.cfg.Docs.Info), fallback)
	if err != nil {
		r.log.Warn().Err(err).Msg("Ignoring info override")
	}

	b := openapi.NewBuilder(catalog, reflector.New(root), openapi.Options{
		Info:      info,
		ServerURL: server.URL(server.ResolveHost(r.cfg.Serve.Host), r.cfg.Serve.Port),
		Workers:   r.cfg.Docs.Workers,
		Logger:    r.log,
	})
	doc, err := b.Build(ctx, string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to build API document: %w", err)
	}

	files, err := openapi.Write(doc, root, r.cfg.Docs.YAML)
	if err != nil {
		return nil, err
	}
	return &docsResult{files: files, paths: doc.Paths.Len()}, nil
}

// relPath shortens path for output when it is under root.
func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
