package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gaborage/slimgen/server"
)

// ServeOptions holds options for the serve command
type ServeOptions struct {
	Host  string
	Port  int
	Watch bool
}

// NewServeCommand creates the serve command
func NewServeCommand(global *GlobalOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API document, optionally rebuilding it on change",
		Long: `Serves public/swagger/swagger.json at /swagger/swagger.json. With --watch the
document is rebuilt whenever a PHP file under src/App, src/Controller or
src/Service changes.

Without --host the first LAN address of the machine is used.`,
		Example: `  slimgen serve
  slimgen serve --port 9000 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "Bind address (default: serve.host)")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port (default: serve.port)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Rebuild the document when sources change")

	return cmd
}

func runServe(cmd *cobra.Command, global *GlobalOptions, opts *ServeOptions) error {
	rt, err := newRuntime(cmd, global)
	if err != nil {
		return err
	}
	defer rt.finish()
	if opts.Host != "" {
		rt.cfg.Serve.Host = opts.Host
	}
	if opts.Port > 0 {
		rt.cfg.Serve.Port = opts.Port
	}
	rt.cfg.Serve.Host = server.ResolveHost(rt.cfg.Serve.Host)
	watch := opts.Watch || rt.cfg.Serve.Watch

	ctx := rt.ctx
	var watcher *server.Watcher
	if watch {
		if watcher, err = newDocsWatcher(ctx, rt); err != nil {
			return err
		}
	}

	srv := server.New(rt.cfg, rt.log)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving %s%s\n", server.URL(rt.cfg.Serve.Host, rt.cfg.Serve.Port), server.JSONPath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}
	return g.Wait()
}

// newDocsWatcher connects to the database, writes a first document and
// returns a watcher that rebuilds it. A failing first build is logged.
func newDocsWatcher(ctx context.Context, rt *runtime) (*server.Watcher, error) {
	catalog, err := rt.connect()
	if err != nil {
		return nil, err
	}

	rebuild := func(ctx context.Context) error {
		// lookups are cached per introspector, so schema changes need a
		// fresh one
		fresh, err := rt.freshCatalog()
		if err != nil {
			return err
		}
		_, err = rt.writeDocs(ctx, fresh)
		return err
	}
	if _, err := rt.writeDocs(ctx, catalog); err != nil {
		rt.log.Error().Err(err).Msg("Initial API document build failed")
	}

	w, err := server.NewWatcher(rt.cfg.Project.Root, server.WatchDirs, server.DefaultDebounce, rebuild, rt.log)
	if err != nil {
		rt.close()
		return nil, err
	}
	return w, nil
}
