package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DocsOptions holds options for the docs command
type DocsOptions struct {
	YAML    bool
	Workers int
}

// NewDocsCommand creates the docs command
func NewDocsCommand(global *GlobalOptions) *cobra.Command {
	opts := &DocsOptions{}

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate the OpenAPI document of a Slim project",
		Long: `Scans src/App/Routes.php, reads the controllers and services the routes
point at, and types path parameters and request bodies from the live
database schema. The result replaces public/swagger/swagger.json.`,
		Example: `  # Document the project in the current directory
  slimgen docs

  # Document another project and also write swagger.yaml
  slimgen docs -p ../shop-api --yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDocs(cmd, global, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "Also write swagger.yaml")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Routes documented concurrently (default: docs.workers)")

	return cmd
}

func runDocs(cmd *cobra.Command, global *GlobalOptions, opts *DocsOptions) error {
	rt, err := newRuntime(cmd, global)
	if err != nil {
		return err
	}
	defer rt.finish()
	if opts.YAML {
		rt.cfg.Docs.YAML = true
	}
	if opts.Workers > 0 {
		rt.cfg.Docs.Workers = opts.Workers
	}

	catalog, err := rt.connect()
	if err != nil {
		return err
	}

	res, err := rt.writeDocs(rt.ctx, catalog)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range res.files {
		fmt.Fprintf(out, "✓ API document written: %s\n", relPath(rt.cfg.Project.Root, f))
	}
	fmt.Fprintf(out, "  %d paths documented\n", res.paths)
	return nil
}
