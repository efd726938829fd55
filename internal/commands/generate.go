package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaborage/slimgen/generator"
)

// GenerateOptions holds options for the generate command
type GenerateOptions struct {
	ClassName string
	Force     bool
	SkipDocs  bool
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand(global *GlobalOptions) *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <table>",
		Short: "Generate a CRUD endpoint for a table",
		Long: `Resolves <table> against the database, writes a controller and a service
under src/, registers the route group and the service container entry, and
rebuilds the API document.

The table name may be given in any common form: "order_items", "OrderItem"
and "order-item" all resolve to the same table.`,
		Example: `  slimgen generate users
  slimgen generate app_order_items --class OrderItem`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, global, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.ClassName, "class", "", "Class name (default: the classified table name)")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite existing controller and service files")
	cmd.Flags().BoolVar(&opts.SkipDocs, "skip-docs", false, "Do not rebuild the API document")

	return cmd
}

func runGenerate(cmd *cobra.Command, global *GlobalOptions, opts *GenerateOptions, hint string) error {
	rt, err := newRuntime(cmd, global)
	if err != nil {
		return err
	}
	defer rt.finish()

	catalog, err := rt.connect()
	if err != nil {
		return err
	}

	ctx := rt.ctx
	g := generator.New(catalog, rt.cfg.Project.Root, rt.log)
	res, err := g.Generate(ctx, generator.Request{Hint: hint, ClassName: opts.ClassName, Force: opts.Force})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range res.Files {
		fmt.Fprintf(out, "✓ Created %s\n", f)
	}
	printRegistration(cmd, res.RoutesUpdated, "/"+res.RouteName, generator.RoutesFile)
	printRegistration(cmd, res.ServicesUpdated, res.ClassName+"Service", generator.ServicesFile)
	fmt.Fprintf(out, "✓ Endpoint \"/%s\" generated from table %s\n", res.RouteName, res.Table)

	if opts.SkipDocs {
		return nil
	}
	docs, err := rt.writeDocs(ctx, catalog)
	if err != nil {
		return err
	}
	for _, f := range docs.files {
		fmt.Fprintf(out, "✓ API document written: %s\n", relPath(rt.cfg.Project.Root, f))
	}
	return nil
}

func printRegistration(cmd *cobra.Command, updated bool, what, file string) {
	if updated {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Registered %s in %s\n", what, file)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "• %s already registered in %s\n", what, file)
}
