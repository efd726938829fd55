package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaborage/slimgen/database"
	"github.com/gaborage/slimgen/generator"
	"github.com/gaborage/slimgen/reflector"
)

const healthTimeout = 10 * time.Second

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the project layout, configuration and database",
		Long: `Performs health checks to ensure slimgen can run against the project.

Checks include:
- src/App/Routes.php, src/Controller and src/Service exist
- the configuration is complete and valid
- the database answers a ping
- the database server is recent enough to introspect`,
		Example: `  slimgen doctor
  slimgen doctor -p ../shop-api`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, global)
		},
	}
}

func runDoctor(cmd *cobra.Command, global *GlobalOptions) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold("Running slimgen health check..."))
	fmt.Fprintln(out)

	root := global.ProjectRoot
	if root == "" {
		root = "."
	}

	failed := false
	report := func(ok bool, format string, args ...any) {
		if !ok {
			failed = true
		}
		fmt.Fprintf(out, "%s %s\n", mark(ok), fmt.Sprintf(format, args...))
	}

	rt, err := newRuntime(cmd, global)
	if err == nil {
		root = rt.cfg.Project.Root
	}
	fmt.Fprintf(out, "Project root: %s\n", root)
	checkLayout(root, report)

	if err != nil {
		report(false, "Configuration: %v", err)
		return doctorResult(out, true)
	}
	defer rt.finish()
	report(true, "Configuration valid (%s on %s:%d)", rt.cfg.Database.Client, rt.cfg.Database.Host, rt.cfg.Database.Port)

	checkDatabase(rt.ctx, rt, report)
	return doctorResult(out, failed)
}

func checkLayout(root string, report func(bool, string, ...any)) {
	entries := []struct {
		rel string
		dir bool
	}{
		{generator.RoutesFile, false},
		{generator.ServicesFile, false},
		{reflector.ControllerDir, true},
		{reflector.ServiceDir, true},
	}
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(root, e.rel))
		switch {
		case err != nil:
			report(false, "%s missing", e.rel)
		case info.IsDir() != e.dir:
			report(false, "%s has the wrong type", e.rel)
		default:
			report(true, "%s found", e.rel)
		}
	}
}

func checkDatabase(ctx context.Context, rt *runtime, report func(bool, string, ...any)) {
	catalog, err := rt.connect()
	if err != nil {
		report(false, "Database connection: %v", err)
		return
	}
	defer rt.close()

	pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := rt.db.Health(pingCtx); err != nil {
		report(false, "Database ping: %v", err)
		return
	}
	report(true, "Database reachable")

	version, err := database.ServerVersion(ctx, rt.db)
	if err != nil {
		report(false, "Server version: %v", err)
	} else if err := database.CheckServerVersion(rt.db.DatabaseType(), version); err != nil {
		report(false, "Server version: %v", err)
	} else {
		report(true, "Server version %s supported", version)
	}

	tables, err := catalog.ListTables(ctx)
	if err != nil {
		report(false, "Catalog: %v", err)
		return
	}
	report(len(tables) > 0, "%d tables visible in the catalog", len(tables))
}

func doctorResult(out io.Writer, failed bool) error {
	fmt.Fprintln(out)
	if failed {
		fmt.Fprintf(out, "%s Health check failed - please fix the issues above\n", failMark())
		return fmt.Errorf("health check failed")
	}
	fmt.Fprintf(out, "%s All checks passed - ready to generate\n", okMark())
	return nil
}
