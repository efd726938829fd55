package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gaborage/slimgen/schema"
)

// NewDescribeCommand creates the describe command
func NewDescribeCommand(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show how a table maps to generated code",
		Long: `Prints the resolved table, its primary key, every column with its native
and mapped type, and the field sets generate would use.`,
		Example: `  slimgen describe users`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, global, args[0])
		},
	}
}

func runDescribe(cmd *cobra.Command, global *GlobalOptions, hint string) error {
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
	table, ok, err := catalog.ResolveTable(ctx, hint)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no table matches %q", hint)
	}

	pk := catalog.PrimaryKey(ctx, table)
	columns, err := catalog.Columns(ctx, table)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", bold("Table:"), table)
	if pk.Found() {
		pkType, err := catalog.PrimaryKeyType(ctx, table, pk.Column)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s %s (%s)\n", bold("Primary key:"), okMark(), pk.Column, describeType(pkType))
	} else {
		fmt.Fprintf(out, "%s %s %s\n", bold("Primary key:"), warnMark(), color.New(color.FgYellow).Sprint(pk.Outcome))
	}

	fmt.Fprintln(out)
	printColumns(out, columns)

	sets := schema.SynthesizeFieldSets(columns, pk.Column)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s\n", bold("Selectable:"), joinOrNone(sets.Selectable.Names()))
	fmt.Fprintf(out, "%s %s\n", bold("Insertable:"), joinOrNone(sets.Insertable.Names()))
	fmt.Fprintf(out, "%s %s\n", bold("Updatable: "), joinOrNone(sets.Updatable.Names()))
	if sets.UpdatedAtField != "" {
		fmt.Fprintf(out, "%s %s\n", bold("Updated at:"), sets.UpdatedAtField)
	}
	return nil
}

func printColumns(out io.Writer, columns []schema.ColumnDescriptor) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tNATIVE\tTYPE\tNULL\tDEFAULT\tGENERATED\tKEY")
	for _, c := range columns {
		native := c.NativeType
		if c.NativeTypeDetail != "" && c.NativeTypeDetail != c.NativeType {
			native = c.NativeTypeDetail
		}
		key := ""
		if c.IsPrimaryKey {
			key = "PRI"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Name, native, describeType(c.Type), yesNo(c.Nullable), yesNo(c.HasDefault), c.Generation, key)
	}
	_ = tw.Flush()
}

func describeType(t schema.NormalizedType) string {
	s := string(t.Kind)
	if t.Format != "" {
		s += "/" + string(t.Format)
	}
	if len(t.Enum) > 0 {
		s += " [" + strings.Join(t.Enum, "|") + "]"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
