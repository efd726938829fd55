// Package generator emits the CRUD controller and service of a table into
// a Slim project and registers them in the project's route and service
// files.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gaborage/slimgen/internal/inflect"
	"github.com/gaborage/slimgen/logger"
	"github.com/gaborage/slimgen/reflector"
	"github.com/gaborage/slimgen/routes"
	"github.com/gaborage/slimgen/schema"
)

var (
	// ErrFileExists is returned when a target file exists and force is off.
	ErrFileExists = errors.New("file already exists")
	// ErrNoTable is returned when no table matches the hint.
	ErrNoTable = errors.New("no table matches")
	// ErrNoPrimaryKey is returned when the resolved table has no primary key.
	ErrNoPrimaryKey = errors.New("no primary key")
)

// Catalog is the schema lookup the generator needs.
type Catalog interface {
	ResolveTable(ctx context.Context, hint string) (string, bool, error)
	PrimaryKey(ctx context.Context, table string) schema.PrimaryKey
	PrimaryKeyType(ctx context.Context, table, column string) (schema.NormalizedType, error)
	Columns(ctx context.Context, table string) ([]schema.ColumnDescriptor, error)
}

// Request names the table to emit.
type Request struct {
	Hint string
	// ClassName overrides the class derived from the table name.
	ClassName string
	// Force overwrites existing controller and service files.
	Force bool
}

// Result describes what Generate wrote.
type Result struct {
	Table     string
	ClassName string
	RouteName string
	Fields    schema.FieldSets
	// Files lists the written paths, relative to the project root.
	Files []string
	// RoutesUpdated and ServicesUpdated are false when the resource was
	// already registered.
	RoutesUpdated   bool
	ServicesUpdated bool
}

// Generator writes CRUD sources under a project root.
type Generator struct {
	catalog Catalog
	root    string
	log     logger.Logger
}

// New returns a Generator for the project at root.
func New(catalog Catalog, root string, log logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{catalog: catalog, root: root, log: log}
}

// Generate resolves req.Hint to a table and emits its resource. Nothing is
// written when resolution fails or a target file exists.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	table, ok, err := g.catalog.ResolveTable(ctx, req.Hint)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve table %q: %w", req.Hint, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoTable, req.Hint)
	}

	pk := g.catalog.PrimaryKey(ctx, table)
	if !pk.Found() {
		return nil, fmt.Errorf("%w on table %q", ErrNoPrimaryKey, table)
	}
	pkType, err := g.catalog.PrimaryKeyType(ctx, table, pk.Column)
	if err != nil {
		return nil, err
	}
	columns, err := g.catalog.Columns(ctx, table)
	if err != nil {
		return nil, err
	}

	name := req.ClassName
	if name == "" {
		name = table
	}
	className := inflect.Classify(name)
	res := &Result{
		Table:     table,
		ClassName: className,
		RouteName: routes.TagToSlug(className),
		Fields:    schema.SynthesizeFieldSets(columns, pk.Column),
	}
	v := res.values(pk.Column, pkType)

	g.log.Debug().
		Str("table", table).
		Str("class", className).
		Str("primary_key", pk.Column).
		Int("columns", len(columns)).
		Msg("Resolved resource")

	outputs := []struct {
		rel, tmpl string
	}{
		{filepath.Join(reflector.ControllerDir, className+"Controller.php"), controllerTemplate},
		{filepath.Join(reflector.ServiceDir, className+"Service.php"), serviceTemplate},
	}
	if err := g.checkTargets(req.Force, outputs[0].rel, outputs[1].rel); err != nil {
		return nil, err
	}

	for _, out := range outputs {
		content, err := render(out.tmpl, v)
		if err != nil {
			return nil, err
		}
		if err := g.write(out.rel, content); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, out.rel)
	}

	if err := g.register(res, v); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Result) values(pk string, pkType schema.NormalizedType) values {
	phpType := "string"
	if pkType.Kind == schema.KindInteger {
		phpType = "int"
	}
	return values{
		"className":         r.ClassName,
		"classNameLowFirst": inflect.LowerFirst(r.ClassName),
		"tableName":         r.Table,
		"routeName":         r.RouteName,
		"primaryKey":        pk,
		"primaryKeyType":    phpType,
		"columnsToSelect":   r.Fields.ColumnsToSelect(),
		"phpDto":            indent(r.Fields.InsertDTO(), "      "),
		"phpUpdateDto":      indent(r.Fields.UpdateDTO(), "      "),
	}
}

// checkTargets fails before any write when a registry file is missing or
// a source file would be overwritten without force.
func (g *Generator) checkTargets(force bool, sources ...string) error {
	for _, rel := range []string{RoutesFile, ServicesFile} {
		if _, err := os.Stat(filepath.Join(g.root, rel)); err != nil {
			return fmt.Errorf("registry file %s: %w", rel, err)
		}
	}
	if force {
		return nil
	}
	for _, rel := range sources {
		_, err := os.Stat(filepath.Join(g.root, rel))
		if err == nil {
			return fmt.Errorf("%w: %s", ErrFileExists, rel)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", rel, err)
		}
	}
	return nil
}

func (g *Generator) write(rel, content string) error {
	path := filepath.Join(g.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	g.log.Info().Str("file", rel).Msg("Wrote source file")
	return nil
}

func (g *Generator) register(res *Result, v values) error {
	block, err := render(routesTemplate, v)
	if err != nil {
		return err
	}
	res.RoutesUpdated, err = updateFile(filepath.Join(g.root, RoutesFile), func(src string) (string, bool) {
		return insertRouteGroup(src, "/"+res.RouteName, block)
	})
	if err != nil {
		return err
	}

	entry, err := render(servicesTemplate, v)
	if err != nil {
		return err
	}
	key := v["classNameLowFirst"] + "Service"
	res.ServicesUpdated, err = updateFile(filepath.Join(g.root, ServicesFile), func(src string) (string, bool) {
		return appendService(src, key, entry)
	})
	if err != nil {
		return err
	}

	g.log.Info().
		Bool("routes_updated", res.RoutesUpdated).
		Bool("services_updated", res.ServicesUpdated).
		Str("route", "/"+res.RouteName).
		Msg("Registered resource")
	return nil
}
