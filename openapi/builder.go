package openapi

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/gaborage/slimgen/internal/inflect"
	"github.com/gaborage/slimgen/logger"
	"github.com/gaborage/slimgen/reflector"
	"github.com/gaborage/slimgen/routes"
	"github.com/gaborage/slimgen/schema"
)

// defaultPrimaryKey is assumed for tables whose key cannot be found.
const defaultPrimaryKey = "id"

// Catalog is the subset of the schema introspector the builder needs.
type Catalog interface {
	ResolveTable(ctx context.Context, hint string) (string, bool, error)
	PrimaryKey(ctx context.Context, table string) schema.PrimaryKey
	PrimaryKeyType(ctx context.Context, table, column string) (schema.NormalizedType, error)
	Columns(ctx context.Context, table string) ([]schema.ColumnDescriptor, error)
}

// Options configures a Builder.
type Options struct {
	Info      Info
	ServerURL string
	// Workers bounds concurrent route processing.
	Workers int
	Logger  logger.Logger
}

// Builder turns a routes file into an OpenAPI document.
type Builder struct {
	catalog Catalog
	refl    *reflector.Reflector
	opts    Options
	log     logger.Logger

	group  singleflight.Group
	mu     sync.Mutex
	tables map[string]*tableInfo
}

// tableInfo is what the catalog knows about a route's tag. name is empty
// when no table matched.
type tableInfo struct {
	name    string
	pk      schema.PrimaryKey
	pkType  schema.NormalizedType
	columns []schema.ColumnDescriptor
}

// NewBuilder returns a Builder. A nil catalog documents every route
// without database types.
func NewBuilder(catalog Catalog, refl *reflector.Reflector, opts Options) *Builder {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		catalog: catalog,
		refl:    refl,
		opts:    opts,
		log:     log,
		tables:  make(map[string]*tableInfo),
	}
}

type operation struct {
	path   string
	method string
	op     *openapi3.Operation
}

// Build scans routeSource and documents every route. Introspection
// failures abort the build; reflection misses only thin the result.
func (b *Builder) Build(ctx context.Context, routeSource string) (*openapi3.T, error) {
	found := routes.Scan(routeSource)
	b.log.Debug().Int("routes", len(found)).Msg("Scanned routes file")

	results := make([]operation, len(found))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for i, r := range found {
		g.Go(func() error {
			op, err := b.operation(gctx, r)
			if err != nil {
				return fmt.Errorf("route %s %s: %w", strings.ToUpper(r.Method), r.FinalPath, err)
			}
			results[i] = op
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc := NewDocument(b.opts.Info, b.opts.ServerURL)
	for _, res := range results {
		item := doc.Paths.Value(res.path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(res.path, item)
		}
		item.SetOperation(res.method, res.op)
	}
	b.log.Info().Int("routes", len(found)).Int("paths", doc.Paths.Len()).Msg("Built API document")
	return doc, nil
}

func (b *Builder) operation(ctx context.Context, r routes.Route) (operation, error) {
	info, err := b.table(ctx, r.Tag)
	if err != nil {
		return operation{}, err
	}

	path := routes.NormalizePath(r.FinalPath)
	method := strings.ToUpper(r.Method)
	op := &openapi3.Operation{
		Tags:        []string{inflect.Camelize(r.Tag)},
		Summary:     method + " " + path,
		OperationID: r.Tag + "_" + r.Action,
	}

	for _, name := range routes.PathParams(path) {
		p := openapi3.NewPathParameter(name).WithSchema(typeSchema(info.paramType(name)))
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
	}
	for _, q := range b.refl.QueryParams(r.Controller, r.Action) {
		p := openapi3.NewQueryParameter(q.Name).WithSchema(openapi3.NewStringSchema())
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
	}

	if hasBody(method) {
		fields := b.refl.BodyFields(r.Controller, r.Action)
		body := openapi3.NewRequestBody().
			WithJSONSchema(requestSchema(fields, info.columns, method == "POST")).
			WithRequired(true)
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}

	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, responseRef(b.refl.Response(r.Controller, r.Action))),
		openapi3.WithStatus(401, unauthorized()),
	)
	return operation{path: path, method: method, op: op}, nil
}

// hasBody reports whether operations with method document a request body.
func hasBody(method string) bool {
	switch method {
	case "POST", "PUT":
		return true
	default:
		return false
	}
}

// paramType types a path parameter by its column, else by the primary key.
func (t *tableInfo) paramType(name string) schema.NormalizedType {
	for _, c := range t.columns {
		if c.Name == name {
			return c.Type
		}
	}
	return t.pkType
}

// table resolves a tag once per Builder.
func (b *Builder) table(ctx context.Context, tag string) (*tableInfo, error) {
	b.mu.Lock()
	if info, ok := b.tables[tag]; ok {
		b.mu.Unlock()
		return info, nil
	}
	b.mu.Unlock()

	v, err, _ := b.group.Do(tag, func() (any, error) {
		b.mu.Lock()
		if info, ok := b.tables[tag]; ok {
			b.mu.Unlock()
			return info, nil
		}
		b.mu.Unlock()

		info, err := b.resolve(ctx, tag)
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		b.tables[tag] = info
		b.mu.Unlock()
		return info, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*tableInfo), nil
}

func (b *Builder) resolve(ctx context.Context, tag string) (*tableInfo, error) {
	info := &tableInfo{pkType: schema.NormalizedType{Kind: schema.KindInteger}}
	if b.catalog == nil || tag == "" {
		return info, nil
	}

	name, ok, err := b.catalog.ResolveTable(ctx, tag)
	if err != nil {
		return nil, err
	}
	if !ok {
		b.log.Debug().Str("tag", tag).Msg("No table matches route tag")
		return info, nil
	}

	info.name = name
	info.pk = b.catalog.PrimaryKey(ctx, name).WithDefault(defaultPrimaryKey)
	if info.pk.Outcome == schema.KeyDefaultAssumed {
		b.log.Warn().Str("table", name).Msg("Primary key not found, assuming id")
	}
	if info.pkType, err = b.catalog.PrimaryKeyType(ctx, name, info.pk.Column); err != nil {
		return nil, err
	}
	if info.columns, err = b.catalog.Columns(ctx, name); err != nil {
		return nil, err
	}
	return info, nil
}
