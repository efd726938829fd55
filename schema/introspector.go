package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/gaborage/slimgen/database/types"
	"github.com/gaborage/slimgen/logger"
)

const defaultSchema = "public"

// Introspector answers catalog questions about one database. It is safe
// for concurrent use: lookups for the same table share one query and the
// results are cached for the lifetime of the Introspector.
type Introspector struct {
	db      types.Interface
	q       queries
	log     logger.Logger
	limiter *rate.Limiter

	group   singleflight.Group
	mu      sync.Mutex
	tables  []string
	loaded  bool
	columns map[string][]ColumnDescriptor
}

// Option configures an Introspector.
type Option func(*Introspector)

// WithSchema sets the Postgres schema. MySQL always uses the connection's
// database.
func WithSchema(schema string) Option {
	return func(i *Introspector) {
		if schema != "" {
			i.q.schema = schema
		}
	}
}

// WithRateLimit caps catalog queries per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(i *Introspector) {
		if perSecond > 0 {
			i.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(i *Introspector) {
		if log != nil {
			i.log = log
		}
	}
}

// New builds an Introspector for db. The dialect comes from the
// connection.
func New(db types.Interface, opts ...Option) (*Introspector, error) {
	dialect, err := ParseDialect(db.DatabaseType())
	if err != nil {
		return nil, err
	}
	i := &Introspector{
		db:      db,
		q:       queries{dialect: dialect, schema: defaultSchema},
		log:     logger.Nop(),
		columns: make(map[string][]ColumnDescriptor),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Dialect returns the dialect of the underlying connection.
func (i *Introspector) Dialect() Dialect {
	return i.q.dialect
}

func (i *Introspector) wait(ctx context.Context) error {
	if i.limiter == nil {
		return nil
	}
	return i.limiter.Wait(ctx)
}

// ListTables returns the base tables of the schema ordered by name. The
// list is read once.
func (i *Introspector) ListTables(ctx context.Context) ([]string, error) {
	i.mu.Lock()
	if i.loaded {
		tables := slices.Clone(i.tables)
		i.mu.Unlock()
		return tables, nil
	}
	i.mu.Unlock()

	v, err, _ := i.group.Do("\x00tables", func() (any, error) {
		i.mu.Lock()
		if i.loaded {
			defer i.mu.Unlock()
			return i.tables, nil
		}
		i.mu.Unlock()

		tables, err := i.queryTables(ctx)
		if err != nil {
			return nil, err
		}
		i.mu.Lock()
		i.tables, i.loaded = tables, true
		i.mu.Unlock()
		return tables, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]string)), nil
}

func (i *Introspector) queryTables(ctx context.Context) ([]string, error) {
	query, args, err := i.q.tables().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build table list query: %w", err)
	}
	if err := i.wait(ctx); err != nil {
		return nil, err
	}
	rows, err := i.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// ResolveTable maps an approximate table name to a real one. ok is false
// when nothing matches.
func (i *Introspector) ResolveTable(ctx context.Context, hint string) (table string, ok bool, err error) {
	if strings.TrimSpace(hint) == "" {
		return "", false, nil
	}
	tables, err := i.ListTables(ctx)
	if err != nil {
		return "", false, err
	}
	table, ok = MatchTable(hint, tables)
	return table, ok, nil
}

// PrimaryKey looks up the primary-key column of table. Query failures are
// reported as KeyNotFound.
func (i *Introspector) PrimaryKey(ctx context.Context, table string) PrimaryKey {
	if table == "" {
		return PrimaryKey{Outcome: KeyNotFound}
	}
	query, args, err := i.q.primaryKey(table).ToSql()
	if err != nil {
		i.log.Debug().Err(err).Str("table", table).Msg("Primary key query build failed")
		return PrimaryKey{Outcome: KeyNotFound}
	}
	if err := i.wait(ctx); err != nil {
		return PrimaryKey{Outcome: KeyNotFound}
	}

	var column string
	if err := i.db.QueryRow(ctx, query, args...).Scan(&column); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			i.log.Debug().Err(err).Str("table", table).Msg("Primary key lookup failed")
		}
		return PrimaryKey{Outcome: KeyNotFound}
	}
	return PrimaryKey{Column: column, Outcome: KeyFound}
}

// PrimaryKeyType returns the normalized type of column in table. An empty
// table or an unknown column is assumed to be an integer key.
func (i *Introspector) PrimaryKeyType(ctx context.Context, table, column string) (NormalizedType, error) {
	integer := NormalizedType{Kind: KindInteger}
	if table == "" || column == "" {
		return integer, nil
	}
	query, args, err := i.q.columnType(table, column).ToSql()
	if err != nil {
		return NormalizedType{}, fmt.Errorf("build column type query: %w", err)
	}
	if err := i.wait(ctx); err != nil {
		return NormalizedType{}, err
	}

	var dataType string
	var detail, udt sql.NullString
	err = i.db.QueryRow(ctx, query, args...).Scan(&dataType, &detail, &udt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return integer, nil
	case err != nil:
		return NormalizedType{}, fmt.Errorf("primary key type of %s.%s: %w", table, column, err)
	}
	return MapType(i.q.dialect, dataType, detail.String, udt.String)
}

// Columns returns every column of table in definition order.
func (i *Introspector) Columns(ctx context.Context, table string) ([]ColumnDescriptor, error) {
	i.mu.Lock()
	if cols, ok := i.columns[table]; ok {
		i.mu.Unlock()
		return slices.Clone(cols), nil
	}
	i.mu.Unlock()

	v, err, shared := i.group.Do(table, func() (any, error) {
		i.mu.Lock()
		if cols, ok := i.columns[table]; ok {
			i.mu.Unlock()
			return cols, nil
		}
		i.mu.Unlock()

		cols, err := i.queryColumns(ctx, table)
		if err != nil {
			return nil, err
		}
		i.mu.Lock()
		i.columns[table] = cols
		i.mu.Unlock()
		return cols, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		i.log.Debug().Str("table", table).Msg("Column lookup shared with a concurrent caller")
	}
	return slices.Clone(v.([]ColumnDescriptor)), nil
}

func (i *Introspector) queryColumns(ctx context.Context, table string) ([]ColumnDescriptor, error) {
	query, args, err := i.q.columns(table).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build column query: %w", err)
	}
	if err := i.wait(ctx); err != nil {
		return nil, err
	}
	rows, err := i.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnDescriptor
	for rows.Next() {
		var (
			name, dataType, nullable string
			detail, udt, def, key    sql.NullString
			extra                    sql.NullString
		)
		if err := rows.Scan(&name, &dataType, &detail, &udt, &nullable, &def, &key, &extra); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		col := ColumnDescriptor{
			Name:             name,
			NativeType:       dataType,
			NativeTypeDetail: detail.String,
			UDTName:          udt.String,
			Nullable:         strings.EqualFold(nullable, "YES"),
			HasDefault:       def.Valid,
			Generation:       parseGeneration(extra.String),
			IsPrimaryKey:     strings.EqualFold(key.String, "PRI"),
		}
		if col.Type, err = MapType(i.q.dialect, dataType, detail.String, udt.String); err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	return cols, nil
}

// parseGeneration reads MySQL's EXTRA column, or the equivalent synthesized
// for Postgres.
func parseGeneration(extra string) Generation {
	e := strings.ToLower(extra)
	switch {
	case strings.Contains(e, "auto_increment"):
		return GenerationAutoIncrement
	case strings.Contains(e, "generated"):
		return GenerationDefault
	default:
		return GenerationNone
	}
}
