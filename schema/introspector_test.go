package schema

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/slimgen/database/types"
	"github.com/gaborage/slimgen/internal/testutil"
)

var columnHeaders = []string{
	"column_name", "data_type", "column_type", "udt_name",
	"is_nullable", "column_default", "column_key", "extra",
}

func newIntrospector(t *testing.T, vendor types.Vendor, opts ...Option) (*Introspector, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := testutil.NewMockDB(t, vendor)
	in, err := New(db, opts...)
	require.NoError(t, err)
	return in, mock
}

func TestNewRejectsUnknownVendor(t *testing.T) {
	db, _ := testutil.NewMockDB(t, "oracle")
	_, err := New(db)
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestListTablesMySQLCached(t *testing.T) {
	in, mock := newIntrospector(t, types.MySQL)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE()")).
		WithArgs("BASE TABLE").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("app_users").AddRow("orders"))

	ctx := context.Background()
	first, err := in.ListTables(ctx)
	require.NoError(t, err)
	second, err := in.ListTables(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"app_users", "orders"}, first)
	assert.Equal(t, first, second)
}

func TestListTablesPostgresSchema(t *testing.T) {
	in, mock := newIntrospector(t, types.PostgreSQL, WithSchema("inventory"))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE table_schema = $1 AND table_type = $2 ORDER BY table_name")).
		WithArgs("inventory", "BASE TABLE").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("stock"))

	tables, err := in.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"stock"}, tables)
}

func TestListTablesError(t *testing.T) {
	in, mock := newIntrospector(t, types.MySQL)
	mock.ExpectQuery("information_schema.tables").WillReturnError(errors.New(testutil.TestConnectionRefused))

	_, err := in.ListTables(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list tables")
}

func TestResolveTable(t *testing.T) {
	in, mock := newIntrospector(t, types.MySQL)
	mock.ExpectQuery("information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("app_users").AddRow("orders"))

	ctx := context.Background()
	table, ok, err := in.ResolveTable(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "app_users", table)

	_, ok, err = in.ResolveTable(ctx, "invoice")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = in.ResolveTable(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrimaryKey(t *testing.T) {
	in, mock := newIntrospector(t, types.MySQL)
	ctx := context.Background()

	mock.ExpectQuery("FROM information_schema.key_column_usage").
		WithArgs("orders", "PRIMARY").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))
	pk := in.PrimaryKey(ctx, "orders")
	assert.Equal(t, PrimaryKey{Column: "id", Outcome: KeyFound}, pk)
	assert.True(t, pk.Found())
	assert.Equal(t, pk, pk.WithDefault("uid"))

	mock.ExpectQuery("FROM information_schema.key_column_usage").
		WithArgs("logs", "PRIMARY").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))
	pk = in.PrimaryKey(ctx, "logs")
	assert.Equal(t, KeyNotFound, pk.Outcome)
	assert.Empty(t, pk.Column)

	mock.ExpectQuery("FROM information_schema.key_column_usage").
		WillReturnError(errors.New(testutil.TestError))
	pk = in.PrimaryKey(ctx, "broken")
	assert.Equal(t, KeyNotFound, pk.Outcome)

	assumed := pk.WithDefault("id")
	assert.Equal(t, PrimaryKey{Column: "id", Outcome: KeyDefaultAssumed}, assumed)
	assert.Equal(t, "default assumed", assumed.Outcome.String())

	assert.Equal(t, KeyNotFound, in.PrimaryKey(ctx, "").Outcome)
}

func TestPrimaryKeyPostgres(t *testing.T) {
	in, mock := newIntrospector(t, types.PostgreSQL)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.relname = $1 AND n.nspname = $2 AND i.indisprimary LIMIT 1")).
		WithArgs("orders", "public").
		WillReturnRows(sqlmock.NewRows([]string{"attname"}).AddRow("order_id"))

	pk := in.PrimaryKey(context.Background(), "orders")
	assert.Equal(t, PrimaryKey{Column: "order_id", Outcome: KeyFound}, pk)
}

func TestPrimaryKeyType(t *testing.T) {
	in, mock := newIntrospector(t, types.PostgreSQL)
	ctx := context.Background()
	headers := []string{"data_type", "column_type", "udt_name"}

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public", "users", "id").
		WillReturnRows(sqlmock.NewRows(headers).AddRow("uuid", "uuid", "uuid"))
	typ, err := in.PrimaryKeyType(ctx, "users", "id")
	require.NoError(t, err)
	assert.Equal(t, NormalizedType{Kind: KindString, Format: FormatUUID}, typ)

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public", "users", "missing").
		WillReturnRows(sqlmock.NewRows(headers))
	typ, err = in.PrimaryKeyType(ctx, "users", "missing")
	require.NoError(t, err)
	assert.Equal(t, NormalizedType{Kind: KindInteger}, typ)

	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnError(errors.New(testutil.TestConnectionRefused))
	_, err = in.PrimaryKeyType(ctx, "users", "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), testutil.TestConnectionRefused)

	typ, err = in.PrimaryKeyType(ctx, "", "id")
	require.NoError(t, err)
	assert.Equal(t, NormalizedType{Kind: KindInteger}, typ)
}

func TestColumnsMySQLOrders(t *testing.T) {
	in, mock := newIntrospector(t, types.MySQL)
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows(columnHeaders).
			AddRow("id", "int", "int(11)", "", "NO", nil, "PRI", "auto_increment").
			AddRow("customer_name", "varchar", "varchar(120)", "", "NO", nil, "", "").
			AddRow("created_at", "datetime", "datetime", "", "YES", nil, "", ""))

	cols, err := in.Columns(context.Background(), "orders")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.True(t, cols[0].IsPrimaryKey)
	assert.Equal(t, GenerationAutoIncrement, cols[0].Generation)
	assert.True(t, cols[0].IsAutoGenerated())
	assert.True(t, cols[1].Required())
	assert.False(t, cols[2].Required())
	assert.Equal(t, FormatDateTime, cols[2].Type.Format)

	sets := SynthesizeFieldSets(cols, "id")
	assert.Equal(t, []string{"customer_name"}, sets.Insertable.Names())
	assert.Equal(t, []string{"id", "customer_name"}, sets.Selectable.Names())
}

func TestColumnsMySQLGenerated(t *testing.T) {
	in, mock := newIntrospector(t, types.MySQL)
	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnRows(sqlmock.NewRows(columnHeaders).
			AddRow("kind", "enum", "enum('a','b')", "", "NO", "a", "", "").
			AddRow("touched", "timestamp", "timestamp", "", "YES", "CURRENT_TIMESTAMP", "", "DEFAULT_GENERATED on update CURRENT_TIMESTAMP").
			AddRow("total", "decimal", "decimal(10,2)", "", "YES", nil, "", "STORED GENERATED"))

	cols, err := in.Columns(context.Background(), "items")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.Equal(t, []string{"a", "b"}, cols[0].Type.Enum)
	assert.True(t, cols[0].HasDefault)
	assert.Equal(t, GenerationDefault, cols[1].Generation)
	assert.Equal(t, GenerationDefault, cols[2].Generation)
}

func TestColumnsPostgres(t *testing.T) {
	in, mock := newIntrospector(t, types.PostgreSQL, WithSchema("shop"))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.table_schema = $1 AND c.table_name = $2 ORDER BY c.ordinal_position")).
		WithArgs("shop", "orders").
		WillReturnRows(sqlmock.NewRows(columnHeaders).
			AddRow("id", "integer", "int4", "int4", "NO", "nextval('orders_id_seq'::regclass)", "PRI", "auto_increment").
			AddRow("ref", "USER-DEFINED", "uuid", "uuid", "NO", nil, "", "").
			AddRow("placed_at", "timestamp with time zone", "timestamptz", "timestamptz", "YES", nil, "", ""))

	cols, err := in.Columns(context.Background(), "orders")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.Equal(t, KindInteger, cols[0].Type.Kind)
	assert.True(t, cols[0].HasDefault)
	assert.False(t, cols[0].Required())
	assert.Equal(t, FormatUUID, cols[1].Type.Format)
	assert.Equal(t, FormatDateTime, cols[2].Type.Format)
}

func TestColumnsCachedAndShared(t *testing.T) {
	in, mock := newIntrospector(t, types.MySQL)
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows(columnHeaders).
			AddRow("id", "int", "int", "", "NO", nil, "PRI", "auto_increment"))

	var wg sync.WaitGroup
	results := make([][]ColumnDescriptor, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cols, err := in.Columns(context.Background(), "orders")
			assert.NoError(t, err)
			results[i] = cols
		}(i)
	}
	wg.Wait()

	for _, cols := range results {
		require.Len(t, cols, 1)
		assert.Equal(t, "id", cols[0].Name)
	}

	// callers get their own slice
	results[0][0].Name = "changed"
	cols, err := in.Columns(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, "id", cols[0].Name)
}

func TestColumnsError(t *testing.T) {
	in, mock := newIntrospector(t, types.MySQL)
	mock.ExpectQuery("FROM information_schema.columns").WillReturnError(sql.ErrConnDone)

	_, err := in.Columns(context.Background(), "orders")
	require.ErrorIs(t, err, sql.ErrConnDone)
}

func TestRateLimitedQueriesHonorContext(t *testing.T) {
	in, _ := newIntrospector(t, types.MySQL, WithRateLimit(0.001))
	// drain the single token so the next wait blocks
	require.True(t, in.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := in.ListTables(ctx)
	assert.Error(t, err)
}
