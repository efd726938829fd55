package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/slimgen/database/types"
)

// MockDB is a types.Interface over a sqlmock connection.
type MockDB struct {
	DB     *sql.DB
	Vendor types.Vendor
}

// NewMockDB returns a handle reporting vendor and its sqlmock controller.
// Expectations are checked when the test ends.
func NewMockDB(t *testing.T, vendor types.Vendor) (*MockDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return &MockDB{DB: db, Vendor: vendor}, mock
}

func (m *MockDB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return m.DB.QueryContext(ctx, query, args...)
}

func (m *MockDB) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	return types.NewRowFromSQL(m.DB.QueryRowContext(ctx, query, args...))
}

func (m *MockDB) Health(ctx context.Context) error {
	return m.DB.PingContext(ctx)
}

func (m *MockDB) Stats() (map[string]any, error) {
	return types.PoolStats(m.DB.Stats()), nil
}

func (m *MockDB) Close() error {
	return m.DB.Close()
}

func (m *MockDB) DatabaseType() types.Vendor {
	return m.Vendor
}
