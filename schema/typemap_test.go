package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapTypeMySQL(t *testing.T) {
	tests := []struct {
		native string
		want   NormalizedType
	}{
		{"int", NormalizedType{Kind: KindInteger}},
		{"INT(11) UNSIGNED", NormalizedType{Kind: KindInteger}},
		{"tinyint(1)", NormalizedType{Kind: KindInteger}},
		{"bigint", NormalizedType{Kind: KindInteger}},
		{"year", NormalizedType{Kind: KindInteger}},
		{"decimal(10,2)", NormalizedType{Kind: KindNumber}},
		{"double", NormalizedType{Kind: KindNumber}},
		{"float", NormalizedType{Kind: KindNumber}},
		{"bit", NormalizedType{Kind: KindBoolean}},
		{"boolean", NormalizedType{Kind: KindBoolean}},
		{"date", NormalizedType{Kind: KindString, Format: FormatDate}},
		{"datetime", NormalizedType{Kind: KindString, Format: FormatDateTime}},
		{"timestamp", NormalizedType{Kind: KindString, Format: FormatDateTime}},
		{"varchar(255)", NormalizedType{Kind: KindString}},
		{"longtext", NormalizedType{Kind: KindString}},
		{"geometry", NormalizedType{Kind: KindString}},
	}
	for _, tt := range tests {
		t.Run(tt.native, func(t *testing.T) {
			got, err := MapType(MySQL, tt.native, "", "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapTypePostgres(t *testing.T) {
	tests := []struct {
		native string
		udt    string
		want   NormalizedType
	}{
		{"integer", "int4", NormalizedType{Kind: KindInteger}},
		{"bigint", "int8", NormalizedType{Kind: KindInteger}},
		{"bigserial", "", NormalizedType{Kind: KindInteger}},
		{"numeric", "numeric", NormalizedType{Kind: KindNumber}},
		{"double precision", "float8", NormalizedType{Kind: KindNumber}},
		{"money", "", NormalizedType{Kind: KindNumber}},
		{"boolean", "bool", NormalizedType{Kind: KindBoolean}},
		{"date", "date", NormalizedType{Kind: KindString, Format: FormatDate}},
		{"timestamp without time zone", "timestamp", NormalizedType{Kind: KindString, Format: FormatDateTime}},
		{"timestamp with time zone", "timestamptz", NormalizedType{Kind: KindString, Format: FormatDateTime}},
		{"uuid", "uuid", NormalizedType{Kind: KindString, Format: FormatUUID}},
		{"USER-DEFINED", "uuid", NormalizedType{Kind: KindString, Format: FormatUUID}},
		{"USER-DEFINED", "mood", NormalizedType{Kind: KindString}},
		{"character varying", "varchar", NormalizedType{Kind: KindString}},
		{"tsvector", "tsvector", NormalizedType{Kind: KindString}},
	}
	for _, tt := range tests {
		t.Run(tt.native+"/"+tt.udt, func(t *testing.T) {
			got, err := MapType(PostgreSQL, tt.native, "", tt.udt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapTypeEnum(t *testing.T) {
	got, err := MapType(MySQL, "enum", "enum('a','b','c')", "")
	require.NoError(t, err)
	assert.Equal(t, KindString, got.Kind)
	assert.Equal(t, []string{"a", "b", "c"}, got.Enum)

	// the data type itself may carry the values
	got, err = MapType(MySQL, "enum('draft','published')", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"draft", "published"}, got.Enum)

	got, err = MapType(MySQL, "varchar", "varchar(20)", "")
	require.NoError(t, err)
	assert.Nil(t, got.Enum)
}

func TestMapTypeUnsupportedDialect(t *testing.T) {
	_, err := MapType(Dialect("oracle"), "number", "", "")
	require.ErrorIs(t, err, ErrUnsupportedDialect)
	assert.Contains(t, err.Error(), "oracle")
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect(" MySQL ")
	require.NoError(t, err)
	assert.Equal(t, MySQL, d)

	d, err = ParseDialect("postgresql")
	require.NoError(t, err)
	assert.Equal(t, PostgreSQL, d)

	_, err = ParseDialect("sqlite")
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}
