package schema

import (
	sq "github.com/Masterminds/squirrel"
)

// Catalog queries. Every builder selects the same column shape for both
// dialects so the scanners in introspector.go stay dialect-free.

const (
	// MySQL resolves the schema from the connection's default database.
	mysqlCurrentSchema = "table_schema = DATABASE()"

	// Postgres marks serial and identity columns as auto-increment and
	// stored generated columns as default-generated, matching MySQL's
	// EXTRA column.
	pgExtraExpr = `CASE WHEN c.column_default LIKE 'nextval%' OR c.is_identity = 'YES' THEN 'auto_increment' ` +
		`WHEN c.is_generated = 'ALWAYS' THEN 'STORED GENERATED' ELSE '' END AS extra`

	pgKeyExpr = `CASE WHEN EXISTS (SELECT 1 FROM information_schema.table_constraints tc ` +
		`JOIN information_schema.key_column_usage kcu ON kcu.constraint_name = tc.constraint_name ` +
		`AND kcu.table_schema = tc.table_schema AND kcu.table_name = tc.table_name ` +
		`WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = c.table_schema ` +
		`AND tc.table_name = c.table_name AND kcu.column_name = c.column_name) ` +
		`THEN 'PRI' ELSE '' END AS column_key`
)

type queries struct {
	dialect Dialect
	schema  string
}

func (q queries) builder() sq.StatementBuilderType {
	if q.dialect == PostgreSQL {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// tables lists base tables ordered by name.
func (q queries) tables() sq.SelectBuilder {
	b := q.builder().Select("table_name").From("information_schema.tables")
	if q.dialect == MySQL {
		b = b.Where(mysqlCurrentSchema)
	} else {
		b = b.Where(sq.Eq{"table_schema": q.schema})
	}
	return b.Where(sq.Eq{"table_type": "BASE TABLE"}).OrderBy("table_name")
}

// primaryKey selects the first primary-key column of table.
func (q queries) primaryKey(table string) sq.SelectBuilder {
	if q.dialect == MySQL {
		return q.builder().
			Select("column_name").
			From("information_schema.key_column_usage").
			Where(mysqlCurrentSchema).
			Where(sq.Eq{"table_name": table}).
			Where(sq.Eq{"constraint_name": "PRIMARY"}).
			OrderBy("ordinal_position").
			Limit(1)
	}
	return q.builder().
		Select("a.attname").
		From("pg_index i").
		Join("pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)").
		Join("pg_class c ON c.oid = i.indrelid").
		Join("pg_namespace n ON n.oid = c.relnamespace").
		Where(sq.Eq{"c.relname": table}).
		Where(sq.Eq{"n.nspname": q.schema}).
		Where("i.indisprimary").
		Limit(1)
}

// columnType selects data type, full column type and UDT name of one
// column.
func (q queries) columnType(table, column string) sq.SelectBuilder {
	if q.dialect == MySQL {
		return q.builder().
			Select("data_type", "column_type", "'' AS udt_name").
			From("information_schema.columns").
			Where(mysqlCurrentSchema).
			Where(sq.Eq{"table_name": table}).
			Where(sq.Eq{"column_name": column})
	}
	return q.builder().
		Select("data_type", "udt_name AS column_type", "udt_name").
		From("information_schema.columns").
		Where(sq.Eq{"table_schema": q.schema}).
		Where(sq.Eq{"table_name": table}).
		Where(sq.Eq{"column_name": column})
}

// columns selects every column of table in definition order as
// (name, data_type, column_type, udt_name, is_nullable, column_default,
// column_key, extra).
func (q queries) columns(table string) sq.SelectBuilder {
	if q.dialect == MySQL {
		return q.builder().
			Select("column_name", "data_type", "column_type", "'' AS udt_name",
				"is_nullable", "column_default", "column_key", "extra").
			From("information_schema.columns").
			Where(mysqlCurrentSchema).
			Where(sq.Eq{"table_name": table}).
			OrderBy("ordinal_position")
	}
	return q.builder().
		Select("c.column_name", "c.data_type", "c.udt_name AS column_type", "c.udt_name",
			"c.is_nullable", "c.column_default", pgKeyExpr, pgExtraExpr).
		From("information_schema.columns c").
		Where(sq.Eq{"c.table_schema": q.schema}).
		Where(sq.Eq{"c.table_name": table}).
		OrderBy("c.ordinal_position")
}
