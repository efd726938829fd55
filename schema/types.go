// Package schema reads table metadata from a live MySQL or PostgreSQL
// catalog and turns it into the normalized types and field sets used by the
// code generator and the documentation builder.
package schema

import (
	"errors"
	"strings"

	"github.com/gaborage/slimgen/database/types"
)

// ErrUnsupportedDialect is returned for any dialect other than MySQL and
// PostgreSQL.
var ErrUnsupportedDialect = errors.New("unsupported database client")

// Dialect selects the catalog queries and the type table.
type Dialect string

const (
	MySQL      Dialect = Dialect(types.MySQL)
	PostgreSQL Dialect = Dialect(types.PostgreSQL)
)

// ParseDialect validates a configured client name.
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case MySQL, PostgreSQL:
		return d, nil
	default:
		return "", unsupported(s)
	}
}

func unsupported(client string) error {
	return &dialectError{client: client}
}

type dialectError struct {
	client string
}

func (e *dialectError) Error() string {
	return ErrUnsupportedDialect.Error() + ": " + e.client
}

func (e *dialectError) Unwrap() error {
	return ErrUnsupportedDialect
}

// Kind is the JSON-schema type of a column.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
)

// Format refines KindString.
type Format string

const (
	FormatNone     Format = ""
	FormatDate     Format = "date"
	FormatDateTime Format = "date-time"
	FormatUUID     Format = "uuid"
)

// NormalizedType is the dialect-independent view of a native column type.
// Enum is only set for enumerated string columns.
type NormalizedType struct {
	Kind   Kind
	Format Format
	Enum   []string
}

// IsDateTime reports whether values are full timestamps.
func (t NormalizedType) IsDateTime() bool {
	return t.Format == FormatDateTime
}

// Generation tells how the database fills a column without input.
type Generation int

const (
	GenerationNone Generation = iota
	// GenerationAutoIncrement covers AUTO_INCREMENT, serial and identity
	// columns.
	GenerationAutoIncrement
	// GenerationDefault covers computed and DEFAULT_GENERATED columns.
	GenerationDefault
)

func (g Generation) String() string {
	switch g {
	case GenerationAutoIncrement:
		return "auto_increment"
	case GenerationDefault:
		return "default_generated"
	default:
		return ""
	}
}

// ColumnDescriptor is one column in table-definition order.
type ColumnDescriptor struct {
	Name string
	// NativeType is the catalog data type, e.g. varchar or character varying.
	NativeType string
	// NativeTypeDetail is the full column type, e.g. enum('a','b').
	NativeTypeDetail string
	// UDTName is the Postgres user-defined type name.
	UDTName      string
	Nullable     bool
	HasDefault   bool
	Generation   Generation
	IsPrimaryKey bool
	Type         NormalizedType
}

// IsAutoGenerated reports whether the database fills the column itself.
func (c ColumnDescriptor) IsAutoGenerated() bool {
	return c.Generation != GenerationNone
}

// Required reports whether an insert must supply the column.
func (c ColumnDescriptor) Required() bool {
	return !c.HasDefault && !c.Nullable
}

// KeyOutcome distinguishes a real primary key from a missing one and from
// an assumed fallback.
type KeyOutcome int

const (
	KeyNotFound KeyOutcome = iota
	KeyFound
	KeyDefaultAssumed
)

func (o KeyOutcome) String() string {
	switch o {
	case KeyFound:
		return "found"
	case KeyDefaultAssumed:
		return "default assumed"
	default:
		return "not found"
	}
}

// PrimaryKey is the result of a primary-key lookup.
type PrimaryKey struct {
	Column  string
	Outcome KeyOutcome
}

// WithDefault substitutes column when no key was found.
func (p PrimaryKey) WithDefault(column string) PrimaryKey {
	if p.Outcome == KeyFound {
		return p
	}
	return PrimaryKey{Column: column, Outcome: KeyDefaultAssumed}
}

// Found reports whether the key came from the catalog.
func (p PrimaryKey) Found() bool {
	return p.Outcome == KeyFound
}
