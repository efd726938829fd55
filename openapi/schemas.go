package openapi

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/gaborage/slimgen/reflector"
	"github.com/gaborage/slimgen/schema"
)

// typeSchema converts a normalized column type to a JSON schema.
func typeSchema(t schema.NormalizedType) *openapi3.Schema {
	var s *openapi3.Schema
	switch t.Kind {
	case schema.KindInteger:
		s = openapi3.NewIntegerSchema()
	case schema.KindNumber:
		s = openapi3.NewFloat64Schema()
	case schema.KindBoolean:
		s = openapi3.NewBoolSchema()
	default:
		s = openapi3.NewStringSchema()
	}
	s.Format = string(t.Format)
	if len(t.Enum) > 0 {
		values := make([]any, len(t.Enum))
		for i, v := range t.Enum {
			values[i] = v
		}
		s.Enum = values
	}
	return s
}

// requestSchema types body fields by their table columns. Fields without
// a column are strings. When markRequired is set, required columns are
// listed as required properties.
func requestSchema(fields []string, columns []schema.ColumnDescriptor, markRequired bool) *openapi3.Schema {
	byName := make(map[string]schema.ColumnDescriptor, len(columns))
	for _, c := range columns {
		byName[c.Name] = c
	}

	s := openapi3.NewObjectSchema()
	for _, f := range fields {
		col, ok := byName[f]
		if !ok {
			s.WithProperty(f, openapi3.NewStringSchema())
			continue
		}
		s.WithProperty(f, typeSchema(col.Type))
		if markRequired && col.Required() && !col.IsAutoGenerated() {
			s.Required = append(s.Required, f)
		}
	}
	return s
}

// responseRef renders the reflected 200 response.
func responseRef(r reflector.Response) *openapi3.ResponseRef {
	resp := openapi3.NewResponse().WithDescription(r.Description)
	if r.Shape == reflector.ShapeUnknown {
		return &openapi3.ResponseRef{Value: resp}
	}

	row := openapi3.NewObjectSchema()
	for _, col := range r.Columns {
		prop := openapi3.NewStringSchema()
		prop.Description = fmt.Sprintf("The %s field", col)
		row.WithProperty(col, prop)
	}
	if r.Shape == reflector.ShapeArray {
		return &openapi3.ResponseRef{Value: resp.WithJSONSchema(openapi3.NewArraySchema().WithItems(row))}
	}
	return &openapi3.ResponseRef{Value: resp.WithJSONSchema(row)}
}
