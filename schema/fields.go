package schema

import (
	"fmt"
	"strings"
)

// statusField is never taken from input on insert.
const statusField = "status"

// Field is one column of a field set.
type Field struct {
	Name     string
	Type     NormalizedType
	Required bool
}

// FieldSet is an ordered list of fields in table-definition order.
type FieldSet []Field

// Names returns the field names in order.
func (s FieldSet) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Lookup finds a field by exact name.
func (s FieldSet) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldSets holds the three projections of a table used by generated code.
type FieldSets struct {
	Selectable FieldSet
	Insertable FieldSet
	Updatable  FieldSet
	PrimaryKey string
	// UpdatedAtField is the last-modified timestamp column, or "".
	UpdatedAtField string
}

// SynthesizeFieldSets derives the selectable, insertable and updatable
// fields of a table. When primaryKey is empty the column flagged
// IsPrimaryKey is used.
func SynthesizeFieldSets(columns []ColumnDescriptor, primaryKey string) FieldSets {
	if primaryKey == "" {
		for _, c := range columns {
			if c.IsPrimaryKey {
				primaryKey = c.Name
				break
			}
		}
	}

	pkAuto := false
	for _, c := range columns {
		if c.Name == primaryKey && c.IsAutoGenerated() {
			pkAuto = true
			break
		}
	}

	sets := FieldSets{PrimaryKey: primaryKey}
	for _, c := range columns {
		if sets.UpdatedAtField == "" && IsUpdatedAtName(c.Name) && c.Type.IsDateTime() {
			sets.UpdatedAtField = c.Name
		}
		if IsExcluded(c.Name) || c.Generation == GenerationDefault {
			continue
		}

		f := Field{Name: c.Name, Type: c.Type, Required: c.Required()}
		sets.Selectable = append(sets.Selectable, f)

		isPK := primaryKey != "" && c.Name == primaryKey
		if !(isPK && pkAuto) && !strings.EqualFold(c.Name, statusField) {
			sets.Insertable = append(sets.Insertable, f)
		}
		if !isPK {
			sets.Updatable = append(sets.Updatable, f)
		}
	}
	return sets
}

// ColumnsToSelect is the SELECT list of the generated queries.
func (fs FieldSets) ColumnsToSelect() string {
	return strings.Join(fs.Selectable.Names(), ", ")
}

// InsertDTO renders the PHP array entries that build an insert row from
// $input, one per line.
func (fs FieldSets) InsertDTO() string {
	lines := make([]string, len(fs.Insertable))
	for i, f := range fs.Insertable {
		lines[i] = InsertExpression(f)
	}
	return strings.Join(lines, "\n")
}

// UpdateDTO renders the update row entries. The last-modified column, when
// known, is always set to the current time.
func (fs FieldSets) UpdateDTO() string {
	lines := make([]string, len(fs.Updatable))
	for i, f := range fs.Updatable {
		lines[i] = UpdateExpression(f)
	}
	out := strings.Join(lines, "\n")
	if fs.UpdatedAtField != "" {
		out += fmt.Sprintf("\n  '%s' => %s,", fs.UpdatedAtField, phpNow)
	}
	return out
}

const phpNow = "date('Y-m-d H:i:s')"

// InsertExpression renders one insert entry. A missing timestamp becomes
// now when the column is required.
func InsertExpression(f Field) string {
	if f.Type.IsDateTime() {
		fallback := "null"
		if f.Required {
			fallback = phpNow
		}
		return dateTimeExpression(f.Name, fallback)
	}
	if f.Required {
		return fmt.Sprintf("  '%s' => $input['%s'],", f.Name, f.Name)
	}
	return passthrough(f.Name)
}

// UpdateExpression renders one update entry.
func UpdateExpression(f Field) string {
	if f.Type.IsDateTime() {
		return dateTimeExpression(f.Name, "null")
	}
	return passthrough(f.Name)
}

func dateTimeExpression(name, fallback string) string {
	return fmt.Sprintf(`  '%s' => $input['%s'] ? (new \DateTime($input['%s']))->format('Y-m-d H:i:s') : %s,`,
		name, name, name, fallback)
}

func passthrough(name string) string {
	return fmt.Sprintf("  '%s' => $input['%s'] ?: null,", name, name)
}
