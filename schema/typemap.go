package schema

import (
	"regexp"
	"strings"
)

var (
	mysqlTypes = map[string]NormalizedType{
		"tinyint":    {Kind: KindInteger},
		"smallint":   {Kind: KindInteger},
		"mediumint":  {Kind: KindInteger},
		"int":        {Kind: KindInteger},
		"integer":    {Kind: KindInteger},
		"bigint":     {Kind: KindInteger},
		"year":       {Kind: KindInteger},
		"decimal":    {Kind: KindNumber},
		"numeric":    {Kind: KindNumber},
		"float":      {Kind: KindNumber},
		"double":     {Kind: KindNumber},
		"real":       {Kind: KindNumber},
		"bit":        {Kind: KindBoolean},
		"bool":       {Kind: KindBoolean},
		"boolean":    {Kind: KindBoolean},
		"date":       {Kind: KindString, Format: FormatDate},
		"datetime":   {Kind: KindString, Format: FormatDateTime},
		"timestamp":  {Kind: KindString, Format: FormatDateTime},
		"char":       {Kind: KindString},
		"varchar":    {Kind: KindString},
		"tinytext":   {Kind: KindString},
		"text":       {Kind: KindString},
		"mediumtext": {Kind: KindString},
		"longtext":   {Kind: KindString},
		"json":       {Kind: KindString},
		"time":       {Kind: KindString},
		"set":        {Kind: KindString},
	}

	postgresTypes = map[string]NormalizedType{
		"smallint":                    {Kind: KindInteger},
		"integer":                     {Kind: KindInteger},
		"bigint":                      {Kind: KindInteger},
		"int":                         {Kind: KindInteger},
		"int2":                        {Kind: KindInteger},
		"int4":                        {Kind: KindInteger},
		"int8":                        {Kind: KindInteger},
		"smallserial":                 {Kind: KindInteger},
		"serial":                      {Kind: KindInteger},
		"bigserial":                   {Kind: KindInteger},
		"numeric":                     {Kind: KindNumber},
		"decimal":                     {Kind: KindNumber},
		"real":                        {Kind: KindNumber},
		"double precision":            {Kind: KindNumber},
		"float4":                      {Kind: KindNumber},
		"float8":                      {Kind: KindNumber},
		"money":                       {Kind: KindNumber},
		"boolean":                     {Kind: KindBoolean},
		"bool":                        {Kind: KindBoolean},
		"date":                        {Kind: KindString, Format: FormatDate},
		"timestamp":                   {Kind: KindString, Format: FormatDateTime},
		"timestamptz":                 {Kind: KindString, Format: FormatDateTime},
		"timestamp without time zone": {Kind: KindString, Format: FormatDateTime},
		"timestamp with time zone":    {Kind: KindString, Format: FormatDateTime},
		"uuid":                        {Kind: KindString, Format: FormatUUID},
		"character varying":           {Kind: KindString},
		"varchar":                     {Kind: KindString},
		"character":                   {Kind: KindString},
		"char":                        {Kind: KindString},
		"text":                        {Kind: KindString},
		"json":                        {Kind: KindString},
		"jsonb":                       {Kind: KindString},
		"time without time zone":      {Kind: KindString},
		"time with time zone":         {Kind: KindString},
	}

	typeArgsRe = regexp.MustCompile(`\([^)]*\)`)
	enumRe     = regexp.MustCompile(`'([^']*)'`)
)

// MapType maps a native column type to its normalized form. detail is the
// full column type (MySQL COLUMN_TYPE) and udt the Postgres UDT name; both
// may be empty. Unknown native types map to a plain string.
func MapType(dialect Dialect, nativeType, detail, udt string) (NormalizedType, error) {
	base := normalizeNative(nativeType)

	switch dialect {
	case MySQL:
		if base == "enum" {
			src := detail
			if src == "" {
				src = nativeType
			}
			return NormalizedType{Kind: KindString, Enum: enumValues(src)}, nil
		}
		return lookup(mysqlTypes, base), nil
	case PostgreSQL:
		if base == "user-defined" {
			if strings.EqualFold(udt, "uuid") {
				return NormalizedType{Kind: KindString, Format: FormatUUID}, nil
			}
			return NormalizedType{Kind: KindString}, nil
		}
		return lookup(postgresTypes, base), nil
	default:
		return NormalizedType{}, unsupported(string(dialect))
	}
}

func lookup(table map[string]NormalizedType, base string) NormalizedType {
	if t, ok := table[base]; ok {
		return t
	}
	return NormalizedType{Kind: KindString}
}

// normalizeNative lowercases and drops length arguments and MySQL
// attributes: "INT(11) UNSIGNED" becomes "int".
func normalizeNative(native string) string {
	s := strings.ToLower(native)
	if strings.HasPrefix(strings.TrimSpace(s), "enum") {
		return "enum"
	}
	s = typeArgsRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " unsigned", "")
	s = strings.ReplaceAll(s, " zerofill", "")
	return strings.Join(strings.Fields(s), " ")
}

func enumValues(detail string) []string {
	matches := enumRe.FindAllStringSubmatch(detail, -1)
	if len(matches) == 0 {
		return nil
	}
	values := make([]string, 0, len(matches))
	for _, m := range matches {
		values = append(values, m[1])
	}
	return values
}
