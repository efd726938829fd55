package schema

import (
	"strings"

	"github.com/gaborage/slimgen/internal/inflect"
)

// Candidates returns the spellings tried for a table hint, in order.
func Candidates(hint string) []string {
	return []string{
		hint,
		inflect.Tableize(hint),
		inflect.Dasherize(hint),
		inflect.Underscore(hint),
		inflect.Camelize(hint),
		strings.ToLower(hint),
	}
}

// MatchTable returns the first table whose name contains a candidate
// spelling of hint, ignoring case. Earlier candidates win over later ones;
// for one candidate, tables are tried in the given order.
func MatchTable(hint string, tables []string) (string, bool) {
	if strings.TrimSpace(hint) == "" {
		return "", false
	}
	lowered := make([]string, len(tables))
	for i, t := range tables {
		lowered[i] = strings.ToLower(t)
	}
	for _, c := range Candidates(hint) {
		c = strings.ToLower(c)
		if c == "" {
			continue
		}
		for i, t := range lowered {
			if strings.Contains(t, c) {
				return tables[i], true
			}
		}
	}
	return "", false
}
