// Package inflect converts identifiers between the naming styles used for
// tables, PHP classes and URL segments.
package inflect

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Pluralize returns the plural form of word.
func Pluralize(word string) string {
	if word == "" {
		return ""
	}
	return inflection.Plural(word)
}

// Singularize returns the singular form of word.
func Singularize(word string) string {
	if word == "" {
		return ""
	}
	return inflection.Singular(word)
}

// Underscore converts CamelCase, kebab-case and spaced words to snake_case.
func Underscore(s string) string {
	runes := []rune(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(runes) + 4)

	for i, r := range runes {
		switch {
		case r == '-' || r == ' ' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		case unicode.IsUpper(r):
			if i > 0 && b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Dasherize replaces underscores and spaces with dashes.
func Dasherize(s string) string {
	return strings.NewReplacer("_", "-", " ", "-").Replace(s)
}

// Tableize converts a class-like name to a plural snake_case table name:
// OrderItem becomes order_items.
func Tableize(s string) string {
	return Pluralize(Underscore(s))
}

// Camelize converts snake_case or kebab-case to UpperCamelCase. Existing
// inner capitals are kept, so orderItems becomes OrderItems.
func Camelize(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '/'
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(UpperFirst(p))
	}
	return b.String()
}

// Classify converts a table name to a singular class name: order_items
// becomes OrderItem.
func Classify(s string) string {
	return Camelize(Singularize(Underscore(s)))
}

func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
