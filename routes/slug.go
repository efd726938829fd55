package routes

import (
	"strings"

	"github.com/gaborage/slimgen/internal/inflect"
)

// Words kept singular when they end a slug.
var singularWords = map[string]struct{}{
	"home":    {},
	"auth":    {},
	"status":  {},
	"health":  {},
	"api":     {},
	"swagger": {},
	"info":    {},
	"me":      {},
	"data":    {},
	"login":   {},
	"logout":  {},
}

// TagToSlug turns a controller tag into a URL segment: OrderItem and
// orderItemController both become order-items.
func TagToSlug(tag string) string {
	if base := strings.TrimSuffix(tag, "Controller"); base != "" {
		tag = base
	}
	words := strings.Split(inflect.Underscore(tag), "_")
	last := len(words) - 1
	if _, keep := singularWords[strings.ToLower(words[last])]; !keep {
		words[last] = inflect.Pluralize(words[last])
	}
	return strings.ToLower(strings.Join(words, "-"))
}
