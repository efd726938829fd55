package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchTable(t *testing.T) {
	tests := []struct {
		name   string
		hint   string
		tables []string
		want   string
		ok     bool
	}{
		{name: "substring of prefixed table", hint: "user", tables: []string{"app_users"}, want: "app_users", ok: true},
		{name: "case-insensitive", hint: "Orders", tables: []string{"ORDERS"}, want: "ORDERS", ok: true},
		{name: "tableize", hint: "OrderItem", tables: []string{"order_items"}, want: "order_items", ok: true},
		{name: "dasherize", hint: "order_item", tables: []string{"legacy-order-item"}, want: "legacy-order-item", ok: true},
		{name: "camelize", hint: "order_lines", tables: []string{"OrderLines"}, want: "OrderLines", ok: true},
		{name: "first table wins per candidate", hint: "user", tables: []string{"users", "user_roles"}, want: "users", ok: true},
		{name: "no match", hint: "invoice", tables: []string{"orders"}},
		{name: "empty hint", hint: " ", tables: []string{"orders"}},
		{name: "no tables", hint: "orders"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchTable(tt.hint, tt.tables)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchTableCandidateOrder(t *testing.T) {
	// the literal hint matches before its tableized form is tried
	got, ok := MatchTable("category", []string{"categories", "subcategory"})
	assert.True(t, ok)
	assert.Equal(t, "subcategory", got)
}

func TestCandidates(t *testing.T) {
	assert.Equal(t,
		[]string{"OrderItem", "order_items", "OrderItem", "order_item", "OrderItem", "orderitem"},
		Candidates("OrderItem"))
}
