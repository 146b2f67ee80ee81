package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemString(t *testing.T) {
	item := Item{
		"id":       json.Number("42"),
		"name":     "Acme Elevators",
		"amount":   1500.5,
		"active":   true,
		"nothing":  nil,
		"contacts": []any{"a", "b"},
	}

	assert.Equal(t, "42", item.ID(""))
	assert.Equal(t, "Acme Elevators", item.String("name"))
	assert.Equal(t, "1500.5", item.String("amount"))
	assert.Equal(t, "true", item.String("active"))
	assert.Equal(t, "", item.String("nothing"))
	assert.Equal(t, "", item.String("missing"))
	assert.Equal(t, `["a","b"]`, item.String("contacts"))
}

func TestItemStrings(t *testing.T) {
	item := Item{
		"technicians": []any{json.Number("3"), "7", map[string]any{"id": json.Number("9"), "name": "Ravi"}, nil},
	}
	assert.Equal(t, []string{"3", "7", "9"}, item.Strings("technicians"))
	assert.Nil(t, item.Strings("missing"))
}

func TestItemLabel(t *testing.T) {
	item := Item{"id": "5", "customer_name": "  ", "job_number": "J-100"}
	assert.Equal(t, "J-100", item.Label("customer_name", "job_number"))
	assert.Equal(t, "5", item.Label("customer_name"))
}

func TestSessionRole(t *testing.T) {
	var s *Session
	assert.Equal(t, "", s.Role())
	s = &Session{User: Item{"role": "admin"}}
	assert.Equal(t, "admin", s.Role())
}
