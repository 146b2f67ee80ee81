package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Item is one record of a remote collection. Its fields are whatever the
// backend returned; callers pick which of them are searchable, filterable
// or sortable.
type Item map[string]any

// DefaultIDField is the key used when a screen does not name its own id field
const DefaultIDField = "id"

// ID returns the item's identifier rendered as a string ("" if absent)
func (i Item) ID(field string) string {
	if field == "" {
		field = DefaultIDField
	}
	return i.String(field)
}

// String renders a scalar field as text. Missing and null fields are "".
func (i Item) String(field string) string {
	if i == nil {
		return ""
	}
	return Stringify(i[field])
}

// Strings renders a list field as a list of strings. List entries may be
// scalars or objects carrying an "id".
func (i Item) Strings(field string) []string {
	raw, ok := i[field].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if obj, ok := v.(map[string]any); ok {
			v = obj[DefaultIDField]
		}
		if s := Stringify(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Keys returns the item's field names in lexical order
func (i Item) Keys() []string {
	keys := make([]string, 0, len(i))
	for k := range i {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Label picks the first non-empty field out of the candidates, falling back to the id
func (i Item) Label(fields ...string) string {
	for _, f := range fields {
		if s := strings.TrimSpace(i.String(f)); s != "" {
			return s
		}
	}
	return i.ID(DefaultIDField)
}

// Stringify converts a decoded JSON value into display text
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case []any, map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

// Session is the authenticated identity replayed on every request
type Session struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
	User      Item   `json:"user,omitempty"`
}

// Role returns the logged-in user's role, if known
func (s *Session) Role() string {
	if s == nil {
		return ""
	}
	return s.User.String("role")
}
