package logic

import (
	"strings"

	"liftdesk/internal/domain"
)

// BuildSuggestions returns every distinct value of the given fields that
// starts with prefix, compared case-insensitively. Values are returned
// verbatim. An empty prefix yields no suggestions.
//
// The result is a set; callers must not rely on its order.
func BuildSuggestions(items []domain.Item, fields []string, prefix string) []string {
	needle := strings.ToLower(strings.TrimSpace(prefix))
	if needle == "" {
		return []string{}
	}

	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range items {
		for _, field := range fields {
			value := item.String(field)
			if value == "" {
				continue
			}
			if !strings.HasPrefix(strings.ToLower(value), needle) {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			out = append(out, value)
		}
	}
	return out
}
