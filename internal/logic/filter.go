package logic

import (
	"fmt"
	"strings"

	"liftdesk/internal/domain"
)

// FilterState is the user-controlled part of a list view
type FilterState struct {
	SearchText    string
	ActiveFilters map[string]string
}

// HasSearch reports whether a non-blank search text is set
func (f FilterState) HasSearch() bool {
	return strings.TrimSpace(f.SearchText) != ""
}

// IsEmpty reports whether neither search text nor any categorical filter is set
func (f FilterState) IsEmpty() bool {
	if f.HasSearch() {
		return false
	}
	for _, v := range f.ActiveFilters {
		if v != "" {
			return false
		}
	}
	return true
}

// Clone returns a copy of f that shares no map with it
func (f FilterState) Clone() FilterState {
	next := FilterState{SearchText: f.SearchText, ActiveFilters: make(map[string]string, len(f.ActiveFilters))}
	for k, v := range f.ActiveFilters {
		next.ActiveFilters[k] = v
	}
	return next
}

// WithFilter returns a copy of f with key set to value. An empty value removes the key.
func (f FilterState) WithFilter(key, value string) FilterState {
	next := f.Clone()
	if value == "" {
		delete(next.ActiveFilters, key)
	} else {
		next.ActiveFilters[key] = value
	}
	return next
}

// MatchesSearch checks whether any of fields contains text, ignoring case
func MatchesSearch(item domain.Item, fields []string, text string) bool {
	query := strings.ToLower(strings.TrimSpace(text))
	if query == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(item.String(field)), query) {
			return true
		}
	}
	return false
}

// MatchesFilters checks every active categorical filter by exact equality
func MatchesFilters(item domain.Item, filters map[string]string) bool {
	for key, want := range filters {
		if want == "" {
			continue
		}
		if item.String(key) != want {
			return false
		}
	}
	return true
}

// Derive produces the visible list: items passing the search predicate and
// all active filters, ordered by cmp. The input slice is not modified.
func Derive(items []domain.Item, state FilterState, searchFields []string, cmp Comparator) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if state.HasSearch() && !MatchesSearch(item, searchFields, state.SearchText) {
			continue
		}
		if !MatchesFilters(item, state.ActiveFilters) {
			continue
		}
		out = append(out, item)
	}
	cmp.Sort(out)
	return out
}

// ParseFilterExpr parses "field=value" (or the "field:value" shorthand)
func ParseFilterExpr(expr string) (string, string, error) {
	sep := strings.IndexAny(expr, "=:")
	if sep <= 0 {
		return "", "", fmt.Errorf("invalid filter %q: expected field=value", expr)
	}
	key := strings.TrimSpace(expr[:sep])
	value := strings.TrimSpace(expr[sep+1:])
	if key == "" {
		return "", "", fmt.Errorf("invalid filter %q: empty field", expr)
	}
	return key, value, nil
}
