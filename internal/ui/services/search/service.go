package search

import (
	"sort"
	"strings"

	"liftdesk/internal/ui/services/events"
)

// Service owns the search text of the active screen and its autocomplete list
type Service struct {
	state     *State
	bus       events.EventBus
	suggestFn func(string) []string // builds suggestions for a prefix
	applyFn   func(string)          // pushes the search text into the collection
}

// NewService creates a new search service
func NewService(bus events.EventBus) *Service {
	return &Service{
		state: &State{Highlighted: -1},
		bus:   bus,
	}
}

// SetSuggestFunction sets the function that builds suggestions
func (s *Service) SetSuggestFunction(fn func(string) []string) {
	s.suggestFn = fn
}

// SetApplyFunction sets the function that applies the search text
func (s *Service) SetApplyFunction(fn func(string)) {
	s.applyFn = fn
}

// SetQuery updates the search text and rebuilds the suggestion list
func (s *Service) SetQuery(query string) {
	if query == s.state.Query {
		return
	}
	s.state.Query = query
	s.apply()
	s.bus.Publish(QueryChangedEvent{Query: query})

	s.rebuild()
	s.state.Visible = len(s.state.Suggestions) > 0
}

// Refresh rebuilds suggestions after the backing collection changed
func (s *Service) Refresh() {
	s.rebuild()
	if len(s.state.Suggestions) == 0 {
		s.state.Visible = false
	}
}

// Select replaces the search text with suggestion i verbatim
func (s *Service) Select(i int) bool {
	if i < 0 || i >= len(s.state.Suggestions) {
		return false
	}
	value := s.state.Suggestions[i]
	s.state.Query = value
	s.apply()
	s.bus.Publish(SuggestionSelectedEvent{Value: value})
	s.bus.Publish(QueryChangedEvent{Query: value})
	s.Dismiss(DismissSelected)
	return true
}

// AcceptHighlighted selects the highlighted suggestion, if any
func (s *Service) AcceptHighlighted() bool {
	if !s.state.Visible {
		return false
	}
	return s.Select(s.state.Highlighted)
}

func (s *Service) HighlightNext() {
	if !s.state.Visible || len(s.state.Suggestions) == 0 {
		return
	}
	s.state.Highlighted = (s.state.Highlighted + 1) % len(s.state.Suggestions)
}

func (s *Service) HighlightPrevious() {
	if !s.state.Visible || len(s.state.Suggestions) == 0 {
		return
	}
	s.state.Highlighted--
	if s.state.Highlighted < 0 {
		s.state.Highlighted = len(s.state.Suggestions) - 1
	}
}

// Dismiss hides the suggestion list without touching the search text
func (s *Service) Dismiss(reason DismissReason) {
	s.state.Highlighted = -1
	if !s.state.Visible {
		return
	}
	s.state.Visible = false
	s.bus.Publish(SuggestionsDismissedEvent{Reason: reason})
}

// Blur is called when the search input loses focus
func (s *Service) Blur() {
	if strings.TrimSpace(s.state.Query) == "" {
		s.Dismiss(DismissBlur)
	}
}

// Clear drops the search text
func (s *Service) Clear() {
	changed := s.state.Query != ""
	s.state.Query = ""
	s.state.Suggestions = nil
	s.apply()
	s.Dismiss(DismissClear)
	if changed {
		s.bus.Publish(QueryChangedEvent{})
	}
}

// Reset clears all state without applying it, used when switching screens
func (s *Service) Reset() {
	s.state = &State{Highlighted: -1}
}

func (s *Service) GetQuery() string {
	return s.state.Query
}

// GetSuggestions returns the suggestion list in display order
func (s *Service) GetSuggestions() []string {
	return s.state.Suggestions
}

func (s *Service) SuggestionsVisible() bool {
	return s.state.Visible
}

// GetHighlighted returns the highlighted suggestion index, -1 for none
func (s *Service) GetHighlighted() int {
	return s.state.Highlighted
}

// ShouldHighlight reports whether text contains the search text
func (s *Service) ShouldHighlight(text string) bool {
	q := strings.TrimSpace(s.state.Query)
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(q))
}

func (s *Service) apply() {
	if s.applyFn != nil {
		s.applyFn(s.state.Query)
	}
}

func (s *Service) rebuild() {
	s.state.Highlighted = -1
	if s.suggestFn == nil || strings.TrimSpace(s.state.Query) == "" {
		s.state.Suggestions = nil
	} else {
		list := s.suggestFn(s.state.Query)
		sort.Strings(list)
		s.state.Suggestions = list
	}
	s.bus.Publish(SuggestionsChangedEvent{Query: s.state.Query, Count: len(s.state.Suggestions)})
}
