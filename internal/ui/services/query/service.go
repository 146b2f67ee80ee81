package query

import (
	"fmt"
	"sort"
	"strings"

	"liftdesk/internal/config"
	"liftdesk/internal/logic"
	"liftdesk/internal/ui/services/events"
)

// Service manages the categorical filters of the active screen
type Service struct {
	state   *State
	bus     events.EventBus
	applyFn func(field, value string)
}

// NewService creates a new filter service
func NewService(bus events.EventBus) *Service {
	return &Service{
		state: &State{Active: make(map[string]string)},
		bus:   bus,
	}
}

// SetApplyFunction sets the function that pushes a filter into the collection
func (s *Service) SetApplyFunction(fn func(field, value string)) {
	s.applyFn = fn
}

// SetFilters replaces the available filters and clears the active ones
func (s *Service) SetFilters(filters []config.Filter) {
	s.state = &State{Filters: filters, Active: make(map[string]string)}
}

// Cycle advances field to its next value. After the last value the filter
// is cleared.
func (s *Service) Cycle(field string) (string, bool) {
	f, ok := s.filter(field)
	if !ok || len(f.Values) == 0 {
		return "", false
	}
	current := s.state.Active[field]
	next := f.Values[0]
	for i, v := range f.Values {
		if v == current {
			if i+1 < len(f.Values) {
				next = f.Values[i+1]
			} else {
				next = ""
			}
			break
		}
	}
	s.Set(field, next)
	return next, true
}

// CycleFirst cycles the first filter of the screen
func (s *Service) CycleFirst() (string, string, bool) {
	if len(s.state.Filters) == 0 {
		return "", "", false
	}
	field := s.state.Filters[0].Field
	value, ok := s.Cycle(field)
	return field, value, ok
}

// Set activates a filter. An empty value clears it.
func (s *Service) Set(field, value string) {
	if value == "" {
		delete(s.state.Active, field)
	} else {
		s.state.Active[field] = value
	}
	if s.applyFn != nil {
		s.applyFn(field, value)
	}
	s.bus.Publish(FilterChangedEvent{Field: field, Value: value})
}

// Apply parses "field=value" (or "field:value") and activates it. The field
// must be one of the screen's filters; the value is matched against its
// allowed values ignoring case and stored in their spelling.
func (s *Service) Apply(expr string) error {
	field, value, err := logic.ParseFilterExpr(expr)
	if err != nil {
		return err
	}
	f, ok := s.filter(field)
	if !ok {
		return fmt.Errorf("unknown filter %q (have %s)", field, strings.Join(s.Fields(), ", "))
	}
	if value == "" {
		s.Set(field, "")
		return nil
	}
	for _, v := range f.Values {
		if strings.EqualFold(v, value) {
			s.Set(field, v)
			return nil
		}
	}
	if len(f.Values) == 0 {
		s.Set(field, value)
		return nil
	}
	return fmt.Errorf("%s must be one of %s", field, strings.Join(f.Values, ", "))
}

// ClearAll deactivates every filter
func (s *Service) ClearAll() {
	for field := range s.state.Active {
		delete(s.state.Active, field)
		if s.applyFn != nil {
			s.applyFn(field, "")
		}
	}
	s.bus.Publish(FiltersClearedEvent{})
}

// Fields lists the filterable fields
func (s *Service) Fields() []string {
	out := make([]string, len(s.state.Filters))
	for i, f := range s.state.Filters {
		out[i] = f.Field
	}
	return out
}

// GetActive returns a copy of the active filters
func (s *Service) GetActive() map[string]string {
	out := make(map[string]string, len(s.state.Active))
	for k, v := range s.state.Active {
		out[k] = v
	}
	return out
}

func (s *Service) HasActive() bool {
	return len(s.state.Active) > 0
}

// Describe renders the active filters as "priority=high status=open"
func (s *Service) Describe() string {
	parts := make([]string, 0, len(s.state.Active))
	for k, v := range s.state.Active {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func (s *Service) filter(field string) (config.Filter, bool) {
	for _, f := range s.state.Filters {
		if f.Field == field {
			return f, true
		}
	}
	return config.Filter{}, false
}
