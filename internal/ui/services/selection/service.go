package selection

import (
	"sort"

	"liftdesk/internal/ui/services/events"
)

// Service tracks which members (technicians) are selected in a form
type Service struct {
	state *State
	bus   events.EventBus
}

// NewService creates a new selection service
func NewService(bus events.EventBus) *Service {
	return &Service{
		state: &State{Selected: make(map[string]bool)},
		bus:   bus,
	}
}

// Begin starts a selection from the current membership
func (s *Service) Begin(initial []string, max int) {
	s.state = &State{
		Selected: make(map[string]bool, len(initial)),
		Initial:  append([]string(nil), initial...),
		Max:      max,
	}
	for _, id := range initial {
		s.state.Selected[id] = true
	}
}

// Toggle flips id. It refuses to select past Max and returns false then.
func (s *Service) Toggle(id string) bool {
	if id == "" {
		return false
	}
	if s.state.Selected[id] {
		delete(s.state.Selected, id)
		s.bus.Publish(SelectionChangedEvent{Removed: []string{id}, Total: len(s.state.Selected)})
		return true
	}
	if s.state.Max > 0 && len(s.state.Selected) >= s.state.Max {
		s.bus.Publish(SelectionLimitEvent{ID: id, Max: s.state.Max})
		return false
	}
	s.state.Selected[id] = true
	s.bus.Publish(SelectionChangedEvent{Added: []string{id}, Total: len(s.state.Selected)})
	return true
}

// DeselectAll clears all selections
func (s *Service) DeselectAll() {
	s.state.Selected = make(map[string]bool)
	s.bus.Publish(SelectionClearedEvent{})
}

// IsSelected checks if a member is selected
func (s *Service) IsSelected(id string) bool {
	return s.state.Selected[id]
}

// GetSelected returns the selected ids in sorted order, never nil
func (s *Service) GetSelected() []string {
	selected := make([]string, 0, len(s.state.Selected))
	for id := range s.state.Selected {
		selected = append(selected, id)
	}
	sort.Strings(selected)
	return selected
}

// GetInitial returns the membership the selection started from
func (s *Service) GetInitial() []string {
	return s.state.Initial
}

// GetCount returns the number of selected members
func (s *Service) GetCount() int {
	return len(s.state.Selected)
}

// GetMax returns the selection limit, 0 for none
func (s *Service) GetMax() int {
	return s.state.Max
}

// Changed reports whether the selection differs from the initial membership
func (s *Service) Changed() bool {
	if len(s.state.Initial) != len(s.state.Selected) {
		return true
	}
	for _, id := range s.state.Initial {
		if !s.state.Selected[id] {
			return true
		}
	}
	return false
}
