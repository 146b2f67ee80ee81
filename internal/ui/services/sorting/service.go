package sorting

import (
	"strings"

	"liftdesk/internal/config"
	"liftdesk/internal/logic"
	"liftdesk/internal/ui/services/events"
)

// Service handles sorting logic
type Service struct {
	state *State
	bus   events.EventBus
}

// NewService creates a new sorting service
func NewService(bus events.EventBus) *Service {
	return &Service{
		state: &State{Options: []Option{{Name: "unsorted"}}},
		bus:   bus,
	}
}

// SetScreen rebuilds the options for screen: its own ordering first, then
// one ascending ordering per column
func (s *Service) SetScreen(screen config.Screen) {
	options := []Option{{Name: "default (" + screen.Sort.Describe() + ")", Comparator: screen.Sort}}
	for _, col := range screen.Columns {
		options = append(options, Option{Name: col, Comparator: logic.Comparator{{Field: col, Kind: kindFor(col)}}})
	}
	s.state = &State{Options: options}
}

// GetCurrent returns the active comparator
func (s *Service) GetCurrent() logic.Comparator {
	return s.state.Options[s.state.Current].Comparator
}

// GetCurrentIndex returns the index of the active option
func (s *Service) GetCurrentIndex() int {
	return s.state.Current
}

// GetOptions returns the selectable orderings
func (s *Service) GetOptions() []Option {
	return s.state.Options
}

// SetMode selects option i
func (s *Service) SetMode(i int) {
	if i < 0 || i >= len(s.state.Options) || i == s.state.Current {
		return
	}
	old := s.GetModeString()
	s.state.Current = i
	s.bus.Publish(SortModeChangedEvent{OldMode: old, NewMode: s.GetModeString()})
}

// NextMode cycles to the next option
func (s *Service) NextMode() {
	s.SetMode((s.state.Current + 1) % len(s.state.Options))
}

// ToggleDirection reverses every key of the active option
func (s *Service) ToggleDirection() {
	opt := &s.state.Options[s.state.Current]
	if len(opt.Comparator) == 0 {
		return
	}
	old := s.GetModeString()
	flipped := make(logic.Comparator, len(opt.Comparator))
	for i, k := range opt.Comparator {
		k.Descending = !k.Descending
		flipped[i] = k
	}
	opt.Comparator = flipped
	s.bus.Publish(SortModeChangedEvent{OldMode: old, NewMode: s.GetModeString()})
}

// GetModeString describes the active ordering
func (s *Service) GetModeString() string {
	return s.state.Options[s.state.Current].Comparator.Describe()
}

// kindFor guesses how a column compares from its name
func kindFor(field string) logic.KeyKind {
	if strings.HasSuffix(field, "_at") || strings.Contains(field, "date") || strings.HasPrefix(field, "amc_valid") {
		return logic.KindTime
	}
	return logic.KindText
}
