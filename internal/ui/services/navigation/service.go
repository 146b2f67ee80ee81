package navigation

import (
	"liftdesk/internal/ui/services/events"
)

// reservedRows is taken by the title, tabs, search bar, status and help lines
const reservedRows = 9

// Service handles cursor movement over the visible list
type Service struct {
	state   *State
	bus     events.EventBus
	countFn func() int // number of visible rows
}

// NewService creates a new navigation service
func NewService(bus events.EventBus) *Service {
	return &Service{
		state: &State{ViewportHeight: 20},
		bus:   bus,
	}
}

// SetCountFunction sets the function returning the number of visible rows
func (s *Service) SetCountFunction(fn func() int) {
	s.countFn = fn
}

func (s *Service) GetCursor() int {
	return s.state.Cursor
}

func (s *Service) GetViewportOffset() int {
	return s.state.ViewportOffset
}

func (s *Service) GetViewportHeight() int {
	return s.state.ViewportHeight
}

// SetViewportHeight derives the list height from the terminal height
func (s *Service) SetViewportHeight(height int) {
	effective := height - reservedRows
	if effective < 1 {
		effective = 1
	}
	s.state.ViewportHeight = effective
	s.ensureVisible()
}

// Navigate moves the cursor in a direction
func (s *Service) Navigate(direction Direction) {
	s.refreshCount()
	page := s.state.ViewportHeight - 1
	if page < 1 {
		page = 1
	}

	switch direction {
	case DirectionUp:
		s.moveTo(s.state.Cursor - 1)
	case DirectionDown:
		s.moveTo(s.state.Cursor + 1)
	case DirectionPageUp:
		s.moveTo(s.state.Cursor - page)
	case DirectionPageDown:
		s.moveTo(s.state.Cursor + page)
	case DirectionHome:
		s.moveTo(0)
	case DirectionEnd:
		s.moveTo(s.state.Count - 1)
	}
}

// MoveToIndex moves cursor to specific index
func (s *Service) MoveToIndex(index int) {
	s.refreshCount()
	s.moveTo(index)
}

// Clamp keeps the cursor inside the list after it shrank. It publishes no
// cursor event since the user did not scroll.
func (s *Service) Clamp() {
	s.refreshCount()
	s.state.Cursor = s.clampIndex(s.state.Cursor)
	s.ensureVisible()
}

// Reset returns to the top of the list
func (s *Service) Reset() {
	s.state.Cursor = 0
	s.state.ViewportOffset = 0
}

func (s *Service) moveTo(index int) {
	old := s.state.Cursor
	s.state.Cursor = s.clampIndex(index)
	s.ensureVisible()
	if old != s.state.Cursor {
		s.bus.Publish(CursorMovedEvent{OldIndex: old, NewIndex: s.state.Cursor})
	}
}

func (s *Service) refreshCount() {
	if s.countFn != nil {
		s.state.Count = s.countFn()
	}
}

func (s *Service) clampIndex(index int) int {
	if index >= s.state.Count {
		index = s.state.Count - 1
	}
	if index < 0 {
		return 0
	}
	return index
}

func (s *Service) ensureVisible() {
	offset := s.state.ViewportOffset
	if s.state.Cursor < offset {
		offset = s.state.Cursor
	} else if s.state.Cursor >= offset+s.state.ViewportHeight {
		offset = s.state.Cursor - s.state.ViewportHeight + 1
	}
	if offset != s.state.ViewportOffset {
		s.state.ViewportOffset = offset
		s.bus.Publish(ViewportChangedEvent{Offset: offset, Height: s.state.ViewportHeight})
	}
}
