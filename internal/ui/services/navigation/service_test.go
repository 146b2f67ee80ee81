package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"liftdesk/internal/ui/services/events"
)

func newService(count int) *Service {
	s := NewService(&events.NullBus{})
	s.SetCountFunction(func() int { return count })
	s.SetViewportHeight(5 + reservedRows)
	return s
}

func TestNavigateClampsToList(t *testing.T) {
	s := newService(3)
	s.Navigate(DirectionUp)
	assert.Equal(t, 0, s.GetCursor())

	s.Navigate(DirectionEnd)
	assert.Equal(t, 2, s.GetCursor())
	s.Navigate(DirectionDown)
	assert.Equal(t, 2, s.GetCursor())

	s.Navigate(DirectionHome)
	assert.Equal(t, 0, s.GetCursor())
}

func TestViewportFollowsCursor(t *testing.T) {
	s := newService(20)
	assert.Equal(t, 5, s.GetViewportHeight())

	s.Navigate(DirectionPageDown)
	assert.Equal(t, 4, s.GetCursor())
	assert.Equal(t, 0, s.GetViewportOffset())

	s.MoveToIndex(12)
	assert.Equal(t, 8, s.GetViewportOffset())

	s.Navigate(DirectionPageUp)
	assert.Equal(t, 8, s.GetCursor())
	assert.Equal(t, 8, s.GetViewportOffset())
}

func TestCursorEventsOnlyOnMovement(t *testing.T) {
	bus := events.NewBus(nil)
	moved := 0
	bus.Subscribe("navigation.CursorMovedEvent", func(interface{}) { moved++ })

	count := 4
	s := NewService(bus)
	s.SetCountFunction(func() int { return count })
	s.Navigate(DirectionDown)
	s.Navigate(DirectionEnd)
	s.Navigate(DirectionDown)
	assert.Equal(t, 2, moved)

	count = 2
	s.Clamp()
	assert.Equal(t, 1, s.GetCursor())
	assert.Equal(t, 2, moved)

	count = 0
	s.Clamp()
	assert.Equal(t, 0, s.GetCursor())
}
