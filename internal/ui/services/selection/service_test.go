package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"liftdesk/internal/ui/services/events"
)

func TestToggleRespectsMax(t *testing.T) {
	bus := events.NewBus(nil)
	var limited []string
	bus.Subscribe("selection.SelectionLimitEvent", func(e interface{}) {
		limited = append(limited, e.(SelectionLimitEvent).ID)
	})
	s := NewService(bus)
	s.Begin([]string{"1", "2"}, 3)

	assert.True(t, s.Toggle("3"))
	assert.False(t, s.Toggle("4"))
	assert.Equal(t, []string{"4"}, limited)
	assert.Equal(t, []string{"1", "2", "3"}, s.GetSelected())

	assert.True(t, s.Toggle("1"))
	assert.True(t, s.Toggle("4"))
	assert.Equal(t, []string{"2", "3", "4"}, s.GetSelected())
	assert.False(t, s.Toggle(""))
}

func TestChangedAgainstInitial(t *testing.T) {
	s := NewService(&events.NullBus{})
	s.Begin([]string{"1", "2"}, 0)
	assert.False(t, s.Changed())

	s.Toggle("2")
	s.Toggle("3")
	assert.True(t, s.Changed())
	assert.Equal(t, []string{"1", "2"}, s.GetInitial())

	s.DeselectAll()
	assert.Equal(t, []string{}, s.GetSelected())
	assert.Equal(t, 0, s.GetCount())
}
