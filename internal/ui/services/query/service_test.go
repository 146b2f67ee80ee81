package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftdesk/internal/config"
	"liftdesk/internal/ui/services/events"
)

func newService() (*Service, map[string]string) {
	applied := map[string]string{}
	s := NewService(&events.NullBus{})
	s.SetApplyFunction(func(field, value string) {
		if value == "" {
			delete(applied, field)
			return
		}
		applied[field] = value
	})
	s.SetFilters([]config.Filter{
		{Field: "status", Values: []string{"open", "closed"}},
		{Field: "priority", Values: []string{"high", "low"}},
	})
	return s, applied
}

func TestCycleWalksValuesThenClears(t *testing.T) {
	s, applied := newService()

	v, ok := s.Cycle("status")
	require.True(t, ok)
	assert.Equal(t, "open", v)
	v, _ = s.Cycle("status")
	assert.Equal(t, "closed", v)
	v, _ = s.Cycle("status")
	assert.Equal(t, "", v)
	assert.Empty(t, applied)

	_, ok = s.Cycle("route")
	assert.False(t, ok)
}

func TestCycleFirst(t *testing.T) {
	s, applied := newService()
	field, value, ok := s.CycleFirst()
	require.True(t, ok)
	assert.Equal(t, "status", field)
	assert.Equal(t, "open", value)
	assert.Equal(t, map[string]string{"status": "open"}, applied)
}

func TestApplyExpression(t *testing.T) {
	s, applied := newService()

	require.NoError(t, s.Apply("priority=HIGH"))
	require.NoError(t, s.Apply("status:open"))
	assert.Equal(t, map[string]string{"priority": "high", "status": "open"}, applied)
	assert.Equal(t, "priority=high status=open", s.Describe())

	assert.Error(t, s.Apply("route=3"))
	assert.Error(t, s.Apply("status=pending"))
	assert.Error(t, s.Apply("garbage"))

	s.ClearAll()
	assert.Empty(t, applied)
	assert.False(t, s.HasActive())
	assert.Equal(t, []string{"status", "priority"}, s.Fields())
}
