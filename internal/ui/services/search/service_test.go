package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"liftdesk/internal/ui/services/events"
)

var names = []string{"Acme Elevators", "Acme Towers", "Hotel Aster"}

func newService() (*Service, *string) {
	applied := new(string)
	s := NewService(&events.NullBus{})
	s.SetSuggestFunction(func(prefix string) []string {
		var out []string
		for _, n := range names {
			if strings.HasPrefix(strings.ToLower(n), strings.ToLower(prefix)) {
				out = append(out, n)
			}
		}
		return out
	})
	s.SetApplyFunction(func(q string) { *applied = q })
	return s, applied
}

func TestSetQueryShowsPrefixSuggestions(t *testing.T) {
	s, applied := newService()

	s.SetQuery("ac")
	assert.Equal(t, "ac", *applied)
	assert.True(t, s.SuggestionsVisible())
	assert.Equal(t, []string{"Acme Elevators", "Acme Towers"}, s.GetSuggestions())

	s.SetQuery("zzz")
	assert.False(t, s.SuggestionsVisible())
	assert.Empty(t, s.GetSuggestions())
}

func TestEmptyQueryHidesSuggestions(t *testing.T) {
	s, _ := newService()
	s.SetQuery("a")
	s.SetQuery("")
	assert.False(t, s.SuggestionsVisible())
	assert.Empty(t, s.GetSuggestions())
}

func TestSelectReplacesQueryVerbatimAndDismisses(t *testing.T) {
	s, applied := newService()
	s.SetQuery("ho")
	s.HighlightNext()

	assert.True(t, s.AcceptHighlighted())
	assert.Equal(t, "Hotel Aster", s.GetQuery())
	assert.Equal(t, "Hotel Aster", *applied)
	assert.False(t, s.SuggestionsVisible())
	assert.False(t, s.AcceptHighlighted())
}

func TestHighlightWraps(t *testing.T) {
	s, _ := newService()
	s.SetQuery("acme")
	s.HighlightPrevious()
	assert.Equal(t, 1, s.GetHighlighted())
	s.HighlightNext()
	assert.Equal(t, 0, s.GetHighlighted())
}

func TestDismissTriggers(t *testing.T) {
	bus := events.NewBus(nil)
	var reasons []DismissReason
	bus.Subscribe("search.SuggestionsDismissedEvent", func(e interface{}) {
		reasons = append(reasons, e.(SuggestionsDismissedEvent).Reason)
	})
	s := NewService(bus)
	s.SetSuggestFunction(func(string) []string { return []string{"Acme"} })

	s.SetQuery("a")
	s.Dismiss(DismissScroll)
	assert.Equal(t, "a", s.GetQuery(), "scrolling keeps the text")

	s.SetQuery("ac")
	s.Blur()
	assert.True(t, s.SuggestionsVisible(), "blur with text keeps suggestions")

	s.Clear()
	assert.Equal(t, "", s.GetQuery())
	assert.False(t, s.SuggestionsVisible())
	s.Blur()

	assert.Equal(t, []DismissReason{DismissScroll, DismissClear}, reasons)
}

func TestRefreshRebuildsForCurrentQuery(t *testing.T) {
	s, _ := newService()
	s.SetQuery("hot")
	assert.Len(t, s.GetSuggestions(), 1)

	names = append(names, "Hotel Grand")
	defer func() { names = names[:3] }()
	s.Refresh()
	assert.Equal(t, []string{"Hotel Aster", "Hotel Grand"}, s.GetSuggestions())
}

func TestShouldHighlight(t *testing.T) {
	s, _ := newService()
	assert.False(t, s.ShouldHighlight("Acme"))
	s.SetQuery("CME")
	assert.True(t, s.ShouldHighlight("Acme"))
}
