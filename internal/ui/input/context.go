package input

import (
	"liftdesk/internal/ui/coordinator"
	"liftdesk/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State *state.AppState
	Coord *coordinator.Coordinator
}

// CurrentIndex returns the cursor position
func (c *ModelContext) CurrentIndex() int {
	return c.Coord.Navigation.GetCursor()
}

// TotalItems returns the number of visible items
func (c *ModelContext) TotalItems() int {
	return len(c.Coord.Visible())
}

// CurrentItemID returns the id under the cursor, empty when the list is empty
func (c *ModelContext) CurrentItemID() string {
	return c.Coord.CurrentID()
}

func (c *ModelContext) Writable() bool {
	active := c.Coord.Active()
	return active != nil && active.Screen().Writable
}

func (c *ModelContext) HasMembers() bool {
	active := c.Coord.Active()
	if active == nil {
		return false
	}
	screen := active.Screen()
	return screen.HasMembers()
}

func (c *ModelContext) SearchQuery() string {
	return c.Coord.Search.GetQuery()
}

func (c *ModelContext) SuggestionsVisible() bool {
	return c.Coord.Search.SuggestionsVisible()
}

func (c *ModelContext) CurrentSortIndex() int {
	return c.Coord.Sorting.GetCurrentIndex()
}

func (c *ModelContext) SortOptionCount() int {
	return len(c.Coord.Sorting.GetOptions())
}

func (c *ModelContext) ScreenCount() int {
	return len(c.State.Screens)
}
