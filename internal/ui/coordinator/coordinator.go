package coordinator

import (
	"liftdesk/internal/collection"
	"liftdesk/internal/domain"
	"liftdesk/internal/form"
	"liftdesk/internal/ui/services/events"
	"liftdesk/internal/ui/services/navigation"
	"liftdesk/internal/ui/services/query"
	"liftdesk/internal/ui/services/search"
	"liftdesk/internal/ui/services/selection"
	"liftdesk/internal/ui/services/sorting"
)

// Coordinator manages all UI services and binds them to the collection of
// the active screen
type Coordinator struct {
	// Services
	Navigation *navigation.Service
	Filters    *query.Service
	Selection  *selection.Service
	Search     *search.Service
	Sorting    *sorting.Service

	bus    events.EventBus
	active *collection.Controller
}

// NewCoordinator creates a new coordinator with all services
func NewCoordinator(bus events.EventBus) *Coordinator {
	c := &Coordinator{
		Navigation: navigation.NewService(bus),
		Filters:    query.NewService(bus),
		Selection:  selection.NewService(bus),
		Search:     search.NewService(bus),
		Sorting:    sorting.NewService(bus),
		bus:        bus,
	}

	c.wireServices()
	c.subscribeToEvents()

	return c
}

// wireServices connects services to whichever collection is active
func (c *Coordinator) wireServices() {
	c.Navigation.SetCountFunction(func() int {
		return len(c.Visible())
	})

	c.Search.SetSuggestFunction(func(prefix string) []string {
		if c.active == nil {
			return nil
		}
		return c.active.Suggestions(prefix)
	})
	c.Search.SetApplyFunction(func(text string) {
		if c.active != nil {
			c.active.SetSearch(text)
		}
	})

	c.Filters.SetApplyFunction(func(field, value string) {
		if c.active != nil {
			c.active.SetFilter(field, value)
		}
	})
}

// subscribeToEvents sets up event handlers
func (c *Coordinator) subscribeToEvents() {
	// Scrolling the results dismisses the suggestion list
	c.bus.Subscribe("navigation.CursorMovedEvent", func(e interface{}) {
		c.Search.Dismiss(search.DismissScroll)
	})

	// A narrower list may leave the cursor past its end
	for _, eventType := range []string{
		"search.QueryChangedEvent",
		"query.FilterChangedEvent",
		"query.FiltersClearedEvent",
	} {
		c.bus.Subscribe(eventType, func(e interface{}) {
			c.Navigation.Clamp()
		})
	}

	c.bus.Subscribe("sorting.SortModeChangedEvent", func(e interface{}) {
		c.Navigation.Reset()
	})
}

// SetCollection makes ctrl the active screen. The screen's search text and
// filters are restored into the services.
func (c *Coordinator) SetCollection(ctrl *collection.Controller) {
	c.active = ctrl
	screen := ctrl.Screen()

	c.Search.Reset()
	c.Filters.SetFilters(screen.Filters)
	c.Sorting.SetScreen(screen)
	c.Navigation.Reset()

	f := ctrl.Filter()
	for field, value := range f.ActiveFilters {
		c.Filters.Set(field, value)
	}
	if f.SearchText != "" {
		c.Search.SetQuery(f.SearchText)
		c.Search.Dismiss(search.DismissBlur)
	}
}

// Active returns the active collection, nil before the first SetCollection
func (c *Coordinator) Active() *collection.Controller {
	return c.active
}

// CollectionChanged is called after the active collection was reloaded
func (c *Coordinator) CollectionChanged() {
	c.Search.Refresh()
	c.Navigation.Clamp()
}

// Visible derives the visible list with the selected ordering
func (c *Coordinator) Visible() []domain.Item {
	if c.active == nil {
		return nil
	}
	return c.active.VisibleBy(c.Sorting.GetCurrent())
}

// CurrentItem returns the item under the cursor
func (c *Coordinator) CurrentItem() (domain.Item, bool) {
	visible := c.Visible()
	i := c.Navigation.GetCursor()
	if i < 0 || i >= len(visible) {
		return nil, false
	}
	return visible[i], true
}

// CurrentID returns the id of the item under the cursor
func (c *Coordinator) CurrentID() string {
	item, ok := c.CurrentItem()
	if !ok {
		return ""
	}
	return item.ID(c.active.Screen().IDField)
}

// BeginMembers starts member selection for item; a nil item starts empty
func (c *Coordinator) BeginMembers(item domain.Item) {
	var initial []string
	if item != nil && c.active != nil {
		initial = item.Strings(c.active.Screen().MembersField)
	}
	c.Selection.Begin(initial, form.MaxTechnicians)
}

// SetViewportHeight updates viewport height across services
func (c *Coordinator) SetViewportHeight(height int) {
	c.Navigation.SetViewportHeight(height)
}
