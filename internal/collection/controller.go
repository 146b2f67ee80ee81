// Package collection is the generic remote-list controller every screen is an
// instance of: it owns one screen's loaded items, its load state and its
// filter state, and derives the visible list and suggestions from them.
package collection

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"liftdesk/internal/api"
	"liftdesk/internal/config"
	"liftdesk/internal/domain"
	"liftdesk/internal/eventbus"
	"liftdesk/internal/logic"
)

// Fetcher loads a whole collection. *api.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, token, endpoint, collectionKey string) ([]domain.Item, error)
}

// Status is the load state of a collection
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Controller is one screen's collection view-model. It is safe for
// concurrent use; the filter state is only changed through its setters.
type Controller struct {
	screen  config.Screen
	fetcher Fetcher
	store   logic.ItemStore
	bus     eventbus.EventBus
	log     logrus.FieldLogger

	mu       sync.RWMutex
	status   Status
	err      error
	gen      uint64
	loadedAt time.Time
	filter   logic.FilterState
}

// New creates a controller for screen. store and bus may be nil.
func New(screen config.Screen, fetcher Fetcher, store logic.ItemStore, bus eventbus.EventBus, log logrus.FieldLogger) *Controller {
	if store == nil {
		store = logic.NewMemoryItemStore()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		screen:  screen,
		fetcher: fetcher,
		store:   store,
		bus:     bus,
		log:     log.WithFields(logrus.Fields{"screen": screen.Name, "endpoint": screen.Endpoint}),
		filter:  logic.FilterState{ActiveFilters: map[string]string{}},
	}
}

// Screen returns the screen definition
func (c *Controller) Screen() config.Screen {
	return c.screen
}

// Begin marks a load as started and returns its generation. Only the result
// of the latest generation is accepted by Complete.
func (c *Controller) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.status = StatusLoading
	return c.gen
}

// Complete records the result of load gen. It returns false and changes
// nothing when a newer load has started since.
// A failed load keeps the previously loaded items visible.
func (c *Controller) Complete(gen uint64, items []domain.Item, err error) bool {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.log.WithField("generation", gen).Debug("discarding stale load")
		return false
	}
	if err != nil {
		c.status = StatusFailed
		c.err = err
	} else {
		c.status = StatusLoaded
		c.err = nil
		c.loadedAt = time.Now()
		c.store.Replace(c.screen.Name, items)
	}
	c.mu.Unlock()

	if err != nil {
		c.log.WithError(err).Warn("load failed")
		c.publish(eventbus.CollectionFailedEvent{Screen: c.screen.Name, Err: err})
		if api.IsUnauthorized(err) {
			c.publish(eventbus.SessionExpiredEvent{Screen: c.screen.Name})
		}
		return true
	}
	c.log.WithField("count", len(items)).Debug("collection loaded")
	c.publish(eventbus.CollectionLoadedEvent{Screen: c.screen.Name, Count: len(items)})
	return true
}

// Load fetches the collection and records the result
func (c *Controller) Load(ctx context.Context, token string) error {
	gen := c.Begin()
	items, err := c.fetcher.Fetch(ctx, token, c.screen.Endpoint, c.screen.CollectionKey)
	c.Complete(gen, items, err)
	return err
}

// Fetch runs the HTTP call for a load without recording it. Pair it with
// Begin and Complete when the call happens off the caller's goroutine.
func (c *Controller) Fetch(ctx context.Context, token string) ([]domain.Item, error) {
	return c.fetcher.Fetch(ctx, token, c.screen.Endpoint, c.screen.CollectionKey)
}

func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Err returns the error of the last load, nil unless Status is StatusFailed
func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Controller) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Items returns the loaded collection in server order
func (c *Controller) Items() []domain.Item {
	return c.store.Items(c.screen.Name)
}

// Find returns the loaded item with the given id
func (c *Controller) Find(id string) (domain.Item, bool) {
	for _, item := range c.Items() {
		if item.ID(c.screen.IDField) == id {
			return item, true
		}
	}
	return nil, false
}

// Filter returns a copy of the current filter state
func (c *Controller) Filter() logic.FilterState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter.Clone()
}

func (c *Controller) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.SearchText = text
}

// SetFilter activates a categorical filter. An empty value clears it.
func (c *Controller) SetFilter(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = c.filter.WithFilter(field, value)
}

// ClearFilters drops the search text and every categorical filter
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = logic.FilterState{ActiveFilters: map[string]string{}}
}

// Visible derives the list to display using the screen's sort
func (c *Controller) Visible() []domain.Item {
	return c.VisibleBy(c.screen.Sort)
}

// VisibleBy derives the list to display using cmp
func (c *Controller) VisibleBy(cmp logic.Comparator) []domain.Item {
	return logic.Derive(c.Items(), c.Filter(), c.screen.SearchFields, cmp)
}

// Suggestions returns the autocomplete set for prefix
func (c *Controller) Suggestions(prefix string) []string {
	return logic.BuildSuggestions(c.Items(), c.screen.SuggestFields, prefix)
}

func (c *Controller) publish(event eventbus.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}
