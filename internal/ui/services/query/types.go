package query

import "liftdesk/internal/config"

// State holds the categorical filters of the active screen
type State struct {
	Filters []config.Filter
	Active  map[string]string
}

// Event types
type FilterChangedEvent struct {
	Field string
	Value string // empty when the filter was cleared
}

type FiltersClearedEvent struct{}
