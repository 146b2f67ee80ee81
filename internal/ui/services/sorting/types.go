package sorting

import "liftdesk/internal/logic"

// Option is one selectable ordering
type Option struct {
	Name       string
	Comparator logic.Comparator
}

// State holds sorting state
type State struct {
	Options []Option
	Current int
}

// Event types
type SortModeChangedEvent struct {
	OldMode string
	NewMode string
}
