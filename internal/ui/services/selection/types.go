package selection

// State holds the member ids picked for the open form
type State struct {
	Selected map[string]bool
	Initial  []string // membership when the form was opened
	Max      int      // 0 means unlimited
}

// Event types
type SelectionChangedEvent struct {
	Added   []string
	Removed []string
	Total   int
}

type SelectionClearedEvent struct{}

// SelectionLimitEvent is published when a toggle would exceed Max
type SelectionLimitEvent struct {
	ID  string
	Max int
}
