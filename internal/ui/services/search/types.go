package search

// State holds search state
type State struct {
	Query       string
	Suggestions []string
	Visible     bool // whether the suggestion list is shown
	Highlighted int  // index into Suggestions, -1 for none
}

// DismissReason says why the suggestion list was hidden
type DismissReason string

const (
	DismissSelected DismissReason = "selected"
	DismissScroll   DismissReason = "scroll"
	DismissBlur     DismissReason = "blur"
	DismissClear    DismissReason = "clear"
)

// Event types
type QueryChangedEvent struct {
	Query string
}

type SuggestionsChangedEvent struct {
	Query string
	Count int
}

type SuggestionsDismissedEvent struct {
	Reason DismissReason
}

type SuggestionSelectedEvent struct {
	Value string
}
