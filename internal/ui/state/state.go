package state

import (
	"slices"

	"liftdesk/internal/config"
)

// FormState is the create/edit popup. Field text lives in the model's inputs.
type FormState struct {
	Screen   string
	Title    string
	EntityID string // empty when creating
	Fields   []string
	Focus    int

	Errors     map[string]string
	Message    string
	IsError    bool
	Submitting bool
	Phase      string // progress label while submitting

	// Technician picker
	Members         []string
	PreviousMembers []string
	PickerQuery     string
	PickerCursor    int
}

// Creating reports whether the form makes a new record
func (f *FormState) Creating() bool {
	return f.EntityID == ""
}

// AppState contains all the application state
type AppState struct {
	// Screen catalog
	Screens     []config.Screen
	ScreenIndex int

	// Session
	User string
	Role string

	// Per-screen activity
	Loading  map[string]bool
	Deleting map[string]bool // item ids with a delete in flight

	// UI state
	ShowHelp        bool
	StatusMessage   string
	StatusIsError   bool
	SortOptionIndex int
	Form            *FormState
}

// NewAppState creates a new application state
func NewAppState(screens []config.Screen) *AppState {
	return &AppState{
		Screens:  screens,
		Loading:  make(map[string]bool),
		Deleting: make(map[string]bool),
	}
}

// CurrentScreen returns the selected tab, nil when the catalog is empty
func (s *AppState) CurrentScreen() *config.Screen {
	if s.ScreenIndex < 0 || s.ScreenIndex >= len(s.Screens) {
		return nil
	}
	return &s.Screens[s.ScreenIndex]
}

// ScreenNames lists the catalog in tab order
func (s *AppState) ScreenNames() []string {
	names := make([]string, len(s.Screens))
	for i, screen := range s.Screens {
		names[i] = screen.Name
	}
	return names
}

// SelectScreen moves to index, or by delta when index is negative. It
// wraps around and returns whether the tab changed.
func (s *AppState) SelectScreen(index, delta int) bool {
	n := len(s.Screens)
	if n == 0 {
		return false
	}
	next := index
	if next < 0 {
		next = ((s.ScreenIndex+delta)%n + n) % n
	}
	if next >= n || next == s.ScreenIndex {
		return false
	}
	s.ScreenIndex = next
	return true
}

// ScreenIndexOf returns the tab index of name or -1
func (s *AppState) ScreenIndexOf(name string) int {
	return slices.IndexFunc(s.Screens, func(sc config.Screen) bool { return sc.Name == name })
}

// SetStatus replaces the status bar message
func (s *AppState) SetStatus(msg string, isErr bool) {
	s.StatusMessage = msg
	s.StatusIsError = isErr
}

// ClearStatus clears the status bar
func (s *AppState) ClearStatus() {
	s.StatusMessage = ""
	s.StatusIsError = false
}

// SetLoading marks a screen as fetching
func (s *AppState) SetLoading(screen string, loading bool) {
	if loading {
		s.Loading[screen] = true
	} else {
		delete(s.Loading, screen)
	}
}

// IsLoading reports whether any screen is fetching
func (s *AppState) IsLoading() bool {
	return len(s.Loading) > 0
}

// SetDeleting marks an item delete as in flight
func (s *AppState) SetDeleting(id string, deleting bool) {
	if deleting {
		s.Deleting[id] = true
	} else {
		delete(s.Deleting, id)
	}
}

// OpenForm shows the form popup
func (s *AppState) OpenForm(f *FormState) {
	if f.Errors == nil {
		f.Errors = make(map[string]string)
	}
	s.Form = f
}

// CloseForm hides the form popup
func (s *AppState) CloseForm() {
	s.Form = nil
}
