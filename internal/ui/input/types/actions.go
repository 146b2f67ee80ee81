package types

import tea "github.com/charmbracelet/bubbletea"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// SwitchScreenAction moves between screen tabs. Index >= 0 jumps directly,
// otherwise Delta is applied.
type SwitchScreenAction struct {
	Index int
	Delta int
}

func (a SwitchScreenAction) Type() string { return "switch_screen" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct {
	Mode Mode
}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Search actions
type SuggestionNavigateAction struct {
	Direction string // "next" or "prev"
}

func (a SuggestionNavigateAction) Type() string { return "suggestion_navigate" }

type AcceptSuggestionAction struct{}

func (a AcceptSuggestionAction) Type() string { return "accept_suggestion" }

type ClearSearchAction struct{}

func (a ClearSearchAction) Type() string { return "clear_search" }

// Filter actions
type CycleFilterAction struct{}

func (a CycleFilterAction) Type() string { return "cycle_filter" }

type ClearFiltersAction struct{}

func (a ClearFiltersAction) Type() string { return "clear_filters" }

// Command actions
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type ShowDetailAction struct{}

func (a ShowDetailAction) Type() string { return "show_detail" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }

// Item actions
type NewItemAction struct{}

func (a NewItemAction) Type() string { return "new_item" }

type EditItemAction struct {
	ID string
}

func (a EditItemAction) Type() string { return "edit_item" }

type DeleteItemAction struct {
	ID string
}

func (a DeleteItemAction) Type() string { return "delete_item" }

// Form actions
type FormFieldAction struct {
	Delta int
}

func (a FormFieldAction) Type() string { return "form_field" }

// FormInputAction forwards a key to the focused form field
type FormInputAction struct {
	Msg tea.KeyMsg
}

func (a FormInputAction) Type() string { return "form_input" }

type SubmitFormAction struct{}

func (a SubmitFormAction) Type() string { return "submit_form" }

type CloseFormAction struct{}

func (a CloseFormAction) Type() string { return "close_form" }

// Member picker actions
type PickerMoveAction struct {
	Delta int
}

func (a PickerMoveAction) Type() string { return "picker_move" }

type PickerToggleAction struct{}

func (a PickerToggleAction) Type() string { return "picker_toggle" }

// Sort actions
type SortByAction struct {
	Index int
}

func (a SortByAction) Type() string { return "sort_by" }

type UpdateSortIndexAction struct {
	Index int
}

func (a UpdateSortIndexAction) Type() string { return "update_sort_index" }

type ToggleSortDirectionAction struct{}

func (a ToggleSortDirectionAction) Type() string { return "toggle_sort_direction" }
