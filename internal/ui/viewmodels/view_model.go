package viewmodels

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"liftdesk/internal/collection"
	"liftdesk/internal/ui/coordinator"
	"liftdesk/internal/ui/input/types"
	"liftdesk/internal/ui/state"
	"liftdesk/internal/ui/views"
)

// ViewModel transforms application state into view-ready data
type ViewModel struct {
	state            *state.AppState
	coord            *coordinator.Coordinator
	collections      map[string]*collection.Controller
	width            int
	height           int
	help             help.Model
	keys             help.KeyMap
	spinner          string
	deleteTarget     string
	form             *views.FormView
	inputTransformer *InputTransformer
}

// NewViewModel creates a new view model
func NewViewModel(appState *state.AppState, coord *coordinator.Coordinator, collections map[string]*collection.Controller, textInput textinput.Model) *ViewModel {
	return &ViewModel{
		state:            appState,
		coord:            coord,
		collections:      collections,
		inputTransformer: NewInputTransformer(textInput),
	}
}

// SetDimensions sets the current terminal dimensions
func (vm *ViewModel) SetDimensions(width, height int) {
	vm.width = width
	vm.height = height
}

// SetHelp sets the help model and the bindings it describes
func (vm *ViewModel) SetHelp(helpModel help.Model, keys help.KeyMap) {
	vm.help = helpModel
	vm.keys = keys
}

// SetSpinner sets the current spinner frame
func (vm *ViewModel) SetSpinner(frame string) {
	vm.spinner = frame
}

// SetDeleteTarget sets the current delete target
func (vm *ViewModel) SetDeleteTarget(target string) {
	vm.deleteTarget = target
}

// SetForm sets the form popup, nil hides it
func (vm *ViewModel) SetForm(f *views.FormView) {
	vm.form = f
}

// SetInputMode sets the current input mode
func (vm *ViewModel) SetInputMode(mode types.Mode, prompt string) {
	vm.inputTransformer.SetMode(mode, prompt)
}

// UpdateTextInput updates the text input model
func (vm *ViewModel) UpdateTextInput(textInput textinput.Model) {
	vm.inputTransformer.SetTextInput(textInput)
}

// PickerQuery returns the rendered picker input
func (vm *ViewModel) PickerQuery() string {
	return vm.inputTransformer.GetPickerQuery()
}

// BuildViewState creates a ViewState for rendering
func (vm *ViewModel) BuildViewState() views.ViewState {
	vs := views.ViewState{
		Width:                 vm.width,
		Height:                vm.height,
		Tabs:                  vm.buildTabs(),
		ActiveTab:             vm.state.ScreenIndex,
		User:                  vm.state.User,
		DeletingIDs:           vm.state.Deleting,
		Spinner:               vm.spinner,
		Cursor:                vm.coord.Navigation.GetCursor(),
		ViewportOffset:        vm.coord.Navigation.GetViewportOffset(),
		ViewportHeight:        vm.coord.Navigation.GetViewportHeight(),
		SearchQuery:           vm.coord.Search.GetQuery(),
		Suggestions:           vm.coord.Search.GetSuggestions(),
		SuggestionsVisible:    vm.coord.Search.SuggestionsVisible(),
		HighlightedSuggestion: vm.coord.Search.GetHighlighted(),
		FilterSummary:         vm.coord.Filters.Describe(),
		SortLabel:             vm.coord.Sorting.GetModeString(),
		SortOptionIndex:       vm.state.SortOptionIndex,
		InputMode:             vm.inputTransformer.GetInputModeString(),
		TextInput:             vm.inputTransformer.GetInputText(),
		DeleteTarget:          vm.deleteTarget,
		StatusMessage:         vm.state.StatusMessage,
		StatusIsError:         vm.state.StatusIsError,
		ShowHelp:              vm.state.ShowHelp,
		HelpModel:             vm.help,
		KeyMap:                vm.keys,
		Form:                  vm.form,
	}

	for _, opt := range vm.coord.Sorting.GetOptions() {
		vs.SortOptions = append(vs.SortOptions, opt.Name)
	}

	if active := vm.coord.Active(); active != nil {
		screen := active.Screen()
		vs.Columns = screen.Columns
		vs.IDField = screen.IDField
		vs.AmountField = screen.AmountField
		vs.Currency = screen.Currency
		vs.Rows = vm.coord.Visible()
		vs.TotalItems = len(active.Items())
		vs.Loading = vm.state.Loading[screen.Name]
		vs.LoadedAt = active.LoadedAt()
		if err := active.Err(); err != nil {
			vs.LoadError = err.Error()
		}
	}
	return vs
}

func (vm *ViewModel) buildTabs() []views.Tab {
	tabs := make([]views.Tab, len(vm.state.Screens))
	for i, screen := range vm.state.Screens {
		tabs[i] = views.Tab{Title: screen.Title, Loading: vm.state.Loading[screen.Name]}
		if ctrl := vm.collections[screen.Name]; ctrl != nil && !ctrl.LoadedAt().IsZero() {
			tabs[i].Loaded = true
			tabs[i].Count = len(ctrl.Items())
		}
	}
	return tabs
}
