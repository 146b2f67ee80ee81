package ui

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"

	"liftdesk/internal/api"
	"liftdesk/internal/collection"
	"liftdesk/internal/config"
	"liftdesk/internal/domain"
	"liftdesk/internal/eventbus"
	"liftdesk/internal/form"
	"liftdesk/internal/logic"
	"liftdesk/internal/ui/commands"
	"liftdesk/internal/ui/coordinator"
	"liftdesk/internal/ui/handlers"
	"liftdesk/internal/ui/input"
	"liftdesk/internal/ui/input/modes"
	inputtypes "liftdesk/internal/ui/input/types"
	"liftdesk/internal/ui/services/events"
	"liftdesk/internal/ui/services/navigation"
	"liftdesk/internal/ui/state"
	"liftdesk/internal/ui/viewmodels"
	"liftdesk/internal/ui/views"
)

const statusTTL = 4 * time.Second

// Backend is the slice of the API client the UI drives
type Backend interface {
	collection.Fetcher
	form.Writer
	commands.Deleter
}

// Options wires a Model
type Options struct {
	Context context.Context
	Config  *config.Config
	Backend Backend
	Bus     eventbus.EventBus
	Logger  logrus.FieldLogger
	Token   func() string
	User    string
}

// formStateMsg carries a form controller transition onto the UI goroutine
type formStateMsg struct {
	ctrl  *form.Controller
	state form.State
}

type pickerRow struct {
	ID    string
	Label string
}

// Model represents the UI state
type Model struct {
	ctx     context.Context
	bus     eventbus.EventBus
	config  *config.Config
	backend Backend
	token   func() string
	log     logrus.FieldLogger
	state   *state.AppState // centralized state

	// UI-specific state not in AppState
	width       int
	height      int
	help        help.Model
	keys        keyMap
	spinner     spinner.Model
	inPagerMode bool
	statusSeq   int

	collections  map[string]*collection.Controller
	coord        *coordinator.Coordinator
	renderer     *views.Renderer
	helpRender   *HelpRenderer
	eventHandler *handlers.EventHandler
	viewModel    *viewmodels.ViewModel
	cmdExecutor  *commands.Executor
	inputHandler *input.Handler

	// Open form
	formCtrl   *form.Controller
	formInputs []textinput.Model
	pickerRows []pickerRow

	// Program reference for terminal management
	program *tea.Program
	pager   *Pager
	send    func(tea.Msg)
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	token := opts.Token
	if token == nil {
		token = func() string { return "" }
	}
	bus := opts.Bus
	if bus == nil {
		bus = eventbus.New(log)
	}

	appState := state.NewAppState(cfg.Screens)
	appState.User = opts.User

	m := &Model{
		ctx:          ctx,
		bus:          bus,
		config:       cfg,
		backend:      opts.Backend,
		token:        token,
		log:          log.WithField("component", "ui"),
		state:        appState,
		help:         help.New(),
		keys:         newKeyMap(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		collections:  make(map[string]*collection.Controller),
		renderer:     views.NewRenderer(),
		helpRender:   NewHelpRenderer(),
		inputHandler: input.New(),
		send:         func(tea.Msg) {},
	}

	store := logic.NewMemoryItemStore()
	for _, screen := range cfg.Screens {
		m.collections[screen.Name] = collection.New(screen, opts.Backend, store, bus, log)
	}

	m.coord = coordinator.NewCoordinator(events.NewBus(log))
	m.eventHandler = handlers.NewEventHandler(appState, m.refreshScreen)
	m.cmdExecutor = commands.NewExecutor(ctx, appState, bus, opts.Backend, token, log)
	m.viewModel = viewmodels.NewViewModel(appState, m.coord, m.collections, *m.inputHandler.GetTextInput())

	if screen := appState.CurrentScreen(); screen != nil {
		m.coord.SetCollection(m.collections[screen.Name])
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPager(p)
	m.send = p.Send
}

// Init loads the first screen and starts the spinner
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.cmdExecutor.ExecuteLoad(m.coord.Active()))
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	prevStatus := m.state.StatusMessage
	model, cmd := m.update(msg)
	if m.state.StatusMessage != "" && m.state.StatusMessage != prevStatus && !m.state.StatusIsError {
		cmd = tea.Batch(cmd, m.expireStatus())
	}
	return model, cmd
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.coord.SetViewportHeight(msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		// Help popup swallows keys until closed
		if m.state.ShowHelp {
			switch msg.String() {
			case "esc", "?", "q":
				m.state.ShowHelp = false
			case "ctrl+c":
				return m, m.quit()
			}
			return m, nil
		}
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case commands.LoadedMsg:
		return m, m.handleLoaded(msg)

	case commands.DeletedMsg:
		return m, m.handleDeleted(msg)

	case commands.SubmittedMsg:
		return m, m.handleSubmitted(msg)

	case formStateMsg:
		if msg.ctrl != m.formCtrl {
			return m, nil
		}
		if f := m.state.Form; f != nil && f.Submitting {
			switch msg.state {
			case form.StateSubmitting:
				f.Phase = "Saving..."
			case form.StateSyncingAssociations:
				f.Phase = "Assigning technicians..."
			}
		}
		return m, nil

	case EventMsg:
		return m, m.eventHandler.HandleEvent(msg.Event)

	case pagerMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).WithField("content", msg.what).Warn("pager failed")
			event := eventbus.ErrorEvent{Message: fmt.Sprintf("could not open %s: %v", msg.what, msg.err), Err: msg.err}
			m.bus.Publish(event)
			return m, m.eventHandler.HandleEvent(event)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.state.ClearStatus()
		}
		return m, nil
	}

	// Cursor blink and friends
	var cmds []tea.Cmd
	cmds = append(cmds, m.inputHandler.Update(msg))
	if i := m.focusedInput(); i >= 0 {
		var cmd tea.Cmd
		m.formInputs[i], cmd = m.formInputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	before := m.inputHandler.CurrentMode()
	actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

	cmds := []tea.Cmd{cmd}
	for _, action := range actions {
		cmds = append(cmds, m.processAction(action))
	}

	after := m.inputHandler.CurrentMode()
	if after != before {
		cmds = append(cmds, m.modeChanged(before, after))
	}
	return tea.Batch(cmds...)
}

func (m *Model) inputContext() *input.ModelContext {
	return &input.ModelContext{State: m.state, Coord: m.coord}
}

// modeChanged reacts to transitions the input handler made on its own
func (m *Model) modeChanged(from, to inputtypes.Mode) tea.Cmd {
	switch {
	case to == inputtypes.ModePicker:
		return m.enterPicker()
	case from == inputtypes.ModePicker && to == inputtypes.ModeForm:
		m.focusInput(m.formFocus())
	case (from == inputtypes.ModeForm || from == inputtypes.ModePicker) && to == inputtypes.ModeNormal:
		m.closeForm()
	}
	return nil
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	m.log.WithField("action", action.Type()).Debug("processAction")
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.coord.Navigation.Navigate(navigation.Direction(a.Direction))

	case inputtypes.SwitchScreenAction:
		if m.state.SelectScreen(a.Index, a.Delta) {
			return m.activateScreen()
		}

	case inputtypes.UpdateTextAction:
		switch m.inputHandler.CurrentMode() {
		case inputtypes.ModeSearch:
			m.coord.Search.SetQuery(a.Text)
		case inputtypes.ModePicker:
			m.filterPicker(a.Text)
		}

	case inputtypes.SubmitTextAction:
		switch a.Mode {
		case inputtypes.ModeSearch:
			m.coord.Search.SetQuery(a.Text)
			m.coord.Search.Blur()
		case inputtypes.ModeFilter:
			if err := m.coord.Filters.Apply(a.Text); err != nil {
				m.state.SetStatus(err.Error(), true)
			}
		}

	case inputtypes.CancelTextAction:
		if a.Mode == inputtypes.ModeSearch {
			m.coord.Search.Blur()
		}

	case inputtypes.SuggestionNavigateAction:
		if a.Direction == "prev" {
			m.coord.Search.HighlightPrevious()
		} else {
			m.coord.Search.HighlightNext()
		}

	case inputtypes.AcceptSuggestionAction:
		m.coord.Search.AcceptHighlighted()

	case inputtypes.ClearSearchAction:
		m.coord.Search.Clear()
		if m.inputHandler.CurrentMode() == inputtypes.ModeSearch {
			m.inputHandler.GetTextInput().SetValue("")
		}

	case inputtypes.CycleFilterAction:
		field, value, ok := m.coord.Filters.CycleFirst()
		switch {
		case !ok:
			m.state.SetStatus("This screen has no filters", false)
		case value == "":
			m.state.SetStatus("Filter "+field+" cleared", false)
		default:
			m.state.SetStatus("Filter "+field+"="+value, false)
		}

	case inputtypes.ClearFiltersAction:
		m.coord.Filters.ClearAll()

	case inputtypes.RefreshAction:
		return m.cmdExecutor.ExecuteLoad(m.coord.Active())

	case inputtypes.ToggleHelpAction:
		if m.pager != nil {
			return m.showInPager("help", m.helpRender.RenderHelp(m.keys, m.state.Screens))
		}
		m.state.ShowHelp = !m.state.ShowHelp

	case inputtypes.ShowDetailAction:
		item, ok := m.coord.CurrentItem()
		if !ok {
			return nil
		}
		if m.pager == nil {
			m.state.SetStatus("Details need an interactive terminal", true)
			return nil
		}
		return m.showInPager("details", m.helpRender.RenderDetail(m.coord.Active().Screen(), item))

	case inputtypes.QuitAction:
		return m.quit()

	case inputtypes.NewItemAction:
		m.openForm(nil)

	case inputtypes.EditItemAction:
		if active := m.coord.Active(); active != nil {
			if item, ok := active.Find(a.ID); ok {
				m.openForm(item)
			}
		}

	case inputtypes.DeleteItemAction:
		if active := m.coord.Active(); active != nil && a.ID != "" {
			return m.cmdExecutor.ExecuteDelete(active.Screen(), a.ID)
		}

	case inputtypes.FormFieldAction:
		if n := len(m.formInputs); n > 0 && m.state.Form != nil {
			m.focusInput(((m.state.Form.Focus+a.Delta)%n + n) % n)
		}

	case inputtypes.FormInputAction:
		if i := m.focusedInput(); i >= 0 {
			var cmd tea.Cmd
			m.formInputs[i], cmd = m.formInputs[i].Update(a.Msg)
			return cmd
		}

	case inputtypes.SubmitFormAction:
		return m.submitForm()

	case inputtypes.CloseFormAction:
		m.closeForm()

	case inputtypes.PickerMoveAction:
		if f := m.state.Form; f != nil && len(m.pickerRows) > 0 {
			f.PickerCursor = min(max(f.PickerCursor+a.Delta, 0), len(m.pickerRows)-1)
		}

	case inputtypes.PickerToggleAction:
		m.togglePicked()

	case inputtypes.SortByAction:
		m.coord.Sorting.SetMode(a.Index)
		m.state.SortOptionIndex = a.Index

	case inputtypes.UpdateSortIndexAction:
		m.state.SortOptionIndex = a.Index

	case inputtypes.ToggleSortDirectionAction:
		m.coord.Sorting.ToggleDirection()
		m.state.SetStatus("Sort: "+m.coord.Sorting.GetModeString(), false)
	}
	return nil
}

// activateScreen binds the selected tab and loads it on first visit
func (m *Model) activateScreen() tea.Cmd {
	screen := m.state.CurrentScreen()
	if screen == nil {
		return nil
	}
	ctrl := m.collections[screen.Name]
	m.coord.SetCollection(ctrl)
	m.state.SortOptionIndex = m.coord.Sorting.GetCurrentIndex()
	if ctrl.LoadedAt().IsZero() && !m.state.Loading[screen.Name] {
		return m.cmdExecutor.ExecuteLoad(ctrl)
	}
	return nil
}

// refreshScreen reloads a screen by name
func (m *Model) refreshScreen(name string) tea.Cmd {
	return m.cmdExecutor.ExecuteLoad(m.collections[name])
}

func (m *Model) handleLoaded(msg commands.LoadedMsg) tea.Cmd {
	ctrl := m.collections[msg.Screen]
	if ctrl == nil || !ctrl.Complete(msg.Generation, msg.Items, msg.Err) {
		return nil
	}
	m.state.SetLoading(msg.Screen, false)
	if ctrl == m.coord.Active() {
		m.coord.CollectionChanged()
	}
	if f := m.state.Form; f != nil && m.memberScreen() == msg.Screen {
		m.filterPicker(f.PickerQuery)
	}
	return nil
}

func (m *Model) handleDeleted(msg commands.DeletedMsg) tea.Cmd {
	m.state.SetDeleting(msg.ID, false)
	if msg.Err != nil {
		if api.IsUnauthorized(msg.Err) {
			return m.eventHandler.HandleEvent(eventbus.SessionExpiredEvent{Screen: msg.Screen})
		}
		return m.eventHandler.HandleEvent(eventbus.ErrorEvent{Message: commands.DeleteFailedMessage(msg.Err), Err: msg.Err})
	}
	return m.eventHandler.HandleEvent(eventbus.ItemDeletedEvent{Screen: msg.Screen, ID: msg.ID})
}

func (m *Model) handleSubmitted(msg commands.SubmittedMsg) tea.Cmd {
	if errors.Is(msg.Err, form.ErrDisposed) {
		return nil
	}
	f := m.state.Form
	if f == nil {
		return nil
	}
	f.Submitting = false
	f.Phase = ""
	if msg.Err != nil {
		f.Message, f.IsError = msg.Err.Error(), true
		return nil
	}

	out := msg.Outcome
	event := eventbus.SubmissionCompletedEvent{Screen: msg.Screen, EntityID: out.EntityID, Outcome: string(out.Kind), Message: out.Message}

	switch out.Kind {
	case form.OutcomeSuccess, form.OutcomePartialAssociationFailure:
		m.closeForm()
		m.inputHandler.Reset()
		return m.eventHandler.HandleEvent(event)
	case form.OutcomeValidationError:
		f.Errors = out.Fields
	case form.OutcomeUnauthorized:
		m.eventHandler.HandleEvent(eventbus.SessionExpiredEvent{Screen: msg.Screen})
		out.Message = handlers.SessionExpiredMessage
	}
	f.Message, f.IsError = out.Message, true
	return nil
}

// openForm shows the create form, or the edit form when item is set
func (m *Model) openForm(item domain.Item) {
	active := m.coord.Active()
	if active == nil {
		return
	}
	screen := active.Screen()
	if !screen.Writable {
		return
	}
	m.closeForm()

	f := &state.FormState{Screen: screen.Name, Fields: screen.FormFields, Title: "New " + screen.Title}
	if item != nil {
		f.EntityID = item.ID(screen.IDField)
		f.Title = fmt.Sprintf("Edit %s #%s", screen.Title, f.EntityID)
	}

	m.formInputs = make([]textinput.Model, len(screen.FormFields))
	for i, field := range screen.FormFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 512
		ti.Width = 48
		ti.Placeholder = form.Label(field)
		if item != nil {
			ti.SetValue(item.String(field))
		}
		m.formInputs[i] = ti
	}

	if screen.HasMembers() {
		m.coord.BeginMembers(item)
		f.Members = m.coord.Selection.GetSelected()
		f.PreviousMembers = m.coord.Selection.GetInitial()
	}

	var ctrl *form.Controller
	send := m.send
	ctrl = form.NewController(m.backend, form.Config{
		Resource:      screen.Endpoint,
		Title:         screen.Title,
		IDField:       screen.IDField,
		MemberIDField: screen.MemberIDField,
		Token:         m.token(),
		Validate:      form.ValidatorFor(screen.Form),
		Logger:        m.log,
		OnState: func(s form.State) {
			send(formStateMsg{ctrl: ctrl, state: s})
		},
	})
	m.formCtrl = ctrl

	m.state.OpenForm(f)
	m.focusInput(0)
}

// closeForm hides the form and detaches its controller
func (m *Model) closeForm() {
	if m.formCtrl != nil {
		m.formCtrl.Dispose()
		m.formCtrl = nil
	}
	m.formInputs = nil
	m.pickerRows = nil
	m.state.CloseForm()
}

func (m *Model) submitForm() tea.Cmd {
	f := m.state.Form
	if f == nil || m.formCtrl == nil || f.Submitting {
		return nil
	}
	raw := make(map[string]string, len(f.Fields))
	for i, field := range f.Fields {
		raw[field] = m.formInputs[i].Value()
	}
	f.Errors = map[string]string{}

	sub := form.Submission{Values: form.Values(raw), EntityID: f.EntityID}
	if screen := m.coord.Active().Screen(); screen.HasMembers() {
		sub.Members = m.coord.Selection.GetSelected()
		sub.PreviousMembers = m.coord.Selection.GetInitial()
	}
	return m.cmdExecutor.ExecuteSubmit(f.Screen, m.formCtrl, sub)
}

func (m *Model) formFocus() int {
	if m.state.Form == nil {
		return 0
	}
	return m.state.Form.Focus
}

func (m *Model) focusedInput() int {
	if m.state.Form == nil || m.inputHandler.CurrentMode() != inputtypes.ModeForm {
		return -1
	}
	if i := m.state.Form.Focus; i >= 0 && i < len(m.formInputs) {
		return i
	}
	return -1
}

func (m *Model) focusInput(i int) {
	if m.state.Form == nil {
		return
	}
	for j := range m.formInputs {
		if j == i {
			m.formInputs[j].Focus()
		} else {
			m.formInputs[j].Blur()
		}
	}
	m.state.Form.Focus = i
}

func (m *Model) memberScreen() string {
	active := m.coord.Active()
	if active == nil {
		return ""
	}
	return active.Screen().MemberScreen
}

// enterPicker shows the technician list, loading it when needed
func (m *Model) enterPicker() tea.Cmd {
	for j := range m.formInputs {
		m.formInputs[j].Blur()
	}
	if m.state.Form != nil {
		m.state.Form.PickerCursor = 0
	}
	m.filterPicker("")
	ctrl := m.collections[m.memberScreen()]
	if ctrl != nil && ctrl.LoadedAt().IsZero() && !m.state.Loading[ctrl.Screen().Name] {
		return m.cmdExecutor.ExecuteLoad(ctrl)
	}
	return nil
}

// filterPicker narrows the technicians with a fuzzy match on their labels
func (m *Model) filterPicker(query string) {
	f := m.state.Form
	if f == nil {
		return
	}
	f.PickerQuery = query
	ctrl := m.collections[m.memberScreen()]
	if ctrl == nil {
		m.pickerRows = nil
		return
	}
	idField := ctrl.Screen().IDField
	items := ctrl.Items()
	all := make([]pickerRow, len(items))
	labels := make([]string, len(items))
	for i, it := range items {
		all[i] = pickerRow{ID: it.ID(idField), Label: it.Label("name", "email")}
		labels[i] = all[i].Label
	}

	if query == "" {
		sort.SliceStable(all, func(i, j int) bool { return all[i].Label < all[j].Label })
		m.pickerRows = all
	} else {
		ranks := fuzzy.RankFindNormalizedFold(query, labels)
		sort.Stable(ranks)
		rows := make([]pickerRow, len(ranks))
		for i, r := range ranks {
			rows[i] = all[r.OriginalIndex]
		}
		m.pickerRows = rows
	}
	if f.PickerCursor >= len(m.pickerRows) {
		f.PickerCursor = max(len(m.pickerRows)-1, 0)
	}
}

func (m *Model) togglePicked() {
	f := m.state.Form
	if f == nil || f.PickerCursor >= len(m.pickerRows) {
		return
	}
	row := m.pickerRows[f.PickerCursor]
	if !m.coord.Selection.Toggle(row.ID) {
		f.Message, f.IsError = fmt.Sprintf("At most %d technicians can be assigned", m.coord.Selection.GetMax()), true
		return
	}
	f.Message = ""
	f.Members = m.coord.Selection.GetSelected()
}

// memberLabel names a technician id for display
func (m *Model) memberLabel(id string) string {
	if ctrl := m.collections[m.memberScreen()]; ctrl != nil {
		if it, ok := ctrl.Find(id); ok {
			return it.Label("name", "email")
		}
	}
	return "#" + id
}

func (m *Model) buildFormView() *views.FormView {
	f := m.state.Form
	if f == nil {
		return nil
	}
	fv := &views.FormView{
		Title:      f.Title,
		Message:    f.Message,
		IsError:    f.IsError,
		Submitting: f.Submitting,
		Phase:      f.Phase,
	}
	for i, field := range f.Fields {
		fv.Fields = append(fv.Fields, views.FormFieldView{
			Label:   form.Label(field),
			Input:   m.formInputs[i].View(),
			Error:   f.Errors[field],
			Focused: i == f.Focus && m.inputHandler.CurrentMode() == inputtypes.ModeForm,
		})
	}
	if active := m.coord.Active(); active != nil && active.Screen().HasMembers() {
		fv.HasMembers = true
		for _, id := range f.Members {
			fv.Members = append(fv.Members, m.memberLabel(id))
		}
	}
	if m.inputHandler.CurrentMode() == inputtypes.ModePicker {
		pv := &views.PickerView{
			Query:  m.viewModel.PickerQuery(),
			Cursor: f.PickerCursor,
			Count:  m.coord.Selection.GetCount(),
			Max:    m.coord.Selection.GetMax(),
		}
		for _, row := range m.pickerRows {
			pv.Rows = append(pv.Rows, views.PickerRow{Label: row.Label, Selected: m.coord.Selection.IsSelected(row.ID)})
		}
		fv.Picker = pv
	}
	return fv
}

// showInPager hands the terminal to ov until the user quits it
func (m *Model) showInPager(what, content string) tea.Cmd {
	pager := m.pager
	send := m.send
	return func() tea.Msg {
		// Send pause message to stop rendering
		send(pauseRenderingMsg{})
		err := pager.Show(content)
		// Send resume message to restart rendering
		send(resumeRenderingMsg{})
		return pagerMsg{what: what, err: err}
	}
}

func (m *Model) expireStatus() tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m *Model) quit() tea.Cmd {
	m.closeForm()
	return tea.Quit
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	m.viewModel.SetDimensions(m.width, m.height)
	writable := false
	if active := m.coord.Active(); active != nil {
		writable = active.Screen().Writable
	}
	m.viewModel.SetHelp(m.help, m.keys.forScreen(writable))
	m.viewModel.SetSpinner(m.spinner.View())

	mode := m.inputHandler.CurrentMode()
	m.viewModel.SetInputMode(mode, m.inputHandler.Prompt())
	m.viewModel.UpdateTextInput(*m.inputHandler.GetTextInput())

	m.viewModel.SetDeleteTarget("")
	if mode == inputtypes.ModeDeleteConfirm {
		if confirm, ok := m.inputHandler.Mode(inputtypes.ModeDeleteConfirm).(*modes.ConfirmMode); ok {
			m.viewModel.SetDeleteTarget(m.coord.Active().Screen().Title + " #" + confirm.Target())
		}
	}
	m.viewModel.SetForm(m.buildFormView())

	return m.renderer.Render(m.viewModel.BuildViewState())
}
