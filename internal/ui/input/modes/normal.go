package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"liftdesk/internal/ui/input/types"
)

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	case tea.KeyUp:
		return navigate("up"), true
	case tea.KeyDown:
		return navigate("down"), true
	case tea.KeyPgUp:
		return navigate("pageup"), true
	case tea.KeyPgDown:
		return navigate("pagedown"), true
	case tea.KeyHome:
		return navigate("home"), true
	case tea.KeyEnd:
		return navigate("end"), true
	case tea.KeyTab:
		return []types.Action{types.SwitchScreenAction{Index: -1, Delta: 1}}, true
	case tea.KeyShiftTab:
		return []types.Action{types.SwitchScreenAction{Index: -1, Delta: -1}}, true
	case tea.KeyEnter:
		// Enter edits on writable screens and shows the record elsewhere
		if ctx.CurrentItemID() == "" {
			return nil, false
		}
		if ctx.Writable() {
			return editItem(ctx), true
		}
		return []types.Action{types.ShowDetailAction{}}, true
	}

	key := msg.String()
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if i := int(key[0] - '1'); i < ctx.ScreenCount() {
			return []types.Action{types.SwitchScreenAction{Index: i}}, true
		}
		return nil, true
	}

	switch key {
	case "j":
		return navigate("down"), true

	case "k":
		return navigate("up"), true

	case "]", "l":
		return []types.Action{types.SwitchScreenAction{Index: -1, Delta: 1}}, true

	case "[", "h":
		return []types.Action{types.SwitchScreenAction{Index: -1, Delta: -1}}, true

	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch, Data: ctx.SearchQuery()}}, true

	case "f":
		return []types.Action{types.CycleFilterAction{}}, true

	case "F":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter}}, true

	case "c":
		return []types.Action{types.ClearSearchAction{}, types.ClearFiltersAction{}}, true

	case "s":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSort}}, true

	case "S":
		return []types.Action{types.ToggleSortDirectionAction{}}, true

	case "r", "ctrl+r":
		return []types.Action{types.RefreshAction{}}, true

	case "n", "a":
		if !ctx.Writable() {
			return nil, true
		}
		return []types.Action{types.NewItemAction{}, types.ChangeModeAction{Mode: types.ModeForm}}, true

	case "e":
		if !ctx.Writable() || ctx.CurrentItemID() == "" {
			return nil, true
		}
		return editItem(ctx), true

	case "d", "x":
		if !ctx.Writable() || ctx.CurrentItemID() == "" {
			return nil, true
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeDeleteConfirm}}, true

	case "v", "i":
		if ctx.CurrentItemID() == "" {
			return nil, true
		}
		return []types.Action{types.ShowDetailAction{}}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "esc":
		// Esc drops an active search, like clearing the search box
		if ctx.SearchQuery() != "" {
			return []types.Action{types.ClearSearchAction{}}, true
		}
		return nil, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true

	case "g":
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			// gg - go to top (within timeout)
			m.lastKeyWasG = false
			return navigate("home"), true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		m.lastKeyWasG = false
		return navigate("end"), true

	default:
		m.lastKeyWasG = false
	}

	return nil, false
}

func navigate(direction string) []types.Action {
	return []types.Action{types.NavigateAction{Direction: direction}}
}

func editItem(ctx types.Context) []types.Action {
	return []types.Action{
		types.EditItemAction{ID: ctx.CurrentItemID()},
		types.ChangeModeAction{Mode: types.ModeForm},
	}
}
