package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"liftdesk/internal/ui/input/types"
)

// PickerMode selects technicians for the open form. Typing narrows the list.
type PickerMode struct {
	TextInputMode
}

func NewPickerMode(ti *textinput.Model) *PickerMode {
	return &PickerMode{
		TextInputMode: NewTextInputMode(types.ModePicker, "picker", "Technicians: ", ti),
	}
}

func (m *PickerMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "up", "ctrl+p":
		return []types.Action{types.PickerMoveAction{Delta: -1}}, true
	case "down", "ctrl+n":
		return []types.Action{types.PickerMoveAction{Delta: 1}}, true
	case "enter", "ctrl+space":
		return []types.Action{types.PickerToggleAction{}}, true
	case "esc", "tab":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeForm}}, true
	}
	return nil, false
}
