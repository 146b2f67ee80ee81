package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"liftdesk/internal/ui/input/types"
)

// FormMode drives the create/edit popup. Field editing is left to the
// popup's own inputs, this mode only routes keys.
type FormMode struct{}

func NewFormMode() *FormMode {
	return &FormMode{}
}

func (m *FormMode) Name() string {
	return "form"
}

func (m *FormMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *FormMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *FormMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "tab", "down":
		return []types.Action{types.FormFieldAction{Delta: 1}}, true
	case "shift+tab", "up":
		return []types.Action{types.FormFieldAction{Delta: -1}}, true
	case "ctrl+s":
		return []types.Action{types.SubmitFormAction{}}, true
	case "esc":
		return []types.Action{
			types.CloseFormAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "ctrl+t":
		if ctx.HasMembers() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModePicker}}, true
		}
		return nil, true
	}
	return []types.Action{types.FormInputAction{Msg: msg}}, true
}
