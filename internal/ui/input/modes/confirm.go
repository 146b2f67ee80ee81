package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"liftdesk/internal/ui/input/types"
)

// ConfirmMode asks before deleting the item under the cursor
type ConfirmMode struct {
	itemID string
}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "delete-confirm"
}

// Enter captures the target so a refresh underneath cannot change it
func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	m.itemID = ctx.CurrentItemID()
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

// Target returns the id awaiting confirmation
func (m *ConfirmMode) Target() string {
	return m.itemID
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "y", "Y":
		return []types.Action{
			types.DeleteItemAction{ID: m.itemID},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "n", "N", "esc", "q":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	}
	// Swallow everything else while the prompt is up
	return nil, true
}
