package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"liftdesk/internal/ui/input/types"
)

// SortSelectMode previews orderings as the cursor moves. Esc restores the
// ordering that was active on entry.
type SortSelectMode struct {
	sortIndex     int
	originalIndex int
	count         int
}

func NewSortSelectMode() *SortSelectMode {
	return &SortSelectMode{}
}

func (m *SortSelectMode) Name() string {
	return "sort"
}

func (m *SortSelectMode) Enter(ctx types.Context) []types.Action {
	m.count = ctx.SortOptionCount()
	m.sortIndex = ctx.CurrentSortIndex()
	m.originalIndex = m.sortIndex
	return []types.Action{types.UpdateSortIndexAction{Index: m.sortIndex}}
}

func (m *SortSelectMode) Exit(ctx types.Context) []types.Action {
	return nil
}

// HandleKey processes key messages for sort selection
func (m *SortSelectMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "esc", "q":
		return []types.Action{
			types.SortByAction{Index: m.originalIndex},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case "enter":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true

	case "up", "k":
		return m.move(-1), true

	case "down", "j":
		return m.move(1), true
	}

	return nil, false
}

func (m *SortSelectMode) move(delta int) []types.Action {
	if m.count == 0 {
		return nil
	}
	m.sortIndex = (m.sortIndex + delta + m.count) % m.count
	return []types.Action{
		types.UpdateSortIndexAction{Index: m.sortIndex},
		types.SortByAction{Index: m.sortIndex},
	}
}

// GetCurrentIndex returns the current sort option index
func (m *SortSelectMode) GetCurrentIndex() int {
	return m.sortIndex
}
