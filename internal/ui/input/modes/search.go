package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"liftdesk/internal/ui/input/types"
)

// SearchMode edits the live search text. Up/down walk the suggestion list
// and enter takes the highlighted suggestion.
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "down", "tab", "ctrl+n":
		return []types.Action{types.SuggestionNavigateAction{Direction: "next"}}, true
	case "up", "shift+tab", "ctrl+p":
		return []types.Action{types.SuggestionNavigateAction{Direction: "prev"}}, true
	case "enter":
		if ctx.SuggestionsVisible() {
			return []types.Action{
				types.AcceptSuggestionAction{},
				types.ChangeModeAction{Mode: types.ModeNormal},
			}, true
		}
	case "ctrl+u":
		return []types.Action{types.ClearSearchAction{}, types.UpdateTextAction{}}, true
	}
	return m.TextInputMode.HandleKey(msg, ctx)
}
