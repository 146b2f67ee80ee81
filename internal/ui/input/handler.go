package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"liftdesk/internal/ui/input/modes"
	"liftdesk/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared text input for text modes
}

func New() *Handler {
	ti := textinput.New()
	ti.CharLimit = 256

	h := &Handler{
		currentMode: types.ModeNormal,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	// Register all mode handlers
	h.modes[types.ModeNormal] = modes.NewNormalMode()
	h.modes[types.ModeSearch] = modes.NewSearchMode(h.textInput)
	h.modes[types.ModeFilter] = modes.NewFilterMode(h.textInput)
	h.modes[types.ModeDeleteConfirm] = modes.NewConfirmMode()
	h.modes[types.ModeSort] = modes.NewSortSelectMode()
	h.modes[types.ModeForm] = modes.NewFormMode()
	h.modes[types.ModePicker] = modes.NewPickerMode(h.textInput)

	return h
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	// Unconsumed keys only matter to text modes
	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			allActions = append(allActions, action)
			continue
		}
		if c := h.switchMode(changeMode, ctx, &allActions); c != nil {
			cmd = c
		}
	}

	// Keys the text mode did not claim go to the shared input
	if !consumed && h.isTextMode(h.currentMode) {
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		allActions = append(allActions, types.UpdateTextAction{Text: h.textInput.Value()})
	}

	return allActions, cmd
}

func (h *Handler) switchMode(change types.ChangeModeAction, ctx types.Context, out *[]types.Action) tea.Cmd {
	if cur := h.modes[h.currentMode]; cur != nil {
		*out = append(*out, cur.Exit(ctx)...)
	}

	oldMode := h.currentMode
	h.currentMode = change.Mode

	var cmd tea.Cmd
	if h.isTextMode(h.currentMode) {
		h.textInput.Reset()
		if data, ok := change.Data.(string); ok {
			h.textInput.SetValue(data)
			h.textInput.CursorEnd()
		}
		h.textInput.Focus()
		cmd = textinput.Blink
	} else if h.isTextMode(oldMode) {
		h.textInput.Blur()
	}

	if next := h.modes[h.currentMode]; next != nil {
		*out = append(*out, next.Enter(ctx)...)
	}
	return cmd
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

func (h *Handler) TextInput() *textinput.Model {
	if h.isTextMode(h.currentMode) {
		return h.textInput
	}
	return nil
}

func (h *Handler) RegisterMode(mode types.Mode, handler types.ModeHandler) {
	h.modes[mode] = handler
}

// Mode returns the registered handler for mode
func (h *Handler) Mode(mode types.Mode) types.ModeHandler {
	return h.modes[mode]
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	switch mode {
	case types.ModeSearch, types.ModeFilter, types.ModePicker:
		return true
	default:
		return false
	}
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
	h.textInput.Reset()
	h.textInput.Blur()
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}

// ChangeMode changes the current input mode outside of a key press
func (h *Handler) ChangeMode(mode types.Mode, data string, ctx types.Context) []types.Action {
	var out []types.Action
	h.switchMode(types.ChangeModeAction{Mode: mode, Data: data}, ctx, &out)
	return out
}

// GetMode returns the current input mode
func (h *Handler) GetMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.currentMode
}

// Prompt returns the prompt of the active text mode
func (h *Handler) Prompt() string {
	if p, ok := h.modes[h.currentMode].(interface{ Prompt() string }); ok {
		return p.Prompt()
	}
	return ""
}

// GetTextInput returns the text input model
func (h *Handler) GetTextInput() *textinput.Model {
	if h == nil {
		return nil
	}
	return h.textInput
}
