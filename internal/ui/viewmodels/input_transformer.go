package viewmodels

import (
	"github.com/charmbracelet/bubbles/textinput"

	"liftdesk/internal/ui/input/types"
)

// InputTransformer turns the input handler's mode into view strings
type InputTransformer struct {
	mode      types.Mode
	prompt    string
	textInput textinput.Model
}

// NewInputTransformer creates a new input transformer
func NewInputTransformer(textInput textinput.Model) *InputTransformer {
	return &InputTransformer{
		mode:      types.ModeNormal,
		textInput: textInput,
	}
}

// SetMode sets the current input mode and its prompt
func (it *InputTransformer) SetMode(mode types.Mode, prompt string) {
	it.mode = mode
	it.prompt = prompt
}

// SetTextInput updates the text input model
func (it *InputTransformer) SetTextInput(textInput textinput.Model) {
	it.textInput = textInput
}

// GetInputText returns the current text input line for the view
func (it *InputTransformer) GetInputText() string {
	switch it.mode {
	case types.ModeSearch, types.ModeFilter:
		return it.prompt + it.textInput.View()
	default:
		return ""
	}
}

// GetPickerQuery returns the picker's filter line
func (it *InputTransformer) GetPickerQuery() string {
	if it.mode != types.ModePicker {
		return ""
	}
	return it.textInput.View()
}

// GetInputModeString returns the string representation of the input mode
func (it *InputTransformer) GetInputModeString() string {
	switch it.mode {
	case types.ModeSearch:
		return "search"
	case types.ModeFilter:
		return "filter"
	case types.ModeDeleteConfirm:
		return "delete-confirm"
	case types.ModeSort:
		return "sort"
	case types.ModeForm:
		return "form"
	case types.ModePicker:
		return "picker"
	default:
		return ""
	}
}
