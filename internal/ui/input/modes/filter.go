package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"liftdesk/internal/ui/input/types"
)

// FilterMode reads a "field=value" expression
type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter (field=value): ", ti),
	}
}
