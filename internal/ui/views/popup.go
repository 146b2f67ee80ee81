package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay greys out mainContent and draws the popup centred over it
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)
	if width <= 0 || height <= 0 {
		return styledPopup
	}

	base := strings.Split(desaturateANSI(mainContent), "\n")
	for len(base) < height {
		base = append(base, "")
	}

	modal := strings.Split(styledPopup, "\n")
	modalW := lipgloss.Width(styledPopup)
	x := (width - modalW) / 2
	if x < 0 {
		x = 0
	}
	y := (height - len(modal)) / 2
	if y < 0 {
		y = 0
	}

	for i, line := range modal {
		row := y + i
		if row >= len(base) {
			break
		}
		base[row] = spliceLine(base[row], line, x, modalW)
	}
	return strings.Join(base[:height], "\n")
}

// spliceLine replaces the cells [x, x+w) of a plain base line with overlay
func spliceLine(base, overlay string, x, w int) string {
	plain := []rune(ansiRE.ReplaceAllString(base, ""))
	for len(plain) < x+w {
		plain = append(plain, ' ')
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	left := dim.Render(string(plain[:x]))
	right := dim.Render(string(plain[x+w:]))
	pad := w - lipgloss.Width(overlay)
	if pad > 0 {
		overlay += strings.Repeat(" ", pad)
	}
	return left + overlay + right
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes
func desaturateANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
