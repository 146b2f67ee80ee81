package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab is one screen in the tab bar
type Tab struct {
	Title   string
	Count   int
	Loaded  bool
	Loading bool
}

// TabRenderer renders the screen tab bar
type TabRenderer struct {
	styles *Styles
}

// NewTabRenderer creates a new tab renderer
func NewTabRenderer(styles *Styles) *TabRenderer {
	return &TabRenderer{styles: styles}
}

// RenderTabs renders tabs on one line, trimming from the right to fit width
func (t *TabRenderer) RenderTabs(tabs []Tab, active int, spinner string, width int) string {
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := tab.Title
		switch {
		case tab.Loading:
			label += " " + spinner
		case tab.Loaded:
			label += " (" + itoa(tab.Count) + ")"
		}
		style := t.styles.Tab
		if i == active {
			style = t.styles.ActiveTab
		}
		parts = append(parts, style.Render(label))
	}

	line := strings.Join(parts, " ")
	if width > 0 && lipgloss.Width(line) > width {
		// Keep the active tab visible when the bar overflows
		for len(parts) > 1 && lipgloss.Width(strings.Join(parts, " ")) > width {
			if active < len(parts)-1 {
				parts = parts[:len(parts)-1]
			} else {
				parts = parts[1:]
				active--
			}
		}
		line = strings.Join(parts, " ")
	}
	return line
}
