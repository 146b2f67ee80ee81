package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"liftdesk/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	// Screen tabs
	Tabs      []Tab
	ActiveTab int
	User      string

	// Table
	Columns        []string
	Rows           []domain.Item
	DeletingIDs    map[string]bool
	IDField        string
	AmountField    string
	Currency       string
	Cursor         int
	ViewportOffset int
	ViewportHeight int
	TotalItems     int
	Loading        bool
	LoadedAt       time.Time
	LoadError      string
	Spinner        string

	// Search, filter and sort
	SearchQuery           string
	Suggestions           []string
	SuggestionsVisible    bool
	HighlightedSuggestion int
	FilterSummary         string
	SortLabel             string
	SortOptions           []string
	SortOptionIndex       int

	// Input
	InputMode    string
	TextInput    string
	DeleteTarget string

	StatusMessage string
	StatusIsError bool
	ShowHelp      bool
	HelpModel     help.Model
	KeyMap        help.KeyMap

	Form *FormView
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	rowRender   *RowRenderer
	tabRender   *TabRenderer
	formRender  *FormRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		rowRender:   NewRowRenderer(styles),
		tabRender:   NewTabRenderer(styles),
		formRender:  NewFormRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}
	innerWidth := state.Width - 4 // Main container padding
	if innerWidth <= 0 {
		innerWidth = 76
	}

	// Title line with the signed-in user on the right
	logo := r.styles.Title.Render("liftdesk")
	right := ""
	if state.User != "" {
		right = r.styles.Dim.Render(state.User)
	}
	content.WriteString(alignRight(logo, right, innerWidth))
	content.WriteString("\n")

	content.WriteString(r.tabRender.RenderTabs(state.Tabs, state.ActiveTab, state.Spinner, innerWidth))
	content.WriteString("\n\n")

	// Input line
	switch state.InputMode {
	case "delete-confirm":
		content.WriteString(r.styles.Confirm.Render(fmt.Sprintf("Delete %s? (y/n): ", state.DeleteTarget)))
		content.WriteString("\n")
	case "sort":
		content.WriteString(r.renderSortOptions(state))
		content.WriteString("\n")
	case "search", "filter":
		content.WriteString(state.TextInput)
		content.WriteString("\n")
		if state.InputMode == "search" && state.SuggestionsVisible {
			content.WriteString(r.renderSuggestions(state))
		}
	default:
		content.WriteString(r.renderQueryLine(state))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(r.renderTable(state, innerWidth))

	// Footer pinned to the bottom
	footer := r.renderFooter(state, innerWidth)
	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := state.Height - 2
	if availableLines <= 0 {
		availableLines = 22
	}
	footerLines := strings.Count(footer, "\n") + 1
	if paddingNeeded := availableLines - currentLines - footerLines; paddingNeeded > 0 {
		content.WriteString(strings.Repeat("\n", paddingNeeded))
	}
	content.WriteString("\n")
	content.WriteString(footer)

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	finalContent := mainStyle.Render(content.String())

	// Overlay popups on top of main content
	if state.Form != nil {
		body := r.formRender.RenderForm(state.Form, state.Spinner, state.Height/3)
		return r.popupRender.RenderPopupOverlay(finalContent, body, state.Height, state.Width, r.styles.FormBox)
	}

	if state.ShowHelp && state.KeyMap != nil {
		body := r.styles.Title.Render("liftdesk keys") + "\n\n" + state.HelpModel.FullHelpView(state.KeyMap.FullHelp())
		return r.popupRender.RenderPopupOverlay(finalContent, body, state.Height, state.Width, r.styles.InfoBox)
	}

	return finalContent
}

// renderQueryLine summarises the active search, filters and ordering
func (r *Renderer) renderQueryLine(state ViewState) string {
	var parts []string
	if state.SearchQuery != "" {
		parts = append(parts, "Search: "+r.styles.Highlight.Render(state.SearchQuery))
	}
	if state.FilterSummary != "" {
		parts = append(parts, r.styles.Filter.Render("[Filter: "+state.FilterSummary+"]"))
	}
	if state.SortLabel != "" {
		parts = append(parts, r.styles.Dim.Render("Sort: "+state.SortLabel))
	}
	return strings.Join(parts, "  ")
}

// renderSuggestions renders the dropdown under the search box
func (r *Renderer) renderSuggestions(state ViewState) string {
	var b strings.Builder
	for i, s := range state.Suggestions {
		if i >= maxSuggestions {
			b.WriteString(r.styles.Scroll.Render(fmt.Sprintf("    … %d more", len(state.Suggestions)-maxSuggestions)))
			b.WriteString("\n")
			break
		}
		line := "  " + s
		if i == state.HighlightedSuggestion {
			line = r.styles.HighlightBg.Render("› " + s)
		}
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

const maxSuggestions = 8

// renderTable renders the header, the visible rows and scroll indicators
func (r *Renderer) renderTable(state ViewState, width int) string {
	switch {
	case state.LoadError != "" && len(state.Rows) == 0 && state.TotalItems == 0:
		return r.styles.StatusError.Render(state.LoadError) + "\n" + r.styles.Dim.Render("Press r to retry.")
	case state.Loading && state.TotalItems == 0:
		return r.styles.Dim.Render(state.Spinner + " Loading...")
	case state.TotalItems == 0:
		return r.styles.Dim.Render("Nothing here yet.")
	case len(state.Rows) == 0:
		return r.styles.Dim.Render("No records match. Press c to clear search and filters.")
	}

	r.rowRender.SetAmount(state.AmountField, state.Currency)
	cols := r.rowRender.Layout(state.Columns, state.Rows, width)

	lines := []string{r.rowRender.RenderHeader(cols)}

	height := state.ViewportHeight
	if height <= 0 {
		height = len(state.Rows)
	}
	offset := state.ViewportOffset
	if offset > len(state.Rows) {
		offset = len(state.Rows)
	}
	end := offset + height
	if end > len(state.Rows) {
		end = len(state.Rows)
	}

	if offset > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", offset)))
	}
	for i := offset; i < end; i++ {
		item := state.Rows[i]
		id := item.ID(state.IDField)
		lines = append(lines, r.rowRender.RenderRow(item, cols, i == state.Cursor, state.DeletingIDs[id], state.SearchQuery))
	}
	if below := len(state.Rows) - end; below > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", below)))
	}

	return strings.Join(lines, "\n")
}

// renderFooter renders the status line and short help
func (r *Renderer) renderFooter(state ViewState, width int) string {
	var status string
	switch {
	case state.StatusMessage != "" && state.StatusIsError:
		status = r.styles.StatusError.Render(state.StatusMessage)
	case state.StatusMessage != "":
		status = r.styles.StatusSuccess.Render(state.StatusMessage)
	case state.LoadError != "":
		status = r.styles.StatusWarning.Render("showing stale data: " + state.LoadError)
	}

	counts := fmt.Sprintf("%d/%d", len(state.Rows), state.TotalItems)
	if !state.LoadedAt.IsZero() {
		counts += " • updated " + state.LoadedAt.Format("15:04:05")
	}
	line := alignRight(status, r.styles.Dim.Render(counts), width)

	if state.KeyMap == nil || state.ShowHelp {
		return line
	}
	state.HelpModel.Width = width
	return line + "\n" + r.styles.Help.Render(state.HelpModel.ShortHelpView(state.KeyMap.ShortHelp()))
}

// renderSortOptions renders the sort mode selection interface
func (r *Renderer) renderSortOptions(state ViewState) string {
	if state.SortOptionIndex >= 0 && state.SortOptionIndex < len(state.SortOptions) {
		sortLine := fmt.Sprintf("Sort by: %s (%d/%d)", state.SortOptions[state.SortOptionIndex], state.SortOptionIndex+1, len(state.SortOptions))
		helpLine := r.styles.Dim.Render("↑/↓ or j/k to change • Enter to accept • Esc to cancel")
		return sortLine + "\n" + helpLine
	}
	return ""
}

func alignRight(left, right string, width int) string {
	if right == "" {
		return left
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}
