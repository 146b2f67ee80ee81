package views

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/lipgloss"

	"liftdesk/internal/domain"
)

const (
	maxColumnWidth = 32
	minColumnWidth = 4
	columnGap      = 2

	// DefaultCurrency is used when a screen does not name one
	DefaultCurrency = "INR"
)

// Column describes how one field is laid out in the table
type Column struct {
	Field string
	Title string
	Width int
}

// RowRenderer handles rendering of collection rows
type RowRenderer struct {
	styles      *Styles
	amountField string
	currency    string
}

// NewRowRenderer creates a new row renderer
func NewRowRenderer(styles *Styles) *RowRenderer {
	return &RowRenderer{styles: styles}
}

// SetAmount makes field render as money in currency
func (r *RowRenderer) SetAmount(field, currency string) {
	r.amountField = field
	r.currency = currency
}

// Layout sizes the columns to the widest cell, then shrinks them to fit width
func (r *RowRenderer) Layout(fields []string, rows []domain.Item, width int) []Column {
	cols := make([]Column, len(fields))
	for i, f := range fields {
		cols[i] = Column{Field: f, Title: columnTitle(f), Width: lipgloss.Width(columnTitle(f))}
		for _, row := range rows {
			if w := lipgloss.Width(r.Cell(row, f)); w > cols[i].Width {
				cols[i].Width = w
			}
		}
		if cols[i].Width > maxColumnWidth {
			cols[i].Width = maxColumnWidth
		}
	}

	if width <= 0 {
		return cols
	}
	// Shrink the widest column until the table fits
	for total(cols) > width {
		widest := 0
		for i := range cols {
			if cols[i].Width > cols[widest].Width {
				widest = i
			}
		}
		if cols[widest].Width <= minColumnWidth {
			break
		}
		cols[widest].Width--
	}
	return cols
}

func total(cols []Column) int {
	sum := 0
	for _, c := range cols {
		sum += c.Width + columnGap
	}
	return sum
}

// RenderHeader renders the column titles
func (r *RowRenderer) RenderHeader(cols []Column) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = pad(truncate(c.Title, c.Width), c.Width)
	}
	return r.styles.Header.Render(strings.Join(cells, strings.Repeat(" ", columnGap)))
}

// RenderRow renders one item. The search match is highlighted in every cell.
func (r *RowRenderer) RenderRow(item domain.Item, cols []Column, isCursor, isDeleting bool, searchQuery string) string {
	bg := lipgloss.NewStyle()
	if isCursor {
		bg = r.styles.SelectionBg
	}

	cells := make([]string, len(cols))
	for i, c := range cols {
		text := pad(truncate(r.Cell(item, c.Field), c.Width), c.Width)
		style := bg
		if c.Field == "status" {
			if color := GetStatusColor(item.String("status")); color != "" {
				style = style.Foreground(lipgloss.Color(color))
			}
		}
		if isDeleting {
			style = style.Faint(true).Strikethrough(true)
		}
		if searchQuery != "" {
			cells[i] = r.highlightMatch(text, searchQuery, style.Foreground(lipgloss.Color("226")).Bold(true), style)
		} else {
			cells[i] = style.Render(text)
		}
	}
	return strings.Join(cells, bg.Render(strings.Repeat(" ", columnGap)))
}

// Cell renders the display text of field
func (r *RowRenderer) Cell(item domain.Item, field string) string {
	if field != "" && field == r.amountField {
		return FormatAmount(item[field], r.currency)
	}
	if v, ok := item[field].([]any); ok {
		return itoa(len(v)) + " item(s)"
	}
	return strings.ReplaceAll(item.String(field), "\n", " ")
}

// FormatAmount renders a decoded JSON amount in currency; unparseable values pass through
func FormatAmount(v any, currency string) string {
	s := domain.Stringify(v)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return money.NewFromFloat(f, currency).Display()
}

// highlightMatch highlights matching text within a string. Matching is done
// per rune because case folding can change a rune's byte length.
func (r *RowRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	runes := []rune(text)
	needle := []rune(strings.ToLower(query))

	index := indexFold(runes, needle)
	if index == -1 {
		return normalStyle.Render(text)
	}

	// Split the text into parts
	before := string(runes[:index])
	match := string(runes[index : index+len(needle)])
	after := string(runes[index+len(needle):])

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}

// indexFold returns the rune offset of the lowercase needle in text, or -1
func indexFold(text, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(text); i++ {
		for j, n := range needle {
			if unicode.ToLower(text[i+j]) != n {
				continue outer
			}
		}
		return i
	}
	return -1
}

func columnTitle(field string) string {
	words := strings.Fields(strings.ReplaceAll(field, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		return string(runes[:width])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
