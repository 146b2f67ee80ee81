package views

import (
	"fmt"
	"strings"
)

// FormFieldView is one labelled input of the form popup
type FormFieldView struct {
	Label   string
	Input   string
	Error   string
	Focused bool
}

// PickerRow is one technician in the picker
type PickerRow struct {
	Label    string
	Selected bool
}

// PickerView is the technician picker inside the form popup
type PickerView struct {
	Query  string
	Rows   []PickerRow
	Cursor int
	Count  int
	Max    int
}

// FormView is the create/edit popup
type FormView struct {
	Title      string
	Fields     []FormFieldView
	Members    []string
	HasMembers bool
	Message    string
	IsError    bool
	Submitting bool
	Phase      string
	Picker     *PickerView
}

// FormRenderer renders the form popup body
type FormRenderer struct {
	styles *Styles
}

// NewFormRenderer creates a new form renderer
func NewFormRenderer(styles *Styles) *FormRenderer {
	return &FormRenderer{styles: styles}
}

// RenderForm renders the popup contents, without the border
func (f *FormRenderer) RenderForm(form *FormView, spinner string, maxRows int) string {
	var b strings.Builder
	b.WriteString(f.styles.Title.Render(form.Title))
	b.WriteString("\n\n")

	for _, field := range form.Fields {
		marker := "  "
		if field.Focused {
			marker = f.styles.Highlight.Render("› ")
		}
		b.WriteString(marker)
		b.WriteString(f.styles.Label.Render(field.Label))
		b.WriteString("\n  ")
		b.WriteString(field.Input)
		b.WriteString("\n")
		if field.Error != "" {
			b.WriteString("  ")
			b.WriteString(f.styles.FieldError.Render(field.Error))
			b.WriteString("\n")
		}
	}

	if form.HasMembers {
		b.WriteString("\n")
		b.WriteString(f.styles.Label.Render("Technicians"))
		b.WriteString(" ")
		if len(form.Members) == 0 {
			b.WriteString(f.styles.Dim.Render("none"))
		} else {
			b.WriteString(strings.Join(form.Members, ", "))
		}
		b.WriteString("\n")
	}

	if form.Picker != nil {
		b.WriteString("\n")
		b.WriteString(f.renderPicker(form.Picker, maxRows))
	}

	b.WriteString("\n")
	switch {
	case form.Submitting:
		phase := form.Phase
		if phase == "" {
			phase = "Saving..."
		}
		b.WriteString(f.styles.StatusLoading.Render(spinner + " " + phase))
	case form.Message != "" && form.IsError:
		b.WriteString(f.styles.StatusError.Render(form.Message))
	case form.Message != "":
		b.WriteString(f.styles.StatusSuccess.Render(form.Message))
	}
	b.WriteString("\n")

	hint := "tab next field • ctrl+s save • esc close"
	if form.HasMembers {
		hint += " • ctrl+t technicians"
	}
	if form.Picker != nil {
		hint = "type to filter • ↑/↓ move • enter toggle • esc back"
	}
	b.WriteString(f.styles.Help.Render(hint))
	return b.String()
}

func (f *FormRenderer) renderPicker(p *PickerView, maxRows int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Find: %s  %s\n", p.Query, f.styles.Dim.Render(fmt.Sprintf("%d/%d selected", p.Count, p.Max))))
	if len(p.Rows) == 0 {
		b.WriteString(f.styles.Dim.Render("  no technicians match"))
		b.WriteString("\n")
		return b.String()
	}

	if maxRows < 3 {
		maxRows = 3
	}
	start := 0
	if p.Cursor >= maxRows {
		start = p.Cursor - maxRows + 1
	}
	end := start + maxRows
	if end > len(p.Rows) {
		end = len(p.Rows)
	}
	for i := start; i < end; i++ {
		row := p.Rows[i]
		check := "[ ]"
		if row.Selected {
			check = "[x]"
		}
		line := check + " " + row.Label
		if i == p.Cursor {
			line = f.styles.HighlightBg.Render(line)
		}
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(p.Rows) {
		b.WriteString(f.styles.Scroll.Render(fmt.Sprintf("  ↓ %d more", len(p.Rows)-end)))
		b.WriteString("\n")
	}
	return b.String()
}
