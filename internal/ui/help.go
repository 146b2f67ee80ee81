package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"liftdesk/internal/config"
	"liftdesk/internal/domain"
	"liftdesk/internal/form"
	"liftdesk/internal/ui/views"
)

// HelpRenderer handles help and detail content rendering
type HelpRenderer struct {
	title   lipgloss.Style
	section lipgloss.Style
	key     lipgloss.Style
	desc    lipgloss.Style
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		desc:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

// RenderHelp generates the full key reference for the pager
func (r *HelpRenderer) RenderHelp(keys keyMap, screens []config.Screen) string {
	var help strings.Builder

	help.WriteString(r.title.Render("LiftDesk Help"))
	help.WriteString("\n\n")

	sections := []string{"Navigation", "Search, Filter & Sort", "Records"}
	for i, group := range keys.FullHelp() {
		help.WriteString(r.section.Render(sections[i]))
		help.WriteString("\n")
		for _, b := range group {
			h := b.Help()
			help.WriteString(fmt.Sprintf("  %-12s %s\n", r.key.Render(h.Key), r.desc.Render(h.Desc)))
		}
		help.WriteString("\n")
	}

	help.WriteString(r.section.Render("Form"))
	help.WriteString("\n")
	for _, row := range [][2]string{
		{"tab/shift+tab", "next/previous field"},
		{"ctrl+s", "save"},
		{"ctrl+t", "pick technicians"},
		{"esc", "close without saving"},
	} {
		help.WriteString(fmt.Sprintf("  %-12s %s\n", r.key.Render(row[0]), r.desc.Render(row[1])))
	}
	help.WriteString("\n")

	help.WriteString(r.section.Render("Screens"))
	help.WriteString("\n")
	for i, s := range screens {
		line := fmt.Sprintf("  %d  %s", i+1, s.Title)
		if len(s.FilterFields()) > 0 {
			line += r.desc.Render("  filters: " + strings.Join(s.FilterFields(), ", "))
		}
		help.WriteString(line)
		help.WriteString("\n")
	}

	return help.String()
}

// RenderDetail lists every field of item sorted by key
func (r *HelpRenderer) RenderDetail(screen config.Screen, item domain.Item) string {
	var b strings.Builder
	b.WriteString(r.title.Render(fmt.Sprintf("%s #%s", screen.Title, item.ID(screen.IDField))))
	b.WriteString("\n\n")

	keys := item.Keys()
	width := 0
	for _, k := range keys {
		if len(form.Label(k)) > width {
			width = len(form.Label(k))
		}
	}
	for _, k := range keys {
		value := item.String(k)
		if k == screen.AmountField {
			value = views.FormatAmount(item[k], screen.Currency)
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", r.key.Render(fmt.Sprintf("%-*s", width, form.Label(k))), value))
	}
	return b.String()
}

// Pager shows long content in ov while Bubble Tea gives up the terminal
type Pager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPager creates a pager bound to program
func NewPager(program *tea.Program) *Pager {
	return &Pager{program: program}
}

// Show pages content. It blocks until the user quits ov.
func (p *Pager) Show(content string) error {
	return p.run(strings.NewReader(content))
}

func (p *Pager) run(r io.Reader) error {
	if p == nil || p.program == nil {
		return fmt.Errorf("program not set")
	}

	root, err := oviewer.NewRoot(r)
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	cfg := oviewer.NewConfig()
	cfg.IsWriteOnExit = false
	cfg.IsWriteOriginal = false
	root.SetConfig(cfg)

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	return root.Run()
}
