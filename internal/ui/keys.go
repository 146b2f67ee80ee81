package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap documents the normal-mode bindings. Dispatch itself lives in the
// input modes; these only feed the help views.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Page     key.Binding
	Ends     key.Binding
	Screens  key.Binding
	Jump     key.Binding
	Search   key.Binding
	Filter   key.Binding
	Cycle    key.Binding
	Clear    key.Binding
	Sort     key.Binding
	Reverse  key.Binding
	Refresh  key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Detail   key.Binding
	Help     key.Binding
	Quit     key.Binding
	writable bool
}

func newKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Page:    key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "page")),
		Ends:    key.NewBinding(key.WithKeys("g", "G", "home", "end"), key.WithHelp("gg/G", "top/bottom")),
		Screens: key.NewBinding(key.WithKeys("tab", "shift+tab", "[", "]"), key.WithHelp("tab/[ ]", "switch screen")),
		Jump:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump to screen")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:  key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "filter field=value")),
		Cycle:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear search & filters")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Reverse: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "reverse sort")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:    key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Detail:  key.NewBinding(key.WithKeys("v", "i"), key.WithHelp("v", "details")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forScreen returns a copy with the write bindings enabled to match the screen
func (k keyMap) forScreen(writable bool) keyMap {
	k.writable = writable
	k.New.SetEnabled(writable)
	k.Edit.SetEnabled(writable)
	k.Delete.SetEnabled(writable)
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	if k.writable {
		return []key.Binding{k.Search, k.Cycle, k.Sort, k.Refresh, k.New, k.Edit, k.Help, k.Quit}
	}
	return []key.Binding{k.Search, k.Cycle, k.Sort, k.Refresh, k.Detail, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Page, k.Ends, k.Screens, k.Jump},
		{k.Search, k.Filter, k.Cycle, k.Clear, k.Sort, k.Reverse},
		{k.Refresh, k.New, k.Edit, k.Delete, k.Detail, k.Help, k.Quit},
	}
}
