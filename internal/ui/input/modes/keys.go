package modes

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the normal mode bindings. The footer and the help page are
// generated from it.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Bottom    key.Binding
	Open      key.Binding
	NextLink  key.Binding
	PrevLink  key.Binding
	Toggle    key.Binding
	More      key.Binding
	Less      key.Binding
	ToggleToc key.Binding
	Home      key.Binding
	Search    key.Binding
	Pager     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// Keys is the default key map
var Keys = KeyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
	Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "expand")),
	PageUp:    key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:  key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Bottom:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("gg/G", "top/bottom")),
	Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	NextLink:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus/next link")),
	PrevLink:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous link")),
	Toggle:    key.NewBinding(key.WithKeys(" ", "l"), key.WithHelp("space/l", "toggle entry")),
	More:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more results")),
	Less:      key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "fewer results")),
	ToggleToc: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle toc")),
	Home:      key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "home")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Pager:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "open in pager")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}

// ShortHelp is shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Open, k.NextLink, k.ToggleToc, k.Home, k.Help, k.Quit}
}

// FullHelp is grouped by column for the help page
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Bottom},
		{k.Open, k.NextLink, k.PrevLink, k.Toggle, k.ToggleToc, k.Home},
		{k.Search, k.More, k.Less, k.Pager, k.Help, k.Quit},
	}
}
