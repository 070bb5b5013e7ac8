package types

import tea "github.com/charmbracelet/bubbletea"

// Mode represents an input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

// Pane is the part of the screen that receives navigation keys
type Pane int

const (
	PaneContent Pane = iota
	PaneToc
)

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	CurrentIndex() int
	TotalItems() int
	FocusedPane() Pane
	TocVisible() bool
	// CurrentNodeExpandable reports whether the toc row under the cursor has
	// a submenu
	CurrentNodeExpandable() bool
	// CurrentResultGroup is the package of the search group under the
	// cursor, or ""
	CurrentResultGroup() string
	ShowingPage() bool
	LinkCount() int
	SearchTerm() string
}

// ModeHandler handles the keys of one mode
type ModeHandler interface {
	// HandleKey returns the resulting actions and whether the key was used
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)
	// Enter is called on switching to the mode; data comes from the
	// ChangeModeAction
	Enter(ctx Context, data string) tea.Cmd
	Exit(ctx Context)
}
