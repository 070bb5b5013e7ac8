package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end", "left", "right"
}

func (a NavigateAction) Type() string { return "navigate" }

// OpenAction opens whatever is under the cursor: a toc entry, a package
// card, a search result or the selected link
type OpenAction struct{}

func (a OpenAction) Type() string { return "open" }

// CycleFocusAction moves focus between the toc and the content pane
type CycleFocusAction struct{}

func (a CycleFocusAction) Type() string { return "cycle_focus" }

// NextLinkAction selects the next (or previous) link of the page
type NextLinkAction struct {
	Prev bool
}

func (a NextLinkAction) Type() string { return "next_link" }

type ToggleNodeAction struct{}

func (a ToggleNodeAction) Type() string { return "toggle_node" }

// ShowMoreAction pages the search group under the cursor
type ShowMoreAction struct {
	Less bool
}

func (a ShowMoreAction) Type() string { return "show_more" }

type ToggleTocAction struct{}

func (a ToggleTocAction) Type() string { return "toggle_toc" }

type HomeAction struct{}

func (a HomeAction) Type() string { return "home" }

// OpenPagerAction shows the current page in the full screen pager
type OpenPagerAction struct{}

func (a OpenPagerAction) Type() string { return "open_pager" }

// ChangeModeAction switches the input mode. Prefill seeds the search box.
type ChangeModeAction struct {
	Mode    Mode
	Prefill string
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
