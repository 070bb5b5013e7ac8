package modes

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"docetui/internal/ui/input/types"
)

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Enter(types.Context, string) tea.Cmd {
	m.lastKeyWasG = false
	return nil
}

func (m *NormalMode) Exit(types.Context) {}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	// gg within half a second goes to the top
	if msg.String() == "g" {
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true
	}
	m.lastKeyWasG = false

	switch {
	case key.Matches(msg, Keys.ForceQuit):
		return []types.Action{types.QuitAction{Force: true}}, true

	case key.Matches(msg, Keys.Quit):
		return []types.Action{types.QuitAction{Force: false}}, true

	case key.Matches(msg, Keys.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case key.Matches(msg, Keys.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case key.Matches(msg, Keys.PageUp):
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case key.Matches(msg, Keys.PageDown):
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case key.Matches(msg, Keys.Bottom):
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case msg.Type == tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case key.Matches(msg, Keys.Left):
		if ctx.FocusedPane() == types.PaneToc {
			return []types.Action{types.NavigateAction{Direction: "left"}}, true
		}
		return nil, true

	case key.Matches(msg, Keys.Right):
		if ctx.FocusedPane() == types.PaneToc {
			return []types.Action{types.NavigateAction{Direction: "right"}}, true
		}
		return nil, true

	case key.Matches(msg, Keys.Open):
		if ctx.TotalItems() == 0 && !(ctx.ShowingPage() && ctx.LinkCount() > 0) {
			return nil, true
		}
		return []types.Action{types.OpenAction{}}, true

	case key.Matches(msg, Keys.NextLink):
		// on a page with links tab walks the links; otherwise it only
		// moves focus
		if ctx.FocusedPane() == types.PaneContent && ctx.ShowingPage() && ctx.LinkCount() > 0 {
			return []types.Action{types.NextLinkAction{}}, true
		}
		if ctx.TocVisible() {
			return []types.Action{types.CycleFocusAction{}}, true
		}
		return nil, true

	case key.Matches(msg, Keys.PrevLink):
		if ctx.FocusedPane() == types.PaneContent && ctx.ShowingPage() && ctx.LinkCount() > 0 {
			return []types.Action{types.NextLinkAction{Prev: true}}, true
		}
		if ctx.TocVisible() {
			return []types.Action{types.CycleFocusAction{}}, true
		}
		return nil, true

	case key.Matches(msg, Keys.Toggle):
		if ctx.FocusedPane() == types.PaneToc && ctx.CurrentNodeExpandable() {
			return []types.Action{types.ToggleNodeAction{}}, true
		}
		return nil, true

	case key.Matches(msg, Keys.More):
		if ctx.CurrentResultGroup() != "" {
			return []types.Action{types.ShowMoreAction{}}, true
		}
		return nil, true

	case key.Matches(msg, Keys.Less):
		if ctx.CurrentResultGroup() != "" {
			return []types.Action{types.ShowMoreAction{Less: true}}, true
		}
		return nil, true

	case key.Matches(msg, Keys.ToggleToc):
		return []types.Action{types.ToggleTocAction{}}, true

	case key.Matches(msg, Keys.Home):
		return []types.Action{types.HomeAction{}}, true

	case key.Matches(msg, Keys.Search):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch, Prefill: ctx.SearchTerm()}}, true

	case key.Matches(msg, Keys.Pager):
		if ctx.ShowingPage() {
			return []types.Action{types.OpenPagerAction{}}, true
		}
		return nil, true

	case key.Matches(msg, Keys.Help):
		return []types.Action{types.ToggleHelpAction{}}, true
	}

	return nil, false
}
