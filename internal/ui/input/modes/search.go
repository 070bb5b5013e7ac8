package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"docetui/internal/ui/input/types"
)

// SearchMode reads a search term, or a pkg:page jump. Keys it does not
// handle are typed into the input.
type SearchMode struct {
	input       textinput.Model
	placeholder string
}

func NewSearchMode(placeholder string) *SearchMode {
	ti := textinput.New()
	ti.Prompt = "" // drawn by the view
	return &SearchMode{input: ti, placeholder: placeholder}
}

// Prompt is shown in front of the input line
func (m *SearchMode) Prompt() string {
	return "Search: "
}

// Input exposes the text input for rendering
func (m *SearchMode) Input() *textinput.Model {
	return &m.input
}

// Enter starts editing with prefill as the initial text
func (m *SearchMode) Enter(_ types.Context, prefill string) tea.Cmd {
	m.input.Reset()
	m.input.Placeholder = m.placeholder
	if prefill != "" {
		m.input.SetValue(prefill)
		m.input.CursorEnd()
	}
	m.input.Focus()
	return textinput.Blink
}

func (m *SearchMode) Exit(types.Context) {
	m.input.Blur()
	m.input.Reset()
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, _ types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc":
		return []types.Action{types.CancelTextAction{}, types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case "enter":
		return []types.Action{
			types.SubmitTextAction{Text: m.input.Value(), Mode: types.ModeSearch},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}
	return nil, false
}

// Type feeds msg to the input and reports the new text
func (m *SearchMode) Type(msg tea.Msg) (string, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m.input.Value(), cmd
}
