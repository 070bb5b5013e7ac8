// Package input maps key presses to model actions through per-mode handlers.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"docetui/internal/ui/input/modes"
	"docetui/internal/ui/input/types"
)

type Handler struct {
	mode   types.Mode
	normal *modes.NormalMode
	search *modes.SearchMode
}

// New creates the handler. placeholder is shown in the empty search box.
func New(placeholder string) *Handler {
	return &Handler{
		mode:   types.ModeNormal,
		normal: modes.NewNormalMode(),
		search: modes.NewSearchMode(placeholder),
	}
}

func (h *Handler) active() types.ModeHandler {
	if h.mode == types.ModeSearch {
		return h.search
	}
	return h.normal
}

// HandleKey returns the actions for msg. Mode changes are applied here and
// never reach the model.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	actions, used := h.active().HandleKey(msg, ctx)

	if !used {
		if h.mode != types.ModeSearch {
			return nil, nil
		}
		text, cmd := h.search.Type(msg)
		return []types.Action{types.UpdateTextAction{Text: text}}, cmd
	}

	var (
		out []types.Action
		cmd tea.Cmd
	)
	for _, a := range actions {
		change, ok := a.(types.ChangeModeAction)
		if !ok {
			out = append(out, a)
			continue
		}
		cmd = h.switchMode(change, ctx)
	}
	return out, cmd
}

func (h *Handler) switchMode(change types.ChangeModeAction, ctx types.Context) tea.Cmd {
	if change.Mode == h.mode {
		return nil
	}
	h.active().Exit(ctx)
	h.mode = change.Mode
	return h.active().Enter(ctx, change.Prefill)
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.mode
}

// TextInput returns the search input while searching
func (h *Handler) TextInput() *textinput.Model {
	if h.mode == types.ModeSearch {
		return h.search.Input()
	}
	return nil
}

// Prompt returns the prompt of the search line, or "" in normal mode
func (h *Handler) Prompt() string {
	if h.mode == types.ModeSearch {
		return h.search.Prompt()
	}
	return ""
}

// Update passes non-key messages such as cursor blinks to the search input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.mode != types.ModeSearch {
		return nil
	}
	_, cmd := h.search.Type(msg)
	return cmd
}
