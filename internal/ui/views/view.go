package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"docetui/internal/domain"
	"docetui/internal/toc"
	"docetui/internal/ui/input/modes"
)

// Lines used by everything but the body: title, breadcrumbs, input,
// status and footer, plus the vertical padding of the main container.
const chromeHeight = 7

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Title       string
	Breadcrumbs []domain.Crumb

	TocVisible bool
	TocFocused bool
	TocWidth   int
	Tree       *toc.Tree
	Toc        *toc.State
	TocCursor  int
	TocOffset  int

	// Body is the content pane, already cut to size
	Body string

	InputActive bool
	InputPrompt string
	TextInput   string
	SearchTerm  string

	StatusMessage string
	StatusIsError bool
	Hover         string
	Loading       bool
	SpinnerFrame  int
	HelpModel     help.Model
}

// BodyHeight is the number of rows left for the toc and content panes
func BodyHeight(height int) int {
	return max(height-chromeHeight, 1)
}

// ContentWidth is the width of the content pane
func ContentWidth(width, tocWidth int, tocVisible bool) int {
	w := width - 4 // main container padding
	if tocVisible {
		w -= tocWidth + 2 // border and gap
	}
	return max(w, 20)
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles exposes the renderer styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.titleLine(state))
	content.WriteString("\n")
	content.WriteString(r.breadcrumbLine(state))
	content.WriteString("\n")

	bodyHeight := BodyHeight(state.Height)
	contentWidth := ContentWidth(state.Width, state.TocWidth, state.TocVisible)
	body := lipgloss.NewStyle().
		Width(contentWidth).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(state.Body)
	if state.TocVisible {
		pane := r.styles.TocPane.
			Width(state.TocWidth).
			Height(bodyHeight).
			MaxHeight(bodyHeight).
			Render(r.renderToc(state, bodyHeight))
		body = lipgloss.JoinHorizontal(lipgloss.Top, pane, " ", body)
	}
	content.WriteString(body)
	content.WriteString("\n")

	content.WriteString(r.inputLine(state))
	content.WriteString("\n")
	content.WriteString(r.statusLine(state))
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render(state.HelpModel.View(modes.Keys)))

	mainStyle := r.styles.Main.MaxHeight(state.Height)
	return mainStyle.Render(content.String())
}

// titleLine shows the title with the loading indicator right-aligned
func (r *Renderer) titleLine(state ViewState) string {
	logo := r.styles.Title.Render(state.Title)
	if !state.Loading {
		return logo
	}

	frame := spinner[state.SpinnerFrame%len(spinner)]
	rightContent := r.styles.Dim.Render(fmt.Sprintf("%s Loading", frame))

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	paddingWidth := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + rightContent
	}
	return logo + "  " + rightContent
}

func (r *Renderer) breadcrumbLine(state ViewState) string {
	parts := make([]string, 0, len(state.Breadcrumbs))
	for i, c := range state.Breadcrumbs {
		switch {
		case i == len(state.Breadcrumbs)-1 && !c.Home:
			parts = append(parts, r.styles.CrumbCurrent.Render(c.Label))
		default:
			parts = append(parts, r.styles.Crumb.Render(c.Label))
		}
	}
	line := strings.Join(parts, r.styles.Dim.Render(" › "))
	return ansi.Truncate(line, max(state.Width-4, 10), "…")
}

func (r *Renderer) inputLine(state ViewState) string {
	switch {
	case state.InputActive:
		return r.styles.Prompt.Render(state.InputPrompt) + state.TextInput
	case state.SearchTerm != "":
		return r.styles.Dim.Render("Search: " + state.SearchTerm)
	default:
		return r.styles.Dim.Render("Press / to search")
	}
}

func (r *Renderer) statusLine(state ViewState) string {
	width := max(state.Width-4, 10)
	switch {
	case state.StatusIsError && state.StatusMessage != "":
		return r.styles.StatusError.Render(ansi.Truncate(state.StatusMessage, width, "…"))
	case state.StatusMessage != "":
		return r.styles.Status.Render(ansi.Truncate(state.StatusMessage, width, "…"))
	case state.Hover != "":
		return r.styles.Dim.Render(ansi.Truncate(state.Hover, width, "…"))
	}
	return ""
}
