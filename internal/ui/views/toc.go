package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"docetui/internal/toc"
)

// TocRows returns the entries shown in the toc pane, in order
func TocRows(tree *toc.Tree, st *toc.State) []*toc.Node {
	if tree == nil || st == nil {
		return nil
	}
	return st.Visible(tree)
}

// renderToc draws the visible rows starting at the scroll offset
func (r *Renderer) renderToc(state ViewState, height int) string {
	rows := TocRows(state.Tree, state.Toc)
	if len(rows) == 0 {
		return r.styles.Dim.Render("No contents")
	}

	width := state.TocWidth
	lines := make([]string, 0, height)
	for i := state.TocOffset; i < len(rows) && len(lines) < height; i++ {
		n := rows[i]

		arrow := "  "
		if n.HasChildren() {
			arrow = "▸ "
			if state.Toc.IsExpanded(n.ID) {
				arrow = "▾ "
			}
		}
		line := ansi.Truncate(strings.Repeat("  ", n.Depth)+arrow+n.Label, width, "…")

		switch {
		case state.TocFocused && i == state.TocCursor:
			if w := lipgloss.Width(line); w < width {
				line += strings.Repeat(" ", width-w)
			}
			line = r.styles.SelectionBg.Render(line)
		case n.ID == state.Toc.Selected():
			line = r.styles.TocCurrent.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
