package input

import (
	"docetui/internal/toc"
	"docetui/internal/ui/input/types"
	"docetui/internal/ui/state"
	"docetui/internal/ui/views"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State         *state.AppState
	TocRows       []*toc.Node
	TocCursor     int
	Items         []views.Item
	ContentCursor int
}

// CurrentIndex returns the cursor of the focused pane
func (c *ModelContext) CurrentIndex() int {
	if c.FocusedPane() == types.PaneToc {
		return c.TocCursor
	}
	return c.ContentCursor
}

// TotalItems returns the number of rows the cursor can stop on
func (c *ModelContext) TotalItems() int {
	if c.FocusedPane() == types.PaneToc {
		return len(c.TocRows)
	}
	return len(c.Items)
}

// FocusedPane returns the pane receiving navigation keys
func (c *ModelContext) FocusedPane() types.Pane {
	if c.State.Focus == types.PaneToc && c.TocVisible() {
		return types.PaneToc
	}
	return types.PaneContent
}

// TocVisible reports whether the toc pane is shown
func (c *ModelContext) TocVisible() bool {
	return c.State.Nav.TocVisible && c.State.Nav.Tree != nil
}

// CurrentNode returns the toc row under the cursor
func (c *ModelContext) CurrentNode() *toc.Node {
	if c.TocCursor < 0 || c.TocCursor >= len(c.TocRows) {
		return nil
	}
	return c.TocRows[c.TocCursor]
}

// CurrentNodeExpandable reports whether the toc row under the cursor has
// children
func (c *ModelContext) CurrentNodeExpandable() bool {
	n := c.CurrentNode()
	return n != nil && n.HasChildren()
}

// CurrentItem returns the content entry under the cursor
func (c *ModelContext) CurrentItem() (views.Item, bool) {
	if c.ContentCursor < 0 || c.ContentCursor >= len(c.Items) {
		return views.Item{}, false
	}
	return c.Items[c.ContentCursor], true
}

// CurrentResultGroup returns the package of the search group under the
// cursor
func (c *ModelContext) CurrentResultGroup() string {
	if c.FocusedPane() != types.PaneContent {
		return ""
	}
	it, ok := c.CurrentItem()
	if !ok || it.Kind == views.ItemCard {
		return ""
	}
	return it.PackageID
}

// ShowingPage reports whether the content pane shows a page
func (c *ModelContext) ShowingPage() bool {
	return c.State.ShowingPage()
}

// LinkCount returns the number of links of the shown page
func (c *ModelContext) LinkCount() int {
	if !c.ShowingPage() {
		return 0
	}
	return len(c.State.Document.Links)
}

// SearchTerm returns the last submitted search
func (c *ModelContext) SearchTerm() string {
	return c.State.SearchTerm
}
