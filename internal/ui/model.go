package ui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"docetui/internal/config"
	"docetui/internal/content"
	"docetui/internal/errmsg"
	"docetui/internal/navigation"
	"docetui/internal/toc"
	"docetui/internal/ui/commands"
	"docetui/internal/ui/handlers"
	"docetui/internal/ui/input"
	inputtypes "docetui/internal/ui/input/types"
	"docetui/internal/ui/services/events"
	navservice "docetui/internal/ui/services/navigation"
	"docetui/internal/ui/state"
	"docetui/internal/ui/views"
)

// Cursor list names
const (
	listToc     = "toc"
	listContent = "content"
)

// pagerWidth is the width pages are laid out for in the pager
const pagerWidth = 100

// Model represents the UI state
type Model struct {
	config *config.Config
	nav    commands.Navigator
	state  *state.AppState

	width    int
	height   int
	help     help.Model
	viewport viewport.Model
	listing  views.Listing // cards or search results in the content pane
	ticking  bool

	startPackage string
	startPage    string

	// Cursors
	uiBus      *events.Bus
	tocNav     *navservice.Service
	contentNav *navservice.Service

	// Handlers
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	eventHandler *handlers.EventHandler
	cmdExecutor  *commands.Executor
	inputHandler *input.Handler
	helpOps      *HelpOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model. Requests to the content server run
// with ctx.
func NewModel(ctx context.Context, cfg *config.Config, nav commands.Navigator) *Model {
	appState := state.NewAppState()

	m := &Model{
		config:       cfg,
		nav:          nav,
		state:        appState,
		help:         help.New(),
		viewport:     viewport.New(80, 20),
		uiBus:        events.NewBus(),
		renderer:     views.NewRenderer(),
		helpRenderer: NewHelpRenderer(),
		eventHandler: handlers.NewEventHandler(appState, cfg.Localization),
		cmdExecutor:  commands.NewExecutor(ctx, appState, nav),
		inputHandler: input.New(cfg.Localization.SearchInputPlaceholder),
	}

	m.tocNav = navservice.NewService(listToc, m.uiBus)
	m.tocNav.SetQueryFunction(func() int { return len(m.tocRows()) })
	m.contentNav = navservice.NewService(listContent, m.uiBus)
	m.contentNav.SetQueryFunction(func() int { return len(m.listing.Items) })

	m.uiBus.Subscribe(events.TypeOf(navservice.CursorMovedEvent{}), m.onCursorMoved)

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// SetStartPage makes Init open a page instead of the package list
func (m *Model) SetStartPage(packageID, pageID string) {
	m.startPackage = packageID
	m.startPage = pageID
}

// Init loads the package list, or the start page
func (m *Model) Init() tea.Cmd {
	if m.startPackage != "" && m.startPage != "" {
		return m.withSpinner(m.cmdExecutor.ExecuteJump(m.startPackage, m.startPage, !m.config.UI.StartWithToc))
	}
	return m.withSpinner(m.cmdExecutor.ExecuteLoadPackages(true))
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tea.KeyMsg:
		ctx := m.inputContext()
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action, ctx); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		return m.handleNonKeyboardMsg(msg)
	}
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		cmd := m.eventHandler.HandleEvent(msg.Event)
		m.sync()
		return m, cmd

	case commands.ResultMsg:
		m.state.EndRequest()
		if msg.Err != nil && !msg.Stale() {
			log.Printf("%s failed: %v", msg.Op, msg.Err)
			m.state.SetError(errmsg.FormatWith(msg.Op, msg.Subject, msg.Err))
		}
		m.sync()
		return m, nil

	case tickMsg:
		if m.state.Loading == 0 || m.state.InPagerMode {
			m.ticking = false
			return m, nil
		}
		m.state.SpinnerFrame++
		return m, tick()

	case pagerMsg:
		if msg.err != nil {
			log.Printf("Pager for %s failed: %v", msg.what, msg.err)
			m.state.SetError(errmsg.Format(errmsg.OpPager, msg.err))
		}
		return m, nil

	case pauseRenderingMsg:
		m.state.InPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.state.InPagerMode = false
		return m, nil

	default:
		// cursor blink and friends
		return m, m.inputHandler.Update(msg)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.state.InPagerMode {
		return ""
	}

	snap := m.state.Nav
	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Title:         m.config.Localization.PageTitle,
		Breadcrumbs:   snap.Breadcrumbs,
		TocVisible:    m.tocVisible(),
		TocFocused:    m.focusedPane() == inputtypes.PaneToc,
		TocWidth:      m.config.UI.TocWidth,
		Tree:          snap.Tree,
		Toc:           snap.Toc,
		TocCursor:     m.tocNav.GetCursor(),
		TocOffset:     m.tocNav.GetViewportOffset(),
		Body:          m.viewport.View(),
		SearchTerm:    m.state.SearchTerm,
		StatusMessage: m.state.StatusMessage,
		StatusIsError: m.state.StatusIsError,
		Hover:         m.state.Hover,
		Loading:       m.state.Loading > 0,
		SpinnerFrame:  m.state.SpinnerFrame,
		HelpModel:     m.help,
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		vs.InputActive = true
		vs.InputPrompt = m.inputHandler.Prompt()
		vs.TextInput = ti.View()
	}
	return m.renderer.Render(vs)
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action, ctx *input.ModelContext) tea.Cmd {
	log.Printf("processAction: %T", action)
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(navservice.Direction(a.Direction), ctx)

	case inputtypes.OpenAction:
		return m.open(ctx)

	case inputtypes.CycleFocusAction:
		if m.focusedPane() == inputtypes.PaneToc {
			m.state.Focus = inputtypes.PaneContent
		} else if m.tocVisible() {
			m.state.Focus = inputtypes.PaneToc
		}

	case inputtypes.NextLinkAction:
		m.cycleLink(a.Prev)

	case inputtypes.ToggleNodeAction:
		if n := ctx.CurrentNode(); n != nil {
			m.cmdExecutor.ExecuteToggleNode(n.ID)
			m.sync()
		}

	case inputtypes.ShowMoreAction:
		if pkg := ctx.CurrentResultGroup(); pkg != "" {
			m.cmdExecutor.ExecutePageResults(pkg, a.Less)
			m.sync()
		}

	case inputtypes.ToggleTocAction:
		m.cmdExecutor.ExecuteToggleToc()
		m.sync()
		if m.tocVisible() {
			m.state.Focus = inputtypes.PaneToc
		}

	case inputtypes.HomeAction:
		return m.withSpinner(m.cmdExecutor.ExecuteHome())

	case inputtypes.SubmitTextAction:
		if a.Mode != inputtypes.ModeSearch {
			return nil
		}
		term := strings.TrimSpace(a.Text)
		if term == "" {
			return nil
		}
		return m.withSpinner(m.cmdExecutor.ExecuteSearch(term))

	case inputtypes.OpenPagerAction:
		if page := m.state.Nav.Content.Page; page != nil {
			doc, err := content.Render(page.HTML, content.Options{
				Width:  pagerWidth,
				Styles: content.DefaultStyles(),
				PageID: m.pageBadge(),
			})
			if err != nil {
				m.state.SetError(errmsg.Format(errmsg.OpPager, err))
				return nil
			}
			return m.fetchPager("page", doc.String())
		}

	case inputtypes.ToggleHelpAction:
		return m.fetchPager("help", m.helpRenderer.RenderHelpContent())

	case inputtypes.QuitAction:
		return tea.Quit
	}

	return nil
}

func (m *Model) navigate(dir navservice.Direction, ctx *input.ModelContext) {
	if m.focusedPane() == inputtypes.PaneToc {
		m.navigateToc(dir, ctx)
		return
	}

	if m.state.ShowingPage() {
		step := 1
		switch dir {
		case navservice.DirectionUp:
			m.viewport.SetYOffset(m.viewport.YOffset - step)
		case navservice.DirectionDown:
			m.viewport.SetYOffset(m.viewport.YOffset + step)
		case navservice.DirectionPageUp:
			m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
		case navservice.DirectionPageDown:
			m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
		case navservice.DirectionHome:
			m.viewport.GotoTop()
		case navservice.DirectionEnd:
			m.viewport.GotoBottom()
		}
		return
	}

	m.contentNav.Navigate(dir)
	m.refreshContent()
}

// navigateToc moves over the toc rows; left and right close and open
// submenus
func (m *Model) navigateToc(dir navservice.Direction, ctx *input.ModelContext) {
	n := ctx.CurrentNode()
	switch dir {
	case navservice.DirectionLeft:
		if n == nil {
			return
		}
		if n.HasChildren() && m.state.Nav.Toc.IsExpanded(n.ID) {
			m.cmdExecutor.ExecuteToggleNode(n.ID)
			m.sync()
			return
		}
		if n.Parent != nil {
			m.tocNav.MoveToIndex(indexOf(m.tocRows(), n.Parent.ID))
		}
	case navservice.DirectionRight:
		if n == nil || !n.HasChildren() {
			return
		}
		if !m.state.Nav.Toc.IsExpanded(n.ID) {
			m.cmdExecutor.ExecuteToggleNode(n.ID)
			m.sync()
			return
		}
		m.tocNav.Navigate(navservice.DirectionDown)
	default:
		m.tocNav.Navigate(dir)
	}
}

// open acts on the entry under the cursor
func (m *Model) open(ctx *input.ModelContext) tea.Cmd {
	if ctx.FocusedPane() == inputtypes.PaneToc {
		if n := ctx.CurrentNode(); n != nil {
			return m.withSpinner(m.cmdExecutor.ExecuteOpenPage(n.Ref()))
		}
		return nil
	}

	if m.state.ShowingPage() {
		link, ok := m.state.SelectedLink()
		if !ok {
			return nil
		}
		ref := link.Ref
		if ref.PackageID == "" && !link.Internal() {
			ref.PackageID = m.state.Nav.CurrentPackageID
		}
		if ref.Title == "" {
			ref.Title = link.Text
		}
		return m.withSpinner(m.cmdExecutor.ExecuteOpenPage(ref))
	}

	it, ok := ctx.CurrentItem()
	if !ok {
		return nil
	}
	switch it.Kind {
	case views.ItemShowMore, views.ItemShowLess:
		m.cmdExecutor.ExecutePageResults(it.PackageID, it.Kind == views.ItemShowLess)
		m.sync()
		return nil
	default:
		return m.withSpinner(m.cmdExecutor.ExecuteOpenPage(it.Ref))
	}
}

// cycleLink walks the links of the page. Past the last link focus moves to
// the toc when it is shown.
func (m *Model) cycleLink(prev bool) {
	doc := m.state.Document
	if doc == nil || len(doc.Links) == 0 {
		return
	}
	n := len(doc.Links)
	idx := m.state.LinkIndex

	switch {
	case !prev && idx == n-1 && m.tocVisible():
		idx = -1
		m.state.Focus = inputtypes.PaneToc
	case !prev:
		idx = (idx + 1) % n
	case prev && idx <= 0 && m.tocVisible():
		idx = -1
		m.state.Focus = inputtypes.PaneToc
	case prev && idx <= 0:
		idx = n - 1
	default:
		idx--
	}

	m.state.LinkIndex = idx
	m.renderDocument()
	if link, ok := m.state.SelectedLink(); ok {
		m.state.Hover = link.Ref.Link
		m.scrollToLine(link.Line)
	} else {
		m.state.Hover = ""
	}
}

// sync copies the controller state and refreshes whatever it changed
func (m *Model) sync() {
	prev := m.state.Nav
	snap := m.nav.Snapshot()
	m.state.Nav = snap

	if !m.tocVisible() {
		m.state.Focus = inputtypes.PaneContent
	}

	if selected := selectedNode(snap.Toc); selected != "" && selected != selectedNode(prev.Toc) {
		m.tocNav.MoveToIndex(indexOf(m.tocRows(), selected))
	} else {
		m.tocNav.Clamp()
	}

	if contentChanged(prev, snap) {
		m.contentNav.Reset()
		m.state.Hover = ""
	}

	if snap.Content.Kind == navigation.ViewPage && snap.Content.Page != nil {
		page := snap.Content.Page
		switch {
		case page.Ref.Link != m.state.PageKey || page.HTML != m.state.PageHTML:
			m.state.PageKey = page.Ref.Link
			m.state.PageHTML = page.HTML
			m.state.LinkIndex = -1
			m.state.Document = nil
			m.renderDocument()
			m.viewport.GotoTop()
			m.state.Fragment = page.Fragment
			m.scrollToAnchor(page.Fragment)
		case page.Fragment != m.state.Fragment:
			m.state.Fragment = page.Fragment
			m.scrollToAnchor(page.Fragment)
		}
	} else {
		m.state.ResetPage()
	}

	m.refreshContent()
}

func contentChanged(prev, snap navigation.Snapshot) bool {
	if prev.Content.Kind != snap.Content.Kind {
		return true
	}
	switch snap.Content.Kind {
	case navigation.ViewSearch:
		return prev.Content.Search == nil || snap.Content.Search == nil ||
			prev.Content.Search.Term != snap.Content.Search.Term
	case navigation.ViewHome:
		return len(prev.Content.Packages) != len(snap.Content.Packages)
	}
	return false
}

// layout resizes the panes after a size or toc change
func (m *Model) layout() {
	bodyHeight := views.BodyHeight(m.height)
	m.tocNav.SetViewportHeight(bodyHeight)
	m.viewport.Height = bodyHeight
	m.viewport.Width = views.ContentWidth(m.width, m.config.UI.TocWidth, m.tocVisible())
	m.refreshContent()
}

// refreshContent rebuilds the content pane for the current view
func (m *Model) refreshContent() {
	width := views.ContentWidth(m.width, m.config.UI.TocWidth, m.tocVisible())
	if m.width > 0 && width != m.viewport.Width {
		m.viewport.Width = width
	}

	snap := m.state.Nav
	m.listing = views.Listing{}
	switch snap.Content.Kind {
	case navigation.ViewPage:
		if m.state.Document == nil || m.state.PageWidth != m.viewport.Width {
			m.renderDocument()
		}
		if m.state.Document != nil {
			m.viewport.SetContent(m.state.Document.String())
		}
		return

	case navigation.ViewHome:
		m.listing = m.renderer.RenderCards(snap.Content.Packages, m.config.Localization, m.contentNav.GetCursor(), m.viewport.Width)

	case navigation.ViewSearch:
		if snap.Content.Search != nil {
			m.listing = m.renderer.RenderResults(snap.Content.Search, m.config.Localization, m.contentNav.GetCursor(), m.viewport.Width)
		}

	default:
		text := "Nothing to show. Press H for the package list."
		if m.state.Loading > 0 {
			text = "Loading..."
		}
		m.viewport.SetContent(m.renderer.Styles().Dim.Render(text))
		return
	}

	m.viewport.SetContent(strings.Join(m.listing.Lines, "\n"))
	m.contentNav.Clamp()
	cursor := m.contentNav.GetCursor()
	if cursor == 0 {
		m.viewport.GotoTop()
	}
	if cursor < len(m.listing.Items) {
		m.scrollToLine(m.listing.Items[cursor].Line)
	}
}

// renderDocument lays out the current page for the content pane
func (m *Model) renderDocument() {
	page := m.state.Nav.Content.Page
	if page == nil {
		return
	}
	doc, err := content.Render(page.HTML, content.Options{
		Width:    m.viewport.Width,
		Styles:   content.DefaultStyles(),
		PageID:   m.pageBadge(),
		Selected: m.state.LinkIndex + 1,
	})
	if err != nil {
		m.state.SetError(errmsg.FormatWith(errmsg.OpOpenPage, page.Ref.ID, err))
		return
	}
	m.state.Document = doc
	m.state.PageWidth = m.viewport.Width
	m.viewport.SetContent(doc.String())
}

func (m *Model) pageBadge() string {
	if !m.config.Profile.ShowPageID {
		return ""
	}
	return m.state.Nav.CurrentPageID
}

func (m *Model) scrollToAnchor(fragment string) {
	if m.state.Document == nil || fragment == "" {
		return
	}
	if line, ok := m.state.Document.Anchors[fragment]; ok {
		m.viewport.SetYOffset(line)
	}
}

// scrollToLine scrolls the least needed to show line
func (m *Model) scrollToLine(line int) {
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m *Model) onCursorMoved(e interface{}) {
	ev, ok := e.(navservice.CursorMovedEvent)
	if !ok {
		return
	}
	switch ev.List {
	case listContent:
		if ev.NewIndex < len(m.listing.Items) {
			m.state.Hover = m.listing.Items[ev.NewIndex].Hint
		}
	case listToc:
		if rows := m.tocRows(); ev.NewIndex < len(rows) {
			m.state.Hover = rows[ev.NewIndex].Link
		}
	}
}

// fetchPager returns a command that shows text in the ov pager
func (m *Model) fetchPager(what, text string) tea.Cmd {
	return func() tea.Msg {
		if m.program == nil {
			return pagerMsg{what: what, err: errors.New("program not set")}
		}
		m.program.Send(pauseRenderingMsg{})

		err := m.helpOps.ShowInPager(text)

		m.program.Send(resumeRenderingMsg{})
		return pagerMsg{what: what, err: err}
	}
}

// withSpinner starts the loading spinner along with a request
func (m *Model) withSpinner(cmd tea.Cmd) tea.Cmd {
	if cmd == nil || m.ticking {
		return cmd
	}
	m.ticking = true
	return tea.Batch(cmd, tick())
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) inputContext() *input.ModelContext {
	return &input.ModelContext{
		State:         m.state,
		TocRows:       m.tocRows(),
		TocCursor:     m.tocNav.GetCursor(),
		Items:         m.listing.Items,
		ContentCursor: m.contentNav.GetCursor(),
	}
}

func (m *Model) tocRows() []*toc.Node {
	if !m.tocVisible() {
		return nil
	}
	return views.TocRows(m.state.Nav.Tree, m.state.Nav.Toc)
}

func (m *Model) tocVisible() bool {
	return m.state.Nav.TocVisible && m.state.Nav.Tree != nil
}

func (m *Model) focusedPane() inputtypes.Pane {
	if m.state.Focus == inputtypes.PaneToc && m.tocVisible() {
		return inputtypes.PaneToc
	}
	return inputtypes.PaneContent
}

func selectedNode(st *toc.State) string {
	if st == nil {
		return ""
	}
	return st.Selected()
}

func indexOf(rows []*toc.Node, id string) int {
	for i, n := range rows {
		if n.ID == id {
			return i
		}
	}
	return 0
}
