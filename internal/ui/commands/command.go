package commands

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"docetui/internal/domain"
	"docetui/internal/errmsg"
	"docetui/internal/navigation"
	"docetui/internal/ui/state"
)

// Navigator is the part of the navigation controller the UI drives
type Navigator interface {
	LoadPackageList(ctx context.Context, showCards bool) error
	NavigateHome(ctx context.Context) error
	OpenPage(ctx context.Context, ref domain.PageRef) error
	JumpToPage(ctx context.Context, packageID, pageID string, hideToc bool) error
	Search(ctx context.Context, term string) error
	ShowMore(packageID string) error
	ShowLess(packageID string) error
	ToggleNode(id string) bool
	ToggleToc() bool
	Snapshot() navigation.Snapshot
}

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// CommandContext provides context for command execution
type CommandContext struct {
	Ctx   context.Context
	State *state.AppState
	Nav   Navigator
}

// ResultMsg reports the end of a request to the content server
type ResultMsg struct {
	Op      errmsg.Op
	Subject string
	Err     error
}

// Stale reports whether the result was superseded by a newer request
func (m ResultMsg) Stale() bool {
	return errors.Is(m.Err, navigation.ErrStale)
}

// request runs fn off the UI goroutine and reports its result
func request(ctx *CommandContext, op errmsg.Op, subject string, fn func(context.Context) error) tea.Cmd {
	ctx.State.BeginRequest()
	return func() tea.Msg {
		return ResultMsg{Op: op, Subject: subject, Err: fn(ctx.Ctx)}
	}
}

// LoadPackagesCommand refreshes the package registry
type LoadPackagesCommand struct {
	ctx       *CommandContext
	showCards bool
}

// NewLoadPackagesCommand creates a new load packages command
func NewLoadPackagesCommand(ctx *CommandContext, showCards bool) *LoadPackagesCommand {
	return &LoadPackagesCommand{ctx: ctx, showCards: showCards}
}

// Execute performs the request
func (c *LoadPackagesCommand) Execute() tea.Cmd {
	return request(c.ctx, errmsg.OpLoadPackages, "", func(ctx context.Context) error {
		return c.ctx.Nav.LoadPackageList(ctx, c.showCards)
	})
}

// HomeCommand goes back to the package list
type HomeCommand struct {
	ctx *CommandContext
}

// NewHomeCommand creates a new home command
func NewHomeCommand(ctx *CommandContext) *HomeCommand {
	return &HomeCommand{ctx: ctx}
}

// Execute performs the request
func (c *HomeCommand) Execute() tea.Cmd {
	return request(c.ctx, errmsg.OpLoadPackages, "", c.ctx.Nav.NavigateHome)
}

// OpenPageCommand opens a page, or scrolls to an anchor of the current one
type OpenPageCommand struct {
	ctx *CommandContext
	ref domain.PageRef
}

// NewOpenPageCommand creates a new open page command
func NewOpenPageCommand(ctx *CommandContext, ref domain.PageRef) *OpenPageCommand {
	return &OpenPageCommand{ctx: ctx, ref: ref}
}

// Execute performs the request
func (c *OpenPageCommand) Execute() tea.Cmd {
	subject := c.ref.Title
	if subject == "" {
		subject = c.ref.ID
	}
	return request(c.ctx, errmsg.OpOpenPage, subject, func(ctx context.Context) error {
		return c.ctx.Nav.OpenPage(ctx, c.ref)
	})
}

// JumpCommand opens a page by package and page id
type JumpCommand struct {
	ctx       *CommandContext
	packageID string
	pageID    string
	hideToc   bool
}

// NewJumpCommand creates a new jump command
func NewJumpCommand(ctx *CommandContext, packageID, pageID string, hideToc bool) *JumpCommand {
	return &JumpCommand{ctx: ctx, packageID: packageID, pageID: pageID, hideToc: hideToc}
}

// Execute performs the request
func (c *JumpCommand) Execute() tea.Cmd {
	return request(c.ctx, errmsg.OpOpenPage, c.packageID+":"+c.pageID, func(ctx context.Context) error {
		return c.ctx.Nav.JumpToPage(ctx, c.packageID, c.pageID, c.hideToc)
	})
}

// SearchCommand runs a search, or a jump for pkg:page terms
type SearchCommand struct {
	ctx  *CommandContext
	term string
}

// NewSearchCommand creates a new search command
func NewSearchCommand(ctx *CommandContext, term string) *SearchCommand {
	return &SearchCommand{ctx: ctx, term: term}
}

// Execute performs the request
func (c *SearchCommand) Execute() tea.Cmd {
	c.ctx.State.SearchTerm = c.term
	return request(c.ctx, errmsg.OpSearch, c.term, func(ctx context.Context) error {
		return c.ctx.Nav.Search(ctx, c.term)
	})
}

// PageResultsCommand shows more or fewer results of one package. It
// only touches local state.
type PageResultsCommand struct {
	ctx       *CommandContext
	packageID string
	less      bool
}

// NewPageResultsCommand creates a new page results command
func NewPageResultsCommand(ctx *CommandContext, packageID string, less bool) *PageResultsCommand {
	return &PageResultsCommand{ctx: ctx, packageID: packageID, less: less}
}

// Execute pages the group
func (c *PageResultsCommand) Execute() tea.Cmd {
	var err error
	if c.less {
		err = c.ctx.Nav.ShowLess(c.packageID)
	} else {
		err = c.ctx.Nav.ShowMore(c.packageID)
	}
	if err != nil {
		c.ctx.State.SetError(errmsg.FormatWith(errmsg.OpShowResults, c.packageID, err))
	}
	return nil
}

// ToggleNodeCommand opens or closes a toc submenu
type ToggleNodeCommand struct {
	ctx    *CommandContext
	nodeID string
}

// NewToggleNodeCommand creates a new toggle node command
func NewToggleNodeCommand(ctx *CommandContext, nodeID string) *ToggleNodeCommand {
	return &ToggleNodeCommand{ctx: ctx, nodeID: nodeID}
}

// Execute toggles the node
func (c *ToggleNodeCommand) Execute() tea.Cmd {
	c.ctx.Nav.ToggleNode(c.nodeID)
	return nil
}

// ToggleTocCommand shows or hides the toc pane
type ToggleTocCommand struct {
	ctx *CommandContext
}

// NewToggleTocCommand creates a new toggle toc command
func NewToggleTocCommand(ctx *CommandContext) *ToggleTocCommand {
	return &ToggleTocCommand{ctx: ctx}
}

// Execute toggles the pane
func (c *ToggleTocCommand) Execute() tea.Cmd {
	if !c.ctx.Nav.ToggleToc() && c.ctx.Nav.Snapshot().Tree == nil {
		c.ctx.State.SetStatus("No table of contents loaded")
	}
	return nil
}
