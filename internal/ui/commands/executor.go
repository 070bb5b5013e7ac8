package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"docetui/internal/domain"
	"docetui/internal/ui/state"
)

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
}

// NewExecutor creates a new command executor. Requests run with ctx and
// stop when it is cancelled.
func NewExecutor(ctx context.Context, state *state.AppState, nav Navigator) *Executor {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Executor{
		ctx: &CommandContext{
			Ctx:   ctx,
			State: state,
			Nav:   nav,
		},
	}
}

// ExecuteLoadPackages creates and executes a load packages command
func (e *Executor) ExecuteLoadPackages(showCards bool) tea.Cmd {
	return NewLoadPackagesCommand(e.ctx, showCards).Execute()
}

// ExecuteHome creates and executes a home command
func (e *Executor) ExecuteHome() tea.Cmd {
	return NewHomeCommand(e.ctx).Execute()
}

// ExecuteOpenPage creates and executes an open page command
func (e *Executor) ExecuteOpenPage(ref domain.PageRef) tea.Cmd {
	return NewOpenPageCommand(e.ctx, ref).Execute()
}

// ExecuteJump creates and executes a jump command
func (e *Executor) ExecuteJump(packageID, pageID string, hideToc bool) tea.Cmd {
	return NewJumpCommand(e.ctx, packageID, pageID, hideToc).Execute()
}

// ExecuteSearch creates and executes a search command
func (e *Executor) ExecuteSearch(term string) tea.Cmd {
	return NewSearchCommand(e.ctx, term).Execute()
}

// ExecutePageResults creates and executes a page results command
func (e *Executor) ExecutePageResults(packageID string, less bool) tea.Cmd {
	return NewPageResultsCommand(e.ctx, packageID, less).Execute()
}

// ExecuteToggleNode creates and executes a toggle node command
func (e *Executor) ExecuteToggleNode(nodeID string) tea.Cmd {
	return NewToggleNodeCommand(e.ctx, nodeID).Execute()
}

// ExecuteToggleToc creates and executes a toggle toc command
func (e *Executor) ExecuteToggleToc() tea.Cmd {
	return NewToggleTocCommand(e.ctx).Execute()
}
