package handlers

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"docetui/internal/config"
	"docetui/internal/errmsg"
	"docetui/internal/eventbus"
	"docetui/internal/navigation"
	"docetui/internal/ui/state"
)

// EventHandler handles domain events and updates state
type EventHandler struct {
	state *state.AppState
	loc   config.Localization
}

// NewEventHandler creates a new event handler
func NewEventHandler(appState *state.AppState, loc config.Localization) *EventHandler {
	return &EventHandler{
		state: appState,
		loc:   loc,
	}
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.PackageListLoadedEvent:
		if e.ShowCards {
			h.state.SetStatus(fmt.Sprintf("%d packages available", len(e.Packages)))
		}

	case eventbus.NavigatedHomeEvent:
		h.state.SearchTerm = ""

	case eventbus.PageOpenedEvent:
		h.state.ClearStatus()

	case eventbus.TocLoadedEvent:
		log.Printf("toc of %s loaded, %d entries", e.PackageID, e.Nodes)

	case eventbus.SearchCompletedEvent:
		res := navigation.SearchResults{Term: e.Term, TotalCount: e.TotalCount, PackageCount: e.PackageCount}
		h.state.SetStatus(res.Message(h.loc))

	case eventbus.SearchPagedEvent:
		h.state.SetStatus(fmt.Sprintf("Showing %d of %d results in %s", e.Visible, e.Total, e.PackageID))

	case eventbus.SearchErrorEvent:
		h.state.SetError(fmt.Sprintf("Search failed in %s: %s", packageName(e.Result.PackageName, e.Result.PackageID), e.Result.ErrorMessage))

	case eventbus.PackageListErrorEvent:
		h.state.SetError(fmt.Sprintf("Package %s is unavailable: %s", packageName(e.Package.Title, e.Package.ID), e.Package.ErrorMessage))

	case eventbus.ResponseErrorEvent:
		// the failed command reports it with its own context
		log.Printf("Response error: %v", e.Err)

	case eventbus.ErrorEvent:
		if e.Err != nil {
			h.state.SetError(errmsg.Format(errmsg.Op(e.Message), e.Err))
		} else {
			h.state.SetError(fmt.Sprintf("Error: %s", e.Message))
		}

	case eventbus.ConfigLoadedEvent:
		log.Printf("Config loaded from %s, server %s", e.Path, e.ServerURL)

	case eventbus.ConfigSavedEvent:
		h.state.SetStatus("Configuration saved to " + e.Path)
	}

	return nil
}

func packageName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
