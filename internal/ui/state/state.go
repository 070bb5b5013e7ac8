package state

import (
	"docetui/internal/content"
	"docetui/internal/navigation"
	"docetui/internal/ui/input/types"
)

// AppState contains the UI state. The navigation state itself lives in the
// controller; Nav is the copy taken after the last change.
type AppState struct {
	Nav navigation.Snapshot

	Focus types.Pane

	// Rendered page
	Document   *content.Document
	PageKey    string // link of the rendered page
	PageHTML   string
	Fragment   string
	PageWidth  int // width the document was laid out for
	LinkIndex  int // selected link, -1 for none
	SearchTerm string

	// UI state
	StatusMessage string
	StatusIsError bool
	Hover         string // extra info about the row under the cursor
	Loading       int    // requests in flight
	SpinnerFrame  int
	InPagerMode   bool
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{LinkIndex: -1}
}

// SetStatus shows an informational message
func (s *AppState) SetStatus(msg string) {
	s.StatusMessage = msg
	s.StatusIsError = false
}

// SetError shows an error message
func (s *AppState) SetError(msg string) {
	s.StatusMessage = msg
	s.StatusIsError = true
}

// ClearStatus removes the status message
func (s *AppState) ClearStatus() {
	s.StatusMessage = ""
	s.StatusIsError = false
}

// BeginRequest marks one more request in flight
func (s *AppState) BeginRequest() {
	s.Loading++
}

// EndRequest marks a request as done
func (s *AppState) EndRequest() {
	if s.Loading > 0 {
		s.Loading--
	}
}

// SelectedLink returns the link picked with tab, if any
func (s *AppState) SelectedLink() (content.Link, bool) {
	if s.Document == nil || s.LinkIndex < 0 || s.LinkIndex >= len(s.Document.Links) {
		return content.Link{}, false
	}
	return s.Document.Links[s.LinkIndex], true
}

// ShowingPage reports whether the content pane shows a page
func (s *AppState) ShowingPage() bool {
	return s.Nav.Content.Kind == navigation.ViewPage && s.Document != nil
}

// ResetPage forgets the rendered page
func (s *AppState) ResetPage() {
	s.Document = nil
	s.PageKey = ""
	s.PageHTML = ""
	s.Fragment = ""
	s.PageWidth = 0
	s.LinkIndex = -1
}
