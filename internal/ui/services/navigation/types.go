package navigation

// State is the cursor and scroll window of one list. MaxIndex is -1 while
// the list is empty.
type State struct {
	Cursor         int
	ViewportOffset int
	ViewportHeight int
	MaxIndex       int
}

// Direction names a cursor move. The values match the input
// NavigateAction directions.
type Direction string

const (
	DirectionUp       Direction = "up"
	DirectionDown     Direction = "down"
	DirectionLeft     Direction = "left"  // toc: collapse or go to parent
	DirectionRight    Direction = "right" // toc: expand or step in
	DirectionPageUp   Direction = "pageup"
	DirectionPageDown Direction = "pagedown"
	DirectionHome     Direction = "home"
	DirectionEnd      Direction = "end"
)

// CursorMovedEvent is published on the UI bus when List's cursor moves. The
// model turns it into the hover hint.
type CursorMovedEvent struct {
	List     string
	OldIndex int
	NewIndex int
}

// ViewportChangedEvent is published when List scrolls
type ViewportChangedEvent struct {
	List   string
	Offset int
	Height int
}
