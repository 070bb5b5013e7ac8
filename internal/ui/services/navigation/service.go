package navigation

import (
	"docetui/internal/ui/services/events"
)

// Service moves a cursor over a list whose length changes over time, such
// as the visible toc rows or the entries of the content pane
type Service struct {
	name    string
	state   *State
	bus     events.EventBus
	queryFn func() int // returns the number of items
}

// NewService creates a cursor for the named list
func NewService(name string, bus events.EventBus) *Service {
	if bus == nil {
		bus = &events.NullBus{}
	}
	return &Service{
		name: name,
		state: &State{
			ViewportHeight: 20,
			MaxIndex:       -1,
		},
		bus: bus,
	}
}

// SetQueryFunction sets the function returning the item count
func (s *Service) SetQueryFunction(fn func() int) {
	s.queryFn = fn
}

// Name returns the list name carried by events
func (s *Service) Name() string {
	return s.name
}

// GetCursor returns current cursor position
func (s *Service) GetCursor() int {
	return s.state.Cursor
}

// GetViewportOffset returns current viewport offset
func (s *Service) GetViewportOffset() int {
	return s.state.ViewportOffset
}

// GetViewportHeight returns current viewport height
func (s *Service) GetViewportHeight() int {
	return s.state.ViewportHeight
}

// SetViewportHeight sets how many rows are visible at once
func (s *Service) SetViewportHeight(height int) {
	if height < 1 {
		height = 1
	}
	s.state.ViewportHeight = height
	s.ensureVisible()
}

// Navigate handles navigation in a direction
func (s *Service) Navigate(direction Direction) {
	s.refresh()
	oldCursor := s.state.Cursor

	switch direction {
	case DirectionUp:
		if s.state.Cursor > 0 {
			s.state.Cursor--
		}
	case DirectionDown:
		if s.state.Cursor < s.state.MaxIndex {
			s.state.Cursor++
		}
	case DirectionPageUp:
		s.state.Cursor = s.clampIndex(s.state.Cursor - (s.state.ViewportHeight - 1))
		s.state.ViewportOffset = max(s.state.ViewportOffset-(s.state.ViewportHeight-1), 0)
	case DirectionPageDown:
		s.state.Cursor = s.clampIndex(s.state.Cursor + s.state.ViewportHeight - 1)
	case DirectionHome:
		s.state.Cursor = 0
		s.state.ViewportOffset = 0
	case DirectionEnd:
		s.state.Cursor = s.clampIndex(s.state.MaxIndex)
	}
	s.ensureVisible()
	s.moved(oldCursor)
}

// MoveToIndex moves cursor to specific index
func (s *Service) MoveToIndex(index int) {
	s.refresh()
	oldCursor := s.state.Cursor
	s.state.Cursor = s.clampIndex(index)
	s.ensureVisible()
	s.moved(oldCursor)
}

// Clamp keeps the cursor inside the list after it shrank
func (s *Service) Clamp() {
	s.MoveToIndex(s.state.Cursor)
}

// Reset puts the cursor back on the first item
func (s *Service) Reset() {
	oldCursor := s.state.Cursor
	s.state.Cursor = 0
	s.state.ViewportOffset = 0
	s.moved(oldCursor)
}

func (s *Service) refresh() {
	if s.queryFn != nil {
		s.state.MaxIndex = s.queryFn() - 1
	}
}

func (s *Service) moved(oldCursor int) {
	if oldCursor != s.state.Cursor {
		s.bus.Publish(CursorMovedEvent{
			List:     s.name,
			OldIndex: oldCursor,
			NewIndex: s.state.Cursor,
		})
	}
}

func (s *Service) clampIndex(index int) int {
	if index > s.state.MaxIndex {
		index = s.state.MaxIndex
	}
	if index < 0 {
		return 0
	}
	return index
}

func (s *Service) ensureVisible() {
	offset := s.state.ViewportOffset
	if s.state.Cursor < offset {
		offset = s.state.Cursor
	} else if s.state.Cursor >= offset+s.state.ViewportHeight {
		offset = s.state.Cursor - s.state.ViewportHeight + 1
	}
	if offset != s.state.ViewportOffset {
		s.state.ViewportOffset = offset
		s.bus.Publish(ViewportChangedEvent{
			List:   s.name,
			Offset: s.state.ViewportOffset,
			Height: s.state.ViewportHeight,
		})
	}
}
