package toc

import "sort"

// State is the visible state of a tree: which submenus are open and which
// entry is selected. At most one entry is selected.
type State struct {
	expanded map[string]bool
	selected string
}

// NewState returns a fully collapsed state with nothing selected
func NewState() *State {
	return &State{expanded: make(map[string]bool)}
}

// Clone returns an independent copy
func (s *State) Clone() *State {
	c := &State{expanded: make(map[string]bool, len(s.expanded)), selected: s.selected}
	for id, v := range s.expanded {
		if v {
			c.expanded[id] = true
		}
	}
	return c
}

// Selected returns the id of the selected node, or ""
func (s *State) Selected() string {
	return s.selected
}

// IsExpanded reports whether the submenu of id is open
func (s *State) IsExpanded(id string) bool {
	return s.expanded[id]
}

// ExpandedIDs returns the open submenus, sorted
func (s *State) ExpandedIDs() []string {
	ids := make([]string, 0, len(s.expanded))
	for id := range s.expanded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close collapses every submenu and clears the selection
func (s *State) Close() {
	s.expanded = make(map[string]bool)
	s.selected = ""
}

// Expand opens the submenu of id
func (s *State) Expand(id string) {
	if id != "" {
		s.expanded[id] = true
	}
}

// Collapse closes the submenu of id
func (s *State) Collapse(id string) {
	delete(s.expanded, id)
}

// Toggle flips the submenu of a node that has one and returns the new
// state. Leaves are left alone.
func (s *State) Toggle(t *Tree, id string) bool {
	n := t.Node(id)
	if n == nil || !n.HasChildren() {
		return false
	}
	if s.expanded[n.ID] {
		s.Collapse(n.ID)
		return false
	}
	s.Expand(n.ID)
	return true
}

// Select marks id as the only selected node
func (s *State) Select(id string) {
	s.selected = id
}

// ExpandTreeForPage selects the node of pageID, opens its own submenu and
// then climbs parent by parent opening every enclosing submenu. The climb
// ends at a root entry. It returns false when the page is not in the tree,
// in which case nothing is selected.
func (s *State) ExpandTreeForPage(t *Tree, pageID string) bool {
	n := t.Node(pageID)
	if n == nil {
		s.selected = ""
		return false
	}
	s.selected = n.ID
	if n.HasChildren() {
		s.Expand(n.ID)
	}
	for p := n.Parent; p != nil; p = p.Parent {
		s.Expand(p.ID)
	}
	return true
}

// IsVisible reports whether every ancestor of the node is open
func (s *State) IsVisible(n *Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if !s.expanded[p.ID] {
			return false
		}
	}
	return true
}

// Visible returns the nodes currently shown, in document order
func (s *State) Visible(t *Tree) []*Node {
	var out []*Node
	for _, n := range t.Nodes() {
		if s.IsVisible(n) {
			out = append(out, n)
		}
	}
	return out
}
