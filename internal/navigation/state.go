package navigation

import (
	"docetui/internal/domain"
	"docetui/internal/toc"
)

// ViewKind is what the content area currently shows
type ViewKind int

const (
	ViewEmpty ViewKind = iota
	ViewHome
	ViewPage
	ViewSearch
)

func (k ViewKind) String() string {
	switch k {
	case ViewHome:
		return "home"
	case ViewPage:
		return "page"
	case ViewSearch:
		return "search"
	default:
		return "empty"
	}
}

// PageContent is a fetched page fragment
type PageContent struct {
	Ref      domain.PageRef
	HTML     string
	Fragment string
}

// Content is the state of the content area
type Content struct {
	Kind     ViewKind
	Packages []domain.PackageDescriptor // package cards, ViewHome only
	Page     *PageContent
	Search   *SearchResults
}

// Snapshot is a copy of the navigation state, safe to read without locks
type Snapshot struct {
	CurrentPackageID string
	CurrentPageID    string
	TocVisible       bool
	TocPackageID     string
	Tree             *toc.Tree
	Toc              *toc.State
	Registry         map[string]domain.PackageRef
	Content          Content
	Breadcrumbs      []domain.Crumb
}

// state is the mutable navigation state owned by Controller
type state struct {
	currentPackageID string
	currentPageID    string
	tocVisible       bool
	tree             *toc.Tree
	toc              *toc.State
	registry         map[string]domain.PackageRef
	content          Content
}

func newState() state {
	return state{
		toc:      toc.NewState(),
		registry: make(map[string]domain.PackageRef),
	}
}

func (s *state) tocPackageID() string {
	if s.tree == nil {
		return ""
	}
	return s.tree.PackageID
}

func (s *state) snapshot(homeLabel string) Snapshot {
	reg := make(map[string]domain.PackageRef, len(s.registry))
	for k, v := range s.registry {
		reg[k] = v
	}
	content := s.content
	content.Packages = append([]domain.PackageDescriptor(nil), s.content.Packages...)
	if s.content.Page != nil {
		p := *s.content.Page
		content.Page = &p
	}
	if s.content.Search != nil {
		content.Search = s.content.Search.clone()
	}
	return Snapshot{
		CurrentPackageID: s.currentPackageID,
		CurrentPageID:    s.currentPageID,
		TocVisible:       s.tocVisible,
		TocPackageID:     s.tocPackageID(),
		Tree:             s.tree,
		Toc:              s.toc.Clone(),
		Registry:         reg,
		Content:          content,
		Breadcrumbs:      s.breadcrumbs(homeLabel),
	}
}

// breadcrumbs rebuilds the trail from the selected toc entry. Search
// results only get the home crumb.
func (s *state) breadcrumbs(homeLabel string) []domain.Crumb {
	crumbs := []domain.Crumb{{Label: homeLabel, Home: true}}
	if s.content.Kind == ViewSearch || s.currentPackageID == "" {
		return crumbs
	}

	pkg := s.registry[s.currentPackageID]
	pkgLabel := pkg.Label
	if pkgLabel == "" {
		pkgLabel = s.currentPackageID
	}
	crumbs = append(crumbs, domain.Crumb{
		ID:        s.currentPackageID,
		Label:     pkgLabel,
		Link:      pkg.Link,
		PackageID: s.currentPackageID,
	})
	if s.content.Kind != ViewPage || s.content.Page == nil {
		return crumbs
	}

	if s.tree != nil && s.tree.PackageID == s.currentPackageID {
		if n := s.tree.Node(s.toc.Selected()); n != nil {
			for _, a := range s.tree.Ancestors(n.ID) {
				crumbs = append(crumbs, nodeCrumb(a))
			}
			return append(crumbs, nodeCrumb(n))
		}
	}

	// page outside the toc, e.g. the package main page
	ref := s.content.Page.Ref
	if pkg.Link != "" && domain.PageIDFromLink(pkg.Link) == domain.PageIDFromLink(ref.Link) {
		return crumbs
	}
	label := ref.Title
	if label == "" {
		label = s.currentPageID
	}
	return append(crumbs, domain.Crumb{ID: s.currentPageID, Label: label, Link: ref.Link, PackageID: ref.PackageID})
}

func nodeCrumb(n *toc.Node) domain.Crumb {
	return domain.Crumb{ID: n.ID, Label: n.Label, Link: n.Link, PackageID: n.PackageID}
}
