// Package navigation holds the navigation state of a docet browsing session
// and the operations that change it. Every operation fetches first and
// mutates state only once the response arrived and is still the latest
// request for its slot; failures go to the configured callbacks and leave
// state untouched.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"docetui/internal/config"
	"docetui/internal/docet"
	"docetui/internal/domain"
	"docetui/internal/eventbus"
	"docetui/internal/toc"
)

var (
	// ErrStale is returned when a newer request for the same resource
	// completed first; the response was dropped.
	ErrStale = errors.New("response superseded by a newer request")
	// ErrNoResults is returned by paging operations when no result
	// group exists for the package.
	ErrNoResults = errors.New("no search results for package")
	// ErrNoLink is returned when a page reference has nothing to fetch
	ErrNoLink = errors.New("page reference has no link")
)

// Callbacks receive the failures of the controller. Nil callbacks are
// ignored.
type Callbacks struct {
	OnResponseError    func(err error)
	OnSearchError      func(result domain.PackageResults)
	OnPackageListError func(pkg domain.PackageDescriptor)
}

type slot string

const (
	slotContent  slot = "content"
	slotToc      slot = "toc"
	slotRegistry slot = "registry"
)

// Controller is safe for concurrent use. Locks are never held during
// network calls.
type Controller struct {
	cfg       config.Config
	server    docet.ContentServer
	bus       eventbus.EventBus
	callbacks Callbacks

	mu           sync.Mutex
	st           state
	seq          map[slot]uint64
	pendingToc   string
	tocHighlight string
}

// New creates a controller. bus may be nil.
func New(cfg config.Config, server docet.ContentServer, bus eventbus.EventBus, cb Callbacks) *Controller {
	return &Controller{
		cfg:       cfg,
		server:    server,
		bus:       bus,
		callbacks: cb,
		st:        newState(),
		seq:       make(map[slot]uint64),
	}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.snapshot(c.cfg.Localization.MainPageTitle)
}

// Breadcrumbs returns the trail derived from the current state
func (c *Controller) Breadcrumbs() []domain.Crumb {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.breadcrumbs(c.cfg.Localization.MainPageTitle)
}

// LoadPackageList fetches the package list and registers every package
// reported as ok. With showCards the content area switches to the package
// cards. Packages reported as failed go to OnPackageListError.
func (c *Controller) LoadPackageList(ctx context.Context, showCards bool) error {
	return c.loadPackageList(ctx, showCards, false)
}

// NavigateHome shows the package cards, hides the toc and forgets the
// current package
func (c *Controller) NavigateHome(ctx context.Context) error {
	return c.loadPackageList(ctx, true, true)
}

func (c *Controller) loadPackageList(ctx context.Context, showCards, home bool) error {
	c.mu.Lock()
	regSeq := c.begin(slotRegistry)
	var contentSeq uint64
	if showCards {
		contentSeq = c.begin(slotContent)
	}
	c.mu.Unlock()

	resp, err := c.server.Packages(ctx, c.cfg.Language, c.cfg.Packages)
	if err != nil {
		c.responseError(err)
		return err
	}

	var ok, failed []domain.PackageDescriptor
	for _, p := range resp.Items {
		if p.OK {
			ok = append(ok, p)
		} else {
			failed = append(failed, p)
		}
	}

	c.mu.Lock()
	applied := false
	if c.current(slotRegistry, regSeq) {
		for _, p := range ok {
			c.st.registry[p.ID] = domain.PackageRef{Link: p.PackageLink, Label: p.Title}
		}
		applied = true
	}
	if showCards && c.current(slotContent, contentSeq) {
		c.st.content = Content{Kind: ViewHome, Packages: ok}
		if home {
			c.st.tocVisible = false
			c.st.currentPackageID = ""
			c.st.currentPageID = ""
			c.st.toc.Close()
		}
		applied = true
	} else if showCards {
		applied = false
	}
	c.mu.Unlock()

	for _, p := range failed {
		log.Printf("navigation: package %s unavailable: %s", p.ID, p.ErrorMessage)
		if c.callbacks.OnPackageListError != nil {
			c.callbacks.OnPackageListError(p)
		}
	}
	if !applied {
		return ErrStale
	}
	c.publish(eventbus.PackageListLoadedEvent{Packages: ok, ShowCards: showCards})
	if home {
		c.publish(eventbus.NavigatedHomeEvent{})
	}
	return nil
}

// LoadTocForPackage loads the toc of a package and expands it to the
// highlighted page. When the toc of packageID is already loaded, or being
// loaded, nothing is fetched and the toc is just made visible.
func (c *Controller) LoadTocForPackage(ctx context.Context, packageID, highlight string) error {
	if packageID == "" {
		return nil
	}

	c.mu.Lock()
	if c.st.tocPackageID() == packageID || c.pendingToc == packageID {
		if c.pendingToc == packageID {
			c.tocHighlight = highlight
		}
		changed := !c.st.tocVisible
		c.st.tocVisible = true
		c.mu.Unlock()
		if changed {
			c.publish(eventbus.TocVisibilityEvent{Visible: true})
		}
		return nil
	}
	seq := c.begin(slotToc)
	c.pendingToc = packageID
	c.tocHighlight = highlight
	c.mu.Unlock()

	tree, err := c.fetchToc(ctx, packageID)

	c.mu.Lock()
	if !c.current(slotToc, seq) {
		c.mu.Unlock()
		return ErrStale
	}
	c.pendingToc = ""
	if err != nil {
		c.mu.Unlock()
		c.responseError(err)
		return err
	}
	c.st.tree = tree
	c.st.toc = toc.NewState()
	c.st.toc.ExpandTreeForPage(tree, c.tocHighlight)
	c.st.tocVisible = true
	c.mu.Unlock()

	c.publish(eventbus.TocLoadedEvent{PackageID: packageID, Nodes: tree.Len()})
	return nil
}

// fetchToc downloads and parses a toc. State is not touched.
func (c *Controller) fetchToc(ctx context.Context, packageID string) (*toc.Tree, error) {
	fragment, err := c.server.TOC(ctx, packageID, c.cfg.Language)
	if err != nil {
		return nil, err
	}
	tree, err := toc.Parse(fragment)
	if err != nil {
		return nil, fmt.Errorf("toc for %s: %w", packageID, err)
	}
	if tree.PackageID == "" {
		tree.PackageID = packageID
	}
	return tree, nil
}

// OpenPage fetches a page and makes it current. The toc of its package is
// fetched alongside when it is not loaded yet; tree, selection and toc
// visibility change together with the page, only once the page arrived. A
// link made of a bare "#anchor" scrolls the page shown without fetching.
func (c *Controller) OpenPage(ctx context.Context, ref domain.PageRef) error {
	if strings.HasPrefix(ref.Link, "#") {
		return c.scrollTo(domain.FragmentFromLink(ref.Link))
	}
	return c.openPage(ctx, ref, false, false)
}

// JumpToPage opens page pageID of a package by id. The language suffix is
// appended to pageID and the package registry is refreshed on the way.
// With hideToc the toc is hidden once the page is shown.
func (c *Controller) JumpToPage(ctx context.Context, packageID, pageID string, hideToc bool) error {
	pageID = domain.LocalizedPageID(pageID, c.cfg.Language)
	ref := domain.PageRef{
		ID:        pageID,
		PackageID: packageID,
		Link:      c.server.PageLink(packageID, pageID),
	}
	return c.openPage(ctx, ref, hideToc, true)
}

func (c *Controller) openPage(ctx context.Context, ref domain.PageRef, hideToc, refreshRegistry bool) error {
	if ref.Link == "" {
		err := fmt.Errorf("open page %q: %w", ref.ID, ErrNoLink)
		c.responseError(err)
		return err
	}
	if ref.ID == "" {
		ref.ID = domain.PageIDFromLink(ref.Link)
	}

	// FAQ entries other than the FAQ main page live in the current toc
	wantToc := ref.PackageID != "" && (!domain.IsFAQPage(ref.ID) || ref.ID == "faq_"+c.cfg.Language)

	c.mu.Lock()
	seq := c.begin(slotContent)
	needToc := wantToc && c.st.tocPackageID() != ref.PackageID
	c.mu.Unlock()

	var (
		g    errgroup.Group
		html string
		tree *toc.Tree
	)
	if refreshRegistry {
		g.Go(func() error {
			_ = c.loadPackageList(ctx, false, false)
			return nil
		})
	}
	if needToc {
		g.Go(func() error {
			var err error
			tree, err = c.fetchToc(ctx, ref.PackageID)
			return err
		})
	}
	g.Go(func() error {
		var err error
		html, err = c.server.Page(ctx, ref.Link)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	if !c.current(slotContent, seq) {
		c.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		c.mu.Unlock()
		c.responseError(err)
		return err
	}
	s := &c.st
	if tree != nil {
		// supersedes any toc load still in flight
		c.begin(slotToc)
		c.pendingToc = ""
		s.tree = tree
		s.toc = toc.NewState()
	}
	s.toc.Close()
	pageID := ref.ID
	if s.tree != nil && (ref.PackageID == "" || s.tree.PackageID == ref.PackageID) {
		n := s.tree.Node(ref.ID)
		if n == nil {
			n = s.tree.Node(domain.PageIDFromLink(ref.Link))
		}
		if n != nil {
			s.toc.ExpandTreeForPage(s.tree, n.ID)
			if n.FAQ && !n.FAQMain {
				s.toc.Collapse(n.ID)
			}
			pageID = n.PageID()
			if ref.Title == "" {
				ref.Title = n.Label
			}
			if ref.PackageID == "" {
				ref.PackageID = n.PackageID
			}
		}
	}
	wasVisible := s.tocVisible
	switch {
	case hideToc:
		s.tocVisible = false
	case wantToc && s.tree != nil && s.tree.PackageID == ref.PackageID:
		s.tocVisible = true
	}
	visible := s.tocVisible
	if ref.PackageID != "" {
		s.currentPackageID = ref.PackageID
	}
	s.currentPageID = pageID
	fragment := domain.FragmentFromLink(ref.Link)
	s.content = Content{Kind: ViewPage, Page: &PageContent{Ref: ref, HTML: html, Fragment: fragment}}
	c.mu.Unlock()

	if tree != nil {
		c.publish(eventbus.TocLoadedEvent{PackageID: tree.PackageID, Nodes: tree.Len()})
	}
	if visible != wasVisible {
		c.publish(eventbus.TocVisibilityEvent{Visible: visible})
	}
	c.publish(eventbus.PageOpenedEvent{Page: ref, Fragment: fragment})
	return nil
}

func (c *Controller) scrollTo(fragment string) error {
	c.mu.Lock()
	if c.st.content.Kind != ViewPage || c.st.content.Page == nil {
		c.mu.Unlock()
		return nil
	}
	page := *c.st.content.Page
	page.Fragment = fragment
	c.st.content.Page = &page
	c.mu.Unlock()

	c.publish(eventbus.PageOpenedEvent{Page: page.Ref, Fragment: fragment})
	return nil
}

// Search runs a search and shows the results. Blank terms do nothing. A
// "package:page" term jumps straight to that page.
func (c *Controller) Search(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	if pkg, page, ok := domain.ParseJumpQuery(term); ok {
		return c.JumpToPage(ctx, pkg, page, false)
	}

	c.mu.Lock()
	seq := c.begin(slotContent)
	source := c.st.currentPackageID
	c.mu.Unlock()

	resp, err := c.server.Search(ctx, docet.SearchQuery{
		Term:          term,
		SourcePackage: source,
		Packages:      c.cfg.Packages,
		Lang:          c.cfg.Language,
	})
	if err != nil {
		c.responseError(err)
		return err
	}
	results, failed := buildResults(term, resp, c.cfg.Pagination.Size)

	c.mu.Lock()
	if !c.current(slotContent, seq) {
		c.mu.Unlock()
		return ErrStale
	}
	for _, g := range results.Groups {
		c.st.registry[g.PackageID] = domain.PackageRef{Link: g.PackageLink, Label: g.PackageName}
	}
	c.st.tocVisible = false
	c.st.toc.Close()
	c.st.currentPageID = ""
	c.st.content = Content{Kind: ViewSearch, Search: results}
	c.mu.Unlock()

	for _, f := range failed {
		log.Printf("navigation: search in %s failed: %s", f.PackageID, f.ErrorMessage)
		if c.callbacks.OnSearchError != nil {
			c.callbacks.OnSearchError(f)
		}
	}
	c.publish(eventbus.SearchCompletedEvent{Term: term, TotalCount: results.TotalCount, PackageCount: results.PackageCount})
	return nil
}

// ShowMore reveals the next page of results of a package. Nothing is
// fetched.
func (c *Controller) ShowMore(packageID string) error {
	return c.page(packageID, func(g *SearchGroup) {
		g.Visible = min(g.Visible+g.PageSize, len(g.Items))
	})
}

// ShowLess collapses the results of a package back to the first page
func (c *Controller) ShowLess(packageID string) error {
	return c.page(packageID, func(g *SearchGroup) {
		g.Visible = min(g.PageSize, len(g.Items))
	})
}

func (c *Controller) page(packageID string, fn func(*SearchGroup)) error {
	c.mu.Lock()
	if c.st.content.Kind != ViewSearch || c.st.content.Search == nil {
		c.mu.Unlock()
		return ErrNoResults
	}
	g, ok := c.st.content.Search.Group(packageID)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoResults, packageID)
	}
	fn(g)
	ev := eventbus.SearchPagedEvent{PackageID: packageID, Visible: g.Visible, Total: len(g.Items)}
	c.mu.Unlock()

	c.publish(ev)
	return nil
}

// ExpandTreeForPage selects the toc entry of pageID and opens every
// submenu above it. It reports whether the page is in the loaded toc.
func (c *Controller) ExpandTreeForPage(pageID string) bool {
	c.mu.Lock()
	found := c.st.toc.ExpandTreeForPage(c.st.tree, pageID)
	c.mu.Unlock()
	return found
}

// ToggleNode opens or closes the submenu of a toc entry
func (c *Controller) ToggleNode(id string) bool {
	c.mu.Lock()
	if c.st.tree == nil || c.st.tree.Node(id) == nil {
		c.mu.Unlock()
		return false
	}
	expanded := c.st.toc.Toggle(c.st.tree, id)
	c.mu.Unlock()

	c.publish(eventbus.TocNodeToggledEvent{NodeID: id, Expanded: expanded})
	return expanded
}

// SetTocVisible shows or hides the toc
func (c *Controller) SetTocVisible(visible bool) {
	c.mu.Lock()
	changed := c.st.tocVisible != visible
	c.st.tocVisible = visible
	c.mu.Unlock()
	if changed {
		c.publish(eventbus.TocVisibilityEvent{Visible: visible})
	}
}

// ToggleToc flips the toc visibility. A toc can only be shown once one
// was loaded.
func (c *Controller) ToggleToc() bool {
	c.mu.Lock()
	visible := !c.st.tocVisible && c.st.tree != nil
	c.mu.Unlock()
	c.SetTocVisible(visible)
	return visible
}

// begin starts a request for a slot; callers hold mu
func (c *Controller) begin(s slot) uint64 {
	c.seq[s]++
	return c.seq[s]
}

// current reports whether n is still the latest request for a slot;
// callers hold mu
func (c *Controller) current(s slot, n uint64) bool {
	return c.seq[s] == n
}

func (c *Controller) responseError(err error) {
	log.Printf("navigation: %v", err)
	if c.callbacks.OnResponseError != nil {
		c.callbacks.OnResponseError(err)
	}
}

func (c *Controller) publish(e eventbus.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}
