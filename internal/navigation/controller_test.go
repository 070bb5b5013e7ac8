package navigation

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docetui/internal/config"
	"docetui/internal/docet"
	"docetui/internal/docet/docettest"
	"docetui/internal/domain"
	"docetui/internal/eventbus"
)

type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.DomainEvent
}

func (b *recordingBus) Publish(e eventbus.DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() { return func() {} }
func (b *recordingBus) Close()                                                      {}

func (b *recordingBus) types() []eventbus.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]eventbus.EventType, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type())
	}
	return out
}

type harness struct {
	srv         *docettest.Server
	ctrl        *Controller
	bus         *recordingBus
	mu          sync.Mutex
	respErrs    []error
	searchErrs  []domain.PackageResults
	packageErrs []domain.PackageDescriptor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{srv: docettest.New(docettest.Sample()), bus: &recordingBus{}}
	t.Cleanup(h.srv.Close)

	cfg := config.DefaultConfig()
	cfg.Server.URL = h.srv.URL
	client, err := docet.NewClient(*cfg)
	require.NoError(t, err)

	h.ctrl = New(*cfg, client, h.bus, Callbacks{
		OnResponseError: func(err error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.respErrs = append(h.respErrs, err)
		},
		OnSearchError: func(r domain.PackageResults) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.searchErrs = append(h.searchErrs, r)
		},
		OnPackageListError: func(p domain.PackageDescriptor) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.packageErrs = append(h.packageErrs, p)
		},
	})
	return h
}

func manualRef(id string) domain.PageRef {
	return domain.PageRef{ID: id, PackageID: "manual", Link: "/docs/pages/manual/" + id + ".mndoc"}
}

func crumbLabels(crumbs []domain.Crumb) []string {
	out := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		out = append(out, c.Label)
	}
	return out
}

func TestOpenPageExpandsAndSelects(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.LoadPackageList(ctx, false))

	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("debian_it")))

	snap := h.ctrl.Snapshot()
	assert.Equal(t, "manual", snap.CurrentPackageID)
	assert.Equal(t, "debian_it", snap.CurrentPageID)
	assert.True(t, snap.TocVisible)
	assert.Equal(t, "manual", snap.TocPackageID)
	assert.Equal(t, "debian_it", snap.Toc.Selected())
	assert.Equal(t, []string{"install_it", "intro_it", "linux_it"}, snap.Toc.ExpandedIDs())

	require.Equal(t, ViewPage, snap.Content.Kind)
	assert.Contains(t, snap.Content.Page.HTML, "apt install docet")
	assert.Equal(t, "Debian", snap.Content.Page.Ref.Title)

	assert.Equal(t,
		[]string{"Home", "User Manual", "Introduction", "Installation", "Linux", "Debian"},
		crumbLabels(snap.Breadcrumbs))
	assert.Contains(t, h.bus.types(), eventbus.EventPageOpened)
}

func TestOpenPageKeepsSingleSelection(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, id := range []string{"debian_it", "usage_it", "windows_it"} {
		require.NoError(t, h.ctrl.OpenPage(ctx, manualRef(id)))
		snap := h.ctrl.Snapshot()
		assert.Equal(t, id, snap.Toc.Selected())
	}
	snap := h.ctrl.Snapshot()
	assert.Equal(t, []string{"install_it", "intro_it"}, snap.Toc.ExpandedIDs(),
		"submenus opened for earlier pages are closed again")
}

func TestTocFetchedOncePerPackage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.ctrl.LoadTocForPackage(ctx, "manual", ""))
	require.NoError(t, h.ctrl.LoadTocForPackage(ctx, "manual", "usage_it"))
	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("intro_it")))
	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("usage_it")))

	assert.Equal(t, 1, h.srv.Hits(docettest.EndpointTOC))

	require.NoError(t, h.ctrl.LoadTocForPackage(ctx, "api", ""))
	assert.Equal(t, 2, h.srv.Hits(docettest.EndpointTOC))
	assert.Equal(t, "api", h.ctrl.Snapshot().TocPackageID)
}

func TestLoadTocIgnoresEmptyPackage(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctrl.LoadTocForPackage(context.Background(), "", ""))
	assert.Zero(t, h.srv.Hits(docettest.EndpointTOC))
}

func TestBlankSearchFetchesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.ctrl.Search(ctx, ""))
	require.NoError(t, h.ctrl.Search(ctx, "   "))

	assert.Zero(t, h.srv.Hits(docettest.EndpointSearch))
	assert.Equal(t, ViewEmpty, h.ctrl.Snapshot().Content.Kind)
}

func TestSearchPaging(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.ctrl.Search(ctx, "many"))
	visible := func() int {
		g, ok := h.ctrl.Snapshot().Content.Search.Group("manual")
		require.True(t, ok)
		return g.Visible
	}
	assert.Equal(t, 5, visible())

	require.NoError(t, h.ctrl.ShowMore("manual"))
	assert.Equal(t, 10, visible())
	require.NoError(t, h.ctrl.ShowMore("manual"))
	assert.Equal(t, 12, visible())
	require.NoError(t, h.ctrl.ShowMore("manual"))
	assert.Equal(t, 12, visible())

	require.NoError(t, h.ctrl.ShowLess("manual"))
	assert.Equal(t, 5, visible())

	assert.Equal(t, 1, h.srv.Hits(docettest.EndpointSearch), "paging never refetches")
	assert.ErrorIs(t, h.ctrl.ShowMore("api"), ErrNoResults)
}

func TestSearchHidesTocAndUsesCurrentPackage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("debian_it")))

	require.NoError(t, h.ctrl.Search(ctx, "install"))

	snap := h.ctrl.Snapshot()
	assert.False(t, snap.TocVisible)
	assert.Empty(t, snap.Toc.Selected())
	assert.Empty(t, snap.Toc.ExpandedIDs())
	assert.Empty(t, snap.CurrentPageID)
	assert.Equal(t, []string{"Home"}, crumbLabels(snap.Breadcrumbs))

	require.Equal(t, ViewSearch, snap.Content.Kind)
	res := snap.Content.Search
	assert.Equal(t, 4, res.TotalCount)
	assert.Equal(t, 1, res.PackageCount)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "manual", res.Groups[0].PackageID)
	assert.Equal(t, 4, res.Groups[0].Visible)
	assert.False(t, res.Groups[0].HasMore())

	q := h.srv.Queries(docettest.EndpointSearch)[0]
	assert.Equal(t, "manual", q.Get("sourcePkg"))
	assert.Equal(t, "it", q.Get("lang"))
	assert.Equal(t, "Found 4 results for install.", res.Message(config.DefaultConfig().Localization))
}

func TestSearchReportsFailedPackages(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Search(context.Background(), "legacy"))

	require.Len(t, h.searchErrs, 1)
	assert.Equal(t, "legacy", h.searchErrs[0].PackageID)
	res := h.ctrl.Snapshot().Content.Search
	assert.Empty(t, res.Groups)
	assert.Zero(t, res.PackageCount)
}

func TestJumpShortcut(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Search(context.Background(), "manual:usage"))

	snap := h.ctrl.Snapshot()
	assert.Zero(t, h.srv.Hits(docettest.EndpointSearch))
	assert.Equal(t, 1, h.srv.Hits(docettest.EndpointPackages))
	assert.Equal(t, "usage_it", snap.CurrentPageID)
	assert.Equal(t, "usage_it", snap.Toc.Selected())
	assert.True(t, snap.TocVisible)
	assert.Equal(t, "User Manual", snap.Registry["manual"].Label)
}

func TestJumpToPageCanHideToc(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.JumpToPage(context.Background(), "manual", "install", true))

	snap := h.ctrl.Snapshot()
	assert.False(t, snap.TocVisible)
	assert.Equal(t, "install_it", snap.CurrentPageID)
}

func TestLoadPackageList(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.LoadPackageList(context.Background(), true))

	snap := h.ctrl.Snapshot()
	require.Equal(t, ViewHome, snap.Content.Kind)
	require.Len(t, snap.Content.Packages, 2)
	assert.Len(t, snap.Registry, 2)
	require.Len(t, h.packageErrs, 1)
	assert.Equal(t, "legacy", h.packageErrs[0].ID)
}

func TestLoadPackageListWithoutCards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("usage_it")))

	require.NoError(t, h.ctrl.LoadPackageList(ctx, false))

	snap := h.ctrl.Snapshot()
	assert.Equal(t, ViewPage, snap.Content.Kind)
	assert.Equal(t, "/docs/pages/manual/main_it.mndoc", snap.Registry["manual"].Link)
}

func TestNavigateHome(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("linux_it")))

	require.NoError(t, h.ctrl.NavigateHome(ctx))

	snap := h.ctrl.Snapshot()
	assert.Equal(t, ViewHome, snap.Content.Kind)
	assert.False(t, snap.TocVisible)
	assert.Empty(t, snap.CurrentPackageID)
	assert.Empty(t, snap.Toc.Selected())
	assert.Equal(t, []string{"Home"}, crumbLabels(snap.Breadcrumbs))
	assert.Contains(t, h.bus.types(), eventbus.EventNavigatedHome)
}

func TestFailedPageLeavesStateAlone(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("intro_it")))
	before := h.ctrl.Snapshot()

	h.srv.Fail(docettest.EndpointPages, http.StatusInternalServerError)
	err := h.ctrl.OpenPage(ctx, manualRef("usage_it"))
	require.Error(t, err)

	var se *docet.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	require.Len(t, h.respErrs, 1)

	after := h.ctrl.Snapshot()
	assert.Equal(t, before.CurrentPageID, after.CurrentPageID)
	assert.Equal(t, before.Toc.Selected(), after.Toc.Selected())
	assert.Equal(t, before.Toc.ExpandedIDs(), after.Toc.ExpandedIDs())
	assert.Equal(t, before.Content.Page.HTML, after.Content.Page.HTML)
}

func TestFailedPageInOtherPackageKeepsToc(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("intro_it")))
	before := h.ctrl.Snapshot()
	seen := len(h.bus.types())

	h.srv.Fail(docettest.EndpointPages, http.StatusInternalServerError)
	err := h.ctrl.OpenPage(ctx, domain.PageRef{ID: "endpoints_it", PackageID: "api", Link: "/docs/pages/api/endpoints_it.mndoc"})
	require.Error(t, err)
	assert.Len(t, h.respErrs, 1)

	after := h.ctrl.Snapshot()
	assert.Equal(t, "intro_it", after.CurrentPageID)
	assert.Equal(t, "manual", after.TocPackageID)
	assert.Equal(t, "intro_it", after.Toc.Selected())
	assert.True(t, after.TocVisible)
	assert.Equal(t, crumbLabels(before.Breadcrumbs), crumbLabels(after.Breadcrumbs))
	assert.Empty(t, h.bus.types()[seen:])

	// the api toc was never applied, so the next open fetches it again
	h.srv.Fail(docettest.EndpointPages, 0)
	require.NoError(t, h.ctrl.OpenPage(ctx, domain.PageRef{ID: "endpoints_it", PackageID: "api", Link: "/docs/pages/api/endpoints_it.mndoc"}))
	snap := h.ctrl.Snapshot()
	assert.Equal(t, "api", snap.TocPackageID)
	assert.Equal(t, "endpoints_it", snap.Toc.Selected())
}

func TestFailedTocFailsOpenPage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("intro_it")))

	h.srv.Fail(docettest.EndpointTOC, http.StatusServiceUnavailable)
	require.Error(t, h.ctrl.OpenPage(ctx, domain.PageRef{ID: "endpoints_it", PackageID: "api", Link: "/docs/pages/api/endpoints_it.mndoc"}))

	snap := h.ctrl.Snapshot()
	assert.Equal(t, "intro_it", snap.CurrentPageID)
	assert.Equal(t, "manual", snap.TocPackageID)
	assert.Len(t, h.respErrs, 1)
}

func TestFailedJumpKeepsTocVisible(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("intro_it")))
	require.True(t, h.ctrl.Snapshot().TocVisible)

	h.srv.Fail(docettest.EndpointPages, http.StatusInternalServerError)
	require.Error(t, h.ctrl.JumpToPage(ctx, "manual", "usage", true))

	snap := h.ctrl.Snapshot()
	assert.True(t, snap.TocVisible)
	assert.Equal(t, "intro_it", snap.CurrentPageID)

	h.srv.Fail(docettest.EndpointPages, 0)
	require.NoError(t, h.ctrl.JumpToPage(ctx, "manual", "usage", true))
	snap = h.ctrl.Snapshot()
	assert.False(t, snap.TocVisible)
	assert.Equal(t, "usage_it", snap.CurrentPageID)
}

func TestFailedSearchLeavesStateAlone(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("intro_it")))

	h.srv.Fail(docettest.EndpointSearch, http.StatusBadGateway)
	require.Error(t, h.ctrl.Search(ctx, "install"))

	snap := h.ctrl.Snapshot()
	assert.Equal(t, ViewPage, snap.Content.Kind)
	assert.True(t, snap.TocVisible)
	assert.Equal(t, "intro_it", snap.Toc.Selected())
	assert.Len(t, h.respErrs, 1)
}

func TestFailedTocKeepsPreviousTree(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.LoadTocForPackage(ctx, "manual", ""))

	h.srv.Fail(docettest.EndpointTOC, http.StatusServiceUnavailable)
	require.Error(t, h.ctrl.LoadTocForPackage(ctx, "api", ""))

	assert.Equal(t, "manual", h.ctrl.Snapshot().TocPackageID)
	assert.Len(t, h.respErrs, 1)

	h.srv.Fail(docettest.EndpointTOC, 0)
	require.NoError(t, h.ctrl.LoadTocForPackage(ctx, "api", ""), "a failed load does not stay pending")
	assert.Equal(t, "api", h.ctrl.Snapshot().TocPackageID)
}

func TestFAQEntryKeepsOwnSubmenuClosed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.LoadTocForPackage(ctx, "manual", ""))

	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("faq_license_it")))

	snap := h.ctrl.Snapshot()
	assert.Equal(t, "faq_license_it", snap.Toc.Selected())
	assert.True(t, snap.Toc.IsExpanded("docet-faq-main-link"))
	assert.False(t, snap.Toc.IsExpanded("faq_license_it"))
	assert.Equal(t, 1, h.srv.Hits(docettest.EndpointTOC))
}

func TestFAQMainPage(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.OpenPage(context.Background(), manualRef("faq_it")))

	snap := h.ctrl.Snapshot()
	assert.Equal(t, "docet-faq-main-link", snap.Toc.Selected())
	assert.Equal(t, "faq_it", snap.CurrentPageID)
	assert.True(t, snap.Toc.IsExpanded("docet-faq-main-link"))
}

func TestAnchorLinkDoesNotFetch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("intro_it")))

	require.NoError(t, h.ctrl.OpenPage(ctx, domain.PageRef{Link: "#setup"}))

	snap := h.ctrl.Snapshot()
	assert.Equal(t, 1, h.srv.Hits(docettest.EndpointPages))
	assert.Equal(t, "setup", snap.Content.Page.Fragment)
	assert.Equal(t, "intro_it", snap.CurrentPageID)
}

func TestMainPageBreadcrumbs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.LoadPackageList(ctx, false))

	require.NoError(t, h.ctrl.OpenPage(ctx, manualRef("main_it")))

	assert.Equal(t, []string{"Home", "User Manual"}, crumbLabels(h.ctrl.Breadcrumbs()))
}

func TestToggleNodeAndToc(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.False(t, h.ctrl.ToggleToc(), "nothing to show before a toc is loaded")
	require.NoError(t, h.ctrl.LoadTocForPackage(ctx, "manual", ""))

	assert.True(t, h.ctrl.ToggleNode("intro_it"))
	assert.True(t, h.ctrl.Snapshot().Toc.IsExpanded("intro_it"))
	assert.False(t, h.ctrl.ToggleNode("intro_it"))
	assert.False(t, h.ctrl.ToggleNode("missing"))

	assert.False(t, h.ctrl.ToggleToc())
	assert.False(t, h.ctrl.Snapshot().TocVisible)
	assert.True(t, h.ctrl.ToggleToc())
	assert.True(t, h.ctrl.Snapshot().TocVisible)
}

func TestExpandTreeForPage(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctrl.LoadTocForPackage(context.Background(), "manual", ""))

	assert.True(t, h.ctrl.ExpandTreeForPage("debian_it"))
	assert.False(t, h.ctrl.ExpandTreeForPage("nope"))
	assert.Empty(t, h.ctrl.Snapshot().Toc.Selected())
}

// gatedServer blocks page requests until their link is released. Toc
// requests block only for packages given a gate in tocGates.
type gatedServer struct {
	started  chan string
	mu       sync.Mutex
	gates    map[string]chan struct{}
	tocGates map[string]chan struct{}
	tocErrs  map[string]error
}

func newGatedServer(links ...string) *gatedServer {
	g := &gatedServer{
		started:  make(chan string, len(links)+4),
		gates:    map[string]chan struct{}{},
		tocGates: map[string]chan struct{}{},
		tocErrs:  map[string]error{},
	}
	for _, l := range links {
		g.gates[l] = make(chan struct{})
	}
	return g
}

func (g *gatedServer) release(link string) { close(g.gates[link]) }

func (g *gatedServer) Packages(context.Context, string, []string) (*domain.PackageListResponse, error) {
	return &domain.PackageListResponse{}, nil
}

func (g *gatedServer) TOC(ctx context.Context, packageID, _ string) (string, error) {
	g.mu.Lock()
	gate, err := g.tocGates[packageID], g.tocErrs[packageID]
	g.mu.Unlock()
	if gate != nil {
		g.started <- "toc:" + packageID
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return docettest.ManualTOC, nil
}

func (g *gatedServer) Search(context.Context, docet.SearchQuery) (*domain.SearchResponse, error) {
	return &domain.SearchResponse{}, nil
}

func (g *gatedServer) Page(ctx context.Context, link string) (string, error) {
	g.mu.Lock()
	gate := g.gates[link]
	g.mu.Unlock()
	g.started <- link
	select {
	case <-gate:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "<p>" + link + "</p>", nil
}

func (g *gatedServer) PageLink(packageID, pageID string) string {
	return "docs/pages/" + packageID + "/" + pageID + ".mndoc"
}

func TestStaleResponseIsDropped(t *testing.T) {
	srv := newGatedServer("/a", "/b")
	ctrl := New(*config.DefaultConfig(), srv, nil, Callbacks{})
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- ctrl.OpenPage(ctx, domain.PageRef{ID: "a", Link: "/a"}) }()
	require.Equal(t, "/a", <-srv.started)

	srv.release("/b")
	require.NoError(t, ctrl.OpenPage(ctx, domain.PageRef{ID: "b", Link: "/b"}))
	<-srv.started

	srv.release("/a")
	assert.ErrorIs(t, <-slow, ErrStale)

	snap := ctrl.Snapshot()
	assert.Equal(t, "b", snap.CurrentPageID)
	assert.Equal(t, "<p>/b</p>", snap.Content.Page.HTML)
}

func TestStaleTocFailureIsNotReported(t *testing.T) {
	srv := newGatedServer()
	srv.tocGates["api"] = make(chan struct{})
	srv.tocErrs["api"] = errors.New("toc unavailable")

	var reported []error
	var mu sync.Mutex
	ctrl := New(*config.DefaultConfig(), srv, nil, Callbacks{OnResponseError: func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}})
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- ctrl.LoadTocForPackage(ctx, "api", "") }()
	require.Equal(t, "toc:api", <-srv.started)

	require.NoError(t, ctrl.LoadTocForPackage(ctx, "manual", ""))
	close(srv.tocGates["api"])
	assert.ErrorIs(t, <-slow, ErrStale)

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, reported)
	assert.Equal(t, "manual", ctrl.Snapshot().TocPackageID)
}
