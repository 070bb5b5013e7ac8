package docettest

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"docetui/internal/domain"
)

// Fixture is the content served by a Server
type Fixture struct {
	Packages []domain.PackageDescriptor
	TOCs     map[string]string // package id -> toc fragment
	Pages    map[string]string // "package/pageId" -> page fragment
	Search   SearchFunc
}

// ManualTOC is a toc fragment three levels deep with a FAQ section
const ManualTOC = `<nav>
<ul class="docet-menu docet-menu-visible" package="manual">
 <li class="docet-menu docet-menu-hasmenu">
  <div class="docet-menu-closed"><a class="docet-menu-link" id="intro_it" package="manual" title="Introduction" href="/docs/pages/manual/intro_it.mndoc">Introduction</a></div>
  <ul class="docet-menu-submenu docet-menu-hidden">
   <li class="docet-menu-submenu docet-menu-hasmenu">
    <div class="docet-menu-closed"><a class="docet-menu-link" id="install_it" package="manual" title="Installation" href="/docs/pages/manual/install_it.mndoc">Installation</a></div>
    <ul class="docet-menu-submenu docet-menu-hidden">
     <li class="docet-menu-submenu docet-menu-hasmenu">
      <div class="docet-menu-closed"><a class="docet-menu-link" id="linux_it" package="manual" title="Linux" href="/docs/pages/manual/linux_it.mndoc">Linux</a></div>
      <ul class="docet-menu-submenu docet-menu-hidden">
       <li class="docet-menu-submenu"><div><a class="docet-menu-link" id="debian_it" package="manual" title="Debian" href="/docs/pages/manual/debian_it.mndoc">Debian</a></div></li>
      </ul>
     </li>
     <li class="docet-menu-submenu"><div><a class="docet-menu-link" id="windows_it" package="manual" title="Windows" href="/docs/pages/manual/windows_it.mndoc">Windows</a></div></li>
    </ul>
   </li>
  </ul>
 </li>
 <li class="docet-menu"><div><a class="docet-menu-link" id="usage_it" package="manual" title="Usage" href="/docs/pages/manual/usage_it.mndoc">Usage</a></div></li>
 <li class="docet-menu docet-menu-hasmenu">
  <div class="docet-menu-closed"><a class="docet-menu-link docet-faq-link docet-faq-mainlink" id="docet-faq-main-link" package="manual" href="/docs/pages/manual/faq_it.mndoc">FAQ</a></div>
  <ul class="docet-menu-submenu docet-menu-hidden" id="docet-faq-menu">
   <li class="docet-menu-submenu docet-menu-hasmenu">
    <div><a class="docet-menu-link docet-faq-link" id="faq_license_it" package="manual" href="/docs/pages/manual/faq_license_it.mndoc">License</a></div>
    <ul class="docet-menu-submenu docet-menu-hidden">
     <li class="docet-menu-submenu"><div><a class="docet-menu-link docet-faq-link" id="faq_license_terms_it" package="manual" href="/docs/pages/manual/faq_license_terms_it.mndoc">Terms</a></div></li>
    </ul>
   </li>
  </ul>
 </li>
</ul>
</nav>`

// APITOC is a flat toc for the second package
const APITOC = `<nav>
<ul class="docet-menu docet-menu-visible" package="api">
 <li class="docet-menu docet-menu-hasmenu">
  <div class="docet-menu-closed"><a class="docet-menu-link" id="reference_it" package="api" href="/docs/pages/api/reference_it.mndoc">Reference</a></div>
  <ul class="docet-menu-submenu docet-menu-hidden">
   <li class="docet-menu-submenu"><div><a class="docet-menu-link" id="endpoints_it" package="api" href="/docs/pages/api/endpoints_it.mndoc">Endpoints</a></div></li>
  </ul>
 </li>
</ul>
</nav>`

func page(title, body string) string {
	return fmt.Sprintf(`<div class="docet-page"><h1>%s</h1>%s<div class="docet-page-info docet-page-info-hidden"></div></div>`, title, body)
}

// Sample returns the fixture used across the test suites: a "manual"
// package with a deep toc, an "api" package and a "legacy" package the
// server reports as broken.
func Sample() Fixture {
	pages := map[string]string{
		"manual/main_it": page("Manual", `<p>Welcome to the manual.</p>`),
		"manual/intro_it": page("Introduction",
			`<p>Read about <a class="docet-page-link" id="usage_it" package="manual" href="/docs/pages/manual/usage_it.mndoc">usage</a> first.</p>`+
				`<p>Jump to <a class="docet-page-link" href="#setup">setup</a>.</p>`+
				`<h2 id="setup">Setup</h2><p>Run the installer.</p>`+
				`<p>See the <a class="docet-page-link" id="endpoints_it" package="api" href="/docs/pages/api/endpoints_it.mndoc">endpoints</a>.</p>`),
		"manual/install_it":           page("Installation", `<p>Pick your platform.</p>`),
		"manual/linux_it":             page("Linux", `<ul><li>apt</li><li>rpm</li></ul>`),
		"manual/debian_it":            page("Debian", `<pre>apt install docet</pre>`),
		"manual/windows_it":           page("Windows", `<p>Use the msi.</p>`),
		"manual/usage_it":             page("Usage", `<p>Start the service.</p>`),
		"manual/faq_it":               page("FAQ", `<p>Frequently asked questions.</p>`),
		"manual/faq_license_it":       page("License", `<p>Apache 2.0</p>`),
		"manual/faq_license_terms_it": page("Terms", `<p>No warranty.</p>`),
		"api/main_it":                 page("API", `<p>API overview.</p>`),
		"api/reference_it":            page("Reference", `<p>Reference.</p>`),
		"api/endpoints_it":            page("Endpoints", `<table><tr><td>GET</td><td>/toc</td></tr></table>`),
	}
	return Fixture{
		Packages: []domain.PackageDescriptor{
			{ID: "manual", Title: "User Manual", Description: "How to install and use docet", ImageLink: "/docs/images/manual.png", PackageLink: "/docs/pages/manual/main_it.mndoc", Language: "it", OK: true},
			{ID: "api", Title: "API Guide", Description: "HTTP API reference", ImageLink: "/docs/images/api.png", PackageLink: "/docs/pages/api/main_it.mndoc", Language: "it", OK: true},
			{ID: "legacy", Title: "Legacy", Language: "it", OK: false, ErrorMessage: "package not found"},
		},
		TOCs:   map[string]string{"manual": ManualTOC, "api": APITOC},
		Pages:  pages,
		Search: SampleSearch,
	}
}

type indexEntry struct {
	pkg, pkgName, id, title string
	crumbs                  []string
}

var sampleIndex = []indexEntry{
	{"manual", "User Manual", "intro_it", "Introduction", nil},
	{"manual", "User Manual", "install_it", "Installation", []string{"Introduction"}},
	{"manual", "User Manual", "linux_it", "Linux installation", []string{"Introduction", "Installation"}},
	{"manual", "User Manual", "debian_it", "Debian installation", []string{"Introduction", "Installation", "Linux"}},
	{"manual", "User Manual", "windows_it", "Windows installation", []string{"Introduction", "Installation"}},
	{"manual", "User Manual", "usage_it", "Usage", nil},
	{"api", "API Guide", "reference_it", "Reference", nil},
	{"api", "API Guide", "endpoints_it", "Endpoints", []string{"Reference"}},
}

// SampleSearch matches titles case-insensitively. The term "many" yields
// twelve hits in the manual package and "legacy" adds a failed group.
func SampleSearch(q url.Values) domain.SearchResponse {
	term := strings.ToLower(q.Get("q"))
	groups := map[string]*domain.PackageResults{}
	var order []string
	add := func(e indexEntry, title string) {
		g, ok := groups[e.pkg]
		if !ok {
			g = &domain.PackageResults{PackageID: e.pkg, PackageName: e.pkgName, PackageLink: "/docs/pages/" + e.pkg + "/main_it.mndoc", OK: true}
			groups[e.pkg] = g
			order = append(order, e.pkg)
		}
		g.Items = append(g.Items, domain.SearchResultItem{
			PackageID:    e.pkg,
			PageID:       e.id,
			PageLink:     "/docs/pages/" + e.pkg + "/" + e.id + ".mndoc",
			Language:     "it",
			Title:        title,
			PageAbstract: "About " + strings.ToLower(title),
			BreadCrumbs:  e.crumbs,
			Relevance:    100 - len(g.Items),
		})
	}

	if term == "many" {
		for i := 1; i <= 12; i++ {
			add(indexEntry{pkg: "manual", pkgName: "User Manual", id: "intro_it"}, fmt.Sprintf("Result %d", i))
		}
	} else {
		for _, e := range sampleIndex {
			if strings.Contains(strings.ToLower(e.title), term) {
				add(e, e.title)
			}
		}
	}
	sort.Strings(order)

	resp := domain.SearchResponse{Results: []domain.PackageResults{}}
	source := q.Get("sourcePkg")
	for _, id := range order {
		g := groups[id]
		resp.TotalCount += len(g.Items)
		if id == source {
			resp.CurrentPackage = id
			resp.CurrentPackageResults = g
			continue
		}
		resp.Results = append(resp.Results, *g)
	}
	if term == "legacy" {
		resp.Results = append(resp.Results, domain.PackageResults{PackageID: "legacy", PackageName: "Legacy", OK: false, ErrorMessage: "index unavailable"})
		resp.TotalPackageErrors++
	}
	return resp
}
