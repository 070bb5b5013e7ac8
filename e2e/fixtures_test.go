//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fakePackage struct {
	ID          string `json:"packageid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PackageLink string `json:"packageLink"`
	Language    string `json:"lang"`
	OK          bool   `json:"ok"`
}

type fakeResult struct {
	PackageID    string   `json:"packageId"`
	PageID       string   `json:"pageId"`
	PageLink     string   `json:"pageLink"`
	Language     string   `json:"language"`
	Title        string   `json:"title"`
	PageAbstract string   `json:"pageAbstract"`
	BreadCrumbs  []string `json:"breadCrumbs"`
	Relevance    int      `json:"relevance"`
}

type fakeGroup struct {
	PackageID   string       `json:"packageid"`
	PackageName string       `json:"packagename"`
	PackageLink string       `json:"packagelink"`
	OK          bool         `json:"ok"`
	Items       []fakeResult `json:"items"`
}

var fakePackages = []fakePackage{
	{ID: "manual", Title: "User Manual", Description: "How to install and use docet", PackageLink: "/docs/pages/manual/main_it.mndoc", Language: "it", OK: true},
	{ID: "api", Title: "API Guide", Description: "HTTP API reference", PackageLink: "/docs/pages/api/main_it.mndoc", Language: "it", OK: true},
}

const fakeManualTOC = `<nav>
<ul class="docet-menu docet-menu-visible" package="manual">
 <li class="docet-menu"><div><a class="docet-menu-link" id="install_it" package="manual" href="/docs/pages/manual/install_it.mndoc">Installation</a></div></li>
 <li class="docet-menu"><div><a class="docet-menu-link" id="usage_it" package="manual" href="/docs/pages/manual/usage_it.mndoc">Usage</a></div></li>
</ul>
</nav>`

var fakePages = map[string]string{
	"manual/main_it":    fakePage("Manual", `<p>Welcome to the manual.</p>`),
	"manual/install_it": fakePage("Installation", `<p>Pick your platform.</p>`),
	"manual/usage_it":   fakePage("Usage", `<p>Start the service.</p>`),
	"api/main_it":       fakePage("API", `<p>API overview.</p>`),
}

func fakePage(title, body string) string {
	return fmt.Sprintf(`<div class="docet-page"><h1>%s</h1>%s</div>`, title, body)
}

// StartDocetServer serves a small docet instance under /docs
func StartDocetServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/docs", func(r chi.Router) {
		r.Get("/package", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, map[string]any{"status": 0, "items": fakePackages})
		})
		r.Get("/toc", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("packageId") != "manual" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(fakeManualTOC))
		})
		r.Get("/pages/{pkg}/{page}", func(w http.ResponseWriter, r *http.Request) {
			page, _, _ := strings.Cut(chi.URLParam(r, "page"), ".")
			html, ok := fakePages[chi.URLParam(r, "pkg")+"/"+page]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(html))
		})
		r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, fakeSearch(r.URL.Query().Get("q")))
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func fakeSearch(term string) map[string]any {
	group := fakeGroup{PackageID: "manual", PackageName: "User Manual", PackageLink: "/docs/pages/manual/main_it.mndoc", OK: true}
	for _, p := range []struct{ id, title string }{{"install_it", "Installation"}, {"usage_it", "Usage"}} {
		if !strings.Contains(strings.ToLower(p.title), strings.ToLower(term)) {
			continue
		}
		group.Items = append(group.Items, fakeResult{
			PackageID:    "manual",
			PageID:       p.id,
			PageLink:     "/docs/pages/manual/" + p.id + ".mndoc",
			Language:     "it",
			Title:        p.title,
			PageAbstract: "About " + strings.ToLower(p.title),
			BreadCrumbs:  []string{},
			Relevance:    100,
		})
	}
	results := []fakeGroup{}
	if len(group.Items) > 0 {
		results = append(results, group)
	}
	return map[string]any{
		"totalCount":         len(group.Items),
		"totalPackageErrors": 0,
		"results":            results,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
