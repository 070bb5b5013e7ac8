// Package docettest provides an in-process docet server for tests
package docettest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"

	"docetui/internal/domain"
)

// Endpoint names used by Hits and Fail
const (
	EndpointPackages = "package"
	EndpointTOC      = "toc"
	EndpointSearch   = "search"
	EndpointPages    = "pages"
)

// SearchFunc computes the response of a search request
type SearchFunc func(q url.Values) domain.SearchResponse

// Server is a docet server backed by in-memory fixtures. It is mounted
// under /docs like the default configuration expects.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	packages []domain.PackageDescriptor
	tocs     map[string]string
	pages    map[string]string
	search   SearchFunc
	hits     map[string]int
	queries  map[string][]url.Values
	failures map[string]int
}

// New starts a server with the given fixture
func New(f Fixture) *Server {
	s := &Server{
		packages: f.Packages,
		tocs:     f.TOCs,
		pages:    f.Pages,
		search:   f.Search,
		hits:     make(map[string]int),
		queries:  make(map[string][]url.Values),
		failures: make(map[string]int),
	}
	if s.tocs == nil {
		s.tocs = map[string]string{}
	}
	if s.pages == nil {
		s.pages = map[string]string{}
	}
	s.Server = httptest.NewServer(gzhttp.GzipHandler(s.routes()))
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/docs", func(r chi.Router) {
		r.Get("/package", s.handlePackages)
		r.Get("/toc", s.handleTOC)
		r.Get("/search", s.handleSearch)
		r.Get("/pages/{pkg}/{page}", s.handlePage)
	})
	return r
}

// Hits returns how many requests an endpoint received
func (s *Server) Hits(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[endpoint]
}

// Queries returns the query strings an endpoint received, oldest first
func (s *Server) Queries(endpoint string) []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.queries[endpoint]...)
}

// Fail makes every following request to endpoint answer with status.
// A zero status restores normal behaviour.
func (s *Server) Fail(endpoint string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, endpoint)
		return
	}
	s.failures[endpoint] = status
}

// SetPage replaces or adds a page fragment
func (s *Server) SetPage(packageID, pageID, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[packageID+"/"+pageID] = html
}

// record counts the request and reports an injected failure status
func (s *Server) record(endpoint string, r *http.Request) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits[endpoint]++
	s.queries[endpoint] = append(s.queries[endpoint], r.URL.Query())
	return s.failures[endpoint]
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	if status := s.record(EndpointPackages, r); status != 0 {
		http.Error(w, "package list unavailable", status)
		return
	}
	ids := r.URL.Query()["id"]
	resp := domain.PackageListResponse{Status: 0}
	s.mu.Lock()
	for _, p := range s.packages {
		if len(ids) > 0 && !contains(ids, p.ID) {
			continue
		}
		resp.Items = append(resp.Items, p)
	}
	s.mu.Unlock()
	writeJSON(w, resp)
}

func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	if status := s.record(EndpointTOC, r); status != 0 {
		http.Error(w, "toc unavailable", status)
		return
	}
	s.mu.Lock()
	toc, ok := s.tocs[r.URL.Query().Get("packageId")]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(toc))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if status := s.record(EndpointSearch, r); status != 0 {
		http.Error(w, "search unavailable", status)
		return
	}
	resp := domain.SearchResponse{Results: []domain.PackageResults{}}
	if s.search != nil {
		resp = s.search(r.URL.Query())
	}
	writeJSON(w, resp)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if status := s.record(EndpointPages, r); status != 0 {
		http.Error(w, "page unavailable", status)
		return
	}
	page := chi.URLParam(r, "page")
	if i := strings.Index(page, "."); i >= 0 {
		page = page[:i]
	}
	s.mu.Lock()
	html, ok := s.pages[chi.URLParam(r, "pkg")+"/"+page]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
