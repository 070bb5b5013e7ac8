// Package docet talks to a docet documentation server. Every call is a plain
// GET; JSON bodies are decoded into domain types, HTML fragments are
// returned as strings for the toc and content parsers.
package docet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/sync/singleflight"

	"docetui/internal/config"
	"docetui/internal/domain"
)

// maxBody caps the size of any response
const maxBody = 8 << 20

// ErrTooLarge is returned for responses over the body limit
var ErrTooLarge = errors.New("response body too large")

// ContentServer is the set of requests the navigation controller issues
type ContentServer interface {
	Packages(ctx context.Context, lang string, ids []string) (*domain.PackageListResponse, error)
	TOC(ctx context.Context, packageID, lang string) (string, error)
	Search(ctx context.Context, q SearchQuery) (*domain.SearchResponse, error)
	Page(ctx context.Context, link string) (string, error)
	PageLink(packageID, pageID string) string
}

// SearchQuery holds the parameters of a search request
type SearchQuery struct {
	Term          string
	SourcePackage string
	Packages      []string
	Lang          string
}

// StatusError is returned for any non-200 response
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("docet server returned %d for %s", e.Code, e.URL)
	}
	return fmt.Sprintf("docet server returned %d for %s: %s", e.Code, e.URL, e.Body)
}

// Client is the HTTP implementation of ContentServer
type Client struct {
	root      *url.URL
	urls      config.URLConfig
	params    map[string]string
	userAgent string
	http      *http.Client
	inflight  singleflight.Group
	maxBody   int64
}

// NewClient creates a client for the server configured in cfg. Responses
// are transparently gzip decoded.
func NewClient(cfg config.Config) (*Client, error) {
	return NewClientWithHTTP(cfg, &http.Client{
		Timeout:   cfg.Timeout(),
		Transport: gzhttp.Transport(http.DefaultTransport),
	})
}

// NewClientWithHTTP creates a client using the given http.Client
func NewClientWithHTTP(cfg config.Config, hc *http.Client) (*Client, error) {
	root, err := url.Parse(strings.TrimSuffix(cfg.Server.URL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", cfg.Server.URL, err)
	}
	if root.Scheme == "" || root.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing scheme or host", cfg.Server.URL)
	}
	params := make(map[string]string, len(cfg.Server.Params))
	for k, v := range cfg.Server.Params {
		params[k] = v
	}
	return &Client{
		root:      root,
		urls:      cfg.URLs,
		params:    params,
		userAgent: cfg.Server.UserAgent,
		http:      hc,
		maxBody:   maxBody,
	}, nil
}

// Packages fetches the package list, optionally restricted to ids
func (c *Client) Packages(ctx context.Context, lang string, ids []string) (*domain.PackageListResponse, error) {
	q := url.Values{}
	q.Set("lang", lang)
	for _, id := range ids {
		q.Add("id", id)
	}
	var resp domain.PackageListResponse
	if err := c.getJSON(ctx, c.endpoint(c.urls.PackageList), q, &resp); err != nil {
		return nil, fmt.Errorf("package list: %w", err)
	}
	return &resp, nil
}

// TOC fetches the table of contents fragment of a package
func (c *Client) TOC(ctx context.Context, packageID, lang string) (string, error) {
	q := url.Values{}
	q.Set("packageId", packageID)
	q.Set("lang", lang)
	body, err := c.get(ctx, c.endpoint(c.urls.TOC), q)
	if err != nil {
		return "", fmt.Errorf("toc for %s: %w", packageID, err)
	}
	return string(body), nil
}

// Search runs a full text search
func (c *Client) Search(ctx context.Context, sq SearchQuery) (*domain.SearchResponse, error) {
	q := url.Values{}
	q.Set("q", sq.Term)
	if sq.SourcePackage != "" {
		q.Set("sourcePkg", sq.SourcePackage)
	}
	for _, p := range sq.Packages {
		q.Add("enablePkg", p)
	}
	q.Set("lang", sq.Lang)
	var resp domain.SearchResponse
	if err := c.getJSON(ctx, c.endpoint(c.urls.Search), q, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", sq.Term, err)
	}
	return &resp, nil
}

// Page fetches a page fragment. link is resolved against the server url,
// so both absolute paths and full urls are accepted.
func (c *Client) Page(ctx context.Context, link string) (string, error) {
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid page link %q: %w", link, err)
	}
	u := c.root.ResolveReference(ref)
	u.Fragment = ""
	q := u.Query()
	u.RawQuery = ""
	body, err := c.get(ctx, u.String(), q)
	if err != nil {
		return "", fmt.Errorf("page %s: %w", domain.PageIDFromLink(link), err)
	}
	return string(body), nil
}

// PageLink builds the link of a page from its package and id. The link is
// relative to the server url.
func (c *Client) PageLink(packageID, pageID string) string {
	link := c.basePath() + c.urls.Pages + "/" + url.PathEscape(packageID) + "/" + url.PathEscape(pageID) + ".mndoc"
	return strings.TrimPrefix(link, "/")
}

func (c *Client) basePath() string {
	base := strings.Trim(c.urls.Base, "/")
	if base == "" {
		return ""
	}
	return "/" + base
}

func (c *Client) endpoint(path string) string {
	return c.root.ResolveReference(&url.URL{Path: strings.TrimPrefix(c.basePath()+path, "/")}).String()
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, v any) error {
	body, err := c.get(ctx, endpoint, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// get performs the request. Identical requests in flight at the same time
// share one round trip; the shared request is not cancelled with any one
// caller's ctx and is bounded by the client timeout instead.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	for k, v := range c.params {
		q.Set(k, v)
	}
	full := endpoint
	if enc := q.Encode(); enc != "" {
		full += "?" + enc
	}

	ch := c.inflight.DoChan(full, func() (interface{}, error) {
		return c.do(context.WithoutCancel(ctx), full)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("fetching %s: %w", full, ctx.Err())
	}
}

func (c *Client) do(ctx context.Context, full string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", full, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Code: resp.StatusCode, URL: full, Body: strings.TrimSpace(string(body))}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", full, err)
	}
	if int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("reading %s: %w (limit %d bytes)", full, ErrTooLarge, c.maxBody)
	}
	return data, nil
}
