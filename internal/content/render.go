// Package content turns docet page fragments into terminal text.
package content

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"docetui/internal/domain"
)

const (
	classPageInfo     = "docet-page-info"
	classPageInfoHide = "docet-page-info-hidden"
)

// Link is a link found in a page
type Link struct {
	Index int // 1-based, as printed after the link text
	Text  string
	Ref   domain.PageRef
	Line  int
}

// Internal reports whether the link only points to an anchor of the same
// page
func (l Link) Internal() bool {
	return strings.HasPrefix(l.Ref.Link, "#")
}

// Document is a rendered page
type Document struct {
	Title   string
	Lines   []string
	Links   []Link
	Anchors map[string]int // element id -> line
}

// String returns the rendered lines joined by newlines
func (d *Document) String() string {
	return strings.Join(d.Lines, "\n")
}

// AnchorLine returns the line of an element id, or 0
func (d *Document) AnchorLine(id string) int {
	if id == "" {
		return 0
	}
	return d.Anchors[id]
}

// LinkAt returns the first link shown on a line
func (d *Document) LinkAt(line int) (Link, bool) {
	for _, l := range d.Links {
		if l.Line == line {
			return l, true
		}
	}
	return Link{}, false
}

// Styles used by the renderer
type Styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Link     lipgloss.Style
	Code     lipgloss.Style
	Badge    lipgloss.Style
	Dim      lipgloss.Style
	Selected lipgloss.Style
}

// DefaultStyles returns the styles used by the TUI
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Link:     lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39")),
		Code:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("241")).Padding(0, 1),
		Dim:      lipgloss.NewStyle().Faint(true),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("238")).Bold(true),
	}
}

// PlainStyles renders without any escape sequence
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Heading: s, Link: s, Code: s, Badge: s, Dim: s, Selected: s}
}

// Options control rendering
type Options struct {
	Width  int
	Styles Styles
	// PageID is printed as a badge above the page when set
	PageID string
	// Selected is the index of the link drawn with Styles.Selected, 0 for none
	Selected int
}

// Render parses a page fragment and lays it out for the given width
func Render(fragment string, opts Options) (*Document, error) {
	root, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}

	r := &renderer{opts: opts, doc: &Document{Anchors: make(map[string]int)}}
	if opts.PageID != "" {
		r.doc.Lines = append(r.doc.Lines, opts.Styles.Badge.Render(opts.PageID), "")
	}
	for _, n := range root {
		r.walk(n)
	}
	r.flush()
	// drop trailing blank lines
	for len(r.doc.Lines) > 0 && r.doc.Lines[len(r.doc.Lines)-1] == "" {
		r.doc.Lines = r.doc.Lines[:len(r.doc.Lines)-1]
	}
	return r.doc, nil
}

type renderer struct {
	opts Options
	doc  *Document

	buf     strings.Builder
	prefix  string
	style   *lipgloss.Style
	pending []int    // links in buf, by index into doc.Links
	anchors []string // ids waiting for the next line
	pre     bool
	title   bool
}

func (r *renderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.text(n.Data)
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			r.walk(c)
		}
		return
	}

	if hasClass(n, classPageInfo) && hasClass(n, classPageInfoHide) {
		return
	}
	if id := attr(n, "id"); id != "" && n.DataAtom != atom.A {
		if isBlock(n.DataAtom) {
			r.flush()
		}
		r.anchors = append(r.anchors, id)
	}

	switch n.DataAtom {
	case atom.Script, atom.Style:
		return
	case atom.Br:
		r.flush()
		return
	case atom.H1:
		r.title = true
		r.block(func() {
			st := r.opts.Styles.Title
			r.withStyle(&st, n)
		})
		r.title = false
		r.blank()
		return
	case atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		r.blank()
		r.block(func() {
			st := r.opts.Styles.Heading
			r.withStyle(&st, n)
		})
		return
	case atom.P:
		r.block(func() { r.children(n) })
		r.blank()
		return
	case atom.Li:
		r.flush()
		old := r.prefix
		r.buf.WriteString(old + "• ")
		r.prefix = old + "  "
		r.children(n)
		r.flush()
		r.prefix = old
		return
	case atom.Ul, atom.Ol:
		r.block(func() { r.children(n) })
		r.blank()
		return
	case atom.Pre:
		r.flush()
		r.pre = true
		st := r.opts.Styles.Code
		r.withStyle(&st, n)
		r.flush()
		r.pre = false
		r.blank()
		return
	case atom.Tr:
		r.flush()
		first := true
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if !first {
				r.buf.WriteString(" │ ")
			}
			first = false
			r.children(c)
		}
		r.flush()
		return
	case atom.Table, atom.Div, atom.Section, atom.Article:
		r.block(func() { r.children(n) })
		return
	case atom.A:
		r.link(n)
		return
	case atom.Img:
		if alt := attr(n, "alt"); alt != "" {
			dim := r.opts.Styles.Dim
			r.emit(dim.Render("[" + alt + "]"))
		}
		return
	}
	r.children(n)
}

func (r *renderer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

func (r *renderer) block(fn func()) {
	r.flush()
	fn()
	r.flush()
}

func (r *renderer) withStyle(st *lipgloss.Style, n *html.Node) {
	old := r.style
	r.style = st
	r.children(n)
	r.style = old
}

func (r *renderer) text(s string) {
	if r.pre {
		lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
		for i, l := range lines {
			if i > 0 {
				r.flush()
			}
			r.emit(l)
		}
		return
	}
	if strings.TrimSpace(s) == "" {
		if r.buf.Len() > 0 && s != "" {
			r.emit(" ")
		}
		return
	}
	words := strings.Fields(s)
	out := strings.Join(words, " ")
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		out = " " + out
	}
	last := s[len(s)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		out += " "
	}
	r.emit(out)
}

func (r *renderer) emit(s string) {
	if r.buf.Len() == 0 {
		if !r.pre {
			s = strings.TrimLeft(s, " ")
		}
		if s == "" {
			return
		}
		r.buf.WriteString(r.prefix)
	}
	if r.style != nil {
		s = r.style.Render(s)
	}
	r.buf.WriteString(s)
}

func (r *renderer) link(n *html.Node) {
	href := attr(n, "href")
	text := strings.Join(strings.Fields(textContent(n)), " ")
	if href == "" {
		r.emit(text)
		return
	}
	id := attr(n, "id")
	if id == "" && !strings.HasPrefix(href, "#") {
		id = domain.PageIDFromLink(href)
	}
	l := Link{
		Index: len(r.doc.Links) + 1,
		Text:  text,
		Ref:   domain.PageRef{ID: id, PackageID: attr(n, "package"), Link: href, Title: attr(n, "title")},
	}
	r.doc.Links = append(r.doc.Links, l)
	r.pending = append(r.pending, len(r.doc.Links)-1)

	st := r.opts.Styles.Link
	if l.Index == r.opts.Selected {
		st = r.opts.Styles.Selected
	}
	old := r.style
	r.style = nil
	r.emit(st.Render(text) + fmt.Sprintf("[%d]", l.Index))
	r.style = old
}

// flush wraps the current line into the document
func (r *renderer) flush() {
	if r.buf.Len() == 0 {
		return
	}
	line := strings.TrimRight(r.buf.String(), " ")
	r.buf.Reset()

	var wrapped []string
	if r.pre {
		wrapped = []string{ansi.Truncate(line, r.opts.Width, "…")}
	} else {
		wrapped = strings.Split(ansi.Wordwrap(line, r.opts.Width, ""), "\n")
		for i := 1; i < len(wrapped); i++ {
			if !strings.HasPrefix(wrapped[i], r.prefix) {
				wrapped[i] = r.prefix + wrapped[i]
			}
		}
	}

	start := len(r.doc.Lines)
	for _, id := range r.anchors {
		if _, seen := r.doc.Anchors[id]; !seen {
			r.doc.Anchors[id] = start
		}
	}
	r.anchors = nil
	if r.doc.Title == "" && r.title {
		r.doc.Title = strings.TrimSpace(ansi.Strip(line))
	}

	for _, idx := range r.pending {
		marker := fmt.Sprintf("[%d]", r.doc.Links[idx].Index)
		r.doc.Links[idx].Line = start
		for i, w := range wrapped {
			if strings.Contains(ansi.Strip(w), marker) {
				r.doc.Links[idx].Line = start + i
				break
			}
		}
	}
	r.pending = nil
	r.doc.Lines = append(r.doc.Lines, wrapped...)
}

// blank adds one empty line unless the document already ends with one
func (r *renderer) blank() {
	r.flush()
	if n := len(r.doc.Lines); n > 0 && r.doc.Lines[n-1] != "" {
		r.doc.Lines = append(r.doc.Lines, "")
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.P, atom.Li,
		atom.Ul, atom.Ol, atom.Pre, atom.Tr, atom.Table, atom.Div, atom.Section, atom.Article:
		return true
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
