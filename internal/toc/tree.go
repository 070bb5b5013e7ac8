// Package toc models a package table of contents. Tree is the immutable
// structure parsed from the server fragment; State holds what the user
// sees of it (expanded submenus and the selected entry).
package toc

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"docetui/internal/domain"
)

// CSS classes of the toc markup
const (
	ClassMenu        = "docet-menu"
	ClassSubmenu     = "docet-menu-submenu"
	ClassMenuLink    = "docet-menu-link"
	ClassFAQLink     = "docet-faq-link"
	ClassFAQMainLink = "docet-faq-mainlink"
	FAQMainLinkID    = "docet-faq-main-link"
)

// ErrNoMenu is returned when the fragment has no menu list
var ErrNoMenu = errors.New("toc fragment has no menu list")

// Node is one entry of the toc
type Node struct {
	ID        string
	Label     string
	Link      string
	PackageID string
	FAQ       bool
	FAQMain   bool
	Depth     int
	Parent    *Node
	Children  []*Node
}

// HasChildren reports whether the node owns a submenu
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// PageID is the id of the page the node links to
func (n *Node) PageID() string {
	if n.ID != FAQMainLinkID && n.ID != "" {
		return n.ID
	}
	return domain.PageIDFromLink(n.Link)
}

// Ref returns a page reference for the node
func (n *Node) Ref() domain.PageRef {
	return domain.PageRef{ID: n.PageID(), PackageID: n.PackageID, Link: n.Link, Title: n.Label}
}

// Tree is a parsed toc. It is never modified after Parse.
type Tree struct {
	PackageID string
	Roots     []*Node

	nodes []*Node // document order
	byID  map[string]*Node
}

// Parse builds a tree from the toc fragment served by the docet server
func Parse(fragment string) (*Tree, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	frags, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing toc: %w", err)
	}

	var menu *html.Node
	for _, f := range frags {
		if menu = findMenu(f); menu != nil {
			break
		}
	}
	if menu == nil {
		return nil, ErrNoMenu
	}

	t := &Tree{
		PackageID: attr(menu, "package"),
		byID:      make(map[string]*Node),
	}
	t.Roots = t.parseList(menu, nil, 0)
	return t, nil
}

// Node returns the node for a page id, or nil
func (t *Tree) Node(id string) *Node {
	if t == nil {
		return nil
	}
	return t.byID[id]
}

// Len returns the number of nodes
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Nodes returns every node in document order
func (t *Tree) Nodes() []*Node {
	if t == nil {
		return nil
	}
	return t.nodes
}

// Ancestors returns the chain from the root down to the parent of id
func (t *Tree) Ancestors(id string) []*Node {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	var chain []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func (t *Tree) parseList(ul *html.Node, parent *Node, depth int) []*Node {
	var out []*Node
	for li := ul.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		n := t.parseItem(li, parent, depth)
		if n == nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (t *Tree) parseItem(li *html.Node, parent *Node, depth int) *Node {
	var a, sub *html.Node
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.A:
			if a == nil {
				a = c
			}
		case atom.Div:
			if a == nil {
				a = findElement(c, atom.A)
			}
		case atom.Ul:
			if sub == nil {
				sub = c
			}
		}
	}
	if a == nil {
		return nil
	}

	link := attr(a, "docetref")
	if link == "" {
		link = attr(a, "href")
	}
	n := &Node{
		ID:        attr(a, "id"),
		Label:     strings.Join(strings.Fields(textContent(a)), " "),
		Link:      link,
		PackageID: attr(a, "package"),
		FAQ:       hasClass(a, ClassFAQLink),
		FAQMain:   hasClass(a, ClassFAQMainLink) || attr(a, "id") == FAQMainLinkID,
		Depth:     depth,
		Parent:    parent,
	}
	if n.ID == "" {
		n.ID = domain.PageIDFromLink(link)
	}
	if n.PackageID == "" {
		n.PackageID = t.PackageID
	}
	t.nodes = append(t.nodes, n)
	t.index(n.ID, n)
	// the FAQ main entry is also reachable through the id of its page
	if pid := n.PageID(); pid != n.ID {
		t.index(pid, n)
	}

	if sub != nil {
		n.Children = t.parseList(sub, n, depth+1)
	}
	return n
}

func (t *Tree) index(id string, n *Node) {
	if id == "" {
		return
	}
	if _, dup := t.byID[id]; !dup {
		t.byID[id] = n
	}
}

func findMenu(n *html.Node) *html.Node {
	var first *html.Node
	var walk func(*html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.DataAtom == atom.Ul {
			if hasClass(n, ClassMenu) {
				return n
			}
			if first == nil {
				first = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if m := walk(c); m != nil {
				return m
			}
		}
		return nil
	}
	if m := walk(n); m != nil {
		return m
	}
	return first
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if f := findElement(c, a); f != nil {
			return f
		}
	}
	return nil
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
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
