// Package dom renders the navigation state as the HTML document the docet
// browser script would have produced. Every state class (toc visibility,
// submenu open/closed, selection, visible search results) is derived from
// a navigation.Snapshot; nothing is read back from the document.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"docetui/internal/config"
	"docetui/internal/navigation"
	"docetui/internal/toc"
)

// Class names of the generated document
const (
	ClassTocVisible     = "docet-toc-visible"
	ClassTocHidden      = "docet-toc-hidden"
	ClassMenuVisible    = "docet-menu-visible"
	ClassMenuHidden     = "docet-menu-hidden"
	ClassMenuOpen       = "docet-menu-open"
	ClassMenuClosed     = "docet-menu-closed"
	ClassSelected       = "selected"
	ClassResultVisible  = "docet-search-result-visible"
	ClassResultHidden   = "docet-search-result-hidden"
	ClassLinkVisible    = "docet-link-visible"
	ClassLinkHidden     = "docet-link-hidden"
	ClassBreadcrumb     = "docet-breadcrumb"
	ClassPackageCard    = "docet-package-card"
	ClassSearchMessage  = "docet-search-message"
	ClassSearchShowMore = "docet-search-show-more"
	ClassSearchShowLess = "docet-search-show-less"
	ClassSearchPackage  = "docet-search-package"
	ClassSearchResult   = "docet-search-result"
	ClassPageIDBadge    = "docet-page-id"
)

// Renderer builds documents for one configuration
type Renderer struct {
	cfg config.Config
}

// NewRenderer creates a renderer
func NewRenderer(cfg config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render writes the document for a snapshot
func (r *Renderer) Render(w io.Writer, snap navigation.Snapshot) error {
	doc, err := r.Build(snap)
	if err != nil {
		return err
	}
	return html.Render(w, doc)
}

// RenderString returns the document for a snapshot
func (r *Renderer) RenderString(snap navigation.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, snap); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Build returns the document tree for a snapshot
func (r *Renderer) Build(snap navigation.Snapshot) (*html.Node, error) {
	el := r.cfg.Elements
	loc := r.cfg.Localization

	tocClass := ClassTocHidden
	if snap.TocVisible {
		tocClass = ClassTocVisible
	}
	main := elem(atom.Div, "id", el.Main, "class", "docet-main "+tocClass)

	title := elem(atom.H1, "class", "docet-title")
	title.AppendChild(text(loc.PageTitle))
	main.AppendChild(title)

	main.AppendChild(r.searchBox())
	main.AppendChild(r.breadcrumbs(snap))
	main.AppendChild(r.menu(snap))

	content := elem(atom.Div, "id", el.Content, "class", "docet-content")
	switch snap.Content.Kind {
	case navigation.ViewHome:
		r.cards(content, snap)
	case navigation.ViewPage:
		if err := r.page(content, snap); err != nil {
			return nil, err
		}
	case navigation.ViewSearch:
		r.results(content, snap)
	}
	main.AppendChild(content)

	footer := elem(atom.Div, "id", el.Footer, "class", "docet-footer")
	top := elem(atom.A, "href", "#"+el.Main, "class", "docet-top-link")
	top.AppendChild(text(loc.TopLink))
	footer.AppendChild(top)
	main.AppendChild(footer)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := elem(atom.Html, "lang", r.cfg.Language)
	head := elem(atom.Head)
	t := elem(atom.Title)
	t.AppendChild(text(loc.PageTitle))
	head.AppendChild(t)
	root.AppendChild(head)
	body := elem(atom.Body)
	body.AppendChild(main)
	root.AppendChild(body)
	doc.AppendChild(root)
	return doc, nil
}

func (r *Renderer) searchBox() *html.Node {
	loc := r.cfg.Localization
	box := elem(atom.Div, "id", r.cfg.Elements.Search, "class", "docet-search")
	box.AppendChild(elem(atom.Input, "type", "text", "class", "docet-search-input", "placeholder", loc.SearchInputPlaceholder))
	btn := elem(atom.Button, "class", "docet-search-button")
	btn.AppendChild(text(loc.SearchButtonLabel))
	box.AppendChild(btn)
	return box
}

func (r *Renderer) breadcrumbs(snap navigation.Snapshot) *html.Node {
	bc := elem(atom.Div, "id", r.cfg.Elements.Breadcrumbs, "class", "docet-breadcrumbs")
	for i, c := range snap.Breadcrumbs {
		if i > 0 {
			sep := elem(atom.Span, "class", "docet-breadcrumb-separator")
			sep.AppendChild(text(" > "))
			bc.AppendChild(sep)
		}
		class := ClassBreadcrumb
		if c.Home {
			class += " docet-breadcrumb-home"
		}
		last := i == len(snap.Breadcrumbs)-1
		var n *html.Node
		if last && !c.Home {
			n = elem(atom.Span, "class", class+" docet-breadcrumb-current")
		} else {
			n = elem(atom.A, "class", class, "href", c.Link, "package", c.PackageID, "id", crumbID(c.ID))
		}
		n.AppendChild(text(c.Label))
		bc.AppendChild(n)
	}
	return bc
}

func crumbID(id string) string {
	if id == "" {
		return ""
	}
	return "docet-breadcrumb-" + id
}

func (r *Renderer) menu(snap navigation.Snapshot) *html.Node {
	anchor := elem(atom.Div, "id", r.cfg.Elements.Menu, "class", "docet-menu-container")
	if snap.Tree == nil {
		return anchor
	}
	st := snap.Toc
	if st == nil {
		st = toc.NewState()
	}
	visible := ClassMenuHidden
	if snap.TocVisible {
		visible = ClassMenuVisible
	}
	ul := elem(atom.Ul, "class", toc.ClassMenu+" "+visible, "package", snap.Tree.PackageID)
	for _, n := range snap.Tree.Roots {
		ul.AppendChild(menuItem(n, st, toc.ClassMenu))
	}
	anchor.AppendChild(ul)
	return anchor
}

func menuItem(n *toc.Node, st *toc.State, liClass string) *html.Node {
	class := liClass
	if n.HasChildren() {
		class += " docet-menu-hasmenu"
	}
	li := elem(atom.Li, "class", class)

	state := ""
	if n.HasChildren() {
		state = ClassMenuClosed
		if st.IsExpanded(n.ID) {
			state = ClassMenuOpen
		}
	}
	div := elem(atom.Div, "class", state)

	linkClass := "docet-menu-link"
	if n.FAQ {
		linkClass += " docet-faq-link"
	}
	if n.FAQMain {
		linkClass += " docet-faq-mainlink"
	}
	if st.Selected() == n.ID {
		linkClass += " " + ClassSelected
	}
	a := elem(atom.A, "class", linkClass, "id", n.ID, "package", n.PackageID, "href", n.Link)
	a.AppendChild(text(n.Label))
	div.AppendChild(a)
	li.AppendChild(div)

	if n.HasChildren() {
		sub := ClassMenuHidden
		if st.IsExpanded(n.ID) {
			sub = ClassMenuVisible
		}
		ul := elem(atom.Ul, "class", "docet-menu-submenu "+sub)
		for _, c := range n.Children {
			ul.AppendChild(menuItem(c, st, "docet-menu-submenu"))
		}
		li.AppendChild(ul)
	}
	return li
}

func (r *Renderer) cards(content *html.Node, snap navigation.Snapshot) {
	desc := elem(atom.P, "class", "docet-main-description")
	desc.AppendChild(text(r.cfg.Localization.MainPageDescription))
	content.AppendChild(desc)

	list := elem(atom.Div, "class", "docet-packages")
	for _, p := range snap.Content.Packages {
		card := elem(atom.Div, "class", ClassPackageCard, "id", "docet-package-"+p.ID)
		if p.ImageLink != "" {
			card.AppendChild(elem(atom.Img, "src", p.ImageLink, "alt", p.Title))
		}
		h := elem(atom.H2)
		a := elem(atom.A, "href", p.PackageLink, "package", p.ID, "class", "docet-package-link")
		a.AppendChild(text(p.Title))
		h.AppendChild(a)
		card.AppendChild(h)
		d := elem(atom.P)
		d.AppendChild(text(p.Description))
		card.AppendChild(d)
		list.AppendChild(card)
	}
	content.AppendChild(list)
}

func (r *Renderer) page(content *html.Node, snap navigation.Snapshot) error {
	p := snap.Content.Page
	nodes, err := html.ParseFragment(strings.NewReader(p.HTML), content)
	if err != nil {
		return fmt.Errorf("parsing page %s: %w", p.Ref.ID, err)
	}
	for _, n := range nodes {
		content.AppendChild(n)
	}
	if r.cfg.Profile.ShowPageID && snap.CurrentPageID != "" {
		badge := elem(atom.Div, "class", ClassPageIDBadge)
		badge.AppendChild(text(snap.CurrentPageID))
		content.AppendChild(badge)
	}
	if p.Fragment != "" {
		content.Attr = append(content.Attr, html.Attribute{Key: "data-scroll-to", Val: p.Fragment})
	}
	return nil
}

func (r *Renderer) results(content *html.Node, snap navigation.Snapshot) {
	res := snap.Content.Search
	loc := r.cfg.Localization

	wrap := elem(atom.Div, "class", "docet-search-results")
	h := elem(atom.H2, "class", "docet-search-title")
	h.AppendChild(text(loc.SearchResultTitle))
	wrap.AppendChild(h)
	msg := elem(atom.Div, "class", ClassSearchMessage)
	msg.AppendChild(text(res.Message(loc)))
	wrap.AppendChild(msg)

	for _, g := range res.Groups {
		group := elem(atom.Div, "class", ClassSearchPackage, "id", "docet-search-package-"+g.PackageID, "package", g.PackageID)
		gh := elem(atom.H3)
		ga := elem(atom.A, "href", g.PackageLink, "package", g.PackageID)
		ga.AppendChild(text(g.PackageName))
		gh.AppendChild(ga)
		found := elem(atom.Span, "class", "docet-search-package-count")
		found.AppendChild(text(" " + strings.ReplaceAll(loc.PackageResultsFound, "${num}", fmt.Sprint(len(g.Items)))))
		gh.AppendChild(found)
		group.AppendChild(gh)

		for i, it := range g.Items {
			vis := ClassResultHidden
			if i < g.Visible {
				vis = ClassResultVisible
			}
			item := elem(atom.Div, "class", ClassSearchResult+" "+vis)
			a := elem(atom.A, "class", "docet-search-result-link", "href", it.PageLink, "id", it.PageID, "package", it.PackageID)
			a.AppendChild(text(it.Title))
			item.AppendChild(a)
			if len(it.BreadCrumbs) > 0 {
				bc := elem(atom.Div, "class", "docet-search-result-breadcrumbs")
				bc.AppendChild(text(strings.Join(it.BreadCrumbs, " > ")))
				item.AppendChild(bc)
			}
			if it.PageAbstract != "" {
				ab := elem(atom.P, "class", "docet-search-result-abstract")
				ab.AppendChild(text(it.PageAbstract))
				item.AppendChild(ab)
			}
			group.AppendChild(item)
		}

		more := elem(atom.A, "class", ClassSearchShowMore+" "+linkVisibility(g.HasMore()), "package", g.PackageID)
		more.AppendChild(text(loc.ShowMoreResults + " " + g.PackageName))
		group.AppendChild(more)
		less := elem(atom.A, "class", ClassSearchShowLess+" "+linkVisibility(g.CanShowLess()), "package", g.PackageID)
		less.AppendChild(text(loc.ShowLessResults))
		group.AppendChild(less)

		wrap.AppendChild(group)
	}
	content.AppendChild(wrap)
}

func linkVisibility(v bool) string {
	if v {
		return ClassLinkVisible
	}
	return ClassLinkHidden
}

// elem creates an element. attrs are key/value pairs; empty values are
// left out.
func elem(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] == "" {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
