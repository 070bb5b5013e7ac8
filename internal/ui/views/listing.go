package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"docetui/internal/config"
	"docetui/internal/domain"
	"docetui/internal/navigation"
)

// ItemKind tells what enter does on a content entry
type ItemKind int

const (
	ItemCard ItemKind = iota
	ItemResult
	ItemShowMore
	ItemShowLess
)

// Item is an entry of the content pane the cursor can stop on
type Item struct {
	Kind      ItemKind
	Line      int
	Ref       domain.PageRef
	PackageID string
	Hint      string // shown in the status bar while hovered
}

// Listing is a rendered list of package cards or search results
type Listing struct {
	Lines []string
	Items []Item
}

type listing struct {
	styles *Styles
	width  int
	cursor int
	out    Listing
}

func (l *listing) line(s string) {
	l.out.Lines = append(l.out.Lines, ansi.Truncate(s, l.width, "…"))
}

func (l *listing) wrapped(s string, indent int) {
	pad := strings.Repeat(" ", indent)
	for _, w := range strings.Split(ansi.Wordwrap(s, max(l.width-indent, 10), ""), "\n") {
		l.line(pad + l.styles.Dim.Render(w))
	}
}

// item adds a selectable row; the row under the cursor gets the
// selection background
func (l *listing) item(it Item, text string) {
	it.Line = len(l.out.Lines)
	prefix := "  "
	if len(l.out.Items) == l.cursor {
		prefix = "▶ "
		text = ansi.Truncate(prefix+text, l.width, "…")
		if w := lipgloss.Width(text); w < l.width {
			text += strings.Repeat(" ", l.width-w)
		}
		l.out.Lines = append(l.out.Lines, l.styles.SelectionBg.Render(text))
	} else {
		l.line(prefix + text)
	}
	l.out.Items = append(l.out.Items, it)
}

// RenderCards lays out the package cards of the home view
func (r *Renderer) RenderCards(pkgs []domain.PackageDescriptor, loc config.Localization, cursor, width int) Listing {
	s := r.styles
	l := &listing{styles: s, width: width, cursor: cursor}
	l.line(s.Dim.Render(loc.MainPageDescription))
	l.line("")
	for _, p := range pkgs {
		title := p.Title
		if title == "" {
			title = p.ID
		}
		l.item(Item{
			Kind:      ItemCard,
			PackageID: p.ID,
			Ref: domain.PageRef{
				ID:        domain.PageIDFromLink(p.PackageLink),
				PackageID: p.ID,
				Link:      p.PackageLink,
				Title:     title,
			},
			Hint: p.PackageLink,
		}, s.Card.Render(title))
		if p.Description != "" {
			l.wrapped(p.Description, 4)
		}
		l.line("")
	}
	return l.out
}

// RenderResults lays out the result groups of a search. Only the
// visible items of every group are listed.
func (r *Renderer) RenderResults(res *navigation.SearchResults, loc config.Localization, cursor, width int) Listing {
	s := r.styles
	l := &listing{styles: s, width: width, cursor: cursor}
	l.line(res.Message(loc))
	l.line("")
	for _, g := range res.Groups {
		found := strings.ReplaceAll(loc.PackageResultsFound, "${num}", fmt.Sprint(len(g.Items)))
		l.line(s.Group.Render(g.PackageName) + s.Dim.Render(" ("+found+")"))
		for _, it := range g.VisibleItems() {
			l.item(Item{
				Kind:      ItemResult,
				PackageID: g.PackageID,
				Ref:       it.Ref(),
				Hint:      strings.Join(it.BreadCrumbs, " › "),
			}, highlightMatch(it.Title, res.Term, s.Highlight, lipgloss.NewStyle()))
			if it.PageAbstract != "" {
				l.wrapped(it.PageAbstract, 4)
			}
		}
		if g.HasMore() {
			l.item(Item{Kind: ItemShowMore, PackageID: g.PackageID},
				s.More.Render(loc.ShowMoreResults+" "+g.PackageName))
		}
		if g.CanShowLess() {
			l.item(Item{Kind: ItemShowLess, PackageID: g.PackageID}, s.More.Render(loc.ShowLessResults))
		}
		l.line("")
	}
	return l.out
}

// highlightMatch highlights the first occurrence of query in text
func highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	index := strings.Index(lowerText, lowerQuery)
	if lowerQuery == "" || index == -1 || len(lowerText) != len(text) {
		return normalStyle.Render(text)
	}

	before := text[:index]
	match := text[index : index+len(lowerQuery)]
	after := text[index+len(lowerQuery):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}
	return strings.Join(result, "")
}
