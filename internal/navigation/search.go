package navigation

import (
	"strconv"
	"strings"

	"docetui/internal/config"
	"docetui/internal/domain"
)

// SearchGroup holds the already fetched hits of one package. Only the
// first Visible items are shown.
type SearchGroup struct {
	PackageID   string
	PackageName string
	PackageLink string
	Items       []domain.SearchResultItem
	Visible     int
	PageSize    int
}

// HasMore reports whether hidden items remain
func (g SearchGroup) HasMore() bool {
	return g.Visible < len(g.Items)
}

// CanShowLess reports whether more than one page is shown
func (g SearchGroup) CanShowLess() bool {
	return g.Visible > g.PageSize
}

// VisibleItems returns the items currently shown
func (g SearchGroup) VisibleItems() []domain.SearchResultItem {
	return g.Items[:g.Visible]
}

// SearchResults is the rendered result page of one search
type SearchResults struct {
	Term         string
	TotalCount   int
	PackageCount int
	Groups       []SearchGroup
}

// Group returns the group of a package
func (r *SearchResults) Group(packageID string) (*SearchGroup, bool) {
	for i := range r.Groups {
		if r.Groups[i].PackageID == packageID {
			return &r.Groups[i], true
		}
	}
	return nil, false
}

func (r *SearchResults) clone() *SearchResults {
	c := *r
	c.Groups = append([]SearchGroup(nil), r.Groups...)
	return &c
}

// Message renders the result count line with the configured strings
func (r *SearchResults) Message(loc config.Localization) string {
	if r.TotalCount > 0 {
		return strings.NewReplacer(
			"${num}", strconv.Itoa(r.TotalCount),
			"${term}", r.Term,
			"${numPkg}", strconv.Itoa(r.PackageCount),
		).Replace(loc.SomeResultsFound)
	}
	return strings.ReplaceAll(loc.NoResultsFound, "${term}", r.Term)
}

// buildResults orders the groups (current package first), drops empty
// ones and returns the groups that failed on the server.
func buildResults(term string, resp *domain.SearchResponse, pageSize int) (*SearchResults, []domain.PackageResults) {
	all := make([]domain.PackageResults, 0, len(resp.Results)+1)
	if resp.CurrentPackageResults != nil {
		all = append(all, *resp.CurrentPackageResults)
	}
	all = append(all, resp.Results...)

	res := &SearchResults{Term: term, TotalCount: resp.TotalCount}
	var failed []domain.PackageResults
	found := 0
	for _, pr := range all {
		if len(pr.Items) > 0 {
			found++
		}
		if !pr.OK {
			failed = append(failed, pr)
			continue
		}
		if len(pr.Items) == 0 {
			continue
		}
		res.Groups = append(res.Groups, SearchGroup{
			PackageID:   pr.PackageID,
			PackageName: pr.PackageName,
			PackageLink: pr.PackageLink,
			Items:       pr.Items,
			Visible:     min(pageSize, len(pr.Items)),
			PageSize:    pageSize,
		})
	}
	res.PackageCount = max(found-resp.TotalPackageErrors, 0)
	return res, failed
}
