package domain

// PackageDescriptor describes a documentation package as listed by the server
type PackageDescriptor struct {
	ID           string `json:"packageid"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageLink    string `json:"imageLink"`
	PackageLink  string `json:"packageLink"`
	Language     string `json:"lang"`
	OK           bool   `json:"ok"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// PackageListResponse is the body returned by the package list endpoint
type PackageListResponse struct {
	Items        []PackageDescriptor `json:"items"`
	Status       int                 `json:"status"`
	ErrorCode    string              `json:"errorCode,omitempty"`
	ErrorMessage string              `json:"errorMessage,omitempty"`
}

// PackageRef is the registry entry kept for breadcrumb label lookups
type PackageRef struct {
	Link  string
	Label string
}

// PageRef points at a navigable page. It can come from the TOC, a page
// link, a breadcrumb or a search result.
type PageRef struct {
	ID        string
	PackageID string
	Link      string
	Title     string
}

// SearchResultItem is a single page hit
type SearchResultItem struct {
	PackageID        string   `json:"packageId"`
	PageID           string   `json:"pageId"`
	PageLink         string   `json:"pageLink"`
	Language         string   `json:"language"`
	Title            string   `json:"title"`
	PageAbstract     string   `json:"pageAbstract"`
	MatchExplanation string   `json:"matchExplanation,omitempty"`
	BreadCrumbs      []string `json:"breadCrumbs"`
	Relevance        int      `json:"relevance"`
}

// Ref returns the page reference used to open this hit
func (i SearchResultItem) Ref() PageRef {
	return PageRef{ID: i.PageID, PackageID: i.PackageID, Link: i.PageLink, Title: i.Title}
}

// PackageResults groups the hits of one package
type PackageResults struct {
	PackageID    string             `json:"packageid"`
	PackageName  string             `json:"packagename"`
	PackageLink  string             `json:"packagelink"`
	OK           bool               `json:"ok"`
	ErrorMessage string             `json:"errorMessage,omitempty"`
	Items        []SearchResultItem `json:"items"`
}

// SearchResponse is the body returned by the search endpoint
type SearchResponse struct {
	TotalCount            int              `json:"totalCount"`
	TotalPackageErrors    int              `json:"totalPackageErrors"`
	CurrentPackage        string           `json:"currentpackage"`
	Results               []PackageResults `json:"results"`
	CurrentPackageResults *PackageResults  `json:"currentPackageResults,omitempty"`
}

// Crumb is one element of the breadcrumb trail
type Crumb struct {
	ID        string
	Label     string
	Link      string
	PackageID string
	Home      bool
}
