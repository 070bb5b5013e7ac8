package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPackageListLoaded   EventType = "PackageListLoaded"
	EventTocLoaded           EventType = "TocLoaded"
	EventTocVisibility       EventType = "TocVisibilityChanged"
	EventTocNodeToggled      EventType = "TocNodeToggled"
	EventPageOpened          EventType = "PageOpened"
	EventSearchCompleted     EventType = "SearchCompleted"
	EventSearchPaged         EventType = "SearchPaged"
	EventNavigatedHome       EventType = "NavigatedHome"
	EventError               EventType = "Error"
	EventResponseError       EventType = "ResponseError"
	EventSearchError         EventType = "SearchError"
	EventPackageListError    EventType = "PackageListError"
	EventConfigLoaded        EventType = "ConfigLoaded"
	EventConfigSaved         EventType = "ConfigSaved"
	EventAppReady            EventType = "AppReady"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PackageListLoadedEvent is emitted after the package registry was refreshed
type PackageListLoadedEvent struct {
	Packages  []PackageDescriptor
	ShowCards bool
}

func (e PackageListLoadedEvent) Type() EventType { return EventPackageListLoaded }

// TocLoadedEvent is emitted when a new TOC tree replaced the previous one
type TocLoadedEvent struct {
	PackageID string
	Nodes     int
}

func (e TocLoadedEvent) Type() EventType { return EventTocLoaded }

// TocVisibilityEvent is emitted when the TOC pane is shown or hidden
type TocVisibilityEvent struct {
	Visible bool
}

func (e TocVisibilityEvent) Type() EventType { return EventTocVisibility }

// TocNodeToggledEvent is emitted when a submenu is expanded or collapsed
type TocNodeToggledEvent struct {
	NodeID   string
	Expanded bool
}

func (e TocNodeToggledEvent) Type() EventType { return EventTocNodeToggled }

// PageOpenedEvent is emitted when page content was replaced
type PageOpenedEvent struct {
	Page     PageRef
	Fragment string
}

func (e PageOpenedEvent) Type() EventType { return EventPageOpened }

// SearchCompletedEvent is emitted when search results replaced the content
type SearchCompletedEvent struct {
	Term         string
	TotalCount   int
	PackageCount int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchPagedEvent is emitted when more or fewer results of a group are shown
type SearchPagedEvent struct {
	PackageID string
	Visible   int
	Total     int
}

func (e SearchPagedEvent) Type() EventType { return EventSearchPaged }

// NavigatedHomeEvent is emitted when the controller returned to the package list
type NavigatedHomeEvent struct{}

func (e NavigatedHomeEvent) Type() EventType { return EventNavigatedHome }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ResponseErrorEvent is emitted when a request to the content server failed
type ResponseErrorEvent struct {
	Err error
}

func (e ResponseErrorEvent) Type() EventType { return EventResponseError }

// SearchErrorEvent is emitted for every package whose search failed
type SearchErrorEvent struct {
	Result PackageResults
}

func (e SearchErrorEvent) Type() EventType { return EventSearchError }

// PackageListErrorEvent is emitted for every package listed as not ok
type PackageListErrorEvent struct {
	Package PackageDescriptor
}

func (e PackageListErrorEvent) Type() EventType { return EventPackageListError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path      string
	ServerURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// AppReadyEvent is emitted once the UI is running
type AppReadyEvent struct{}

func (e AppReadyEvent) Type() EventType { return EventAppReady }
