package stackla

import (
	"context"
	"strings"
	"time"
)

// Kind tags a resource type.
type Kind string

// Resource kinds known to the API.
const (
	KindTag    Kind = "tag"
	KindFilter Kind = "filter"
	KindTerm   Kind = "term"
	KindTile   Kind = "tile"
	KindWidget Kind = "widget"
)

// ParseKind normalises a user supplied kind name ("Tag", "tags", "tag").
func ParseKind(name string) Kind {
	kind := strings.ToLower(strings.TrimSpace(name))

	return Kind(strings.TrimSuffix(kind, "s"))
}

// Params is a query or body parameter set. Values may be scalars, slices or
// nested Params/maps.
type Params map[string]interface{}

// ListOptions represents list parameters for collection fetches.
type ListOptions struct {
	Page           int
	ResultsPerPage int
	Filters        Params
}

// NewListOptions creates empty list options.
func NewListOptions() *ListOptions {
	return &ListOptions{Filters: Params{}}
}

// WithPage sets the page number.
func (o *ListOptions) WithPage(page int) *ListOptions {
	o.Page = page

	return o
}

// WithResultsPerPage sets the page size.
func (o *ListOptions) WithResultsPerPage(perPage int) *ListOptions {
	o.ResultsPerPage = perPage

	return o
}

// WithFilter adds an arbitrary query parameter.
func (o *ListOptions) WithFilter(key string, value interface{}) *ListOptions {
	if o.Filters == nil {
		o.Filters = Params{}
	}

	o.Filters[key] = value

	return o
}

// ToParams converts the options to query parameters.
func (o *ListOptions) ToParams() Params {
	params := Params{}
	if o == nil {
		return params
	}

	for key, value := range o.Filters {
		params[key] = value
	}

	if o.Page > 0 {
		params["page"] = o.Page
	}

	if o.ResultsPerPage > 0 {
		params["resultsPerPage"] = o.ResultsPerPage
	}

	return params
}

// Resource is the contract shared by every remote resource.
type Resource interface {
	Kind() Kind
	Endpoint() string
	ID() string

	Get(name string) (interface{}, error)
	Set(name string, value interface{}) error
	Attributes() []string
	DirtyAttributes() []string
	ToMap(onlyDirty bool) map[string]interface{}
	FromMap(attributes map[string]interface{}) error
	FromJSON(data []byte) error

	Errors() []FieldError
	IsPlaceholder() bool
	Validate() []FieldError

	Create(ctx context.Context) error
	Update(ctx context.Context, force bool) error
	FetchByID(ctx context.Context, id string) error
	List(ctx context.Context, options *ListOptions) ([]Resource, error)
	Delete(ctx context.Context) (bool, error)
}

// Tag types.
const (
	TagTypeContent     int64 = 1
	TagTypeCompetition int64 = 2
)

// Tag represents a content tag.
type Tag interface {
	Resource

	TagName() string
	SetTagName(name string)
	Slug() string
	SetSlug(slug string)
	CustomSlug() string
	SetCustomSlug(slug string)
	Type() int64
	SetType(tagType int64)
	CustomURL() string
	SetCustomURL(url string)
	PubliclyVisible() bool
	SetPubliclyVisible(visible bool)
	CreatedAt() time.Time
}

// Filter represents a saved content filter.
type Filter interface {
	Resource

	Name() string
	SetName(name string)
	Sort() string
	SetSort(sort string)
	Networks() []string
	SetNetworks(networks []string)
	Media() []string
	SetMedia(media []string)
	TagIDs() []int64
	SetTagIDs(ids []int64)
	Enabled() bool
	SetEnabled(enabled bool)
}

// Term represents an aggregation term (hashtag, account, keyword, ...).
type Term interface {
	Resource

	Name() string
	SetName(name string)
	SearchTerm() string
	SetSearchTerm(term string)
	TermType() string
	SetTermType(termType string)
	Network() string
	SetNetwork(network string)
	Active() bool
	SetActive(active bool)
}

// Tile statuses.
const (
	TileStatusPublished = "published"
	TileStatusQueued    = "queued"
	TileStatusDisabled  = "disabled"
)

// Tile represents an aggregated piece of content.
type Tile interface {
	Resource

	Message() string
	SetMessage(message string)
	Status() string
	SetStatus(status string)
	TagIDs() []int64
	SetTagIDs(ids []int64)
	Source() string
}

// Widget types.
const (
	WidgetTypeFluid  = "fluid"
	WidgetTypeStatic = "fixed"
)

// Widget style presets.
const (
	WidgetStyleVerticalFluid   = "fluid"
	WidgetStyleHorizontalFluid = "horizontal-fluid"
	WidgetStyleCarousel        = "carousel"
	WidgetStyleScroll          = "main"
	WidgetStyleSlideshow       = "slideshow"
	WidgetStyleAuto            = "auto"
	WidgetStyleBaseWaterfall   = "base_waterfall"
	WidgetStyleBaseCarousel    = "base_carousel"
	WidgetStyleBaseFeed        = "base_feed"
	WidgetStyleBaseBillboard   = "base_billboard"
	WidgetStyleBaseSlideshow   = "base_slideshow"
)

// Widget represents an embeddable widget.
type Widget interface {
	Resource

	Name() string
	SetName(name string)
	WidgetType() string
	SetWidgetType(widgetType string)
	TypeStyle() string
	SetTypeStyle(style string)
	MaxTileWidth() int64
	SetMaxTileWidth(width int64)
	FilterID() int64
	SetFilterID(id int64)
	Style() map[string]interface{}
	SetStyle(style map[string]interface{})
	Config() map[string]interface{}
	SetConfig(config map[string]interface{})
	CustomCSS() string
	SetCustomCSS(css string)
	CustomJS() string
	SetCustomJS(js string)
	ExternalJS() string
	SetExternalJS(js string)
	ParentID() int64
	SetParentID(id int64)
	EmbedCode() string

	ApplyStyleDefaults()
	Duplicate(ctx context.Context) (Widget, error)
	Derive(ctx context.Context, filterID int64, name string) (Widget, error)
}
