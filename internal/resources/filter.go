package resources

import (
	"context"

	stacklahttp "github.com/fivetwenty-io/stackla-go/internal/http"
	"github.com/fivetwenty-io/stackla-go/internal/model"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

//nolint:gochecknoglobals // schemas are static declarations
var filterSchema = model.MustSchema(stackla.KindFilter, "filters",
	model.Attribute{Name: "id", Type: model.TypeInt, ReadOnly: true},
	model.Attribute{Name: "name", Type: model.TypeString, Rules: "required,max=255"},
	model.Attribute{Name: "sort", Type: model.TypeString, Rules: "oneof=latest votes score"},
	model.Attribute{Name: "networks", Type: model.TypeList},
	model.Attribute{Name: "media", Type: model.TypeList},
	model.Attribute{Name: "tags", Type: model.TypeList},
	model.Attribute{Name: "enabled", Type: model.TypeInt, Rules: "oneof=0 1"},
	model.Attribute{Name: "created_at", Type: model.TypeTime, ReadOnly: true},
	model.Attribute{Name: "updated_at", Type: model.TypeTime, ReadOnly: true},
)

// Filter implements stackla.Filter.
type Filter struct {
	*model.Model
}

var _ stackla.Filter = (*Filter)(nil)

// NewFilter creates a filter; a non-empty id makes it a placeholder.
func NewFilter(transport *stacklahttp.Client, id string) *Filter {
	return &Filter{Model: newModel(filterSchema, transport, id)}
}

// Name returns the filter name.
func (f *Filter) Name() string {
	return f.GetString("name")
}

// SetName sets the filter name.
func (f *Filter) SetName(name string) {
	f.MustSet("name", name)
}

// Sort returns the tile ordering: latest, votes or score.
func (f *Filter) Sort() string {
	return f.GetString("sort")
}

// SetSort sets the tile ordering.
func (f *Filter) SetSort(sort string) {
	f.MustSet("sort", sort)
}

// Networks returns the social networks the filter draws from.
func (f *Filter) Networks() []string {
	return f.GetStrings("networks")
}

// SetNetworks restricts the filter to networks.
func (f *Filter) SetNetworks(networks []string) {
	f.MustSet("networks", networks)
}

// Media returns the media types the filter accepts.
func (f *Filter) Media() []string {
	return f.GetStrings("media")
}

// SetMedia restricts the filter to media types.
func (f *Filter) SetMedia(media []string) {
	f.MustSet("media", media)
}

// TagIDs returns the ids of the tags the filter matches.
func (f *Filter) TagIDs() []int64 {
	return f.GetInt64s("tags")
}

// SetTagIDs sets the ids of the tags the filter matches.
func (f *Filter) SetTagIDs(ids []int64) {
	f.MustSet("tags", ids)
}

// Enabled reports whether the filter is enabled.
func (f *Filter) Enabled() bool {
	return f.GetInt("enabled") == 1
}

// SetEnabled enables or disables the filter.
func (f *Filter) SetEnabled(enabled bool) {
	f.MustSet("enabled", flag(enabled))
}

// List fetches a page of filters.
func (f *Filter) List(ctx context.Context, options *stackla.ListOptions) ([]stackla.Resource, error) {
	return list(ctx, f.Model, options, func(m *model.Model) stackla.Resource {
		return &Filter{Model: m}
	})
}
