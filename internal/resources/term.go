package resources

import (
	"context"

	stacklahttp "github.com/fivetwenty-io/stackla-go/internal/http"
	"github.com/fivetwenty-io/stackla-go/internal/model"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

//nolint:gochecknoglobals // schemas are static declarations
var termSchema = model.MustSchema(stackla.KindTerm, "terms",
	model.Attribute{Name: "id", Type: model.TypeInt, ReadOnly: true},
	model.Attribute{Name: "name", Type: model.TypeString, Rules: "required,max=255"},
	model.Attribute{Name: "term", Type: model.TypeString, Rules: "required"},
	model.Attribute{Name: "type", Type: model.TypeString, Rules: "required,oneof=hashtag user keyword page location"},
	model.Attribute{Name: "network", Type: model.TypeString, Rules: "required,oneof=twitter facebook instagram youtube pinterest tumblr flickr"},
	model.Attribute{Name: "active", Type: model.TypeInt, Rules: "oneof=0 1"},
	model.Attribute{Name: "num_of_backfill", Type: model.TypeInt, Rules: "min=0"},
	model.Attribute{Name: "created_at", Type: model.TypeTime, ReadOnly: true},
)

// Term implements stackla.Term.
type Term struct {
	*model.Model
}

var _ stackla.Term = (*Term)(nil)

// NewTerm creates a term; a non-empty id makes it a placeholder.
func NewTerm(transport *stacklahttp.Client, id string) *Term {
	return &Term{Model: newModel(termSchema, transport, id)}
}

// Name returns the term name.
func (t *Term) Name() string {
	return t.GetString("name")
}

// SetName sets the term name.
func (t *Term) SetName(name string) {
	t.MustSet("name", name)
}

// SearchTerm returns the hashtag, account or keyword being aggregated.
func (t *Term) SearchTerm() string {
	return t.GetString("term")
}

// SetSearchTerm sets the hashtag, account or keyword.
func (t *Term) SetSearchTerm(term string) {
	t.MustSet("term", term)
}

// TermType returns the kind of term, e.g. hashtag or user.
func (t *Term) TermType() string {
	return t.GetString("type")
}

// SetTermType sets the kind of term.
func (t *Term) SetTermType(termType string) {
	t.MustSet("type", termType)
}

// Network returns the social network the term is searched on.
func (t *Term) Network() string {
	return t.GetString("network")
}

// SetNetwork sets the social network.
func (t *Term) SetNetwork(network string) {
	t.MustSet("network", network)
}

// Active reports whether aggregation is running.
func (t *Term) Active() bool {
	return t.GetInt("active") == 1
}

// SetActive starts or stops aggregation.
func (t *Term) SetActive(active bool) {
	t.MustSet("active", flag(active))
}

// List fetches a page of terms.
func (t *Term) List(ctx context.Context, options *stackla.ListOptions) ([]stackla.Resource, error) {
	return list(ctx, t.Model, options, func(m *model.Model) stackla.Resource {
		return &Term{Model: m}
	})
}
