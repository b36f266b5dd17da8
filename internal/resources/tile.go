package resources

import (
	"context"

	stacklahttp "github.com/fivetwenty-io/stackla-go/internal/http"
	"github.com/fivetwenty-io/stackla-go/internal/model"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// Tile ids are opaque strings.
//
//nolint:gochecknoglobals // schemas are static declarations
var tileSchema = model.MustSchema(stackla.KindTile, "tiles",
	model.Attribute{Name: "id", Type: model.TypeString, ReadOnly: true},
	model.Attribute{Name: "message", Type: model.TypeString},
	model.Attribute{Name: "status", Type: model.TypeString, Rules: "oneof=published queued disabled"},
	model.Attribute{Name: "tags", Type: model.TypeList},
	model.Attribute{Name: "source", Type: model.TypeString, ReadOnly: true},
	model.Attribute{Name: "name", Type: model.TypeString, ReadOnly: true},
	model.Attribute{Name: "image_url", Type: model.TypeString, ReadOnly: true},
	model.Attribute{Name: "score", Type: model.TypeFloat, ReadOnly: true},
	model.Attribute{Name: "created_at", Type: model.TypeTime, ReadOnly: true},
)

// Tile implements stackla.Tile.
type Tile struct {
	*model.Model
}

var _ stackla.Tile = (*Tile)(nil)

// NewTile creates a tile; a non-empty id makes it a placeholder.
func NewTile(transport *stacklahttp.Client, id string) *Tile {
	return &Tile{Model: newModel(tileSchema, transport, id)}
}

// Message returns the tile text.
func (t *Tile) Message() string {
	return t.GetString("message")
}

// SetMessage sets the tile text.
func (t *Tile) SetMessage(message string) {
	t.MustSet("message", message)
}

// Status returns the moderation status.
func (t *Tile) Status() string {
	return t.GetString("status")
}

// SetStatus sets the moderation status, e.g. stackla.TileStatusPublished.
func (t *Tile) SetStatus(status string) {
	t.MustSet("status", status)
}

// TagIDs returns the ids of the tags applied to the tile.
func (t *Tile) TagIDs() []int64 {
	return t.GetInt64s("tags")
}

// SetTagIDs sets the ids of the tags applied to the tile.
func (t *Tile) SetTagIDs(ids []int64) {
	t.MustSet("tags", ids)
}

// Source returns the network the tile was aggregated from.
func (t *Tile) Source() string {
	return t.GetString("source")
}

// List fetches a page of tiles.
func (t *Tile) List(ctx context.Context, options *stackla.ListOptions) ([]stackla.Resource, error) {
	return list(ctx, t.Model, options, func(m *model.Model) stackla.Resource {
		return &Tile{Model: m}
	})
}
