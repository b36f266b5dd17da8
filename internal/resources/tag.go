package resources

import (
	"context"
	"time"

	stacklahttp "github.com/fivetwenty-io/stackla-go/internal/http"
	"github.com/fivetwenty-io/stackla-go/internal/model"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

//nolint:gochecknoglobals // schemas are static declarations
var tagSchema = model.MustSchema(stackla.KindTag, "tags",
	model.Attribute{Name: "id", Type: model.TypeInt, ReadOnly: true},
	model.Attribute{Name: "tag", Type: model.TypeString, Rules: "required,max=255"},
	model.Attribute{Name: "slug", Type: model.TypeString, Rules: "max=255"},
	model.Attribute{Name: "custom_slug", Type: model.TypeString, Rules: "max=255"},
	model.Attribute{Name: "type", Type: model.TypeInt, Rules: "required,oneof=1 2"},
	model.Attribute{Name: "custom_url", Type: model.TypeString, Rules: "url"},
	model.Attribute{Name: "publicly_visible", Type: model.TypeInt, Rules: "oneof=0 1"},
	model.Attribute{Name: "system_tag_id", Type: model.TypeInt, ReadOnly: true},
	model.Attribute{Name: "created_at", Type: model.TypeTime, ReadOnly: true},
	model.Attribute{Name: "updated_at", Type: model.TypeTime, ReadOnly: true},
)

// Tag implements stackla.Tag.
type Tag struct {
	*model.Model
}

var _ stackla.Tag = (*Tag)(nil)

// NewTag creates a tag; a non-empty id makes it a placeholder.
func NewTag(transport *stacklahttp.Client, id string) *Tag {
	return &Tag{Model: newModel(tagSchema, transport, id)}
}

// TagName returns the display name of the tag.
func (t *Tag) TagName() string {
	return t.GetString("tag")
}

// SetTagName sets the display name of the tag.
func (t *Tag) SetTagName(name string) {
	t.MustSet("tag", name)
}

// Slug returns the slug generated by the server.
func (t *Tag) Slug() string {
	return t.GetString("slug")
}

// SetSlug sets the slug.
func (t *Tag) SetSlug(slug string) {
	t.MustSet("slug", slug)
}

// CustomSlug returns the user supplied slug.
func (t *Tag) CustomSlug() string {
	return t.GetString("custom_slug")
}

// SetCustomSlug sets the user supplied slug.
func (t *Tag) SetCustomSlug(slug string) {
	t.MustSet("custom_slug", slug)
}

// Type returns the tag type, stackla.TagTypeContent or stackla.TagTypeCompetition.
func (t *Tag) Type() int64 {
	return t.GetInt("type")
}

// SetType sets the tag type.
func (t *Tag) SetType(tagType int64) {
	t.MustSet("type", tagType)
}

// CustomURL returns the link attached to the tag.
func (t *Tag) CustomURL() string {
	return t.GetString("custom_url")
}

// SetCustomURL sets the link attached to the tag.
func (t *Tag) SetCustomURL(url string) {
	t.MustSet("custom_url", url)
}

// PubliclyVisible reports whether the tag is shown to end users.
func (t *Tag) PubliclyVisible() bool {
	return t.GetInt("publicly_visible") == 1
}

// SetPubliclyVisible sets the visibility flag, sent as 0 or 1.
func (t *Tag) SetPubliclyVisible(vis bool) {
	t.MustSet("publicly_visible", flag(vis))
}

// CreatedAt returns the creation time, zero before the tag is created.
func (t *Tag) CreatedAt() time.Time {
	return t.GetTime("created_at")
}

// List fetches a page of tags.
func (t *Tag) List(ctx context.Context, options *stackla.ListOptions) ([]stackla.Resource, error) {
	return list(ctx, t.Model, options, func(m *model.Model) stackla.Resource {
		return &Tag{Model: m}
	})
}
