package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	stacklahttp "github.com/fivetwenty-io/stackla-go/internal/http"
	"github.com/fivetwenty-io/stackla-go/internal/model"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// Keys of the style map that back the derived widget accessors.
const (
	styleName         = "name"
	styleType         = "type"
	styleTypeStyle    = "style"
	styleMaxTileWidth = "max_tile_width"

	configTileOptions = "tile_options"
	configLightbox    = "lightbox"
)

//nolint:gochecknoglobals // schemas are static declarations
var widgetSchema = model.MustSchema(stackla.KindWidget, "widgets",
	model.Attribute{Name: "id", Type: model.TypeInt, ReadOnly: true},
	model.Attribute{Name: "stack_id", Type: model.TypeInt, ReadOnly: true},
	model.Attribute{Name: "guid", Type: model.TypeString, ReadOnly: true},
	model.Attribute{Name: "style", Type: model.TypeMap, Rules: "required"},
	model.Attribute{Name: "config", Type: model.TypeMap},
	model.Attribute{Name: "css", Type: model.TypeString},
	model.Attribute{Name: "filter_id", Type: model.TypeInt, Rules: "required"},
	model.Attribute{Name: "enabled", Type: model.TypeInt, Rules: "oneof=0 1"},
	model.Attribute{Name: "custom_css", Type: model.TypeString},
	model.Attribute{Name: "source_css", Type: model.TypeString},
	model.Attribute{Name: "custom_js", Type: model.TypeString},
	model.Attribute{Name: "external_js", Type: model.TypeString},
	model.Attribute{Name: "parent_id", Type: model.TypeInt},
	model.Attribute{Name: "embed_code", Type: model.TypeString, ReadOnly: true},
)

//nolint:gochecknoglobals // rules of the values kept inside the style map
var widgetStyleRules = []model.Attribute{
	{Name: styleName, Type: model.TypeString, Rules: "required,min=3,max=255"},
	{Name: styleType, Type: model.TypeString, Rules: "required,oneof=" + stackla.WidgetTypeFluid + " " + stackla.WidgetTypeStatic},
	{Name: "type_style", Type: model.TypeString, Rules: "required,oneof=" + strings.Join(append(append([]string{}, fluidStyles...), staticStyles...), " ")},
}

// Widget implements stackla.Widget. Name, type, type style and max tile width
// live inside the style map.
type Widget struct {
	*model.Model
}

var _ stackla.Widget = (*Widget)(nil)

// NewWidget creates a widget; a non-empty id makes it a placeholder.
func NewWidget(transport *stacklahttp.Client, id string) *Widget {
	return &Widget{Model: newModel(widgetSchema, transport, id)}
}

func (w *Widget) styleValue(key string) interface{} {
	return w.GetMap("style")[key]
}

func (w *Widget) setStyleValue(key string, value interface{}) {
	style := w.GetMap("style")
	if style == nil {
		style = map[string]interface{}{}
	}

	style[key] = value
	w.MustSet("style", style)
}

// Name returns style.name.
func (w *Widget) Name() string {
	name, _ := w.styleValue(styleName).(string)

	return name
}

// SetName sets style.name.
func (w *Widget) SetName(name string) {
	w.setStyleValue(styleName, name)
}

// WidgetType returns style.type, "fluid" or "fixed".
func (w *Widget) WidgetType() string {
	widgetType, _ := w.styleValue(styleType).(string)

	return widgetType
}

// SetWidgetType sets style.type.
func (w *Widget) SetWidgetType(widgetType string) {
	w.setStyleValue(styleType, widgetType)
}

// TypeStyle returns style.style.
func (w *Widget) TypeStyle() string {
	typeStyle, _ := w.styleValue(styleTypeStyle).(string)

	return typeStyle
}

// SetTypeStyle sets style.style and, for known styles, the matching widget
// type.
func (w *Widget) SetTypeStyle(typeStyle string) {
	w.setStyleValue(styleTypeStyle, typeStyle)

	if widgetType, ok := typeForStyle(typeStyle); ok {
		w.SetWidgetType(widgetType)
	}
}

// MaxTileWidth returns style.max_tile_width.
func (w *Widget) MaxTileWidth() int64 {
	return int64Value(w.styleValue(styleMaxTileWidth))
}

// SetMaxTileWidth sets style.max_tile_width.
func (w *Widget) SetMaxTileWidth(width int64) {
	w.setStyleValue(styleMaxTileWidth, width)
}

// FilterID returns the id of the filter the widget shows.
func (w *Widget) FilterID() int64 {
	return w.GetInt("filter_id")
}

// SetFilterID sets the filter the widget shows.
func (w *Widget) SetFilterID(id int64) {
	w.MustSet("filter_id", id)
}

// Style returns a copy of the style map.
func (w *Widget) Style() map[string]interface{} {
	return w.GetMap("style")
}

// SetStyle replaces the style map.
func (w *Widget) SetStyle(style map[string]interface{}) {
	w.MustSet("style", style)
}

// Config returns a copy of the config map.
func (w *Widget) Config() map[string]interface{} {
	return w.GetMap("config")
}

// SetConfig replaces the config map.
func (w *Widget) SetConfig(config map[string]interface{}) {
	w.MustSet("config", config)
}

// CustomCSS returns the stylesheet injected into the widget.
func (w *Widget) CustomCSS() string {
	return w.GetString("custom_css")
}

// SetCustomCSS sets the stylesheet injected into the widget.
func (w *Widget) SetCustomCSS(css string) {
	w.MustSet("custom_css", css)
}

// CustomJS returns the script injected into the widget.
func (w *Widget) CustomJS() string {
	return w.GetString("custom_js")
}

// SetCustomJS sets the script injected into the widget.
func (w *Widget) SetCustomJS(js string) {
	w.MustSet("custom_js", js)
}

// ExternalJS returns the external script loaded by the widget.
func (w *Widget) ExternalJS() string {
	return w.GetString("external_js")
}

// SetExternalJS sets the external script loaded by the widget.
func (w *Widget) SetExternalJS(js string) {
	w.MustSet("external_js", js)
}

// ParentID returns the id of the widget this one was derived from, or 0.
func (w *Widget) ParentID() int64 {
	return w.GetInt("parent_id")
}

// SetParentID sets the parent widget.
func (w *Widget) SetParentID(id int64) {
	w.MustSet("parent_id", id)
}

// EmbedCode returns the HTML snippet that embeds the widget.
func (w *Widget) EmbedCode() string {
	return w.GetString("embed_code")
}

// ApplyStyleDefaults fills in the preset of the current type style. Values
// already present are kept; style and config are only marked dirty when a
// default was added.
func (w *Widget) ApplyStyleDefaults() {
	preset, ok := presetFor(w.TypeStyle())
	if !ok {
		return
	}

	style := w.GetMap("style")
	if style == nil {
		style = map[string]interface{}{}
	}

	if fillMissing(style, preset.style) {
		w.MustSet("style", style)
	}

	if !preset.fluidConfig {
		return
	}

	config := w.GetMap("config")
	if config == nil {
		config = map[string]interface{}{}
	}

	changed := false

	for key, defaults := range map[string]map[string]interface{}{
		configTileOptions: defaultTileOptions,
		configLightbox:    defaultLightbox,
	} {
		section, _ := config[key].(map[string]interface{})
		if section == nil {
			section = map[string]interface{}{}
		}

		if fillMissing(section, defaults) {
			config[key] = section
			changed = true
		}
	}

	if changed {
		w.MustSet("config", config)
	}
}

// Validate adds the checks of the values kept in the style map.
func (w *Widget) Validate() []stackla.FieldError {
	fieldErrors := w.Model.Validate()

	values := map[string]interface{}{
		styleName:    w.styleValue(styleName),
		styleType:    w.styleValue(styleType),
		"type_style": w.styleValue(styleTypeStyle),
	}

	for _, attribute := range widgetStyleRules {
		if fieldError, ok := model.Check(attribute, values[attribute.Name]); !ok {
			fieldErrors = append(fieldErrors, fieldError)
		}
	}

	return fieldErrors
}

// Create applies the style defaults and creates the widget.
func (w *Widget) Create(ctx context.Context) error {
	w.ApplyStyleDefaults()

	return w.Model.Create(ctx)
}

// Update applies the style defaults and sends the dirty attributes.
func (w *Widget) Update(ctx context.Context, force bool) error {
	if !w.IsPlaceholder() || force {
		w.ApplyStyleDefaults()
	}

	return w.Model.Update(ctx, force)
}

// Duplicate clones the widget on the server. Dirty attributes are applied to
// the copy.
func (w *Widget) Duplicate(ctx context.Context) (stackla.Widget, error) {
	return w.action(ctx, constants.ActionClone, w.ToMap(true))
}

// Derive creates a widget that shares this widget's style but shows filterID.
func (w *Widget) Derive(ctx context.Context, filterID int64, name string) (stackla.Widget, error) {
	return w.action(ctx, constants.ActionDerive, map[string]interface{}{
		"filter_id": filterID,
		"style": map[string]interface{}{
			styleName: name,
		},
	})
}

func (w *Widget) action(ctx context.Context, action string, body map[string]interface{}) (stackla.Widget, error) {
	if w.ID() == "" {
		return nil, fmt.Errorf("%s widget: %w", action, stackla.ErrMissingID)
	}

	endpoint := fmt.Sprintf("%s?%s=%s", w.ItemEndpoint(), constants.ParamAction, action)

	resp, err := w.Transport().Post(ctx, endpoint, nil,
		stacklahttp.WithJSONBody(body),
		stacklahttp.WithErrorSink(w),
	)
	if err != nil {
		return nil, fmt.Errorf("%s widget %s: %w", action, w.ID(), err)
	}

	widget := NewWidget(w.Transport(), "")

	err = widget.FromJSON(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s widget %s: %w", action, w.ID(), err)
	}

	return widget, nil
}

// Delete refuses to remove a widget that other widgets use as their parent.
func (w *Widget) Delete(ctx context.Context) (bool, error) {
	if w.ID() == "" {
		return false, fmt.Errorf("deleting widget: %w", stackla.ErrMissingID)
	}

	probe := model.New(widgetSchema, w.Transport())

	children, err := probe.Fetch(ctx, stackla.Params{"parent_id": w.ID()})
	if err != nil {
		return false, fmt.Errorf("checking children of widget %s: %w", w.ID(), err)
	}

	for _, child := range children {
		if child.ID() != w.ID() && child.GetInt("parent_id") == w.GetInt("id") {
			return false, fmt.Errorf("deleting widget %s: %w", w.ID(), stackla.ErrWidgetHasChildren)
		}
	}

	return w.Model.Delete(ctx)
}

// List fetches a page of widgets.
func (w *Widget) List(ctx context.Context, options *stackla.ListOptions) ([]stackla.Resource, error) {
	return list(ctx, w.Model, options, func(m *model.Model) stackla.Resource {
		return &Widget{Model: m}
	})
}
