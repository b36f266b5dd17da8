package resources

import (
	"slices"

	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

//nolint:gochecknoglobals // lookup tables
var (
	fluidStyles = []string{
		stackla.WidgetStyleVerticalFluid,
		stackla.WidgetStyleHorizontalFluid,
		stackla.WidgetStyleBaseWaterfall,
		stackla.WidgetStyleBaseCarousel,
	}

	staticStyles = []string{
		stackla.WidgetStyleCarousel,
		stackla.WidgetStyleScroll,
		stackla.WidgetStyleSlideshow,
		stackla.WidgetStyleAuto,
		stackla.WidgetStyleBaseFeed,
		stackla.WidgetStyleBaseBillboard,
		stackla.WidgetStyleBaseSlideshow,
	}

	waterfallStyle = map[string]interface{}{
		"max_tile_width": int64(365),
	}

	horizontalStyle = map[string]interface{}{
		"tiles_per_page": int64(15),
		"widget_height":  int64(300),
	}

	billboardStyle = map[string]interface{}{
		"width":          int64(970),
		"height":         int64(300),
		"margin":         int64(7),
		"rows":           int64(10),
		"columns":        int64(2),
		"tileWidth":      int64(300),
		"tileHeight":     int64(300),
		"tiles_per_page": int64(9),
	}

	feedStyle = map[string]interface{}{
		"width":          int64(970),
		"height":         int64(600),
		"margin":         int64(15),
		"rows":           int64(3),
		"columns":        int64(3),
		"tileWidth":      int64(251),
		"tileHeight":     int64(251),
		"tiles_per_page": int64(9),
	}

	slideshowStyle = map[string]interface{}{
		"auto_scroll":    int64(1),
		"width":          int64(970),
		"height":         int64(600),
		"margin":         int64(0),
		"rows":           int64(1),
		"columns":        int64(1),
		"tileWidth":      int64(970),
		"tileHeight":     int64(600),
		"tiles_per_page": int64(15),
	}

	defaultTileOptions = map[string]interface{}{
		"show_tags":      "0",
		"show_votes":     "0",
		"show_likes":     "0",
		"show_dislikes":  "0",
		"show_comments":  "0",
		"show_shopspots": "0",
	}

	defaultLightbox = map[string]interface{}{
		"layout":               "portrait",
		"show_additional_info": "1",
		"show_sharing":         "0",
		"sharing_text":         "",
		"sharing_title":        "",
		"show_comments":        "0",
		"post_comments":        "0",
		"show_products":        "0",
		"show_shopspots":       "0",
	}
)

// widgetPreset is the default style of a type style. Fluid presets also carry
// default tile and lightbox config.
type widgetPreset struct {
	style       map[string]interface{}
	fluidConfig bool
}

func presetFor(typeStyle string) (widgetPreset, bool) {
	switch typeStyle {
	case stackla.WidgetStyleBaseWaterfall, stackla.WidgetStyleVerticalFluid:
		return widgetPreset{style: waterfallStyle, fluidConfig: true}, true
	case stackla.WidgetStyleBaseCarousel, stackla.WidgetStyleHorizontalFluid:
		return widgetPreset{style: horizontalStyle, fluidConfig: true}, true
	case stackla.WidgetStyleBaseBillboard, stackla.WidgetStyleCarousel:
		return widgetPreset{style: billboardStyle}, true
	case stackla.WidgetStyleBaseFeed, stackla.WidgetStyleScroll:
		return widgetPreset{style: feedStyle}, true
	case stackla.WidgetStyleBaseSlideshow, stackla.WidgetStyleSlideshow:
		return widgetPreset{style: slideshowStyle}, true
	default:
		return widgetPreset{}, false
	}
}

// typeForStyle returns the widget type implied by a type style.
func typeForStyle(typeStyle string) (string, bool) {
	switch {
	case slices.Contains(fluidStyles, typeStyle):
		return stackla.WidgetTypeFluid, true
	case slices.Contains(staticStyles, typeStyle):
		return stackla.WidgetTypeStatic, true
	default:
		return "", false
	}
}

// fillMissing copies the defaults absent from target and reports whether
// anything was added.
func fillMissing(target, defaults map[string]interface{}) bool {
	changed := false

	for key, value := range defaults {
		if _, ok := target[key]; !ok {
			target[key] = value
			changed = true
		}
	}

	return changed
}
