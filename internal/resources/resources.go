// Package resources holds the concrete resource kinds. Each kind embeds
// model.Model, declares its schema and adds typed accessors.
package resources

import (
	"context"
	"encoding/json"

	stacklahttp "github.com/fivetwenty-io/stackla-go/internal/http"
	"github.com/fivetwenty-io/stackla-go/internal/model"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// Constructor creates a resource bound to transport. A non-empty id yields a
// placeholder carrying that id.
type Constructor func(transport *stacklahttp.Client, id string) stackla.Resource

// Registry returns the constructor of every known kind.
func Registry() map[stackla.Kind]Constructor {
	return map[stackla.Kind]Constructor{
		stackla.KindTag: func(transport *stacklahttp.Client, id string) stackla.Resource {
			return NewTag(transport, id)
		},
		stackla.KindFilter: func(transport *stacklahttp.Client, id string) stackla.Resource {
			return NewFilter(transport, id)
		},
		stackla.KindTerm: func(transport *stacklahttp.Client, id string) stackla.Resource {
			return NewTerm(transport, id)
		},
		stackla.KindTile: func(transport *stacklahttp.Client, id string) stackla.Resource {
			return NewTile(transport, id)
		},
		stackla.KindWidget: func(transport *stacklahttp.Client, id string) stackla.Resource {
			return NewWidget(transport, id)
		},
	}
}

func list(ctx context.Context, m *model.Model, options *stackla.ListOptions, wrap func(*model.Model) stackla.Resource) ([]stackla.Resource, error) {
	models, err := m.Fetch(ctx, options.ToParams())
	if err != nil {
		return nil, err
	}

	items := make([]stackla.Resource, len(models))
	for i, item := range models {
		items[i] = wrap(item)
	}

	return items, nil
}

func newModel(schema *model.Schema, transport *stacklahttp.Client, id string) *model.Model {
	if id == "" {
		return model.New(schema, transport)
	}

	return model.NewPlaceholder(schema, transport, id)
}

func flag(enabled bool) int64 {
	if enabled {
		return 1
	}

	return 0
}

func int64Value(value interface{}) int64 {
	switch typed := value.(type) {
	case int64:
		return typed
	case int:
		return int64(typed)
	case float64:
		return int64(typed)
	case json.Number:
		n, _ := typed.Int64()

		return n
	default:
		return 0
	}
}
