package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	stacklahttp "github.com/fivetwenty-io/stackla-go/internal/http"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// Model is the active-record base embedded by every resource. It is not safe
// for concurrent use.
type Model struct {
	schema      *Schema
	transport   *stacklahttp.Client
	attributes  map[string]interface{}
	dirty       map[string]struct{}
	errors      []stackla.FieldError
	placeholder bool
}

// New creates an empty model. It stays a placeholder until populated by a
// successful create or fetch.
func New(schema *Schema, transport *stacklahttp.Client) *Model {
	return &Model{
		schema:      schema,
		transport:   transport,
		attributes:  make(map[string]interface{}),
		dirty:       make(map[string]struct{}),
		errors:      []stackla.FieldError{},
		placeholder: true,
	}
}

// NewPlaceholder creates a placeholder that carries only its id.
func NewPlaceholder(schema *Schema, transport *stacklahttp.Client, id string) *Model {
	m := New(schema, transport)
	if id != "" {
		m.attributes[constants.AttributeID] = normalizeID(schema, id)
	}

	return m
}

func normalizeID(schema *Schema, id string) interface{} {
	attribute, _ := schema.Lookup(constants.AttributeID)
	if attribute.Type == TypeInt {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			return n
		}
	}

	return id
}

// Schema returns the attribute contract.
func (m *Model) Schema() *Schema {
	return m.schema
}

// Transport returns the client used for round trips.
func (m *Model) Transport() *stacklahttp.Client {
	return m.transport
}

// Kind returns the resource kind.
func (m *Model) Kind() stackla.Kind {
	return m.schema.Kind()
}

// Endpoint returns the collection path segment.
func (m *Model) Endpoint() string {
	return m.schema.Endpoint()
}

// ItemEndpoint returns the path of this object.
func (m *Model) ItemEndpoint() string {
	return m.schema.Endpoint() + "/" + m.ID()
}

// ID returns the id as a string, or "" when unset.
func (m *Model) ID() string {
	switch id := m.attributes[constants.AttributeID].(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(id, 10)
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// Get returns the value of a declared attribute; unset attributes are nil.
func (m *Model) Get(name string) (interface{}, error) {
	if _, ok := m.schema.Lookup(name); !ok {
		return nil, fmt.Errorf("getting %s.%s: %w", m.Kind(), name, stackla.ErrAccessorNotFound)
	}

	return cloneValue(m.attributes[name]), nil
}

// Set stores value and marks the attribute dirty. Undeclared and read-only
// attributes fail with stackla.ErrAccessorNotFound.
func (m *Model) Set(name string, value interface{}) error {
	attribute, ok := m.schema.Lookup(name)
	if !ok || attribute.ReadOnly {
		return fmt.Errorf("setting %s.%s: %w", m.Kind(), name, stackla.ErrAccessorNotFound)
	}

	m.attributes[name] = normalize(attribute.Type, value)
	m.dirty[name] = struct{}{}

	return nil
}

// MustSet is Set for attributes the caller's schema is known to declare.
func (m *Model) MustSet(name string, value interface{}) {
	if err := m.Set(name, value); err != nil {
		panic(err)
	}
}

// Attributes returns the declared attribute names.
func (m *Model) Attributes() []string {
	return m.schema.Names()
}

// DirtyAttributes returns the names mutated since the last load, sorted.
func (m *Model) DirtyAttributes() []string {
	names := make([]string, 0, len(m.dirty))
	for name := range m.dirty {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// IsDirty reports whether name was mutated since the last load.
func (m *Model) IsDirty(name string) bool {
	_, ok := m.dirty[name]

	return ok
}

// ToMap returns every stored attribute, or only the dirty ones.
func (m *Model) ToMap(onlyDirty bool) map[string]interface{} {
	result := make(map[string]interface{}, len(m.attributes))

	for name, value := range m.attributes {
		if onlyDirty && !m.IsDirty(name) {
			continue
		}

		result[name] = cloneValue(value)
	}

	return result
}

// FromMap loads server state. Undeclared keys are ignored. The dirty set and
// errors are cleared and the model stops being a placeholder.
func (m *Model) FromMap(attributes map[string]interface{}) error {
	for name, value := range attributes {
		attribute, ok := m.schema.Lookup(name)
		if !ok {
			continue
		}

		m.attributes[name] = normalize(attribute.Type, value)
	}

	m.dirty = make(map[string]struct{})
	m.errors = []stackla.FieldError{}
	m.placeholder = false

	return nil
}

// FromJSON loads a response envelope {"data": ..., "errors": [...]}. A body
// without either key is taken as the attribute object itself. Malformed input
// fails with stackla.ErrDeserialization and leaves the model untouched.
func (m *Model) FromJSON(data []byte) error {
	attributes, fieldErrors, err := decodeItem(data)
	if err != nil {
		return err
	}

	_ = m.FromMap(attributes)
	m.errors = fieldErrors

	return nil
}

// Errors returns the field errors of the last round trip.
func (m *Model) Errors() []stackla.FieldError {
	fieldErrors := make([]stackla.FieldError, len(m.errors))
	copy(fieldErrors, m.errors)

	return fieldErrors
}

// RecordErrors replaces the field errors. The transport calls it for failed
// responses; dirty and placeholder state are left alone.
func (m *Model) RecordErrors(fieldErrors []stackla.FieldError) {
	m.errors = make([]stackla.FieldError, len(fieldErrors))
	copy(m.errors, fieldErrors)
}

// IsPlaceholder reports whether the model was never populated from the server.
func (m *Model) IsPlaceholder() bool {
	return m.placeholder
}

// Create posts all attributes as JSON to the collection endpoint and loads
// the response.
func (m *Model) Create(ctx context.Context) error {
	resp, err := m.transport.Post(ctx, m.Endpoint(), nil,
		stacklahttp.WithJSONBody(m.ToMap(false)),
		stacklahttp.WithErrorSink(m),
	)
	if err != nil {
		return fmt.Errorf("creating %s: %w", m.Kind(), err)
	}

	err = m.FromJSON(resp.Body)
	if err != nil {
		return fmt.Errorf("creating %s: %w", m.Kind(), err)
	}

	return nil
}

// Update puts the dirty attributes to the item endpoint. A placeholder is only
// updated when force is set.
func (m *Model) Update(ctx context.Context, force bool) error {
	if m.placeholder && !force {
		return fmt.Errorf("updating %s: %w", m.Kind(), stackla.ErrStaleObject)
	}

	if m.ID() == "" {
		return fmt.Errorf("updating %s: %w", m.Kind(), stackla.ErrMissingID)
	}

	resp, err := m.transport.Put(ctx, m.ItemEndpoint(), nil,
		stacklahttp.WithJSONBody(m.ToMap(true)),
		stacklahttp.WithErrorSink(m),
	)
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", m.Kind(), m.ID(), err)
	}

	err = m.FromJSON(resp.Body)
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", m.Kind(), m.ID(), err)
	}

	return nil
}

// FetchByID loads the object with the given id.
func (m *Model) FetchByID(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("fetching %s: %w", m.Kind(), stackla.ErrMissingID)
	}

	resp, err := m.transport.Get(ctx, m.Endpoint()+"/"+id, nil, stacklahttp.WithErrorSink(m))
	if err != nil {
		return fmt.Errorf("fetching %s %s: %w", m.Kind(), id, err)
	}

	err = m.FromJSON(resp.Body)
	if err != nil {
		return fmt.Errorf("fetching %s %s: %w", m.Kind(), id, err)
	}

	return nil
}

// Fetch lists the collection. Each item becomes a populated model sharing
// this model's schema and transport. On success the receiver takes the
// response errors and its placeholder flag and dirty set are reset.
func (m *Model) Fetch(ctx context.Context, params stackla.Params) ([]*Model, error) {
	resp, err := m.transport.Get(ctx, m.Endpoint(), params, stacklahttp.WithErrorSink(m))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", m.Schema().Endpoint(), err)
	}

	items, fieldErrors, err := decodeCollection(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", m.Schema().Endpoint(), err)
	}

	m.errors = fieldErrors
	m.dirty = make(map[string]struct{})
	m.placeholder = false

	models := make([]*Model, 0, len(items))
	for _, item := range items {
		child := New(m.schema, m.transport)
		_ = child.FromMap(item)
		models = append(models, child)
	}

	return models, nil
}

// Delete removes the object and reports whether the server confirmed it, i.e.
// answered without field errors.
func (m *Model) Delete(ctx context.Context) (bool, error) {
	if m.ID() == "" {
		return false, fmt.Errorf("deleting %s: %w", m.Kind(), stackla.ErrMissingID)
	}

	resp, err := m.transport.Delete(ctx, m.ItemEndpoint(), nil, stacklahttp.WithErrorSink(m))
	if err != nil {
		return false, fmt.Errorf("deleting %s %s: %w", m.Kind(), m.ID(), err)
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		m.errors = []stackla.FieldError{}

		return true, nil
	}

	envelope, err := decodeEnvelope(resp.Body)
	if err != nil {
		return false, fmt.Errorf("deleting %s %s: %w", m.Kind(), m.ID(), err)
	}

	m.errors = envelope.fieldErrors()

	return len(m.errors) == 0, nil
}

// Typed accessors used by resources. They return the zero value when the
// attribute is unset or holds another type.

// GetString returns a string attribute.
func (m *Model) GetString(name string) string {
	s, _ := m.attributes[name].(string)

	return s
}

// GetInt returns an integer attribute.
func (m *Model) GetInt(name string) int64 {
	n, _ := m.attributes[name].(int64)

	return n
}

// GetFloat returns a float attribute.
func (m *Model) GetFloat(name string) float64 {
	f, _ := toFloat64(m.attributes[name])

	return f
}

// GetBool returns a boolean attribute.
func (m *Model) GetBool(name string) bool {
	b, _ := m.attributes[name].(bool)

	return b
}

// GetTime returns a time attribute.
func (m *Model) GetTime(name string) time.Time {
	ts, _ := m.attributes[name].(time.Time)

	return ts
}

// GetMap returns a copy of a map attribute.
func (m *Model) GetMap(name string) map[string]interface{} {
	value, _ := cloneValue(m.attributes[name]).(map[string]interface{})

	return value
}

// GetStrings returns a list attribute as strings.
func (m *Model) GetStrings(name string) []string {
	items, _ := m.attributes[name].([]interface{})

	values := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			values = append(values, s)
		}
	}

	return values
}

// GetInt64s returns a list attribute as integers.
func (m *Model) GetInt64s(name string) []int64 {
	items, _ := m.attributes[name].([]interface{})

	values := make([]int64, 0, len(items))
	for _, item := range items {
		if n, ok := toInt64(item); ok {
			values = append(values, n)
		}
	}

	return values
}

type envelope struct {
	data      json.RawMessage
	errors    json.RawMessage
	attribute map[string]interface{}
}

func (e *envelope) fieldErrors() []stackla.FieldError {
	if len(e.errors) == 0 {
		return []stackla.FieldError{}
	}

	return stackla.ParseFieldErrors(e.errors)
}

func decodeEnvelope(data []byte) (*envelope, error) {
	var raw map[string]json.RawMessage

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stackla.ErrDeserialization, err)
	}

	dataRaw, hasData := raw[constants.EnvelopeData]
	errorsRaw, hasErrors := raw[constants.EnvelopeErrors]

	if hasData || hasErrors {
		return &envelope{data: dataRaw, errors: errorsRaw}, nil
	}

	attributes, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	return &envelope{attribute: attributes}, nil
}

// decodeItem extracts a single attribute object. A collection response
// contributes its first item.
func decodeItem(data []byte) (map[string]interface{}, []stackla.FieldError, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, nil, err
	}

	if env.attribute != nil {
		return env.attribute, []stackla.FieldError{}, nil
	}

	attributes := map[string]interface{}{}

	trimmed := bytes.TrimSpace(env.data)

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
	case trimmed[0] == '{':
		attributes, err = decodeObject(trimmed)
		if err != nil {
			return nil, nil, err
		}
	case trimmed[0] == '[':
		items, err := decodeList(trimmed)
		if err != nil {
			return nil, nil, err
		}

		if len(items) > 0 {
			attributes = items[0]
		}
	default:
		return nil, nil, fmt.Errorf("%w: data is neither an object nor a list", stackla.ErrDeserialization)
	}

	return attributes, env.fieldErrors(), nil
}

func decodeCollection(data []byte) ([]map[string]interface{}, []stackla.FieldError, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, nil, err
	}

	if env.attribute != nil {
		return []map[string]interface{}{env.attribute}, []stackla.FieldError{}, nil
	}

	trimmed := bytes.TrimSpace(env.data)

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return []map[string]interface{}{}, env.fieldErrors(), nil
	case trimmed[0] == '{':
		item, err := decodeObject(trimmed)
		if err != nil {
			return nil, nil, err
		}

		return []map[string]interface{}{item}, env.fieldErrors(), nil
	default:
		items, err := decodeList(trimmed)
		if err != nil {
			return nil, nil, err
		}

		return items, env.fieldErrors(), nil
	}
}

func decodeObject(data []byte) (map[string]interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var object map[string]interface{}

	err := decoder.Decode(&object)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stackla.ErrDeserialization, err)
	}

	if object == nil {
		object = map[string]interface{}{}
	}

	return object, nil
}

func decodeList(data []byte) ([]map[string]interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var items []map[string]interface{}

	err := decoder.Decode(&items)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stackla.ErrDeserialization, err)
	}

	return items, nil
}
