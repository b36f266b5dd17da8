// Package model implements the active-record base shared by every resource:
// schema-declared attributes, dirty tracking, envelope decoding, CRUD verbs and
// local validation.
package model

import (
	"fmt"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// AttrType is the declared type of an attribute.
type AttrType int

// Attribute types.
const (
	TypeAny AttrType = iota
	TypeString
	TypeInt
	TypeFloat
	TypeBool
	TypeMap
	TypeList
	TypeTime
)

// String returns the name used in validation messages.
func (t AttrType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "boolean"
	case TypeMap:
		return "array"
	case TypeList:
		return "list"
	case TypeTime:
		return "datetime"
	default:
		return "mixed"
	}
}

// Attribute declares one externally visible field of a resource. Rules is a
// comma separated list of validator tags such as "required,max=255".
type Attribute struct {
	Name     string
	Type     AttrType
	ReadOnly bool
	Rules    string
}

// Schema is the static attribute contract of a resource kind.
type Schema struct {
	kind       stackla.Kind
	endpoint   string
	attributes []Attribute
	index      map[string]int
}

// NewSchema builds a schema. Every schema must declare an "id" attribute and
// names must be unique and non-empty.
func NewSchema(kind stackla.Kind, endpoint string, attributes ...Attribute) (*Schema, error) {
	schema := &Schema{
		kind:       kind,
		endpoint:   endpoint,
		attributes: make([]Attribute, 0, len(attributes)),
		index:      make(map[string]int, len(attributes)),
	}

	for _, attribute := range attributes {
		if attribute.Name == "" {
			return nil, fmt.Errorf("declaring %s schema: %w", kind, constants.ErrEmptyAttributeName)
		}

		if _, exists := schema.index[attribute.Name]; exists {
			return nil, fmt.Errorf("declaring %s schema: %w: %s", kind, constants.ErrDuplicateAttribute, attribute.Name)
		}

		schema.index[attribute.Name] = len(schema.attributes)
		schema.attributes = append(schema.attributes, attribute)
	}

	if _, ok := schema.index[constants.AttributeID]; !ok {
		return nil, fmt.Errorf("declaring %s schema: %w", kind, constants.ErrMissingIDAttribute)
	}

	return schema, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for
// package-level schema declarations.
func MustSchema(kind stackla.Kind, endpoint string, attributes ...Attribute) *Schema {
	schema, err := NewSchema(kind, endpoint, attributes...)
	if err != nil {
		panic(err)
	}

	return schema
}

// Kind returns the resource kind.
func (s *Schema) Kind() stackla.Kind {
	return s.kind
}

// Endpoint returns the collection path segment.
func (s *Schema) Endpoint() string {
	return s.endpoint
}

// Attributes returns the declared attributes in declaration order.
func (s *Schema) Attributes() []Attribute {
	attributes := make([]Attribute, len(s.attributes))
	copy(attributes, s.attributes)

	return attributes
}

// Names returns the attribute names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.attributes))
	for i, attribute := range s.attributes {
		names[i] = attribute.Name
	}

	return names
}

// Lookup returns the attribute declared under name.
func (s *Schema) Lookup(name string) (Attribute, bool) {
	i, ok := s.index[name]
	if !ok {
		return Attribute{}, false
	}

	return s.attributes[i], true
}
