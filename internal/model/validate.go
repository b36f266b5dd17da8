package model

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

const ruleRequired = "required"

//nolint:gochecknoglobals // validator instances cache parsed tags and are meant to be shared
var validate = validator.New()

// Validate checks the stored values against the declared types and rules. It
// never touches the network or the model's errors. Only the first failure of
// each attribute is reported.
func (m *Model) Validate() []stackla.FieldError {
	fieldErrors := []stackla.FieldError{}

	for _, attribute := range m.schema.attributes {
		value := m.attributes[attribute.Name]

		message := checkAttribute(attribute, value)
		if message != "" {
			fieldErrors = append(fieldErrors, stackla.FieldError{Property: attribute.Name, Message: message})
		}
	}

	return fieldErrors
}

func checkAttribute(attribute Attribute, value interface{}) string {
	rules := splitRules(attribute.Rules)

	if isBlank(value) {
		for _, rule := range rules {
			if rule == ruleRequired {
				return "This value should not be blank."
			}
		}

		return ""
	}

	if !matchesType(attribute.Type, value) {
		return fmt.Sprintf("This value should be of type %s.", attribute.Type)
	}

	for _, rule := range rules {
		if rule == ruleRequired {
			continue
		}

		err := validate.Var(value, rule)
		if err != nil {
			return ruleMessage(rule, value)
		}
	}

	return ""
}

func splitRules(rules string) []string {
	if strings.TrimSpace(rules) == "" {
		return nil
	}

	parts := strings.Split(rules, ",")

	trimmed := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			trimmed = append(trimmed, part)
		}
	}

	return trimmed
}

func isBlank(value interface{}) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case map[string]interface{}:
		return len(typed) == 0
	case []interface{}:
		return len(typed) == 0
	default:
		return false
	}
}

func ruleMessage(rule string, value interface{}) string {
	name, param, _ := strings.Cut(rule, "=")

	switch name {
	case "min", "gte":
		switch kindOf(value) {
		case reflect.String:
			return fmt.Sprintf("This value is too short. It should have %s characters or more.", param)
		case reflect.Map, reflect.Slice:
			return fmt.Sprintf("This collection should contain %s elements or more.", param)
		default:
			return fmt.Sprintf("This value should be %s or more.", param)
		}
	case "max", "lte":
		switch kindOf(value) {
		case reflect.String:
			return fmt.Sprintf("This value is too long. It should have %s characters or less.", param)
		case reflect.Map, reflect.Slice:
			return fmt.Sprintf("This collection should contain %s elements or less.", param)
		default:
			return fmt.Sprintf("This value should be %s or less.", param)
		}
	case "len":
		return fmt.Sprintf("This value should have exactly %s characters.", param)
	case "oneof":
		return "The value you selected is not a valid choice."
	case "url", "http_url":
		return "This value is not a valid URL."
	case "email":
		return "This value is not a valid email address."
	default:
		return "This value is not valid."
	}
}

func kindOf(value interface{}) reflect.Kind {
	return reflect.ValueOf(value).Kind()
}

// Check validates a value that is not stored as a schema attribute, such as
// a key nested inside a map attribute. attribute.Name becomes the property of
// the returned error.
func Check(attribute Attribute, value interface{}) (stackla.FieldError, bool) {
	message := checkAttribute(attribute, normalize(attribute.Type, value))
	if message == "" {
		return stackla.FieldError{}, true
	}

	return stackla.FieldError{Property: attribute.Name, Message: message}, false
}
