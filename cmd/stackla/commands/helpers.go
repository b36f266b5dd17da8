package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// parseAssignments parses repeated key=value flags. Values are read as YAML
// scalars or flow collections, so "3" is a number, "true" a boolean and
// "[1, 2]" a list. Anything else stays a string.
func parseAssignments(assignments []string) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(assignments))

	for _, assignment := range assignments {
		parts := strings.SplitN(assignment, "=", constants.AssignmentParts)
		if len(parts) != constants.AssignmentParts || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidAssignment, assignment)
		}

		values[strings.TrimSpace(parts[0])] = parseValue(parts[1])
	}

	return values, nil
}

func parseValue(raw string) interface{} {
	if strings.TrimSpace(raw) == "" {
		return raw
	}

	var value interface{}

	err := yaml.Unmarshal([]byte(raw), &value)
	if err != nil || value == nil {
		return raw
	}

	return value
}

// applyAssignments sets every value on resource, stopping at the first
// unknown or read-only attribute.
func applyAssignments(resource stackla.Resource, values map[string]interface{}) error {
	for name, value := range values {
		err := resource.Set(name, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// reportFailure prints the field errors recorded on resource, if any, and
// returns err unchanged.
func reportFailure(cmd *cobra.Command, resource stackla.Resource, err error) error {
	if resource != nil && len(resource.Errors()) > 0 {
		_ = renderFieldErrors(cmd, resource.Errors())
	}

	return err
}
