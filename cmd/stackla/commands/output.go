package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// outputFormat returns the requested format, rejecting unknown values.
func outputFormat() (string, error) {
	format := viper.GetString(keyOutput)
	if format == "" {
		return constants.OutputFormatTable, nil
	}

	if !isOutputFormat(format) {
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidOutput, format)
	}

	return format, nil
}

// renderData writes data as JSON or YAML. Table output is left to callers.
func renderData(w io.Writer, format string, data interface{}) error {
	switch format {
	case constants.OutputFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(data)
	case constants.OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(constants.JSONIndentSize)

		defer func() { _ = encoder.Close() }()

		return encoder.Encode(data)
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutput, format)
	}
}

// renderResource prints one resource as a property/value table or as a
// JSON/YAML document of its attributes.
func renderResource(cmd *cobra.Command, resource stackla.Resource) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	if format != constants.OutputFormatTable {
		return renderData(cmd.OutOrStdout(), format, resource.ToMap(false))
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Property", "Value")

	values := resource.ToMap(false)
	for _, name := range resource.Attributes() {
		value, ok := values[name]
		if !ok {
			continue
		}

		_ = table.Append(name, formatValue(value))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderResources prints a list with one row per resource and one column per
// attribute present in any of them.
func renderResources(cmd *cobra.Command, list []stackla.Resource) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	if format != constants.OutputFormatTable {
		items := make([]map[string]interface{}, 0, len(list))
		for _, resource := range list {
			items = append(items, resource.ToMap(false))
		}

		return renderData(cmd.OutOrStdout(), format, items)
	}

	if len(list) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No resources found")

		return nil
	}

	columns := listColumns(list)

	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = strings.ToUpper(column)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header(header...)

	for _, resource := range list {
		values := resource.ToMap(false)

		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = formatValue(values[column])
		}

		_ = table.Append(row)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// listColumns keeps the declared attribute order, dropping attributes no
// resource in list has a value for.
func listColumns(list []stackla.Resource) []string {
	present := map[string]bool{}

	for _, resource := range list {
		for name := range resource.ToMap(false) {
			present[name] = true
		}
	}

	columns := []string{}

	for _, name := range list[0].Attributes() {
		if present[name] {
			columns = append(columns, name)
		}
	}

	return columns
}

// renderFieldErrors prints validation or server errors.
func renderFieldErrors(cmd *cobra.Command, fieldErrors []stackla.FieldError) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	if format != constants.OutputFormatTable {
		return renderData(cmd.OutOrStdout(), format, fieldErrors)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Property", "Message")

	for _, fieldError := range fieldErrors {
		_ = table.Append(fieldError.Property, fieldError.Message)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatValue(value interface{}) string {
	var formatted string

	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		formatted = typed
	case time.Time:
		formatted = typed.Format(time.RFC3339)
	case map[string]interface{}:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+"="+formatValue(typed[key]))
		}

		formatted = strings.Join(parts, ", ")
	case []interface{}:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, formatValue(item))
		}

		formatted = strings.Join(parts, ", ")
	default:
		formatted = fmt.Sprint(typed)
	}

	if len(formatted) > constants.TableValueWidth {
		return formatted[:constants.TableValueWidth-3] + "..."
	}

	return formatted
}
