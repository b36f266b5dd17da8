package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	"github.com/fivetwenty-io/stackla-go/pkg/stackclient"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// NewWidgetsCommand creates the widgets command group.
func NewWidgetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "widgets",
		Aliases: []string{"widget"},
		Short:   "Widget operations",
		Long:    "Clone widgets and derive child widgets bound to another filter",
	}

	cmd.AddCommand(newWidgetsCloneCommand())
	cmd.AddCommand(newWidgetsDeriveCommand())

	return cmd
}

func newWidgetsCloneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clone WIDGET_ID",
		Short: "Clone a widget",
		Long:  "Create an independent copy of a widget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, closeLog, err := newStack()
			defer closeLog()

			if err != nil {
				return err
			}

			widget, err := fetchWidget(cmd, stack, args[0])
			if err != nil {
				return err
			}

			clone, err := widget.Duplicate(commandContext(cmd))
			if err != nil {
				return reportFailure(cmd, widget, fmt.Errorf("failed to clone widget %s: %w", args[0], err))
			}

			return renderResource(cmd, clone)
		},
	}
}

func newWidgetsDeriveCommand() *cobra.Command {
	var (
		filterID int64
		name     string
	)

	cmd := &cobra.Command{
		Use:   "derive WIDGET_ID",
		Short: "Derive a child widget",
		Long:  "Create a child widget that inherits the style of its parent and shows another filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, closeLog, err := newStack()
			defer closeLog()

			if err != nil {
				return err
			}

			widget, err := fetchWidget(cmd, stack, args[0])
			if err != nil {
				return err
			}

			child, err := widget.Derive(commandContext(cmd), filterID, name)
			if err != nil {
				return reportFailure(cmd, widget, fmt.Errorf("failed to derive widget %s: %w", args[0], err))
			}

			return renderResource(cmd, child)
		},
	}

	cmd.Flags().Int64Var(&filterID, "filter-id", 0, "filter shown by the derived widget")
	cmd.Flags().StringVar(&name, "name", "", "name of the derived widget")
	_ = cmd.MarkFlagRequired("filter-id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func fetchWidget(cmd *cobra.Command, stack *stackclient.Stack, id string) (stackla.Widget, error) {
	resource, err := stack.Instance(commandContext(cmd), string(stackla.KindWidget), id, true)
	if err != nil {
		return nil, reportFailure(cmd, resource, fmt.Errorf("failed to get widget %s: %w", id, err))
	}

	widget, ok := resource.(stackla.Widget)
	if !ok {
		return nil, constants.ErrNotAWidget
	}

	return widget, nil
}
