package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	"github.com/fivetwenty-io/stackla-go/internal/resources"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// NewKindsCommand creates the kinds command.
func NewKindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List resource kinds",
		Long:  "List the resource kinds accepted by get, create, update, delete and validate",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := resources.Registry()
			kinds := make([]stackla.Kind, 0, len(registry))

			for kind := range registry {
				kinds = append(kinds, kind)
			}

			slices.Sort(kinds)

			for _, kind := range kinds {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), kind)
			}

			return nil
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var (
		page    int
		perPage int
		filters []string
	)

	cmd := &cobra.Command{
		Use:   "get KIND [ID]",
		Short: "Fetch one resource or list a kind",
		Long:  "Fetch a resource by id, or list resources of a kind when no id is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, closeLog, err := newStack()
			defer closeLog()

			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			if len(args) == 2 {
				resource, err := stack.Instance(ctx, args[0], args[1], true)
				if err != nil {
					return reportFailure(cmd, resource, fmt.Errorf("failed to get %s %s: %w", args[0], args[1], err))
				}

				return renderResource(cmd, resource)
			}

			resource, err := stack.Instance(ctx, args[0], "", false)
			if err != nil {
				return err
			}

			values, err := parseAssignments(filters)
			if err != nil {
				return err
			}

			options := stackla.NewListOptions().WithPage(page).WithResultsPerPage(perPage)
			for key, value := range values {
				options.WithFilter(key, value)
			}

			list, err := resource.List(ctx, options)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", args[0], err)
			}

			return renderResources(cmd, list)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "list filter as key=value (repeatable)")

	return cmd
}

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var assignments []string

	cmd := &cobra.Command{
		Use:   "create KIND",
		Short: "Create a resource",
		Long:  "Create a resource from --set key=value attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(assignments)
			if err != nil {
				return err
			}

			stack, closeLog, err := newStack()
			defer closeLog()

			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			resource, err := stack.Instance(ctx, args[0], "", false)
			if err != nil {
				return err
			}

			err = applyAssignments(resource, values)
			if err != nil {
				return err
			}

			err = resource.Create(ctx)
			if err != nil {
				return reportFailure(cmd, resource, fmt.Errorf("failed to create %s: %w", args[0], err))
			}

			return renderResource(cmd, resource)
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "set", nil, "attribute as key=value (repeatable)")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var (
		assignments []string
		force       bool
		noFetch     bool
	)

	cmd := &cobra.Command{
		Use:   "update KIND ID",
		Short: "Update a resource",
		Long: `Update a resource with --set key=value attributes. Only the given attributes
are sent. The resource is fetched first unless --no-fetch is given, in which
case --force is required.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(assignments)
			if err != nil {
				return err
			}

			stack, closeLog, err := newStack()
			defer closeLog()

			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			resource, err := stack.Instance(ctx, args[0], args[1], !noFetch)
			if err != nil {
				return reportFailure(cmd, resource, fmt.Errorf("failed to get %s %s: %w", args[0], args[1], err))
			}

			err = applyAssignments(resource, values)
			if err != nil {
				return err
			}

			err = resource.Update(ctx, force)
			if err != nil {
				return reportFailure(cmd, resource, fmt.Errorf("failed to update %s %s: %w", args[0], args[1], err))
			}

			return renderResource(cmd, resource)
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "set", nil, "attribute as key=value (repeatable)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "update without fetching the current state")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "skip fetching the resource before updating")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete KIND ID",
		Short: "Delete a resource",
		Long:  "Delete a resource by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, closeLog, err := newStack()
			defer closeLog()

			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			resource, err := stack.Instance(ctx, args[0], args[1], false)
			if err != nil {
				return err
			}

			deleted, err := resource.Delete(ctx)
			if err != nil {
				return reportFailure(cmd, resource, fmt.Errorf("failed to delete %s %s: %w", args[0], args[1], err))
			}

			if !deleted {
				return reportFailure(cmd, resource, constants.ErrDeleteNotConfirmed)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", resource.Kind(), args[1])

			return nil
		},
	}
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var assignments []string

	cmd := &cobra.Command{
		Use:   "validate KIND",
		Short: "Validate attributes locally",
		Long:  "Check --set key=value attributes against the rules of a kind without calling the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			constructor, ok := resources.Registry()[stackla.ParseKind(args[0])]
			if !ok {
				return fmt.Errorf("%w: %s", stackla.ErrUnknownKind, args[0])
			}

			values, err := parseAssignments(assignments)
			if err != nil {
				return err
			}

			resource := constructor(nil, "")

			err = applyAssignments(resource, values)
			if err != nil {
				return err
			}

			fieldErrors := resource.Validate()
			if len(fieldErrors) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Valid")

				return nil
			}

			_ = renderFieldErrors(cmd, fieldErrors)

			return constants.ErrValidationFailed
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "set", nil, "attribute as key=value (repeatable)")

	return cmd
}
