package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	"github.com/fivetwenty-io/stackla-go/pkg/stackclient"
)

// NewSessionCommand creates the session command.
func NewSessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Exchange the access token for an OEM session",
		Long:  "Exchange the stored OAuth2 access token for an OEM session id",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.AccessToken == "" {
				return constants.ErrNoTokenConfigured
			}

			// The exchange authenticates with the access token only.
			config.APIKey = ""

			stackConfig, err := buildStackConfig(config)
			if err != nil {
				return err
			}

			stack, err := stackclient.New(stackConfig)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			session, err := stack.ExchangeSession(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("session exchange failed: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), session)

			return nil
		},
	}
}
