package commands

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/stackla-go/internal/auth"
	"github.com/fivetwenty-io/stackla-go/internal/constants"
	"github.com/fivetwenty-io/stackla-go/pkg/stackclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		code         string
		clientID     string
		clientSecret string
		redirectURL  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain an OAuth2 access token",
		Long: `Obtain an OAuth2 access token for the configured stack.

Without --code the authorization URL is printed. Open it, grant access and
run login again with the code passed to the redirect URL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if strings.TrimSpace(config.Host) == "" {
				return constants.ErrNoHostConfigured
			}

			if config.Stack == "" {
				return constants.ErrNoStackConfigured
			}

			oauthConfig := &auth.OAuth2Config{
				Host:         stackclient.NormalizeHost(config.Host),
				Stack:        config.Stack,
				ClientID:     firstNonEmpty(clientID, config.ClientID),
				ClientSecret: firstNonEmpty(clientSecret, config.ClientSecret),
				RedirectURL:  firstNonEmpty(redirectURL, config.RedirectURL),
			}

			if code == "" {
				return printAccessURI(cmd, oauthConfig)
			}

			if oauthConfig.ClientSecret == "" {
				secret, err := promptSecret(cmd, "Client secret: ")
				if err != nil {
					return err
				}

				oauthConfig.ClientSecret = secret
			}

			flow, err := auth.NewFlow(oauthConfig, nil,
				auth.WithHTTPClient(&http.Client{Timeout: constants.ShortHTTPTimeout}),
				auth.WithPersister(NewConfigPersister()),
			)
			if err != nil {
				return err
			}

			token, err := flow.Exchange(commandContext(cmd), code)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Access token saved")

			if !token.ExpiresAt.IsZero() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Expires at %s\n", token.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
			}

			if config.APIKey != "" {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: api_key is set and takes precedence, run 'stackla config unset api_key' to use the token")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "authorization code returned to the redirect URL")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client id (defaults to client_id from config)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret (prompted when missing)")
	cmd.Flags().StringVar(&redirectURL, "redirect-url", "", "OAuth2 redirect URL (defaults to redirect_url from config)")

	return cmd
}

// printAccessURI needs the full client registration, so a placeholder secret
// is used when none is configured. The secret is never part of the URL.
func printAccessURI(cmd *cobra.Command, oauthConfig *auth.OAuth2Config) error {
	registration := *oauthConfig
	if registration.ClientSecret == "" {
		registration.ClientSecret = "-"
	}

	flow, err := auth.NewFlow(&registration, nil)
	if err != nil {
		return err
	}

	uri, state := flow.AccessURI()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Open the following URL and grant access:")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), uri)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "State: %s\n", state)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Then run: stackla login --code <code>")

	return nil
}

func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)

	fd := int(os.Stdin.Fd()) //nolint:gosec // stdin descriptor fits in int
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())

		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}

		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}
