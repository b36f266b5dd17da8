package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
)

// Configuration keys.
const (
	keyHost           = "host"
	keyStack          = "stack"
	keyAPIKey         = "api_key"
	keyAccessToken    = "access_token"
	keyRefreshToken   = "refresh_token"
	keyTokenExpiresAt = "token_expires_at"
	keyClientID       = "client_id"
	keyClientSecret   = "client_secret"
	keyRedirectURL    = "redirect_url"
	keyOutput         = "output"
	keyRequestLog     = "request_log"
)

// Config represents the CLI configuration.
type Config struct {
	Host  string `json:"host,omitempty"  yaml:"host,omitempty"`
	Stack string `json:"stack,omitempty" yaml:"stack,omitempty"`

	// Credentials, the API key wins when both are set.
	APIKey         string     `json:"api_key,omitempty"          yaml:"api_key,omitempty"`
	AccessToken    string     `json:"access_token,omitempty"     yaml:"access_token,omitempty"`
	RefreshToken   string     `json:"refresh_token,omitempty"    yaml:"refresh_token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`

	// OAuth2 application used by login and session.
	ClientID     string `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"  yaml:"redirect_url,omitempty"`

	Output     string `json:"output,omitempty" yaml:"output,omitempty"`
	RequestLog bool   `json:"request_log"      yaml:"request_log"`
}

// settableKeys lists the keys accepted by config set/unset.
//
//nolint:gochecknoglobals // read-only lookup table
var settableKeys = []string{
	keyHost, keyStack, keyAPIKey, keyAccessToken, keyClientID, keyClientSecret,
	keyRedirectURL, keyOutput, keyRequestLog,
}

//nolint:gochecknoglobals // read-only lookup table
var secretKeys = []string{keyAPIKey, keyAccessToken, keyRefreshToken, keyClientSecret}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the stackla CLI configuration stored in ~/.stackla/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration, secrets masked in table output",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			switch viper.GetString(keyOutput) {
			case constants.OutputFormatJSON:
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")

				return encoder.Encode(config)
			case constants.OutputFormatYAML:
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(config)
			default:
				return displayConfigTable(cmd, config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: host, stack, api_key, access_token, client_id, client_secret, redirect_url, output, request_log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := setConfigValue(args[0], args[1])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := setConfigValue(args[0], "")
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func loadConfig() *Config {
	config := &Config{
		Host:         viper.GetString(keyHost),
		Stack:        viper.GetString(keyStack),
		APIKey:       viper.GetString(keyAPIKey),
		AccessToken:  viper.GetString(keyAccessToken),
		RefreshToken: viper.GetString(keyRefreshToken),
		ClientID:     viper.GetString(keyClientID),
		ClientSecret: viper.GetString(keyClientSecret),
		RedirectURL:  viper.GetString(keyRedirectURL),
		Output:       viper.GetString(keyOutput),
		RequestLog:   viper.GetBool(keyRequestLog),
	}

	if expiresAt := viper.GetTime(keyTokenExpiresAt); !expiresAt.IsZero() {
		config.TokenExpiresAt = &expiresAt
	}

	return config
}

func setConfigValue(key, value string) error {
	if !slices.Contains(settableKeys, key) {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	switch key {
	case keyOutput:
		if value != "" && !isOutputFormat(value) {
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutput, value)
		}
	case keyRequestLog:
		if value == "" {
			viper.Set(key, false)

			return saveConfigStruct(loadConfig())
		}

		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}

		viper.Set(key, enabled)

		return saveConfigStruct(loadConfig())
	case keyAccessToken:
		viper.Set(keyRefreshToken, "")
		viper.Set(keyTokenExpiresAt, time.Time{})
	}

	viper.Set(key, value)

	return saveConfigStruct(loadConfig())
}

func isOutputFormat(format string) bool {
	return format == constants.OutputFormatJSON || format == constants.OutputFormatYAML || format == constants.OutputFormatTable
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+".yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func displayConfigTable(cmd *cobra.Command, config *Config) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Property", "Value")

	expiresAt := ""
	if config.TokenExpiresAt != nil {
		expiresAt = config.TokenExpiresAt.Format(time.RFC3339)
	}

	rows := [][]string{
		{keyHost, config.Host},
		{keyStack, config.Stack},
		{keyAPIKey, formatConfigValue(keyAPIKey, config.APIKey)},
		{keyAccessToken, formatConfigValue(keyAccessToken, config.AccessToken)},
		{keyRefreshToken, formatConfigValue(keyRefreshToken, config.RefreshToken)},
		{keyTokenExpiresAt, expiresAt},
		{keyClientID, config.ClientID},
		{keyClientSecret, formatConfigValue(keyClientSecret, config.ClientSecret)},
		{keyRedirectURL, config.RedirectURL},
		{keyOutput, config.Output},
		{keyRequestLog, strconv.FormatBool(config.RequestLog)},
	}

	for _, row := range rows {
		_ = table.Append(row)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatConfigValue(key, value string) string {
	if value == "" {
		return "(not set)"
	}

	if slices.Contains(secretKeys, key) {
		return "********"
	}

	return value
}
