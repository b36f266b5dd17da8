package commands

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/stdr"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	"github.com/fivetwenty-io/stackla-go/pkg/stackclient"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// buildStackConfig turns the CLI configuration into an SDK configuration.
// An API key takes precedence over an access token.
func buildStackConfig(config *Config) (*stackla.Config, error) {
	if strings.TrimSpace(config.Host) == "" {
		return nil, constants.ErrNoHostConfigured
	}

	if config.Stack == "" {
		return nil, constants.ErrNoStackConfigured
	}

	var credentials *stackla.Credentials

	switch {
	case config.APIKey != "":
		credentials = stackla.NewAPIKeyCredentials(config.Host, config.APIKey)
	case config.AccessToken != "":
		credentials = stackla.NewOAuth2Credentials(config.Host, config.AccessToken)
	default:
		return nil, constants.ErrNoTokenConfigured
	}

	return &stackla.Config{
		Host:         config.Host,
		Stack:        config.Stack,
		Credentials:  credentials,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		HTTPTimeout:  constants.DefaultHTTPTimeout,
	}, nil
}

// newStack creates a Stack from the current configuration. The returned
// function closes the request log and must always be called.
func newStack() (*stackclient.Stack, func(), error) {
	config := loadConfig()

	stackConfig, err := buildStackConfig(config)
	if err != nil {
		return nil, func() {}, err
	}

	closeLog := func() {}

	if config.RequestLog || viper.GetBool("verbose") {
		logger, closer, err := openRequestLog(requestLogPath())
		if err != nil {
			return nil, func() {}, err
		}

		stackConfig.Logger = logger
		stackConfig.Debug = true
		closeLog = closer
	}

	stack, err := stackclient.New(stackConfig)
	if err != nil {
		closeLog()

		return nil, func() {}, fmt.Errorf("failed to create client: %w", err)
	}

	return stack, closeLog, nil
}

func requestLogPath() string {
	return filepath.Join(os.TempDir(), constants.RequestLogFileName)
}

// openRequestLog appends request log lines to path through stdr.
func openRequestLog(path string) (stackla.Logger, func(), error) {
	// path is built from the OS temp dir and a constant file name
	// #nosec G304
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.LogFilePerm)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open request log: %w", err)
	}

	stdr.SetVerbosity(1)

	logger := stackclient.NewLogrLogger(stdr.New(log.New(file, "", log.LstdFlags)))

	return logger, func() { _ = file.Close() }, nil
}
