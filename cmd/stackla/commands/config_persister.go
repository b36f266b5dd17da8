package commands

import (
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/fivetwenty-io/stackla-go/internal/auth"
)

// ConfigPersister implements auth.TokenPersister on top of the CLI config.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// SaveToken stores token as the access token of host.
func (p *ConfigPersister) SaveToken(host string, token *auth.Token) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if host != "" {
		viper.Set(keyHost, host)
	}

	viper.Set(keyAccessToken, token.AccessToken)
	viper.Set(keyRefreshToken, token.RefreshToken)

	if token.ExpiresAt.IsZero() {
		viper.Set(keyTokenExpiresAt, time.Time{})
	} else {
		viper.Set(keyTokenExpiresAt, token.ExpiresAt)
	}

	return saveConfigStruct(loadConfig())
}
