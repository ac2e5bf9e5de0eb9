package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flyhigh/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROXY_HOST", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("TXLOG_MAX_ENTRIES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.TxLog.MaxEntries)
	assert.Equal(t, 0, cfg.Scraper.MaxBodyBytes)
	assert.Equal(t, "https://www.google.com", cfg.Provider.BaseURL)
	assert.False(t, cfg.LLM.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PROXY_HOST", "proxy.local")
	t.Setenv("PROXY_PORT", "3128")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("SCRAPER_BURST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "proxy.local", cfg.Proxy.Host)
	assert.Equal(t, "3128", cfg.Proxy.Port)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 4, cfg.Scraper.Burst)
}

func TestProxyValidate(t *testing.T) {
	err := ProxyConfig{Host: "proxy.local", Password: "secret"}.Validate()

	var cfgErr *models.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"PROXY_PORT", "PROXY_USER"}, cfgErr.Missing)

	assert.NoError(t, ProxyConfig{Host: "h", Port: "1", Username: "u", Password: "p"}.Validate())
}
