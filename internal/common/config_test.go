package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "USD", config.DisplayCurrency)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, 2*time.Second, config.Storage.GetPollInterval())
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig("/nonexistent/vantage.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vantage.toml")
	content := `
environment = "production"
display_currency = "INR"

[server]
host = "127.0.0.1"
port = 9090

[storage]
poll_interval = "500ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "INR", config.DisplayCurrency)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 500*time.Millisecond, config.Storage.GetPollInterval())
	assert.True(t, config.IsProduction())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("VANTAGE_PORT", "7070")
	t.Setenv("VANTAGE_DISPLAY_CURRENCY", "inr")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "INR", config.DisplayCurrency)
}

func TestDisplayCurrencyValidationFallsBack(t *testing.T) {
	t.Setenv("VANTAGE_DISPLAY_CURRENCY", "EUR")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "USD", config.DisplayCurrency, "unsupported currency falls back to USD")
}

func TestGetPollIntervalBadValue(t *testing.T) {
	c := StorageConfig{PollInterval: "soon"}
	assert.Equal(t, 2*time.Second, c.GetPollInterval())

	c = StorageConfig{PollInterval: "-5s"}
	assert.Equal(t, 2*time.Second, c.GetPollInterval())
}
