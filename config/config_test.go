package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STELLAR_ACCOUNT", "GABC")
	t.Setenv("QUOTE_ASSET_ISSUER", "GISSUER")
}

func TestFromEnv_Defaults(t *testing.T) {
	validEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "TESTNET", cfg.Network.Name)
	assert.Equal(t, 0.2, cfg.Strategy.BuyThreshold)
	assert.Equal(t, 0.3, cfg.Strategy.SellThreshold)
	assert.Equal(t, 100.0, cfg.Strategy.MaxBasePerTrade)
	assert.Equal(t, 5.0, cfg.Trading.BaseReserve)
	assert.Equal(t, 60, cfg.Trading.PollingInterval)
	assert.Equal(t, 300, cfg.Trading.PriceCheckInterval)
	assert.True(t, cfg.Trading.Enabled)
	assert.Equal(t, []string{"https://horizon-testnet.stellar.org"}, cfg.Endpoints())
}

func TestFromEnv_Overrides(t *testing.T) {
	validEnv(t)
	t.Setenv("STELLAR_NETWORK", "PUBLIC")
	t.Setenv("BUY_THRESHOLD", "0.1")
	t.Setenv("SELL_THRESHOLD", "0.4")
	t.Setenv("TRADING_ENABLED", "false")
	t.Setenv("HORIZON_BACKUP_URL", "https://backup.example.com")
	t.Setenv("POLLING_INTERVAL", "15")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 0.1, cfg.Strategy.BuyThreshold)
	assert.Equal(t, 0.4, cfg.Strategy.SellThreshold)
	assert.False(t, cfg.Trading.Enabled)
	assert.Equal(t, 15, cfg.Trading.PollingInterval)
	assert.Equal(t,
		[]string{"https://horizon.stellar.org", "https://backup.example.com"},
		cfg.Endpoints())
}

func TestValidate_ThresholdOrdering(t *testing.T) {
	validEnv(t)
	t.Setenv("BUY_THRESHOLD", "0.5")
	t.Setenv("SELL_THRESHOLD", "0.3")

	_, err := FromEnv()
	require.Error(t, err, "buy >= sell must be rejected at startup")
	assert.Contains(t, err.Error(), "buy_threshold")
}

func TestFromEnv_UnparsableValueFatal(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"BUY_THRESHOLD", "abc"},
		{"MAX_COUNTER_PER_TRADE", "30x"},
		{"POLLING_INTERVAL", "1m"},
		{"TRADING_ENABLED", "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			validEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			require.Error(t, err, "a set but unparsable %s must not start the bot", tt.key)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate_BaseAssetMustBeNative(t *testing.T) {
	validEnv(t)
	t.Setenv("BASE_ASSET", "BTC")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_asset")
}

func TestValidate_MissingAccount(t *testing.T) {
	t.Setenv("QUOTE_ASSET_ISSUER", "GISSUER")
	t.Setenv("STELLAR_ACCOUNT", "")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestValidate_MissingIssuer(t *testing.T) {
	t.Setenv("STELLAR_ACCOUNT", "GABC")
	t.Setenv("QUOTE_ASSET_ISSUER", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "counter_issuer")
}

func TestLoadFromFile_YAML(t *testing.T) {
	validEnv(t)

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := `
network:
  name: PUBLIC
  account: GFILE
strategy:
  name: threshold
  buy_threshold: 0.18
  sell_threshold: 0.32
  max_base_per_trade: 50
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "PUBLIC", cfg.Network.Name)
	assert.Equal(t, 0.18, cfg.Strategy.BuyThreshold)
	assert.Equal(t, 50.0, cfg.Strategy.MaxBasePerTrade)
	// Environment still overrides the file.
	assert.Equal(t, "GABC", cfg.Network.Account)
	// Unspecified sections keep their defaults.
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestLoadFromFile_RoundTrip(t *testing.T) {
	validEnv(t)

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := Default()
	cfg.Network.Account = "GSAVED"
	cfg.Pair.CounterIssuer = "GISSUER"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Strategy, loaded.Strategy)
	assert.Equal(t, cfg.Trading, loaded.Trading)
}
