package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete bot configuration. It is read once at startup from
// an optional YAML/JSON file, then overridden by environment variables, and
// validated before anything else runs. Misconfiguration is fatal: the
// process exits non-zero instead of failing silently mid-loop.
type Config struct {
	Network  NetworkConfig  `json:"network" yaml:"network"`
	Pair     PairConfig     `json:"pair" yaml:"pair"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Trading  TradingConfig  `json:"trading" yaml:"trading"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`
	LogLevel string         `json:"log_level" yaml:"log_level"`
}

// NetworkConfig selects the Stellar network and the Horizon endpoints. An
// empty primary URL falls back to the public instance for the network; the
// backup is optional.
type NetworkConfig struct {
	Name           string `json:"name" yaml:"name"` // TESTNET or PUBLIC
	HorizonURL     string `json:"horizon_url,omitempty" yaml:"horizon_url,omitempty"`
	BackupURL      string `json:"backup_url,omitempty" yaml:"backup_url,omitempty"`
	Account        string `json:"account" yaml:"account"`
	RequestTimeout string `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"` // e.g. "30s"
}

// PairConfig identifies the traded pair. The base asset is native XLM; the
// counter asset needs an issuer.
type PairConfig struct {
	BaseAsset     string `json:"base_asset" yaml:"base_asset"`
	CounterAsset  string `json:"counter_asset" yaml:"counter_asset"`
	CounterIssuer string `json:"counter_issuer" yaml:"counter_issuer"`
}

// StrategyConfig holds the threshold strategy parameters.
type StrategyConfig struct {
	Name            string  `json:"name" yaml:"name"`
	BuyThreshold    float64 `json:"buy_threshold" yaml:"buy_threshold"`
	SellThreshold   float64 `json:"sell_threshold" yaml:"sell_threshold"`
	MaxBasePerTrade float64 `json:"max_base_per_trade" yaml:"max_base_per_trade"`
}

// TradingConfig holds the safety limits and loop cadence.
type TradingConfig struct {
	Enabled            bool    `json:"enabled" yaml:"enabled"`
	BaseReserve        float64 `json:"base_reserve" yaml:"base_reserve"`
	MaxCounterPerTrade float64 `json:"max_counter_per_trade" yaml:"max_counter_per_trade"`
	MinBasePerTrade    float64 `json:"min_base_per_trade" yaml:"min_base_per_trade"`
	MaxSpread          float64 `json:"max_spread" yaml:"max_spread"`
	PollingInterval    int     `json:"polling_interval" yaml:"polling_interval"`         // seconds
	PriceCheckInterval int     `json:"price_check_interval" yaml:"price_check_interval"` // seconds
}

// JournalConfig selects the candle/order store.
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "csv" or "sqlite"
	CandlesFile string `json:"candles_file,omitempty" yaml:"candles_file,omitempty"`
	OrdersFile  string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MetricsConfig controls the optional Prometheus listener. An empty address
// disables it.
type MetricsConfig struct {
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
}

func (n NetworkConfig) Timeout() time.Duration {
	if n.RequestTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(n.RequestTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

func (t TradingConfig) Polling() time.Duration {
	return time.Duration(t.PollingInterval) * time.Second
}

func (t TradingConfig) PriceCheck() time.Duration {
	return time.Duration(t.PriceCheckInterval) * time.Second
}

// LoadFromFile loads configuration from a file (JSON or YAML), applies
// environment overrides, and validates.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// FromEnv builds the configuration from defaults and environment variables
// alone, the way the bot runs under a service manager without a config file.
func FromEnv() (*Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides any field whose environment variable is set. A variable
// that is set but does not parse is fatal: trading with a silently ignored
// threshold is worse than not starting.
func (c *Config) applyEnv() error {
	setString(&c.Network.Name, "STELLAR_NETWORK")
	setString(&c.Network.HorizonURL, "HORIZON_URL")
	setString(&c.Network.BackupURL, "HORIZON_BACKUP_URL")
	setString(&c.Network.Account, "STELLAR_ACCOUNT")
	setString(&c.Pair.BaseAsset, "BASE_ASSET")
	setString(&c.Pair.CounterAsset, "QUOTE_ASSET")
	setString(&c.Pair.CounterIssuer, "QUOTE_ASSET_ISSUER")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Journal.DBPath, "JOURNAL_DB_PATH")
	setString(&c.Metrics.ListenAddr, "METRICS_LISTEN_ADDR")

	floats := []struct {
		dst *float64
		key string
	}{
		{&c.Strategy.BuyThreshold, "BUY_THRESHOLD"},
		{&c.Strategy.SellThreshold, "SELL_THRESHOLD"},
		{&c.Strategy.MaxBasePerTrade, "MAX_BASE_PER_TRADE"},
		{&c.Trading.MaxCounterPerTrade, "MAX_COUNTER_PER_TRADE"},
		{&c.Trading.BaseReserve, "BASE_RESERVE"},
		{&c.Trading.MaxSpread, "MAX_SPREAD"},
	}
	for _, f := range floats {
		if err := setFloat(f.dst, f.key); err != nil {
			return err
		}
	}

	if err := setInt(&c.Trading.PollingInterval, "POLLING_INTERVAL"); err != nil {
		return err
	}
	if err := setInt(&c.Trading.PriceCheckInterval, "PRICE_CHECK_INTERVAL"); err != nil {
		return err
	}

	return setBool(&c.Trading.Enabled, "TRADING_ENABLED")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("parse %s=%q: %w", key, v, err)
	}
	*dst = f
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s=%q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("parse %s=%q: %w", key, v, err)
	}
	*dst = b
	return nil
}

// Endpoints returns the ordered endpoint list: primary, then backup.
// Defaults to the public Horizon instance for the selected network.
func (c *Config) Endpoints() []string {
	primary := c.Network.HorizonURL
	if primary == "" {
		if c.Network.Name == "PUBLIC" {
			primary = "https://horizon.stellar.org"
		} else {
			primary = "https://horizon-testnet.stellar.org"
		}
	}
	eps := []string{primary}
	if c.Network.BackupURL != "" {
		eps = append(eps, c.Network.BackupURL)
	}
	return eps
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Network.Name != "TESTNET" && c.Network.Name != "PUBLIC" {
		return fmt.Errorf("network.name must be TESTNET or PUBLIC, got %q", c.Network.Name)
	}
	if c.Network.Account == "" {
		return fmt.Errorf("network.account is required")
	}
	if c.Pair.BaseAsset != "XLM" {
		return fmt.Errorf("pair.base_asset must be XLM (the native asset), got %q", c.Pair.BaseAsset)
	}
	if c.Pair.CounterAsset == "" {
		return fmt.Errorf("pair.counter_asset is required")
	}
	if c.Pair.CounterAsset != "XLM" && c.Pair.CounterIssuer == "" {
		return fmt.Errorf("pair.counter_issuer is required for %s", c.Pair.CounterAsset)
	}
	if c.Strategy.BuyThreshold <= 0 || c.Strategy.SellThreshold <= 0 {
		return fmt.Errorf("strategy thresholds must be positive")
	}
	if c.Strategy.BuyThreshold >= c.Strategy.SellThreshold {
		return fmt.Errorf("strategy.buy_threshold %.7f must be below sell_threshold %.7f",
			c.Strategy.BuyThreshold, c.Strategy.SellThreshold)
	}
	if c.Strategy.MaxBasePerTrade <= 0 {
		return fmt.Errorf("strategy.max_base_per_trade must be positive")
	}
	if c.Trading.BaseReserve < 0 {
		return fmt.Errorf("trading.base_reserve must not be negative")
	}
	if c.Trading.PollingInterval <= 0 {
		return fmt.Errorf("trading.polling_interval must be positive")
	}
	if c.Trading.PriceCheckInterval <= 0 {
		return fmt.Errorf("trading.price_check_interval must be positive")
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.CandlesFile == "" || c.Journal.OrdersFile == "") {
		return fmt.Errorf("journal candles_file and orders_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Default returns a configuration with the product defaults. The base
// reserve default of 5 covers the venue's minimum account balance plus fee
// headroom.
func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			Name: "TESTNET",
		},
		Pair: PairConfig{
			BaseAsset:    "XLM",
			CounterAsset: "USDC",
		},
		Strategy: StrategyConfig{
			Name:            "threshold",
			BuyThreshold:    0.2,
			SellThreshold:   0.3,
			MaxBasePerTrade: 100,
		},
		Trading: TradingConfig{
			Enabled:            true,
			BaseReserve:        5,
			MaxCounterPerTrade: 30,
			MinBasePerTrade:    1,
			MaxSpread:          0.01,
			PollingInterval:    60,
			PriceCheckInterval: 300,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./swingbot.db",
		},
		LogLevel: "info",
	}
}
