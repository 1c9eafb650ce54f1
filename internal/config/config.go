package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Pebble  PebbleConfig  `yaml:"pebble"`
	Esplora EsploraConfig `yaml:"esplora"`
	Price   PriceConfig   `yaml:"price"`
	Fees    FeesConfig    `yaml:"fees"`
	Refresh RefreshConfig `yaml:"refresh"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// PebbleConfig represents the Pebble database configuration
type PebbleConfig struct {
	Path string `yaml:"path"`
}

// EsploraConfig represents the address ledger indexer configuration
type EsploraConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// PriceConfig represents the spot price service configuration
type PriceConfig struct {
	BaseURL        string `yaml:"base_url"`
	AssetID        string `yaml:"asset_id"`
	FiatCurrency   string `yaml:"fiat_currency"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// FeesConfig represents the fee-estimate service configuration
type FeesConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RefreshConfig represents the periodic refresh configuration
type RefreshConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// Load loads configuration from a YAML file and environment variables
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Pebble: PebbleConfig{
			Path: "./data/pebble",
		},
		Esplora: EsploraConfig{
			BaseURL:        "https://blockstream.info/api",
			TimeoutSeconds: 15,
		},
		Price: PriceConfig{
			BaseURL:        "https://api.coingecko.com/api/v3",
			AssetID:        "bitcoin",
			FiatCurrency:   "usd",
			TimeoutSeconds: 10,
		},
		Fees: FeesConfig{
			BaseURL:        "https://mempool.space/api",
			TimeoutSeconds: 10,
		},
		Refresh: RefreshConfig{
			IntervalSeconds: 60,
		},
	}

	// Load from YAML file if it exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	cfg.loadEnv()

	return cfg, nil
}

func (c *Config) loadEnv() {
	// Server config
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}

	// Pebble config
	if path := os.Getenv("PEBBLE_PATH"); path != "" {
		c.Pebble.Path = path
	}

	// Feed endpoints
	if url := os.Getenv("ESPLORA_BASE_URL"); url != "" {
		c.Esplora.BaseURL = url
	}
	if url := os.Getenv("PRICE_BASE_URL"); url != "" {
		c.Price.BaseURL = url
	}
	if asset := os.Getenv("PRICE_ASSET_ID"); asset != "" {
		c.Price.AssetID = asset
	}
	if fiat := os.Getenv("PRICE_FIAT_CURRENCY"); fiat != "" {
		c.Price.FiatCurrency = fiat
	}
	if url := os.Getenv("FEES_BASE_URL"); url != "" {
		c.Fees.BaseURL = url
	}

	// Refresh config
	if interval := os.Getenv("REFRESH_INTERVAL"); interval != "" {
		if i, err := strconv.Atoi(interval); err == nil {
			c.Refresh.IntervalSeconds = i
		}
	}
}
