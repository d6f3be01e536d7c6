// Package config loads analyzer configuration from a YAML file, an optional
// .env file and NFTAPE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mr-tron/base58"
	"github.com/spf13/viper"

	"github.com/luckyturtle/nftape.me/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. NFTAPE_RPC_ENDPOINT.
const EnvPrefix = "NFTAPE"

// Config represents the complete application configuration.
type Config struct {
	RPC          RPCConfig         `mapstructure:"rpc"`
	History      HistoryConfig     `mapstructure:"history"`
	Metadata     MetadataConfig    `mapstructure:"metadata"`
	Pricing      PricingConfig     `mapstructure:"pricing"`
	Cache        CacheConfig       `mapstructure:"cache"`
	Analysis     AnalysisConfig    `mapstructure:"analysis"`
	Marketplaces MarketplaceConfig `mapstructure:"marketplaces"`
	Server       ServerConfig      `mapstructure:"server"`
	Logging      LoggingConfig     `mapstructure:"logging"`
}

// RPCConfig holds Solana JSON-RPC settings.
type RPCConfig struct {
	Endpoint          string        `mapstructure:"endpoint"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
	MaxDelay          time.Duration `mapstructure:"max_delay"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// HistoryConfig controls signature listing and batch resolution.
type HistoryConfig struct {
	BatchSize     int `mapstructure:"batch_size"`
	PageLimit     int `mapstructure:"page_limit"`
	MaxSignatures int `mapstructure:"max_signatures"` // 0 = unbounded
}

// MetadataConfig controls metadata enrichment.
type MetadataConfig struct {
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// PricingConfig holds price statistics service settings.
type PricingConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Method            string        `mapstructure:"method"`
	Strict            bool          `mapstructure:"strict"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
}

// CacheConfig configures the price statistics cache.
// An empty RedisAddr selects the in-process cache.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// AnalysisConfig controls the orchestrator.
type AnalysisConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// MarketplaceConfig adds program IDs to the built-in marketplace registry.
type MarketplaceConfig struct {
	Extra []ExtraMarketplace `mapstructure:"extra"`
}

// ExtraMarketplace maps one program ID to an exchange tag.
// Listed rather than keyed because viper lowercases map keys.
type ExtraMarketplace struct {
	Program  string `mapstructure:"program"`
	Exchange string `mapstructure:"exchange"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from path (optional), .env and the environment.
// An empty path uses defaults and environment variables only.
func Load(path string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc.endpoint", "https://api.mainnet-beta.solana.com")
	v.SetDefault("rpc.timeout", "30s")
	v.SetDefault("rpc.max_retries", 3)
	v.SetDefault("rpc.retry_delay", "1s")
	v.SetDefault("rpc.max_delay", "30s")
	v.SetDefault("rpc.requests_per_second", 0)
	v.SetDefault("rpc.burst", 1)

	v.SetDefault("history.batch_size", 220)
	v.SetDefault("history.page_limit", 1000)
	v.SetDefault("history.max_signatures", 0)

	v.SetDefault("metadata.http_timeout", "10s")

	v.SetDefault("pricing.base_url", "http://localhost:8081")
	v.SetDefault("pricing.timeout", "10s")
	v.SetDefault("pricing.method", domain.PriceMethodMedian.String())
	v.SetDefault("pricing.strict", false)
	v.SetDefault("pricing.requests_per_second", 0)
	v.SetDefault("pricing.max_retries", 3)
	v.SetDefault("pricing.retry_delay", "500ms")

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", "10m")

	v.SetDefault("analysis.concurrency", 8)

	v.SetDefault("marketplaces.extra", []ExtraMarketplace{})

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.RPC.Endpoint == "" {
		return fmt.Errorf("rpc.endpoint is required")
	}
	if c.RPC.MaxRetries < 0 {
		return fmt.Errorf("rpc.max_retries must not be negative")
	}
	if c.RPC.RequestsPerSecond < 0 {
		return fmt.Errorf("rpc.requests_per_second must not be negative")
	}

	if c.History.BatchSize < 1 {
		return fmt.Errorf("history.batch_size must be at least 1")
	}
	if c.History.PageLimit < 1 || c.History.PageLimit > 1000 {
		return fmt.Errorf("history.page_limit must be between 1 and 1000")
	}
	if c.History.MaxSignatures < 0 {
		return fmt.Errorf("history.max_signatures must not be negative")
	}

	if c.Pricing.BaseURL == "" {
		return fmt.Errorf("pricing.base_url is required")
	}
	if _, err := domain.ParsePriceMethod(c.Pricing.Method); err != nil {
		return fmt.Errorf("pricing.method: %w", err)
	}
	if c.Pricing.RequestsPerSecond < 0 {
		return fmt.Errorf("pricing.requests_per_second must not be negative")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}

	if c.Analysis.Concurrency < 1 {
		return fmt.Errorf("analysis.concurrency must be at least 1")
	}

	for _, m := range c.Marketplaces.Extra {
		raw, err := base58.Decode(m.Program)
		if err != nil || len(raw) != 32 {
			return fmt.Errorf("marketplaces.extra: invalid program id %q", m.Program)
		}
		if strings.TrimSpace(m.Exchange) == "" {
			return fmt.Errorf("marketplaces.extra: empty exchange tag for %s", m.Program)
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// PriceMethod returns the configured method. Call after Validate.
func (c *Config) PriceMethod() domain.PriceMethod {
	m, err := domain.ParsePriceMethod(c.Pricing.Method)
	if err != nil {
		return domain.PriceMethodMedian
	}
	return m
}
