package config

import (
	"fmt"
	"strings"

	"fx-payment-processor/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Admin     AdminConfig     `mapstructure:"admin"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Rates     RatesConfig     `mapstructure:"rates"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type AdminConfig struct {
	// Key guards rate table updates. Empty disables the admin surface.
	Key string `mapstructure:"key"`
}

type RateLimitConfig struct {
	// Enabled turns on Redis-backed per-client rate limiting.
	Enabled bool `mapstructure:"enabled"`
}

// RatesConfig holds the exchange-rate table seeded at startup, keyed by
// "FROM_TO" currency pairs with decimal rates as strings.
type RatesConfig struct {
	Seed map[string]string `mapstructure:"seed"`
}

// SeedTable parses the configured seed rates into domain form.
func (r RatesConfig) SeedTable() (map[domain.RatePair]decimal.Decimal, error) {
	table := make(map[domain.RatePair]decimal.Decimal, len(r.Seed))
	for key, raw := range r.Seed {
		pair, err := domain.ParseRatePair(key)
		if err != nil {
			return nil, fmt.Errorf("seed rate key %q: %w", key, err)
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("seed rate %q: %w", key, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("seed rate %q: must be positive, got %s", key, rate)
		}
		table[pair] = rate
	}
	return table, nil
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: FXP_.
// Nested keys use underscore: FXP_SERVER_PORT, FXP_ADMIN_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("admin.key", "")
	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("rates.seed", map[string]string{
		"USD_MXN": "18.70",
		"MXN_USD": "0.053",
	})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: FXP_REDIS_HOST -> redis.host
	v.SetEnvPrefix("FXP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
