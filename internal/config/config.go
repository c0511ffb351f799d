// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payment modes name preset monthly surplus amounts.
const (
	ModeAggressive = "aggressive"
	ModeBalanced   = "balanced"
	ModeLazy       = "lazy"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port      int
	DBPath    string
	LogLevel  string
	LogFormat string

	// RedisAddr selects the Redis cache. Empty means the in-memory cache.
	RedisAddr string
	CacheTTL  time.Duration

	MaxScheduleMonths int

	// PaymentModes maps a mode name to its monthly surplus.
	PaymentModes map[string]decimal.Decimal
}

// Default returns the configuration used when no environment variables are set.
func Default() Config {
	return Config{
		Port:              8080,
		DBPath:            "./data/pocketsage.db",
		LogLevel:          "info",
		LogFormat:         "text",
		CacheTTL:          10 * time.Minute,
		MaxScheduleMonths: 1200,
		PaymentModes: map[string]decimal.Decimal{
			ModeAggressive: decimal.NewFromInt(500),
			ModeBalanced:   decimal.NewFromInt(200),
			ModeLazy:       decimal.NewFromInt(50),
		},
	}
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()
	env := func(key string) (string, bool) {
		v := strings.TrimSpace(getenv(key))
		return v, v != ""
	}

	if v, ok := env("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}
	if v, ok := env("DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := env("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := env("LOG_FORMAT"); ok {
		if v != "text" && v != "json" {
			return Config{}, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", v)
		}
		cfg.LogFormat = v
	}
	if v, ok := env("REDIS_ADDR"); ok {
		cfg.RedisAddr = v
	}
	if v, ok := env("CACHE_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl < 0 {
			return Config{}, fmt.Errorf("invalid CACHE_TTL %q", v)
		}
		cfg.CacheTTL = ttl
	}
	if v, ok := env("MAX_SCHEDULE_MONTHS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid MAX_SCHEDULE_MONTHS %q", v)
		}
		cfg.MaxScheduleMonths = n
	}
	for mode := range cfg.PaymentModes {
		key := "PAYMENT_MODE_" + strings.ToUpper(mode)
		v, ok := env(key)
		if !ok {
			continue
		}
		amount, err := decimal.NewFromString(v)
		if err != nil || amount.IsNegative() {
			return Config{}, fmt.Errorf("invalid %s %q", key, v)
		}
		cfg.PaymentModes[mode] = amount
	}
	return cfg, nil
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SurplusFor returns the monthly surplus of a payment mode.
func (c Config) SurplusFor(mode string) (decimal.Decimal, error) {
	amount, ok := c.PaymentModes[strings.ToLower(strings.TrimSpace(mode))]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown payment mode %q: want one of %s", mode, strings.Join(c.Modes(), ", "))
	}
	return amount, nil
}

// Modes lists the known payment mode names, sorted.
func (c Config) Modes() []string {
	modes := make([]string, 0, len(c.PaymentModes))
	for m := range c.PaymentModes {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	return modes
}
