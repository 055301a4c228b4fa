// Package config loads prepdeck settings from defaults, an optional YAML
// file, a .env file and PREPDECK_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/llm"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "PREPDECK"

// Config holds all application configuration.
type Config struct {
	DBPath  string `mapstructure:"db_path"`
	LogMode string `mapstructure:"log_mode"`

	Results     ResultsConfig     `mapstructure:"results"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Events      EventsConfig      `mapstructure:"events"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Session     SessionConfig     `mapstructure:"session"`
	Tiers       TiersConfig       `mapstructure:"tiers"`
	Advice      AdviceConfig      `mapstructure:"advice"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	LLM         LLMConfig         `mapstructure:"llm"`
}

// ResultsConfig selects where Results are written.
type ResultsConfig struct {
	Backend     string `mapstructure:"backend"` // sqlite | postgres
	PostgresURL string `mapstructure:"postgres_url"`
}

// CacheConfig selects the prefetch pool cache.
type CacheConfig struct {
	Backend   string        `mapstructure:"backend"` // memory | redis
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// EventsConfig enables AMQP publishing when URL is set.
type EventsConfig struct {
	AMQPURL  string `mapstructure:"amqp_url"`
	Exchange string `mapstructure:"exchange"`
}

// HTTPConfig configures `prepdeck serve`.
type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	GinMode      string        `mapstructure:"gin_mode"`
	AllowOrigins []string      `mapstructure:"allow_origins"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	JanitorEvery time.Duration `mapstructure:"janitor_every"`
}

// SessionConfig tunes the engine.
type SessionConfig struct {
	PerItemSeconds int           `mapstructure:"per_item_seconds"`
	TickInterval   time.Duration `mapstructure:"tick_interval"`
}

// TiersConfig holds sample caps and the static entitlement table.
type TiersConfig struct {
	Caps    map[string]int    `mapstructure:"caps"`
	Users   map[string]string `mapstructure:"users"`
	Default string            `mapstructure:"default"`
}

// AdviceConfig tunes the recommendation projection.
type AdviceConfig struct {
	Multiplier float64 `mapstructure:"multiplier"`
}

// LeaderboardConfig points at a reference population file. Empty uses
// the bundled set.
type LeaderboardConfig struct {
	ReferenceFile string `mapstructure:"reference_file"`
}

// LLMConfig selects the drafting model.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "")
	v.SetDefault("log_mode", "dev")

	v.SetDefault("results.backend", "sqlite")
	v.SetDefault("results.postgres_url", "")

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.ttl", "30m")

	v.SetDefault("events.amqp_url", "")
	v.SetDefault("events.exchange", "prepdeck.sessions")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.gin_mode", "release")
	v.SetDefault("http.allow_origins", []string{"*"})
	v.SetDefault("http.idle_timeout", "2h")
	v.SetDefault("http.janitor_every", "1m")

	v.SetDefault("session.per_item_seconds", catalog.DefaultPerItemSeconds)
	v.SetDefault("session.tick_interval", "1s")

	v.SetDefault("tiers.caps", map[string]int{})
	v.SetDefault("tiers.users", map[string]string{})
	v.SetDefault("tiers.default", string(catalog.TierFree))

	v.SetDefault("advice.multiplier", 3.0)
	v.SetDefault("leaderboard.reference_file", "")

	llmDefaults := llm.DefaultConfig()
	v.SetDefault("llm.provider", llmDefaults.Provider)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", llmDefaults.Timeout)
	v.SetDefault("llm.max_attempts", llmDefaults.MaxAttempts)
}

// Load reads configuration. configFile may be empty, in which case
// prepdeck.yaml is looked up in the working directory and the user config
// directory; a missing file is not an error. A .env file in the working
// directory is applied to the environment first.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("prepdeck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/prepdeck")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects inconsistent settings.
func (c *Config) Validate() error {
	switch c.Results.Backend {
	case "sqlite":
	case "postgres":
		if c.Results.PostgresURL == "" {
			return fmt.Errorf("results.postgres_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown results backend %q", c.Results.Backend)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Session.PerItemSeconds <= 0 {
		return fmt.Errorf("session.per_item_seconds must be positive")
	}
	for name, n := range c.Tiers.Caps {
		if _, err := catalog.ParseTier(name); err != nil {
			return fmt.Errorf("tiers.caps: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("tiers.caps.%s must not be negative", name)
		}
	}
	for user, tier := range c.Tiers.Users {
		if _, err := catalog.ParseTier(tier); err != nil {
			return fmt.Errorf("tiers.users.%s: %w", user, err)
		}
	}
	if _, err := catalog.ParseTier(c.Tiers.Default); err != nil {
		return fmt.Errorf("tiers.default: %w", err)
	}
	return nil
}

// Caps returns the default caps overridden by tiers.caps.
func (c *Config) Caps() catalog.Caps {
	caps := catalog.DefaultCaps()
	for name, n := range c.Tiers.Caps {
		caps[catalog.Tier(name)] = n
	}
	return caps
}

// Entitlements returns the static user→tier table.
func (c *Config) Entitlements() catalog.StaticEntitlements {
	e := catalog.StaticEntitlements{
		Tiers:   make(map[string]catalog.Tier, len(c.Tiers.Users)),
		Default: catalog.Tier(c.Tiers.Default),
	}
	for user, tier := range c.Tiers.Users {
		e.Tiers[user] = catalog.Tier(tier)
	}
	return e
}

// LLMConfig converts the llm section into provider settings.
func (c *Config) LLMConfig() llm.Config {
	out := llm.DefaultConfig()
	out.Provider = c.LLM.Provider
	out.Model = c.LLM.Model
	out.APIKey = c.LLM.APIKey
	out.BaseURL = c.LLM.BaseURL
	if c.LLM.Timeout > 0 {
		out.Timeout = c.LLM.Timeout
	}
	if c.LLM.MaxAttempts > 0 {
		out.MaxAttempts = c.LLM.MaxAttempts
	}
	return out
}
