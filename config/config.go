package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Black-And-White-Club/rock-destroyer/app/observability"
)

const (
	// DefaultEntryFee is one whole token in base units.
	DefaultEntryFee uint64 = 1_000_000_000

	EventBusDriverNATS      = "nats"
	EventBusDriverGoChannel = "gochannel"

	// MinJWTSecretLen is the shortest HS256 key accepted; RFC 7518 asks for at
	// least the hash output size.
	MinJWTSecretLen = 32
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	EventBus      EventBusConfig      `yaml:"eventbus"`
	Game          GameConfig          `yaml:"game"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL      string `yaml:"url"`
	NKeySeed string `yaml:"nkey_seed"`
}

// EventBusConfig selects the event transport.
type EventBusConfig struct {
	Driver string `yaml:"driver"` // nats|gochannel
}

// GameConfig holds the leaderboard rules that vary per deployment.
type GameConfig struct {
	Owner    string `yaml:"owner"`     // base58 identity allowed to initialize
	EntryFee uint64 `yaml:"entry_fee"` // base units per game
}

// HTTPConfig holds the REST listener configuration.
type HTTPConfig struct {
	Address   string  `yaml:"address"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second per identity
	RateBurst int     `yaml:"rate_burst"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName     string  `yaml:"service_name"`
	Environment     string  `yaml:"environment"`
	LogLevel        string  `yaml:"log_level"`
	MetricsEnabled  bool    `yaml:"metrics_enabled"`
	TracingEndpoint string  `yaml:"tracing_endpoint"` // OTLP/gRPC host:port; empty disables export
	TracingInsecure bool    `yaml:"tracing_insecure"`
	TraceSampleRate float64 `yaml:"trace_sample_rate"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_NKEY_SEED"); v != "" {
		cfg.NATS.NKeySeed = v
	}
	if v := os.Getenv("EVENTBUS_DRIVER"); v != "" {
		cfg.EventBus.Driver = v
	}
	if v := os.Getenv("GAME_OWNER"); v != "" {
		cfg.Game.Owner = v
	}
	if v := os.Getenv("ENTRY_FEE"); v != "" {
		fee, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ENTRY_FEE value: %v", err)
		}
		cfg.Game.EntryFee = fee
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.JWT.DefaultTTL = d
		}
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Observability.MetricsEnabled = v == "true"
	}
	if v := os.Getenv("TRACING_ENDPOINT"); v != "" {
		cfg.Observability.TracingEndpoint = v
	}
	if v := os.Getenv("TRACING_INSECURE"); v != "" {
		cfg.Observability.TracingInsecure = v == "true"
	}

	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	cfg.EventBus.Driver = os.Getenv("EVENTBUS_DRIVER")
	cfg.NATS.URL = os.Getenv("NATS_URL")
	cfg.NATS.NKeySeed = os.Getenv("NATS_NKEY_SEED")

	cfg.Game.Owner = os.Getenv("GAME_OWNER")
	if fee := os.Getenv("ENTRY_FEE"); fee != "" {
		var err error
		cfg.Game.EntryFee, err = strconv.ParseUint(fee, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ENTRY_FEE value: %v", err)
		}
	}

	cfg.HTTP.Address = os.Getenv("HTTP_ADDRESS")

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if ttl := os.Getenv("JWT_DEFAULT_TTL"); ttl != "" {
		var err error
		cfg.JWT.DefaultTTL, err = time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_DEFAULT_TTL value: %v", err)
		}
	}

	cfg.Observability.Environment = os.Getenv("ENV")
	cfg.Observability.LogLevel = os.Getenv("LOG_LEVEL")
	cfg.Observability.MetricsEnabled = os.Getenv("METRICS_ENABLED") == "true"
	cfg.Observability.TracingEndpoint = os.Getenv("TRACING_ENDPOINT")
	cfg.Observability.TracingInsecure = os.Getenv("TRACING_INSECURE") == "true"

	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.EventBus.Driver == "" {
		cfg.EventBus.Driver = EventBusDriverNATS
	}
	if cfg.Game.EntryFee == 0 {
		cfg.Game.EntryFee = DefaultEntryFee
	}
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.RateLimit == 0 {
		cfg.HTTP.RateLimit = 5
	}
	if cfg.HTTP.RateBurst == 0 {
		cfg.HTTP.RateBurst = 10
	}
	if cfg.JWT.DefaultTTL == 0 {
		cfg.JWT.DefaultTTL = 24 * time.Hour
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "rock-destroyer"
	}
	if cfg.Observability.Environment == "" {
		cfg.Observability.Environment = "development"
	}
}

func (c *Config) validate() error {
	switch c.EventBus.Driver {
	case EventBusDriverNATS:
		if c.NATS.URL == "" {
			return fmt.Errorf("NATS_URL must be set when the event bus driver is %q", EventBusDriverNATS)
		}
	case EventBusDriverGoChannel:
	default:
		return fmt.Errorf("unknown event bus driver %q", c.EventBus.Driver)
	}
	if c.Game.Owner == "" {
		return fmt.Errorf("GAME_OWNER must be set")
	}
	if len(c.JWT.Secret) < MinJWTSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes, got %d", MinJWTSecretLen, len(c.JWT.Secret))
	}
	return nil
}

func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName:    appCfg.Observability.ServiceName,
		Environment:    appCfg.Observability.Environment,
		Version:        "0.1.0", // Could inject via `ldflags`
		LogLevel:       appCfg.Observability.LogLevel,
		MetricsEnabled: appCfg.Observability.MetricsEnabled,

		TracingEndpoint: appCfg.Observability.TracingEndpoint,
		TracingInsecure: appCfg.Observability.TracingInsecure,
		TraceSampleRate: appCfg.Observability.TraceSampleRate,
	}
}
