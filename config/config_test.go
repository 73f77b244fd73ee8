package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwner  = "4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi"
	testSecret = "0123456789abcdef0123456789abcdef"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://file
nats:
  url: nats://file:4222
game:
  owner: `+testOwner+`
  entry_fee: 500
http:
  address: ":9000"
jwt:
  secret: `+testSecret+`
  default_ttl: 1h
observability:
  log_level: debug
  metrics_enabled: true
  tracing_endpoint: otel-collector:4317
  trace_sample_rate: 0.25
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file", cfg.Postgres.DSN)
	assert.Equal(t, "nats://file:4222", cfg.NATS.URL)
	assert.Equal(t, EventBusDriverNATS, cfg.EventBus.Driver)
	assert.Equal(t, testOwner, cfg.Game.Owner)
	assert.Equal(t, uint64(500), cfg.Game.EntryFee)
	assert.Equal(t, ":9000", cfg.HTTP.Address)
	assert.Equal(t, time.Hour, cfg.JWT.DefaultTTL)
	assert.Equal(t, testSecret, cfg.JWT.Secret)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, "otel-collector:4317", cfg.Observability.TracingEndpoint)
	assert.Equal(t, 0.25, cfg.Observability.TraceSampleRate)
	assert.Equal(t, "rock-destroyer", cfg.Observability.ServiceName)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://file
nats:
  url: nats://file:4222
game:
  owner: file-owner
`)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("GAME_OWNER", testOwner)
	t.Setenv("ENTRY_FEE", "42")
	t.Setenv("EVENTBUS_DRIVER", "gochannel")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
	assert.Equal(t, testOwner, cfg.Game.Owner)
	assert.Equal(t, uint64(42), cfg.Game.EntryFee)
	assert.Equal(t, EventBusDriverGoChannel, cfg.EventBus.Driver)
}

func TestLoadConfig_EnvFallback(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("NATS_URL", "nats://env:4222")
	t.Setenv("GAME_OWNER", testOwner)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("TRACING_ENDPOINT", "localhost:4317")
	t.Setenv("TRACING_INSECURE", "true")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:4317", cfg.Observability.TracingEndpoint)
	assert.True(t, cfg.Observability.TracingInsecure)

	assert.Equal(t, DefaultEntryFee, cfg.Game.EntryFee)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 24*time.Hour, cfg.JWT.DefaultTTL)
	assert.Equal(t, "development", cfg.Observability.Environment)
}

func TestLoadConfig_Invalid(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "no database", env: map[string]string{"NATS_URL": "nats://x", "GAME_OWNER": testOwner, "JWT_SECRET": testSecret}},
		{name: "no nats url", env: map[string]string{"DATABASE_URL": "postgres://x", "GAME_OWNER": testOwner, "JWT_SECRET": testSecret}},
		{name: "no owner", env: map[string]string{"DATABASE_URL": "postgres://x", "NATS_URL": "nats://x", "JWT_SECRET": testSecret}},
		{name: "bad fee", env: map[string]string{"DATABASE_URL": "postgres://x", "NATS_URL": "nats://x", "GAME_OWNER": testOwner, "ENTRY_FEE": "lots", "JWT_SECRET": testSecret}},
		{name: "bad driver", env: map[string]string{"DATABASE_URL": "postgres://x", "GAME_OWNER": testOwner, "EVENTBUS_DRIVER": "kafka", "JWT_SECRET": testSecret}},
		{name: "no jwt secret", env: map[string]string{"DATABASE_URL": "postgres://x", "NATS_URL": "nats://x", "GAME_OWNER": testOwner}},
		{name: "short jwt secret", env: map[string]string{"DATABASE_URL": "postgres://x", "NATS_URL": "nats://x", "GAME_OWNER": testOwner, "JWT_SECRET": "s3cret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DATABASE_URL", "NATS_URL", "GAME_OWNER", "ENTRY_FEE", "EVENTBUS_DRIVER", "JWT_SECRET"} {
				t.Setenv(k, tt.env[k])
			}
			_, err := LoadConfig(missing)
			assert.Error(t, err)
		})
	}
}

func TestValidate_JWTSecret(t *testing.T) {
	base := func(secret string) *Config {
		return &Config{
			EventBus: EventBusConfig{Driver: EventBusDriverGoChannel},
			Game:     GameConfig{Owner: testOwner},
			JWT:      JWTConfig{Secret: secret},
		}
	}

	require.NoError(t, base(testSecret).validate())

	for _, secret := range []string{"", "short", testSecret[:MinJWTSecretLen-1]} {
		err := base(secret).validate()
		require.Error(t, err, "secret of %d bytes", len(secret))
		assert.Contains(t, err.Error(), "JWT_SECRET")
	}
}

func TestToObsConfig(t *testing.T) {
	cfg := &Config{Observability: ObservabilityConfig{ServiceName: "svc", Environment: "prod", LogLevel: "warn", MetricsEnabled: true, TracingEndpoint: "collector:4317", TraceSampleRate: 0.5}}
	obs := ToObsConfig(cfg)
	assert.Equal(t, "collector:4317", obs.TracingEndpoint)
	assert.Equal(t, 0.5, obs.TraceSampleRate)
	assert.Equal(t, "svc", obs.ServiceName)
	assert.Equal(t, "prod", obs.Environment)
	assert.Equal(t, "warn", obs.LogLevel)
	assert.True(t, obs.MetricsEnabled)
}
