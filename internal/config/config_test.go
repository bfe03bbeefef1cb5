package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"CONSULTAS_PRIMARY__ENV":                 "local",
		"CONSULTAS_SERVER__PORT":                 "8080",
		"CONSULTAS_SERVER__READ_TIMEOUT":         "30",
		"CONSULTAS_SERVER__WRITE_TIMEOUT":        "30",
		"CONSULTAS_SERVER__IDLE_TIMEOUT":         "60",
		"CONSULTAS_SERVER__CORS_ALLOWED_ORIGINS": "http://localhost:3000,http://localhost:5173",
		"CONSULTAS_DATABASE__HOST":               "localhost",
		"CONSULTAS_DATABASE__PORT":               "5432",
		"CONSULTAS_DATABASE__USER":               "postgres",
		"CONSULTAS_DATABASE__PASSWORD":           "postgres",
		"CONSULTAS_DATABASE__NAME":               "consultas",
		"CONSULTAS_DATABASE__SSL_MODE":           "disable",
		"CONSULTAS_DATABASE__MAX_OPEN_CONNS":     "25",
		"CONSULTAS_DATABASE__MAX_IDLE_CONNS":     "5",
		"CONSULTAS_DATABASE__CONN_MAX_LIFETIME":  "300",
		"CONSULTAS_DATABASE__CONN_MAX_IDLE_TIME": "60",
		"CONSULTAS_REDIS__ADDRESS":               "localhost:6379",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.ssl_mode", envKey("CONSULTAS_DATABASE__SSL_MODE"))
	assert.Equal(t, "observability.logging.level", envKey("CONSULTAS_OBSERVABILITY__LOGGING__LEVEL"))
	assert.Equal(t, "server.port", envKey("CONSULTAS_SERVER__PORT"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.CORSAllowedOrigins)

	assert.Equal(t, 5*time.Second, cfg.Query.Timeout)
	assert.Equal(t, "consultas", cfg.Cache.Prefix)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 2, cfg.Jobs.Concurrency)
	assert.False(t, cfg.Events.Enabled())
	assert.Equal(t, "pedidos.registrados", cfg.Events.Topic)

	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoadConfig_OverridesKeepOtherDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONSULTAS_CACHE__TTL", "30s")
	t.Setenv("CONSULTAS_QUERY__TIMEOUT", "750ms")
	t.Setenv("CONSULTAS_OBSERVABILITY__LOGGING__LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "consultas", cfg.Cache.Prefix)
	assert.Equal(t, 750*time.Millisecond, cfg.Query.Timeout)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoadConfig_EventBrokers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONSULTAS_EVENTS__BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Events.Enabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
}

func TestLoadConfig_EmptyBrokersDisableEvents(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONSULTAS_EVENTS__BROKERS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.Events.Enabled())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, splitList(" a:1, ,b:2 "))
	assert.Empty(t, splitList(""))
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONSULTAS_DATABASE__HOST", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Host")
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONSULTAS_OBSERVABILITY__LOGGING__LEVEL", "verbose")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logging level")
}

func TestObservabilityConfig_HasCheck(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HasCheck("database"))
	assert.True(t, cfg.HasCheck("redis"))
	assert.False(t, cfg.HasCheck("kafka"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HasCheck("database"))
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Environment = "development"
	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Logging.Level = "warn"
	assert.Equal(t, "warn", cfg.GetLogLevel())
}
