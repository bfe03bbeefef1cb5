package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/consultas-api/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"unknown": zerolog.InfoLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, 6, GetPgxTraceLogLevel(zerolog.TraceLevel))
	assert.Equal(t, 5, GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, 4, GetPgxTraceLogLevel(zerolog.InfoLevel))
	assert.Equal(t, 3, GetPgxTraceLogLevel(zerolog.WarnLevel))
	assert.Equal(t, 2, GetPgxTraceLogLevel(zerolog.ErrorLevel))
	assert.Equal(t, 1, GetPgxTraceLogLevel(zerolog.Disabled))
}

func TestLoggerService_DisabledWithoutLicense(t *testing.T) {
	svc, err := NewLoggerService(config.DefaultObservabilityConfig())
	require.NoError(t, err)
	assert.Nil(t, svc.GetApplication())

	var nilService *LoggerService
	assert.Nil(t, nilService.GetApplication())
	nilService.Shutdown()
}

func TestNewLogger_JSONFields(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, config.ServiceName, entry["service"])
	assert.Equal(t, "production", entry["environment"])
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	log := WithTraceContext(base, nil)
	log.Info().Msg("hello")

	assert.NotContains(t, buf.String(), "trace.id")
}
