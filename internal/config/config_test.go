package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/happynation/wellbeing-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("HISTORY_WINDOW", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.HistoryWindow)
	assert.Equal(t, 20*time.Second, cfg.AI.Timeout)
	assert.False(t, cfg.Casdoor.Enabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("HISTORY_WINDOW", "not-a-duration")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.ImageHost.MinioUseSSL)
	assert.Equal(t, 30*24*time.Hour, cfg.HistoryWindow)
}

func TestEventConfig_CreateEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	disabled := EventConfig{Enabled: false, Publisher: "kafka"}
	pub, err := disabled.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, pub)

	unknown := EventConfig{Enabled: true, Publisher: "carrier-pigeon"}
	pub, err = unknown.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, pub)

	assert.Equal(t, []string{"a:9092", "b:9092"}, (&EventConfig{KafkaBrokers: "a:9092, b:9092"}).GetKafkaBrokers())
}
