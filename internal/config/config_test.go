package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, 30, cfg.Capacity)
	require.Equal(t, time.Second, cfg.RefillInterval)
	require.Equal(t, "rl", cfg.Prefix)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")

	cfg := LoadRateLimitConfig()
	require.False(t, cfg.Enabled)
	require.Equal(t, 1, cfg.Capacity)
	require.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadSettingsCacheConfig(t *testing.T) {
	t.Setenv("SETTINGS_CACHE_TTL", "30s")
	t.Setenv("SETTINGS_CACHE_ENABLED", "false")

	cfg := LoadSettingsCacheConfig()
	require.False(t, cfg.Enabled)
	require.Equal(t, 30*time.Second, cfg.TTL)
	require.Equal(t, "settings:availability", cfg.Key)

	t.Setenv("SETTINGS_CACHE_TTL", "-1m")
	require.Equal(t, 10*time.Minute, LoadSettingsCacheConfig().TTL)
}

func TestLoadWorkerFallsBackToRabbitURL(t *testing.T) {
	t.Setenv("AMQP_URL", "")
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")

	cfg := LoadWorker()
	require.Equal(t, "amqp://guest:guest@mq:5672/", cfg.AMQPURL)
	require.Equal(t, "logs", cfg.LogDir)
}

func TestLocation(t *testing.T) {
	loc := Config{Timezone: "Asia/Seoul"}.Location()
	require.Equal(t, "Asia/Seoul", loc.String())
}
