package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, 10, cfg.Engine.Rows)
	assert.Equal(t, 12, cfg.Engine.Cols)
	assert.Equal(t, "optimistic", cfg.Engine.Mode)
	assert.Equal(t, 3, cfg.Engine.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Engine.LockTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.Engine.BackoffBase)
	assert.Equal(t, 100*time.Millisecond, cfg.Engine.WorkDelay)
	assert.Equal(t, 10, cfg.Engine.WorkerPoolSize)
	assert.Equal(t, 5*time.Second, cfg.Engine.ShutdownGrace)
	assert.Equal(t, 1000, cfg.Engine.JournalSize)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "booking:events", cfg.Redis.Channel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SEAT_ROWS", "5")
	t.Setenv("SEAT_COLS", "8")
	t.Setenv("CONCURRENCY_MODE", "pessimistic")
	t.Setenv("MAX_RETRIES", "7")
	t.Setenv("LOCK_TIMEOUT", "500ms")
	t.Setenv("WORKER_POOL_SIZE", "4")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "redis.internal")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Engine.Rows)
	assert.Equal(t, 8, cfg.Engine.Cols)
	assert.Equal(t, "pessimistic", cfg.Engine.Mode)
	assert.Equal(t, 7, cfg.Engine.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.LockTimeout)
	assert.Equal(t, 4, cfg.Engine.WorkerPoolSize)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_RETRIES", "not-a-number")
	t.Setenv("LOCK_TIMEOUT", "forever")
	t.Setenv("REDIS_ENABLED", "yes-please")

	cfg := Load()

	assert.Equal(t, 3, cfg.Engine.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Engine.LockTimeout)
	assert.False(t, cfg.Redis.Enabled)
}
