package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Fills defaults for missing keys", func(t *testing.T) {
		// Given: a config file that only sets the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf, err := Load(path)

		// Then: every other key has its default
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "4000", conf.SocketPort)
		assert.Equal(t, int64(4096), conf.WebSocket.ReadLimit)
		assert.Equal(t, 10*time.Second, conf.WebSocket.WriteWait)
		assert.Equal(t, 60*time.Second, conf.WebSocket.PongWait)
		assert.Equal(t, 64, conf.WebSocket.SendBuffer)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 24*time.Hour, conf.Redis.SnapshotTTL)
		assert.Equal(t, 256, conf.Redis.QueueSize)
	})

	t.Run("Reads nested sections", func(t *testing.T) {
		path := writeConfig(t, `
socket-port: "5000"
websocket:
  read-limit: 1024
  pong-wait: 30s
redis:
  enabled: true
  host: cache
  port: "6380"
  snapshot-ttl: 1h
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "5000", conf.SocketPort)
		assert.Equal(t, int64(1024), conf.WebSocket.ReadLimit)
		assert.Equal(t, 27*time.Second, conf.WebSocket.PingPeriod())
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Hour, conf.Redis.SnapshotTTL)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "socket-port: \"5000\"\n")
		t.Setenv("PORT", "7000")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7000", conf.SocketPort)
	})

	t.Run("Fails on a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
	})
}
