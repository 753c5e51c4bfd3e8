package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should use defaults when the file is missing", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("should layer file and environment over defaults", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		yaml := `
port: 9090
store:
  backend: memory
alerts:
  lowbalancethreshold: 2500
  cooldown: 12h
push:
  telegram:
    chatid: 12345
`
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
		t.Setenv("NIVORA_ALERTS_SCHEDULE", "@every 30m")

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, MemoryBackend, cfg.Store.Backend)
		assert.Equal(t, "nivora", cfg.Store.Namespace)
		assert.Equal(t, 2500.0, cfg.Alerts.LowBalanceThreshold)
		assert.Equal(t, 12*time.Hour, cfg.Alerts.Cooldown)
		assert.Equal(t, 50, cfg.Alerts.LogCapacity)
		assert.Equal(t, "@every 30m", cfg.Alerts.Schedule)
		assert.Equal(t, int64(12345), cfg.Push.Telegram.ChatId)
	})

	t.Run("should fail on malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: [unterminated"), 0o600))

		_, err := Load(path)

		assert.Error(t, err)
	})
}
