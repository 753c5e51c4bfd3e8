package database

import (
	"io/fs"
	"testing"

	"github.com/nivora/nivora/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Database {
	cfg := config.Defaults().Database
	cfg.Pass = "p@ss'word/with:specials"
	cfg.Schema = "tracker"
	return cfg
}

func TestPoolConfig(t *testing.T) {
	t.Run("should keep credentials and schema intact", func(t *testing.T) {
		// when
		poolCfg, err := poolConfig(testConfig())

		// then
		require.NoError(t, err)
		assert.Equal(t, "p@ss'word/with:specials", poolCfg.ConnConfig.Password)
		assert.Equal(t, "nivora", poolCfg.ConnConfig.Database)
		assert.Equal(t, uint16(5432), poolCfg.ConnConfig.Port)
		assert.Equal(t, "tracker", poolCfg.ConnConfig.RuntimeParams["search_path"])
	})

	t.Run("should take pool limits from the configuration", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxConns = 8
		cfg.MinConns = 2

		poolCfg, err := poolConfig(cfg)

		require.NoError(t, err)
		assert.Equal(t, int32(8), poolCfg.MaxConns)
		assert.Equal(t, int32(2), poolCfg.MinConns)
	})

	t.Run("should ignore a minimum above the maximum", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxConns = 2
		cfg.MinConns = 4

		poolCfg, err := poolConfig(cfg)

		require.NoError(t, err)
		assert.Equal(t, int32(2), poolCfg.MaxConns)
		assert.Zero(t, poolCfg.MinConns)
	})
}

func TestMigrations_AreEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"migrations/000001_kv_store.up.sql",
		"migrations/000001_kv_store.down.sql",
	}, files)
}
