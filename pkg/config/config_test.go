package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdirForTest(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.DB.Driver)
	assert.Equal(t, 3, cfg.Inventory.CodePadWidth)
	assert.Equal(t, 30*time.Second, cfg.Inventory.ReservationCacheTTL)
	assert.True(t, cfg.DB.Migrate)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_FromEnv(t *testing.T) {
	chdirForTest(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("CODE_PAD_WIDTH", "5")
	t.Setenv("RESERVATION_CACHE_TTL_SECONDS", "0")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.DB.Driver)
	assert.Equal(t, 5, cfg.Inventory.CodePadWidth)
	assert.Zero(t, cfg.Inventory.ReservationCacheTTL)
	assert.False(t, cfg.DB.Migrate)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_InvalidDriver(t *testing.T) {
	chdirForTest(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := DBConfig{User: "app", Password: "p@ss:word", Host: "db", Port: 5432, DBName: "fabrica", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/fabrica?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestLoad_DotEnvFile(t *testing.T) {
	chdirForTest(t, t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("STORAGE_DRIVER=memory\nCODE_PAD_WIDTH=4\nREDIS_URL=redis://localhost:6379/0\n"), 0o600))
	t.Setenv("CODE_PAD_WIDTH", "6")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.DB.Driver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	// el entorno gana sobre el archivo
	assert.Equal(t, 6, cfg.Inventory.CodePadWidth)
}

func TestLoad_Rangos(t *testing.T) {
	cases := map[string]string{
		"HTTP_PORT":      "70000",
		"CODE_PAD_WIDTH": "0",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			chdirForTest(t, t.TempDir())
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory and restores the previous one when the test finishes.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
