package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.False(t, cfg.Items.JoinFetchEnabled)
	assert.Equal(t, 20, cfg.Paging.DefaultSize)
	assert.Equal(t, 200, cfg.Paging.MaxSize)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestFromViper_JoinFetchFromEnv(t *testing.T) {
	t.Setenv("APP_ITEMS_JOIN_FETCH_ENABLED", "true")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.True(t, cfg.Items.JoinFetchEnabled)
}

func TestFromViper_JoinFetchFromConfigFile(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
app:
  items:
    join-fetch:
      enabled: true
db:
  driver: sqlite
  path: ":memory:"
`)))

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Items.JoinFetchEnabled)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.Path)
}

func TestFromViper_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := FromViper(viper.New())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestFromViper_RejectsInconsistentPaging(t *testing.T) {
	t.Setenv("APP_PAGING_DEFAULT_SIZE", "50")
	t.Setenv("APP_PAGING_MAX_SIZE", "10")

	_, err := FromViper(viper.New())
	assert.Error(t, err)
}

func TestFromViper_CORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,,")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "app", Password: "p@ss", Database: "catalog", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/catalog?sslmode=disable", c.DSN())

	c.URL = "postgres://override"
	assert.Equal(t, "postgres://override", c.DSN())
}
