package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database:     DatabaseConfig{Driver: StoreDriverMemory},
			JWT:          JWTConfig{Secret: "secret"},
			App:          AppConfig{Timezone: "Asia/Kolkata"},
			Notification: NotificationConfig{WorkerCount: 1},
		}
	}

	t.Run("memory driver needs no password", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("postgres driver requires password", func(t *testing.T) {
		c := valid()
		c.Database.Driver = StoreDriverPostgres
		assert.ErrorContains(t, c.Validate(), "DB_PASSWORD")
	})

	t.Run("unknown driver", func(t *testing.T) {
		c := valid()
		c.Database.Driver = "sqlite"
		assert.ErrorContains(t, c.Validate(), "STORE_DRIVER")
	})

	t.Run("missing secret", func(t *testing.T) {
		c := valid()
		c.JWT.Secret = ""
		assert.ErrorContains(t, c.Validate(), "JWT_SECRET")
	})

	t.Run("bad timezone", func(t *testing.T) {
		c := valid()
		c.App.Timezone = "Mars/Olympus"
		assert.ErrorContains(t, c.Validate(), "APP_TIMEZONE")
	})
}

func TestGetEnvSlice_TrimsAndDropsEmpty(t *testing.T) {
	t.Setenv("TEST_ORIGINS", " http://a.test , ,http://b.test")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getEnvSlice("TEST_ORIGINS"))
}

func TestConfig_DatabaseURL(t *testing.T) {
	c := &Config{Database: DatabaseConfig{User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "disable"}}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", c.DatabaseURL())
}

func TestConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{App: AppConfig{LogLevel: "debug"}}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{App: AppConfig{LogLevel: "WARN"}}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{App: AppConfig{LogLevel: "loud"}}).SlogLevel())
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverMemory)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_ACCESS_TTL", "2h")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
	t.Setenv("NOTIFICATION_BATCH_SIZE", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 10, cfg.Notification.BatchSize)
	assert.Equal(t, "Asia/Jakarta", cfg.Location().String())
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverMemory)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_ACCESS_TTL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_ACCESS_TTL")
}
