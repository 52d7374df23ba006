package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "/media/", cfg.MediaURL)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.True(t, cfg.UsesDevJWTSecret())
	assert.False(t, cfg.IsProduction())
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("RECIPEBOX_PORT", "9090")
	t.Setenv("RECIPEBOX_DB_DRIVER", DriverSQLite)
	t.Setenv("RECIPEBOX_TOKEN_TTL", "90m")
	t.Setenv("RECIPEBOX_MEDIA_MAX_WIDTH", "800")
	t.Setenv("RECIPEBOX_EVENTS_CONSUME", "true")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, uint(800), cfg.MediaMaxWidth)
	assert.True(t, cfg.EventsConsume)
}

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ssl mode", map[string]string{"RECIPEBOX_DB_SSL_MODE": "verify-all"}},
		{"bad driver", map[string]string{"RECIPEBOX_DB_DRIVER": "mysql"}},
		{"bad env", map[string]string{"RECIPEBOX_APP_ENV": "staging"}},
		{"production without secret", map[string]string{"RECIPEBOX_APP_ENV": EnvProduction}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", cfg.PostgresDSN())
}
