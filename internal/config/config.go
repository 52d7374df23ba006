package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix = "RECIPEBOX"

	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	sslModeDisable = "disable"
	sslModeRequire = "require"

	devJWTSecret = "recipebox-development-secret"
)

type (
	Config struct {
		Host     string `mapstructure:"HOST"`
		Port     string `mapstructure:"PORT"`
		AppEnv   string `mapstructure:"APP_ENV"`
		LogLevel string `mapstructure:"LOG_LEVEL"`

		DBDriver   string `mapstructure:"DB_DRIVER"`
		DBHost     string `mapstructure:"DB_HOST"`
		DBPort     string `mapstructure:"DB_PORT"`
		DBUser     string `mapstructure:"DB_USER"`
		DBPassword string `mapstructure:"DB_PASSWORD"`
		DBName     string `mapstructure:"DB_NAME"`
		DBSSLMode  string `mapstructure:"DB_SSL_MODE"`
		SQLitePath string `mapstructure:"SQLITE_PATH"`

		JWTSecret string        `mapstructure:"JWT_SECRET"`
		TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`

		MediaRoot      string `mapstructure:"MEDIA_ROOT"`
		MediaURL       string `mapstructure:"MEDIA_URL"`
		MediaMaxWidth  uint   `mapstructure:"MEDIA_MAX_WIDTH"`
		MaxUploadBytes int    `mapstructure:"MAX_UPLOAD_BYTES"`

		RabbitMQURL   string `mapstructure:"RABBITMQ_URL"`
		RabbitMQQueue string `mapstructure:"RABBITMQ_QUEUE"`
		EventsConsume bool   `mapstructure:"EVENTS_CONSUME"`

		WaitTimeout time.Duration `mapstructure:"WAIT_TIMEOUT"`
	}
)

var defaults = map[string]interface{}{
	"HOST":             "0.0.0.0",
	"PORT":             "8080",
	"APP_ENV":          EnvDevelopment,
	"LOG_LEVEL":        "info",
	"DB_DRIVER":        DriverPostgres,
	"DB_HOST":          "0.0.0.0",
	"DB_PORT":          "5432",
	"DB_USER":          "user",
	"DB_PASSWORD":      "password",
	"DB_NAME":          "recipebox",
	"DB_SSL_MODE":      sslModeDisable,
	"SQLITE_PATH":      "recipebox.db",
	"JWT_SECRET":       "",
	"TOKEN_TTL":        "24h",
	"MEDIA_ROOT":       "./media",
	"MEDIA_URL":        "/media/",
	"MEDIA_MAX_WIDTH":  0,
	"MAX_UPLOAD_BYTES": 10 << 20,
	"RABBITMQ_URL":     "",
	"RABBITMQ_QUEUE":   "recipe_events",
	"EVENTS_CONSUME":   false,
	"WAIT_TIMEOUT":     "60s",
}

// NewConfig reads the configuration from RECIPEBOX_* environment variables.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.JWTSecret == "" && cfg.AppEnv != EnvProduction {
		cfg.JWTSecret = devJWTSecret
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// UsesDevJWTSecret reports whether tokens are signed with the built-in
// development secret because JWT_SECRET was not set.
func (c *Config) UsesDevJWTSecret() bool {
	return c.JWTSecret == devJWTSecret
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// PostgresDSN builds a libpq style connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// IsProduction reports whether the app runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func validate(cfg *Config) error {
	switch cfg.AppEnv {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("APP_ENV is invalid: %s", cfg.AppEnv)
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB driver is invalid: %s", cfg.DBDriver)
	}

	validSSLValues := []string{sslModeDisable, sslModeRequire}
	sslOK := false
	for _, validValue := range validSSLValues {
		if cfg.DBSSLMode == validValue {
			sslOK = true
			break
		}
	}
	if !sslOK {
		return fmt.Errorf("DB SSL mode is invalid: %s", cfg.DBSSLMode)
	}

	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT secret must be set in %s", cfg.AppEnv)
	}
	if cfg.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive: %s", cfg.TokenTTL)
	}
	if cfg.MediaRoot == "" {
		return fmt.Errorf("media root must be set")
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive: %d", cfg.MaxUploadBytes)
	}
	return nil
}
