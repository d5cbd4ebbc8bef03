package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
// Returns a populated Config struct or an error if loading or validation
// fails.
//
// Environment variables use the MEDTRACK_ prefix with underscores for
// nesting, e.g. MEDTRACK_SERVER_PORT or MEDTRACK_AUTH_JWT_SECRET.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults. Every key needs a default (even an empty one) so viper
	// considers it known and AutomaticEnv can fill it from the environment.
	v.SetDefault("server.port", 8080)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 48*60)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("session.ttl_hours", 48)
	v.SetDefault("snapshot.path", "")

	// Optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars and defaults still apply.
	}

	// Environment variables with MEDTRACK_ prefix
	v.SetEnvPrefix("MEDTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
