// Package config defines and loads the application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Session  SessionConfig  `mapstructure:"session"  validate:"required"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// AuthConfig contains all authentication settings.
type AuthConfig struct {
	// JWTSecret signs access tokens with HMAC-SHA256; must be at least
	// 32 characters.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the access token lifetime. It defaults to the
	// session TTL so a token never outlives the session it belongs to.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost is the bcrypt work factor used for credential digests.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// SessionConfig contains the session expiry policy.
type SessionConfig struct {
	// TTLHours is how long a session stays valid after login.
	TTLHours int `mapstructure:"ttl_hours" validate:"required,gt=0"`
}

// SnapshotConfig configures the optional save/load collaborator.
// An empty path disables snapshotting entirely.
type SnapshotConfig struct {
	Path string `mapstructure:"path"`
}
