// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, auth) via constructors.
  - Fail Fast: [Config.Validate] runs inside [Load]; an unsafe combination of
    settings stops the process before any listener is opened.
*/
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/daybook/internal/platform/sec"
)

// # Environments

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// minSecretLength is the shortest accepted HMAC signing secret, in bytes.
const minSecretLength = 32

// ErrBypassNotAllowed is returned when AUTH_BYPASS is set outside a
// recognised non-production environment.
var ErrBypassNotAllowed = errors.New("config: AUTH_BYPASS is only allowed in development or test environments")

// # Configuration Schema

// Config holds all runtime configuration for the Daybook API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"production"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Access token signing
	JWTSecret             string `env:"JWT_SECRET,required,unset"`
	JWTAlgorithm          string `env:"JWT_ALGORITHM"            envDefault:"HS256"`
	JWTIssuer             string `env:"JWT_ISSUER"               envDefault:"daybook.app"`
	AccessTokenTTLMinutes int    `env:"ACCESS_TOKEN_TTL_MINUTES" envDefault:"15"`

	// Credential hashing
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// AuthBypass replaces token checks with a synthetic administrator.
	// Development and test only; see [Config.Validate].
	AuthBypass bool `env:"AUTH_BYPASS" envDefault:"false"`

	// Brute-force protection on the login endpoint
	LoginMaxFailures    int `env:"LOGIN_MAX_FAILURES"    envDefault:"5"`
	LoginLockoutMinutes int `env:"LOGIN_LOCKOUT_MINUTES" envDefault:"15"`

	// Cross-Origin Resource Sharing
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// TrustProxyHeaders lets X-Real-IP and X-Forwarded-For name the client.
	// Enable only behind a reverse proxy that overwrites both headers.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Observability
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// # Configuration Loading

// Load parses process environment variables into a validated [Config].
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given key/value map instead of the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(options env.Options) (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Fields marked 'required' fail the parse when missing.
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field invariants that struct tags cannot express.
func (c *Config) Validate() error {
	knownEnvironments := []string{EnvDevelopment, EnvTest, EnvStaging, EnvProduction}
	if !slices.Contains(knownEnvironments, c.Environment) {
		return fmt.Errorf("config: unknown ENVIRONMENT %q", c.Environment)
	}

	if c.AuthBypass && !c.IsNonProduction() {
		return fmt.Errorf("%w (ENVIRONMENT=%s)", ErrBypassNotAllowed, c.Environment)
	}

	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("config: JWT_SECRET must be at least %d bytes", minSecretLength)
	}

	if !sec.SupportsAlgorithm(c.JWTAlgorithm) {
		return fmt.Errorf("config: unsupported JWT_ALGORITHM %q", c.JWTAlgorithm)
	}

	if c.AccessTokenTTLMinutes <= 0 {
		return errors.New("config: ACCESS_TOKEN_TTL_MINUTES must be positive")
	}

	if c.LoginMaxFailures <= 0 || c.LoginLockoutMinutes <= 0 {
		return errors.New("config: LOGIN_MAX_FAILURES and LOGIN_LOCKOUT_MINUTES must be positive")
	}

	return nil
}

// # Derived Values

// AccessTokenTTL is the lifetime of every issued access token.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

// LoginLockoutWindow is how long failed login attempts are remembered.
func (c *Config) LoginLockoutWindow() time.Duration {
	return time.Duration(c.LoginLockoutMinutes) * time.Minute
}

// AllowedOrigins returns the configured CORS origins.
func (c *Config) AllowedOrigins() []string {
	return c.CORSOrigins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// IsNonProduction reports whether the environment is explicitly marked as
// development or test. Staging counts as production-like, and so does an
// unset ENVIRONMENT, which defaults to production.
func (c *Config) IsNonProduction() bool {
	return c.Environment == EnvDevelopment || c.Environment == EnvTest
}
