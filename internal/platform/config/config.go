// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

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
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Accesshub API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) — revoked-token denylist
	RedisURL string `env:"REDIS_URL,required"`

	// Access token signing secret (HS256)
	JWTSecret string `env:"JWT_SECRET,required"`

	// Password reset — base URL of the frontend reset page; the raw token is appended.
	PasswordResetURL string `env:"PASSWORD_RESET_URL" envDefault:"http://localhost:3000/reset-password"`

	// Transactional mail provider (HTTP JSON API)
	MailEndpoint string `env:"MAIL_ENDPOINT" envDefault:"https://api.resend.com/emails"`
	MailAPIKey   string `env:"MAIL_API_KEY,required"`
	MailFrom     string `env:"MAIL_FROM"     envDefault:"Accesshub <no-reply@accesshub.io>"`

	// Object Storage for avatars (S3-compatible)
	S3Bucket    string `env:"S3_BUCKET,required"`
	S3Region    string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins configured via EXTRA_ORIGINS
// (comma-separated).
func (c *Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.ExtraOrigins) == "" {
		return nil
	}

	parts := strings.Split(c.ExtraOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
