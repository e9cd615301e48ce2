// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer, token lifetimes and cookie configuration.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "accesshub-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "accesshub.io"

	// AccessTokenTTL is the lifetime of a signed access token.
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenCookieName is the cookie that carries the access token for
	// browser clients. API clients may use the Authorization header instead.
	AccessTokenCookieName = "token"

	// AccessTokenCookiePath scopes the access token cookie to the whole API.
	AccessTokenCookiePath = "/"

	// ResetTokenTTL is how long a password-reset token stays redeemable.
	ResetTokenTTL = 30 * time.Minute

	// ResetTokenBytes is the entropy of a raw password-reset token.
	ResetTokenBytes = 32
)

// # Avatars

const (
	// AvatarMaxBytes caps avatar uploads at 5 MiB.
	AvatarMaxBytes = 5 << 20

	// AvatarFolder is the object-store prefix for profile images.
	AvatarFolder = "avatars"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderTotalCount    = "X-Total-Count"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaRBAC  = "rbac"
	SchemaUsers = "users"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixDenylist stores SHA-256 digests of revoked access tokens,
	// expiring together with the token itself.
	RedisPrefixDenylist = "auth:denylist:"
)
