// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/accesshub/accesshub/internal/platform/constants"
)

// # Token Denylist

// RedisDenylist implements [Denylist] using Redis.
//
// Only SHA-256 digests of revoked tokens are stored, never the tokens
// themselves. Entries expire with the token's own lifetime, so the set stays
// proportional to recent logouts.
type RedisDenylist struct {
	client *redis.Client
}

// NewRedisDenylist creates a new Redis-backed [Denylist].
func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

/*
Revoke records a token digest until the token would have expired anyway.

Parameters:
  - context: context.Context
  - tokenDigest: string (SHA-256 of the raw token)
  - timeToLive: time.Duration (remaining token lifetime)

Returns:
  - error: Execution errors
*/
func (denylist *RedisDenylist) Revoke(context context.Context, tokenDigest string, timeToLive time.Duration) error {
	key := constants.RedisPrefixDenylist + tokenDigest

	if err := denylist.client.Set(context, key, "revoked", timeToLive).Err(); err != nil {
		return fmt.Errorf("redis_denylist_revoke_failed: %w", err)
	}

	return nil
}

/*
IsRevoked reports whether a token digest is currently denylisted.

Parameters:
  - context: context.Context
  - tokenDigest: string

Returns:
  - bool: True when the token was revoked and has not yet aged out
  - error: Execution errors
*/
func (denylist *RedisDenylist) IsRevoked(context context.Context, tokenDigest string) (bool, error) {
	key := constants.RedisPrefixDenylist + tokenDigest

	count, err := denylist.client.Exists(context, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_denylist_check_failed: %w", err)
	}

	return count > 0, nil
}
