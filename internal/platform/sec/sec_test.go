// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies bcrypt hashing and verification.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("s3cret!pw")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret!pw", hash)

	assert.True(t, sec.CheckPasswordHash("s3cret!pw", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
	assert.False(t, sec.CheckPasswordHash("s3cret!pw", "not-a-hash"))
}

/*
TestTokenService_RoundTrip signs an access token and verifies its claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService("unit-test-secret", "accesshub.io")
	require.NoError(t, err)

	signed, err := service.GenerateAccessToken("user-42", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := service.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "accesshub.io", claims.Issuer)
}

/*
TestTokenService_RejectsBadInput covers tampering, foreign secrets and expiry.
*/
func TestTokenService_RejectsBadInput(t *testing.T) {
	service, err := sec.NewTokenService("unit-test-secret", "accesshub.io")
	require.NoError(t, err)

	t.Run("garbage_token", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.jwt")
		assert.Error(t, err)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		other, err := sec.NewTokenService("different-secret", "accesshub.io")
		require.NoError(t, err)

		signed, err := other.GenerateAccessToken("user-42", time.Hour)
		require.NoError(t, err)

		_, err = service.VerifyToken(signed)
		assert.Error(t, err)
	})

	t.Run("expired_token", func(t *testing.T) {
		signed, err := service.GenerateAccessToken("user-42", -time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(signed)
		assert.Error(t, err)
	})

	t.Run("empty_secret_rejected", func(t *testing.T) {
		_, err := sec.NewTokenService("", "accesshub.io")
		assert.Error(t, err)
	})
}

/*
TestSecureToken checks entropy encoding and digest stability.
*/
func TestSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, first, 64) // hex doubles the byte length

	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.NotEqual(t, sec.HashToken(first), sec.HashToken(second))
	assert.Len(t, sec.HashToken(first), 64)
}
