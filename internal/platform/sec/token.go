// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a hex-encoded random token of byteLength bytes
// of entropy, used for single-use credentials such as password resets.
func GenerateSecureToken(byteLength int) (string, error) {
	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token. Only digests
// are persisted; the raw token travels to the user exactly once.
func HashToken(rawToken string) string {
	digest := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(digest[:])
}
