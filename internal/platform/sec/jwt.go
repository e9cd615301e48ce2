// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing,
// single-use reset tokens) from the domain logic. It acts as an
// Infrastructure service injected into the Application layer.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why only the user ID?
//
// Role and permission data change underneath issued tokens (assignment,
// deactivation), so authorization state is never baked into the JWT. The
// token proves identity; [middleware.Authenticate] loads the current actor
// view per request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// UserID is abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
}

// TokenService handles generation and verification of JWT tokens using HS256.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService signing with the shared secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: jwt secret must not be empty")
	}
	return &TokenService{secret: []byte(secret), issuer: issuer}, nil
}

// GenerateAccessToken creates a new JWT access token for a user.
func (service *TokenService) GenerateAccessToken(userID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
