// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/platform/constants"
	"github.com/accesshub/accesshub/internal/platform/ctxutil"
	"github.com/accesshub/accesshub/internal/platform/respond"
	"github.com/accesshub/accesshub/internal/platform/sec"
	"github.com/accesshub/accesshub/internal/rbac"
)

// TokenVerifier defines the interface needed to verify access tokens.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec`
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// TokenDenylist checks whether a presented token was revoked by logout.
type TokenDenylist interface {
	IsRevoked(ctx context.Context, tokenDigest string) (bool, error)
}

// ActorResolver loads the current authorization view for a user ID.
//
// Role and account state are read fresh per request rather than trusted from
// the token, so assignment changes take effect immediately.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (*rbac.Actor, error)
}

// Authenticate extracts and verifies the access token from the request.
//
// # Flow
//  1. Read the token from the 'token' cookie or 'Authorization: Bearer' header.
//  2. If absent, the request proceeds as anonymous — RequireAuth and
//     RequirePermission decide whether that is acceptable per route.
//  3. If present, verify signature/expiry, then check the logout denylist.
//  4. Resolve the user ID to a fresh [*rbac.Actor] view.
//  5. Inject actor and raw token into the request context for downstream use.
//
// A presented-but-invalid token is always rejected; silent downgrades to
// anonymous would mask client bugs.
func Authenticate(verifier TokenVerifier, denylist TokenDenylist, resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction ───────────────────────────────────────────
			tokenStr, ok := ExtractToken(request)
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 3. Revocation Check ───────────────────────────────────────────
			revoked, err := denylist.IsRevoked(request.Context(), sec.HashToken(tokenStr))
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}
			if revoked {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Actor Resolution ───────────────────────────────────────────
			actor, err := resolver.ResolveActor(request.Context(), claims.UserID)
			if err != nil {
				if apperr.As(err) != nil && apperr.As(err).HTTPStatus == http.StatusNotFound {
					respond.Error(writer, request, apperr.Unauthorized("Access denied. User not found"))
					return
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithActor(request.Context(), actor)
			ctx = ctxutil.WithToken(ctx, tokenStr)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if the [*rbac.Actor] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		actor := ctxutil.GetActor(request.Context())
		if actor == nil {
			respond.Error(writer, request, apperr.Unauthorized("Access denied. Token not provided"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// ExtractToken reads the access token from the request, preferring the
// cookie over the Authorization header.
func ExtractToken(request *http.Request) (string, bool) {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	authHeader := request.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}
