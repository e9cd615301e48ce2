// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

// Package middleware provides the HTTP middleware chain for the Accesshub API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"net/http"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/platform/ctxutil"
	"github.com/accesshub/accesshub/internal/platform/respond"
	"github.com/accesshub/accesshub/internal/rbac"
)

// RequirePermission blocks requests whose actor is not authorized for the
// guarded operation.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if the [*rbac.Actor] exists in context (implies AuthN).
//  2. Run the authorization gate: role presence, role active, account
//     active, permission membership — first failure wins.
//  3. On denial, abort with HTTP 403 and the gate's message.
func RequirePermission(gate *rbac.Gate, required rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			actor := ctxutil.GetActor(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if actor == nil {
				respond.Error(writer, request, apperr.Unauthorized("Access denied. Token not provided"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			decision := gate.Authorize(actor, required)
			if !decision.Allowed {
				respond.Error(writer, request, apperr.Forbidden(decision.Message))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
