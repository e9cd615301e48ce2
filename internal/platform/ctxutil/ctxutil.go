// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/accesshub/accesshub/internal/platform/ctxkey"
	"github.com/accesshub/accesshub/internal/rbac"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithActor returns a new context with the authenticated actor view attached.
func WithActor(ctx context.Context, actor *rbac.Actor) context.Context {
	return context.WithValue(ctx, ctxkey.KeyActor, actor)
}

// GetActor retrieves the [*rbac.Actor] from the [context.Context].
// Returns nil for anonymous requests.
func GetActor(ctx context.Context) *rbac.Actor {
	actor, ok := ctx.Value(ctxkey.KeyActor).(*rbac.Actor)
	if !ok {
		return nil
	}
	return actor
}

// WithToken returns a new context with the raw bearer token attached.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyToken, token)
}

// GetToken retrieves the raw bearer token used to authenticate the request.
// Returns an empty string for anonymous requests.
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(ctxkey.KeyToken).(string)
	return token
}
