// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/accesshub/accesshub/internal/platform/ctxutil"
	"github.com/accesshub/accesshub/internal/rbac"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Actor verifies that the actor view can be stored in context.
*/
func TestContext_Actor(t *testing.T) {
	ctx := context.Background()
	actor := &rbac.Actor{
		ID:     "user-123",
		Active: true,
		Role:   &rbac.ActorRole{ID: "role-1", Title: "Editor", Active: true},
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetActor(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithActor(ctx, actor)
	retrieved := ctxutil.GetActor(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "user-123", retrieved.ID)
	assert.Equal(t, "Editor", retrieved.Role.Title)
}

/*
TestContext_Token verifies that the raw bearer token survives the context hop.
*/
func TestContext_Token(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetToken(ctx))

	ctx = ctxutil.WithToken(ctx, "raw-jwt")
	assert.Equal(t, "raw-jwt", ctxutil.GetToken(ctx))
}
