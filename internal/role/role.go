// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

/*
Package role implements the role catalog of the access-control system.

A role is a named, activatable set of permissions drawn from the closed
catalog in [rbac]. Users reference at most one role; the role row tracks how
many users currently hold it so the root-user guard can make its decision
without counting.

# Architecture

This layer is the "Truth" for role lifecycle rules: title and permission-set
uniqueness, the full-administrative protections, and the activation state
machine live here, not in HTTP handlers.
*/
package role

import (
	"time"

	"github.com/accesshub/accesshub/internal/rbac"
)

// # Domain Entities

// Role represents a named permission set assignable to users.
type Role struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Permissions []rbac.Permission `json:"permissions"`
	UserCount   int               `json:"user_count"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ActorRole converts the entity into the authorization view used by the gate
// and guards.
func (r *Role) ActorRole() *rbac.ActorRole {
	return &rbac.ActorRole{
		ID:          r.ID,
		Title:       r.Title,
		Active:      r.IsActive,
		UserCount:   r.UserCount,
		Permissions: r.Permissions,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the role domain.
const (
	FieldTitle       = "title"
	FieldPermissions = "permissions"
	FieldRoleID      = "roleId"
)

// # Sorting

// Allowed sort keys for role listings.
const (
	SortByTitle     = "title"
	SortByUserCount = "usercount"
	SortByCreatedAt = "createdat"
)
