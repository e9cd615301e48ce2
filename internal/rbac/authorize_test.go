// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub/internal/rbac"
)

func newActor(active bool, role *rbac.ActorRole) *rbac.Actor {
	return &rbac.Actor{ID: "user-1", Active: active, Role: role}
}

func editorRole(active bool, perms ...rbac.Permission) *rbac.ActorRole {
	return &rbac.ActorRole{
		ID:          "role-1",
		Title:       "Editor",
		Active:      active,
		UserCount:   3,
		Permissions: perms,
	}
}

/*
TestGate_Authorize_Precedence drives every deny branch and checks the fixed
evaluation order: no role, then inactive role, then inactive user, then
missing permission.
*/
func TestGate_Authorize_Precedence(t *testing.T) {
	gate := rbac.NewGate(rbac.NewCatalog())

	tests := []struct {
		name       string
		actor      *rbac.Actor
		required   rbac.Permission
		wantAllow  bool
		wantReason rbac.DenyReason
	}{
		{
			name:       "no_role",
			actor:      newActor(true, nil),
			required:   rbac.PermViewUser,
			wantReason: rbac.DenyNoRole,
		},
		{
			name:       "no_role_wins_over_inactive_user",
			actor:      newActor(false, nil),
			required:   rbac.PermViewUser,
			wantReason: rbac.DenyNoRole,
		},
		{
			name:       "inactive_role",
			actor:      newActor(true, editorRole(false, rbac.PermViewUser)),
			required:   rbac.PermViewUser,
			wantReason: rbac.DenyRoleInactive,
		},
		{
			name:       "inactive_role_wins_over_inactive_user",
			actor:      newActor(false, editorRole(false, rbac.PermViewUser)),
			required:   rbac.PermViewUser,
			wantReason: rbac.DenyRoleInactive,
		},
		{
			name:       "inactive_user",
			actor:      newActor(false, editorRole(true, rbac.PermViewUser)),
			required:   rbac.PermViewUser,
			wantReason: rbac.DenyUserInactive,
		},
		{
			name:       "inactive_user_wins_over_missing_permission",
			actor:      newActor(false, editorRole(true, rbac.PermViewUser)),
			required:   rbac.PermDeleteUser,
			wantReason: rbac.DenyUserInactive,
		},
		{
			name:       "missing_permission",
			actor:      newActor(true, editorRole(true, rbac.PermViewUser)),
			required:   rbac.PermDeleteUser,
			wantReason: rbac.DenyMissingPermission,
		},
		{
			name:      "allowed",
			actor:     newActor(true, editorRole(true, rbac.PermViewUser, rbac.PermDeleteUser)),
			required:  rbac.PermDeleteUser,
			wantAllow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := gate.Authorize(tt.actor, tt.required)

			assert.Equal(t, tt.wantAllow, decision.Allowed)
			assert.Equal(t, tt.wantReason, decision.Reason)
			if !tt.wantAllow {
				assert.NotEmpty(t, decision.Message)
			}
		})
	}
}

/*
TestGate_Authorize_DenyMessages checks the exact wording of each denial,
including the lowercased catalog description in the missing-permission case.
*/
func TestGate_Authorize_DenyMessages(t *testing.T) {
	gate := rbac.NewGate(rbac.NewCatalog())

	t.Run("missing_permission_names_role_and_action", func(t *testing.T) {
		actor := newActor(true, editorRole(true, rbac.PermViewUser))

		decision := gate.Authorize(actor, rbac.PermDeleteUser)

		require.False(t, decision.Allowed)
		assert.Equal(t,
			"Access denied. Your role Editor does not have the permission to delete a user",
			decision.Message,
		)
	})

	t.Run("inactive_role_names_role", func(t *testing.T) {
		actor := newActor(true, editorRole(false, rbac.PermViewUser))

		decision := gate.Authorize(actor, rbac.PermViewUser)

		require.False(t, decision.Allowed)
		assert.Contains(t, decision.Message, "Your role Editor is currently inactive")
	})

	t.Run("no_role", func(t *testing.T) {
		decision := gate.Authorize(newActor(true, nil), rbac.PermViewUser)

		require.False(t, decision.Allowed)
		assert.Contains(t, decision.Message, "You do not have a role assigned")
	})

	t.Run("inactive_user", func(t *testing.T) {
		actor := newActor(false, editorRole(true, rbac.PermViewUser))

		decision := gate.Authorize(actor, rbac.PermViewUser)

		require.False(t, decision.Allowed)
		assert.Contains(t, decision.Message, "Your account has been deactivated")
	})
}
