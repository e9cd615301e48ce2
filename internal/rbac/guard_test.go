// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/accesshub/accesshub/internal/rbac"
)

/*
TestGate_IsSoleRootUser verifies the root-user predicate: full-administrative
role held by exactly one user.
*/
func TestGate_IsSoleRootUser(t *testing.T) {
	catalog := rbac.NewCatalog()
	gate := rbac.NewGate(catalog)

	rootRole := func(userCount int) *rbac.ActorRole {
		return &rbac.ActorRole{
			ID:          "role-root",
			Title:       "Super Admin",
			Active:      true,
			UserCount:   userCount,
			Permissions: catalog.All(),
		}
	}

	t.Run("sole_holder_of_full_admin_role", func(t *testing.T) {
		assert.True(t, gate.IsSoleRootUser(newActor(true, rootRole(1))))
	})

	t.Run("second_holder_clears_protection", func(t *testing.T) {
		assert.False(t, gate.IsSoleRootUser(newActor(true, rootRole(2))))
	})

	t.Run("partial_role_is_never_root", func(t *testing.T) {
		partial := editorRole(true, rbac.PermViewUser, rbac.PermDeleteUser)
		partial.UserCount = 1
		assert.False(t, gate.IsSoleRootUser(newActor(true, partial)))
	})

	t.Run("no_role", func(t *testing.T) {
		assert.False(t, gate.IsSoleRootUser(newActor(true, nil)))
	})
}

/*
TestRootUserMessage checks the denial names the role and the required remedy.
*/
func TestRootUserMessage(t *testing.T) {
	msg := rbac.RootUserMessage("Super Admin")

	assert.Contains(t, msg, "Super Admin")
	assert.Contains(t, msg, "Assign the role to another user first")
}

/*
TestIsSelfAction covers identifier comparison.
*/
func TestIsSelfAction(t *testing.T) {
	assert.True(t, rbac.IsSelfAction("u1", "u1"))
	assert.False(t, rbac.IsSelfAction("u1", "u2"))
}

/*
TestSelfActionMessage checks each administrative action has its own denial
wording.
*/
func TestSelfActionMessage(t *testing.T) {
	tests := []struct {
		action rbac.Action
		want   string
	}{
		{rbac.ActionAssignRole, "You cannot assign a role to yourself. This action can only be performed by other users"},
		{rbac.ActionUnassignRole, "You cannot unassign your own role. This action can only be performed by other users"},
		{rbac.ActionActivate, "You cannot activate yourself. This action can only be performed by other users"},
		{rbac.ActionDeactivate, "You cannot deactivate yourself. This action can only be performed by other users"},
		{rbac.ActionArchive, "You cannot archive yourself. This action can only be performed by other users"},
		{rbac.ActionRestore, "You cannot restore yourself. This action can only be performed by other users"},
		{rbac.ActionDelete, "You cannot delete yourself. This action can only be performed by other users"},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, rbac.SelfActionMessage(tt.action))
		})
	}

	t.Run("unknown_action_falls_back", func(t *testing.T) {
		assert.Contains(t, rbac.SelfActionMessage("other"), "You cannot perform this action on yourself")
	})
}
