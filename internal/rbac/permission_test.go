// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub/internal/rbac"
)

/*
TestCatalog_All verifies the catalog is closed, stable and copy-safe.
*/
func TestCatalog_All(t *testing.T) {
	catalog := rbac.NewCatalog()

	all := catalog.All()
	require.Len(t, all, 14)

	// Stable order: user permissions first, then role permissions.
	assert.Equal(t, rbac.PermViewUser, all[0])
	assert.Equal(t, rbac.PermViewRole, all[6])
	assert.Equal(t, rbac.PermUnassignRole, all[13])

	// Mutating the returned slice must not affect the catalog.
	all[0] = rbac.Permission("tampered")
	assert.Equal(t, rbac.PermViewUser, catalog.All()[0])
}

/*
TestCatalog_Contains checks membership for catalog and non-catalog values.
*/
func TestCatalog_Contains(t *testing.T) {
	catalog := rbac.NewCatalog()

	assert.True(t, catalog.Contains(rbac.PermDeleteUser))
	assert.True(t, catalog.Contains(rbac.PermAssignRole))
	assert.False(t, catalog.Contains(rbac.Permission("launch_rockets")))
	assert.False(t, catalog.Contains(rbac.Permission("")))
}

/*
TestCatalog_Describe checks descriptions and the unknown-permission error.
*/
func TestCatalog_Describe(t *testing.T) {
	catalog := rbac.NewCatalog()

	description, err := catalog.Describe(rbac.PermRestoreUser)
	require.NoError(t, err)
	assert.Equal(t, "Restore an archived user", description)

	description, err = catalog.Describe(rbac.PermAssignRole)
	require.NoError(t, err)
	assert.Equal(t, "Assign role to the user", description)

	_, err = catalog.Describe(rbac.Permission("not_a_permission"))
	require.Error(t, err)
	assert.ErrorIs(t, err, rbac.ErrUnknownPermission)
}

/*
TestCatalog_IsFullAdministrative verifies the predicate flips exactly at full
catalog coverage, regardless of order or duplicates.
*/
func TestCatalog_IsFullAdministrative(t *testing.T) {
	catalog := rbac.NewCatalog()
	full := catalog.All()

	t.Run("full_set", func(t *testing.T) {
		assert.True(t, catalog.IsFullAdministrative(full))
	})

	t.Run("full_set_reversed", func(t *testing.T) {
		reversed := make([]rbac.Permission, len(full))
		for i, p := range full {
			reversed[len(full)-1-i] = p
		}
		assert.True(t, catalog.IsFullAdministrative(reversed))
	})

	t.Run("one_missing", func(t *testing.T) {
		assert.False(t, catalog.IsFullAdministrative(full[1:]))
	})

	t.Run("empty", func(t *testing.T) {
		assert.False(t, catalog.IsFullAdministrative(nil))
	})

	t.Run("duplicates_do_not_count_twice", func(t *testing.T) {
		almost := append([]rbac.Permission{}, full[1:]...)
		almost = append(almost, full[1]) // duplicate, still missing full[0]
		assert.False(t, catalog.IsFullAdministrative(almost))
	})

	t.Run("superset_with_unknown_values", func(t *testing.T) {
		superset := append([]rbac.Permission{"custom_extra"}, full...)
		assert.True(t, catalog.IsFullAdministrative(superset))
	})
}
