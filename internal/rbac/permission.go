// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

/*
Package rbac implements the access-control core of Accesshub.

It is a pure domain package with no storage or transport dependencies:

  - Catalog: the closed set of permissions the system understands.
  - Gate: the authorization decision over an assembled [Actor] view.
  - Guards: the root-user and self-action protections applied by write paths.

Storage and HTTP layers depend on this package, never the other way around.
*/
package rbac

import (
	"errors"
	"fmt"
)

// Permission identifies a single guarded operation, e.g. "delete_user".
type Permission string

// The closed permission catalog. Values are persisted verbatim in role rows,
// so they must never be renamed once released.
const (
	PermViewUser       Permission = "view_user"
	PermActivateUser   Permission = "activate_user"
	PermDeactivateUser Permission = "deactivate_user"
	PermArchiveUser    Permission = "archive_user"
	PermRestoreUser    Permission = "restore_user"
	PermDeleteUser     Permission = "delete_user"

	PermViewRole       Permission = "view_role"
	PermAddRole        Permission = "add_role"
	PermUpdateRole     Permission = "update_role"
	PermDeleteRole     Permission = "delete_role"
	PermActivateRole   Permission = "activate_role"
	PermDeactivateRole Permission = "deactivate_role"
	PermAssignRole     Permission = "assign_role"
	PermUnassignRole   Permission = "unassign_role"
)

// ErrUnknownPermission is returned by [Catalog.Describe] for values outside
// the catalog.
var ErrUnknownPermission = errors.New("unknown permission")

// catalogEntry pairs a permission with its human description. Descriptions are
// surfaced verbatim in permission pickers and, lowercased, in deny messages.
type catalogEntry struct {
	permission  Permission
	description string
}

// Catalog is the closed, immutable permission registry. It is constructed once
// at startup and injected wherever permission knowledge is needed.
type Catalog struct {
	ordered []catalogEntry
	index   map[Permission]string
}

// NewCatalog builds the process-wide permission catalog. The order is stable
// and groups user permissions before role permissions.
func NewCatalog() *Catalog {
	ordered := []catalogEntry{
		{PermViewUser, "View a user"},
		{PermActivateUser, "Activate a user"},
		{PermDeactivateUser, "Deactivate a user"},
		{PermArchiveUser, "Archive a user"},
		{PermRestoreUser, "Restore an archived user"},
		{PermDeleteUser, "Delete a user"},
		{PermViewRole, "View a role"},
		{PermAddRole, "Add a new role"},
		{PermUpdateRole, "Edit a role"},
		{PermDeleteRole, "Delete a role"},
		{PermActivateRole, "Activate a role"},
		{PermDeactivateRole, "Deactivate a role"},
		{PermAssignRole, "Assign role to the user"},
		{PermUnassignRole, "Unassign role from the user"},
	}

	index := make(map[Permission]string, len(ordered))
	for _, entry := range ordered {
		index[entry.permission] = entry.description
	}

	return &Catalog{ordered: ordered, index: index}
}

// All returns every catalog permission in stable order. The slice is a copy;
// callers may mutate it freely.
func (c *Catalog) All() []Permission {
	all := make([]Permission, len(c.ordered))
	for i, entry := range c.ordered {
		all[i] = entry.permission
	}
	return all
}

// Contains reports whether p belongs to the catalog.
func (c *Catalog) Contains(p Permission) bool {
	_, ok := c.index[p]
	return ok
}

// Describe returns the human-readable description of p, or
// [ErrUnknownPermission] if p is outside the catalog.
func (c *Catalog) Describe(p Permission) (string, error) {
	description, ok := c.index[p]
	if !ok {
		return "", fmt.Errorf("describe_permission %q: %w", p, ErrUnknownPermission)
	}
	return description, nil
}

// IsFullAdministrative reports whether perms covers the entire catalog.
// A role holding such a set is the system's root role: it can never lose
// permissions, be deactivated, or be deleted.
func (c *Catalog) IsFullAdministrative(perms []Permission) bool {
	held := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		held[p] = struct{}{}
	}
	for _, entry := range c.ordered {
		if _, ok := held[entry.permission]; !ok {
			return false
		}
	}
	return true
}
