// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package rbac

import "fmt"

// # Root-User Guard

// IsSoleRootUser reports whether target is the only holder of a
// full-administrative role. Such a user must never be demoted, deactivated,
// archived, or deleted: the system would be left without a root administrator.
//
// The predicate reads the freshly loaded target view, so it flips back to
// false as soon as a second user holds the role.
func (g *Gate) IsSoleRootUser(target *Actor) bool {
	if target.Role == nil {
		return false
	}
	return g.catalog.IsFullAdministrative(target.Role.Permissions) && target.Role.UserCount == 1
}

// RootUserMessage renders the denial for operations blocked by the root-user
// guard.
func RootUserMessage(roleTitle string) string {
	return fmt.Sprintf(
		"This action is not allowed. The user is the only holder of the %s role with full administrative access. Assign the role to another user first",
		roleTitle,
	)
}

// # Self-Action Guard

// Action names an administrative operation a user may attempt against another
// user. It selects the self-action denial message.
type Action string

const (
	ActionAssignRole   Action = "assign_role"
	ActionUnassignRole Action = "unassign_role"
	ActionActivate     Action = "activate_user"
	ActionDeactivate   Action = "deactivate_user"
	ActionArchive      Action = "archive_user"
	ActionRestore      Action = "restore_user"
	ActionDelete       Action = "delete_user"
)

var selfActionMessages = map[Action]string{
	ActionAssignRole:   "You cannot assign a role to yourself. This action can only be performed by other users",
	ActionUnassignRole: "You cannot unassign your own role. This action can only be performed by other users",
	ActionActivate:     "You cannot activate yourself. This action can only be performed by other users",
	ActionDeactivate:   "You cannot deactivate yourself. This action can only be performed by other users",
	ActionArchive:      "You cannot archive yourself. This action can only be performed by other users",
	ActionRestore:      "You cannot restore yourself. This action can only be performed by other users",
	ActionDelete:       "You cannot delete yourself. This action can only be performed by other users",
}

// IsSelfAction reports whether the acting user is targeting their own
// account. Comparison is by identifier only.
func IsSelfAction(actingID, targetID string) bool {
	return actingID == targetID
}

// SelfActionMessage returns the denial message for a blocked self-action.
func SelfActionMessage(action Action) string {
	if msg, ok := selfActionMessages[action]; ok {
		return msg
	}
	return "You cannot perform this action on yourself. This action can only be performed by other users"
}
