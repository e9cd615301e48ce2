// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package rbac

// Actor is the authorization view of a user: exactly the fields the gate and
// guards need, assembled from the user row and its role row in one read.
//
// The view is loaded fresh per request. Decisions are only as current as the
// snapshot, which is the intended consistency model.
type Actor struct {
	// ID is the user's identifier.
	ID string
	// Active mirrors the user's is_active flag.
	Active bool
	// Role is the user's single assigned role, or nil when unassigned.
	Role *ActorRole
}

// ActorRole is the role slice of the actor view.
type ActorRole struct {
	ID          string
	Title       string
	Active      bool
	UserCount   int
	Permissions []Permission
}

// Has reports whether the role grants p.
func (r *ActorRole) Has(p Permission) bool {
	for _, held := range r.Permissions {
		if held == p {
			return true
		}
	}
	return false
}
