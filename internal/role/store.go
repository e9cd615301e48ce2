// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package role

import "context"

// ListOptions narrows and orders role listings.
type ListOptions struct {
	// SortBy is one of the SortBy* keys; empty means newest first.
	SortBy string
	// Order is "asc" or "desc".
	Order string
	// Page is 1-indexed.
	Page  int
	Limit int
}

// # Role Data Access

// Store defines the data access contract for roles.
type Store interface {

	/*
		Create persists a brand-new role.

		Parameters:
		  - context: context.Context
		  - role: *Role

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, role *Role) error

	/*
		FindByID returns the role with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Role: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Role, error)

	/*
		FindByTitle returns the role with the given title, excluding excludeID
		(pass "" to search all rows). Titles are compared case-sensitively.

		Parameters:
		  - context: context.Context
		  - title: string
		  - excludeID: string

		Returns:
		  - *Role: Hydrated entity, nil when no match exists
		  - error: Database retrieval failures
	*/
	FindByTitle(context context.Context, title, excludeID string) (*Role, error)

	/*
		FindByPermissionSet returns a role holding exactly the given permission
		set (order-insensitive), excluding excludeID.

		Parameters:
		  - context: context.Context
		  - permissions: []rbac.Permission (deduplicated)
		  - excludeID: string

		Returns:
		  - *Role: Hydrated entity, nil when no match exists
		  - error: Database retrieval failures
	*/
	FindByPermissionSet(context context.Context, permissions []string, excludeID string) (*Role, error)

	/*
		List returns a page of roles plus the total row count.

		Parameters:
		  - context: context.Context
		  - options: ListOptions

		Returns:
		  - []Role: Page of hydrated entities
		  - int: Total number of roles
		  - error: Database retrieval failures
	*/
	List(context context.Context, options ListOptions) ([]Role, int, error)

	/*
		Update persists title and permission changes.

		Parameters:
		  - context: context.Context
		  - role: *Role

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, role *Role) error

	/*
		SetActive flips the activation flag.

		Parameters:
		  - context: context.Context
		  - id: string
		  - active: bool

		Returns:
		  - error: Persistence failures
	*/
	SetActive(context context.Context, id string, active bool) error

	/*
		DeleteAndUnassign removes the role and clears the role reference on
		every user that holds it, in a single transaction.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - int64: Number of users whose reference was cleared
		  - error: Persistence failures
	*/
	DeleteAndUnassign(context context.Context, id string) (int64, error)
}
