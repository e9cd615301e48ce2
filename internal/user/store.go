// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package user

import (
	"context"
	"time"
)

// ListOptions narrows, orders and paginates user listings.
type ListOptions struct {
	// Active filters on the activation flag: FilterActiveYes, FilterActiveNo
	// or empty for both.
	Active string
	// Archived switches the listing to archived accounts. Default listings
	// exclude them.
	Archived bool
	// RoleIDs restricts the listing to holders of any of the given roles.
	RoleIDs []string
	// SortBy is one of the SortBy* keys; empty means newest first.
	SortBy string
	// Order is "asc" or "desc".
	Order string
	// Page is 1-indexed.
	Page  int
	Limit int
}

// # User Data Access

// Store defines the data access contract for users.
//
// Uniqueness probes (FindByEmail, FindByPhone, FindByResetTokenDigest) return
// (nil, nil) on a miss; only FindByID and FindWithRole translate a miss into
// apperr.NotFound.
type Store interface {

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the user with the given ID, role not populated.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindWithRole returns the user with its role populated via a join.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity with Role set when a role is assigned
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindWithRole(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the user registered under email, role populated.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity, nil when no match exists
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByPhone returns the user holding phone, excluding excludeID (pass ""
		to search all rows).

		Parameters:
		  - context: context.Context
		  - phone: string
		  - excludeID: string

		Returns:
		  - *User: Hydrated entity, nil when no match exists
		  - error: Database retrieval failures
	*/
	FindByPhone(context context.Context, phone, excludeID string) (*User, error)

	/*
		List returns a page of users plus the total count matching the filter.

		Parameters:
		  - context: context.Context
		  - options: ListOptions

		Returns:
		  - []User: Page of hydrated entities with roles populated
		  - int: Total number of matching users
		  - error: Database retrieval failures
	*/
	List(context context.Context, options ListOptions) ([]User, int, error)

	/*
		UpdateProfile persists name, phone and credential changes.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	UpdateProfile(context context.Context, user *User) error

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
		SetArchived flips the archival flag.

		Parameters:
		  - context: context.Context
		  - id: string
		  - archived: bool

		Returns:
		  - error: Persistence failures
	*/
	SetArchived(context context.Context, id string, archived bool) error

	/*
		SetAvatar replaces the stored avatar reference. Pass nil to clear it.

		Parameters:
		  - context: context.Context
		  - id: string
		  - avatar: *Avatar

		Returns:
		  - error: Persistence failures
	*/
	SetAvatar(context context.Context, id string, avatar *Avatar) error

	/*
		AssignRole points the user at newRoleID and adjusts both role counters
		in a single transaction: the new role is incremented and, when
		oldRoleID is non-nil, the previous role is decremented.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newRoleID: string
		  - oldRoleID: *string

		Returns:
		  - error: Transaction failures
	*/
	AssignRole(context context.Context, userID, newRoleID string, oldRoleID *string) error

	/*
		UnassignRole clears the user's role reference and decrements the
		role's user count in a single transaction.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - roleID: string

		Returns:
		  - error: Transaction failures
	*/
	UnassignRole(context context.Context, userID, roleID string) error

	/*
		Delete removes the account. When roleID is non-nil, the role's user
		count is decremented in the same transaction.

		Parameters:
		  - context: context.Context
		  - id: string
		  - roleID: *string

		Returns:
		  - error: Transaction failures
	*/
	Delete(context context.Context, id string, roleID *string) error

	/*
		SetResetToken stores the credential-reset digest and expiry.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - digest: string (SHA-256 of the raw token)
		  - expiry: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetResetToken(context context.Context, userID, digest string, expiry time.Time) error

	/*
		ClearResetToken removes any pending credential-reset state.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearResetToken(context context.Context, userID string) error

	/*
		FindByResetTokenDigest returns the user holding an unexpired reset
		token with the given digest.

		Parameters:
		  - context: context.Context
		  - digest: string

		Returns:
		  - *User: Hydrated entity, nil when no unexpired match exists
		  - error: Database retrieval failures
	*/
	FindByResetTokenDigest(context context.Context, digest string) (*User, error)

	/*
		ResetPassword stores the new credential hash and clears the reset
		fields in one statement.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - passwordHash: string

		Returns:
		  - error: Persistence failures
	*/
	ResetPassword(context context.Context, userID, passwordHash string) error
}
