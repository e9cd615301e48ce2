// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

/*
Package user implements account identity and administration.

A user owns their profile (name, phone, credential, avatar) and holds at most
one role reference. Administrative state is split into two independent flags:

  - IsActive: an inactive user fails authorization but can still sign in.
  - IsArchived: an archived user is hidden from default listings.

# Guards

Every administrative mutation runs the self-action guard first and the
root-user guard second, against a freshly loaded target view. The guards
themselves live in [rbac]; this package only applies them.
*/
package user

import (
	"time"

	"github.com/accesshub/accesshub/internal/rbac"
	"github.com/accesshub/accesshub/internal/role"
)

// # Domain Entities

// Avatar is a stored profile image. The object key is internal bookkeeping
// and never serialized.
type Avatar struct {
	URL string `json:"url"`
	Key string `json:"-"`
}

// User represents an account.
type User struct {
	ID        string `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	// PasswordHash is the bcrypt digest. Never serialized.
	PasswordHash string `json:"-"`

	// RoleID is the raw reference; Role is the populated view when the query
	// joined it.
	RoleID *string    `json:"-"`
	Role   *role.Role `json:"role,omitempty"`

	Avatar *Avatar `json:"avatar,omitempty"`

	IsActive   bool `json:"is_active"`
	IsArchived bool `json:"is_archived"`

	// Pending credential-reset state. Only the SHA-256 digest of the raw
	// token is stored.
	ResetTokenHash   *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Actor converts the entity into the authorization view consumed by the gate
// and guards.
func (u *User) Actor() *rbac.Actor {
	actor := &rbac.Actor{
		ID:     u.ID,
		Active: u.IsActive,
	}
	if u.Role != nil {
		actor.Role = u.Role.ActorRole()
	}
	return actor
}

// # Field Identifiers

// Global field names for validation and identity mapping in the user domain.
const (
	FieldFirstname = "firstname"
	FieldLastname  = "lastname"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldUserID    = "userId"
)

// # Listing

// Allowed sort keys for user listings.
const (
	SortByName      = "name"
	SortByCreatedAt = "created_at"
)

// Active-status filter values. Empty means both.
const (
	FilterActiveYes = "yes"
	FilterActiveNo  = "no"
)
