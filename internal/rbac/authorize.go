// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package rbac

import (
	"fmt"
	"unicode"
)

// DenyReason classifies why an authorization check failed. The zero value
// means the request was allowed.
type DenyReason string

const (
	DenyNone              DenyReason = ""
	DenyNoRole            DenyReason = "NO_ROLE"
	DenyRoleInactive      DenyReason = "ROLE_INACTIVE"
	DenyUserInactive      DenyReason = "USER_INACTIVE"
	DenyMissingPermission DenyReason = "MISSING_PERMISSION"
)

// Decision is the outcome of [Gate.Authorize]. Deny decisions carry a
// complete, human-readable message ready to return to the client.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Message string
}

// Gate evaluates authorization over assembled [Actor] views.
type Gate struct {
	catalog *Catalog
}

// NewGate returns a gate bound to the process-wide permission catalog.
func NewGate(catalog *Catalog) *Gate {
	return &Gate{catalog: catalog}
}

// Catalog exposes the gate's catalog for callers that need set predicates.
func (g *Gate) Catalog() *Catalog { return g.catalog }

// Authorize decides whether actor may perform the operation guarded by
// required.
//
// Checks run in a fixed order and the first failure wins:
//
//  1. no role assigned
//  2. role inactive
//  3. user inactive
//  4. permission missing from the role's set
//
// The order is part of the contract: an inactive user with no role is told
// about the missing role, not the inactive account.
func (g *Gate) Authorize(actor *Actor, required Permission) Decision {
	if actor.Role == nil {
		return Decision{
			Reason:  DenyNoRole,
			Message: "Access denied. You do not have a role assigned. Please contact your administrator",
		}
	}

	if !actor.Role.Active {
		return Decision{
			Reason: DenyRoleInactive,
			Message: fmt.Sprintf(
				"Access denied. Your role %s is currently inactive. Please contact your administrator",
				actor.Role.Title,
			),
		}
	}

	if !actor.Active {
		return Decision{
			Reason:  DenyUserInactive,
			Message: "Access denied. Your account has been deactivated. Please contact your administrator",
		}
	}

	if !actor.Role.Has(required) {
		return Decision{
			Reason: DenyMissingPermission,
			Message: fmt.Sprintf(
				"Access denied. Your role %s does not have the permission to %s",
				actor.Role.Title,
				g.describeAction(required),
			),
		}
	}

	return Decision{Allowed: true}
}

// describeAction renders the catalog description of p so it reads as a verb
// phrase inside a sentence ("View a user" -> "view a user").
func (g *Gate) describeAction(p Permission) string {
	description, err := g.catalog.Describe(p)
	if err != nil {
		return string(p)
	}
	return lowercaseFirst(description)
}

func lowercaseFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
