// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package role

import (
	"context"
	"fmt"
	"strings"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/platform/validate"
	"github.com/accesshub/accesshub/internal/rbac"
	"github.com/accesshub/accesshub/pkg/uuid"
)

// # Denial Messages

const (
	msgTitleExists = "Role by this title already exists. Please provide a different title"

	msgCannotModifyFullAdmin = "Cannot modify permissions for a role with full administrative access. Only title updates are allowed"

	msgCannotDeleteFullAdmin = "Cannot delete a role with full administrative access. This role is required for system administration"

	msgCannotDeactivateFullAdmin = "Cannot deactivate a role with full administrative access. This role is required for system administration"
)

// # Service

// Service implements role lifecycle rules on top of a [Store].
type Service struct {
	store   Store
	catalog *rbac.Catalog
}

// NewService wires the role service with its dependencies.
func NewService(store Store, catalog *rbac.Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// Input carries the client-supplied fields for Create and Update.
type Input struct {
	Title       string   `json:"title"`
	Permissions []string `json:"permissions"`
}

/*
List returns a page of roles plus the total count.

Parameters:
  - context: context.Context
  - options: ListOptions (sort keys validated here)

Returns:
  - []Role: Page of roles
  - int: Total role count
  - error: Validation or storage failures
*/
func (service *Service) List(context context.Context, options ListOptions) ([]Role, int, error) {
	validator := &validate.Validator{}
	if options.SortBy != "" {
		validator.OneOf("sortBy", options.SortBy, SortByTitle, SortByUserCount, SortByCreatedAt)
	}
	if options.Order != "" {
		validator.OneOf("order", options.Order, "asc", "desc")
	}
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	roles, total, err := service.store.List(context, options)
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

/*
GetByID returns a single role.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Role: Hydrated role
  - error: apperr.NotFound when the role does not exist
*/
func (service *Service) GetByID(context context.Context, id string) (*Role, error) {
	return service.store.FindByID(context, id)
}

/*
Create validates and persists a new role.

Description: Enforces title format and uniqueness, permission-set validity
against the catalog, and permission-set uniqueness across all roles.
Duplicate permissions in the request are collapsed before any comparison.

Parameters:
  - context: context.Context
  - input: Input

Returns:
  - *Role: The persisted role
  - error: Validation, conflict or storage failures
*/
func (service *Service) Create(context context.Context, input Input) (*Role, error) {
	permissions, err := service.validateInput(input)
	if err != nil {
		return nil, err
	}

	// ── 1. Title uniqueness ───────────────────────────────────────────────
	if existing, err := service.store.FindByTitle(context, input.Title, ""); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict(msgTitleExists)
	}

	// ── 2. Permission-set uniqueness ──────────────────────────────────────
	if existing, err := service.store.FindByPermissionSet(context, permissionStrings(permissions), ""); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict(duplicateSetMessage(existing.Title))
	}

	// ── 3. Persist ────────────────────────────────────────────────────────
	entity := &Role{
		ID:          uuid.New(),
		Title:       input.Title,
		Permissions: permissions,
		UserCount:   0,
		IsActive:    true,
	}

	if err := service.store.Create(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

/*
Update validates and persists changes to an existing role.

Description: Applies the same uniqueness rules as Create, excluding the role
itself. A full-administrative role may only change its title — any change to
its permission set is rejected.

Parameters:
  - context: context.Context
  - id: string
  - input: Input

Returns:
  - *Role: The updated role
  - error: Validation, conflict, protection or storage failures
*/
func (service *Service) Update(context context.Context, id string, input Input) (*Role, error) {
	permissions, err := service.validateInput(input)
	if err != nil {
		return nil, err
	}

	entity, err := service.store.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// ── 1. Full-administrative protection ─────────────────────────────────
	// The root role can be renamed but never lose full access.
	if service.catalog.IsFullAdministrative(entity.Permissions) &&
		!service.catalog.IsFullAdministrative(permissions) {
		return nil, apperr.ForbiddenModification(msgCannotModifyFullAdmin)
	}

	// ── 2. Title uniqueness (excluding self) ──────────────────────────────
	if existing, err := service.store.FindByTitle(context, input.Title, id); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict(msgTitleExists)
	}

	// ── 3. Permission-set uniqueness (excluding self) ─────────────────────
	if existing, err := service.store.FindByPermissionSet(context, permissionStrings(permissions), id); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict(duplicateSetMessage(existing.Title))
	}

	// ── 4. Persist ────────────────────────────────────────────────────────
	entity.Title = input.Title
	entity.Permissions = permissions

	if err := service.store.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

/*
Delete removes a role and unassigns it from every holder.

Description: The full-administrative role is never deletable. For all other
roles, deletion and user unassignment happen in one storage transaction.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: NotFound, protection or storage failures
*/
func (service *Service) Delete(context context.Context, id string) error {
	entity, err := service.store.FindByID(context, id)
	if err != nil {
		return err
	}

	if service.catalog.IsFullAdministrative(entity.Permissions) {
		return apperr.ForbiddenModification(msgCannotDeleteFullAdmin)
	}

	_, err = service.store.DeleteAndUnassign(context, id)
	return err
}

/*
Activate marks an inactive role as active.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Role: The activated role
  - error: NotFound, conflict or storage failures
*/
func (service *Service) Activate(context context.Context, id string) (*Role, error) {
	entity, err := service.store.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if entity.IsActive {
		return nil, apperr.Conflict("Role is already active")
	}

	if err := service.store.SetActive(context, id, true); err != nil {
		return nil, err
	}

	entity.IsActive = true
	return entity, nil
}

/*
Deactivate marks an active role as inactive.

Description: Holders of an inactive role fail authorization until the role is
reactivated. The full-administrative role can never be deactivated.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Role: The deactivated role
  - error: NotFound, conflict, protection or storage failures
*/
func (service *Service) Deactivate(context context.Context, id string) (*Role, error) {
	entity, err := service.store.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if !entity.IsActive {
		return nil, apperr.Conflict("Role is already inactive")
	}

	if service.catalog.IsFullAdministrative(entity.Permissions) {
		return nil, apperr.ForbiddenModification(msgCannotDeactivateFullAdmin)
	}

	if err := service.store.SetActive(context, id, false); err != nil {
		return nil, err
	}

	entity.IsActive = false
	return entity, nil
}

// # Helpers

// validateInput checks title format and catalog membership, returning the
// deduplicated permission set.
func (service *Service) validateInput(input Input) ([]rbac.Permission, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, input.Title).
		Letters(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 50).
		Custom(FieldPermissions, len(input.Permissions) == 0, "Permissions array must contain at least one value")

	seen := make(map[rbac.Permission]struct{}, len(input.Permissions))
	permissions := make([]rbac.Permission, 0, len(input.Permissions))
	for _, raw := range input.Permissions {
		p := rbac.Permission(strings.TrimSpace(raw))
		if !service.catalog.Contains(p) {
			validator.Custom(FieldPermissions, true, invalidPermissionsMessage(service.catalog))
			break
		}
		if _, duplicate := seen[p]; duplicate {
			continue
		}
		seen[p] = struct{}{}
		permissions = append(permissions, p)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return permissions, nil
}

// duplicateSetMessage names the role already holding the requested set.
func duplicateSetMessage(title string) string {
	return fmt.Sprintf("%s role with the same permissions already exists. Either use it or provide different permissions", title)
}

// invalidPermissionsMessage lists every valid catalog value.
func invalidPermissionsMessage(catalog *rbac.Catalog) string {
	all := catalog.All()
	values := make([]string, len(all))
	for i, p := range all {
		values[i] = string(p)
	}
	return "Provided invalid permissions. Valid permissions are: " + strings.Join(values, ", ")
}
