// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package user

import (
	"context"
	"log/slog"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/platform/constants"
	"github.com/accesshub/accesshub/internal/platform/sec"
	"github.com/accesshub/accesshub/internal/platform/storage"
	"github.com/accesshub/accesshub/internal/platform/validate"
	"github.com/accesshub/accesshub/internal/rbac"
	"github.com/accesshub/accesshub/internal/role"
)

// # Denial Messages

const (
	msgPhoneInUse = "This phone number is being used by another user. Please set a different phone number"

	msgRoleDoesNotExist = "Provided role does not exist"

	msgRoleAlreadyAssigned = "This role is already assigned to the user"

	msgNoRoleAssigned = "User does not have any role assigned"
)

// # Service

// Service implements profile and administration rules on top of a [Store].
type Service struct {
	store   Store
	roles   role.Store
	gate    *rbac.Gate
	objects storage.ObjectStore
	logger  *slog.Logger
}

// NewService wires the user service with its dependencies.
func NewService(store Store, roles role.Store, gate *rbac.Gate, objects storage.ObjectStore, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		roles:   roles,
		gate:    gate,
		objects: objects,
		logger:  logger,
	}
}

// ResolveActor loads the authorization view for a user ID. It satisfies the
// authentication middleware's resolver contract.
func (service *Service) ResolveActor(context context.Context, userID string) (*rbac.Actor, error) {
	entity, err := service.store.FindWithRole(context, userID)
	if err != nil {
		return nil, err
	}
	return entity.Actor(), nil
}

// # Profile Operations

/*
GetProfile returns the caller's own account with its role populated.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated profile
  - error: apperr.NotFound or storage failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*User, error) {
	return service.store.FindWithRole(context, userID)
}

// UpdateProfileInput carries the mutable profile fields. A nil Password means
// the credential is left untouched.
type UpdateProfileInput struct {
	Firstname string
	Lastname  string
	Phone     string
	Password  string
}

/*
UpdateProfile applies name, phone and optional credential changes to the
caller's own account.

Description: Phone uniqueness is probed excluding the caller. A non-empty
password is re-validated against the policy and hashed before persisting.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *User: The updated profile
  - error: Validation, conflict or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*User, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldFirstname, input.Firstname).
		Letters(FieldFirstname, input.Firstname).
		MaxLen(FieldFirstname, input.Firstname, 50).
		Required(FieldPhone, input.Phone).
		Phone(FieldPhone, input.Phone)
	if input.Lastname != "" {
		validator.Letters(FieldLastname, input.Lastname).MaxLen(FieldLastname, input.Lastname, 50)
	}
	if input.Password != "" {
		validator.Password(FieldPassword, input.Password)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entity, err := service.store.FindWithRole(context, userID)
	if err != nil {
		return nil, err
	}

	// ── 1. Phone uniqueness (excluding self) ──────────────────────────────
	if existing, err := service.store.FindByPhone(context, input.Phone, userID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict(msgPhoneInUse)
	}

	// ── 2. Apply changes ──────────────────────────────────────────────────
	entity.Firstname = input.Firstname
	entity.Lastname = input.Lastname
	entity.Phone = input.Phone

	if input.Password != "" {
		hash, err := sec.HashPassword(input.Password)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		entity.PasswordHash = hash
	}

	if err := service.store.UpdateProfile(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

/*
DeleteAccount removes the caller's own account.

Description: The root-user guard applies to self-deletion: the sole holder of
the full-administrative role cannot remove themselves. Any stored avatar is
released best-effort and the role's user count is decremented in the same
transaction as the row deletion.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: NotFound, protection or storage failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	entity, err := service.store.FindWithRole(context, userID)
	if err != nil {
		return err
	}

	if service.gate.IsSoleRootUser(entity.Actor()) {
		return apperr.RootUserProtection(rbac.RootUserMessage(entity.Role.Title))
	}

	service.releaseAvatar(context, entity)

	return service.store.Delete(context, userID, entity.RoleID)
}

// # Avatar Operations

/*
UploadAvatar stores a new profile image, replacing any previous one.

Description: The new object is uploaded first; only after the reference is
persisted is the previous object deleted, best-effort. An upload failure is
surfaced as DependencyFailure and never retried.

Parameters:
  - context: context.Context
  - userID: string
  - data: []byte (raw image)
  - contentType: string

Returns:
  - *User: The profile with the new avatar
  - error: Validation, dependency or storage failures
*/
func (service *Service) UploadAvatar(context context.Context, userID string, data []byte, contentType string) (*User, error) {
	if !storage.IsSupportedImageType(contentType) {
		return nil, apperr.ValidationError("Avatar must be a JPEG, PNG, GIF or WebP image")
	}
	if len(data) == 0 {
		return nil, apperr.ValidationError("Avatar file is empty")
	}

	entity, err := service.store.FindWithRole(context, userID)
	if err != nil {
		return nil, err
	}

	result, err := service.objects.Upload(context, constants.AvatarFolder, userID, data, contentType)
	if err != nil {
		return nil, apperr.DependencyFailure("Failed to upload avatar. Please try again later", err)
	}

	previous := entity.Avatar
	entity.Avatar = &Avatar{URL: result.URL, Key: result.Key}

	if err := service.store.SetAvatar(context, userID, entity.Avatar); err != nil {
		return nil, err
	}

	if previous != nil && previous.Key != "" {
		if err := service.objects.Delete(context, previous.Key); err != nil {
			service.logger.WarnContext(context, "avatar_cleanup_failed",
				slog.String("user_id", userID),
				slog.String("key", previous.Key),
				slog.String("error", err.Error()),
			)
		}
	}

	return entity, nil
}

/*
RemoveAvatar deletes the caller's profile image.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: The profile without an avatar
  - error: NotFound, conflict or storage failures
*/
func (service *Service) RemoveAvatar(context context.Context, userID string) (*User, error) {
	entity, err := service.store.FindWithRole(context, userID)
	if err != nil {
		return nil, err
	}

	if entity.Avatar == nil {
		return nil, apperr.Conflict("User does not have an avatar set")
	}

	if err := service.store.SetAvatar(context, userID, nil); err != nil {
		return nil, err
	}

	service.releaseAvatar(context, entity)
	entity.Avatar = nil

	return entity, nil
}

// releaseAvatar deletes the stored object, best-effort. Reference cleanup is
// the caller's responsibility.
func (service *Service) releaseAvatar(context context.Context, entity *User) {
	if entity.Avatar == nil || entity.Avatar.Key == "" {
		return
	}
	if err := service.objects.Delete(context, entity.Avatar.Key); err != nil {
		service.logger.WarnContext(context, "avatar_cleanup_failed",
			slog.String("user_id", entity.ID),
			slog.String("key", entity.Avatar.Key),
			slog.String("error", err.Error()),
		)
	}
}

// # Administration Operations

/*
List returns a page of users plus the total count matching the filter.

Parameters:
  - context: context.Context
  - options: ListOptions (filter and sort keys validated here)

Returns:
  - []User: Page of users with roles populated
  - int: Total matching user count
  - error: Validation or storage failures
*/
func (service *Service) List(context context.Context, options ListOptions) ([]User, int, error) {
	validator := &validate.Validator{}
	if options.Active != "" {
		validator.OneOf("active", options.Active, FilterActiveYes, FilterActiveNo)
	}
	if options.SortBy != "" {
		validator.OneOf("sortBy", options.SortBy, SortByName, SortByCreatedAt)
	}
	if options.Order != "" {
		validator.OneOf("order", options.Order, "asc", "desc")
	}
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	return service.store.List(context, options)
}

/*
GetByID returns a single user with its role populated.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated user
  - error: apperr.NotFound or storage failures
*/
func (service *Service) GetByID(context context.Context, id string) (*User, error) {
	return service.store.FindWithRole(context, id)
}

/*
Activate marks an inactive user as active.

Parameters:
  - context: context.Context
  - actingID: string (authenticated administrator)
  - targetID: string

Returns:
  - *User: The activated user
  - error: Self-action, NotFound, conflict or storage failures
*/
func (service *Service) Activate(context context.Context, actingID, targetID string) (*User, error) {
	if rbac.IsSelfAction(actingID, targetID) {
		return nil, apperr.SelfActionForbidden(rbac.SelfActionMessage(rbac.ActionActivate))
	}

	entity, err := service.store.FindWithRole(context, targetID)
	if err != nil {
		return nil, err
	}

	if entity.IsActive {
		return nil, apperr.Conflict("User is already active")
	}

	if err := service.store.SetActive(context, targetID, true); err != nil {
		return nil, err
	}

	entity.IsActive = true
	return entity, nil
}

/*
Deactivate marks an active user as inactive.

Description: An inactive user fails authorization on every guarded operation
until reactivated. The sole root user can never be deactivated.

Parameters:
  - context: context.Context
  - actingID: string
  - targetID: string

Returns:
  - *User: The deactivated user
  - error: Self-action, root-user, NotFound, conflict or storage failures
*/
func (service *Service) Deactivate(context context.Context, actingID, targetID string) (*User, error) {
	if rbac.IsSelfAction(actingID, targetID) {
		return nil, apperr.SelfActionForbidden(rbac.SelfActionMessage(rbac.ActionDeactivate))
	}

	entity, err := service.store.FindWithRole(context, targetID)
	if err != nil {
		return nil, err
	}

	if !entity.IsActive {
		return nil, apperr.Conflict("User is already inactive")
	}

	if service.gate.IsSoleRootUser(entity.Actor()) {
		return nil, apperr.RootUserProtection(rbac.RootUserMessage(entity.Role.Title))
	}

	if err := service.store.SetActive(context, targetID, false); err != nil {
		return nil, err
	}

	entity.IsActive = false
	return entity, nil
}

/*
Archive hides a user from default listings.

Parameters:
  - context: context.Context
  - actingID: string
  - targetID: string

Returns:
  - *User: The archived user
  - error: Self-action, root-user, NotFound, conflict or storage failures
*/
func (service *Service) Archive(context context.Context, actingID, targetID string) (*User, error) {
	if rbac.IsSelfAction(actingID, targetID) {
		return nil, apperr.SelfActionForbidden(rbac.SelfActionMessage(rbac.ActionArchive))
	}

	entity, err := service.store.FindWithRole(context, targetID)
	if err != nil {
		return nil, err
	}

	if entity.IsArchived {
		return nil, apperr.Conflict("User is already archived")
	}

	if service.gate.IsSoleRootUser(entity.Actor()) {
		return nil, apperr.RootUserProtection(rbac.RootUserMessage(entity.Role.Title))
	}

	if err := service.store.SetArchived(context, targetID, true); err != nil {
		return nil, err
	}

	entity.IsArchived = true
	return entity, nil
}

/*
Restore brings an archived user back into default listings.

Parameters:
  - context: context.Context
  - actingID: string
  - targetID: string

Returns:
  - *User: The restored user
  - error: Self-action, NotFound, conflict or storage failures
*/
func (service *Service) Restore(context context.Context, actingID, targetID string) (*User, error) {
	if rbac.IsSelfAction(actingID, targetID) {
		return nil, apperr.SelfActionForbidden(rbac.SelfActionMessage(rbac.ActionRestore))
	}

	entity, err := service.store.FindWithRole(context, targetID)
	if err != nil {
		return nil, err
	}

	if !entity.IsArchived {
		return nil, apperr.Conflict("User is not archived")
	}

	if err := service.store.SetArchived(context, targetID, false); err != nil {
		return nil, err
	}

	entity.IsArchived = false
	return entity, nil
}

/*
Delete removes another user's account.

Description: Same protections as self-deletion plus the self-action guard:
administrators must use the profile endpoint to delete their own account.

Parameters:
  - context: context.Context
  - actingID: string
  - targetID: string

Returns:
  - error: Self-action, root-user, NotFound or storage failures
*/
func (service *Service) Delete(context context.Context, actingID, targetID string) error {
	if rbac.IsSelfAction(actingID, targetID) {
		return apperr.SelfActionForbidden(rbac.SelfActionMessage(rbac.ActionDelete))
	}

	entity, err := service.store.FindWithRole(context, targetID)
	if err != nil {
		return err
	}

	if service.gate.IsSoleRootUser(entity.Actor()) {
		return apperr.RootUserProtection(rbac.RootUserMessage(entity.Role.Title))
	}

	service.releaseAvatar(context, entity)

	return service.store.Delete(context, targetID, entity.RoleID)
}

// # Role Assignment

/*
AssignRole points a user at a role, adjusting both role counters atomically.

Description: Guard order is fixed: self-action first, then existence of the
target and the role, then the same-role conflict, then the root-user guard on
the role being left. The reference change and both counter updates run in one
storage transaction.

Parameters:
  - context: context.Context
  - actingID: string
  - targetID: string
  - roleID: string

Returns:
  - *User: The user with the new role populated
  - error: Self-action, NotFound, conflict, root-user or storage failures
*/
func (service *Service) AssignRole(context context.Context, actingID, targetID, roleID string) (*User, error) {
	if rbac.IsSelfAction(actingID, targetID) {
		return nil, apperr.SelfActionForbidden(rbac.SelfActionMessage(rbac.ActionAssignRole))
	}

	entity, err := service.store.FindWithRole(context, targetID)
	if err != nil {
		return nil, err
	}

	// ── 1. Role existence ─────────────────────────────────────────────────
	if _, err := service.roles.FindByID(context, roleID); err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "NOT_FOUND" {
			return nil, apperr.NotFoundMsg(msgRoleDoesNotExist)
		}
		return nil, err
	}

	// ── 2. Same-role conflict ─────────────────────────────────────────────
	if entity.RoleID != nil && *entity.RoleID == roleID {
		return nil, apperr.Conflict(msgRoleAlreadyAssigned)
	}

	// ── 3. Root-user guard on the role being left ─────────────────────────
	if service.gate.IsSoleRootUser(entity.Actor()) {
		return nil, apperr.RootUserProtection(rbac.RootUserMessage(entity.Role.Title))
	}

	// ── 4. Transactional reference + counter updates ──────────────────────
	if err := service.store.AssignRole(context, targetID, roleID, entity.RoleID); err != nil {
		return nil, err
	}

	return service.store.FindWithRole(context, targetID)
}

/*
UnassignRole clears a user's role, decrementing the role's user count
atomically.

Parameters:
  - context: context.Context
  - actingID: string
  - targetID: string

Returns:
  - *User: The user without a role
  - error: Self-action, NotFound, conflict, root-user or storage failures
*/
func (service *Service) UnassignRole(context context.Context, actingID, targetID string) (*User, error) {
	if rbac.IsSelfAction(actingID, targetID) {
		return nil, apperr.SelfActionForbidden(rbac.SelfActionMessage(rbac.ActionUnassignRole))
	}

	entity, err := service.store.FindWithRole(context, targetID)
	if err != nil {
		return nil, err
	}

	if entity.RoleID == nil {
		return nil, apperr.Conflict(msgNoRoleAssigned)
	}

	if service.gate.IsSoleRootUser(entity.Actor()) {
		return nil, apperr.RootUserProtection(rbac.RootUserMessage(entity.Role.Title))
	}

	if err := service.store.UnassignRole(context, targetID, *entity.RoleID); err != nil {
		return nil, err
	}

	entity.RoleID = nil
	entity.Role = nil
	return entity, nil
}
