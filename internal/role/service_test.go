// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package role

import (
	"context"
	"net/http"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/rbac"
	"github.com/accesshub/accesshub/pkg/uuid"
)

// fakeStore is an in-memory Store used to exercise service rules without a
// database.
type fakeStore struct {
	roles      map[string]*Role
	unassigned map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		roles:      make(map[string]*Role),
		unassigned: make(map[string]int64),
	}
}

func (s *fakeStore) Create(_ context.Context, role *Role) error {
	clone := *role
	s.roles[role.ID] = &clone
	return nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*Role, error) {
	entity, ok := s.roles[id]
	if !ok {
		return nil, apperr.NotFound("Role")
	}
	clone := *entity
	return &clone, nil
}

func (s *fakeStore) FindByTitle(_ context.Context, title, excludeID string) (*Role, error) {
	for _, entity := range s.roles {
		if entity.Title == title && entity.ID != excludeID {
			clone := *entity
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindByPermissionSet(_ context.Context, permissions []string, excludeID string) (*Role, error) {
	want := append([]string(nil), permissions...)
	sort.Strings(want)

	for _, entity := range s.roles {
		if entity.ID == excludeID {
			continue
		}
		have := permissionStrings(entity.Permissions)
		sort.Strings(have)
		if len(have) != len(want) {
			continue
		}
		equal := true
		for i := range have {
			if have[i] != want[i] {
				equal = false
				break
			}
		}
		if equal {
			clone := *entity
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) List(_ context.Context, _ ListOptions) ([]Role, int, error) {
	roles := make([]Role, 0, len(s.roles))
	for _, entity := range s.roles {
		roles = append(roles, *entity)
	}
	return roles, len(roles), nil
}

func (s *fakeStore) Update(_ context.Context, role *Role) error {
	clone := *role
	s.roles[role.ID] = &clone
	return nil
}

func (s *fakeStore) SetActive(_ context.Context, id string, active bool) error {
	entity, ok := s.roles[id]
	if !ok {
		return apperr.NotFound("Role")
	}
	entity.IsActive = active
	return nil
}

func (s *fakeStore) DeleteAndUnassign(_ context.Context, id string) (int64, error) {
	if _, ok := s.roles[id]; !ok {
		return 0, apperr.NotFound("Role")
	}
	delete(s.roles, id)
	return s.unassigned[id], nil
}

func newRoleService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewService(store, rbac.NewCatalog()), store
}

func seedRole(t *testing.T, store *fakeStore, title string, permissions ...rbac.Permission) *Role {
	t.Helper()
	entity := &Role{
		ID:          uuid.New(),
		Title:       title,
		Permissions: permissions,
		IsActive:    true,
	}
	require.NoError(t, store.Create(context.Background(), entity))
	return entity
}

func seedAdminRole(t *testing.T, store *fakeStore) *Role {
	t.Helper()
	return seedRole(t, store, "Admin", rbac.NewCatalog().All()...)
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates_an_active_role_with_deduplicated_permissions", func(t *testing.T) {
		service, _ := newRoleService(t)

		entity, err := service.Create(ctx, Input{
			Title:       "Editor",
			Permissions: []string{"view_user", "view_role", "view_user"},
		})
		require.NoError(t, err)

		assert.NotEmpty(t, entity.ID)
		assert.True(t, entity.IsActive)
		assert.Zero(t, entity.UserCount)
		assert.Equal(t, []rbac.Permission{rbac.PermViewUser, rbac.PermViewRole}, entity.Permissions)
	})

	t.Run("rejects_duplicate_title", func(t *testing.T) {
		service, store := newRoleService(t)
		seedRole(t, store, "Editor", rbac.PermViewUser)

		_, err := service.Create(ctx, Input{Title: "Editor", Permissions: []string{"view_role"}})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
		assert.Equal(t, "Role by this title already exists. Please provide a different title", appError.Message)
	})

	t.Run("rejects_duplicate_permission_set_regardless_of_order", func(t *testing.T) {
		service, store := newRoleService(t)
		seedRole(t, store, "Editor", rbac.PermViewUser, rbac.PermViewRole)

		_, err := service.Create(ctx, Input{
			Title:       "Reviewer",
			Permissions: []string{"view_role", "view_user"},
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
		assert.Equal(t, "Editor role with the same permissions already exists. Either use it or provide different permissions", appError.Message)
	})

	t.Run("rejects_permissions_outside_the_catalog", func(t *testing.T) {
		service, _ := newRoleService(t)

		_, err := service.Create(ctx, Input{Title: "Editor", Permissions: []string{"launch_rockets"}})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	})

	t.Run("rejects_empty_permissions_and_bad_titles", func(t *testing.T) {
		service, _ := newRoleService(t)

		tests := []struct {
			name  string
			input Input
		}{
			{"empty_permissions", Input{Title: "Editor", Permissions: nil}},
			{"empty_title", Input{Title: "", Permissions: []string{"view_user"}}},
			{"numeric_title", Input{Title: "Editor99", Permissions: []string{"view_user"}}},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				_, err := service.Create(ctx, test.input)
				appError := apperr.As(err)
				require.NotNil(t, appError)
				assert.Equal(t, "VALIDATION_ERROR", appError.Code)
			})
		}
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates_title_and_permissions", func(t *testing.T) {
		service, store := newRoleService(t)
		existing := seedRole(t, store, "Editor", rbac.PermViewUser)

		entity, err := service.Update(ctx, existing.ID, Input{
			Title:       "Reviewer",
			Permissions: []string{"view_user", "view_role"},
		})
		require.NoError(t, err)

		assert.Equal(t, "Reviewer", entity.Title)
		assert.Equal(t, []rbac.Permission{rbac.PermViewUser, rbac.PermViewRole}, entity.Permissions)
	})

	t.Run("allows_renaming_the_full_administrative_role", func(t *testing.T) {
		service, store := newRoleService(t)
		admin := seedAdminRole(t, store)

		all := rbac.NewCatalog().All()
		permissions := make([]string, len(all))
		for i, p := range all {
			permissions[i] = string(p)
		}

		entity, err := service.Update(ctx, admin.ID, Input{Title: "Root", Permissions: permissions})
		require.NoError(t, err)
		assert.Equal(t, "Root", entity.Title)
	})

	t.Run("rejects_shrinking_the_full_administrative_role", func(t *testing.T) {
		service, store := newRoleService(t)
		admin := seedAdminRole(t, store)

		_, err := service.Update(ctx, admin.ID, Input{Title: "Admin", Permissions: []string{"view_user"}})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "FORBIDDEN_MODIFICATION", appError.Code)
		assert.Equal(t, "Cannot modify permissions for a role with full administrative access. Only title updates are allowed", appError.Message)
	})

	t.Run("rejects_title_collision_with_another_role", func(t *testing.T) {
		service, store := newRoleService(t)
		seedRole(t, store, "Editor", rbac.PermViewUser)
		target := seedRole(t, store, "Reviewer", rbac.PermViewRole)

		_, err := service.Update(ctx, target.ID, Input{Title: "Editor", Permissions: []string{"view_role"}})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
	})

	t.Run("keeping_own_title_and_permissions_is_not_a_conflict", func(t *testing.T) {
		service, store := newRoleService(t)
		existing := seedRole(t, store, "Editor", rbac.PermViewUser)

		_, err := service.Update(ctx, existing.ID, Input{Title: "Editor", Permissions: []string{"view_user"}})
		require.NoError(t, err)
	})

	t.Run("unknown_role_returns_not_found", func(t *testing.T) {
		service, _ := newRoleService(t)

		_, err := service.Update(ctx, uuid.New(), Input{Title: "Editor", Permissions: []string{"view_user"}})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes_a_regular_role", func(t *testing.T) {
		service, store := newRoleService(t)
		existing := seedRole(t, store, "Editor", rbac.PermViewUser)

		require.NoError(t, service.Delete(ctx, existing.ID))

		_, err := store.FindByID(ctx, existing.ID)
		assert.Error(t, err)
	})

	t.Run("rejects_deleting_the_full_administrative_role", func(t *testing.T) {
		service, store := newRoleService(t)
		admin := seedAdminRole(t, store)

		err := service.Delete(ctx, admin.ID)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "FORBIDDEN_MODIFICATION", appError.Code)
		assert.Equal(t, "Cannot delete a role with full administrative access. This role is required for system administration", appError.Message)
	})
}

func TestServiceActivation(t *testing.T) {
	ctx := context.Background()

	t.Run("activate_and_deactivate_round_trip", func(t *testing.T) {
		service, store := newRoleService(t)
		existing := seedRole(t, store, "Editor", rbac.PermViewUser)

		entity, err := service.Deactivate(ctx, existing.ID)
		require.NoError(t, err)
		assert.False(t, entity.IsActive)

		entity, err = service.Activate(ctx, existing.ID)
		require.NoError(t, err)
		assert.True(t, entity.IsActive)
	})

	t.Run("activating_an_active_role_conflicts", func(t *testing.T) {
		service, store := newRoleService(t)
		existing := seedRole(t, store, "Editor", rbac.PermViewUser)

		_, err := service.Activate(ctx, existing.ID)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "Role is already active", appError.Message)
	})

	t.Run("deactivating_an_inactive_role_conflicts", func(t *testing.T) {
		service, store := newRoleService(t)
		existing := seedRole(t, store, "Editor", rbac.PermViewUser)
		require.NoError(t, store.SetActive(ctx, existing.ID, false))

		_, err := service.Deactivate(ctx, existing.ID)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "Role is already inactive", appError.Message)
	})

	t.Run("rejects_deactivating_the_full_administrative_role", func(t *testing.T) {
		service, store := newRoleService(t)
		admin := seedAdminRole(t, store)

		_, err := service.Deactivate(ctx, admin.ID)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "FORBIDDEN_MODIFICATION", appError.Code)
		assert.Equal(t, "Cannot deactivate a role with full administrative access. This role is required for system administration", appError.Message)
	})
}

func TestServiceListValidation(t *testing.T) {
	service, _ := newRoleService(t)

	_, _, err := service.List(context.Background(), ListOptions{SortBy: "permissions", Page: 1, Limit: 10})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}
