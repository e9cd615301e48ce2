// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package role

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/platform/dberr"
	"github.com/accesshub/accesshub/internal/rbac"
	"github.com/accesshub/accesshub/pkg/slice"
)

// # Role Repository

// PostgresStore implements the [Store] interface using pgx.
//
// # err Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the role Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const roleColumns = "id, title, permissions, usercount, isactive, createdat, updatedat"

// scanRole hydrates a Role from a pgx row. Permissions are stored as text[]
// and converted back to the typed slice.
func scanRole(row pgx.Row) (*Role, error) {
	entity := &Role{}
	var permissions []string

	err := row.Scan(
		&entity.ID,
		&entity.Title,
		&permissions,
		&entity.UserCount,
		&entity.IsActive,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entity.Permissions = slice.Map(permissions, func(p string) rbac.Permission {
		return rbac.Permission(p)
	})

	return entity, nil
}

// permissionStrings converts the typed slice to the stored representation.
func permissionStrings(permissions []rbac.Permission) []string {
	return slice.Map(permissions, func(p rbac.Permission) string {
		return string(p)
	})
}

/*
Create persists a new role record into the rbac.role table.

Parameters:
  - context: context.Context
  - role: *Role (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (store *PostgresStore) Create(context context.Context, role *Role) error {
	const query = `
		INSERT INTO rbac.role (
			id, title, permissions, usercount, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if role.CreatedAt.IsZero() {
		role.CreatedAt = now
	}
	role.UpdatedAt = now

	_, err := store.pool.Exec(context, query,
		role.ID,
		role.Title,
		permissionStrings(role.Permissions),
		role.UserCount,
		role.IsActive,
		role.CreatedAt,
		role.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_role_store_create_failed")
	}

	return nil
}

/*
FindByID retrieves a role record by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Role: Hydrated role entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindByID(context context.Context, id string) (*Role, error) {
	query := fmt.Sprintf("SELECT %s FROM rbac.role WHERE id = $1", roleColumns)

	entity, err := scanRole(store.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Role")
		}
		return nil, fmt.Errorf("postgres_role_store_find_by_id_failed: %w", err)
	}

	return entity, nil
}

/*
FindByTitle retrieves a role by exact title, skipping excludeID.

Description: Uniqueness probe used by Create and Update. Returns (nil, nil)
when no matching row exists.

Parameters:
  - context: context.Context
  - title: string
  - excludeID: string ("" to search all rows)

Returns:
  - *Role: Hydrated role entity or nil
  - error: Execution errors
*/
func (store *PostgresStore) FindByTitle(context context.Context, title, excludeID string) (*Role, error) {
	query := fmt.Sprintf("SELECT %s FROM rbac.role WHERE title = $1 AND id::text != $2", roleColumns)

	entity, err := scanRole(store.pool.QueryRow(context, query, title, excludeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres_role_store_find_by_title_failed: %w", err)
	}

	return entity, nil
}

/*
FindByPermissionSet retrieves a role holding exactly the given permissions.

Description: Set equality is expressed with mutual array containment so the
stored order never matters.

Parameters:
  - context: context.Context
  - permissions: []string (deduplicated)
  - excludeID: string

Returns:
  - *Role: Hydrated role entity or nil
  - error: Execution errors
*/
func (store *PostgresStore) FindByPermissionSet(context context.Context, permissions []string, excludeID string) (*Role, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rbac.role
		WHERE permissions @> $1 AND permissions <@ $1 AND id::text != $2`, roleColumns)

	entity, err := scanRole(store.pool.QueryRow(context, query, permissions, excludeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres_role_store_find_by_permissions_failed: %w", err)
	}

	return entity, nil
}

/*
List returns a page of roles and the total count.

Parameters:
  - context: context.Context
  - options: ListOptions

Returns:
  - []Role: Page of hydrated entities
  - int: Total number of roles
  - error: Execution errors
*/
func (store *PostgresStore) List(context context.Context, options ListOptions) ([]Role, int, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM rbac.role ORDER BY %s LIMIT $1 OFFSET $2",
		roleColumns,
		sortClause(options),
	)

	offset := 0
	if options.Page > 1 {
		offset = (options.Page - 1) * options.Limit
	}

	rows, err := store.pool.Query(context, query, options.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_role_store_list_failed: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		entity, err := scanRole(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_role_store_list_scan_failed: %w", err)
		}
		roles = append(roles, *entity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_role_store_list_rows_failed: %w", err)
	}

	var total int
	if err := store.pool.QueryRow(context, "SELECT COUNT(*) FROM rbac.role").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_role_store_count_failed: %w", err)
	}

	return roles, total, nil
}

// sortClause maps validated sort options to a SQL ORDER BY expression.
// Options are whitelisted by the service layer; unknown keys fall back to
// newest-first.
func sortClause(options ListOptions) string {
	direction := "DESC"
	if options.Order == "asc" {
		direction = "ASC"
	}

	switch options.SortBy {
	case SortByTitle:
		return "title " + direction
	case SortByUserCount:
		return "usercount " + direction
	case SortByCreatedAt:
		return "createdat " + direction
	default:
		return "createdat DESC"
	}
}

/*
Update persists title and permission changes for an existing role.

Parameters:
  - context: context.Context
  - role: *Role

Returns:
  - error: Update failures
*/
func (store *PostgresStore) Update(context context.Context, role *Role) error {
	const query = `
		UPDATE rbac.role
		SET title = $2, permissions = $3, updatedat = $4
		WHERE id = $1`

	role.UpdatedAt = time.Now()
	_, err := store.pool.Exec(context, query,
		role.ID,
		role.Title,
		permissionStrings(role.Permissions),
		role.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_role_store_update_failed")
	}

	return nil
}

/*
SetActive flips the activation flag on a role.

Parameters:
  - context: context.Context
  - id: string
  - active: bool

Returns:
  - error: Execution errors
*/
func (store *PostgresStore) SetActive(context context.Context, id string, active bool) error {
	const query = "UPDATE rbac.role SET isactive = $2, updatedat = $3 WHERE id = $1"

	_, err := store.pool.Exec(context, query, id, active, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_role_store_set_active_failed: %w", err)
	}

	return nil
}

/*
DeleteAndUnassign removes a role and clears the reference on every user that
holds it, atomically.

Description: Runs both statements inside one transaction so a crash can never
leave users pointing at a deleted role.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - int64: Number of users whose role reference was cleared
  - error: Transaction failures
*/
func (store *PostgresStore) DeleteAndUnassign(context context.Context, id string) (int64, error) {
	tx, err := store.pool.Begin(context)
	if err != nil {
		return 0, fmt.Errorf("postgres_role_store_delete_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	unassigned, err := tx.Exec(context,
		"UPDATE users.account SET roleid = NULL, updatedat = NOW() WHERE roleid = $1", id)
	if err != nil {
		return 0, fmt.Errorf("postgres_role_store_delete_unassign_failed: %w", err)
	}

	if _, err := tx.Exec(context, "DELETE FROM rbac.role WHERE id = $1", id); err != nil {
		return 0, fmt.Errorf("postgres_role_store_delete_failed: %w", err)
	}

	if err := tx.Commit(context); err != nil {
		return 0, fmt.Errorf("postgres_role_store_delete_commit_failed: %w", err)
	}

	return unassigned.RowsAffected(), nil
}
