// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/platform/dberr"
	"github.com/accesshub/accesshub/internal/rbac"
	"github.com/accesshub/accesshub/internal/role"
)

// # User Repository

// PostgresStore implements the [Store] interface using pgx.
//
// # err Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the user Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const userColumns = `u.id, u.firstname, u.lastname, u.email, u.phone, u.passwordhash,
	u.roleid, u.avatarurl, u.avatarkey, u.isactive, u.isarchived,
	u.resettokenhash, u.resettokenexpiry, u.createdat, u.updatedat`

// roleColumns mirrors the rbac.role projection, nullable because of the LEFT JOIN.
const joinedRoleColumns = `r.id, r.title, r.permissions, r.usercount, r.isactive,
	r.createdat, r.updatedat`

// scanUser hydrates a User without its role.
func scanUser(row pgx.Row) (*User, error) {
	entity := &User{}
	var avatarURL, avatarKey *string

	err := row.Scan(
		&entity.ID,
		&entity.Firstname,
		&entity.Lastname,
		&entity.Email,
		&entity.Phone,
		&entity.PasswordHash,
		&entity.RoleID,
		&avatarURL,
		&avatarKey,
		&entity.IsActive,
		&entity.IsArchived,
		&entity.ResetTokenHash,
		&entity.ResetTokenExpiry,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if avatarURL != nil {
		entity.Avatar = &Avatar{URL: *avatarURL}
		if avatarKey != nil {
			entity.Avatar.Key = *avatarKey
		}
	}

	return entity, nil
}

// scanUserWithRole hydrates a User plus its joined role, which may be absent.
func scanUserWithRole(row pgx.Row) (*User, error) {
	entity := &User{}
	var avatarURL, avatarKey *string

	var roleID, roleTitle *string
	var rolePermissions []string
	var roleUserCount *int
	var roleActive *bool
	var roleCreatedAt, roleUpdatedAt *time.Time

	err := row.Scan(
		&entity.ID,
		&entity.Firstname,
		&entity.Lastname,
		&entity.Email,
		&entity.Phone,
		&entity.PasswordHash,
		&entity.RoleID,
		&avatarURL,
		&avatarKey,
		&entity.IsActive,
		&entity.IsArchived,
		&entity.ResetTokenHash,
		&entity.ResetTokenExpiry,
		&entity.CreatedAt,
		&entity.UpdatedAt,
		&roleID,
		&roleTitle,
		&rolePermissions,
		&roleUserCount,
		&roleActive,
		&roleCreatedAt,
		&roleUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if avatarURL != nil {
		entity.Avatar = &Avatar{URL: *avatarURL}
		if avatarKey != nil {
			entity.Avatar.Key = *avatarKey
		}
	}

	if roleID != nil {
		permissions := make([]rbac.Permission, len(rolePermissions))
		for i, p := range rolePermissions {
			permissions[i] = rbac.Permission(p)
		}
		entity.Role = &role.Role{
			ID:          *roleID,
			Title:       *roleTitle,
			Permissions: permissions,
			UserCount:   *roleUserCount,
			IsActive:    *roleActive,
			CreatedAt:   *roleCreatedAt,
			UpdatedAt:   *roleUpdatedAt,
		}
	}

	return entity, nil
}

/*
Create persists a new account record into the users.account table.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Unique-constraint conflicts or connectivity errors
*/
func (store *PostgresStore) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, firstname, lastname, email, phone, passwordhash,
			isactive, isarchived, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := store.pool.Exec(context, query,
		user.ID,
		user.Firstname,
		user.Lastname,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.IsActive,
		user.IsArchived,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_user_store_create_failed")
	}

	return nil
}

/*
FindByID retrieves an account by its unique ID, role not populated.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated user entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM users.account u WHERE u.id = $1", userColumns)

	entity, err := scanUser(store.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_store_find_by_id_failed: %w", err)
	}

	return entity, nil
}

/*
FindWithRole retrieves an account with its role populated via a LEFT JOIN.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated user entity, Role set when assigned
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindWithRole(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM users.account u
		LEFT JOIN rbac.role r ON r.id = u.roleid
		WHERE u.id = $1`, userColumns, joinedRoleColumns)

	entity, err := scanUserWithRole(store.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_store_find_with_role_failed: %w", err)
	}

	return entity, nil
}

/*
FindByEmail retrieves an account by email, role populated.

Description: Uniqueness probe and login lookup. Returns (nil, nil) when no
matching row exists.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated user entity or nil
  - error: Execution errors
*/
func (store *PostgresStore) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM users.account u
		LEFT JOIN rbac.role r ON r.id = u.roleid
		WHERE u.email = $1`, userColumns, joinedRoleColumns)

	entity, err := scanUserWithRole(store.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres_user_store_find_by_email_failed: %w", err)
	}

	return entity, nil
}

/*
FindByPhone retrieves an account by phone number, skipping excludeID.

Parameters:
  - context: context.Context
  - phone: string
  - excludeID: string ("" to search all rows)

Returns:
  - *User: Hydrated user entity or nil
  - error: Execution errors
*/
func (store *PostgresStore) FindByPhone(context context.Context, phone, excludeID string) (*User, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM users.account u WHERE u.phone = $1 AND u.id::text != $2", userColumns)

	entity, err := scanUser(store.pool.QueryRow(context, query, phone, excludeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres_user_store_find_by_phone_failed: %w", err)
	}

	return entity, nil
}

/*
List returns a page of users matching the filter, roles populated.

Parameters:
  - context: context.Context
  - options: ListOptions

Returns:
  - []User: Page of hydrated entities
  - int: Total number of matching users
  - error: Execution errors
*/
func (store *PostgresStore) List(context context.Context, options ListOptions) ([]User, int, error) {
	where, args := listFilter(options)

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM users.account u
		LEFT JOIN rbac.role r ON r.id = u.roleid
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		userColumns, joinedRoleColumns, where, userSortClause(options), len(args)+1, len(args)+2)

	offset := 0
	if options.Page > 1 {
		offset = (options.Page - 1) * options.Limit
	}

	rows, err := store.pool.Query(context, query, append(args, options.Limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_store_list_failed: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		entity, err := scanUserWithRole(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_user_store_list_scan_failed: %w", err)
		}
		users = append(users, *entity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_store_list_rows_failed: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users.account u %s", where)

	var total int
	if err := store.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_store_count_failed: %w", err)
	}

	return users, total, nil
}

// listFilter renders the WHERE clause and its arguments for List. Archived
// accounts are excluded unless explicitly requested.
func listFilter(options ListOptions) (string, []interface{}) {
	clauses := []string{"u.isarchived = $1"}
	args := []interface{}{options.Archived}

	switch options.Active {
	case FilterActiveYes:
		clauses = append(clauses, fmt.Sprintf("u.isactive = $%d", len(args)+1))
		args = append(args, true)
	case FilterActiveNo:
		clauses = append(clauses, fmt.Sprintf("u.isactive = $%d", len(args)+1))
		args = append(args, false)
	}

	if len(options.RoleIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("u.roleid::text = ANY($%d)", len(args)+1))
		args = append(args, options.RoleIDs)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// userSortClause maps validated sort options to a SQL ORDER BY expression.
func userSortClause(options ListOptions) string {
	direction := "DESC"
	if options.Order == "asc" {
		direction = "ASC"
	}

	switch options.SortBy {
	case SortByName:
		return fmt.Sprintf("u.firstname %s, u.lastname %s", direction, direction)
	case SortByCreatedAt:
		return "u.createdat " + direction
	default:
		return "u.createdat DESC"
	}
}

/*
UpdateProfile persists name, phone and credential changes.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Unique-constraint conflicts or execution errors
*/
func (store *PostgresStore) UpdateProfile(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET firstname = $2, lastname = $3, phone = $4, passwordhash = $5, updatedat = $6
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := store.pool.Exec(context, query,
		user.ID,
		user.Firstname,
		user.Lastname,
		user.Phone,
		user.PasswordHash,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_user_store_update_profile_failed")
	}

	return nil
}

/*
SetActive flips the activation flag on an account.
*/
func (store *PostgresStore) SetActive(context context.Context, id string, active bool) error {
	const query = "UPDATE users.account SET isactive = $2, updatedat = $3 WHERE id = $1"

	_, err := store.pool.Exec(context, query, id, active, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_store_set_active_failed: %w", err)
	}

	return nil
}

/*
SetArchived flips the archival flag on an account.
*/
func (store *PostgresStore) SetArchived(context context.Context, id string, archived bool) error {
	const query = "UPDATE users.account SET isarchived = $2, updatedat = $3 WHERE id = $1"

	_, err := store.pool.Exec(context, query, id, archived, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_store_set_archived_failed: %w", err)
	}

	return nil
}

/*
SetAvatar replaces the avatar reference on an account. Pass nil to clear it.
*/
func (store *PostgresStore) SetAvatar(context context.Context, id string, avatar *Avatar) error {
	const query = `
		UPDATE users.account
		SET avatarurl = $2, avatarkey = $3, updatedat = $4
		WHERE id = $1`

	var url, key *string
	if avatar != nil {
		url = &avatar.URL
		key = &avatar.Key
	}

	_, err := store.pool.Exec(context, query, id, url, key, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_store_set_avatar_failed: %w", err)
	}

	return nil
}

/*
AssignRole points the account at newRoleID and adjusts both role counters
atomically.

Description: Runs inside one transaction: update the reference, increment the
new role's user count and, for a reassignment, decrement the previous role's
count. A crash can never leave the counts out of step with the references.

Parameters:
  - context: context.Context
  - userID: string
  - newRoleID: string
  - oldRoleID: *string (nil on first assignment)

Returns:
  - error: Transaction failures
*/
func (store *PostgresStore) AssignRole(context context.Context, userID, newRoleID string, oldRoleID *string) error {
	tx, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_store_assign_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	if _, err := tx.Exec(context,
		"UPDATE users.account SET roleid = $2, updatedat = NOW() WHERE id = $1",
		userID, newRoleID); err != nil {
		return fmt.Errorf("postgres_user_store_assign_reference_failed: %w", err)
	}

	if _, err := tx.Exec(context,
		"UPDATE rbac.role SET usercount = usercount + 1, updatedat = NOW() WHERE id = $1",
		newRoleID); err != nil {
		return fmt.Errorf("postgres_user_store_assign_increment_failed: %w", err)
	}

	if oldRoleID != nil {
		if _, err := tx.Exec(context,
			"UPDATE rbac.role SET usercount = usercount - 1, updatedat = NOW() WHERE id = $1",
			*oldRoleID); err != nil {
			return fmt.Errorf("postgres_user_store_assign_decrement_failed: %w", err)
		}
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres_user_store_assign_commit_failed: %w", err)
	}

	return nil
}

/*
UnassignRole clears the account's role reference and decrements the role's
user count atomically.

Parameters:
  - context: context.Context
  - userID: string
  - roleID: string

Returns:
  - error: Transaction failures
*/
func (store *PostgresStore) UnassignRole(context context.Context, userID, roleID string) error {
	tx, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_store_unassign_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	if _, err := tx.Exec(context,
		"UPDATE users.account SET roleid = NULL, updatedat = NOW() WHERE id = $1",
		userID); err != nil {
		return fmt.Errorf("postgres_user_store_unassign_reference_failed: %w", err)
	}

	if _, err := tx.Exec(context,
		"UPDATE rbac.role SET usercount = usercount - 1, updatedat = NOW() WHERE id = $1",
		roleID); err != nil {
		return fmt.Errorf("postgres_user_store_unassign_decrement_failed: %w", err)
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres_user_store_unassign_commit_failed: %w", err)
	}

	return nil
}

/*
Delete removes an account and, when a role was assigned, decrements that
role's user count in the same transaction.

Parameters:
  - context: context.Context
  - id: string
  - roleID: *string

Returns:
  - error: Transaction failures
*/
func (store *PostgresStore) Delete(context context.Context, id string, roleID *string) error {
	tx, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_store_delete_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	if _, err := tx.Exec(context, "DELETE FROM users.account WHERE id = $1", id); err != nil {
		return fmt.Errorf("postgres_user_store_delete_failed: %w", err)
	}

	if roleID != nil {
		if _, err := tx.Exec(context,
			"UPDATE rbac.role SET usercount = usercount - 1, updatedat = NOW() WHERE id = $1",
			*roleID); err != nil {
			return fmt.Errorf("postgres_user_store_delete_decrement_failed: %w", err)
		}
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres_user_store_delete_commit_failed: %w", err)
	}

	return nil
}

/*
SetResetToken stores a pending credential-reset digest and expiry.
*/
func (store *PostgresStore) SetResetToken(context context.Context, userID, digest string, expiry time.Time) error {
	const query = `
		UPDATE users.account
		SET resettokenhash = $2, resettokenexpiry = $3, updatedat = NOW()
		WHERE id = $1`

	_, err := store.pool.Exec(context, query, userID, digest, expiry)
	if err != nil {
		return fmt.Errorf("postgres_user_store_set_reset_token_failed: %w", err)
	}

	return nil
}

/*
ClearResetToken removes any pending credential-reset state.
*/
func (store *PostgresStore) ClearResetToken(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET resettokenhash = NULL, resettokenexpiry = NULL, updatedat = NOW()
		WHERE id = $1`

	_, err := store.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_user_store_clear_reset_token_failed: %w", err)
	}

	return nil
}

/*
FindByResetTokenDigest retrieves the account holding an unexpired reset token
with the given digest.

Description: Expiry is evaluated lazily in the query itself; there is no
background sweep of stale tokens.

Parameters:
  - context: context.Context
  - digest: string

Returns:
  - *User: Hydrated user entity or nil
  - error: Execution errors
*/
func (store *PostgresStore) FindByResetTokenDigest(context context.Context, digest string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users.account u
		WHERE u.resettokenhash = $1 AND u.resettokenexpiry > NOW()`, userColumns)

	entity, err := scanUser(store.pool.QueryRow(context, query, digest))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres_user_store_find_by_reset_token_failed: %w", err)
	}

	return entity, nil
}

/*
ResetPassword stores the new credential hash and clears the reset fields in
one statement.
*/
func (store *PostgresStore) ResetPassword(context context.Context, userID, passwordHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, resettokenhash = NULL, resettokenexpiry = NULL, updatedat = NOW()
		WHERE id = $1`

	_, err := store.pool.Exec(context, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("postgres_user_store_reset_password_failed: %w", err)
	}

	return nil
}
