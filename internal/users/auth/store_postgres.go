// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thanhphv/secnews/internal/platform/apperr"
	"github.com/thanhphv/secnews/internal/platform/dberr"
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/pkg/uuidv7"
)

// # User Repository

// userColumns is the canonical projection for the users.account table.
const userColumns = `
	id, username, email, passwordhash, fullname, avatar, role, permissions,
	status, emailverified, lastlogin, logincount, createdat, updatedat`

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new staff account into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided. Unique violations on email/username surface as
[apperr.Duplicate] with the offending field named.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Duplicate-field violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, fullname, avatar, role, permissions,
			status, emailverified, logincount, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Avatar,
		user.Role,
		permissionStrings(user.Permissions),
		user.Status,
		user.EmailVerified,
		user.LoginCount,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_create")
	}

	return nil
}

/*
FindByID retrieves a staff account by its unique ID.

Description: Primary key resolution. A syntactically invalid ID is reported as
NotFound rather than a database error, so probing with garbage IDs looks
identical to probing with unknown ones.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	if !uuidv7.IsValid(id) {
		return nil, apperr.NotFound("User")
	}

	query := `SELECT ` + userColumns + ` FROM users.account WHERE id = $1`
	return repository.scanUser(repository.pool.QueryRow(context, query, id))
}

/*
FindByIdentifier retrieves a staff account by email or username.

Description: Flexible login lookup. Email matching is case-insensitive to
mirror the lowercase normalization applied at registration.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByIdentifier(context context.Context, identifier string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE LOWER(email) = LOWER($1) OR username = $1`
	return repository.scanUser(repository.pool.QueryRow(context, query, identifier))
}

/*
UpdateProfile persists changes to the account's mutable profile fields.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET fullname = $2, avatar = $3, updatedat = $4
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.FullName,
		user.Avatar,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_profile_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
StampLogin records a successful authentication in a single statement.

Description: lastlogin and logincount move together atomically so concurrent
logins never lose an increment.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) StampLogin(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET lastlogin = NOW(), logincount = logincount + 1
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_stamp_login_failed: %w", err)
	}

	return nil
}

/*
CountUsers returns the total number of staff accounts.

Parameters:
  - context: context.Context

Returns:
  - int: Account count
  - error: Execution errors
*/
func (repository *PostgresUserRepository) CountUsers(context context.Context) (int, error) {
	var count int
	err := repository.pool.QueryRow(context, "SELECT COUNT(*) FROM users.account").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}
	return count, nil
}

/*
CountActiveAdmins returns the number of active admin accounts.

Parameters:
  - context: context.Context

Returns:
  - int: Active admin count
  - error: Execution errors
*/
func (repository *PostgresUserRepository) CountActiveAdmins(context context.Context) (int, error) {
	const query = "SELECT COUNT(*) FROM users.account WHERE role = 'admin' AND status = 'active'"

	var count int
	err := repository.pool.QueryRow(context, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres_user_repo_count_admins_failed: %w", err)
	}
	return count, nil
}

// scanUser hydrates a User from a single-row query.
func (repository *PostgresUserRepository) scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var permissions []string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Avatar,
		&user.Role,
		&permissions,
		&user.Status,
		&user.EmailVerified,
		&user.LastLogin,
		&user.LoginCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_scan_failed: %w", err)
	}

	user.Permissions = toPermissions(permissions)
	return user, nil
}

// permissionStrings converts the typed permission slice for text[] binding.
func permissionStrings(permissions []sec.Permission) []string {
	out := make([]string, len(permissions))
	for i, permission := range permissions {
		out[i] = string(permission)
	}
	return out
}

// toPermissions converts a scanned text[] back into typed permissions.
func toPermissions(values []string) []sec.Permission {
	out := make([]sec.Permission, len(values))
	for i, value := range values {
		out[i] = sec.Permission(value)
	}
	return out
}
