// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thanhphv/secnews/internal/platform/apperr"
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/internal/users/auth"
	"github.com/thanhphv/secnews/pkg/uuidv7"
)

// # Directory Repository

// directoryColumns is the roster projection for the users.account table. The
// password hash is excluded; administration never touches credentials.
const directoryColumns = `
	id, username, email, fullname, avatar, role, permissions,
	status, emailverified, lastlogin, logincount, createdat, updatedat`

// PostgresDirectoryRepository implements DirectoryRepository using pgx.
type PostgresDirectoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository creates a new PostgreSQL implementation of the
// DirectoryRepository.
func NewDirectoryRepository(pool *pgxpool.Pool) *PostgresDirectoryRepository {
	return &PostgresDirectoryRepository{pool: pool}
}

/*
List returns a page of staff accounts matching the filter, newest first.

Description: Builds a dynamic conjunctive WHERE clause and fetches the total
match count in the same round trip via a COUNT(*) window function; an empty
page past the end of the result set falls back to a plain count so the total
stays truthful. Search matches username, email, and full name
case-insensitively.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*auth.User: Page of accounts
  - int: Total match count
  - error: Execution errors
*/
func (repository *PostgresDirectoryRepository) List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	// The WHERE clause is assembled on its own so the out-of-range count
	// fallback can reuse it verbatim.
	var builder strings.Builder
	args := make([]any, 0, 6)
	argID := 1

	builder.WriteString("WHERE TRUE")

	if filter.Role != "" {
		builder.WriteString(fmt.Sprintf(" AND role = $%d", argID))
		args = append(args, filter.Role)
		argID++
	}
	if filter.Status != "" {
		builder.WriteString(fmt.Sprintf(" AND status = $%d", argID))
		args = append(args, filter.Status)
		argID++
	}
	if filter.Search != "" {
		builder.WriteString(fmt.Sprintf(
			" AND (username ILIKE $%d OR email ILIKE $%d OR fullname ILIKE $%d)",
			argID, argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	whereClause := builder.String()
	whereArgs := args

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM users.account %s ORDER BY createdat DESC LIMIT $%d OFFSET $%d`,
		directoryColumns, whereClause, argID, argID+1)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_directory_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*auth.User, 0, limit)
	total := 0

	for rows.Next() {
		user := &auth.User{}
		var permissions []string

		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
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
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_directory_repo_scan_failed: %w", err)
		}

		user.Permissions = toPermissions(permissions)
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_directory_repo_rows_failed: %w", err)
	}

	// The window count only rides along with rows; count separately when an
	// out-of-range page comes back empty.
	if len(users) == 0 && offset > 0 {
		countQuery := "SELECT COUNT(*) FROM users.account " + whereClause
		if err := repository.pool.QueryRow(context, countQuery, whereArgs...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("postgres_directory_repo_count_failed: %w", err)
		}
	}

	return users, total, nil
}

/*
FindByID retrieves a staff account by its unique ID.

Description: Primary key resolution without the password hash. A syntactically
invalid ID is reported as NotFound rather than a database error.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresDirectoryRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	if !uuidv7.IsValid(id) {
		return nil, apperr.NotFound("User")
	}

	query := `SELECT ` + directoryColumns + ` FROM users.account WHERE id = $1`

	user := &auth.User{}
	var permissions []string

	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
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
		return nil, fmt.Errorf("postgres_directory_repo_find_failed: %w", err)
	}

	user.Permissions = toPermissions(permissions)
	return user, nil
}

/*
UpdateAdminFields persists role, permissions, status, and full name.

Description: Role and permissions move in the same statement so a demotion can
never leave stale grants behind.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresDirectoryRepository) UpdateAdminFields(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET role = $2, permissions = $3, status = $4, fullname = $5, updatedat = $6
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Role,
		permissionStrings(user.Permissions),
		user.Status,
		user.FullName,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_directory_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Delete removes a staff account permanently.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresDirectoryRepository) Delete(context context.Context, id string) error {
	if !uuidv7.IsValid(id) {
		return apperr.NotFound("User")
	}

	tag, err := repository.pool.Exec(context, "DELETE FROM users.account WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_directory_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
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
