// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package account

import (
	"context"

	"github.com/thanhphv/secnews/internal/users/auth"
)

// # Repository Contracts

// DirectoryRepository is the persistence contract for staff administration.
// It shares the users.account table with the auth domain but exposes the
// roster-level operations that self-service never needs.
type DirectoryRepository interface {
	/*
		List returns a page of staff accounts matching the filter, newest first.

		Parameters:
		  - context: context.Context
		  - filter: Filter (conjunctive role/status/search conditions)
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.User: Page of accounts
		  - int: Total match count across all pages
		  - error: Execution errors
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error)

	/*
		FindByID retrieves a staff account by its unique ID.

		Returns:
		  - *auth.User: Hydrated account entity
		  - error: apperr.NotFound or execution errors
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		UpdateAdminFields persists the administratively mutable fields: role,
		permissions, status, and full name.

		Returns:
		  - error: apperr.NotFound or execution errors
	*/
	UpdateAdminFields(context context.Context, user *auth.User) error

	/*
		Delete removes a staff account permanently.

		Returns:
		  - error: apperr.NotFound or execution errors
	*/
	Delete(context context.Context, id string) error
}

// ArticleCounter reports how many articles a staff member has authored. The
// news domain satisfies it; deletion is refused while the count is non-zero.
type ArticleCounter interface {
	CountByAuthorEmail(context context.Context, email string) (int, error)
}
