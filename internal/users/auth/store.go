// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for staff accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByIdentifier returns the account whose email OR username matches
		the identifier. Email comparison is case-insensitive.

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByIdentifier(context context.Context, identifier string) (*User, error)

	/*
		Create persists a brand-new staff account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Duplicate on identity collisions, persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateProfile persists changes to mutable profile fields
		(full name, avatar).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	UpdateProfile(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		StampLogin atomically records a successful login: sets lastlogin to
		now and increments logincount.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	StampLogin(context context.Context, userID string) error

	/*
		CountUsers returns the total number of accounts (any status).

		Parameters:
		  - context: context.Context

		Returns:
		  - int: Account count
		  - error: Database retrieval failures
	*/
	CountUsers(context context.Context) (int, error)

	/*
		CountActiveAdmins returns the number of active admin accounts.

		Parameters:
		  - context: context.Context

		Returns:
		  - int: Active admin count
		  - error: Database retrieval failures
	*/
	CountActiveAdmins(context context.Context) (int, error)
}
