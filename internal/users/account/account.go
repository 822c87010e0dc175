// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

/*
Package account implements staff-directory administration.

It exposes the manage_users surface: listing the staff roster with filters,
changing a member's role, status, or display name, and removing accounts
that have no editorial history.

# Architecture

The package operates on the [auth.User] entity and shares its table; it
deliberately has no entity of its own. Role changes rematerialize the
permission set through [sec.CanonicalPermissions], so a demoted editor loses
publish rights the moment the row is written.
*/
package account

import (
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/internal/users/auth"
)

// # Query Model

// Filter narrows the staff-roster listing. All conditions are conjunctive.
type Filter struct {
	Role   sec.UserRole
	Status auth.UserStatus

	// Search matches username, email, or full name, case-insensitive.
	Search string
}

// UpdateInput carries the administrative changes for a staff member. Nil
// pointers mean "leave unchanged".
type UpdateInput struct {
	Role     *sec.UserRole
	Status   *auth.UserStatus
	FullName *string
}
