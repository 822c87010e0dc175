// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

/*
Package sec implements the access-control evaluator and the security
primitives (token signing, password hashing) it depends on.

# Architecture

The evaluator is deliberately free of persistence dependencies: it operates
on an [Identity] that the middleware has already resolved against the live
user store. Ownership of a resource cannot be checked until the resource is
loaded, so mutation authorization is two-phase — [AuthorizeMutation] returns
a [Grant] that records whether the caller must additionally pass an
ownership comparison once the target document is in hand.
*/
package sec

import (
	"github.com/thanhphv/secnews/internal/platform/apperr"
)

// # Caller Identity

// Identity is the resolved, store-validated identity of a request's caller.
//
// A nil *Identity means the caller is anonymous. A non-nil Identity is only
// ever constructed for an `active` user whose record was found in the store
// during the current request; token claims alone are never trusted.
type Identity struct {
	UserID      string
	Username    string
	Email       string
	Role        UserRole
	Permissions []Permission

	// DisplayName and Avatar ride along so domains can snapshot the author
	// without a second store round-trip.
	DisplayName string
	Avatar      string
}

// IsAdmin reports whether the identity carries the admin role.
func (identity *Identity) IsAdmin() bool {
	return identity != nil && identity.Role == RoleAdmin
}

// IsStaff reports whether the identity may see unpublished content
// (admin or editor).
func (identity *Identity) IsStaff() bool {
	return identity != nil && (identity.Role == RoleAdmin || identity.Role == RoleEditor)
}

// HasPermission reports whether the identity holds the named permission.
//
// # Admin Bypass
//
// Admin implicitly satisfies every permission check. This is a deliberate
// design decision — admin is authorization-complete — not a fallback.
func (identity *Identity) HasPermission(permission Permission) bool {
	if identity == nil {
		return false
	}
	if identity.Role == RoleAdmin {
		return true
	}
	for _, held := range identity.Permissions {
		if held == permission {
			return true
		}
	}
	return false
}

// # Capability Evaluation

// Grant is the outcome of a successful mutation authorization.
//
// RequiresOwnership marks the request as "pending ownership verification":
// the mutation handler must call [Grant.VerifyOwnership] after loading the
// target document. Admins receive an unconditional grant.
type Grant struct {
	RequiresOwnership bool
}

// RequireIdentity rejects anonymous callers with a 401.
func RequireIdentity(identity *Identity) error {
	if identity == nil {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}

// AuthorizeRole checks that the caller's role is in the allowed set.
//
// Anonymous callers are rejected 401; identified callers outside the set
// are rejected 403.
func AuthorizeRole(identity *Identity, allowed ...UserRole) error {
	if identity == nil {
		return apperr.Unauthorized("Authentication required")
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return apperr.Forbidden("Insufficient role for this operation")
}

// AuthorizePermission checks that the caller holds the named permission
// (or is admin).
func AuthorizePermission(identity *Identity, permission Permission) error {
	if identity == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !identity.HasPermission(permission) {
		return apperr.Forbidden("Missing permission: " + string(permission))
	}
	return nil
}

// AuthorizeMutation evaluates a mutation capability and returns a [Grant].
//
// # Two-Phase Ownership
//
// The coarse permission check happens here, before the target is fetched, so
// callers who fail it learn nothing about the document's existence or owner.
// Non-admin callers receive a grant with RequiresOwnership set; the finer
// comparison runs after the fetch via [Grant.VerifyOwnership].
func AuthorizeMutation(identity *Identity, permission Permission) (Grant, error) {
	if err := AuthorizePermission(identity, permission); err != nil {
		return Grant{}, err
	}
	return Grant{RequiresOwnership: !identity.IsAdmin()}, nil
}

// VerifyOwnership completes the second phase of a mutation authorization.
//
// ownerEmail is the denormalized author email on the loaded document. The
// check is a no-op for grants issued to admins.
func (grant Grant) VerifyOwnership(identity *Identity, ownerEmail string) error {
	if !grant.RequiresOwnership {
		return nil
	}
	if identity == nil || identity.Email != ownerEmail {
		return apperr.Forbidden("You can only modify your own articles")
	}
	return nil
}

// # Self-Modification Guard

// GuardSelfTarget rejects admin user-management requests that target the
// caller's own account.
//
// This is an anti-lockout rule, not a permission rule, and it fires before
// any role check would otherwise grant access — hence 400 rather than 403.
func GuardSelfTarget(identity *Identity, targetUserID string) error {
	if identity != nil && identity.UserID == targetUserID {
		return apperr.InvalidAction("You cannot modify your own account through this endpoint")
	}
	return nil
}
