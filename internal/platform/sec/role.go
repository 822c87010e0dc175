// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to a staff account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can manage and publish any newsroom content
	RoleEditor UserRole = "editor"

	// Default role: can write and edit their own articles
	RoleAuthor UserRole = "author"
)

// Valid reports whether r is one of the recognized roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleAuthor:
		return true
	}
	return false
}

// # Permissions

// Permission is a named right checked independently of role identity at the
// point of use.
type Permission string

const (
	PermCreateNews    Permission = "create_news"
	PermEditNews      Permission = "edit_news"
	PermDeleteNews    Permission = "delete_news"
	PermPublishNews   Permission = "publish_news"
	PermManageUsers   Permission = "manage_users"
	PermViewAnalytics Permission = "view_analytics"
)

// AllPermissions lists every recognized permission, in canonical order.
var AllPermissions = []Permission{
	PermCreateNews,
	PermEditNews,
	PermDeleteNews,
	PermPublishNews,
	PermManageUsers,
	PermViewAnalytics,
}

// CanonicalPermissions returns the exact permission set for a role.
//
// # Invariant
//
// A user's stored permission set is always recomputed from this function
// whenever their role changes. Permissions are derived data, never
// independently settable, so role and permissions can never drift apart.
func CanonicalPermissions(role UserRole) []Permission {
	switch role {
	case RoleAdmin:
		return []Permission{
			PermCreateNews, PermEditNews, PermDeleteNews,
			PermPublishNews, PermManageUsers, PermViewAnalytics,
		}
	case RoleEditor:
		return []Permission{
			PermCreateNews, PermEditNews, PermDeleteNews,
			PermPublishNews, PermViewAnalytics,
		}
	case RoleAuthor:
		return []Permission{PermCreateNews, PermEditNews}
	default:
		return nil
	}
}
