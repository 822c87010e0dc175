// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

/*
Package auth implements the staff identity and access management layer.

It defines the core domain entity (User) and the logic for authentication,
credential management, and live identity resolution.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to staff identity.
*/
package auth

import (
	"time"

	"github.com/thanhphv/secnews/internal/platform/sec"
)

// # Domain Entities

// UserStatus is the lifecycle state of a staff account.
type UserStatus string

// Account lifecycle states. Only active users can authenticate.
const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusSuspended UserStatus = "suspended"
)

// Valid reports whether the status is a known account state.
func (status UserStatus) Valid() bool {
	switch status {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// User represents a staff member of the SecNews editorial platform.
//
// Permissions are materialized from the role at write time (see
// [sec.CanonicalPermissions]) so that authorization reads never need to
// recompute them.
type User struct {
	ID            string           `json:"id"`
	Username      string           `json:"username"`
	Email         string           `json:"email"`
	PasswordHash  string           `json:"-"` // Explicitly omitted from JSON for security.
	FullName      string           `json:"fullName"`
	Avatar        string           `json:"avatar,omitempty"`
	Role          sec.UserRole     `json:"role"`
	Permissions   []sec.Permission `json:"permissions"`
	Status        UserStatus       `json:"status"`
	EmailVerified bool             `json:"emailVerified"`
	LastLogin     *time.Time       `json:"lastLogin,omitempty"`
	LoginCount    int              `json:"loginCount"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// DisplayName returns the full name, falling back to the username.
func (user *User) DisplayName() string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}

// Identity converts the stored user into a [sec.Identity] for the
// access-control evaluator.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: user.Permissions,
		DisplayName: user.DisplayName(),
		Avatar:      user.Avatar,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFullName        = "fullName"
	FieldAvatar          = "avatar"
	FieldRole            = "role"
	FieldIdentifier      = "identifier"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
	FieldToken           = "token"
	FieldUser            = "user"
	FieldMessage         = "message"
	FieldHasAdmin        = "hasAdmin"
	FieldAdminCount      = "adminCount"
)
