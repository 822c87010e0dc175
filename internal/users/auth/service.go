// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

/*
Package auth implements the core identity and access management (IAM) system.

It handles bootstrap of the first admin account, staff enrollment, credential
verification, and the live identity resolution that backs every authenticated
request.

Architecture:

  - Service: Orchestrates business logic (Setup, Register, Login).
  - Repository: Abstracted interface for Postgres (Users).
  - Security: Leverages Bcrypt hashing and HMAC-signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thanhphv/secnews/internal/platform/apperr"
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - email: The email of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, email string, role sec.UserRole, timeToLive time.Duration) (string, error)
}

// Service implements staff authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, enrollment,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	tokenTTL       time.Duration
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider, tokenTTL time.Duration) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		tokenTTL:       tokenTTL,
	}
}

// # System Bootstrap

// SetupInput holds the data required to create the initial admin account.
type SetupInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// SetupResult carries the bootstrap admin and their ready-to-use token.
type SetupResult struct {
	Token string
	User  *User
}

/*
Setup creates the very first admin account.

Description: One-time bootstrap. Refused outright once ANY account exists,
regardless of role or status, so a compromised deployment cannot mint a
second super-user through this path.

Parameters:
  - context: context.Context
  - input: SetupInput

Returns:
  - *SetupResult: Created admin plus a login token
  - error: InvalidAction if setup already ran, or storage errors
*/
func (service *Service) Setup(context context.Context, input SetupInput) (*SetupResult, error) {

	// Refuse if the system already has accounts.
	userCount, err := service.userRepository.CountUsers(context)
	if err != nil {
		return nil, fmt.Errorf("auth_service_setup_count_failed: %w", err)
	}
	if userCount > 0 {
		return nil, apperr.InvalidAction("System setup is already complete")
	}

	user, err := service.createUser(context, input.Username, input.Email, input.Password, input.FullName, sec.RoleAdmin)
	if err != nil {
		return nil, err
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, user.Email, user.Role, service.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_setup_token_failed: %w", err)
	}

	return &SetupResult{Token: token, User: user}, nil
}

// # Staff Enrollment

// RegisterInput holds the data required to enroll a new staff member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     sec.UserRole
}

/*
Register validates, hashes, and persists a new staff account.

Description: Only reachable by callers holding manage_users (enforced in the
routing layer). Role defaults to author; admin-created accounts are
auto-verified since the admin vouches for the email.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Duplicate (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	role := input.Role
	if role == "" {
		role = sec.RoleAuthor
	}
	if !role.Valid() {
		return nil, apperr.ValidationError("Invalid role", apperr.FieldError{
			Field:   FieldRole,
			Message: "Must be one of: admin, editor, author",
		})
	}

	return service.createUser(context, input.Username, input.Email, input.Password, input.FullName, role)
}

// createUser is the shared persistence path for Setup and Register.
func (service *Service) createUser(context context.Context, username, email, password, fullName string, role sec.UserRole) (*User, error) {

	// Emails are stored lowercase so the unique index catches case-variant
	// duplicates; lookups lowercase both sides to match.
	email = strings.ToLower(strings.TrimSpace(email))

	// Pre-check identity uniqueness for a friendly field-level error. The
	// unique indexes remain the real guarantee under concurrency.
	if existing, err := service.userRepository.FindByIdentifier(context, email); err == nil && existing != nil {
		return nil, apperr.Duplicate(FieldEmail, "Email is already registered")
	}
	if existing, err := service.userRepository.FindByIdentifier(context, username); err == nil && existing != nil {
		return nil, apperr.Duplicate(FieldUsername, "Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during enrollment spikes.
	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:            uuidv7.New(),
		Username:      username,
		Email:         email,
		PasswordHash:  hashedPassword,
		FullName:      fullName,
		Role:          role,
		Permissions:   sec.CanonicalPermissions(role),
		Status:        StatusActive,
		EmailVerified: true,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // Can be Username or Email
	Password   string
}

// LoginResult represents a successfully authenticated staff session.
type LoginResult struct {
	Token string
	User  *User
}

/*
Login validates staff credentials and issues a signed access token.

Description: Verifies identity, performs constant-time password comparison,
and stamps the login activity counters.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Transport-ready token and profile
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {

	// Flexible login: look up by Email or Username.
	// Generic message on miss to prevent account enumeration.
	user, err := service.userRepository.FindByIdentifier(context, input.Identifier)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid email/username or password")
	}

	// Deactivated accounts cannot authenticate, even with correct credentials.
	if user.Status != StatusActive {
		return nil, apperr.Unauthorized("Account is inactive or suspended")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email/username or password")
	}

	// Stamp activity counters. Best-effort: login proceeds even if stats lag.
	if err := service.userRepository.StampLogin(context, user.ID); err == nil {
		now := time.Now()
		user.LastLogin = &now
		user.LoginCount++
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, user.Email, user.Role, service.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

// # Profile Management

/*
Me returns the full profile of the authenticated user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated profile
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// UpdateProfileInput holds the mutable self-service profile fields.
//
// Avatar is a pointer so callers can distinguish "leave unchanged" (nil)
// from "clear the avatar" (pointer to empty string).
type UpdateProfileInput struct {
	FullName string
	Avatar   *string
}

/*
UpdateProfile applies self-service profile changes for the calling user.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *User: Updated profile
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	if err := service.userRepository.UpdateProfile(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
ChangePassword allows an authenticated user to rotate their credentials.

Description: Verifies the current password before applying a new hash. A wrong
current password is a client mistake (400), not an authentication failure.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: InvalidAction or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.InvalidAction("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// # Identity Resolution

/*
ResolveIdentity re-validates token claims against the live account store.

Description: Backs the authentication middleware. Returns the caller's
CURRENT role and permissions; a missing or non-active account invalidates
the token immediately, however long it has left to live.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *sec.Identity: Live identity snapshot
  - error: Unauthorized when the account is gone or deactivated
*/
func (service *Service) ResolveIdentity(context context.Context, userID string) (*sec.Identity, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Unauthorized("Account not found")
	}

	if user.Status != StatusActive {
		return nil, apperr.Unauthorized("Account is no longer active")
	}

	return user.Identity(), nil
}

// # Bootstrap Introspection

// AdminPresence reports whether the system has at least one active admin.
type AdminPresence struct {
	HasAdmin   bool `json:"hasAdmin"`
	AdminCount int  `json:"adminCount"`
}

/*
CheckAdmin reports whether an active admin account exists.

Description: Lets installer UIs decide between the setup screen and the
login screen without authentication.

Parameters:
  - context: context.Context

Returns:
  - *AdminPresence: Admin existence and count
  - error: Retrieval failures
*/
func (service *Service) CheckAdmin(context context.Context) (*AdminPresence, error) {
	count, err := service.userRepository.CountActiveAdmins(context)
	if err != nil {
		return nil, fmt.Errorf("auth_service_check_admin_failed: %w", err)
	}

	return &AdminPresence{HasAdmin: count > 0, AdminCount: count}, nil
}
