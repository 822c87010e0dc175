// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

/*
Package auth provides the HTTP delivery layer for staff identity management.

It implements the gateway for the authentication lifecycle: one-time system
setup, staff enrollment, login, and self-service profile operations.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Bearer-token authentication with live identity resolution.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thanhphv/secnews/internal/platform/middleware"
	requestutil "github.com/thanhphv/secnews/internal/platform/request"
	"github.com/thanhphv/secnews/internal/platform/respond"
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the staff lifecycle entry points (Setup, Login,
// Enrollment) plus the authenticated self-service endpoints.
type Handler struct {
	authService     *Service
	requireIdentity func(http.Handler) http.Handler
}

// NewHandler constructs a new [Handler] with its service dependency and the
// composed authentication middleware.
func NewHandler(service *Service, requireIdentity func(http.Handler) http.Handler) *Handler {
	return &Handler{
		authService:     service,
		requireIdentity: requireIdentity,
	}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /setup        : Creates the initial admin (public, one-time).
//   - GET  /check-admin  : Reports whether an admin exists (public).
//   - POST /login        : Authenticates and returns a JWT (public).
//   - POST /register     : Enrolls a staff member (manage_users).
//   - GET  /me, /verify  : Current-user introspection (authenticated).
//   - PUT  /profile, /change-password : Self-service updates (authenticated).
//   - POST /logout       : Stateless logout acknowledgement (authenticated).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/setup", handler.setup)
	router.Get("/check-admin", handler.checkAdmin)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(handler.requireIdentity)

		r.With(middleware.RequirePermission(sec.PermManageUsers)).
			Post("/register", handler.register)

		r.Get("/me", handler.me)
		r.Get("/verify", handler.verify)
		r.Put("/profile", handler.updateProfile)
		r.Put("/change-password", handler.changePassword)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type setupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type updateProfileRequest struct {
	FullName string  `json:"fullName"`
	Avatar   *string `json:"avatar"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

/*
Setup bootstraps the first admin account.

POST /api/v1/auth/setup

Description: One-time installer endpoint. Creates the initial admin and
returns a ready-to-use token so the installer can proceed without a separate
login round-trip.

Request:
  - Body: setupRequest (Username, Email, Password, FullName)

Response:
  - 201: Token and created admin profile
  - 400: Setup already complete, duplicate identity, or validation failure
*/
func (handler *Handler) setup(writer http.ResponseWriter, request *http.Request) {
	var input setupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		MaxLen(FieldUsername, input.Username, 30).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 6).
		Required(FieldFullName, input.FullName).
		MaxLen(FieldFullName, input.FullName, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Setup(request.Context(), SetupInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		FieldToken: result.Token,
		FieldUser:  result.User,
	})
}

/*
Register enrolls a new staff member.

POST /api/v1/auth/register

Description: Restricted to callers holding manage_users. Role defaults to
author when omitted.

Request:
  - Body: registerRequest (Username, Email, Password, FullName, Role)

Response:
  - 201: Created staff profile
  - 400: Duplicate identity or validation failure
  - 403: Caller lacks manage_users
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		MaxLen(FieldUsername, input.Username, 30).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 6).
		Required(FieldFullName, input.FullName).
		MaxLen(FieldFullName, input.FullName, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Role:     sec.UserRole(input.Role),
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a staff member.

POST /api/v1/auth/login

Description: Accepts email or username as the identifier, verifies the
credentials, stamps login activity, and returns a signed token.

Request:
  - Body: loginRequest (Identifier, Password)

Response:
  - 200: Token and user profile
  - 401: Invalid credentials or deactivated account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldIdentifier, input.Identifier)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Identifier: input.Identifier,
		Password:   input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldToken: result.Token,
		FieldUser:  result.User,
	})
}

/*
Me returns the authenticated user's full profile.

GET /api/v1/auth/me

Response:
  - 200: User profile
  - 401: Not authenticated
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Verify confirms the caller's token is still valid.

GET /api/v1/auth/verify

Description: A request only reaches this handler if the middleware already
verified the token AND resolved a live, active account — so answering is
enough. Returns the fresh profile for client-side cache refresh.

Response:
  - 200: User profile
  - 401: Token invalid, expired, or account deactivated
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	handler.me(writer, request)
}

/*
UpdateProfile applies self-service profile changes.

PUT /api/v1/auth/profile

Request:
  - Body: updateProfileRequest (FullName, Avatar)

Response:
  - 200: Updated profile
  - 400: Validation failure
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.MaxLen(FieldFullName, input.FullName, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		FullName: input.FullName,
		Avatar:   input.Avatar,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ChangePassword rotates the authenticated user's password.

PUT /api/v1/auth/change-password

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success message
  - 400: Wrong current password or weak new password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 6)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), userID, input.CurrentPassword, input.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

/*
Logout acknowledges a client-side logout.

POST /api/v1/auth/logout

Description: Tokens are stateless, so logout is a client-side discard. The
endpoint exists so clients have a uniform lifecycle API.

Response:
  - 200: Success message
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		FieldMessage: "Logged out successfully",
	})
}

/*
CheckAdmin reports whether an active admin account exists.

GET /api/v1/auth/check-admin

Response:
  - 200: AdminPresence (hasAdmin, adminCount)
*/
func (handler *Handler) checkAdmin(writer http.ResponseWriter, request *http.Request) {
	presence, err := handler.authService.CheckAdmin(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, presence)
}
