// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thanhphv/secnews/internal/platform/middleware"
	requestutil "github.com/thanhphv/secnews/internal/platform/request"
	"github.com/thanhphv/secnews/internal/platform/respond"
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/internal/platform/validate"
	"github.com/thanhphv/secnews/internal/users/auth"
	"github.com/thanhphv/secnews/pkg/pagination"
)

// # Field Identifiers

// Global field names for validation and response mapping in the directory.
const (
	FieldUsers  = "users"
	FieldSearch = "search"
	FieldStatus = "status"
)

// # Definitions & Constructors

// Handler implements the staff-administration endpoints. The caller is
// expected to mount it behind an identity-requiring middleware.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a directory [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the directory endpoints.
//
// # Endpoints
//   - GET    /      : Staff roster (manage_users).
//   - PUT    /{id}  : Role/status/name change (manage_users).
//   - DELETE /{id}  : Account removal (admin role).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequirePermission(sec.PermManageUsers)).
		Get("/", handler.list)
	router.With(middleware.RequirePermission(sec.PermManageUsers)).
		Put("/{id}", handler.update)
	router.With(middleware.RequireRole(sec.RoleAdmin)).
		Delete("/{id}", handler.remove)

	return router
}

// # Endpoints

// rosterResponse is the data envelope for the staff roster listing.
type rosterResponse struct {
	Users []*auth.User `json:"users"`
}

/*
List returns a filtered page of the staff roster.

GET /api/v1/admin/users

Request:
  - page, limit: pagination (limit capped at 100)
  - role: admin | editor | author
  - status: active | inactive | suspended
  - search: substring over username, email, and full name

Response:
  - 200: {users} plus pagination meta
  - 400: Unknown role or status
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	role := queryParams.Get(auth.FieldRole)
	status := queryParams.Get(FieldStatus)
	search := queryParams.Get(FieldSearch)

	validator := &validate.Validator{}
	validator.Custom(auth.FieldRole, role != "" && !sec.UserRole(role).Valid(), "Unknown role").
		Custom(FieldStatus, status != "" && !auth.UserStatus(status).Valid(), "Unknown status")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		Role:   sec.UserRole(role),
		Status: auth.UserStatus(status),
		Search: search,
	}

	users, total, err := handler.accountService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, rosterResponse{Users: users}, pagination.NewMeta(params.Page, params.Limit, total))
}

type updateUserRequest struct {
	Role     *string `json:"role"`
	Status   *string `json:"status"`
	FullName *string `json:"fullName"`
}

/*
Update applies administrative changes to a staff member.

PUT /api/v1/admin/users/{id}

Description: Requires manage_users. Changing the role rewrites the permission
set from the role's canonical grants. Targeting your own account is rejected.

Request:
  - Body: updateUserRequest (absent fields stay unchanged)

Response:
  - 200: {user}
  - 400: Unknown role/status, or self-target
  - 404: Unknown or malformed ID
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Role != nil {
		validator.Custom(auth.FieldRole, !sec.UserRole(*input.Role).Valid(), "Unknown role")
	}
	if input.Status != nil {
		validator.Custom(FieldStatus, !auth.UserStatus(*input.Status).Valid(), "Unknown status")
	}
	if input.FullName != nil {
		validator.MaxLen(auth.FieldFullName, *input.FullName, 100)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	updateInput := UpdateInput{FullName: input.FullName}
	if input.Role != nil {
		role := sec.UserRole(*input.Role)
		updateInput.Role = &role
	}
	if input.Status != nil {
		status := auth.UserStatus(*input.Status)
		updateInput.Status = &status
	}

	user, err := handler.accountService.Update(request.Context(), identity, requestutil.ID(request, "id"), updateInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{auth.FieldUser: user})
}

/*
Remove deletes a staff account.

DELETE /api/v1/admin/users/{id}

Description: Admin role only. Accounts that have authored articles cannot be
deleted; deactivate them instead so author snapshots stay meaningful.

Response:
  - 200: Confirmation message
  - 400: Self-target or authored articles remain
  - 404: Unknown or malformed ID
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.Delete(request.Context(), identity, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{auth.FieldMessage: "User deleted"})
}
