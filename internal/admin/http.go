// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thanhphv/secnews/internal/news"
	"github.com/thanhphv/secnews/internal/platform/middleware"
	"github.com/thanhphv/secnews/internal/platform/respond"
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/internal/platform/validate"
	"github.com/thanhphv/secnews/internal/users/account"
)

// # Field Identifiers

// Query parameter names for the dashboard endpoints.
const (
	FieldPeriod   = "period"
	FieldCategory = "category"
)

// # Definitions & Constructors

// Handler implements the admin dashboard endpoints and hosts the staff
// directory under /users.
type Handler struct {
	dashboardService *Service
	accounts         *account.Handler
	requireIdentity  func(http.Handler) http.Handler
}

// NewHandler constructs the admin [Handler]. Every route below it requires a
// resolved identity; the per-route middlewares add the finer checks.
func NewHandler(service *Service, accounts *account.Handler, requireIdentity func(http.Handler) http.Handler) *Handler {
	return &Handler{
		dashboardService: service,
		accounts:         accounts,
		requireIdentity:  requireIdentity,
	}
}

// Routes returns a [chi.Router] configured with the admin endpoints.
//
// # Endpoints
//   - GET /stats          : Dashboard figures (view_analytics).
//   - GET /analytics/news : Publishing analytics (view_analytics).
//   - /users/*            : Staff directory (see [account.Handler]).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.requireIdentity)

	router.With(middleware.RequirePermission(sec.PermViewAnalytics)).
		Get("/stats", handler.stats)
	router.With(middleware.RequirePermission(sec.PermViewAnalytics)).
		Get("/analytics/news", handler.analytics)

	router.Mount("/users", handler.accounts.Routes())

	return router
}

// # Endpoints

/*
Stats returns the newsroom dashboard figures.

GET /api/v1/admin/stats

Response:
  - 200: {stats, recentNews, topCategories, trends}
*/
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	report, err := handler.dashboardService.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}

/*
Analytics returns the publishing analytics for a window.

GET /api/v1/admin/analytics/news

Request:
  - period: 7d | 30d | 90d | 1y (default 30d)
  - category: Category (optional)

Response:
  - 200: {period, dateRange, analytics}
  - 400: Unknown period or category
*/
func (handler *Handler) analytics(writer http.ResponseWriter, request *http.Request) {
	queryParams := request.URL.Query()
	period := Period(queryParams.Get(FieldPeriod))
	category := queryParams.Get(FieldCategory)

	validator := &validate.Validator{}
	validator.Custom(FieldPeriod, period != "" && !period.Valid(), "Unknown period").
		Custom(FieldCategory, category != "" && !news.Category(category).Valid(), "Unknown category")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	report, err := handler.dashboardService.Analytics(request.Context(), period, category)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, report)
}
