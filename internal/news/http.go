// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

/*
HTTP delivery layer for the staff newsroom endpoints.

# Routing Strategy

  - Discovery: list, hot lists, and single-article reads run with optional
    identity; staff callers see drafts, everyone else sees published only.
  - Authoring: create/update/delete require a resolved identity plus the
    matching permission; the finer ownership rules live in the [Service].
  - Interactions: like/share are open, mirroring the mobile endpoints.
*/
package news

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thanhphv/secnews/internal/platform/middleware"
	requestutil "github.com/thanhphv/secnews/internal/platform/request"
	"github.com/thanhphv/secnews/internal/platform/respond"
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/internal/platform/validate"
	"github.com/thanhphv/secnews/pkg/pagination"
	"github.com/thanhphv/secnews/pkg/query"
)

// # Field Identifiers

// Global field names for validation and response mapping in the news domain.
const (
	FieldTitle      = "title"
	FieldSummary    = "summary"
	FieldContent    = "content"
	FieldCategory   = "category"
	FieldTags       = "tags"
	FieldImageURL   = "imageUrl"
	FieldPriority   = "priority"
	FieldStatus     = "status"
	FieldAuthor     = "author"
	FieldSort       = "sort"
	FieldNews       = "news"
	FieldLikes      = "likes"
	FieldShares     = "shares"
	FieldCategories = "categories"
	FieldMetaTitle  = "metaTitle"
	FieldMetaDesc   = "metaDescription"
	FieldLimit      = "limit"
)

// defaultHotListLimit is the page size for featured/breaking when the
// caller does not specify one.
const defaultHotListLimit = 5

// # Definitions & Constructors

// Handler implements the staff-facing article endpoints.
type Handler struct {
	newsService      *Service
	requireIdentity  func(http.Handler) http.Handler
	optionalIdentity func(http.Handler) http.Handler
}

// NewHandler constructs a news [Handler] with its service dependency and the
// two composed authentication middlewares.
func NewHandler(service *Service, requireIdentity, optionalIdentity func(http.Handler) http.Handler) *Handler {
	return &Handler{
		newsService:      service,
		requireIdentity:  requireIdentity,
		optionalIdentity: optionalIdentity,
	}
}

// Routes returns a [chi.Router] configured with the newsroom endpoints.
//
// # Endpoints
//   - GET    /            : Filtered listing (optional identity).
//   - GET    /featured    : Featured articles (public).
//   - GET    /breaking    : Breaking articles (public).
//   - GET    /{id}        : Single article (optional identity).
//   - POST   /            : Create (create_news).
//   - PUT    /{id}        : Update (edit_news + ownership).
//   - DELETE /{id}        : Delete (staff with delete_news; authors only own drafts).
//   - POST   /{id}/like   : Anonymous like counter (published only).
//   - POST   /{id}/share  : Share counter (published only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Reads and interactions: identity optional, anonymous falls through.
	router.Group(func(r chi.Router) {
		r.Use(handler.optionalIdentity)

		r.Get("/", handler.list)
		r.Get("/featured", handler.featured)
		r.Get("/breaking", handler.breaking)
		r.Get("/{id}", handler.get)
		r.Post("/{id}/like", handler.like)
		r.Post("/{id}/share", handler.share)
	})

	// Authoring: identity required, permission per route.
	router.Group(func(r chi.Router) {
		r.Use(handler.requireIdentity)

		r.With(middleware.RequirePermission(sec.PermCreateNews)).
			Post("/", handler.create)
		r.With(middleware.RequirePermission(sec.PermEditNews)).
			Put("/{id}", handler.update)

		// No permission middleware here: authors hold no delete_news, yet
		// may delete their own drafts. The service decides per article.
		r.Delete("/{id}", handler.remove)
	})

	return router
}

// # Listing

// listFilters echoes the effective filter back to the client alongside the
// page, so dashboards can render their state from the response alone.
type listFilters struct {
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
	Search   string `json:"search,omitempty"`
	Author   string `json:"author,omitempty"`
	SortBy   Sort   `json:"sortBy"`
}

// listResponse is the data envelope for the staff listing.
type listResponse struct {
	News    []*Article  `json:"news"`
	Filters listFilters `json:"filters"`
}

/*
List returns a filtered page of articles.

GET /api/v1/news

Description: Staff callers may filter by status and receive full documents;
everyone else is pinned to published articles without content. All filters
are conjunctive.

Request:
  - page, limit: pagination (limit capped at 100)
  - category: Category
  - status: Status (staff only; overridden for others)
  - search: substring over title/summary/content
  - author: author email from the snapshot
  - sort: newest | oldest | views | likes | title

Response:
  - 200: {news, filters} plus pagination meta
  - 400: Unknown category, status, or sort
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	category := queryParams.Get(FieldCategory)
	status := queryParams.Get(FieldStatus)
	search := queryParams.Get("search")
	author := queryParams.Get(FieldAuthor)
	sortBy := Sort(queryParams.Get(FieldSort))
	if sortBy == "" {
		sortBy = SortNewest
	}

	validator := &validate.Validator{}
	validator.Custom(FieldCategory, category != "" && !Category(category).Valid(), "Unknown category").
		Custom(FieldStatus, status != "" && !Status(status).Valid(), "Unknown status").
		Custom(FieldSort, !sortBy.ValidStaff(), "Unknown sort order")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity := requestutil.Identity(request)
	filter := Filter{
		Status:      Status(status),
		Category:    Category(category),
		AuthorEmail: author,
		Search:      search,
		Sort:        sortBy,
	}

	articles, total, err := handler.newsService.List(request.Context(), identity, filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listResponse{
		News: articles,
		Filters: listFilters{
			Category: category,
			Status:   status,
			Search:   search,
			Author:   author,
			SortBy:   sortBy,
		},
	}, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Featured returns the editorially featured articles.

GET /api/v1/news/featured

Request:
  - limit: int (default 5)

Response:
  - 200: {news}
*/
func (handler *Handler) featured(writer http.ResponseWriter, request *http.Request) {
	articles, err := handler.newsService.Featured(request.Context(), hotListLimit(request, defaultHotListLimit))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{FieldNews: articles})
}

/*
Breaking returns the current breaking bulletins.

GET /api/v1/news/breaking

Request:
  - limit: int (default 5)

Response:
  - 200: {news}
*/
func (handler *Handler) breaking(writer http.ResponseWriter, request *http.Request) {
	articles, err := handler.newsService.Breaking(request.Context(), hotListLimit(request, defaultHotListLimit))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{FieldNews: articles})
}

/*
Get returns a single article by ID.

GET /api/v1/news/{id}

Description: Drafts and archived articles are visible to staff only; for
other callers they are indistinguishable from absent documents. A published
read counts as a view.

Response:
  - 200: {news}
  - 404: Unknown, malformed, or invisible ID
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identity := requestutil.Identity(request)

	article, err := handler.newsService.Get(request.Context(), identity, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldNews: article})
}

// # Request Payloads

type seoMetadataPayload struct {
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
}

type createNewsRequest struct {
	Title       string              `json:"title"`
	Summary     string              `json:"summary"`
	Content     string              `json:"content"`
	Category    string              `json:"category"`
	Tags        []string            `json:"tags"`
	ImageURL    string              `json:"imageUrl"`
	Priority    string              `json:"priority"`
	Status      string              `json:"status"`
	PublishedAt *time.Time          `json:"publishedAt"`
	IsBreaking  bool                `json:"isBreaking"`
	IsFeatured  bool                `json:"isFeatured"`
	SEOMetadata *seoMetadataPayload `json:"seoMetadata"`
}

type updateNewsRequest struct {
	Title       *string             `json:"title"`
	Summary     *string             `json:"summary"`
	Content     *string             `json:"content"`
	Category    *string             `json:"category"`
	Tags        []string            `json:"tags"`
	ImageURL    *string             `json:"imageUrl"`
	Priority    *string             `json:"priority"`
	Status      *string             `json:"status"`
	PublishedAt *time.Time          `json:"publishedAt"`
	IsBreaking  *bool               `json:"isBreaking"`
	IsFeatured  *bool               `json:"isFeatured"`
	SEOMetadata *seoMetadataPayload `json:"seoMetadata"`
}

// # Authoring Endpoints

/*
Create persists a new article authored by the caller.

POST /api/v1/news

Description: Requires create_news. The author snapshot comes from the
resolved identity; publishing at creation additionally requires
publish_news. Breaking/featured flags are honored for admins only.

Request:
  - Body: createNewsRequest

Response:
  - 201: {news}
  - 400: Validation failure or duplicate slug
  - 403: Publishing without publish_news
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createNewsRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		Required(FieldSummary, input.Summary).
		MaxLen(FieldSummary, input.Summary, 500).
		Required(FieldContent, input.Content).
		Required(FieldCategory, input.Category).
		Custom(FieldCategory, input.Category != "" && !Category(input.Category).Valid(), "Unknown category").
		Custom(FieldPriority, input.Priority != "" && !Priority(input.Priority).Valid(), "Unknown priority").
		Custom(FieldStatus, input.Status != "" && !Status(input.Status).Valid(), "Unknown status").
		Custom(FieldImageURL, input.ImageURL != "" && !validHTTPURL(input.ImageURL), "Must be a valid URL")

	if seo := input.SEOMetadata; seo != nil {
		validator.MaxLen(FieldMetaTitle, seo.MetaTitle, 60).
			MaxLen(FieldMetaDesc, seo.MetaDescription, 160)
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

	createInput := CreateInput{
		Title:       input.Title,
		Summary:     input.Summary,
		Content:     input.Content,
		Category:    Category(input.Category),
		Tags:        input.Tags,
		ImageURL:    input.ImageURL,
		Priority:    Priority(input.Priority),
		Status:      Status(input.Status),
		PublishedAt: input.PublishedAt,
		IsBreaking:  input.IsBreaking,
		IsFeatured:  input.IsFeatured,
	}
	if input.SEOMetadata != nil {
		createInput.SEOMetadata = SEOMetadata(*input.SEOMetadata)
	}

	article, err := handler.newsService.Create(request.Context(), identity, createInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{FieldNews: article})
}

/*
Update applies changes to an existing article.

PUT /api/v1/news/{id}

Description: Requires edit_news; non-admin callers must own the article.
Requesting published status additionally requires publish_news.

Request:
  - Body: updateNewsRequest (absent fields stay unchanged)

Response:
  - 200: {news}
  - 403: Not the owner, or publishing without publish_news
  - 404: Unknown or malformed ID
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateNewsRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 200)
	}
	if input.Summary != nil {
		validator.Required(FieldSummary, *input.Summary).MaxLen(FieldSummary, *input.Summary, 500)
	}
	if input.Content != nil {
		validator.Required(FieldContent, *input.Content)
	}
	if input.Category != nil {
		validator.Custom(FieldCategory, !Category(*input.Category).Valid(), "Unknown category")
	}
	if input.Priority != nil {
		validator.Custom(FieldPriority, !Priority(*input.Priority).Valid(), "Unknown priority")
	}
	if input.Status != nil {
		validator.Custom(FieldStatus, !Status(*input.Status).Valid(), "Unknown status")
	}
	if input.ImageURL != nil {
		validator.Custom(FieldImageURL, *input.ImageURL != "" && !validHTTPURL(*input.ImageURL), "Must be a valid URL")
	}
	if seo := input.SEOMetadata; seo != nil {
		validator.MaxLen(FieldMetaTitle, seo.MetaTitle, 60).
			MaxLen(FieldMetaDesc, seo.MetaDescription, 160)
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

	updateInput := UpdateInput{
		Title:       input.Title,
		Summary:     input.Summary,
		Content:     input.Content,
		Tags:        input.Tags,
		ImageURL:    input.ImageURL,
		PublishedAt: input.PublishedAt,
		IsBreaking:  input.IsBreaking,
		IsFeatured:  input.IsFeatured,
	}
	if input.Category != nil {
		category := Category(*input.Category)
		updateInput.Category = &category
	}
	if input.Priority != nil {
		priority := Priority(*input.Priority)
		updateInput.Priority = &priority
	}
	if input.Status != nil {
		status := Status(*input.Status)
		updateInput.Status = &status
	}
	if input.SEOMetadata != nil {
		seo := SEOMetadata(*input.SEOMetadata)
		updateInput.SEOMetadata = &seo
	}

	article, err := handler.newsService.Update(request.Context(), identity, requestutil.ID(request, "id"), updateInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldNews: article})
}

/*
Remove deletes an article.

DELETE /api/v1/news/{id}

Description: Admins and editors delete freely with delete_news; authors only
their own drafts, without needing the permission.

Response:
  - 200: Confirmation message
  - 403: Author deleting a non-draft or someone else's article
  - 404: Unknown or malformed ID
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.newsService.Delete(request.Context(), identity, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Article deleted"})
}

// # Interaction Endpoints

/*
Like bumps the like counter on a published article.

POST /api/v1/news/{id}/like

Response:
  - 200: {likes}
  - 400: Article not published
  - 404: Unknown or malformed ID
*/
func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	likes, err := handler.newsService.Like(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int64{FieldLikes: likes})
}

/*
Share bumps the share counter on a published article.

POST /api/v1/news/{id}/share

Response:
  - 200: {shares}
  - 400: Article not published
  - 404: Unknown or malformed ID
*/
func (handler *Handler) share(writer http.ResponseWriter, request *http.Request) {
	shares, err := handler.newsService.Share(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int64{FieldShares: shares})
}

// # Helpers

// hotListLimit parses the limit parameter for the hot-list endpoints,
// clamping to the public page-size cap.
func hotListLimit(request *http.Request, fallback int) int {
	raw := request.URL.Query().Get(FieldLimit)
	if raw == "" {
		return fallback
	}
	limit := query.Int(raw, fallback)
	if limit < 1 || limit > pagination.PublicMaxLimit {
		return fallback
	}
	return limit
}

// validHTTPURL reports whether the value parses as an absolute http(s) URL.
func validHTTPURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
