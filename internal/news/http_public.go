// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package news

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/thanhphv/secnews/internal/platform/request"
	"github.com/thanhphv/secnews/internal/platform/respond"
	"github.com/thanhphv/secnews/internal/platform/validate"
	"github.com/thanhphv/secnews/pkg/pagination"
	"github.com/thanhphv/secnews/pkg/query"
)

// defaultTrendingLimit is the trending page size when the caller does not
// specify one.
const defaultTrendingLimit = 10

// PublicHandler implements the unauthenticated mobile API surface.
//
// # Contract
//
// Every endpoint here serves published articles only, caps page sizes at
// [pagination.PublicMaxLimit], and uses the mobile pagination shape
// {page, limit, total, totalPages, hasMore} that the apps were built
// against.
type PublicHandler struct {
	newsService *Service
}

// NewPublicHandler constructs a [PublicHandler] with its service dependency.
func NewPublicHandler(service *Service) *PublicHandler {
	return &PublicHandler{newsService: service}
}

// Routes returns a [chi.Router] configured with the mobile endpoints.
//
// # Endpoints
//   - GET  /news                      : Published listing with mobile sorts.
//   - GET  /news/breaking             : Breaking bulletins.
//   - GET  /news/featured             : Featured articles.
//   - GET  /news/trending             : Most-viewed of the last 7 days.
//   - GET  /news/{id}                 : Single article (counts a view).
//   - GET  /news/category/{category}  : Listing narrowed to one category.
//   - GET  /categories                : Taxonomy with published counts.
//   - GET  /search                    : Text, tag, and category search.
//   - POST /news/{id}/like            : Anonymous like counter.
func (handler *PublicHandler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/news", handler.listNews)
	router.Get("/news/breaking", handler.breaking)
	router.Get("/news/featured", handler.featured)
	router.Get("/news/trending", handler.trending)
	router.Get("/news/{id}", handler.getNews)
	router.Get("/news/category/{category}", handler.byCategory)
	router.Get("/categories", handler.categories)
	router.Get("/search", handler.search)
	router.Post("/news/{id}/like", handler.like)

	return router
}

// # Response Shapes

// mobileMeta is the pagination block the mobile clients expect.
type mobileMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// newMobileMeta derives the mobile pagination block from a page request and
// total count.
func newMobileMeta(page, limit, total int) mobileMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return mobileMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// mobilePage is the data envelope for every paginated mobile listing.
type mobilePage struct {
	News       []*Article `json:"news"`
	Pagination mobileMeta `json:"pagination"`
}

// # Listing Endpoints

/*
ListNews returns a page of published articles for the mobile feed.

GET /api/v1/public/news

Request:
  - page, limit: pagination (limit capped at 50)
  - category: Category
  - sort: newest | oldest | popular | trending

Response:
  - 200: {news, pagination}
  - 400: Unknown category or sort
*/
func (handler *PublicHandler) listNews(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequestCapped(request, pagination.PublicMaxLimit)
	queryParams := request.URL.Query()

	category := queryParams.Get(FieldCategory)
	sortBy := Sort(queryParams.Get(FieldSort))
	if sortBy == "" {
		sortBy = SortNewest
	}

	validator := &validate.Validator{}
	validator.Custom(FieldCategory, category != "" && !Category(category).Valid(), "Unknown category").
		Custom(FieldSort, !sortBy.ValidPublic(), "Unknown sort order")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := PublishedOnly()
	filter.Category = Category(category)
	filter.Sort = sortBy

	handler.respondPage(writer, request, filter, params)
}

/*
ByCategory returns published articles from one category, newest first.

GET /api/v1/public/news/category/{category}

Response:
  - 200: {news, pagination}
  - 400: Unknown category
*/
func (handler *PublicHandler) byCategory(writer http.ResponseWriter, request *http.Request) {
	category := Category(requestutil.Param(request, FieldCategory))
	if !category.Valid() {
		respond.Error(writer, request, validate.RequiredError(FieldCategory, "Unknown category"))
		return
	}

	params := pagination.FromRequestCapped(request, pagination.PublicMaxLimit)
	filter := PublishedOnly()
	filter.Category = category

	handler.respondPage(writer, request, filter, params)
}

/*
Search queries published articles by text, tags, and category.

GET /api/v1/public/search

Request:
  - q: substring over title/summary/content
  - tags: comma-separated, any-of match
  - category: Category
  - page, limit: pagination (limit capped at 50)

Response:
  - 200: {news, pagination}, newest first
*/
func (handler *PublicHandler) search(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequestCapped(request, pagination.PublicMaxLimit)
	queryParams := request.URL.Query()

	filter := PublishedOnly()
	filter.Search = queryParams.Get("q")
	filter.Tags = query.LowerStringSlice(queryParams.Get(FieldTags))
	filter.Category = Category(queryParams.Get(FieldCategory))

	handler.respondPage(writer, request, filter, params)
}

// respondPage runs a published-only listing and writes the mobile envelope.
func (handler *PublicHandler) respondPage(writer http.ResponseWriter, request *http.Request, filter Filter, params pagination.Params) {
	articles, total, err := handler.newsService.List(request.Context(), nil, filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, mobilePage{
		News:       articles,
		Pagination: newMobileMeta(params.Page, params.Limit, total),
	})
}

// # Hot Lists

// Breaking returns the current breaking bulletins.
//
// GET /api/v1/public/news/breaking
func (handler *PublicHandler) breaking(writer http.ResponseWriter, request *http.Request) {
	articles, err := handler.newsService.Breaking(request.Context(), hotListLimit(request, defaultHotListLimit))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{FieldNews: articles, "count": len(articles)})
}

// Featured returns the editorially featured articles.
//
// GET /api/v1/public/news/featured
func (handler *PublicHandler) featured(writer http.ResponseWriter, request *http.Request) {
	articles, err := handler.newsService.Featured(request.Context(), hotListLimit(request, defaultHotListLimit))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{FieldNews: articles, "count": len(articles)})
}

// Trending returns the most-viewed articles of the last seven days.
//
// GET /api/v1/public/news/trending
func (handler *PublicHandler) trending(writer http.ResponseWriter, request *http.Request) {
	articles, err := handler.newsService.Trending(request.Context(), hotListLimit(request, defaultTrendingLimit))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{FieldNews: articles, "count": len(articles)})
}

// # Single Article & Interactions

/*
GetNews returns a single published article and counts the view.

GET /api/v1/public/news/{id}

Response:
  - 200: {news}
  - 404: Unknown, malformed, or unpublished ID
*/
func (handler *PublicHandler) getNews(writer http.ResponseWriter, request *http.Request) {
	article, err := handler.newsService.Get(request.Context(), nil, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{FieldNews: article})
}

/*
Like bumps the like counter on a published article. No authentication; the
mobile apps like anonymously.

POST /api/v1/public/news/{id}/like

Response:
  - 200: {likes}
  - 400: Article not published
  - 404: Unknown or malformed ID
*/
func (handler *PublicHandler) like(writer http.ResponseWriter, request *http.Request) {
	likes, err := handler.newsService.Like(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int64{FieldLikes: likes})
}

// Categories returns the taxonomy with per-category published counts.
//
// GET /api/v1/public/categories
func (handler *PublicHandler) categories(writer http.ResponseWriter, request *http.Request) {
	counts, err := handler.newsService.Categories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{FieldCategories: counts})
}
