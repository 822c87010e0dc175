// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package news

import (
	"context"
	"time"

	"github.com/thanhphv/secnews/internal/platform/apperr"
	"github.com/thanhphv/secnews/internal/platform/ctxutil"
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/pkg/uuidv7"
)

// # Contracts & Types

// HotListCache is the caching contract for the public hot lists.
type HotListCache interface {
	Get(context context.Context, name string, limit int) ([]*Article, bool, error)
	Set(context context.Context, name string, limit int, articles []*Article) error
	Invalidate(context context.Context) error
}

// Service implements the article use cases: listing with visibility rules,
// the publication lifecycle, interaction counters, and the public hot lists.
type Service struct {
	articleRepository ArticleRepository
	hotLists          HotListCache
}

// NewService constructs a news [Service] with its dependencies.
func NewService(articleRepo ArticleRepository, hotLists HotListCache) *Service {
	return &Service{
		articleRepository: articleRepo,
		hotLists:          hotLists,
	}
}

// # Listing & Retrieval

/*
List returns a page of articles visible to the caller.

Description: The filter passes through [Filter.ApplyVisibility] before it
reaches the store, so anonymous and author callers are pinned to published
articles (their status filter, if any, is overridden) and receive a
projection without the article body.

Parameters:
  - context: context.Context
  - identity: *sec.Identity, nil for anonymous callers
  - filter: Filter built from request parameters
  - limit: int
  - offset: int

Returns:
  - []*Article: Page of articles
  - int: Total count matching the effective filter
  - error: Database execution errors
*/
func (service *Service) List(context context.Context, identity *sec.Identity, filter Filter, limit, offset int) ([]*Article, int, error) {
	filter.ApplyVisibility(identity)
	return service.articleRepository.List(context, filter, limit, offset)
}

/*
Get returns a single article by ID.

Description: Non-staff callers can only see published articles; an existing
draft is reported as [apperr.NotFound] to them, not as forbidden. Retrieving
a published article counts as a view and bumps the counter atomically.

Parameters:
  - context: context.Context
  - identity: *sec.Identity, nil for anonymous callers
  - id: string

Returns:
  - *Article: Hydrated entity with the post-increment view count
  - error: apperr.NotFound or database retrieval failures
*/
func (service *Service) Get(context context.Context, identity *sec.Identity, id string) (*Article, error) {
	article, err := service.articleRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if article.Status != StatusPublished && !identity.IsStaff() {
		return nil, apperr.NotFound("Article")
	}

	if article.Status == StatusPublished {
		views, err := service.articleRepository.IncrementViews(context, article.ID)
		if err != nil {
			// A lost view is not worth failing the read.
			ctxutil.GetLogger(context).Warn("view increment failed", "article_id", article.ID, "error", err)
		} else {
			article.Views = views
		}
	}

	return article, nil
}

// # Authoring

// CreateInput carries the caller-supplied fields for a new article.
type CreateInput struct {
	Title       string
	Summary     string
	Content     string
	Category    Category
	Tags        []string
	ImageURL    string
	Priority    Priority
	Status      Status
	PublishedAt *time.Time
	IsBreaking  bool
	IsFeatured  bool
	SEOMetadata SEOMetadata
}

/*
Create persists a new article authored by the caller.

Description: The author snapshot (name, email, avatar) is captured from the
resolved identity, never from the payload. Status defaults to draft and
priority to normal; entering published stamps the publication timestamp
unless the caller supplied one. The breaking/featured flags are admin-only
and are dropped silently for other callers.

Parameters:
  - context: context.Context
  - identity: *sec.Identity holding create_news (enforced by middleware)
  - input: CreateInput

Returns:
  - *Article: The persisted article
  - error: Validation, duplicate-slug, or persistence failures
*/
func (service *Service) Create(context context.Context, identity *sec.Identity, input CreateInput) (*Article, error) {
	if err := sec.RequireIdentity(identity); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = StatusDraft
	}
	if input.Priority == "" {
		input.Priority = PriorityNormal
	}

	if !input.Category.Valid() {
		return nil, apperr.ValidationError("Invalid category")
	}
	if !input.Status.Valid() {
		return nil, apperr.ValidationError("Invalid status")
	}
	if !input.Priority.Valid() {
		return nil, apperr.ValidationError("Invalid priority")
	}

	if input.Status == StatusPublished && !identity.HasPermission(sec.PermPublishNews) {
		return nil, apperr.Forbidden("You do not have permission to publish articles")
	}

	article := &Article{
		ID:       uuidv7.New(),
		Title:    input.Title,
		Summary:  input.Summary,
		Content:  input.Content,
		Category: input.Category,
		Tags:     NormalizeTags(input.Tags),
		ImageURL: input.ImageURL,
		Priority: input.Priority,
		Author: Author{
			Name:   identity.DisplayName,
			Email:  identity.Email,
			Avatar: identity.Avatar,
		},
		SEOMetadata: input.SEOMetadata,
	}

	if identity.IsAdmin() {
		article.IsBreaking = input.IsBreaking
		article.IsFeatured = input.IsFeatured
	}

	article.RefreshDerived()
	article.ApplyStatus(input.Status, input.PublishedAt, time.Now())

	if err := service.articleRepository.Create(context, article); err != nil {
		return nil, err
	}

	service.invalidateHotLists(context)
	return article, nil
}

// UpdateInput carries the caller-supplied changes for an article. Nil
// pointers mean "leave unchanged".
type UpdateInput struct {
	Title       *string
	Summary     *string
	Content     *string
	Category    *Category
	Tags        []string
	ImageURL    *string
	Priority    *Priority
	Status      *Status
	PublishedAt *time.Time
	IsBreaking  *bool
	IsFeatured  *bool
	SEOMetadata *SEOMetadata
}

/*
Update applies changes to an existing article.

Description: Authorization is two-phase: the coarse edit_news check happened
in middleware, and the ownership comparison against the author snapshot runs
here, after the fetch, for non-admin callers. Requesting published status
additionally requires publish_news. Title and content changes refresh the
slug and reading time; status changes reconcile the publication timestamp.
The breaking/featured flags are admin-only and are dropped silently for
other callers.

Parameters:
  - context: context.Context
  - identity: *sec.Identity holding edit_news (enforced by middleware)
  - id: string
  - input: UpdateInput

Returns:
  - *Article: The updated article
  - error: apperr.NotFound, apperr.Forbidden, validation or persistence failures
*/
func (service *Service) Update(context context.Context, identity *sec.Identity, id string, input UpdateInput) (*Article, error) {
	grant, err := sec.AuthorizeMutation(identity, sec.PermEditNews)
	if err != nil {
		return nil, err
	}

	article, err := service.articleRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := grant.VerifyOwnership(identity, article.Author.Email); err != nil {
		return nil, err
	}

	if input.Status != nil && *input.Status == StatusPublished && !identity.HasPermission(sec.PermPublishNews) {
		return nil, apperr.Forbidden("You do not have permission to publish articles")
	}

	contentChanged := false
	titleChanged := false

	if input.Title != nil {
		article.Title = *input.Title
		titleChanged = true
	}
	if input.Summary != nil {
		article.Summary = *input.Summary
	}
	if input.Content != nil {
		article.Content = *input.Content
		contentChanged = true
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, apperr.ValidationError("Invalid category")
		}
		article.Category = *input.Category
	}
	if input.Tags != nil {
		article.Tags = NormalizeTags(input.Tags)
	}
	if input.ImageURL != nil {
		article.ImageURL = *input.ImageURL
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperr.ValidationError("Invalid priority")
		}
		article.Priority = *input.Priority
	}
	if input.SEOMetadata != nil {
		article.SEOMetadata = *input.SEOMetadata
	}

	if identity.IsAdmin() {
		if input.IsBreaking != nil {
			article.IsBreaking = *input.IsBreaking
		}
		if input.IsFeatured != nil {
			article.IsFeatured = *input.IsFeatured
		}
	}

	if titleChanged || contentChanged {
		article.RefreshDerived()
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperr.ValidationError("Invalid status")
		}
		article.ApplyStatus(*input.Status, input.PublishedAt, time.Now())
	}

	if err := service.articleRepository.Update(context, article); err != nil {
		return nil, err
	}

	service.invalidateHotLists(context)
	return article, nil
}

/*
Delete removes an article.

Description: Staff callers need delete_news and may then delete any article.
Authors never hold delete_news; they are let through to the ownership check
instead and may only delete their own drafts — anything else is rejected 403.

Parameters:
  - context: context.Context
  - identity: *sec.Identity
  - id: string

Returns:
  - error: apperr.NotFound, apperr.Forbidden, persistence failures
*/
func (service *Service) Delete(context context.Context, identity *sec.Identity, id string) error {
	if err := sec.RequireIdentity(identity); err != nil {
		return err
	}
	if identity.IsStaff() {
		if err := sec.AuthorizePermission(identity, sec.PermDeleteNews); err != nil {
			return err
		}
	}

	article, err := service.articleRepository.FindByID(context, id)
	if err != nil {
		return err
	}

	if !identity.IsStaff() {
		if article.Author.Email != identity.Email || article.Status != StatusDraft {
			return apperr.Forbidden("You can only delete your own draft articles")
		}
	}

	if err := service.articleRepository.Delete(context, article.ID); err != nil {
		return err
	}

	service.invalidateHotLists(context)
	return nil
}

// # Interactions

// Like records an anonymous like on a published article and returns the new
// counter value. Unpublished articles reject the interaction with 400.
func (service *Service) Like(context context.Context, id string) (int64, error) {
	return service.interact(context, id, "liked", service.articleRepository.IncrementLikes)
}

// Share records a share of a published article and returns the new counter
// value. Unpublished articles reject the interaction with 400.
func (service *Service) Share(context context.Context, id string) (int64, error) {
	return service.interact(context, id, "shared", service.articleRepository.IncrementShares)
}

// interact is the shared published-only gate for the like/share counters.
func (service *Service) interact(context context.Context, id, verb string, bump func(context.Context, string) (int64, error)) (int64, error) {
	article, err := service.articleRepository.FindByID(context, id)
	if err != nil {
		return 0, err
	}

	if article.Status != StatusPublished {
		return 0, apperr.InvalidAction("Only published articles can be " + verb)
	}

	count, err := bump(context, article.ID)
	if err != nil {
		return 0, err
	}

	service.invalidateHotLists(context)
	return count, nil
}

// # Hot Lists

// Breaking returns the current breaking bulletins, newest first, serving
// from the hot-list cache when warm.
func (service *Service) Breaking(context context.Context, limit int) ([]*Article, error) {
	breaking := true
	return service.hotList(context, hotListBreaking, limit, Filter{
		Status:   StatusPublished,
		Breaking: &breaking,
		Sort:     SortNewest,
	})
}

// Featured returns the editorially featured articles, newest first, serving
// from the hot-list cache when warm.
func (service *Service) Featured(context context.Context, limit int) ([]*Article, error) {
	featured := true
	return service.hotList(context, hotListFeatured, limit, Filter{
		Status:   StatusPublished,
		Featured: &featured,
		Sort:     SortNewest,
	})
}

// Trending returns the most-viewed articles published within
// [TrendingWindow], serving from the hot-list cache when warm.
func (service *Service) Trending(context context.Context, limit int) ([]*Article, error) {
	since := time.Now().Add(-TrendingWindow)
	return service.hotList(context, hotListTrending, limit, Filter{
		Status:         StatusPublished,
		PublishedAfter: &since,
		Sort:           SortPopular,
	})
}

// hotList serves a slot from cache, falling back to the store and
// repopulating on a miss. Cache failures degrade to the store silently.
func (service *Service) hotList(context context.Context, name string, limit int, filter Filter) ([]*Article, error) {
	if service.hotLists != nil {
		cached, hit, err := service.hotLists.Get(context, name, limit)
		if err != nil {
			ctxutil.GetLogger(context).Warn("hot-list cache read failed", "list", name, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	articles, _, err := service.articleRepository.List(context, filter, limit, 0)
	if err != nil {
		return nil, err
	}

	if service.hotLists != nil {
		if err := service.hotLists.Set(context, name, limit, articles); err != nil {
			ctxutil.GetLogger(context).Warn("hot-list cache write failed", "list", name, "error", err)
		}
	}

	return articles, nil
}

// invalidateHotLists drops the cached hot lists after a write. Failures are
// logged, never propagated; the TTL bounds any staleness.
func (service *Service) invalidateHotLists(context context.Context) {
	if service.hotLists == nil {
		return
	}
	if err := service.hotLists.Invalidate(context); err != nil {
		ctxutil.GetLogger(context).Warn("hot-list cache invalidation failed", "error", err)
	}
}

// # Taxonomy

// Categories returns every category with its Vietnamese display name and
// published-article count.
func (service *Service) Categories(context context.Context) ([]CategoryCount, error) {
	return service.articleRepository.CategoryCounts(context)
}
