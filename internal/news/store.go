// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package news

import (
	"context"
)

// # Article Data Access

// CategoryCount pairs a category with its published-article count for the
// public taxonomy endpoint.
type CategoryCount struct {
	ID    Category `json:"id"`
	Name  string   `json:"name"`
	Count int      `json:"count"`
}

// ArticleRepository defines the data access contract for security bulletins.
type ArticleRepository interface {

	/*
		List returns a filtered, paginated slice of articles and the total
		count matching the filter.

		Parameters:
		  - context: context.Context
		  - filter: Filter (normalized query, visibility already applied)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Article: Page of articles, content projected per filter
		  - int: Total count matching filters
		  - error: Database execution errors
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error)

	/*
		FindByID returns the article with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Article: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Article, error)

	/*
		Create persists a brand-new article.

		Parameters:
		  - context: context.Context
		  - article: *Article

		Returns:
		  - error: apperr.Duplicate on slug collisions, persistence failures
	*/
	Create(context context.Context, article *Article) error

	/*
		Update persists every mutable field of the article. The interaction
		counters are deliberately excluded; they move only through the
		increment methods below.

		Parameters:
		  - context: context.Context
		  - article: *Article

		Returns:
		  - error: apperr.NotFound, apperr.Duplicate, persistence failures
	*/
	Update(context context.Context, article *Article) error

	/*
		Delete removes the article permanently.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		IncrementViews atomically bumps the view counter and returns the new
		value.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - int64: Counter value after the increment
		  - error: apperr.NotFound or persistence failures
	*/
	IncrementViews(context context.Context, id string) (int64, error)

	/*
		IncrementLikes atomically bumps the like counter and returns the new
		value.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - int64: Counter value after the increment
		  - error: apperr.NotFound or persistence failures
	*/
	IncrementLikes(context context.Context, id string) (int64, error)

	/*
		IncrementShares atomically bumps the share counter and returns the
		new value.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - int64: Counter value after the increment
		  - error: apperr.NotFound or persistence failures
	*/
	IncrementShares(context context.Context, id string) (int64, error)

	/*
		CountByAuthorEmail returns how many articles carry the given author
		email in their snapshot. Used by user management to block deletion
		of accounts with published history.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - int: Authored article count
		  - error: Database retrieval failures
	*/
	CountByAuthorEmail(context context.Context, email string) (int, error)

	/*
		CategoryCounts returns the published-article count per category, in
		taxonomy presentation order, including zero-count categories.

		Parameters:
		  - context: context.Context

		Returns:
		  - []CategoryCount: One entry per category
		  - error: Database retrieval failures
	*/
	CategoryCounts(context context.Context) ([]CategoryCount, error)
}
