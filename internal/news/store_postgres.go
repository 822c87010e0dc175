// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

/*
PostgreSQL implementation of the article repository.

It leans on Postgres features to keep the listing path to a single
round-trip:
  - Window Function: COUNT(*) OVER() returns the total match count alongside
    the page itself.
  - Array Operators: tags are a text[] column matched with the overlap
    operator (&&) for any-of filtering.
  - Atomic Counters: views/likes/shares move through single UPDATE ...
    RETURNING statements so concurrent interactions never lose increments.
*/
package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thanhphv/secnews/internal/platform/apperr"
	"github.com/thanhphv/secnews/internal/platform/dberr"
	"github.com/thanhphv/secnews/pkg/uuidv7"
)

// # Article Repository

// articleColumns is the canonical projection for the news.article table,
// minus content, which is selected conditionally.
const articleColumns = `
	id, title, slug, summary, category, tags, imageurl,
	authorname, authoremail, authoravatar, status, priority, publishedat,
	views, likes, shares, readingtime, isbreaking, isfeatured,
	seometatitle, seometadescription, seokeywords, createdat, updatedat`

// PostgresArticleRepository implements the ArticleRepository interface using pgx.
type PostgresArticleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository creates a new PostgreSQL implementation of the ArticleRepository.
func NewArticleRepository(pool *pgxpool.Pool) *PostgresArticleRepository {
	return &PostgresArticleRepository{pool: pool}
}

/*
List returns a filtered, paginated slice of articles and the total count.

Description: The WHERE clause is assembled dynamically from the normalized
[Filter]; every condition is conjunctive. COUNT(*) OVER() rides along with
each row so no second counting query is needed on populated pages; an empty
page past the end of the result set falls back to a plain count so the total
stays truthful. When the filter excludes content, the projection substitutes
an empty string rather than shipping the body over the wire.

Parameters:
  - context: context.Context
  - filter: Filter (visibility already applied by the service)
  - limit: int
  - offset: int

Returns:
  - []*Article: Page of articles
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *PostgresArticleRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {

	// Query build initialization. The WHERE clause is assembled on its own
	// so the out-of-range count fallback can reuse it verbatim.
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString("WHERE TRUE")

	// Apply Filters (Dynamic WHERE clause construction)
	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND status = $%d", argID))
		args = append(args, filter.Status)
		argID++
	}

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND category = $%d", argID))
		args = append(args, filter.Category)
		argID++
	}

	if filter.AuthorEmail != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND authoremail = $%d", argID))
		args = append(args, filter.AuthorEmail)
		argID++
	}

	// Substring search over the three text fields, case-insensitive.
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(
			" AND (title ILIKE $%d OR summary ILIKE $%d OR content ILIKE $%d)",
			argID, argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	// Any-of tag matching via array overlap.
	if len(filter.Tags) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND tags && $%d", argID))
		args = append(args, filter.Tags)
		argID++
	}

	if filter.Breaking != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND isbreaking = $%d", argID))
		args = append(args, *filter.Breaking)
		argID++
	}

	if filter.Featured != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND isfeatured = $%d", argID))
		args = append(args, *filter.Featured)
		argID++
	}

	if filter.PublishedAfter != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND publishedat >= $%d", argID))
		args = append(args, *filter.PublishedAfter)
		argID++
	}

	whereClause := queryBuilder.String()
	whereArgs := args

	// Content is the heaviest column; only staff projections carry it.
	contentExpr := "''"
	if filter.IncludeContent {
		contentExpr = "content"
	}

	query := fmt.Sprintf(`
		SELECT %s, %s AS content, COUNT(*) OVER() AS total_count
		FROM news.article
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		articleColumns, contentExpr, whereClause, orderClause(filter.Sort), argID, argID+1)
	args = append(args, limit, offset)

	// Query Execution
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_article_repo_list")
	}
	defer rows.Close()

	var articles []*Article
	var totalCount int

	for rows.Next() {
		article, count, err := scanArticleWithCount(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "postgres_article_repo_list_scan")
		}
		totalCount = count
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_article_repo_list_rows")
	}

	// The window count only rides along with rows. A page past the end of
	// the result set returns none, so count separately to keep the
	// pagination meta truthful.
	if len(articles) == 0 && offset > 0 {
		countQuery := "SELECT COUNT(*) FROM news.article " + whereClause
		if err := repository.pool.QueryRow(context, countQuery, whereArgs...).Scan(&totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "postgres_article_repo_list_count")
		}
	}

	return articles, totalCount, nil
}

// orderClause maps a sort selector to a fixed ORDER BY expression. Unknown
// selectors fall back to newest-first.
func orderClause(sort Sort) string {
	switch sort {
	case SortOldest:
		return "publishedat ASC NULLS LAST, createdat ASC"
	case SortViews:
		return "views DESC, id DESC"
	case SortLikes:
		return "likes DESC, id DESC"
	case SortTitle:
		return "title ASC"
	case SortPopular:
		return "views DESC, likes DESC, id DESC"
	case SortTrending:
		return "likes DESC, views DESC, publishedat DESC NULLS LAST"
	default:
		return "publishedat DESC NULLS LAST, createdat DESC"
	}
}

/*
FindByID retrieves an article by its primary key.

Description: Malformed IDs are normalized to [apperr.NotFound] without
touching the database, so probing with garbage identifiers is
indistinguishable from probing for absent documents.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Article: Hydrated entity including content
  - error: apperr.NotFound or database retrieval failures
*/
func (repository *PostgresArticleRepository) FindByID(context context.Context, id string) (*Article, error) {
	if !uuidv7.IsValid(id) {
		return nil, apperr.NotFound("Article")
	}

	query := fmt.Sprintf(`
		SELECT %s, content
		FROM news.article
		WHERE id = $1`, articleColumns)

	article, err := scanArticle(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Article")
		}
		return nil, dberr.Wrap(err, "postgres_article_repo_find_by_id")
	}

	return article, nil
}

/*
Create persists a new article into the news.article table.

Description: Initializes timestamps when absent. Slug collisions surface as
[apperr.Duplicate] with the slug field named.

Parameters:
  - context: context.Context
  - article: *Article

Returns:
  - error: Duplicate-field violations or connectivity errors
*/
func (repository *PostgresArticleRepository) Create(context context.Context, article *Article) error {
	const query = `
		INSERT INTO news.article (
			id, title, slug, summary, content, category, tags, imageurl,
			authorname, authoremail, authoravatar, status, priority, publishedat,
			views, likes, shares, readingtime, isbreaking, isfeatured,
			seometatitle, seometadescription, seokeywords, createdat, updatedat
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25
		)`

	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		article.ID,
		article.Title,
		article.Slug,
		article.Summary,
		article.Content,
		article.Category,
		article.Tags,
		article.ImageURL,
		article.Author.Name,
		article.Author.Email,
		article.Author.Avatar,
		article.Status,
		article.Priority,
		article.PublishedAt,
		article.Views,
		article.Likes,
		article.Shares,
		article.ReadingTime,
		article.IsBreaking,
		article.IsFeatured,
		article.SEOMetadata.MetaTitle,
		article.SEOMetadata.MetaDescription,
		article.SEOMetadata.Keywords,
		article.CreatedAt,
		article.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_article_repo_create")
	}

	return nil
}

/*
Update persists the mutable fields of an existing article.

Description: The interaction counters (views, likes, shares) are not part of
this statement; they are only ever mutated through the atomic increment
methods. The author snapshot is immutable after creation and is likewise
excluded.

Parameters:
  - context: context.Context
  - article: *Article

Returns:
  - error: apperr.NotFound, apperr.Duplicate, persistence failures
*/
func (repository *PostgresArticleRepository) Update(context context.Context, article *Article) error {
	if !uuidv7.IsValid(article.ID) {
		return apperr.NotFound("Article")
	}

	const query = `
		UPDATE news.article SET
			title = $2, slug = $3, summary = $4, content = $5, category = $6,
			tags = $7, imageurl = $8, status = $9, priority = $10,
			publishedat = $11, readingtime = $12, isbreaking = $13,
			isfeatured = $14, seometatitle = $15, seometadescription = $16,
			seokeywords = $17, updatedat = $18
		WHERE id = $1`

	article.UpdatedAt = time.Now()

	result, err := repository.pool.Exec(context, query,
		article.ID,
		article.Title,
		article.Slug,
		article.Summary,
		article.Content,
		article.Category,
		article.Tags,
		article.ImageURL,
		article.Status,
		article.Priority,
		article.PublishedAt,
		article.ReadingTime,
		article.IsBreaking,
		article.IsFeatured,
		article.SEOMetadata.MetaTitle,
		article.SEOMetadata.MetaDescription,
		article.SEOMetadata.Keywords,
		article.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_article_repo_update")
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Article")
	}

	return nil
}

/*
Delete removes an article permanently.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresArticleRepository) Delete(context context.Context, id string) error {
	if !uuidv7.IsValid(id) {
		return apperr.NotFound("Article")
	}

	result, err := repository.pool.Exec(context, `DELETE FROM news.article WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "postgres_article_repo_delete")
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Article")
	}

	return nil
}

// # Atomic Counters

// IncrementViews atomically bumps the view counter and returns the new value.
func (repository *PostgresArticleRepository) IncrementViews(context context.Context, id string) (int64, error) {
	return repository.increment(context, "views", id)
}

// IncrementLikes atomically bumps the like counter and returns the new value.
func (repository *PostgresArticleRepository) IncrementLikes(context context.Context, id string) (int64, error) {
	return repository.increment(context, "likes", id)
}

// IncrementShares atomically bumps the share counter and returns the new value.
func (repository *PostgresArticleRepository) IncrementShares(context context.Context, id string) (int64, error) {
	return repository.increment(context, "shares", id)
}

/*
increment performs a thread-safe counter update on the named column.

Description: Rather than read-modify-write, the database applies the
addition natively and hands the new value back through RETURNING. Concurrent
interactions therefore never lose increments, and the caller gets the exact
post-increment reading for its response.

Parameters:
  - context: context.Context
  - column: string counter column, from the fixed internal set
  - id: string

Returns:
  - int64: Counter value after the increment
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresArticleRepository) increment(context context.Context, column string, id string) (int64, error) {
	if !uuidv7.IsValid(id) {
		return 0, apperr.NotFound("Article")
	}

	// column comes from the three exported wrappers only, never from input.
	query := fmt.Sprintf(
		"UPDATE news.article SET %s = %s + 1 WHERE id = $1 RETURNING %s",
		column, column, column)

	var value int64
	if err := repository.pool.QueryRow(context, query, id).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("Article")
		}
		return 0, dberr.Wrap(err, "postgres_article_repo_increment_"+column)
	}

	return value, nil
}

// # Aggregates

/*
CountByAuthorEmail returns the number of articles attributed to the email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - int: Authored article count
  - error: Database retrieval failures
*/
func (repository *PostgresArticleRepository) CountByAuthorEmail(context context.Context, email string) (int, error) {
	var count int
	err := repository.pool.QueryRow(context,
		`SELECT COUNT(*) FROM news.article WHERE authoremail = $1`, email).Scan(&count)
	if err != nil {
		return 0, dberr.Wrap(err, "postgres_article_repo_count_by_author")
	}
	return count, nil
}

/*
CategoryCounts returns the published-article count per category.

Description: The aggregation runs over published rows only; categories with
no published articles are still present in the result with a zero count, in
taxonomy presentation order.

Parameters:
  - context: context.Context

Returns:
  - []CategoryCount: One entry per category
  - error: Database retrieval failures
*/
func (repository *PostgresArticleRepository) CategoryCounts(context context.Context) ([]CategoryCount, error) {
	rows, err := repository.pool.Query(context, `
		SELECT category, COUNT(*)
		FROM news.article
		WHERE status = $1
		GROUP BY category`, StatusPublished)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_article_repo_category_counts")
	}
	defer rows.Close()

	counts := make(map[Category]int, len(AllCategories))
	for rows.Next() {
		var category Category
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, dberr.Wrap(err, "postgres_article_repo_category_counts_scan")
		}
		counts[category] = count
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_article_repo_category_counts_rows")
	}

	result := make([]CategoryCount, 0, len(AllCategories))
	for _, category := range AllCategories {
		result = append(result, CategoryCount{
			ID:    category,
			Name:  CategoryLabels[category],
			Count: counts[category],
		})
	}

	return result, nil
}

// # Row Scanning

// scanArticle hydrates an article from a row whose projection is
// articleColumns followed by content.
func scanArticle(row pgx.Row) (*Article, error) {
	article := &Article{}
	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Slug,
		&article.Summary,
		&article.Category,
		&article.Tags,
		&article.ImageURL,
		&article.Author.Name,
		&article.Author.Email,
		&article.Author.Avatar,
		&article.Status,
		&article.Priority,
		&article.PublishedAt,
		&article.Views,
		&article.Likes,
		&article.Shares,
		&article.ReadingTime,
		&article.IsBreaking,
		&article.IsFeatured,
		&article.SEOMetadata.MetaTitle,
		&article.SEOMetadata.MetaDescription,
		&article.SEOMetadata.Keywords,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.Content,
	)
	if err != nil {
		return nil, err
	}
	return article, nil
}

// scanArticleWithCount hydrates an article plus the windowed total count
// from a listing row.
func scanArticleWithCount(rows pgx.Rows) (*Article, int, error) {
	article := &Article{}
	var totalCount int
	err := rows.Scan(
		&article.ID,
		&article.Title,
		&article.Slug,
		&article.Summary,
		&article.Category,
		&article.Tags,
		&article.ImageURL,
		&article.Author.Name,
		&article.Author.Email,
		&article.Author.Avatar,
		&article.Status,
		&article.Priority,
		&article.PublishedAt,
		&article.Views,
		&article.Likes,
		&article.Shares,
		&article.ReadingTime,
		&article.IsBreaking,
		&article.IsFeatured,
		&article.SEOMetadata.MetaTitle,
		&article.SEOMetadata.MetaDescription,
		&article.SEOMetadata.Keywords,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.Content,
		&totalCount,
	)
	if err != nil {
		return nil, 0, err
	}
	return article, totalCount, nil
}
