// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// # Report Repository

// PostgresReportRepository implements ReportRepository using pgx. Every
// method is a pure aggregate query; FILTER clauses fold the lifecycle and
// window breakdowns into single table scans.
type PostgresReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new PostgreSQL implementation of the
// ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *PostgresReportRepository {
	return &PostgresReportRepository{pool: pool}
}

/*
DashboardStats computes the headline figures in two table scans.

Description: One pass over news.article yields the lifecycle counts and
engagement sums, one pass over users.account yields the roster counts. The
since bound feeds every "this month" figure.

Parameters:
  - context: context.Context
  - since: time.Time

Returns:
  - *DashboardStats: Archive, roster, and engagement totals
  - error: Execution errors
*/
func (repository *PostgresReportRepository) DashboardStats(context context.Context, since time.Time) (*DashboardStats, error) {
	const newsQuery = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'published'),
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(*) FILTER (WHERE status = 'archived'),
			COUNT(*) FILTER (WHERE createdat >= $1),
			COALESCE(SUM(views), 0),
			COALESCE(SUM(likes), 0),
			COALESCE(SUM(views) FILTER (WHERE publishedat >= $1), 0)
		FROM news.article`

	stats := &DashboardStats{}
	err := repository.pool.QueryRow(context, newsQuery, since).Scan(
		&stats.News.Total,
		&stats.News.Published,
		&stats.News.Draft,
		&stats.News.Archived,
		&stats.News.NewThisMonth,
		&stats.Engagement.TotalViews,
		&stats.Engagement.TotalLikes,
		&stats.Engagement.ViewsThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_report_repo_news_stats_failed: %w", err)
	}

	const userQuery = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE createdat >= $1)
		FROM users.account`

	err = repository.pool.QueryRow(context, userQuery, since).Scan(
		&stats.Users.Total,
		&stats.Users.Active,
		&stats.Users.NewThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_report_repo_user_stats_failed: %w", err)
	}

	return stats, nil
}

/*
RecentPublished returns the latest published articles, newest first.

Parameters:
  - context: context.Context
  - limit: int

Returns:
  - []RecentArticle: Compact article rows
  - error: Execution errors
*/
func (repository *PostgresReportRepository) RecentPublished(context context.Context, limit int) ([]RecentArticle, error) {
	const query = `
		SELECT id, title, authorname, publishedat, views, likes
		FROM news.article
		WHERE status = 'published'
		ORDER BY publishedat DESC NULLS LAST
		LIMIT $1`

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_report_repo_recent_failed: %w", err)
	}
	defer rows.Close()

	recent := make([]RecentArticle, 0, limit)
	for rows.Next() {
		var article RecentArticle
		err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.AuthorName,
			&article.PublishedAt,
			&article.Views,
			&article.Likes,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_report_repo_recent_scan_failed: %w", err)
		}
		recent = append(recent, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_report_repo_recent_rows_failed: %w", err)
	}
	return recent, nil
}

/*
TopCategories ranks categories of published articles by count.

Parameters:
  - context: context.Context
  - limit: int

Returns:
  - []TopCategory: Ranked categories with view totals
  - error: Execution errors
*/
func (repository *PostgresReportRepository) TopCategories(context context.Context, limit int) ([]TopCategory, error) {
	const query = `
		SELECT category, COUNT(*), COALESCE(SUM(views), 0)
		FROM news.article
		WHERE status = 'published'
		GROUP BY category
		ORDER BY COUNT(*) DESC
		LIMIT $1`

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_report_repo_categories_failed: %w", err)
	}
	defer rows.Close()

	categories := make([]TopCategory, 0, limit)
	for rows.Next() {
		var category TopCategory
		if err := rows.Scan(&category.Category, &category.Count, &category.TotalViews); err != nil {
			return nil, fmt.Errorf("postgres_report_repo_categories_scan_failed: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_report_repo_categories_rows_failed: %w", err)
	}
	return categories, nil
}

/*
NewsAnalytics aggregates published articles inside [start, end].

Description: Runs the four widget queries against the same publication-date
window. The optional category narrows every widget uniformly.

Parameters:
  - context: context.Context
  - start, end: time.Time
  - category: string (optional)

Returns:
  - *NewsAnalytics: The four analytics widgets
  - error: Execution errors
*/
func (repository *PostgresReportRepository) NewsAnalytics(context context.Context, start, end time.Time, category string) (*NewsAnalytics, error) {
	where := "status = 'published' AND publishedat >= $1 AND publishedat <= $2"
	args := []any{start, end}
	if category != "" {
		where += " AND category = $3"
		args = append(args, category)
	}

	analytics := &NewsAnalytics{}

	if err := repository.viewsByDay(context, analytics, where, args); err != nil {
		return nil, err
	}
	if err := repository.topArticles(context, analytics, where, args); err != nil {
		return nil, err
	}
	if err := repository.categoryStats(context, analytics, where, args); err != nil {
		return nil, err
	}
	if err := repository.authorStats(context, analytics, where, args); err != nil {
		return nil, err
	}

	return analytics, nil
}

func (repository *PostgresReportRepository) viewsByDay(context context.Context, analytics *NewsAnalytics, where string, args []any) error {
	query := `
		SELECT
			to_char(publishedat, 'YYYY-MM-DD') AS day,
			COALESCE(SUM(views), 0),
			COALESCE(SUM(likes), 0),
			COUNT(*)
		FROM news.article
		WHERE ` + where + `
		GROUP BY day
		ORDER BY day ASC`

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return fmt.Errorf("postgres_report_repo_views_by_day_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket DailyBucket
		if err := rows.Scan(&bucket.Date, &bucket.Views, &bucket.Likes, &bucket.Articles); err != nil {
			return fmt.Errorf("postgres_report_repo_views_by_day_scan_failed: %w", err)
		}
		analytics.ViewsByDay = append(analytics.ViewsByDay, bucket)
	}
	return rows.Err()
}

func (repository *PostgresReportRepository) topArticles(context context.Context, analytics *NewsAnalytics, where string, args []any) error {
	query := `
		SELECT id, title, category, authorname, publishedat, views, likes, shares
		FROM news.article
		WHERE ` + where + `
		ORDER BY views DESC
		LIMIT 10`

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return fmt.Errorf("postgres_report_repo_top_articles_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var article TopArticle
		err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Category,
			&article.AuthorName,
			&article.PublishedAt,
			&article.Views,
			&article.Likes,
			&article.Shares,
		)
		if err != nil {
			return fmt.Errorf("postgres_report_repo_top_articles_scan_failed: %w", err)
		}
		analytics.TopArticles = append(analytics.TopArticles, article)
	}
	return rows.Err()
}

func (repository *PostgresReportRepository) categoryStats(context context.Context, analytics *NewsAnalytics, where string, args []any) error {
	query := `
		SELECT
			category,
			COUNT(*),
			COALESCE(SUM(views), 0),
			COALESCE(SUM(likes), 0),
			COALESCE(AVG(views), 0)::float8
		FROM news.article
		WHERE ` + where + `
		GROUP BY category
		ORDER BY COALESCE(SUM(views), 0) DESC`

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return fmt.Errorf("postgres_report_repo_category_stats_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stat CategoryStat
		err := rows.Scan(&stat.Category, &stat.Articles, &stat.TotalViews, &stat.TotalLikes, &stat.AvgViews)
		if err != nil {
			return fmt.Errorf("postgres_report_repo_category_stats_scan_failed: %w", err)
		}
		analytics.CategoryStats = append(analytics.CategoryStats, stat)
	}
	return rows.Err()
}

func (repository *PostgresReportRepository) authorStats(context context.Context, analytics *NewsAnalytics, where string, args []any) error {
	// MIN(authorname) picks a stable display name when snapshots differ.
	query := `
		SELECT
			authoremail,
			MIN(authorname),
			COUNT(*),
			COALESCE(SUM(views), 0),
			COALESCE(SUM(likes), 0)
		FROM news.article
		WHERE ` + where + `
		GROUP BY authoremail
		ORDER BY COALESCE(SUM(views), 0) DESC
		LIMIT 10`

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return fmt.Errorf("postgres_report_repo_author_stats_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stat AuthorStat
		err := rows.Scan(&stat.AuthorEmail, &stat.AuthorName, &stat.Articles, &stat.TotalViews, &stat.TotalLikes)
		if err != nil {
			return fmt.Errorf("postgres_report_repo_author_stats_scan_failed: %w", err)
		}
		analytics.AuthorStats = append(analytics.AuthorStats, stat)
	}
	return rows.Err()
}
