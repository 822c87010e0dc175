// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package admin

import (
	"context"
	"time"
)

// # Repository Contracts

// ReportRepository computes the dashboard aggregates. Implementations push
// all summation into the database.
type ReportRepository interface {
	/*
		DashboardStats computes the headline figures.

		Parameters:
		  - context: context.Context
		  - since: time.Time (start of the "this month" comparison window)

		Returns:
		  - *DashboardStats: Archive, roster, and engagement totals
		  - error: Execution errors
	*/
	DashboardStats(context context.Context, since time.Time) (*DashboardStats, error)

	/*
		RecentPublished returns the latest published articles, newest first.

		Parameters:
		  - context: context.Context
		  - limit: int

		Returns:
		  - []RecentArticle: Compact article rows
		  - error: Execution errors
	*/
	RecentPublished(context context.Context, limit int) ([]RecentArticle, error)

	/*
		TopCategories ranks categories of published articles by count.

		Parameters:
		  - context: context.Context
		  - limit: int

		Returns:
		  - []TopCategory: Ranked categories with view totals
		  - error: Execution errors
	*/
	TopCategories(context context.Context, limit int) ([]TopCategory, error)

	/*
		NewsAnalytics aggregates published articles inside [start, end].

		Parameters:
		  - context: context.Context
		  - start, end: time.Time (publication-date bounds)
		  - category: string (optional; empty matches all)

		Returns:
		  - *NewsAnalytics: The four analytics widgets
		  - error: Execution errors
	*/
	NewsAnalytics(context context.Context, start, end time.Time, category string) (*NewsAnalytics, error)
}
