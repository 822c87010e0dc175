// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package admin

import (
	"context"
	"time"
)

// Widget sizes for the dashboard.
const (
	recentNewsLimit    = 5
	topCategoriesLimit = 10
)

// # Dashboard Service

// Service assembles the dashboard and analytics reports.
type Service struct {
	reports ReportRepository
	now     func() time.Time
}

// NewService creates the dashboard service.
func NewService(reports ReportRepository) *Service {
	return &Service{reports: reports, now: time.Now}
}

/*
Stats assembles the full dashboard report.

Description: The "this month" comparison window is the trailing calendar
month. Trends repeat the month figures so dashboard clients can render the
movement widget without digging into the stats block.

Parameters:
  - context: context.Context

Returns:
  - *StatsReport: Headline figures, recent publications, category ranking, trends
  - error: Execution errors
*/
func (service *Service) Stats(context context.Context) (*StatsReport, error) {
	since := service.now().AddDate(0, -1, 0)

	stats, err := service.reports.DashboardStats(context, since)
	if err != nil {
		return nil, err
	}

	recent, err := service.reports.RecentPublished(context, recentNewsLimit)
	if err != nil {
		return nil, err
	}

	categories, err := service.reports.TopCategories(context, topCategoriesLimit)
	if err != nil {
		return nil, err
	}

	return &StatsReport{
		Stats:         *stats,
		RecentNews:    recent,
		TopCategories: categories,
		Trends: Trends{
			NewNews:  stats.News.NewThisMonth,
			NewUsers: stats.Users.NewThisMonth,
			Views:    stats.Engagement.ViewsThisMonth,
		},
	}, nil
}

/*
Analytics assembles the publishing-analytics report for a window.

Parameters:
  - context: context.Context
  - period: Period (must be validated upstream; zero value falls back to DefaultPeriod)
  - category: string (optional)

Returns:
  - *AnalyticsReport: Window bounds plus the four widgets
  - error: Execution errors
*/
func (service *Service) Analytics(context context.Context, period Period, category string) (*AnalyticsReport, error) {
	if period == "" {
		period = DefaultPeriod
	}

	end := service.now()
	start := end.Add(-period.Window())

	analytics, err := service.reports.NewsAnalytics(context, start, end, category)
	if err != nil {
		return nil, err
	}

	return &AnalyticsReport{
		Period:    period,
		DateRange: DateRange{StartDate: start, EndDate: end},
		Analytics: *analytics,
	}, nil
}
