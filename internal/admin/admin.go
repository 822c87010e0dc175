// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

/*
Package admin implements the editorial dashboard: newsroom statistics and
publishing analytics.

# Architecture

The package is read-only. It aggregates over the news and users schemas but
never mutates them; all figures are computed in the database so the dashboard
stays cheap even with a large archive.
*/
package admin

import "time"

// # Reporting Periods

// Period is a named analytics window.
type Period string

// Supported analytics windows.
const (
	Period7Days  Period = "7d"
	Period30Days Period = "30d"
	Period90Days Period = "90d"
	PeriodYear   Period = "1y"
)

// DefaultPeriod is used when the caller does not name a window.
const DefaultPeriod = Period30Days

// Valid reports whether the period is a known window.
func (period Period) Valid() bool {
	switch period {
	case Period7Days, Period30Days, Period90Days, PeriodYear:
		return true
	}
	return false
}

// Window returns the duration covered by the period.
func (period Period) Window() time.Duration {
	switch period {
	case Period7Days:
		return 7 * 24 * time.Hour
	case Period90Days:
		return 90 * 24 * time.Hour
	case PeriodYear:
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// # Dashboard Statistics

// NewsTotals breaks the archive down by lifecycle state.
type NewsTotals struct {
	Total        int `json:"total"`
	Published    int `json:"published"`
	Draft        int `json:"draft"`
	Archived     int `json:"archived"`
	NewThisMonth int `json:"newThisMonth"`
}

// UserTotals summarizes the staff roster.
type UserTotals struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	NewThisMonth int `json:"newThisMonth"`
}

// EngagementTotals aggregates reader interactions across the archive.
type EngagementTotals struct {
	TotalViews     int64 `json:"totalViews"`
	TotalLikes     int64 `json:"totalLikes"`
	ViewsThisMonth int64 `json:"viewsThisMonth"`
}

// DashboardStats is the headline figure block of the dashboard.
type DashboardStats struct {
	News       NewsTotals       `json:"news"`
	Users      UserTotals       `json:"users"`
	Engagement EngagementTotals `json:"engagement"`
}

// RecentArticle is a compact row for the latest-publications widget.
type RecentArticle struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	AuthorName  string     `json:"authorName"`
	PublishedAt *time.Time `json:"publishedAt"`
	Views       int64      `json:"views"`
	Likes       int64      `json:"likes"`
}

// TopCategory ranks a category by published article count.
type TopCategory struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	TotalViews int64  `json:"totalViews"`
}

// Trends carries the month-over-month movement indicators.
type Trends struct {
	NewNews  int   `json:"newNews"`
	NewUsers int   `json:"newUsers"`
	Views    int64 `json:"views"`
}

// StatsReport is the full dashboard payload.
type StatsReport struct {
	Stats         DashboardStats  `json:"stats"`
	RecentNews    []RecentArticle `json:"recentNews"`
	TopCategories []TopCategory   `json:"topCategories"`
	Trends        Trends          `json:"trends"`
}

// # Publishing Analytics

// DailyBucket aggregates one publication day.
type DailyBucket struct {
	Date     string `json:"date"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Articles int    `json:"articles"`
}

// TopArticle ranks an article by views inside the analytics window.
type TopArticle struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	AuthorName  string     `json:"authorName"`
	PublishedAt *time.Time `json:"publishedAt"`
	Views       int64      `json:"views"`
	Likes       int64      `json:"likes"`
	Shares      int64      `json:"shares"`
}

// CategoryStat aggregates a category inside the analytics window.
type CategoryStat struct {
	Category   string  `json:"category"`
	Articles   int     `json:"articles"`
	TotalViews int64   `json:"totalViews"`
	TotalLikes int64   `json:"totalLikes"`
	AvgViews   float64 `json:"avgViews"`
}

// AuthorStat aggregates an author's output inside the analytics window.
type AuthorStat struct {
	AuthorEmail string `json:"authorEmail"`
	AuthorName  string `json:"authorName"`
	Articles    int    `json:"articles"`
	TotalViews  int64  `json:"totalViews"`
	TotalLikes  int64  `json:"totalLikes"`
}

// NewsAnalytics bundles the four analytics widgets for one window.
type NewsAnalytics struct {
	ViewsByDay    []DailyBucket  `json:"viewsByDay"`
	TopArticles   []TopArticle   `json:"topArticles"`
	CategoryStats []CategoryStat `json:"categoryStats"`
	AuthorStats   []AuthorStat   `json:"authorStats"`
}

// DateRange names the inclusive bounds of an analytics window.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// AnalyticsReport is the full analytics payload.
type AnalyticsReport struct {
	Period    Period        `json:"period"`
	DateRange DateRange     `json:"dateRange"`
	Analytics NewsAnalytics `json:"analytics"`
}
