// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhphv/secnews/internal/admin"
)

// fakeReports records the windows it was asked for and returns canned data.
type fakeReports struct {
	statsSince     time.Time
	analyticsStart time.Time
	analyticsEnd   time.Time
	category       string
	recentLimit    int
	topLimit       int
}

func (f *fakeReports) DashboardStats(_ context.Context, since time.Time) (*admin.DashboardStats, error) {
	f.statsSince = since
	return &admin.DashboardStats{
		News:       admin.NewsTotals{Total: 42, Published: 30, Draft: 10, Archived: 2, NewThisMonth: 6},
		Users:      admin.UserTotals{Total: 9, Active: 8, NewThisMonth: 1},
		Engagement: admin.EngagementTotals{TotalViews: 12000, TotalLikes: 340, ViewsThisMonth: 2500},
	}, nil
}

func (f *fakeReports) RecentPublished(_ context.Context, limit int) ([]admin.RecentArticle, error) {
	f.recentLimit = limit
	return []admin.RecentArticle{{Title: "Lỗ hổng mới trong OpenSSH", Views: 900}}, nil
}

func (f *fakeReports) TopCategories(_ context.Context, limit int) ([]admin.TopCategory, error) {
	f.topLimit = limit
	return []admin.TopCategory{{Category: "cybersecurity", Count: 12, TotalViews: 8000}}, nil
}

func (f *fakeReports) NewsAnalytics(_ context.Context, start, end time.Time, category string) (*admin.NewsAnalytics, error) {
	f.analyticsStart = start
	f.analyticsEnd = end
	f.category = category
	return &admin.NewsAnalytics{
		ViewsByDay: []admin.DailyBucket{{Date: "2026-08-01", Views: 300, Likes: 12, Articles: 2}},
	}, nil
}

func TestPeriod(t *testing.T) {
	assert.True(t, admin.Period7Days.Valid())
	assert.True(t, admin.PeriodYear.Valid())
	assert.False(t, admin.Period("14d").Valid())

	assert.Equal(t, 7*24*time.Hour, admin.Period7Days.Window())
	assert.Equal(t, 30*24*time.Hour, admin.Period30Days.Window())
	assert.Equal(t, 90*24*time.Hour, admin.Period90Days.Window())
	assert.Equal(t, 365*24*time.Hour, admin.PeriodYear.Window())
}

func TestService_Stats(t *testing.T) {
	reports := &fakeReports{}
	service := admin.NewService(reports)

	report, err := service.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 42, report.Stats.News.Total)
	assert.Equal(t, 5, reports.recentLimit)
	assert.Equal(t, 10, reports.topLimit)
	require.Len(t, report.RecentNews, 1)
	require.Len(t, report.TopCategories, 1)

	// Trends mirror the month figures.
	assert.Equal(t, 6, report.Trends.NewNews)
	assert.Equal(t, 1, report.Trends.NewUsers)
	assert.Equal(t, int64(2500), report.Trends.Views)

	// The comparison window reaches back one calendar month.
	expected := time.Now().AddDate(0, -1, 0)
	assert.WithinDuration(t, expected, reports.statsSince, time.Minute)
}

func TestService_Analytics(t *testing.T) {
	t.Run("defaults to 30 days", func(t *testing.T) {
		reports := &fakeReports{}
		service := admin.NewService(reports)

		report, err := service.Analytics(context.Background(), "", "")

		require.NoError(t, err)
		assert.Equal(t, admin.Period30Days, report.Period)
		assert.WithinDuration(t, reports.analyticsEnd.Add(-30*24*time.Hour), reports.analyticsStart, time.Second)
		assert.Equal(t, reports.analyticsStart, report.DateRange.StartDate)
		assert.Equal(t, reports.analyticsEnd, report.DateRange.EndDate)
	})

	t.Run("honors period and category", func(t *testing.T) {
		reports := &fakeReports{}
		service := admin.NewService(reports)

		report, err := service.Analytics(context.Background(), admin.Period7Days, "malware")

		require.NoError(t, err)
		assert.Equal(t, admin.Period7Days, report.Period)
		assert.Equal(t, "malware", reports.category)
		assert.WithinDuration(t, reports.analyticsEnd.Add(-7*24*time.Hour), reports.analyticsStart, time.Second)
		require.Len(t, report.Analytics.ViewsByDay, 1)
		assert.Equal(t, int64(300), report.Analytics.ViewsByDay[0].Views)
	})
}
