// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package news_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhphv/secnews/internal/news"
)

/*
TestComputeReadingTime verifies the words-per-minute derivation.

Scope:
  - Empty and tiny content still report one minute.
  - Word counts round up to the next whole minute.
*/
func TestComputeReadingTime(t *testing.T) {
	assert.Equal(t, 1, news.ComputeReadingTime(""))
	assert.Equal(t, 1, news.ComputeReadingTime("zero-day advisory"))
	assert.Equal(t, 1, news.ComputeReadingTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, news.ComputeReadingTime(strings.Repeat("word ", 201)))
	assert.Equal(t, 5, news.ComputeReadingTime(strings.Repeat("word ", 900)))
}

/*
TestArticle_ApplyStatus verifies publication-timestamp reconciliation.

Scope:
  - Entering published stamps the clock reading.
  - An explicit caller timestamp wins over the clock when entering.
  - Leaving published clears the timestamp.
  - Outside the entering transition the explicit timestamp is ignored, so
    the timestamp is set exactly when the article is published.
*/
func TestArticle_ApplyStatus(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	t.Run("entering published stamps now", func(t *testing.T) {
		article := &news.Article{Status: news.StatusDraft}
		article.ApplyStatus(news.StatusPublished, nil, now)

		require.NotNil(t, article.PublishedAt)
		assert.Equal(t, now, *article.PublishedAt)
		assert.Equal(t, news.StatusPublished, article.Status)
	})

	t.Run("explicit timestamp honored", func(t *testing.T) {
		explicit := now.Add(-48 * time.Hour)
		article := &news.Article{Status: news.StatusDraft}
		article.ApplyStatus(news.StatusPublished, &explicit, now)

		require.NotNil(t, article.PublishedAt)
		assert.Equal(t, explicit, *article.PublishedAt)
	})

	t.Run("leaving published clears timestamp", func(t *testing.T) {
		stamp := now
		article := &news.Article{Status: news.StatusPublished, PublishedAt: &stamp}
		article.ApplyStatus(news.StatusArchived, nil, now)

		assert.Nil(t, article.PublishedAt)
		assert.Equal(t, news.StatusArchived, article.Status)
	})

	t.Run("draft ignores explicit timestamp", func(t *testing.T) {
		explicit := now.Add(24 * time.Hour)
		article := &news.Article{Status: news.StatusDraft}
		article.ApplyStatus(news.StatusDraft, &explicit, now)

		assert.Nil(t, article.PublishedAt)
		assert.Equal(t, news.StatusDraft, article.Status)
	})

	t.Run("staying published keeps the original stamp", func(t *testing.T) {
		stamp := now.Add(-72 * time.Hour)
		explicit := now
		article := &news.Article{Status: news.StatusPublished, PublishedAt: &stamp}
		article.ApplyStatus(news.StatusPublished, &explicit, now)

		require.NotNil(t, article.PublishedAt)
		assert.Equal(t, stamp, *article.PublishedAt)
	})
}

/*
TestArticle_RefreshDerived verifies slug and reading-time derivation from
the source fields.
*/
func TestArticle_RefreshDerived(t *testing.T) {
	article := &news.Article{
		Title:   "Lỗ hổng Zero-Day trong OpenSSL",
		Content: strings.Repeat("payload ", 450),
	}
	article.RefreshDerived()

	assert.Equal(t, "lo-hong-zero-day-trong-openssl", article.Slug)
	assert.Equal(t, 3, article.ReadingTime)
}

/*
TestNormalizeTags verifies lowercasing, trimming, and deduplication while
preserving first-seen order.
*/
func TestNormalizeTags(t *testing.T) {
	normalized := news.NormalizeTags([]string{" Ransomware", "CVE-2026-1234", "ransomware", "", "  "})
	assert.Equal(t, []string{"ransomware", "cve-2026-1234"}, normalized)

	assert.Nil(t, news.NormalizeTags(nil))
	assert.Nil(t, news.NormalizeTags([]string{"", "   "}))
}

/*
TestEnums verifies the closed enumeration sets.
*/
func TestEnums(t *testing.T) {
	assert.True(t, news.CategoryDataBreach.Valid())
	assert.False(t, news.Category("sports").Valid())

	assert.True(t, news.StatusArchived.Valid())
	assert.False(t, news.Status("pending").Valid())

	assert.True(t, news.PriorityUrgent.Valid())
	assert.False(t, news.Priority("critical").Valid())

	// Every category carries a display label.
	for _, category := range news.AllCategories {
		assert.NotEmpty(t, news.CategoryLabels[category])
	}
}
