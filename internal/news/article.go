// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

/*
Package news implements the security-bulletin article domain.

It owns the article entity, its lifecycle rules (publication stamping,
reading-time derivation), the query model for staff and public listings,
and the persistence and caching layers behind them.

# Architecture

The article carries a denormalized author snapshot taken from the caller's
resolved identity at creation time. Ownership checks compare against that
snapshot, so articles stay attributable even after the authoring account
changes.
*/
package news

import (
	"strings"
	"time"

	"github.com/thanhphv/secnews/pkg/slug"
)

// # Enumerations

// Category classifies an article within the security-news taxonomy.
type Category string

// Editorial categories. The set is closed; unknown values are rejected at
// the HTTP boundary.
const (
	CategoryCybersecurity Category = "cybersecurity"
	CategoryMalware       Category = "malware"
	CategoryDataBreach    Category = "data-breach"
	CategoryPrivacy       Category = "privacy"
	CategoryTrends        Category = "trends"
	CategoryTips          Category = "tips"
	CategoryAlerts        Category = "alerts"
	CategoryGeneral       Category = "general"
)

// AllCategories lists every category in presentation order.
var AllCategories = []Category{
	CategoryCybersecurity,
	CategoryMalware,
	CategoryDataBreach,
	CategoryPrivacy,
	CategoryTrends,
	CategoryTips,
	CategoryAlerts,
	CategoryGeneral,
}

// CategoryLabels maps each category to its Vietnamese display name, served
// verbatim by the public categories endpoint.
var CategoryLabels = map[Category]string{
	CategoryCybersecurity: "An ninh mạng",
	CategoryMalware:       "Phần mềm độc hại",
	CategoryDataBreach:    "Rò rỉ dữ liệu",
	CategoryPrivacy:       "Quyền riêng tư",
	CategoryTrends:        "Xu hướng",
	CategoryTips:          "Mẹo bảo mật",
	CategoryAlerts:        "Cảnh báo",
	CategoryGeneral:       "Tổng quát",
}

// Valid reports whether the category is part of the taxonomy.
func (category Category) Valid() bool {
	_, ok := CategoryLabels[category]
	return ok
}

// Status is the publication state of an article.
type Status string

// Publication states. The graph is flat: any state may transition to any
// other, subject to the publish permission gate.
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether the status is a known publication state.
func (status Status) Valid() bool {
	switch status {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Priority is the editorial urgency of an article.
type Priority string

// Urgency levels, from routine coverage to active-incident alerts.
const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether the priority is a known urgency level.
func (priority Priority) Valid() bool {
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// # Domain Entities

// Author is the denormalized snapshot of the article's creator, captured
// from the resolved identity at creation time.
type Author struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// SEOMetadata holds the optional search-engine presentation fields.
type SEOMetadata struct {
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
}

// Article is a security bulletin.
//
// Views, Likes and Shares are monotonic counters mutated only through the
// repository's atomic increment operations, never through [ArticleRepository.Update].
type Article struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Summary     string      `json:"summary"`
	Content     string      `json:"content,omitempty"`
	Category    Category    `json:"category"`
	Tags        []string    `json:"tags"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	Author      Author      `json:"author"`
	Status      Status      `json:"status"`
	Priority    Priority    `json:"priority"`
	PublishedAt *time.Time  `json:"publishedAt,omitempty"`
	Views       int64       `json:"views"`
	Likes       int64       `json:"likes"`
	Shares      int64       `json:"shares"`
	ReadingTime int         `json:"readingTime"`
	IsBreaking  bool        `json:"isBreaking"`
	IsFeatured  bool        `json:"isFeatured"`
	SEOMetadata SEOMetadata `json:"seoMetadata"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// wordsPerMinute is the assumed reading speed for the reading-time estimate.
const wordsPerMinute = 200

// # Lifecycle Rules

// ComputeReadingTime estimates reading time in whole minutes for the given
// content, never reporting less than one minute.
func ComputeReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// RefreshDerived recomputes the fields derived from title and content.
// Called whenever either source field changes.
func (article *Article) RefreshDerived() {
	article.Slug = slug.From(article.Title)
	article.ReadingTime = ComputeReadingTime(article.Content)
}

/*
ApplyStatus transitions the article to the given status and reconciles the
publication timestamp.

Description: Entering published stamps PublishedAt with the current time
unless the caller supplied an explicit timestamp; leaving published clears
it. The explicit timestamp is consulted only when entering published, so
PublishedAt is set exactly when the article is published.

Parameters:
  - next: Status target publication state
  - explicit: *time.Time caller-supplied publication timestamp, or nil
  - now: time.Time clock reading used when no explicit timestamp is given
*/
func (article *Article) ApplyStatus(next Status, explicit *time.Time, now time.Time) {
	entering := next == StatusPublished && article.Status != StatusPublished
	leaving := next != StatusPublished && article.Status == StatusPublished

	article.Status = next

	switch {
	case entering:
		if explicit != nil {
			article.PublishedAt = explicit
		} else {
			stamp := now
			article.PublishedAt = &stamp
		}
	case leaving:
		article.PublishedAt = nil
	}
}

// NormalizeTags lowercases and trims tags, dropping empties and duplicates
// while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	var normalized []string
	for _, tag := range tags {
		clean := strings.ToLower(strings.TrimSpace(tag))
		if clean == "" {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		normalized = append(normalized, clean)
	}
	return normalized
}
