// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package news

import (
	"time"

	"github.com/thanhphv/secnews/internal/platform/sec"
)

// # Sort Orders

// Sort selects the ordering of a listing.
type Sort string

// Staff sorts. Newest/oldest order by publication time with creation time as
// tiebreak; title sorts alphabetically ascending.
const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
	SortViews  Sort = "views"
	SortLikes  Sort = "likes"
	SortTitle  Sort = "title"
)

// Mobile-only sorts layered on top of the staff set.
const (
	SortPopular  Sort = "popular"
	SortTrending Sort = "trending"
)

// ValidStaff reports whether the sort is accepted on staff listings.
func (sort Sort) ValidStaff() bool {
	switch sort {
	case SortNewest, SortOldest, SortViews, SortLikes, SortTitle:
		return true
	}
	return false
}

// ValidPublic reports whether the sort is accepted on public listings.
func (sort Sort) ValidPublic() bool {
	switch sort {
	case SortNewest, SortOldest, SortPopular, SortTrending:
		return true
	}
	return false
}

// # Query Model

/*
Filter is the normalized query that the repository translates into SQL.

Description: Handlers never hand raw request input to the store. They build
a Filter, then pass it through [Filter.ApplyVisibility] so the caller's
privileges are encoded in the query itself rather than re-checked downstream.

Fields:
  - Status: publication-state filter, staff only
  - Category: exact category match
  - AuthorEmail: match on the denormalized author snapshot
  - Search: case-insensitive substring over title, summary and content
  - Tags: any-of match against the lowercase tag set
  - Breaking/Featured: flag filters used by the hot-list endpoints
  - PublishedAfter: lower bound on publication time (trending window)
  - Sort: ordering, defaulting to [SortNewest]
  - IncludeContent: whether the projection carries the article body
*/
type Filter struct {
	Status         Status
	Category       Category
	AuthorEmail    string
	Search         string
	Tags           []string
	Breaking       *bool
	Featured       *bool
	PublishedAfter *time.Time
	Sort           Sort
	IncludeContent bool
}

// TrendingWindow is how far back the trending listing reaches.
const TrendingWindow = 7 * 24 * time.Hour

// ApplyVisibility folds the caller's privileges into the filter.
//
// # Visibility Rule
//
// This is the highest-precedence rule in the query model: anonymous callers
// and authors see only published articles, and any status filter they sent
// is overridden rather than rejected. Staff keep whatever status filter they
// asked for, including none. Non-staff projections also drop the article
// body to keep list payloads lean.
func (filter *Filter) ApplyVisibility(identity *sec.Identity) {
	if identity.IsStaff() {
		filter.IncludeContent = true
		return
	}
	filter.Status = StatusPublished
	filter.IncludeContent = false
}

// PublishedOnly returns a filter pinned to published articles, the baseline
// for every public endpoint.
func PublishedOnly() Filter {
	return Filter{Status: StatusPublished, Sort: SortNewest}
}
