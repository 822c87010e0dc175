// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package news_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhphv/secnews/internal/news"
	"github.com/thanhphv/secnews/internal/platform/apperr"
	"github.com/thanhphv/secnews/internal/platform/sec"
)

// fakeArticleRepository is an in-memory ArticleRepository for service tests.
// It records the last filter so tests can assert what the service asked for.
type fakeArticleRepository struct {
	articles   map[string]*news.Article
	lastFilter news.Filter
}

func newFakeArticleRepository() *fakeArticleRepository {
	return &fakeArticleRepository{articles: make(map[string]*news.Article)}
}

func (repo *fakeArticleRepository) List(_ context.Context, filter news.Filter, limit, offset int) ([]*news.Article, int, error) {
	repo.lastFilter = filter

	var matched []*news.Article
	for _, article := range repo.articles {
		if filter.Status != "" && article.Status != filter.Status {
			continue
		}
		if filter.Category != "" && article.Category != filter.Category {
			continue
		}
		if filter.Breaking != nil && article.IsBreaking != *filter.Breaking {
			continue
		}
		if filter.Featured != nil && article.IsFeatured != *filter.Featured {
			continue
		}
		copied := *article
		if !filter.IncludeContent {
			copied.Content = ""
		}
		matched = append(matched, &copied)
	}

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repo *fakeArticleRepository) FindByID(_ context.Context, id string) (*news.Article, error) {
	if article, ok := repo.articles[id]; ok {
		copied := *article
		return &copied, nil
	}
	return nil, apperr.NotFound("Article")
}

func (repo *fakeArticleRepository) Create(_ context.Context, article *news.Article) error {
	copied := *article
	repo.articles[article.ID] = &copied
	return nil
}

func (repo *fakeArticleRepository) Update(_ context.Context, article *news.Article) error {
	if _, ok := repo.articles[article.ID]; !ok {
		return apperr.NotFound("Article")
	}
	copied := *article
	repo.articles[article.ID] = &copied
	return nil
}

func (repo *fakeArticleRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.articles[id]; !ok {
		return apperr.NotFound("Article")
	}
	delete(repo.articles, id)
	return nil
}

func (repo *fakeArticleRepository) IncrementViews(_ context.Context, id string) (int64, error) {
	return repo.increment(id, func(a *news.Article) *int64 { return &a.Views })
}

func (repo *fakeArticleRepository) IncrementLikes(_ context.Context, id string) (int64, error) {
	return repo.increment(id, func(a *news.Article) *int64 { return &a.Likes })
}

func (repo *fakeArticleRepository) IncrementShares(_ context.Context, id string) (int64, error) {
	return repo.increment(id, func(a *news.Article) *int64 { return &a.Shares })
}

func (repo *fakeArticleRepository) increment(id string, counter func(*news.Article) *int64) (int64, error) {
	article, ok := repo.articles[id]
	if !ok {
		return 0, apperr.NotFound("Article")
	}
	target := counter(article)
	*target++
	return *target, nil
}

func (repo *fakeArticleRepository) CountByAuthorEmail(_ context.Context, email string) (int, error) {
	count := 0
	for _, article := range repo.articles {
		if article.Author.Email == email {
			count++
		}
	}
	return count, nil
}

func (repo *fakeArticleRepository) CategoryCounts(_ context.Context) ([]news.CategoryCount, error) {
	counts := make(map[news.Category]int)
	for _, article := range repo.articles {
		if article.Status == news.StatusPublished {
			counts[article.Category]++
		}
	}
	result := make([]news.CategoryCount, 0, len(news.AllCategories))
	for _, category := range news.AllCategories {
		result = append(result, news.CategoryCount{
			ID:    category,
			Name:  news.CategoryLabels[category],
			Count: counts[category],
		})
	}
	return result, nil
}

// fakeHotListCache is an in-memory HotListCache counting invalidations.
type fakeHotListCache struct {
	entries       map[string][]*news.Article
	invalidations int
}

func newFakeHotListCache() *fakeHotListCache {
	return &fakeHotListCache{entries: make(map[string][]*news.Article)}
}

func (cache *fakeHotListCache) Get(_ context.Context, name string, _ int) ([]*news.Article, bool, error) {
	articles, ok := cache.entries[name]
	return articles, ok, nil
}

func (cache *fakeHotListCache) Set(_ context.Context, name string, _ int, articles []*news.Article) error {
	cache.entries[name] = articles
	return nil
}

func (cache *fakeHotListCache) Invalidate(_ context.Context) error {
	cache.entries = make(map[string][]*news.Article)
	cache.invalidations++
	return nil
}

// # Test Fixtures

func adminIdentity() *sec.Identity {
	return &sec.Identity{
		UserID:      "usr-admin",
		Username:    "root",
		Email:       "admin@secnews.vn",
		Role:        sec.RoleAdmin,
		Permissions: sec.CanonicalPermissions(sec.RoleAdmin),
		DisplayName: "Phạm Văn Thành",
	}
}

func editorIdentity() *sec.Identity {
	return &sec.Identity{
		UserID:      "usr-editor",
		Username:    "deskchief",
		Email:       "editor@secnews.vn",
		Role:        sec.RoleEditor,
		Permissions: sec.CanonicalPermissions(sec.RoleEditor),
		DisplayName: "Desk Chief",
	}
}

func authorIdentity() *sec.Identity {
	return &sec.Identity{
		UserID:      "usr-author",
		Username:    "fieldreporter",
		Email:       "reporter@secnews.vn",
		Role:        sec.RoleAuthor,
		Permissions: sec.CanonicalPermissions(sec.RoleAuthor),
		DisplayName: "Field Reporter",
	}
}

func newTestService(t *testing.T) (*news.Service, *fakeArticleRepository, *fakeHotListCache) {
	t.Helper()
	repo := newFakeArticleRepository()
	cache := newFakeHotListCache()
	return news.NewService(repo, cache), repo, cache
}

func seedArticle(t *testing.T, service *news.Service, identity *sec.Identity, input news.CreateInput) *news.Article {
	t.Helper()
	article, err := service.Create(context.Background(), identity, input)
	require.NoError(t, err)
	return article
}

func draftInput() news.CreateInput {
	return news.CreateInput{
		Title:    "Chiến dịch phishing nhắm vào ngân hàng",
		Summary:  "Một làn sóng phishing mới đang lan rộng.",
		Content:  "Chi tiết về chiến dịch và các chỉ số xâm phạm.",
		Category: news.CategoryCybersecurity,
		Tags:     []string{"Phishing", "banking"},
	}
}

// # Authoring Tests

/*
TestService_Create verifies creation defaults and the author snapshot.

Scope:
  - Status defaults to draft, priority to normal.
  - The author snapshot comes from the identity, not the payload.
  - Tags are normalized, slug and reading time derived.
  - Breaking/featured flags are dropped for non-admin callers.
*/
func TestService_Create(t *testing.T) {
	service, repo, _ := newTestService(t)

	input := draftInput()
	input.IsBreaking = true
	input.IsFeatured = true

	article := seedArticle(t, service, authorIdentity(), input)

	assert.Equal(t, news.StatusDraft, article.Status)
	assert.Equal(t, news.PriorityNormal, article.Priority)
	assert.Nil(t, article.PublishedAt)
	assert.Equal(t, "Field Reporter", article.Author.Name)
	assert.Equal(t, "reporter@secnews.vn", article.Author.Email)
	assert.Equal(t, []string{"phishing", "banking"}, article.Tags)
	assert.Equal(t, "chien-dich-phishing-nham-vao-ngan-hang", article.Slug)
	assert.GreaterOrEqual(t, article.ReadingTime, 1)

	// Flags are admin-only; the author's request carried them but they
	// must not stick.
	assert.False(t, article.IsBreaking)
	assert.False(t, article.IsFeatured)

	stored, err := repo.FindByID(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, article.Slug, stored.Slug)
}

func TestService_Create_PublishGate(t *testing.T) {
	service, _, _ := newTestService(t)

	input := draftInput()
	input.Status = news.StatusPublished

	// Authors hold create_news but not publish_news.
	_, err := service.Create(context.Background(), authorIdentity(), input)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// Editors hold publish_news; publishedAt gets stamped.
	article, err := service.Create(context.Background(), editorIdentity(), input)
	require.NoError(t, err)
	require.NotNil(t, article.PublishedAt)
	assert.Equal(t, news.StatusPublished, article.Status)
}

func TestService_Create_InvalidCategory(t *testing.T) {
	service, _, _ := newTestService(t)

	input := draftInput()
	input.Category = news.Category("sports")

	_, err := service.Create(context.Background(), authorIdentity(), input)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_Update verifies ownership, the publish gate, and derived-field
refresh on update.
*/
func TestService_Update(t *testing.T) {
	t.Run("owner edits own draft", func(t *testing.T) {
		service, _, _ := newTestService(t)
		article := seedArticle(t, service, authorIdentity(), draftInput())

		title := "Cập nhật: chiến dịch phishing mở rộng"
		updated, err := service.Update(context.Background(), authorIdentity(), article.ID, news.UpdateInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.Equal(t, "cap-nhat-chien-dich-phishing-mo-rong", updated.Slug)
	})

	t.Run("non-admin cannot edit another author's article", func(t *testing.T) {
		service, _, _ := newTestService(t)
		article := seedArticle(t, service, authorIdentity(), draftInput())

		title := "Hijacked"
		_, err := service.Update(context.Background(), editorIdentity(), article.ID, news.UpdateInput{Title: &title})
		require.Error(t, err)
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "FORBIDDEN", appErr.Code)
		assert.Equal(t, "You can only modify your own articles", appErr.Message)
	})

	t.Run("admin edits any article", func(t *testing.T) {
		service, _, _ := newTestService(t)
		article := seedArticle(t, service, authorIdentity(), draftInput())

		title := "Tiêu đề do tổng biên tập sửa"
		updated, err := service.Update(context.Background(), adminIdentity(), article.ID, news.UpdateInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
	})

	t.Run("publish gate rejects author", func(t *testing.T) {
		service, _, _ := newTestService(t)
		article := seedArticle(t, service, authorIdentity(), draftInput())

		published := news.StatusPublished
		_, err := service.Update(context.Background(), authorIdentity(), article.ID, news.UpdateInput{Status: &published})
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("admin publish stamps and archive clears", func(t *testing.T) {
		service, _, _ := newTestService(t)
		article := seedArticle(t, service, adminIdentity(), draftInput())

		published := news.StatusPublished
		updated, err := service.Update(context.Background(), adminIdentity(), article.ID, news.UpdateInput{Status: &published})
		require.NoError(t, err)
		require.NotNil(t, updated.PublishedAt)

		archived := news.StatusArchived
		updated, err = service.Update(context.Background(), adminIdentity(), article.ID, news.UpdateInput{Status: &archived})
		require.NoError(t, err)
		assert.Nil(t, updated.PublishedAt)
	})

	t.Run("publishedAt alone never stamps a draft", func(t *testing.T) {
		service, _, _ := newTestService(t)
		article := seedArticle(t, service, authorIdentity(), draftInput())

		when := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		updated, err := service.Update(context.Background(), authorIdentity(), article.ID, news.UpdateInput{PublishedAt: &when})
		require.NoError(t, err)
		assert.Equal(t, news.StatusDraft, updated.Status)
		assert.Nil(t, updated.PublishedAt)
	})

	t.Run("content change refreshes reading time", func(t *testing.T) {
		service, _, _ := newTestService(t)
		article := seedArticle(t, service, authorIdentity(), draftInput())
		assert.Equal(t, 1, article.ReadingTime)

		longContent := strings.Repeat("từ ", 500)
		updated, err := service.Update(context.Background(), authorIdentity(), article.ID, news.UpdateInput{Content: &longContent})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.ReadingTime)
	})

	t.Run("flags silently dropped for non-admin", func(t *testing.T) {
		service, _, _ := newTestService(t)
		article := seedArticle(t, service, authorIdentity(), draftInput())

		flag := true
		updated, err := service.Update(context.Background(), authorIdentity(), article.ID, news.UpdateInput{IsBreaking: &flag, IsFeatured: &flag})
		require.NoError(t, err)
		assert.False(t, updated.IsBreaking)
		assert.False(t, updated.IsFeatured)

		updated, err = service.Update(context.Background(), adminIdentity(), article.ID, news.UpdateInput{IsBreaking: &flag})
		require.NoError(t, err)
		assert.True(t, updated.IsBreaking)
	})
}

/*
TestService_Delete verifies the deletion matrix: staff delete freely,
authors only their own drafts.
*/
func TestService_Delete(t *testing.T) {
	t.Run("author deletes own draft", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		article := seedArticle(t, service, authorIdentity(), draftInput())

		require.NoError(t, service.Delete(context.Background(), authorIdentity(), article.ID))
		_, err := repo.FindByID(context.Background(), article.ID)
		assert.Error(t, err)
	})

	t.Run("author cannot delete own published article", func(t *testing.T) {
		service, _, _ := newTestService(t)

		input := draftInput()
		input.Status = news.StatusPublished
		article := seedArticle(t, service, adminIdentity(), input)

		// The author's own article, published on their behalf by an admin.
		own := seedArticle(t, service, authorIdentity(), draftInput())
		published := news.StatusPublished
		_, err := service.Update(context.Background(), adminIdentity(), own.ID, news.UpdateInput{Status: &published})
		require.NoError(t, err)

		err = service.Delete(context.Background(), authorIdentity(), own.ID)
		require.Error(t, err)
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "You can only delete your own draft articles", appErr.Message)

		// Someone else's article is off limits entirely.
		err = service.Delete(context.Background(), authorIdentity(), article.ID)
		require.Error(t, err)
	})

	t.Run("editor deletes any article", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		article := seedArticle(t, service, authorIdentity(), draftInput())

		require.NoError(t, service.Delete(context.Background(), editorIdentity(), article.ID))
		_, err := repo.FindByID(context.Background(), article.ID)
		assert.Error(t, err)
	})
}

// # Visibility & Retrieval Tests

/*
TestService_List_Visibility verifies that the caller's privileges are folded
into the store filter.
*/
func TestService_List_Visibility(t *testing.T) {
	service, repo, _ := newTestService(t)

	t.Run("anonymous pinned to published without content", func(t *testing.T) {
		_, _, err := service.List(context.Background(), nil, news.Filter{Status: news.StatusDraft}, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, news.StatusPublished, repo.lastFilter.Status)
		assert.False(t, repo.lastFilter.IncludeContent)
	})

	t.Run("author pinned like anonymous", func(t *testing.T) {
		_, _, err := service.List(context.Background(), authorIdentity(), news.Filter{Status: news.StatusDraft}, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, news.StatusPublished, repo.lastFilter.Status)
	})

	t.Run("staff keep their status filter and content", func(t *testing.T) {
		_, _, err := service.List(context.Background(), editorIdentity(), news.Filter{Status: news.StatusDraft}, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, news.StatusDraft, repo.lastFilter.Status)
		assert.True(t, repo.lastFilter.IncludeContent)
	})
}

/*
TestService_Get verifies single-article visibility and view counting.
*/
func TestService_Get(t *testing.T) {
	service, _, _ := newTestService(t)

	draft := seedArticle(t, service, authorIdentity(), draftInput())

	publishedInput := draftInput()
	publishedInput.Title = "Bản tin đã xuất bản"
	publishedInput.Status = news.StatusPublished
	published := seedArticle(t, service, editorIdentity(), publishedInput)

	t.Run("draft invisible to anonymous", func(t *testing.T) {
		_, err := service.Get(context.Background(), nil, draft.ID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("draft visible to staff without view increment", func(t *testing.T) {
		article, err := service.Get(context.Background(), editorIdentity(), draft.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), article.Views)
	})

	t.Run("published read counts a view", func(t *testing.T) {
		article, err := service.Get(context.Background(), nil, published.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), article.Views)

		article, err = service.Get(context.Background(), adminIdentity(), published.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), article.Views)
	})
}

// # Interaction Tests

/*
TestService_LikeShare verifies the published-only interaction gate and the
returned counter values.
*/
func TestService_LikeShare(t *testing.T) {
	service, _, _ := newTestService(t)

	draft := seedArticle(t, service, authorIdentity(), draftInput())

	publishedInput := draftInput()
	publishedInput.Title = "Bản tin tương tác"
	publishedInput.Status = news.StatusPublished
	published := seedArticle(t, service, editorIdentity(), publishedInput)

	t.Run("draft rejects interactions with 400", func(t *testing.T) {
		_, err := service.Like(context.Background(), draft.ID)
		require.Error(t, err)
		assert.Equal(t, "INVALID_ACTION", apperr.As(err).Code)

		_, err = service.Share(context.Background(), draft.ID)
		require.Error(t, err)
		assert.Equal(t, "INVALID_ACTION", apperr.As(err).Code)
	})

	t.Run("counters are monotonic and returned", func(t *testing.T) {
		likes, err := service.Like(context.Background(), published.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), likes)

		likes, err = service.Like(context.Background(), published.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), likes)

		shares, err := service.Share(context.Background(), published.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), shares)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		_, err := service.Like(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

// # Hot List Tests

/*
TestService_HotLists verifies cache population, hits, and write
invalidation.
*/
func TestService_HotLists(t *testing.T) {
	service, _, cache := newTestService(t)

	input := draftInput()
	input.Status = news.StatusPublished
	input.IsBreaking = true
	input.IsFeatured = true
	seedArticle(t, service, adminIdentity(), input)
	invalidationsAfterSeed := cache.invalidations

	breaking, err := service.Breaking(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, breaking, 1)

	// Second read must be served from the cache.
	_, hit, err := cache.Get(context.Background(), "breaking", 5)
	require.NoError(t, err)
	assert.True(t, hit)

	featured, err := service.Featured(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, featured, 1)

	trending, err := service.Trending(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, trending, 1)

	// Any write drops every slot.
	seedArticle(t, service, authorIdentity(), draftInput())
	assert.Equal(t, invalidationsAfterSeed+1, cache.invalidations)
	_, hit, err = cache.Get(context.Background(), "breaking", 5)
	require.NoError(t, err)
	assert.False(t, hit)
}

// # Taxonomy Tests

func TestService_Categories(t *testing.T) {
	service, _, _ := newTestService(t)

	input := draftInput()
	input.Status = news.StatusPublished
	seedArticle(t, service, editorIdentity(), input)

	// Drafts never count.
	seedArticle(t, service, authorIdentity(), draftInput())

	counts, err := service.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, len(news.AllCategories))

	assert.Equal(t, news.CategoryCybersecurity, counts[0].ID)
	assert.Equal(t, "An ninh mạng", counts[0].Name)
	assert.Equal(t, 1, counts[0].Count)

	for _, count := range counts[1:] {
		assert.Zero(t, count.Count)
	}
}

// TestTrendingWindow pins the window constant the trending endpoint
// advertises.
func TestTrendingWindow(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, news.TrendingWindow)
}
