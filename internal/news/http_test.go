// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package news_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhphv/secnews/internal/news"
	"github.com/thanhphv/secnews/internal/platform/ctxutil"
	"github.com/thanhphv/secnews/internal/platform/sec"
)

// newTestRouter mounts the news routes with middlewares that attach the
// given identity directly, standing in for the JWT resolution chain. A nil
// identity leaves the request anonymous.
func newTestRouter(t *testing.T, identity *sec.Identity) (chi.Router, *fakeArticleRepository, *news.Service) {
	t.Helper()

	service, repo, _ := newTestService(t)
	attach := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if identity != nil {
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), identity))
			}
			next.ServeHTTP(writer, request)
		})
	}

	handler := news.NewHandler(service, attach, attach)
	return handler.Routes(), repo, service
}

// listBody is the slice of the paginated envelope these tests care about.
type listBody struct {
	Data struct {
		News []struct {
			Title  string `json:"title"`
			Status string `json:"status"`
		} `json:"news"`
	} `json:"data"`
}

/*
TestHandler_List_StatusOverride verifies that the status query parameter is
honored only for staff callers. A signed-in author asking for drafts must be
pinned to published at the boundary, exactly like an anonymous reader.
*/
func TestHandler_List_StatusOverride(t *testing.T) {
	seed := func(t *testing.T, service *news.Service) {
		t.Helper()
		seedArticle(t, service, authorIdentity(), draftInput())

		publishedInput := draftInput()
		publishedInput.Title = "Bản tin đã lên trang"
		publishedInput.Status = news.StatusPublished
		seedArticle(t, service, editorIdentity(), publishedInput)
	}

	t.Run("author request for drafts is pinned to published", func(t *testing.T) {
		router, repo, service := newTestRouter(t, authorIdentity())
		seed(t, service)

		request := httptest.NewRequest(http.MethodGet, "/?status=draft", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, news.StatusPublished, repo.lastFilter.Status)

		var body listBody
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		require.Len(t, body.Data.News, 1)
		assert.Equal(t, "Bản tin đã lên trang", body.Data.News[0].Title)
		assert.Equal(t, string(news.StatusPublished), body.Data.News[0].Status)
	})

	t.Run("editor keeps the draft filter", func(t *testing.T) {
		router, repo, service := newTestRouter(t, editorIdentity())
		seed(t, service)

		request := httptest.NewRequest(http.MethodGet, "/?status=draft", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, news.StatusDraft, repo.lastFilter.Status)

		var body listBody
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		require.Len(t, body.Data.News, 1)
		assert.Equal(t, string(news.StatusDraft), body.Data.News[0].Status)
	})
}
