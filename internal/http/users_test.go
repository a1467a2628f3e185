package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookden/bookden/internal/database/engagement"
	"github.com/bookden/bookden/internal/entities"
)

func TestFavorites(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	book := app.createBook(t, "Dune", "Fiction")
	_, token := app.createUser(t, "alice", entities.RoleUser)

	t.Run("all endpoints require a token", func(t *testing.T) {
		for _, req := range []struct{ method, path string }{
			{"GET", "/api/users/favorites"},
			{"POST", "/api/users/favorites"},
			{"GET", "/api/users/favorites/check/1"},
		} {
			w := app.doJSON(t, req.method, req.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", req.method, req.path)
		}
	})

	t.Run("empty before any toggle", func(t *testing.T) {
		w := app.doJSON(t, "GET", "/api/users/favorites", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())

		w = app.doJSON(t, "GET", "/api/users/favorites/check/1", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"isFavorite":false}`, w.Body.String())
	})

	t.Run("toggle on then off", func(t *testing.T) {
		w := app.doJSON(t, "POST", "/api/users/favorites", token, map[string]any{"bookId": book.ID})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"isFavorite":true`)
		assert.Contains(t, w.Body.String(), "Added to favorites")

		w = app.doJSON(t, "GET", "/api/users/favorites", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		favorites := decodeBody[[]engagement.FavoriteBook](t, w)
		require.Len(t, favorites, 1)
		assert.Equal(t, "Dune", favorites[0].Title)
		require.NotNil(t, favorites[0].CategoryName)
		assert.Equal(t, "Fiction", *favorites[0].CategoryName)

		w = app.doJSON(t, "POST", "/api/users/favorites", token, map[string]any{"bookId": book.ID})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"isFavorite":false`)
		assert.Contains(t, w.Body.String(), "Removed from favorites")

		w = app.doJSON(t, "GET", "/api/users/favorites", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("missing book id", func(t *testing.T) {
		w := app.doJSON(t, "POST", "/api/users/favorites", token, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Book ID is required")
	})
}

func TestHistory(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	book := app.createBook(t, "Dune", "Fiction")
	_, token := app.createUser(t, "alice", entities.RoleUser)

	t.Run("requires a token", func(t *testing.T) {
		w := app.doJSON(t, "GET", "/api/users/history", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects non-positive pages", func(t *testing.T) {
		for _, page := range []int{0, -3} {
			w := app.doJSON(t, "POST", "/api/users/history", token, map[string]any{"bookId": book.ID, "lastReadPage": page})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Page must be a positive number")
		}
	})

	t.Run("upserts progress per book", func(t *testing.T) {
		w := app.doJSON(t, "POST", "/api/users/history", token, map[string]any{"bookId": book.ID, "lastReadPage": 10})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Reading progress updated")

		w = app.doJSON(t, "POST", "/api/users/history", token, map[string]any{"bookId": book.ID, "lastReadPage": 42})
		require.Equal(t, http.StatusOK, w.Code)

		w = app.doJSON(t, "GET", "/api/users/history", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		entries := decodeBody[[]engagement.HistoryEntry](t, w)
		require.Len(t, entries, 1)
		assert.Equal(t, "Dune", entries[0].Title)
		assert.Equal(t, 42, entries[0].LastReadPage)
	})
}
