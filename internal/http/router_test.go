package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookden/bookden/internal/auth"
	"github.com/bookden/bookden/internal/config"
	"github.com/bookden/bookden/internal/database"
	"github.com/bookden/bookden/internal/database/catalog"
	"github.com/bookden/bookden/internal/database/engagement"
	"github.com/bookden/bookden/internal/database/users"
	"github.com/bookden/bookden/internal/entities"
	"github.com/bookden/bookden/internal/storage"
)

// testApp bundles the fully wired router with direct store access so tests
// can seed data and mint tokens without going through HTTP.
type testApp struct {
	router     *gin.Engine
	db         *database.Database
	tokens     *auth.TokenService
	users      *users.Repository
	catalog    *catalog.Repository
	engagement *engagement.Repository
}

func setupTestApp(t *testing.T) (*testApp, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(config.Database{Driver: "sqlite", Path: dbPath})
	require.NoError(t, err)

	logger := zap.NewNop()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	userRepo := users.NewRepository(db.DB)
	catalogRepo := catalog.NewRepository(db.DB)
	engagementRepo := engagement.NewRepository(db.DB)

	files, err := storage.NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Logger:     logger,
		Middleware: auth.NewMiddleware(tokens, userRepo, logger),
		Tokens:     tokens,
		Users:      userRepo,
		Catalog:    catalogRepo,
		Engagement: engagementRepo,
		Files:      files,
		BcryptCost: 4,
	})

	app := &testApp{
		router:     router,
		db:         db,
		tokens:     tokens,
		users:      userRepo,
		catalog:    catalogRepo,
		engagement: engagementRepo,
	}
	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return app, cleanup
}

// createUser seeds a user directly and returns it with a valid token.
func (a *testApp) createUser(t *testing.T, username string, role entities.Role) (*entities.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("reading-is-fun", 4)
	require.NoError(t, err)
	user, err := a.users.Create(username, username+"@example.com", hash)
	require.NoError(t, err)

	if role != entities.RoleUser {
		err = a.db.DB.Model(&entities.User{}).Where("id = ?", user.ID).Update("role", role).Error
		require.NoError(t, err)
		user.Role = role
	}

	token, err := a.tokens.Issue(user.ID)
	require.NoError(t, err)
	return user, token
}

// createBook seeds a book, creating the named category on first use.
func (a *testApp) createBook(t *testing.T, title, categoryName string) *entities.Book {
	t.Helper()

	var categoryID *uint
	if categoryName != "" {
		var category entities.Category
		err := a.db.DB.Where("name = ?", categoryName).First(&category).Error
		if err != nil {
			created, err := a.catalog.CreateCategory(categoryName)
			require.NoError(t, err)
			category = *created
		}
		categoryID = &category.ID
	}

	book := &entities.Book{Title: title, Author: "Test Author", CategoryID: categoryID}
	require.NoError(t, a.catalog.CreateBook(book))
	return book
}

// doJSON performs a request with an optional JSON body and bearer token.
func (a *testApp) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
