package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookden/bookden/internal/auth"
	"github.com/bookden/bookden/internal/database/catalog"
	"github.com/bookden/bookden/internal/database/engagement"
	"github.com/bookden/bookden/internal/database/users"
	"github.com/bookden/bookden/internal/storage"
)

// RouterConfig carries every dependency the router needs, so tests can
// assemble the full HTTP surface against their own stores.
type RouterConfig struct {
	Logger     *zap.Logger
	Middleware *auth.Middleware
	Tokens     *auth.TokenService
	Users      *users.Repository
	Catalog    *catalog.Repository
	Engagement *engagement.Repository
	Files      storage.FileStore
	BcryptCost int
	UploadDir  string // when set, served at /uploads/books (local storage backend)
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(cfg.Logger))
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = MaxUploadSize

	if cfg.UploadDir != "" {
		router.Static("/uploads/books", cfg.UploadDir)
	}

	authController := NewAuthController(cfg.Users, cfg.Tokens, cfg.BcryptCost, cfg.Logger)
	booksController := NewBooksController(cfg.Catalog, cfg.Engagement, cfg.Logger)
	categoriesController := NewCategoriesController(cfg.Catalog, cfg.Logger)
	usersController := NewUsersController(cfg.Engagement, cfg.Logger)
	ratingsController := NewRatingsController(cfg.Engagement, cfg.Logger)
	adminController := NewAdminController(cfg.Catalog, cfg.Users, cfg.Files, cfg.Logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	api.POST("/auth/register", authController.Register)
	api.POST("/auth/login", authController.Login)

	api.GET("/books", booksController.GetBooks)
	api.GET("/books/:id", booksController.GetBook)
	api.GET("/books/:id/reviews", booksController.GetReviews)
	api.POST("/books/:id/rate", cfg.Middleware.RequireUser(), booksController.RateBook)
	api.GET("/books/:id/user-rating", cfg.Middleware.RequireUser(), booksController.GetUserRating)

	api.GET("/categories", categoriesController.GetCategories)
	api.GET("/categories/:id/books", categoriesController.GetCategoryBooks)

	api.GET("/ratings/average/:bookId", ratingsController.GetAverage)
	api.DELETE("/ratings/:id", cfg.Middleware.RequireUser(), ratingsController.DeleteRating)

	userRoutes := api.Group("/users", cfg.Middleware.RequireUser())
	userRoutes.GET("/favorites", usersController.GetFavorites)
	userRoutes.POST("/favorites", usersController.ToggleFavorite)
	userRoutes.GET("/favorites/check/:bookId", usersController.CheckFavorite)
	userRoutes.GET("/history", usersController.GetHistory)
	userRoutes.POST("/history", usersController.UpdateHistory)

	adminRoutes := api.Group("/admin", cfg.Middleware.RequireAdmin())
	adminRoutes.POST("/books", adminController.CreateBook)
	adminRoutes.PUT("/books/:id", adminController.UpdateBook)
	adminRoutes.DELETE("/books/:id", adminController.DeleteBook)
	adminRoutes.GET("/users", adminController.ListUsers)
	adminRoutes.POST("/categories", adminController.CreateCategory)

	return router
}
