package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookden/bookden/internal/database/engagement"
)

// EngagementStore defines the favorite and history operations the user
// endpoints need.
type EngagementStore interface {
	ToggleFavorite(userID, bookID uint) (bool, error)
	IsFavorite(userID, bookID uint) (bool, error)
	ListFavorites(userID uint) ([]engagement.FavoriteBook, error)
	RecordProgress(userID, bookID uint, page int) error
	ListHistory(userID uint) ([]engagement.HistoryEntry, error)
}

type UsersController struct {
	engagement EngagementStore
	logger     *zap.Logger
}

func NewUsersController(store EngagementStore, logger *zap.Logger) *UsersController {
	return &UsersController{engagement: store, logger: logger}
}

// GetFavorites lists the caller's favorited books.
// GET /api/users/favorites
func (uc *UsersController) GetFavorites(c *gin.Context) {
	books, err := uc.engagement.ListFavorites(GetUserID(c))
	if err != nil {
		respondInternalError(c, uc.logger, err, "list favorites")
		return
	}
	if books == nil {
		books = []engagement.FavoriteBook{}
	}
	c.JSON(http.StatusOK, books)
}

type toggleFavoriteRequest struct {
	BookID uint `json:"bookId"`
}

// ToggleFavorite flips the membership of a book in the caller's favorites.
// POST /api/users/favorites
func (uc *UsersController) ToggleFavorite(c *gin.Context) {
	var req toggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BookID == 0 {
		respondBadRequest(c, "Book ID is required")
		return
	}

	isFavorite, err := uc.engagement.ToggleFavorite(GetUserID(c), req.BookID)
	if err != nil {
		respondInternalError(c, uc.logger, err, "toggle favorite")
		return
	}

	message := "Removed from favorites"
	if isFavorite {
		message = "Added to favorites"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "isFavorite": isFavorite})
}

// CheckFavorite reports whether the caller has favorited a book.
// GET /api/users/favorites/check/:bookId
func (uc *UsersController) CheckFavorite(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	isFavorite, err := uc.engagement.IsFavorite(GetUserID(c), bookID)
	if err != nil {
		respondInternalError(c, uc.logger, err, "check favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorite": isFavorite})
}

// GetHistory lists the caller's reading history, most recent first.
// GET /api/users/history
func (uc *UsersController) GetHistory(c *gin.Context) {
	entries, err := uc.engagement.ListHistory(GetUserID(c))
	if err != nil {
		respondInternalError(c, uc.logger, err, "list history")
		return
	}
	if entries == nil {
		entries = []engagement.HistoryEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

type historyRequest struct {
	BookID       uint `json:"bookId"`
	LastReadPage int  `json:"lastReadPage"`
}

// UpdateHistory upserts the caller's reading progress for a book.
// POST /api/users/history
func (uc *UsersController) UpdateHistory(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BookID == 0 {
		respondBadRequest(c, "Book ID is required")
		return
	}

	err := uc.engagement.RecordProgress(GetUserID(c), req.BookID, req.LastReadPage)
	if err != nil {
		if errors.Is(err, engagement.ErrInvalidPage) {
			respondBadRequest(c, "Page must be a positive number")
			return
		}
		respondInternalError(c, uc.logger, err, "update history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reading progress updated"})
}
