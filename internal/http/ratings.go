package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookden/bookden/internal/database/engagement"
)

// RatingAdminStore defines the standalone rating operations.
type RatingAdminStore interface {
	DeleteRating(ratingID, userID uint) error
	AverageRating(bookID uint) (float64, int64, error)
}

type RatingsController struct {
	ratings RatingAdminStore
	logger  *zap.Logger
}

func NewRatingsController(store RatingAdminStore, logger *zap.Logger) *RatingsController {
	return &RatingsController{ratings: store, logger: logger}
}

// DeleteRating removes the caller's own rating. A rating that does not
// exist and a rating owned by someone else respond identically, so the
// endpoint leaks nothing about other users' rows.
// DELETE /api/ratings/:id
func (rc *RatingsController) DeleteRating(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := rc.ratings.DeleteRating(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, engagement.ErrRatingNotFound) {
			respondNotFound(c, "Rating not found or access denied")
			return
		}
		respondInternalError(c, rc.logger, err, "delete rating")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating deleted successfully"})
}

// GetAverage returns a book's mean rating and rating count.
// GET /api/ratings/average/:bookId
func (rc *RatingsController) GetAverage(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	average, count, err := rc.ratings.AverageRating(bookID)
	if err != nil {
		respondInternalError(c, rc.logger, err, "average rating")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"average_rating": average,
		"rating_count":   count,
	})
}
