package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookden/bookden/internal/database/catalog"
	"github.com/bookden/bookden/internal/database/engagement"
	"github.com/bookden/bookden/internal/entities"
)

// CatalogReader defines the read operations the public book endpoints need.
type CatalogReader interface {
	ListBooks(filter catalog.Filter) ([]catalog.BookWithStats, error)
	GetBook(id uint) (*catalog.BookWithStats, error)
}

// RatingStore defines the rating operations reachable from book routes.
type RatingStore interface {
	Rate(userID, bookID uint, stars int, comment string) (string, error)
	GetUserRating(userID, bookID uint) (*entities.Rating, error)
	ListBookReviews(bookID uint) ([]engagement.Review, error)
}

type BooksController struct {
	catalog CatalogReader
	ratings RatingStore
	logger  *zap.Logger
}

func NewBooksController(catalogStore CatalogReader, ratings RatingStore, logger *zap.Logger) *BooksController {
	return &BooksController{catalog: catalogStore, ratings: ratings, logger: logger}
}

// GetBooks lists the catalog with rating aggregates, optionally filtered.
// GET /api/books?category=&search=
func (bc *BooksController) GetBooks(c *gin.Context) {
	filter := catalog.Filter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	books, err := bc.catalog.ListBooks(filter)
	if err != nil {
		respondInternalError(c, bc.logger, err, "list books")
		return
	}
	if books == nil {
		books = []catalog.BookWithStats{}
	}
	c.JSON(http.StatusOK, books)
}

// GetBook returns a single book with aggregates.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.catalog.GetBook(id)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, bc.logger, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// GetReviews lists a book's ratings with reviewer details, newest first.
// GET /api/books/:id/reviews
func (bc *BooksController) GetReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := bc.ratings.ListBookReviews(id)
	if err != nil {
		respondInternalError(c, bc.logger, err, "list reviews")
		return
	}
	if reviews == nil {
		reviews = []engagement.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}

type rateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// RateBook creates or updates the caller's rating for a book.
// POST /api/books/:id/rate
func (bc *BooksController) RateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	action, err := bc.ratings.Rate(GetUserID(c), id, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, engagement.ErrInvalidStars) {
			respondBadRequest(c, "Rating must be between 1 and 5")
			return
		}
		respondInternalError(c, bc.logger, err, "rate book")
		return
	}

	message := "Review added"
	if action == engagement.ActionUpdated {
		message = "Review updated"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "action": action})
}

// GetUserRating returns the caller's own rating for a book, or null.
// GET /api/books/:id/user-rating
func (bc *BooksController) GetUserRating(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rating, err := bc.ratings.GetUserRating(GetUserID(c), id)
	if err != nil {
		respondInternalError(c, bc.logger, err, "get user rating")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}
