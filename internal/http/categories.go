package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookden/bookden/internal/database/catalog"
	"github.com/bookden/bookden/internal/entities"
)

// CategoryReader defines the read operations the category endpoints need.
type CategoryReader interface {
	ListCategories() ([]entities.Category, error)
	ListBooksByCategory(categoryID uint) ([]catalog.BookWithStats, error)
}

type CategoriesController struct {
	catalog CategoryReader
	logger  *zap.Logger
}

func NewCategoriesController(store CategoryReader, logger *zap.Logger) *CategoriesController {
	return &CategoriesController{catalog: store, logger: logger}
}

// GetCategories lists all categories ordered by name.
// GET /api/categories
func (cc *CategoriesController) GetCategories(c *gin.Context) {
	categories, err := cc.catalog.ListCategories()
	if err != nil {
		respondInternalError(c, cc.logger, err, "list categories")
		return
	}
	if categories == nil {
		categories = []entities.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategoryBooks lists a category's books with rating aggregates.
// GET /api/categories/:id/books
func (cc *CategoriesController) GetCategoryBooks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	books, err := cc.catalog.ListBooksByCategory(id)
	if err != nil {
		respondInternalError(c, cc.logger, err, "list category books")
		return
	}
	if books == nil {
		books = []catalog.BookWithStats{}
	}
	c.JSON(http.StatusOK, books)
}
