// Package catalog provides database operations for books and categories,
// including listings with aggregated rating statistics.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bookden/bookden/internal/entities"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

// BookWithStats is a book row joined with its category name and rating
// aggregates. AverageRating is nil when the book has no ratings.
type BookWithStats struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	CategoryID    *uint     `json:"category_id"`
	ImageURL      *string   `json:"image_url"`
	FileURL       *string   `json:"file_url"`
	CreatedAt     time.Time `json:"created_at"`
	CategoryName  *string   `json:"category_name"`
	AverageRating *float64  `json:"average_rating"`
	RatingCount   int64     `json:"rating_count"`
}

// Filter narrows a book listing. Category matches the category name exactly
// ("all" and "" are no-ops); Search matches substrings of title, author or
// category name, case-insensitively. Both combine with AND.
type Filter struct {
	Category string
	Search   string
}

// Repository handles book and category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) statsQuery() *gorm.DB {
	return r.db.Model(&entities.Book{}).
		Select("books.*, categories.name AS category_name, AVG(ratings.stars) AS average_rating, COUNT(ratings.id) AS rating_count").
		Joins("LEFT JOIN categories ON categories.id = books.category_id").
		Joins("LEFT JOIN ratings ON ratings.book_id = books.id").
		Group("books.id, categories.name")
}

// ListBooks returns all books matching the filter, newest first, with
// rating aggregates. Books without ratings come back with a zero count
// and a nil average rather than being dropped.
func (r *Repository) ListBooks(filter Filter) ([]BookWithStats, error) {
	query := r.statsQuery().Order("books.created_at DESC")

	if filter.Category != "" && filter.Category != "all" {
		query = query.Where("categories.name = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"(LOWER(books.title) LIKE ? OR LOWER(books.author) LIKE ? OR LOWER(categories.name) LIKE ?)",
			pattern, pattern, pattern,
		)
	}

	var books []BookWithStats
	err := query.Scan(&books).Error
	return books, err
}

// GetBook returns a single book with its rating aggregates.
func (r *Repository) GetBook(id uint) (*BookWithStats, error) {
	var books []BookWithStats
	err := r.statsQuery().Where("books.id = ?", id).Scan(&books).Error
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, ErrBookNotFound
	}
	return &books[0], nil
}

// GetBookRecord returns the raw book row, without aggregates. Admin
// mutations use this to read the stored file reference.
func (r *Repository) GetBookRecord(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// ListBooksByCategory returns the books in a category with aggregates,
// newest first.
func (r *Repository) ListBooksByCategory(categoryID uint) ([]BookWithStats, error) {
	var books []BookWithStats
	err := r.statsQuery().
		Where("books.category_id = ?", categoryID).
		Order("books.created_at DESC").
		Scan(&books).Error
	return books, err
}

// CreateBook inserts a new book.
func (r *Repository) CreateBook(book *entities.Book) error {
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// UpdateBook overwrites a book's fields.
func (r *Repository) UpdateBook(book *entities.Book) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", book.ID).Updates(map[string]any{
		"title":       book.Title,
		"author":      book.Author,
		"description": book.Description,
		"category_id": book.CategoryID,
		"image_url":   book.ImageURL,
		"file_url":    book.FileURL,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// DeleteBook removes a book. Category references are not affected; the
// book's favorites, ratings and history rows go with it via the cascade
// constraints.
func (r *Repository) DeleteBook(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories() ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.Order("name").Find(&categories).Error
	return categories, err
}

// GetCategory retrieves a category by ID.
func (r *Repository) GetCategory(id uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a new category. A duplicate name is reported as
// ErrCategoryExists.
func (r *Repository) CreateCategory(name string) (*entities.Category, error) {
	category := &entities.Category{Name: name}
	if err := r.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}
