// Package engagement provides database operations for the per-user
// relationships to a book: favorites, star ratings and reading history.
//
// All three are keyed on a (user_id, book_id) unique constraint, and every
// write that could race another request resolves the conflict in the insert
// statement itself (ON CONFLICT), never by reacting to a failed insert:
// on postgres a constraint violation aborts the whole transaction.
package engagement

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookden/bookden/internal/entities"
)

var (
	ErrInvalidStars   = errors.New("rating must be between 1 and 5")
	ErrInvalidPage    = errors.New("page must be a positive integer")
	ErrRatingNotFound = errors.New("rating not found or access denied")
)

// Rating submission outcomes.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// Review is a rating row joined with the reviewer's public profile fields.
type Review struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	BookID       uint      `json:"book_id"`
	Stars        int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `json:"username"`
	ProfileImage *string   `json:"profile_image"`
}

// FavoriteBook is a favorited book joined with its category name.
type FavoriteBook struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Description  string    `json:"description"`
	CategoryID   *uint     `json:"category_id"`
	ImageURL     *string   `json:"image_url"`
	FileURL      *string   `json:"file_url"`
	CreatedAt    time.Time `json:"created_at"`
	CategoryName *string   `json:"category_name"`
}

// HistoryEntry is a book joined with the caller's reading progress.
type HistoryEntry struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Description  string    `json:"description"`
	CategoryID   *uint     `json:"category_id"`
	ImageURL     *string   `json:"image_url"`
	FileURL      *string   `json:"file_url"`
	CreatedAt    time.Time `json:"created_at"`
	CategoryName *string   `json:"category_name"`
	LastReadPage int       `json:"last_read_page"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository handles favorites, ratings and history database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new engagement repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Rate creates or updates the caller's rating for a book and reports which
// branch was taken. Stars outside [1,5] are rejected before any write. The
// write itself is a single upsert, so a concurrent submission can never
// abort it; the loser of that race merely reports "created" for what ended
// up an update.
func (r *Repository) Rate(userID, bookID uint, stars int, comment string) (string, error) {
	if stars < 1 || stars > 5 {
		return "", ErrInvalidStars
	}

	action := ActionCreated
	var count int64
	err := r.db.Model(&entities.Rating{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	if count > 0 {
		action = ActionUpdated
	}

	rating := entities.Rating{UserID: userID, BookID: bookID, Stars: stars, Comment: comment}
	err = r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"stars":      stars,
			"comment":    comment,
			"updated_at": time.Now(),
		}),
	}).Create(&rating).Error
	if err != nil {
		return "", err
	}
	return action, nil
}

// GetUserRating returns the caller's rating for a book, or nil when the
// caller has not rated it.
func (r *Repository) GetUserRating(userID, bookID uint) (*entities.Rating, error) {
	var rating entities.Rating
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

// ListBookReviews returns all ratings for a book with reviewer details,
// newest first.
func (r *Repository) ListBookReviews(bookID uint) ([]Review, error) {
	var reviews []Review
	err := r.db.Model(&entities.Rating{}).
		Select("ratings.*, users.username, users.profile_image").
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("ratings.book_id = ?", bookID).
		Order("ratings.created_at DESC").
		Scan(&reviews).Error
	return reviews, err
}

// DeleteRating removes a rating only when it belongs to the requesting
// user. A missing row and someone else's row are deliberately
// indistinguishable: both report ErrRatingNotFound.
func (r *Repository) DeleteRating(ratingID, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", ratingID, userID).Delete(&entities.Rating{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRatingNotFound
	}
	return nil
}

// AverageRating returns the mean stars and rating count for a book. A book
// with no ratings yields (0, 0).
func (r *Repository) AverageRating(bookID uint) (float64, int64, error) {
	var result struct {
		AverageRating *float64
		RatingCount   int64
	}
	err := r.db.Model(&entities.Rating{}).
		Select("AVG(stars) AS average_rating, COUNT(id) AS rating_count").
		Where("book_id = ?", bookID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	if result.AverageRating == nil {
		return 0, result.RatingCount, nil
	}
	return *result.AverageRating, result.RatingCount, nil
}

// ToggleFavorite flips the (user, book) membership and reports the new
// state. Delete-first keeps the transaction to a single branch decision:
// if nothing was deleted the pair was absent, so insert it.
func (r *Repository) ToggleFavorite(userID, bookID uint) (bool, error) {
	var isFavorite bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&entities.Favorite{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			isFavorite = false
			return nil
		}

		// DO NOTHING leaves a concurrent toggle's row in place without
		// failing the insert (postgres would abort the transaction).
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entities.Favorite{UserID: userID, BookID: bookID}).Error
		if err != nil {
			return err
		}
		isFavorite = true
		return nil
	})
	return isFavorite, err
}

// IsFavorite reports whether the user has favorited the book.
func (r *Repository) IsFavorite(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favorite{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

// ListFavorites returns the user's favorited books, most recently
// favorited first.
func (r *Repository) ListFavorites(userID uint) ([]FavoriteBook, error) {
	var books []FavoriteBook
	err := r.db.Model(&entities.Favorite{}).
		Select("books.*, categories.name AS category_name").
		Joins("JOIN books ON books.id = favorites.book_id").
		Joins("LEFT JOIN categories ON categories.id = books.category_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Scan(&books).Error
	return books, err
}

// RecordProgress upserts the user's last read page for a book in a single
// statement, so two concurrent reports can never create duplicate rows.
func (r *Repository) RecordProgress(userID, bookID uint, page int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	entry := entities.History{UserID: userID, BookID: bookID, LastReadPage: page}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"last_read_page": page,
			"updated_at":     time.Now(),
		}),
	}).Create(&entry).Error
}

// ListHistory returns the user's reading history, most recently read first.
func (r *Repository) ListHistory(userID uint) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := r.db.Model(&entities.History{}).
		Select("books.*, history.last_read_page, history.updated_at AS updated_at, categories.name AS category_name").
		Joins("JOIN books ON books.id = history.book_id").
		Joins("LEFT JOIN categories ON categories.id = books.category_id").
		Where("history.user_id = ?", userID).
		Order("history.updated_at DESC").
		Scan(&entries).Error
	return entries, err
}
