package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookden/bookden/internal/config"
	"github.com/bookden/bookden/internal/entities"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()

	dbPath := "./test_database_" + t.Name() + ".db"
	db, err := NewDatabase(config.Database{Driver: "sqlite", Path: dbPath})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := NewDatabase(config.Database{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewDatabaseRequiresPostgresDSN(t *testing.T) {
	_, err := NewDatabase(config.Database{Driver: "postgres"})
	assert.ErrorContains(t, err, "DATABASE_DSN")
}

// Deleting a user must take their favorites, ratings and history rows
// with it; the sqlite connection has to enforce the schema's ON DELETE
// constraints for that.
func TestDeleteUserCascades(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := entities.User{Username: "reader", Email: "reader@example.com", PasswordHash: "h"}
	require.NoError(t, db.DB.Create(&user).Error)
	book := entities.Book{Title: "Dune", Author: "Frank Herbert"}
	require.NoError(t, db.DB.Create(&book).Error)

	require.NoError(t, db.DB.Create(&entities.Rating{UserID: user.ID, BookID: book.ID, Stars: 5}).Error)
	require.NoError(t, db.DB.Create(&entities.Favorite{UserID: user.ID, BookID: book.ID}).Error)
	require.NoError(t, db.DB.Create(&entities.History{UserID: user.ID, BookID: book.ID, LastReadPage: 3}).Error)

	require.NoError(t, db.DB.Delete(&entities.User{}, user.ID).Error)

	for _, model := range []any{&entities.Rating{}, &entities.Favorite{}, &entities.History{}} {
		var count int64
		require.NoError(t, db.DB.Model(model).Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count, "%T rows should not survive the user", model)
	}

	var books int64
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&books).Error)
	assert.Equal(t, int64(1), books)
}

// Deleting a category detaches its books instead of deleting them.
func TestDeleteCategorySetsBooksNull(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	category := entities.Category{Name: "Fiction"}
	require.NoError(t, db.DB.Create(&category).Error)
	book := entities.Book{Title: "Dune", Author: "Frank Herbert", CategoryID: &category.ID}
	require.NoError(t, db.DB.Create(&book).Error)

	require.NoError(t, db.DB.Delete(&entities.Category{}, category.ID).Error)

	var got entities.Book
	require.NoError(t, db.DB.First(&got, book.ID).Error)
	assert.Nil(t, got.CategoryID)
}
