package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookden/bookden/internal/database/catalog"
	"github.com/bookden/bookden/internal/entities"
	"github.com/bookden/bookden/internal/storage"
)

// MaxUploadSize caps uploaded book documents at 10 MB.
const MaxUploadSize = 10 << 20

// CatalogAdminStore defines the catalog mutations behind the admin routes.
type CatalogAdminStore interface {
	CreateBook(book *entities.Book) error
	UpdateBook(book *entities.Book) error
	DeleteBook(id uint) error
	GetBookRecord(id uint) (*entities.Book, error)
	CreateCategory(name string) (*entities.Category, error)
}

// UserLister returns all registered users for the admin overview.
type UserLister interface {
	List() ([]entities.User, error)
}

type AdminController struct {
	catalog CatalogAdminStore
	users   UserLister
	files   storage.FileStore
	logger  *zap.Logger
}

func NewAdminController(catalogStore CatalogAdminStore, userStore UserLister, files storage.FileStore, logger *zap.Logger) *AdminController {
	return &AdminController{catalog: catalogStore, users: userStore, files: files, logger: logger}
}

// bookForm reads the shared multipart fields of the create/update book
// endpoints. Title, author and category are required, as in the admin UI.
func bookForm(c *gin.Context) (*entities.Book, bool) {
	title := strings.TrimSpace(c.PostForm("title"))
	author := strings.TrimSpace(c.PostForm("author"))
	categoryRaw := c.PostForm("category_id")
	if title == "" || author == "" || categoryRaw == "" {
		respondBadRequest(c, "Title, author, and category are required")
		return nil, false
	}

	categoryID, err := strconv.ParseUint(categoryRaw, 10, 32)
	if err != nil || categoryID == 0 {
		respondBadRequest(c, "Invalid category")
		return nil, false
	}
	cid := uint(categoryID)

	book := &entities.Book{
		Title:       title,
		Author:      author,
		Description: c.PostForm("description"),
		CategoryID:  &cid,
	}
	if imageURL := c.PostForm("image_url"); imageURL != "" {
		book.ImageURL = &imageURL
	}
	return book, true
}

// saveUpload validates and stores the optional "pdf" form file, returning
// its reference. A missing file is not an error.
func (ac *AdminController) saveUpload(c *gin.Context) (*string, bool) {
	header, err := c.FormFile("pdf")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		respondBadRequest(c, "Invalid file upload")
		return nil, false
	}

	if header.Size > MaxUploadSize {
		respondBadRequest(c, "File exceeds the 10MB limit")
		return nil, false
	}
	if contentType := header.Header.Get("Content-Type"); contentType != "application/pdf" {
		respondBadRequest(c, "Only PDF files are allowed")
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		respondInternalError(c, ac.logger, err, "open upload")
		return nil, false
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	fileURL, err := ac.files.Save(c.Request.Context(), header.Filename, "application/pdf", file, header.Size)
	if err != nil {
		respondInternalError(c, ac.logger, err, "store upload")
		return nil, false
	}
	return &fileURL, true
}

// deleteStoredFile removes a stale artifact; failures are logged and never
// block the request.
func (ac *AdminController) deleteStoredFile(c *gin.Context, fileURL string) {
	if err := ac.files.Delete(c.Request.Context(), fileURL); err != nil {
		ac.logger.Warn("failed to delete stored file", zap.String("file_url", fileURL), zap.Error(err))
	}
}

// CreateBook adds a book with an optional PDF document.
// POST /api/admin/books
func (ac *AdminController) CreateBook(c *gin.Context) {
	book, ok := bookForm(c)
	if !ok {
		return
	}

	fileURL, ok := ac.saveUpload(c)
	if !ok {
		return
	}
	book.FileURL = fileURL

	if err := ac.catalog.CreateBook(book); err != nil {
		if fileURL != nil {
			ac.deleteStoredFile(c, *fileURL)
		}
		respondInternalError(c, ac.logger, err, "create book")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Book added successfully",
		"bookId":   book.ID,
		"file_url": book.FileURL,
	})
}

// UpdateBook overwrites a book's fields; a newly uploaded document replaces
// and deletes the previous one.
// PUT /api/admin/books/:id
func (ac *AdminController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := ac.catalog.GetBookRecord(id)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, ac.logger, err, "load book")
		return
	}

	book, ok := bookForm(c)
	if !ok {
		return
	}
	book.ID = id

	// The client echoes the file reference it wants to keep; omitting it
	// detaches the document.
	if keep := c.PostForm("existing_file_url"); keep != "" {
		book.FileURL = &keep
	}

	uploaded, ok := ac.saveUpload(c)
	if !ok {
		return
	}
	if uploaded != nil {
		book.FileURL = uploaded
		if existing.FileURL != nil && *existing.FileURL != *uploaded {
			ac.deleteStoredFile(c, *existing.FileURL)
		}
	}

	if err := ac.catalog.UpdateBook(book); err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, ac.logger, err, "update book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book updated successfully", "file_url": book.FileURL})
}

// DeleteBook removes a book and its stored document.
// DELETE /api/admin/books/:id
func (ac *AdminController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ac.catalog.GetBookRecord(id)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, ac.logger, err, "load book")
		return
	}

	if book.FileURL != nil {
		ac.deleteStoredFile(c, *book.FileURL)
	}

	if err := ac.catalog.DeleteBook(id); err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, ac.logger, err, "delete book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

// ListUsers returns all registered users.
// GET /api/admin/users
func (ac *AdminController) ListUsers(c *gin.Context) {
	userList, err := ac.users.List()
	if err != nil {
		respondInternalError(c, ac.logger, err, "list users")
		return
	}
	if userList == nil {
		userList = []entities.User{}
	}
	c.JSON(http.StatusOK, userList)
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory adds a category.
// POST /api/admin/categories
func (ac *AdminController) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondBadRequest(c, "Category name is required")
		return
	}

	category, err := ac.catalog.CreateCategory(strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryExists) {
			respondBadRequest(c, "Category already exists")
			return
		}
		respondInternalError(c, ac.logger, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Category added successfully",
		"categoryId": category.ID,
	})
}
