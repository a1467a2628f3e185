package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookden/bookden/internal/auth"
	"github.com/bookden/bookden/internal/database/users"
	"github.com/bookden/bookden/internal/entities"
)

// CredentialStore defines the user operations the auth endpoints need.
type CredentialStore interface {
	Create(username, email, passwordHash string) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
}

type AuthController struct {
	users      CredentialStore
	tokens     *auth.TokenService
	bcryptCost int
	logger     *zap.Logger
}

func NewAuthController(store CredentialStore, tokens *auth.TokenService, bcryptCost int, logger *zap.Logger) *AuthController {
	return &AuthController{users: store, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPayload is the public view of a user returned by the auth endpoints.
type userPayload struct {
	ID           uint          `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	ProfileImage *string       `json:"profile_image"`
	Role         entities.Role `json:"role"`
}

// Register creates a user and returns a fresh token. The role is always
// "user"; there is no way to register an admin through the API.
// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Email == "" || req.Password == "" {
		respondBadRequest(c, "Username, email, and password are required")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password, ac.bcryptCost)
	if err != nil {
		respondBadRequest(c, "Invalid password")
		return
	}

	user, err := ac.users.Create(req.Username, req.Email, passwordHash)
	if err != nil {
		if errors.Is(err, users.ErrUserExists) {
			respondBadRequest(c, "User already exists")
			return
		}
		respondInternalError(c, ac.logger, err, "register user")
		return
	}

	token, err := ac.tokens.Issue(user.ID)
	if err != nil {
		respondInternalError(c, ac.logger, err, "issue token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user": userPayload{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}

// Login verifies credentials and returns a fresh token. A missing user and
// a wrong password respond identically.
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		respondBadRequest(c, "Email and password are required")
		return
	}

	user, err := ac.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondBadRequest(c, "Invalid credentials")
			return
		}
		respondInternalError(c, ac.logger, err, "login lookup")
		return
	}

	if err := auth.CheckPassword(req.Password, user.PasswordHash); err != nil {
		respondBadRequest(c, "Invalid credentials")
		return
	}

	token, err := ac.tokens.Issue(user.ID)
	if err != nil {
		respondInternalError(c, ac.logger, err, "issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": userPayload{
			ID:           user.ID,
			Username:     user.Username,
			Email:        user.Email,
			ProfileImage: user.ProfileImage,
			Role:         user.Role,
		},
	})
}
