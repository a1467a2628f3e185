package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookden/bookden/internal/database/users"
	"github.com/bookden/bookden/internal/entities"
)

// ContextKeyUserID is the gin context key holding the authenticated user's ID.
const ContextKeyUserID = "auth_user_id"

// UserStore is the credential lookup the admin check needs. Implementations
// must return users.ErrNotFound when the ID no longer references a user.
type UserStore interface {
	GetByID(id uint) (*entities.User, error)
}

// Middleware gates routes at two capability levels: any valid token
// (RequireUser) or a valid token whose user holds the admin role
// (RequireAdmin).
type Middleware struct {
	tokens *TokenService
	users  UserStore
	logger *zap.Logger
}

// NewMiddleware creates an authentication middleware.
func NewMiddleware(tokens *TokenService, store UserStore, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: store, logger: logger}
}

// RequireUser verifies the bearer token and attaches the user ID to the
// request context. No database lookup happens at this level.
func (m *Middleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := m.authenticate(c)
		if !ok {
			return
		}
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// RequireAdmin verifies the bearer token and then checks the referenced
// user's role. A token whose user no longer exists is denied the same way
// as a non-admin; a failed lookup is a 500, never a 403.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := m.authenticate(c)
		if !ok {
			return
		}

		user, err := m.users.GetByID(userID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
				return
			}
			m.logger.Error("admin role lookup failed", zap.Uint("user_id", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// authenticate extracts and verifies the bearer token, aborting the request
// on failure. Missing credentials and invalid tokens are distinct denials.
func (m *Middleware) authenticate(c *gin.Context) (uint, bool) {
	token, ok := extractBearerToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
		return 0, false
	}

	userID, err := m.tokens.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid token"})
		return 0, false
	}
	return userID, true
}

func extractBearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetUserID extracts the authenticated user's ID from the gin context.
// Returns 0 when the request was not authenticated.
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
