package middleware

import (
	"net/http"
	"strings"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// Authenticate is a Gin middleware for JWT authentication of API requests.
// It validates the bearer token and loads the current user from storage, so
// authorization always sees the stored role and superuser flag rather than
// stale token claims.
func Authenticate(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveUser(c, authService, userRepo)
		if !ok {
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuthenticate loads the current user when a bearer token is
// present and valid, and lets the request through anonymously when the
// header is absent. Read endpoints are open to everyone, so only a
// malformed or invalid token is an error here.
func OptionalAuthenticate(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveUser(c, authService, userRepo)
		if !ok {
			return
		}
		if user != nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// resolveUser parses the Authorization header. Returns (nil, true) for an
// anonymous request, (user, true) for an authenticated one, and (nil,
// false) after aborting with 401.
func resolveUser(c *gin.Context, authService service.AuthService, userRepo repository.UserRepository) (*models.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, true
	}

	// format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		c.Abort()
		return nil, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		c.Abort()
		return nil, false
	}

	user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		c.Abort()
		return nil, false
	}
	return user, true
}

// CurrentUser returns the authenticated user set by the middleware, or nil
// for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(currentUserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// SetCurrentUser is a test hook for injecting an actor without a token.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}
