package middleware

import (
	"context"
	"net/http"
	"strings"

	"groop/internal/auth"
	"groop/internal/model"

	"github.com/gin-gonic/gin"
)

const UserKey = "user"

// UserFinder resolves the token subject to a user row.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token and stores
// the authenticated user in the context.
func JWTAuthMiddleware(tokens *auth.JWTManager, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		claims, err := tokens.ParseToken(strings.TrimSpace(authHeader[len("bearer "):]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized request"})
			return
		}

		user, err := users.FindByUsername(c.Request.Context(), claims.Subject)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized request"})
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by JWTAuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *model.User {
	if user, ok := c.Get(UserKey); ok {
		if u, ok := user.(*model.User); ok {
			return u
		}
	}
	return nil
}
