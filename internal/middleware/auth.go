package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Alok5code/project-task-management-api/internal/models"
	"github.com/Alok5code/project-task-management-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const currentUserKey = "currentUser"

// Authorizer is implemented by service.AccessGuard.
type Authorizer interface {
	Authorize(ctx context.Context, tokenString string) (*models.User, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's user for CurrentUser.
func RequireAuth(guard Authorizer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		user, err := guard.Authorize(c.Request.Context(), tokenString)
		if err != nil {
			if service.IsAuthError(err) {
				abortUnauthorized(c)
				return
			}
			logger.Error("Failed to authorize request", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, tokenString, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", false
	}
	return tokenString, true
}
