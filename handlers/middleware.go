package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDContextKey = "userID"

// SessionResolver resolves a bearer session token to a user ID.
// Implemented by repository.SessionRepository. Unknown or expired
// tokens return an error.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// RequireSession is gin middleware that authenticates the request via
// an Authorization bearer token. Rejected requests never reach the
// handler, so no storage is touched for unauthenticated calls.
func RequireSession(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, prefix) {
			abortUnauthorized(c)
			return
		}

		userID, err := sessions.Resolve(c.Request.Context(), auth[len(prefix):])
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "A valid session is required",
		},
	})
}

// currentUserID returns the authenticated user ID set by
// RequireSession.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}
