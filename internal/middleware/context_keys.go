package middleware

import "github.com/gin-gonic/gin"

const (
	// UserIDKey is the gin context key holding the authenticated user's ID.
	UserIDKey = "userID"
)

// GetUserIDFromContext extracts the authenticated user ID set by the auth
// middleware. The second return is false when no user is attached.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
