package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aliautos/backend/auth"
	"github.com/aliautos/backend/models"
)

// AuthMiddleware validates the Bearer token and loads the live user view into
// the request context. Verification re-reads the users collection, so a role
// change or account deletion takes effect on the next request.
func AuthMiddleware(sessions *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		user := sessions.Verify(c.Request.Context(), tokenStr)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", user.ID)
		c.Set("email", user.Email)
		c.Set("role", string(user.Role))
		c.Set("user", *user)
		c.Next()
	}
}

// RequireRoles rejects requests whose session role is not in the allowed set.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, ok := c.Get("role")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}
		for _, r := range roles {
			if roleVal.(string) == string(r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	}
}

// SessionUser pulls the verified user view set by AuthMiddleware.
func SessionUser(c *gin.Context) *models.UserView {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	user, ok := v.(models.UserView)
	if !ok {
		return nil
	}
	return &user
}
