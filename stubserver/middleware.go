package stubserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jovincart/storefront/token"
)

const (
	ctxEmail = "email"
	ctxRole  = "role"
)

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "missing authorization header",
			})
			return
		}
		claims, err := s.tokens.Verify(raw, "access")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or expired token",
			})
			return
		}
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		c.Set(ctxEmail, email)
		c.Set(ctxRole, role)
		c.Next()
	}
}

func (s *Server) requireRole(role token.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "insufficient privileges",
			})
			return
		}
		c.Next()
	}
}

// requireOwner rejects requests acting on another user's resources.
func requireOwner(c *gin.Context, userID string) bool {
	if userID != c.GetString(ctxEmail) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "forbidden",
		})
		return false
	}
	return true
}
