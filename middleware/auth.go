package middleware

import (
	"net/http"
	"strings"

	"mentorline/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth.
const (
	ContextSubject = "authSubject"
	ContextRole    = "authRole"
)

// RequireAuth validates the bearer token and, when roles are given, requires
// the token's role to be one of them. Subject and role land on the request
// context for handlers.
func RequireAuth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Missing or malformed Authorization header")
			c.Abort()
			return
		}

		subject, role, err := utils.ExtractSubjectAndRole(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
			c.Abort()
			return
		}

		if len(roles) > 0 && !roleAllowed(role, roles) {
			utils.JSONError(c, http.StatusForbidden, "Forbidden", "Insufficient permissions")
			c.Abort()
			return
		}

		c.Set(ContextSubject, subject)
		c.Set(ContextRole, role)
		c.Next()
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Subject returns the authenticated subject from the request context.
func Subject(c *gin.Context) string {
	return c.GetString(ContextSubject)
}

// Role returns the authenticated role from the request context.
func Role(c *gin.Context) string {
	return c.GetString(ContextRole)
}
