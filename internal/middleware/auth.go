package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rides-dashboard-go/internal/auth"
	"github.com/jengzang/rides-dashboard-go/pkg/response"
)

// SubjectKey holds the verified token subject on the gin context
const SubjectKey = "subject"

// RequireToken validates a bearer JWT signed with secret. An empty secret
// leaves the route open.
func RequireToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.Unauthorized(c, "Bearer token required")
			return
		}

		claims, err := auth.Verify(secret, tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}
