package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthGuard validates a Bearer token and, when roles are given, requires the
// token's role claim to be one of them. The parsed claims, the subject id and
// the role are stored on the context for handlers.
func AuthGuard(secret string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		role, _ := claims["role"].(string)
		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if role == r {
					match = true
					break
				}
			}
			if !match {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		if sub, _ := claims["sub"].(string); sub != "" {
			if id, err := primitive.ObjectIDFromHex(sub); err == nil {
				c.Set("subjectId", id)
			}
		}

		c.Set("claims", claims)
		c.Set("role", role)
		c.Next()
	}
}

// AdminAuth admits only the admin role.
func AdminAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, "admin")
}

// StaffAuth admits admins and staff members.
func StaffAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, "admin", "staff")
}

// RequireAuth admits any authenticated caller; handlers do their own
// ownership checks.
func RequireAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret)
}
