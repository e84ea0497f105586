package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/GreenvaleServices/lawn-portal/internal/config"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserName = "userName"
	ContextUserRole = "userRole"
)

// Identity resolves the caller from an optional Bearer token. A missing,
// expired or otherwise invalid token leaves the request anonymous; the
// guards below decide whether that is acceptable.
func Identity(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Next()
			return
		}

		userID, ok := claims["sub"].(float64)
		if !ok {
			c.Next()
			return
		}
		name, _ := claims["name"].(string)
		role, _ := claims["role"].(string)

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserName, name)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequireAuth rejects anonymous callers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserID); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireStaff rejects callers that are neither EMPLOYEE nor ADMIN.
// Must run after RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.MustGet(ContextUserRole).(string)
		if !models.IsStaff(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects everyone but ADMIN. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.MustGet(ContextUserRole).(string)
		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
