package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"pdf-docat-backend/internal/auth"
	"pdf-docat-backend/internal/config"
	"pdf-docat-backend/internal/models"
)

const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

// AuthMiddleware verifies the Bearer token and stores the caller's identity
// in the request context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "empty token"})
			c.Abort()
			return
		}

		claims, err := auth.ParseAccessToken(cfg.JWTSecret, tokenString)
		if err != nil {
			message := err.Error()
			if strings.Contains(message, "token is expired") {
				message = "token has expired"
			} else if strings.Contains(message, "signature is invalid") {
				message = "token signature is invalid"
			}
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid token", Message: message})
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Next()
	}
}

// AdminRequired rejects callers whose token does not carry the admin role.
// Must run after AuthMiddleware.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(UserRoleKey)
		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id from the context.
func UserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
