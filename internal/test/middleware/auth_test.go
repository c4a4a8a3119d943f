package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pdf-docat-backend/internal/auth"
	"pdf-docat-backend/internal/config"
	"pdf-docat-backend/internal/middleware"
)

func newAuthedRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(cfg))
	router.GET("/test", func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		role, _ := c.Get(middleware.UserRoleKey)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	return router
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	router := newAuthedRouter(&config.Config{JWTSecret: "test-secret"})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := newAuthedRouter(&config.Config{JWTSecret: "test-secret"})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	router := newAuthedRouter(&config.Config{JWTSecret: "test-secret"})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret-key-for-jwt-signing-must-be-long-enough"}
	token, err := auth.CreateAccessToken(cfg.JWTSecret, auth.Claims{
		UserID: 42,
		Email:  "user@example.com",
		Role:   "user",
	}, time.Hour)
	require.NoError(t, err)

	router := newAuthedRouter(cfg)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	token, err := auth.CreateAccessToken(cfg.JWTSecret, auth.Claims{UserID: 1}, -time.Hour)
	require.NoError(t, err)

	router := newAuthedRouter(cfg)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAdminRequired(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(cfg))
	router.Use(middleware.AdminRequired())
	router.GET("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userToken, err := auth.CreateAccessToken(cfg.JWTSecret, auth.Claims{UserID: 1, Role: "user"}, time.Hour)
	require.NoError(t, err)
	adminToken, err := auth.CreateAccessToken(cfg.JWTSecret, auth.Claims{UserID: 2, Role: "admin"}, time.Hour)
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req, _ = http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
