package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"pdf-docat-backend/internal/auth"
	"pdf-docat-backend/internal/config"
	"pdf-docat-backend/internal/database"
	"pdf-docat-backend/internal/models"
	"pdf-docat-backend/internal/validation"
)

type AuthHandler struct {
	cfg *config.Config
	db  *database.Client
}

func NewAuthHandler(cfg *config.Config, db *database.Client) *AuthHandler {
	return &AuthHandler{cfg: cfg, db: db}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if fields := validation.Struct(req); fields != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ValidationErrorResponse{
			Error:  "validation failed",
			Fields: fields,
		})
		return
	}

	user, err := h.db.GetUserByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			log.Printf("login lookup failed: %v", err)
		}
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "incorrect email or password"})
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "incorrect email or password"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "account is inactive, please contact an administrator"})
		return
	}

	if err := h.db.UpdateUserLastActive(user.ID); err != nil {
		log.Printf("failed to update last_active for user %d: %v", user.ID, err)
	}

	h.respondWithToken(c, user)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if fields := validation.Struct(req); fields != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ValidationErrorResponse{
			Error:  "validation failed",
			Fields: fields,
		})
		return
	}

	if _, err := h.db.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "a user with this email already exists"})
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to check email", Message: err.Error()})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create user", Message: err.Error()})
		return
	}

	user := &models.User{
		Email:        req.Email,
		Password:     hashed,
		Role:         models.RoleUser,
		Tier:         models.TierFree,
		CreditsLimit: models.TierCredits[models.TierFree],
		IsActive:     true,
	}
	if req.Name != "" {
		user.Name = sql.NullString{String: req.Name, Valid: true}
	}

	if err := h.db.CreateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create user", Message: err.Error()})
		return
	}

	h.respondWithToken(c, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, user *models.User) {
	token, err := auth.CreateAccessToken(h.cfg.JWTSecret, auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, h.cfg.TokenExpiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create token", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token: token,
		User:  models.NewUserResponse(user),
	})
}
