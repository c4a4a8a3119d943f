package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"pdf-docat-backend/internal/auth"
	"pdf-docat-backend/internal/database"
	"pdf-docat-backend/internal/models"
	"pdf-docat-backend/internal/validation"
)

// UsersHandler exposes the admin user management API.
type UsersHandler struct {
	db *database.Client
}

func NewUsersHandler(db *database.Client) *UsersHandler {
	return &UsersHandler{db: db}
}

func (h *UsersHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 100)
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := queryInt(c, "offset", 0)

	users, err := h.db.ListUsers(offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list users", Message: err.Error()})
		return
	}

	resp := models.UserListResponse{Users: make([]models.UserResponse, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, models.NewUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsersHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
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

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	tier := req.Tier
	if tier == "" {
		tier = models.TierFree
	}

	user := &models.User{
		Email:        req.Email,
		Password:     hashed,
		Role:         role,
		Tier:         tier,
		CreditsLimit: models.TierCredits[tier],
		IsActive:     true,
	}
	if req.Name != "" {
		user.Name = sql.NullString{String: req.Name, Valid: true}
	}

	if err := h.db.CreateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create user", Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, models.NewUserResponse(user))
}

func (h *UsersHandler) Update(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return
	}

	var req models.UpdateUserRequest
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

	user, err := h.db.GetUser(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to get user", Message: err.Error()})
		return
	}

	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update user", Message: err.Error()})
			return
		}
		user.Password = hashed
	}
	if req.Name != nil {
		user.Name = sql.NullString{String: *req.Name, Valid: *req.Name != ""}
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Tier != nil {
		// A tier change re-derives the credit allowance.
		user.Tier = *req.Tier
		user.CreditsLimit = models.TierCredits[*req.Tier]
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.db.UpdateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update user", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

func (h *UsersHandler) Delete(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return
	}

	if err := h.db.DeleteUser(userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete user", Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
