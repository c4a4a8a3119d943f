package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"pdf-docat-backend/internal/database"
	"pdf-docat-backend/internal/middleware"
	"pdf-docat-backend/internal/models"
)

type AccountHandler struct {
	db *database.Client
}

func NewAccountHandler(db *database.Client) *AccountHandler {
	return &AccountHandler{db: db}
}

func (h *AccountHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
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

	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

func (h *AccountHandler) Credits(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	used, limit, err := h.db.GetCredits(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to get credits", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.CreditsResponse{
		Used:      used,
		Limit:     limit,
		Remaining: limit - used,
	})
}
