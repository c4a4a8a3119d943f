package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"pdf-docat-backend/internal/database"
	"pdf-docat-backend/internal/models"
	"pdf-docat-backend/internal/validation"
)

// SettingsHandler exposes the admin key/value configuration store.
type SettingsHandler struct {
	db *database.Client
}

func NewSettingsHandler(db *database.Client) *SettingsHandler {
	return &SettingsHandler{db: db}
}

func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.db.ListSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list settings", Message: err.Error()})
		return
	}

	resp := models.SettingListResponse{Settings: make([]models.SettingResponse, 0, len(settings))}
	for _, s := range settings {
		resp.Settings = append(resp.Settings, settingResponse(&s))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) Get(c *gin.Context) {
	setting, err := h.db.GetSetting(c.Param("key"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "setting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to get setting", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, settingResponse(setting))
}

func (h *SettingsHandler) Set(c *gin.Context) {
	var req models.UpdateSettingRequest
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

	setting := &models.Setting{
		Key:   c.Param("key"),
		Value: req.Value,
	}
	if req.Description != "" {
		setting.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := h.db.UpsertSetting(setting); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to save setting", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, settingResponse(setting))
}

func settingResponse(s *models.Setting) models.SettingResponse {
	return models.SettingResponse{
		Key:         s.Key,
		Value:       MaskSensitiveValue(s.Key, s.Value),
		Description: s.Description.String,
		UpdatedAt:   s.UpdatedAt,
	}
}

// MaskSensitiveValue hides the middle of API-key-like values so they can be
// shown in the admin UI without leaking the secret.
func MaskSensitiveValue(key, value string) string {
	if !strings.Contains(key, "API_KEY") || len(value) <= 8 {
		return value
	}
	return value[:4] + strings.Repeat("•", len(value)-8) + value[len(value)-4:]
}
