package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"pdf-docat-backend/internal/database"
	"pdf-docat-backend/internal/middleware"
	"pdf-docat-backend/internal/models"
)

type LogsHandler struct {
	db *database.Client
}

func NewLogsHandler(db *database.Client) *LogsHandler {
	return &LogsHandler{db: db}
}

// List returns the caller's processing logs, newest first. Supports both
// offset/limit and page/limit pagination.
func (h *LogsHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	limit := queryInt(c, "limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := queryInt(c, "offset", 0)
	if page := queryInt(c, "page", 1); page > 1 {
		offset = (page - 1) * limit
	}

	logs, err := h.db.ListProcessingLogs(userID, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list logs", Message: err.Error()})
		return
	}

	resp := models.ProcessingLogListResponse{Logs: make([]models.ProcessingLogResponse, 0, len(logs))}
	for i := range logs {
		resp.Logs = append(resp.Logs, models.NewProcessingLogResponse(&logs[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LogsHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	logID, err := strconv.ParseInt(c.Param("log_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid log id"})
		return
	}

	plog, err := h.db.GetProcessingLog(logID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to get log", Message: err.Error()})
		return
	}

	role, _ := c.Get(middleware.UserRoleKey)
	if plog.UserID != userID && role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "not allowed to view this log"})
		return
	}

	c.JSON(http.StatusOK, models.NewProcessingLogResponse(plog))
}

func queryInt(c *gin.Context, name string, defaultValue int) int {
	if raw := c.Query(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return defaultValue
}
