package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"pdf-docat-backend/internal/database"
	"pdf-docat-backend/internal/engine"
	"pdf-docat-backend/internal/middleware"
	"pdf-docat-backend/internal/models"
	"pdf-docat-backend/internal/services"
)

type ProcessHandler struct {
	db        *database.Client
	registry  *engine.Registry
	processor *services.Processor
}

func NewProcessHandler(db *database.Client, registry *engine.Registry, processor *services.Processor) *ProcessHandler {
	return &ProcessHandler{db: db, registry: registry, processor: processor}
}

// Process accepts a multipart document upload, runs the pipeline and returns
// the extracted content together with the processing-log id.
func (h *ProcessHandler) Process(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	user, err := h.db.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user not found"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "account is inactive"})
		return
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	fileHeader, err := formFile(c.Request.MultipartForm)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no file uploaded", Message: err.Error()})
		return
	}

	requested, err := h.registry.ParseRequest(c.PostForm("engine"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid engine type",
			Message: err.Error(),
		})
		return
	}

	var annotations json.RawMessage
	if raw := c.PostForm("file_annotations"); raw != "" {
		if !json.Valid([]byte(raw)) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "file_annotations must be valid JSON"})
			return
		}
		annotations = json.RawMessage(raw)
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open file", Message: err.Error()})
		return
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read file", Message: err.Error()})
		return
	}

	doc := &models.FileData{
		Name: fileHeader.Filename,
		Size: int64(len(data)),
		Type: fileHeader.Header.Get("Content-Type"),
		Data: data,
	}

	result, err := h.processor.Process(c.Request.Context(), user, doc, requested, annotations)
	if err != nil {
		var serr *services.StatusError
		if errors.As(err, &serr) {
			c.JSON(serr.Code, models.ErrorResponse{Error: serr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "processing failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// formFile finds the uploaded document under the common field names clients
// use.
func formFile(form *multipart.Form) (*multipart.FileHeader, error) {
	if form == nil {
		return nil, fmt.Errorf("multipart form is empty")
	}

	fieldNames := []string{"file", "document", "pdf", "upload"}
	for _, name := range fieldNames {
		if files := form.File[name]; len(files) > 0 {
			return files[0], nil
		}
	}

	available := make([]string, 0, len(form.File))
	for name := range form.File {
		available = append(available, name)
	}
	return nil, fmt.Errorf("provide the file under one of these field names: %v (got: %v)", fieldNames, available)
}
