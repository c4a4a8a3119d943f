package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"pdf-docat-backend/internal/engine"
	"pdf-docat-backend/internal/models"
)

type EnginesHandler struct {
	registry *engine.Registry
}

func NewEnginesHandler(registry *engine.Registry) *EnginesHandler {
	return &EnginesHandler{registry: registry}
}

var engineLabels = map[models.EngineType][2]string{
	models.EngineMistralOCR: {"Mistral OCR", "OCR for scanned or image-heavy documents"},
	models.EnginePDFText:    {"PDF text", "Fast extraction of the embedded text layer"},
	models.EngineNative:     {"Native", "Direct model ingestion of the document"},
}

// List presents the three selectable engines. When selection is locked the
// client is told its choice will be ignored and the server always
// auto-selects.
func (h *EnginesHandler) List(c *gin.Context) {
	resp := models.EnginesResponse{
		Default:         models.EngineAuto,
		SelectionLocked: h.registry.SelectionLocked(),
	}
	for _, t := range models.Engines {
		labels := engineLabels[t]
		resp.Engines = append(resp.Engines, models.EngineInfo{
			ID:          t,
			Label:       labels[0],
			Description: labels[1],
			Available:   h.registry.Available(t),
		})
	}
	c.JSON(http.StatusOK, resp)
}
