package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pdf-docat-backend/internal/config"
	"pdf-docat-backend/internal/engine"
	"pdf-docat-backend/internal/handlers"
	"pdf-docat-backend/internal/models"
)

func listEngines(t *testing.T, registry *engine.Registry) models.EnginesResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/engines", handlers.NewEnginesHandler(registry).List)

	req := httptest.NewRequest(http.MethodGet, "/engines", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.EnginesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestListEngines(t *testing.T) {
	registry := engine.NewRegistry(config.EngineSelectionUser)
	registry.Register(engine.NewPDFTextEngine())
	registry.Register(engine.NewOCREngine(nil))

	resp := listEngines(t, registry)

	assert.Equal(t, models.EngineAuto, resp.Default)
	assert.False(t, resp.SelectionLocked)
	require.Len(t, resp.Engines, 3)

	available := make(map[models.EngineType]bool)
	for _, e := range resp.Engines {
		assert.NotEmpty(t, e.Label)
		assert.NotEmpty(t, e.Description)
		available[e.ID] = e.Available
	}
	assert.True(t, available[models.EngineMistralOCR])
	assert.True(t, available[models.EnginePDFText])
	assert.False(t, available[models.EngineNative])
}

func TestListEngines_SelectionLocked(t *testing.T) {
	registry := engine.NewRegistry(config.EngineSelectionAutoOnly)
	registry.Register(engine.NewPDFTextEngine())

	resp := listEngines(t, registry)
	assert.True(t, resp.SelectionLocked)
	assert.Equal(t, models.EngineAuto, resp.Default)
}
