package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pdf-docat-backend/internal/config"
	"pdf-docat-backend/internal/engine"
	"pdf-docat-backend/internal/models"
)

func TestSelect_UserModeHonorsChoice(t *testing.T) {
	registry := engine.NewRegistry(config.EngineSelectionUser)

	for _, requested := range []models.EngineType{
		models.EngineAuto, models.EngineMistralOCR, models.EnginePDFText, models.EngineNative,
	} {
		assert.Equal(t, requested, registry.Select(requested))
	}
	assert.False(t, registry.SelectionLocked())
}

func TestSelect_AutoOnlyModeForcesAuto(t *testing.T) {
	registry := engine.NewRegistry(config.EngineSelectionAutoOnly)

	for _, requested := range []models.EngineType{
		models.EngineAuto, models.EngineMistralOCR, models.EnginePDFText, models.EngineNative,
	} {
		assert.Equal(t, models.EngineAuto, registry.Select(requested))
	}
	assert.True(t, registry.SelectionLocked())
}

func TestSelect_AutoOnlyIsIdempotent(t *testing.T) {
	registry := engine.NewRegistry(config.EngineSelectionAutoOnly)

	once := registry.Select(models.EnginePDFText)
	twice := registry.Select(once)
	assert.Equal(t, models.EngineAuto, once)
	assert.Equal(t, once, twice)
}

func TestParseRequest_UserMode(t *testing.T) {
	registry := engine.NewRegistry(config.EngineSelectionUser)

	for value, want := range map[string]models.EngineType{
		"":            models.EngineAuto,
		"auto":        models.EngineAuto,
		"mistral-ocr": models.EngineMistralOCR,
		"pdf-text":    models.EnginePDFText,
		"native":      models.EngineNative,
	} {
		got, err := registry.ParseRequest(value)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := registry.ParseRequest("tesseract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine must be one of")
}

func TestParseRequest_LockedModeIgnoresValue(t *testing.T) {
	registry := engine.NewRegistry(config.EngineSelectionAutoOnly)

	// Even unrecognized values pass: the server ignores the choice anyway.
	for _, value := range []string{"", "auto", "pdf-text", "tesseract", "garbage"} {
		got, err := registry.ParseRequest(value)
		require.NoError(t, err)
		assert.Equal(t, models.EngineAuto, got)
	}
}

func TestResolve_ConcreteEngine(t *testing.T) {
	registry := engine.NewRegistry(config.EngineSelectionUser)
	registry.Register(engine.NewPDFTextEngine())

	doc := &models.FileData{Name: "report.pdf", Size: 50 * 1024}
	e, resolved, err := registry.Resolve(models.EnginePDFText, doc)
	require.NoError(t, err)
	assert.Equal(t, models.EnginePDFText, resolved)
	assert.Equal(t, models.EnginePDFText, e.Type())
}

func TestResolve_AutoRoutesImagesToOCR(t *testing.T) {
	registry := engine.NewRegistry(config.EngineSelectionUser)
	registry.Register(engine.NewPDFTextEngine())
	registry.Register(engine.NewOCREngine(nil))

	doc := &models.FileData{Name: "scan.png", Size: 200 * 1024, Data: []byte{0x89, 'P', 'N', 'G'}}
	_, resolved, err := registry.Resolve(models.EngineAuto, doc)
	require.NoError(t, err)
	assert.Equal(t, models.EngineMistralOCR, resolved)
}

func TestResolve_AutoRoutesTextlessPDFToOCR(t *testing.T) {
	registry := engine.NewRegistry(config.EngineSelectionUser)
	registry.Register(engine.NewPDFTextEngine())
	registry.Register(engine.NewOCREngine(nil))

	// Not a parseable PDF, so no text layer can be found.
	doc := &models.FileData{Name: "scan.pdf", Size: 1024, Data: []byte("%PDF-1.4 garbage")}
	_, resolved, err := registry.Resolve(models.EngineAuto, doc)
	require.NoError(t, err)
	assert.Equal(t, models.EngineMistralOCR, resolved)
}

func TestResolve_UnconfiguredEngine(t *testing.T) {
	registry := engine.NewRegistry(config.EngineSelectionUser)
	registry.Register(engine.NewPDFTextEngine())

	doc := &models.FileData{Name: "report.pdf", Size: 1024}
	_, _, err := registry.Resolve(models.EngineNative, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestClassifyDocument(t *testing.T) {
	assert.Equal(t, engine.DocTypeScanned,
		engine.ClassifyDocument(&models.FileData{Name: "photo.jpg"}))
	assert.Equal(t, engine.DocTypeScanned,
		engine.ClassifyDocument(&models.FileData{Name: "broken.pdf", Data: []byte("not a pdf")}))
}

func TestEstimatePageCount(t *testing.T) {
	assert.Equal(t, 1, engine.EstimatePageCount(10*1024))
	assert.Equal(t, 1, engine.EstimatePageCount(150*1024))
	assert.Equal(t, 5, engine.EstimatePageCount(512*1024))
	assert.Equal(t, 200, engine.EstimatePageCount(100*1024*1024))
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, "quarterly-report", engine.DocumentTitle("quarterly-report.pdf"))
	assert.Equal(t, "notes", engine.DocumentTitle("/tmp/uploads/notes.PDF"))
}
