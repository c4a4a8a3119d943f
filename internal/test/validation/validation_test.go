package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pdf-docat-backend/internal/models"
	"pdf-docat-backend/internal/validation"
)

func TestLoginValidation_Accepts(t *testing.T) {
	fields := validation.Struct(models.LoginRequest{
		Email:    "a@b.com",
		Password: "abcdef",
	})
	assert.Nil(t, fields)
}

func TestLoginValidation_RejectsBadEmail(t *testing.T) {
	fields := validation.Struct(models.LoginRequest{
		Email:    "not-an-email",
		Password: "abcdef",
	})
	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].Field)
	assert.Contains(t, fields[0].Message, "valid email")
}

func TestLoginValidation_RejectsShortPassword(t *testing.T) {
	fields := validation.Struct(models.LoginRequest{
		Email:    "a@b.com",
		Password: "short",
	})
	require.Len(t, fields, 1)
	assert.Equal(t, "password", fields[0].Field)
	assert.Contains(t, fields[0].Message, "at least 6")
}

func TestLoginValidation_CollectsAllFields(t *testing.T) {
	fields := validation.Struct(models.LoginRequest{})
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "password", fields[1].Field)
}

func TestProcessingLogCreate_MinimalValid(t *testing.T) {
	fields := validation.Struct(models.ProcessingLogCreate{
		UserID:   1,
		FileName: "report.pdf",
		FileSize: 1024,
		Engine:   models.EnginePDFText,
		Status:   models.StatusProcessing,
	})
	assert.Nil(t, fields)
}

func TestProcessingLogCreate_RequiredFields(t *testing.T) {
	fields := validation.Struct(models.ProcessingLogCreate{})
	require.Len(t, fields, 5)

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"userId", "fileName", "fileSize", "engine", "status"}, names)
}

func TestProcessingLogCreate_RejectsUnknownEngine(t *testing.T) {
	fields := validation.Struct(models.ProcessingLogCreate{
		UserID:   1,
		FileName: "report.pdf",
		FileSize: 1024,
		Engine:   models.EngineType("tesseract"),
		Status:   models.StatusProcessing,
	})
	require.Len(t, fields, 1)
	assert.Equal(t, "engine", fields[0].Field)
}

func TestProcessingLogCreate_RejectsAutoEngine(t *testing.T) {
	// auto is a request-level value; persisted rows must carry a concrete
	// engine.
	fields := validation.Struct(models.ProcessingLogCreate{
		UserID:   1,
		FileName: "report.pdf",
		FileSize: 1024,
		Engine:   models.EngineAuto,
		Status:   models.StatusCompleted,
	})
	require.Len(t, fields, 1)
	assert.Equal(t, "engine", fields[0].Field)
}

func TestProcessingLogCreate_RejectsUnknownStatus(t *testing.T) {
	fields := validation.Struct(models.ProcessingLogCreate{
		UserID:   1,
		FileName: "report.pdf",
		FileSize: 1024,
		Engine:   models.EngineNative,
		Status:   models.ProcessingStatus("done"),
	})
	require.Len(t, fields, 1)
	assert.Equal(t, "status", fields[0].Field)
}

func TestEngineTypeParsing(t *testing.T) {
	for _, valid := range []string{"", "auto", "mistral-ocr", "pdf-text", "native"} {
		_, ok := models.ParseEngineType(valid)
		assert.True(t, ok, "expected %q to parse", valid)
	}

	_, ok := models.ParseEngineType("gpt-vision")
	assert.False(t, ok)

	assert.False(t, models.EngineAuto.Valid())
	assert.True(t, models.EngineMistralOCR.Valid())
	assert.True(t, models.EnginePDFText.Valid())
	assert.True(t, models.EngineNative.Valid())
}
