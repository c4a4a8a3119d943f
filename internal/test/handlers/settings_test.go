package handlers_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pdf-docat-backend/internal/handlers"
)

func TestMaskSensitiveValue(t *testing.T) {
	assert.Equal(t, "sk-1"+strings.Repeat("•", 11)+"3456",
		handlers.MaskSensitiveValue("MISTRAL_API_KEY", "sk-1234567890123456"))

	// Non-key settings pass through untouched.
	assert.Equal(t, "production",
		handlers.MaskSensitiveValue("ENVIRONMENT", "production"))

	// Short values are not masked even for key settings.
	assert.Equal(t, "short",
		handlers.MaskSensitiveValue("OPENROUTER_API_KEY", "short"))
}
