package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pdf-docat-backend/internal/models"
	"pdf-docat-backend/internal/openrouter"
)

// NativeEngine hands the document to a multimodal model and asks it to emit
// the structured content directly.
type NativeEngine struct {
	client *openrouter.Client
}

func NewNativeEngine(client *openrouter.Client) *NativeEngine {
	return &NativeEngine{client: client}
}

func (e *NativeEngine) Type() models.EngineType {
	return models.EngineNative
}

func (e *NativeEngine) Extract(ctx context.Context, doc *models.FileData) (*models.ExtractedContent, error) {
	output, err := e.client.IngestDocument(ctx, doc.Name, doc.Data, doc.Type)
	if err != nil {
		return nil, fmt.Errorf("native ingestion failed: %w", err)
	}

	content := parseModelOutput(output)
	if content.Title == "" {
		content.Title = DocumentTitle(doc.Name)
	}
	if content.Pages == 0 {
		content.Pages = EstimatePageCount(doc.Size)
	}
	content.Metadata = models.ContentMetadata{
		ExtractionTime: time.Now().UTC().Format(time.RFC3339),
		WordCount:      CountWords(content.Content),
		Confidence:     0.85,
	}
	return content, nil
}

// parseModelOutput decodes the model's JSON answer, tolerating a markdown
// code fence around it. Anything undecodable is kept as a single text block
// rather than dropped.
func parseModelOutput(output string) *models.ExtractedContent {
	trimmed := strings.TrimSpace(output)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var content models.ExtractedContent
	if err := json.Unmarshal([]byte(trimmed), &content); err == nil && len(content.Content) > 0 {
		return &content
	}

	return &models.ExtractedContent{
		Content: []models.ContentBlock{{Type: "text", Content: trimmed}},
	}
}
