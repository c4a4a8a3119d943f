package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"pdf-docat-backend/internal/models"
)

// PDFTextEngine extracts the embedded text layer of a structured PDF. It
// never leaves the process; scanned documents with no text layer are
// rejected so callers can fall back to OCR.
type PDFTextEngine struct{}

func NewPDFTextEngine() *PDFTextEngine {
	return &PDFTextEngine{}
}

func (e *PDFTextEngine) Type() models.EngineType {
	return models.EnginePDFText
}

func (e *PDFTextEngine) Extract(ctx context.Context, doc *models.FileData) (*models.ExtractedContent, error) {
	reader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to read text layer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return nil, fmt.Errorf("failed to read text layer: %w", err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return nil, fmt.Errorf("document has no text layer; use an OCR engine")
	}

	blocks := ParseBlocks(text)
	return &models.ExtractedContent{
		Title:   DocumentTitle(doc.Name),
		Pages:   reader.NumPage(),
		Content: blocks,
		Metadata: models.ContentMetadata{
			ExtractionTime: time.Now().UTC().Format(time.RFC3339),
			WordCount:      CountWords(blocks),
			Confidence:     1.0,
		},
	}, nil
}

// HasTextLayer reports whether the PDF carries extractable text. Used by
// auto engine selection to route scanned documents to OCR.
func HasTextLayer(data []byte) bool {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return false
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return false
	}
	return strings.TrimSpace(buf.String()) != ""
}

// DocumentTitle derives a display title from the uploaded filename.
func DocumentTitle(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
