package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
	"pdf-docat-backend/internal/mistral"
	"pdf-docat-backend/internal/models"
)

// OCREngine sends documents to the Mistral OCR API. When no API client is
// configured it falls back to local tesseract, converting PDF pages to
// images with pdftoppm first.
type OCREngine struct {
	client *mistral.Client
}

func NewOCREngine(client *mistral.Client) *OCREngine {
	return &OCREngine{client: client}
}

func (e *OCREngine) Type() models.EngineType {
	return models.EngineMistralOCR
}

func (e *OCREngine) Extract(ctx context.Context, doc *models.FileData) (*models.ExtractedContent, error) {
	if e.client != nil {
		return e.extractRemote(ctx, doc)
	}
	return e.extractLocal(ctx, doc)
}

func (e *OCREngine) extractRemote(ctx context.Context, doc *models.FileData) (*models.ExtractedContent, error) {
	var resp *mistral.OCRResponse
	err := e.client.RetryWithBackoff(func() error {
		var err error
		resp, err = e.client.ProcessDocument(ctx, doc.Data, doc.Type)
		return err
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("ocr failed: %w", err)
	}

	var blocks []models.ContentBlock
	for _, page := range resp.Pages {
		blocks = append(blocks, ParseBlocks(page.Markdown)...)
	}

	pages := resp.UsageInfo.PagesProcessed
	if pages == 0 {
		pages = len(resp.Pages)
	}

	return &models.ExtractedContent{
		Title:   DocumentTitle(doc.Name),
		Pages:   pages,
		Content: blocks,
		Metadata: models.ContentMetadata{
			ExtractionTime: time.Now().UTC().Format(time.RFC3339),
			WordCount:      CountWords(blocks),
			Confidence:     0.9,
		},
	}, nil
}

func (e *OCREngine) extractLocal(ctx context.Context, doc *models.FileData) (*models.ExtractedContent, error) {
	tmp, err := os.CreateTemp("", "docat-ocr-*"+filepath.Ext(doc.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc.Data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	var text string
	pages := 1
	if strings.EqualFold(filepath.Ext(doc.Name), ".pdf") {
		text, pages, err = e.ocrPDF(ctx, tmp.Name())
	} else {
		text, err = runTesseract(tmp.Name())
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("ocr produced no text")
	}

	blocks := ParseBlocks(text)
	return &models.ExtractedContent{
		Title:   DocumentTitle(doc.Name),
		Pages:   pages,
		Content: blocks,
		Metadata: models.ContentMetadata{
			ExtractionTime: time.Now().UTC().Format(time.RFC3339),
			WordCount:      CountWords(blocks),
			Confidence:     0.7,
		},
	}, nil
}

// ocrPDF renders the PDF to page images with pdftoppm (poppler) and runs
// tesseract over each page in order. Each invocation renders into its own
// directory so concurrent extractions cannot see each other's pages.
func (e *OCREngine) ocrPDF(ctx context.Context, path string) (string, int, error) {
	dir, err := os.MkdirTemp("", "docat-pages-")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create page directory: %w", err)
	}
	defer os.RemoveAll(dir)

	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", "150", path, filepath.Join(dir, "page"))
	if err := cmd.Run(); err != nil {
		return "", 0, fmt.Errorf("pdftoppm failed (is poppler installed?): %w", err)
	}

	matches, err := PageImages(dir)
	if err != nil {
		return "", 0, err
	}

	var combined strings.Builder
	for _, m := range matches {
		pageText, err := runTesseract(m)
		if err != nil {
			continue
		}
		combined.WriteString(pageText)
		combined.WriteString("\n\n")
	}
	return strings.TrimSpace(combined.String()), len(matches), nil
}

// PageImages lists the rendered page images inside one invocation's private
// directory, in page order.
func PageImages(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func runTesseract(imgPath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(imgPath); err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
