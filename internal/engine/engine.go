package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"pdf-docat-backend/internal/config"
	"pdf-docat-backend/internal/models"
)

// Engine extracts structured content from an uploaded document.
type Engine interface {
	Type() models.EngineType
	Extract(ctx context.Context, doc *models.FileData) (*models.ExtractedContent, error)
}

// Document type classifications used by auto selection.
const (
	DocTypeScanned    = "scanned"
	DocTypeStructured = "structured"
)

// Registry holds the configured engines and owns engine selection. The
// selection mode decides whether the client's choice is honored or coerced
// to auto.
type Registry struct {
	engines       map[models.EngineType]Engine
	selectionMode string
}

func NewRegistry(selectionMode string) *Registry {
	return &Registry{
		engines:       make(map[models.EngineType]Engine),
		selectionMode: selectionMode,
	}
}

func (r *Registry) Register(e Engine) {
	r.engines[e.Type()] = e
}

func (r *Registry) Get(t models.EngineType) (Engine, bool) {
	e, ok := r.engines[t]
	return e, ok
}

func (r *Registry) Available(t models.EngineType) bool {
	_, ok := r.engines[t]
	return ok
}

// SelectionLocked reports whether clients can choose an engine at all.
func (r *Registry) SelectionLocked() bool {
	return r.selectionMode == config.EngineSelectionAutoOnly
}

// Select applies the selection mode to the client's requested engine. In
// auto-only mode every request value collapses to auto; coercion is
// idempotent, so an already-auto request passes through unchanged.
func (r *Registry) Select(requested models.EngineType) models.EngineType {
	if r.selectionMode == config.EngineSelectionAutoOnly {
		return models.EngineAuto
	}
	return requested
}

// ParseRequest maps the raw engine form value onto a request engine. When
// selection is locked the value is ignored entirely and auto is returned;
// an unknown value cannot fail a request the server would not honor anyway.
func (r *Registry) ParseRequest(value string) (models.EngineType, error) {
	if r.SelectionLocked() {
		return models.EngineAuto, nil
	}
	t, ok := models.ParseEngineType(value)
	if !ok {
		return "", fmt.Errorf("engine must be one of: %s, %s, %s, %s",
			models.EngineAuto, models.EngineMistralOCR, models.EnginePDFText, models.EngineNative)
	}
	return t, nil
}

// Resolve maps an auto request to a concrete engine: structured documents
// go to the text-layer engine, everything else to OCR. Concrete requests
// resolve to themselves.
func (r *Registry) Resolve(requested models.EngineType, doc *models.FileData) (Engine, models.EngineType, error) {
	resolved := requested
	if resolved == models.EngineAuto {
		if ClassifyDocument(doc) == DocTypeStructured {
			resolved = models.EnginePDFText
		} else {
			resolved = models.EngineMistralOCR
		}
	}

	e, ok := r.engines[resolved]
	if !ok {
		return nil, resolved, fmt.Errorf("engine %s is not configured", resolved)
	}
	return e, resolved, nil
}

// ClassifyDocument decides whether a document is structured (usable text
// layer) or scanned (needs OCR). PDFs are probed for a text layer;
// anything else, images included, counts as scanned.
func ClassifyDocument(doc *models.FileData) string {
	if strings.EqualFold(filepath.Ext(doc.Name), ".pdf") && HasTextLayer(doc.Data) {
		return DocTypeStructured
	}
	return DocTypeScanned
}

// EstimatePageCount guesses the page count from the file size, assuming an
// average page of 100KB, capped at 200 pages.
func EstimatePageCount(fileSize int64) int {
	pages := int(fileSize / (100 * 1024))
	if pages < 1 {
		pages = 1
	}
	if pages > 200 {
		pages = 200
	}
	return pages
}
