package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// EngineType identifies the backend strategy used to extract content from an
// uploaded document. EngineAuto is a request-level value only: it is resolved
// to one of the three concrete engines before anything is persisted.
type EngineType string

const (
	EngineAuto       EngineType = "auto"
	EngineMistralOCR EngineType = "mistral-ocr"
	EnginePDFText    EngineType = "pdf-text"
	EngineNative     EngineType = "native"
)

// Engines lists the concrete engines a processing log may carry.
var Engines = []EngineType{EngineMistralOCR, EnginePDFText, EngineNative}

// Valid reports whether e is a concrete, persistable engine.
func (e EngineType) Valid() bool {
	switch e {
	case EngineMistralOCR, EnginePDFText, EngineNative:
		return true
	}
	return false
}

// ParseEngineType maps a request value to an EngineType. An empty value
// defaults to auto.
func ParseEngineType(s string) (EngineType, bool) {
	switch EngineType(s) {
	case EngineAuto, "":
		return EngineAuto, true
	case EngineMistralOCR, EnginePDFText, EngineNative:
		return EngineType(s), true
	}
	return "", false
}

type ProcessingStatus string

const (
	StatusIdle       ProcessingStatus = "idle"
	StatusUploading  ProcessingStatus = "uploading"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusError      ProcessingStatus = "error"
)

func (s ProcessingStatus) Valid() bool {
	switch s {
	case StatusIdle, StatusUploading, StatusProcessing, StatusCompleted, StatusError:
		return true
	}
	return false
}

// ProcessingLog is one row per document-processing attempt. Created when an
// upload is accepted, mutated once on completion or error, otherwise
// immutable.
type ProcessingLog struct {
	ID               int64
	UserID           int64
	FileName         string
	FileSize         int64
	FileHash         sql.NullString
	Engine           EngineType
	Status           ProcessingStatus
	ProcessingTime   sql.NullInt64
	ExtractedContent json.RawMessage
	FileAnnotations  json.RawMessage
	CreditsUsed      sql.NullInt64
	Timestamp        time.Time
}

// ContentBlock is one ordered element of an extracted document. Type is one
// of "text", "heading", "code" or "table"; the remaining fields are
// type-specific.
type ContentBlock struct {
	Type     string     `json:"type"`
	Content  string     `json:"content,omitempty"`
	Level    int        `json:"level,omitempty"`
	Language string     `json:"language,omitempty"`
	Headers  []string   `json:"headers,omitempty"`
	Rows     [][]string `json:"rows,omitempty"`
}

type ContentMetadata struct {
	ExtractionTime string  `json:"extractionTime"`
	WordCount      int     `json:"wordCount"`
	Confidence     float64 `json:"confidence"`
}

// ExtractedContent is the structured result an engine produces for a
// document.
type ExtractedContent struct {
	Title    string          `json:"title"`
	Pages    int             `json:"pages"`
	Content  []ContentBlock  `json:"content"`
	Metadata ContentMetadata `json:"metadata"`
}

// FileData carries an uploaded document across the client/server boundary.
type FileData struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified,omitempty"`
	Type         string    `json:"type"`
	Data         []byte    `json:"data,omitempty"`
}
