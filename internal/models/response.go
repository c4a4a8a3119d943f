package models

import (
	"encoding/json"
	"time"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// FieldError is one field-scoped validation failure, returned to the caller
// so it can be rendered next to the offending form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type UserResponse struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Role         string    `json:"role"`
	Tier         string    `json:"tier"`
	CreditsUsed  int       `json:"credits_used"`
	CreditsLimit int       `json:"credits_limit"`
	IsActive     bool      `json:"is_active"`
	LastActive   time.Time `json:"last_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name.String,
		Role:         u.Role,
		Tier:         u.Tier,
		CreditsUsed:  u.CreditsUsed,
		CreditsLimit: u.CreditsLimit,
		IsActive:     u.IsActive,
		LastActive:   u.LastActive,
		CreatedAt:    u.CreatedAt,
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

type ProcessResponse struct {
	ExtractedContent json.RawMessage `json:"extractedContent"`
	FileAnnotations  json.RawMessage `json:"fileAnnotations,omitempty"`
	LogID            int64           `json:"logId"`
	Cached           bool            `json:"cached"`
}

type ProcessingLogResponse struct {
	ID               int64            `json:"id"`
	UserID           int64            `json:"user_id"`
	FileName         string           `json:"file_name"`
	FileSize         int64            `json:"file_size"`
	FileHash         string           `json:"file_hash,omitempty"`
	Engine           EngineType       `json:"engine"`
	Status           ProcessingStatus `json:"status"`
	ProcessingTime   *int64           `json:"processing_time,omitempty"`
	ExtractedContent json.RawMessage  `json:"extracted_content,omitempty"`
	FileAnnotations  json.RawMessage  `json:"file_annotations,omitempty"`
	CreditsUsed      *int64           `json:"credits_used,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}

func NewProcessingLogResponse(l *ProcessingLog) ProcessingLogResponse {
	resp := ProcessingLogResponse{
		ID:               l.ID,
		UserID:           l.UserID,
		FileName:         l.FileName,
		FileSize:         l.FileSize,
		Engine:           l.Engine,
		Status:           l.Status,
		ExtractedContent: l.ExtractedContent,
		FileAnnotations:  l.FileAnnotations,
		Timestamp:        l.Timestamp,
	}
	if l.FileHash.Valid {
		resp.FileHash = l.FileHash.String
	}
	if l.ProcessingTime.Valid {
		t := l.ProcessingTime.Int64
		resp.ProcessingTime = &t
	}
	if l.CreditsUsed.Valid {
		c := l.CreditsUsed.Int64
		resp.CreditsUsed = &c
	}
	return resp
}

type ProcessingLogListResponse struct {
	Logs []ProcessingLogResponse `json:"logs"`
}

type CreditsResponse struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

type EngineInfo struct {
	ID          EngineType `json:"id"`
	Label       string     `json:"label"`
	Description string     `json:"description"`
	Available   bool       `json:"available"`
}

type EnginesResponse struct {
	Engines         []EngineInfo `json:"engines"`
	Default         EngineType   `json:"default"`
	SelectionLocked bool         `json:"selection_locked"`
}

type SettingResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SettingListResponse struct {
	Settings []SettingResponse `json:"settings"`
}
