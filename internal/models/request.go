package models

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name,omitempty"`
}

// ProcessingLogCreate is the insertable shape of a processing log: the
// server-generated fields (id, timestamp) are omitted and populated
// downstream.
type ProcessingLogCreate struct {
	UserID           int64                  `json:"userId" validate:"required"`
	FileName         string                 `json:"fileName" validate:"required"`
	FileSize         int64                  `json:"fileSize" validate:"required"`
	FileHash         string                 `json:"fileHash,omitempty"`
	Engine           EngineType             `json:"engine" validate:"required,oneof=mistral-ocr pdf-text native"`
	Status           ProcessingStatus       `json:"status" validate:"required,oneof=idle uploading processing completed error"`
	ProcessingTime   *int64                 `json:"processingTime,omitempty"`
	ExtractedContent map[string]interface{} `json:"extractedContent,omitempty"`
	FileAnnotations  map[string]interface{} `json:"fileAnnotations,omitempty"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	Tier     string `json:"tier,omitempty" validate:"omitempty,oneof=free plus pro"`
}

type UpdateUserRequest struct {
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	Tier     *string `json:"tier,omitempty" validate:"omitempty,oneof=free plus pro"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type UpdateSettingRequest struct {
	Value       string `json:"value" validate:"required"`
	Description string `json:"description,omitempty"`
}
