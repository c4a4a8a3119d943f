package models

import (
	"database/sql"
	"time"
)

type Setting struct {
	Key         string
	Value       string
	Description sql.NullString
	UpdatedAt   time.Time
}
