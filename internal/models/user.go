package models

import (
	"database/sql"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	TierFree = "free"
	TierPlus = "plus"
	TierPro  = "pro"
)

// TierCredits maps a subscription tier to its credit allowance.
var TierCredits = map[string]int{
	TierFree: 500,
	TierPlus: 50000,
	TierPro:  1000000,
}

type User struct {
	ID           int64
	Email        string
	Password     string
	Name         sql.NullString
	Role         string
	Tier         string
	CreditsUsed  int
	CreditsLimit int
	IsActive     bool
	LastActive   time.Time
	CreatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type CreditLog struct {
	ID          int64
	UserID      int64
	Amount      int
	DocumentID  sql.NullInt64
	Description sql.NullString
	CreatedAt   time.Time
}
