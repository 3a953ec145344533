package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionToken is a ledger row backing one signed assertion. Only the hash
// of the session secret is stored.
type SessionToken struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	TokenHash string `gorm:"type:text;not null;index"`
	Valid     bool   `gorm:"default:true;not null"`

	IPAddress *string `gorm:"type:text"`
	UserAgent *string `gorm:"type:text"`

	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}
