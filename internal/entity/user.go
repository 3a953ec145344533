package entity

import (
	"time"

	"github.com/google/uuid"
)

// TwoFactor is embedded in User. Temp* fields hold a pending enrollment that
// only becomes active once confirmed with a valid code.
type TwoFactor struct {
	Enabled     bool   `gorm:"default:false;not null"`
	Secret      string `gorm:"type:text"`
	TempSecret  string `gorm:"type:text"`
	TempQRCode  string `gorm:"type:text"`
	TempCreated *time.Time
}

func (t TwoFactor) Pending() bool {
	return t.TempSecret != ""
}

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Handle         string    `gorm:"type:text;uniqueIndex;not null"`
	Email          string    `gorm:"type:text;uniqueIndex;not null"`
	PasswordHash   string    `gorm:"type:text;not null"`
	Username       string    `gorm:"type:text;not null"`
	ProfilePicture string    `gorm:"type:text"`
	Bio            string    `gorm:"type:text"`
	Verified       bool      `gorm:"default:false;not null"`
	Admin          bool      `gorm:"default:false;not null"`

	TwoFactor TwoFactor `gorm:"embedded;embeddedPrefix:two_factor_"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Sessions []SessionToken
}
