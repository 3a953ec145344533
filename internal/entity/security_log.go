package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SecurityAction string

const (
	LoginSuccess      SecurityAction = "login_success"
	LoginFailed       SecurityAction = "login_failed"
	Logout            SecurityAction = "logout"
	LogoutAll         SecurityAction = "logout_all"
	TwoFactorEnabled  SecurityAction = "two_factor_enabled"
	TwoFactorDisabled SecurityAction = "two_factor_disabled"
	TwoFactorFailed   SecurityAction = "two_factor_failed"
	SessionsRevoked   SecurityAction = "sessions_revoked"
)

type SecurityLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"constraint:OnDelete:SET NULL"`

	IPAddress *string        `gorm:"type:text"`
	Action    SecurityAction `gorm:"type:varchar(32);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
