package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdministrator = "Administrator"
	RoleModerator     = "Moderator"
	RoleStandardUser  = "Standard User"
	RoleVisitor       = "Visitor"
)

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
}

type Permission struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
}

type RoleHasPermission struct {
	RoleID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Role         Role       `gorm:"constraint:OnDelete:CASCADE"`
	PermissionID uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Permission   Permission `gorm:"constraint:OnDelete:CASCADE"`
}

type UserHasRole struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`
	RoleID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role   Role      `gorm:"constraint:OnDelete:CASCADE"`
}
