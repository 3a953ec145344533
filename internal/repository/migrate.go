package repository

import (
	"socialhub/internal/entity"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.SessionToken{},
		&entity.Role{},
		&entity.Permission{},
		&entity.RoleHasPermission{},
		&entity.UserHasRole{},
		&entity.SecurityLog{},
	)
}
