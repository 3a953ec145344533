package repository

import (
	"context"

	"socialhub/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoleRepository stores the role and permission catalog. The catalog is
// descriptive; request authorization does not read it.
type RoleRepository interface {
	EnsureRole(ctx context.Context, name string, description string) (*entity.Role, error)
	EnsurePermission(ctx context.Context, name string, description string) (*entity.Permission, error)
	Grant(ctx context.Context, roleID uuid.UUID, permissionID uuid.UUID) error
	FindRoleByName(ctx context.Context, name string) (*entity.Role, error)
	AssignUserRole(ctx context.Context, userID uuid.UUID, roleID uuid.UUID) error
	RoleNamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) EnsureRole(ctx context.Context, name string, description string) (*entity.Role, error) {
	role := entity.Role{Name: name, Description: description}
	err := r.db.WithContext(ctx).
		Where(entity.Role{Name: name}).
		Attrs(entity.Role{Description: description}).
		FirstOrCreate(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) EnsurePermission(ctx context.Context, name string, description string) (*entity.Permission, error) {
	permission := entity.Permission{Name: name, Description: description}
	err := r.db.WithContext(ctx).
		Where(entity.Permission{Name: name}).
		Attrs(entity.Permission{Description: description}).
		FirstOrCreate(&permission).Error
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *roleRepository) Grant(ctx context.Context, roleID uuid.UUID, permissionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.RoleHasPermission{RoleID: roleID, PermissionID: permissionID}).
		Error
}

func (r *roleRepository) FindRoleByName(ctx context.Context, name string) (*entity.Role, error) {
	var roles []entity.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&roles).Error; err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, nil
	}
	return &roles[0], nil
}

func (r *roleRepository) AssignUserRole(ctx context.Context, userID uuid.UUID, roleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.UserHasRole{UserID: userID, RoleID: roleID}).
		Error
}

func (r *roleRepository) RoleNamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&entity.Role{}).
		Joins("JOIN user_has_roles ON user_has_roles.role_id = roles.id").
		Where("user_has_roles.user_id = ?", userID).
		Order("roles.name").
		Pluck("roles.name", &names).Error
	return names, err
}
