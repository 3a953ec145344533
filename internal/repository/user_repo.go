package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"socialhub/internal/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Returned by Create and Update when a unique index rejects the write.
var (
	ErrDuplicateEmail  = errors.New("duplicate email")
	ErrDuplicateHandle = errors.New("duplicate handle")
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByHandle(ctx context.Context, handle string) (*entity.User, error)
	// Update writes the profile columns only: handle, username, bio and
	// profile picture. Two-factor state and flags have their own setters.
	Update(ctx context.Context, user *entity.User) error
	UpdateTwoFactor(ctx context.Context, userID uuid.UUID, state entity.TwoFactor) error
	SetVerified(ctx context.Context, userID uuid.UUID, verified bool) error
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return uniqueViolation(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) FindByHandle(ctx context.Context, handle string) (*entity.User, error) {
	return r.first(ctx, "handle = ?", handle)
}

func (r *userRepository) first(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where(query, args...).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"handle":          user.Handle,
			"username":        user.Username,
			"bio":             user.Bio,
			"profile_picture": user.ProfilePicture,
			"updated_at":      user.UpdatedAt,
		}).
		Error
	return uniqueViolation(err)
}

// UpdateTwoFactor writes the whole embedded two-factor record in one
// statement so a transition never leaves half-updated columns.
func (r *userRepository) UpdateTwoFactor(ctx context.Context, userID uuid.UUID, state entity.TwoFactor) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"two_factor_enabled":      state.Enabled,
			"two_factor_secret":       state.Secret,
			"two_factor_temp_secret":  state.TempSecret,
			"two_factor_temp_qr_code": state.TempQRCode,
			"two_factor_temp_created": state.TempCreated,
		}).
		Error
}

func (r *userRepository) SetVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("verified", verified).
		Error
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	var users []entity.User
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// uniqueViolation maps a postgres unique violation on the users table to the
// field that collided. Index names come from the uniqueIndex tags on User.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return ErrDuplicateEmail
	case strings.Contains(pgErr.ConstraintName, "handle"):
		return ErrDuplicateHandle
	default:
		return err
	}
}
