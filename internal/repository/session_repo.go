package repository

import (
	"context"
	"errors"
	"time"

	"socialhub/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.SessionToken) error
	FindValid(ctx context.Context, userID uuid.UUID, tokenHash string) (*entity.SessionToken, error)
	Touch(ctx context.Context, sessionID uuid.UUID, expiresAt time.Time) error
	Delete(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *entity.SessionToken) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindValid looks the hash up within the user's own rows only.
func (r *sessionRepository) FindValid(ctx context.Context, userID uuid.UUID, tokenHash string) (*entity.SessionToken, error) {
	var session entity.SessionToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token_hash = ? AND valid = true", userID, tokenHash).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Touch(ctx context.Context, sessionID uuid.UUID, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.SessionToken{}).
		Where("id = ?", sessionID).
		Update("expires_at", expiresAt).
		Error
}

func (r *sessionRepository) Delete(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Delete(&entity.SessionToken{}).
		Error
}

func (r *sessionRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.SessionToken{})
	return result.RowsAffected, result.Error
}

func (r *sessionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.SessionToken{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&entity.SessionToken{})
	return result.RowsAffected, result.Error
}
