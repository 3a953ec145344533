package service

import (
	"context"

	"socialhub/internal/entity"
	"socialhub/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TwoFactorService drives Disabled -> Pending -> Enabled -> Disabled.
// A pending secret lives apart from the confirmed one and only replaces it
// after the caller proves possession with a valid code.
type TwoFactorService struct {
	users    repository.UserRepository
	provider TwoFactorProvider
	clock    Clock
	audit    auditor
}

func NewTwoFactorService(
	users repository.UserRepository,
	provider TwoFactorProvider,
	securityLogs repository.SecurityLogRepository,
	clock Clock,
	logger logrus.FieldLogger,
) *TwoFactorService {
	return &TwoFactorService{
		users:    users,
		provider: provider,
		clock:    clock,
		audit:    auditor{repo: securityLogs, logger: logger},
	}
}

// BeginEnrollment overwrites any earlier pending enrollment.
func (s *TwoFactorService) BeginEnrollment(ctx context.Context, userID uuid.UUID) (*Provisioning, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TwoFactor.Enabled {
		return nil, ErrTwoFactorAlreadyEnabled
	}

	provisioning, err := s.provider.Generate(user.Email)
	if err != nil {
		return nil, err
	}

	created := now(s.clock)
	state := entity.TwoFactor{
		Enabled:     false,
		TempSecret:  provisioning.Secret,
		TempQRCode:  provisioning.QRCode,
		TempCreated: &created,
	}
	if err := s.users.UpdateTwoFactor(ctx, user.ID, state); err != nil {
		return nil, err
	}
	return provisioning, nil
}

func (s *TwoFactorService) ConfirmEnrollment(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactor.Enabled {
		return ErrTwoFactorAlreadyEnabled
	}
	if !user.TwoFactor.Pending() || !s.provider.ValidateCode(user.TwoFactor.TempSecret, code) {
		s.audit.record(ctx, &user.ID, nil, entity.TwoFactorFailed, map[string]any{"stage": "confirm"})
		return ErrInvalidTwoFactorCode
	}

	state := entity.TwoFactor{
		Enabled: true,
		Secret:  user.TwoFactor.TempSecret,
	}
	if err := s.users.UpdateTwoFactor(ctx, user.ID, state); err != nil {
		return err
	}
	s.audit.record(ctx, &user.ID, nil, entity.TwoFactorEnabled, nil)
	return nil
}

func (s *TwoFactorService) Disable(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoFactor.Enabled {
		return ErrTwoFactorNotEnabled
	}
	if !s.provider.ValidateCode(user.TwoFactor.Secret, code) {
		s.audit.record(ctx, &user.ID, nil, entity.TwoFactorFailed, map[string]any{"stage": "disable"})
		return ErrInvalidTwoFactorCode
	}

	if err := s.users.UpdateTwoFactor(ctx, user.ID, entity.TwoFactor{}); err != nil {
		return err
	}
	s.audit.record(ctx, &user.ID, nil, entity.TwoFactorDisabled, nil)
	return nil
}

func (s *TwoFactorService) load(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
