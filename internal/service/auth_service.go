package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"socialhub/internal/entity"
	"socialhub/internal/repository"
	"socialhub/internal/utils"
	"socialhub/internal/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type TwoFactorProvider interface {
	Generate(accountName string) (*Provisioning, error)
	ValidateCode(secret string, code string) bool
}

type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	roles    repository.RoleRepository

	passwordHash PasswordHasher
	tokens       *TokenIssuer
	twoFactor    TwoFactorProvider
	audit        auditor
	logger       logrus.FieldLogger
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	roles repository.RoleRepository,
	securityLogs repository.SecurityLogRepository,
	passwordHash PasswordHasher,
	tokens *TokenIssuer,
	twoFactor TwoFactorProvider,
	logger logrus.FieldLogger,
) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthService{
		users:        users,
		sessions:     sessions,
		roles:        roles,
		passwordHash: passwordHash,
		tokens:       tokens,
		twoFactor:    twoFactor,
		audit:        auditor{repo: securityLogs, logger: logger},
		logger:       logger,
	}
}

// Register creates an unverified, non-admin user. Handle and username
// length is not checked here; only profile updates enforce it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" ||
		strings.TrimSpace(input.Handle) == "" || strings.TrimSpace(input.Username) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	handle := utils.NormalizeHandle(input.Handle)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	existing, err = s.users.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrHandleTaken
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Handle:       handle,
		Email:        email,
		PasswordHash: hash,
		Username:     strings.TrimSpace(input.Username),
	}
	// The lookups above can race a concurrent registration; the unique
	// indexes settle it.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, conflictError(err)
	}

	s.assignRole(ctx, user.ID, entity.RoleStandardUser)
	return user, nil
}

// Login never tells the caller whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		s.audit.record(ctx, nil, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}
	if !s.passwordHash.Verify(user.PasswordHash, input.Password) {
		s.audit.record(ctx, &user.ID, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactor.Enabled {
		if strings.TrimSpace(input.Code) == "" {
			return nil, ErrTwoFactorRequired
		}
		if s.twoFactor == nil || !s.twoFactor.ValidateCode(user.TwoFactor.Secret, input.Code) {
			s.audit.record(ctx, &user.ID, input.IPAddress, entity.TwoFactorFailed, map[string]any{"stage": "login"})
			return nil, ErrInvalidTwoFactorCode
		}
	}

	token, err := s.tokens.Issue(ctx, user, SessionMeta{IPAddress: input.IPAddress, UserAgent: input.UserAgent})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, &user.ID, input.IPAddress, entity.LoginSuccess, map[string]any{"two_factor": user.TwoFactor.Enabled})
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) Refresh(ctx context.Context, identity *Identity) (*IssuedToken, error) {
	return s.tokens.Refresh(ctx, identity)
}

// Logout deletes the ledger row behind the caller's assertion, which
// invalidates it immediately.
func (s *AuthService) Logout(ctx context.Context, identity *Identity, ipAddress *string) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if err := s.sessions.Delete(ctx, identity.ID, identity.SessionID); err != nil {
		return err
	}
	s.audit.record(ctx, &identity.ID, ipAddress, entity.Logout, nil)
	return nil
}

func (s *AuthService) LogoutAll(ctx context.Context, identity *Identity, ipAddress *string) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	removed, err := s.sessions.DeleteAllByUser(ctx, identity.ID)
	if err != nil {
		return err
	}
	s.audit.record(ctx, &identity.ID, ipAddress, entity.LogoutAll, map[string]any{"sessions": removed})
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &Profile{User: user, Roles: s.roleNames(ctx, user)}, nil
}

func (s *AuthService) GetPublicProfile(ctx context.Context, handle string) (*entity.User, error) {
	user, err := s.users.FindByHandle(ctx, utils.NormalizeHandle(handle))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile enforces the 3-32 character bounds on handle and username.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.User, error) {
	fieldErrs := validation.Errors{}
	if input.Handle != nil && !validation.ValidName(*input.Handle) {
		fieldErrs["handle"] = fmt.Sprintf("handle must be between %d and %d characters", validation.MinNameLen, validation.MaxNameLen)
	}
	if input.Username != nil && !validation.ValidName(*input.Username) {
		fieldErrs["username"] = fmt.Sprintf("username must be between %d and %d characters", validation.MinNameLen, validation.MaxNameLen)
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Handle != nil {
		handle := utils.NormalizeHandle(*input.Handle)
		if handle != user.Handle {
			taken, err := s.users.FindByHandle(ctx, handle)
			if err != nil {
				return nil, err
			}
			if taken != nil {
				return nil, ErrHandleTaken
			}
			user.Handle = handle
		}
	}
	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.ProfilePicture != nil {
		user.ProfilePicture = strings.TrimSpace(*input.ProfilePicture)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, conflictError(err)
	}
	// Reload so flags changed concurrently are reported as stored.
	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *AuthService) SetVerified(ctx context.Context, userID uuid.UUID, verified bool) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := s.users.SetVerified(ctx, userID, verified); err != nil {
		return nil, err
	}
	user.Verified = verified
	return user, nil
}

func (s *AuthService) RevokeUserSessions(ctx context.Context, actor *Identity, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	removed, err := s.sessions.DeleteAllByUser(ctx, userID)
	if err != nil {
		return err
	}
	metadata := map[string]any{"sessions": removed}
	if actor != nil {
		metadata["revoked_by"] = actor.ID.String()
	}
	s.audit.record(ctx, &userID, nil, entity.SessionsRevoked, metadata)
	return nil
}

func (s *AuthService) assignRole(ctx context.Context, userID uuid.UUID, roleName string) {
	if s.roles == nil {
		return
	}
	role, err := s.roles.FindRoleByName(ctx, roleName)
	if err == nil && role != nil {
		err = s.roles.AssignUserRole(ctx, userID, role.ID)
	}
	if err != nil {
		s.logger.WithError(err).WithField("role", roleName).Warn("assign role failed")
	}
}

// roleNames is informational. The admin flag stays the only authorization
// signal, so it is reflected here even without a role binding.
func (s *AuthService) roleNames(ctx context.Context, user *entity.User) []string {
	names := []string{}
	if s.roles != nil {
		found, err := s.roles.RoleNamesForUser(ctx, user.ID)
		if err != nil {
			s.logger.WithError(err).Warn("load roles failed")
		} else {
			names = append(names, found...)
		}
	}
	if user.Admin && !slices.Contains(names, entity.RoleAdministrator) {
		names = append(names, entity.RoleAdministrator)
	}
	return names
}

func conflictError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrDuplicateHandle):
		return ErrHandleTaken
	default:
		return err
	}
}
