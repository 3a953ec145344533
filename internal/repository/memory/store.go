// Package memory keeps every repository in process memory. It backs the
// server when no DATABASE_URL is configured and is used throughout tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialhub/internal/entity"
	"socialhub/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]entity.User
	sessions    map[uuid.UUID]entity.SessionToken
	logs        []entity.SecurityLog
	roles       map[string]entity.Role
	permissions map[string]entity.Permission
	grants      map[[2]uuid.UUID]struct{}
	userRoles   map[[2]uuid.UUID]struct{}
	now         func() time.Time
}

var (
	_ repository.UserRepository        = (*Store)(nil)
	_ repository.SessionRepository     = (*sessionStore)(nil)
	_ repository.SecurityLogRepository = (*Store)(nil)
	_ repository.RoleRepository        = (*Store)(nil)
)

func New() *Store {
	return &Store{
		users:       make(map[uuid.UUID]entity.User),
		sessions:    make(map[uuid.UUID]entity.SessionToken),
		roles:       make(map[string]entity.Role),
		permissions: make(map[string]entity.Permission),
		grants:      make(map[[2]uuid.UUID]struct{}),
		userRoles:   make(map[[2]uuid.UUID]struct{}),
		now:         time.Now,
	}
}

// Sessions exposes the ledger half of the store. It is a separate type
// because its Create/Delete signatures clash with the user repository.
func (s *Store) Sessions() repository.SessionRepository {
	return &sessionStore{s}
}

// Users

func (s *Store) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(uuid.Nil, user.Email, user.Handle); err != nil {
		return err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	stored.Sessions = nil
	s.users[user.ID] = stored
	return nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return s.findUser(func(u entity.User) bool { return u.Email == email }), nil
}

func (s *Store) FindByHandle(_ context.Context, handle string) (*entity.User, error) {
	return s.findUser(func(u entity.User) bool { return u.Handle == handle }), nil
}

func (s *Store) findUser(match func(entity.User) bool) *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if match(user) {
			found := user
			return &found
		}
	}
	return nil
}

// Update copies only the profile fields, like the column-scoped UPDATE of
// the gorm repository.
func (s *Store) Update(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[user.ID]
	if !ok {
		return nil
	}
	if err := s.checkUnique(user.ID, "", user.Handle); err != nil {
		return err
	}
	stored.Handle = user.Handle
	stored.Username = user.Username
	stored.Bio = user.Bio
	stored.ProfilePicture = user.ProfilePicture
	stored.UpdatedAt = s.now()
	user.UpdatedAt = stored.UpdatedAt
	s.users[user.ID] = stored
	return nil
}

// checkUnique reports email collisions before handle collisions. Callers
// hold the write lock.
func (s *Store) checkUnique(self uuid.UUID, email, handle string) error {
	for id, existing := range s.users {
		if id != self && email != "" && existing.Email == email {
			return repository.ErrDuplicateEmail
		}
	}
	for id, existing := range s.users {
		if id != self && existing.Handle == handle {
			return repository.ErrDuplicateHandle
		}
	}
	return nil
}

func (s *Store) UpdateTwoFactor(_ context.Context, userID uuid.UUID, state entity.TwoFactor) error {
	return s.mutateUser(userID, func(u *entity.User) { u.TwoFactor = state })
}

func (s *Store) SetVerified(_ context.Context, userID uuid.UUID, verified bool) error {
	return s.mutateUser(userID, func(u *entity.User) { u.Verified = verified })
}

func (s *Store) mutateUser(userID uuid.UUID, apply func(*entity.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil
	}
	apply(&user)
	user.UpdatedAt = s.now()
	s.users[userID] = user
	return nil
}

func (s *Store) List(_ context.Context, limit, offset int) ([]entity.User, error) {
	s.mu.RLock()
	users := make([]entity.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	if offset > 0 {
		if offset >= len(users) {
			return []entity.User{}, nil
		}
		users = users[offset:]
	}
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

// SetAdmin flips the admin flag. There is no API for it; operators grant
// admin directly in the database.
func (s *Store) SetAdmin(userID uuid.UUID, admin bool) {
	_ = s.mutateUser(userID, func(u *entity.User) { u.Admin = admin })
}

// DeleteUser removes a user and, like the database cascade, its sessions
// and role bindings.
func (s *Store) DeleteUser(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
		}
	}
	for key := range s.userRoles {
		if key[0] == userID {
			delete(s.userRoles, key)
		}
	}
}

// Security log

func (s *Store) Log(_ context.Context, log *entity.SecurityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = s.now()
	s.logs = append(s.logs, *log)
	return nil
}

// SecurityLogs returns a copy of every audit entry written so far.
func (s *Store) SecurityLogs() []entity.SecurityLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.SecurityLog, len(s.logs))
	copy(out, s.logs)
	return out
}
