package memory

import (
	"context"
	"time"

	"socialhub/internal/entity"

	"github.com/google/uuid"
)

type sessionStore struct {
	*Store
}

func (s *sessionStore) Create(_ context.Context, session *entity.SessionToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = s.now()
	session.Valid = true
	stored := *session
	stored.User = entity.User{}
	s.sessions[session.ID] = stored
	return nil
}

func (s *sessionStore) FindValid(_ context.Context, userID uuid.UUID, tokenHash string) (*entity.SessionToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		if session.UserID == userID && session.TokenHash == tokenHash && session.Valid {
			found := session
			return &found, nil
		}
	}
	return nil, nil
}

func (s *sessionStore) Touch(_ context.Context, sessionID uuid.UUID, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	session.ExpiresAt = expiresAt
	s.sessions[sessionID] = session
	return nil
}

func (s *sessionStore) Delete(_ context.Context, userID uuid.UUID, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok && session.UserID == userID {
		delete(s.sessions, sessionID)
	}
	return nil
}

func (s *sessionStore) DeleteAllByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *sessionStore) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, session := range s.sessions {
		if session.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *sessionStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, session := range s.sessions {
		if session.ExpiresAt.Before(before) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}
