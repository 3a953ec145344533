package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"socialhub/internal/repository"
	"socialhub/internal/utils"

	"github.com/google/uuid"
)

// Authenticator resolves a bearer assertion into an Identity. Signature and
// expiry are checked first, then the user is loaded, then the embedded
// session secret must hash to a valid ledger row owned by that user.
type Authenticator struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	signer   AssertionSigner
}

func NewAuthenticator(users repository.UserRepository, sessions repository.SessionRepository, signer AssertionSigner) *Authenticator {
	return &Authenticator{
		users:    users,
		sessions: sessions,
		signer:   signer,
	}
}

func (a *Authenticator) Authenticate(ctx context.Context, assertion string) (*Identity, error) {
	if strings.TrimSpace(assertion) == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := a.signer.Parse(assertion)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil || claims.Secret == "" {
		return nil, ErrInvalidToken
	}

	// A missing user invalidates every assertion it ever held.
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	session, err := a.sessions.FindValid(ctx, user.ID, utils.HashToken(claims.Secret))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrInvalidToken
	}

	return identityFromUser(user, session.ID, claims.Secret), nil
}
