package service

import (
	"context"
	"fmt"
	"time"

	"socialhub/internal/entity"
	"socialhub/internal/repository"
	"socialhub/internal/utils"
)

const sessionSecretBytes = 48

type AssertionSigner interface {
	Sign(claims utils.SessionClaims) (string, time.Time, error)
	Parse(token string) (*utils.SessionClaims, error)
}

type SessionMeta struct {
	IPAddress *string
	UserAgent *string
}

type IssuedToken struct {
	Assertion string
	ExpiresIn int64
	ExpiresAt time.Time
}

// TokenIssuer mints signed assertions, each bound to a ledger row.
type TokenIssuer struct {
	sessions repository.SessionRepository
	signer   AssertionSigner
	clock    Clock
	config   AuthConfig
}

func NewTokenIssuer(sessions repository.SessionRepository, signer AssertionSigner, clock Clock, config AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		sessions: sessions,
		signer:   signer,
		clock:    clock,
		config:   config,
	}
}

// Issue persists a new ledger row before signing, so no assertion ever
// exists without a durable session behind it.
func (i *TokenIssuer) Issue(ctx context.Context, user *entity.User, meta SessionMeta) (*IssuedToken, error) {
	secret, err := utils.GenerateRandomToken(sessionSecretBytes)
	if err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}

	session := &entity.SessionToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(secret),
		Valid:     true,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		ExpiresAt: now(i.clock).Add(i.config.tokenTTL()),
	}
	if err := i.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return i.sign(claimsFromUser(user, secret))
}

// Refresh re-signs the caller's assertion with a new expiry. The session
// secret and its ledger row are reused; only the row's expiry moves.
func (i *TokenIssuer) Refresh(ctx context.Context, identity *Identity) (*IssuedToken, error) {
	if identity == nil || identity.SessionSecret == "" {
		return nil, ErrUnauthenticated
	}
	issued, err := i.sign(claimsFromIdentity(identity))
	if err != nil {
		return nil, err
	}
	if err := i.sessions.Touch(ctx, identity.SessionID, issued.ExpiresAt); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	return issued, nil
}

func (i *TokenIssuer) sign(claims utils.SessionClaims) (*IssuedToken, error) {
	assertion, expiresAt, err := i.signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("sign assertion: %w", err)
	}
	return &IssuedToken{
		Assertion: assertion,
		ExpiresIn: int64(i.config.tokenTTL().Seconds()),
		ExpiresAt: expiresAt,
	}, nil
}

func claimsFromUser(user *entity.User, secret string) utils.SessionClaims {
	return utils.SessionClaims{
		UserID:         user.ID.String(),
		Email:          user.Email,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
		Bio:            user.Bio,
		Admin:          user.Admin,
		Handle:         user.Handle,
		Verified:       user.Verified,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
		Secret:         secret,
	}
}

func claimsFromIdentity(identity *Identity) utils.SessionClaims {
	return utils.SessionClaims{
		UserID:         identity.ID.String(),
		Email:          identity.Email,
		Username:       identity.Username,
		ProfilePicture: identity.ProfilePicture,
		Bio:            identity.Bio,
		Admin:          identity.Admin,
		Handle:         identity.Handle,
		Verified:       identity.Verified,
		CreatedAt:      identity.CreatedAt,
		UpdatedAt:      identity.UpdatedAt,
		Secret:         identity.SessionSecret,
	}
}
