package service

import (
	"time"

	"socialhub/internal/entity"

	"github.com/google/uuid"
)

// Identity is what an authenticated request carries: the freshly loaded
// user without credentials, plus the session it authenticated with.
type Identity struct {
	ID             uuid.UUID
	Email          string
	Username       string
	ProfilePicture string
	Bio            string
	Admin          bool
	Handle         string
	Verified       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	SessionID     uuid.UUID
	SessionSecret string
}

func identityFromUser(user *entity.User, sessionID uuid.UUID, secret string) *Identity {
	return &Identity{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
		Bio:            user.Bio,
		Admin:          user.Admin,
		Handle:         user.Handle,
		Verified:       user.Verified,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
		SessionID:      sessionID,
		SessionSecret:  secret,
	}
}
