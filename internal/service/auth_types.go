package service

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL   = 2 * time.Hour
	DefaultBcryptCost = 10
)

// AuthConfig is built once at startup and never mutated afterwards.
type AuthConfig struct {
	TokenTTL        time.Duration
	Issuer          string
	TwoFactorIssuer string
}

func (c AuthConfig) tokenTTL() time.Duration {
	if c.TokenTTL > 0 {
		return c.TokenTTL
	}
	return DefaultTokenTTL
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func now(clock Clock) time.Time {
	if clock == nil {
		return time.Now()
	}
	return clock.Now()
}
