package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type JWTManager struct {
	Secret   []byte
	Issuer   string
	TokenTTL time.Duration
	Now      func() time.Time
}

// SessionClaims is the user snapshot carried by an assertion. Secret is the
// raw session secret; the ledger only knows its hash. UserID travels as the
// registered "sub" claim.
type SessionClaims struct {
	UserID         string    `json:"-"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture"`
	Bio            string    `json:"bio"`
	Admin          bool      `json:"admin"`
	Handle         string    `json:"handle"`
	Verified       bool      `json:"verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Secret         string    `json:"secret"`
	jwt.RegisteredClaims
}

func (m JWTManager) ttl() time.Duration {
	if m.TokenTTL == 0 {
		return 2 * time.Hour
	}
	return m.TokenTTL
}

func (m JWTManager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// Sign fills the registered claims and signs with HS256. It returns the
// signed assertion together with its expiry.
func (m JWTManager) Sign(claims SessionClaims) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl())
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    m.Issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies signature and expiry. Expiry is reported as ErrTokenExpired,
// every other failure as ErrInvalidToken.
func (m JWTManager) Parse(tokenString string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.Secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if m.Issuer != "" && claims.Issuer != m.Issuer {
		return nil, ErrInvalidToken
	}
	claims.UserID = claims.Subject
	return claims, nil
}
