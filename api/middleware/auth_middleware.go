package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"socialhub/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type Authenticator interface {
	Authenticate(ctx context.Context, assertion string) (*service.Identity, error)
}

type AuthMiddleware struct {
	Gate   Authenticator
	Logger logrus.FieldLogger
}

// RequireAuth rejects the request unless it carries a valid assertion backed
// by a live session.
func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.Gate == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
		}
		identity, err := m.Gate.Authenticate(c.Request().Context(), extractBearerToken(c.Request()))
		if err != nil {
			return gateError(err)
		}
		SetIdentity(c, identity)
		return next(c)
	}
}

// OptionalAuth attaches an identity when one can be established and
// otherwise lets the request through anonymously.
func (m AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractBearerToken(c.Request())
		if m.Gate == nil || token == "" {
			return next(c)
		}
		identity, err := m.Gate.Authenticate(c.Request().Context(), token)
		if err != nil {
			if m.Logger != nil {
				m.Logger.WithError(err).Debug("optional auth skipped")
			}
			return next(c)
		}
		SetIdentity(c, identity)
		return next(c)
	}
}

func gateError(err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return err
	}
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
