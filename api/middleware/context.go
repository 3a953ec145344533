package middleware

import (
	"socialhub/internal/service"

	"github.com/labstack/echo/v4"
)

const contextIdentityKey = "auth_identity"

// Identity is the authenticated caller attached to a request.
type Identity = service.Identity

func SetIdentity(c echo.Context, identity *Identity) {
	c.Set(contextIdentityKey, identity)
}

// IdentityFromContext returns the identity attached by RequireAuth or
// OptionalAuth. ok is false for anonymous requests.
func IdentityFromContext(c echo.Context) (*Identity, bool) {
	identity, ok := c.Get(contextIdentityKey).(*Identity)
	return identity, ok && identity != nil
}
