package routes

import (
	"time"

	"socialhub/api/handler"
	"socialhub/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Profile        *handler.ProfileHandler
	TwoFactor      *handler.TwoFactorHandler
	Admin          *handler.AdminHandler
	AuthMiddleware middleware.AuthMiddleware
	RegisterRate   *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	twoFactorHandler *handler.TwoFactorHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		Profile:        profileHandler,
		TwoFactor:      twoFactorHandler,
		Admin:          adminHandler,
		AuthMiddleware: authMiddleware,
		RegisterRate:   middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	requireAuth := r.AuthMiddleware.RequireAuth

	auth := e.Group("/auth")
	auth.POST("/register", r.Auth.Register, r.RegisterRate.Middleware())
	auth.POST("/login", r.Auth.Login, r.LoginRate.Middleware())
	auth.POST("/refresh", r.Auth.Refresh, requireAuth)
	auth.POST("/logout", r.Auth.Logout, requireAuth)
	auth.POST("/logout-all", r.Auth.LogoutAll, requireAuth)
	auth.GET("/me", r.Auth.Me, requireAuth)
	auth.POST("/2fa/enroll", r.TwoFactor.Enroll, requireAuth)
	auth.POST("/2fa/confirm", r.TwoFactor.Confirm, requireAuth)
	auth.POST("/2fa/disable", r.TwoFactor.Disable, requireAuth)

	users := e.Group("/users")
	users.PATCH("/me", r.Profile.UpdateMe, requireAuth)
	users.GET("/:handle", r.Profile.Show, r.AuthMiddleware.OptionalAuth)

	admin := e.Group("/admin", requireAuth, middleware.RequireAdmin())
	admin.GET("/users", r.Admin.ListUsers)
	admin.PATCH("/users/:id/verify", r.Admin.VerifyUser)
	admin.POST("/users/:id/revoke-sessions", r.Admin.RevokeSessions)
}
