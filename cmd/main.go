package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialhub/api/handler"
	apiMiddleware "socialhub/api/middleware"
	"socialhub/api/response"
	"socialhub/api/routes"
	"socialhub/config"
	"socialhub/internal/repository"
	"socialhub/internal/repository/memory"
	"socialhub/internal/service"
	"socialhub/internal/utils"
	"socialhub/internal/validation"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

type storage struct {
	users        repository.UserRepository
	sessions     repository.SessionRepository
	roles        repository.RoleRepository
	securityLogs repository.SecurityLogRepository
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}
	logger.SetLevel(cfg.LogrusLevel())

	store, err := openStorage(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("open storage")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedRoles {
		if err := service.SeedRoles(ctx, store.roles); err != nil {
			logger.WithError(err).Fatal("seed roles")
		}
	}

	authConfig := service.AuthConfig{
		TokenTTL:        cfg.TokenTTL,
		Issuer:          cfg.JWTIssuer,
		TwoFactorIssuer: cfg.TwoFactorIssuer,
	}
	clock := service.RealClock{}
	signer := utils.JWTManager{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   authConfig.Issuer,
		TokenTTL: authConfig.TokenTTL,
	}
	totpProvider := service.NewTOTPProvider(authConfig.TwoFactorIssuer)

	tokenIssuer := service.NewTokenIssuer(store.sessions, signer, clock, authConfig)
	authenticator := service.NewAuthenticator(store.users, store.sessions, signer)
	authService := service.NewAuthService(
		store.users,
		store.sessions,
		store.roles,
		store.securityLogs,
		service.BcryptPasswordHasher{Cost: cfg.BcryptCost},
		tokenIssuer,
		totpProvider,
		logger,
	)
	twoFactorService := service.NewTwoFactorService(store.users, totpProvider, store.securityLogs, clock, logger)

	reaper := service.NewSessionReaper(store.sessions, cfg.SessionReapInterval, clock, logger)
	go reaper.Run(ctx)

	validate := validation.New()

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.HTTPErrorHandler = response.ErrorHandler(logger)
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{Gate: authenticator, Logger: logger}
	router := routes.NewRouter(
		app,
		handler.NewAuthHandler(authService, validate),
		handler.NewProfileHandler(authService, validate),
		handler.NewTwoFactorHandler(twoFactorService, validate),
		handler.NewAdminHandler(authService, validate),
		authMiddleware,
	)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("server started")
		if err := app.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
}

// openStorage falls back to the in-process store when no database is
// configured. Nothing survives a restart in that mode.
func openStorage(cfg config.Config, logger logrus.FieldLogger) (*storage, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		store := memory.New()
		return &storage{
			users:        store,
			sessions:     store.Sessions(),
			roles:        store,
			securityLogs: store,
		}, nil
	}

	db, err := config.ConnectionDb(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if err := repository.AutoMigrate(db); err != nil {
		return nil, err
	}
	return &storage{
		users:        repository.NewUserRepository(db),
		sessions:     repository.NewSessionRepository(db),
		roles:        repository.NewRoleRepository(db),
		securityLogs: repository.NewSecurityLogRepository(db),
	}, nil
}
