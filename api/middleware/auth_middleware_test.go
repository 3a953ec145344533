package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"socialhub/api/response"
	"socialhub/internal/entity"
	"socialhub/internal/repository/memory"
	"socialhub/internal/service"
	"socialhub/internal/utils"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type gateFixture struct {
	store *memory.Store
	clock *stepClock
	auth  *service.AuthService
	gate  *service.Authenticator
	echo  *echo.Echo
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	store := memory.New()
	clock := &stepClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	logger, _ := test.NewNullLogger()
	config := service.AuthConfig{TokenTTL: service.DefaultTokenTTL, Issuer: "socialhub-test"}
	signer := utils.JWTManager{
		Secret:   []byte("middleware-secret"),
		Issuer:   config.Issuer,
		TokenTTL: config.TokenTTL,
		Now:      clock.Now,
	}
	sessions := store.Sessions()
	issuer := service.NewTokenIssuer(sessions, signer, clock, config)
	gate := service.NewAuthenticator(store, sessions, signer)
	auth := service.NewAuthService(store, sessions, store, store,
		service.BcryptPasswordHasher{Cost: bcrypt.MinCost}, issuer, service.NewTOTPProvider("SocialHub"), logger)

	e := echo.New()
	e.HTTPErrorHandler = response.ErrorHandler(logger)
	return &gateFixture{store: store, clock: clock, auth: auth, gate: gate, echo: e}
}

func (f *gateFixture) login(t *testing.T, handle string) (*entity.User, string) {
	t.Helper()
	ctx := context.Background()
	user, err := f.auth.Register(ctx, service.RegisterInput{
		Handle:   handle,
		Email:    handle + "@example.com",
		Password: "correct horse",
		Username: handle,
	})
	require.NoError(t, err)
	result, err := f.auth.Login(ctx, service.LoginInput{Email: handle + "@example.com", Password: "correct horse"})
	require.NoError(t, err)
	return user, result.Token.Assertion
}

func whoAmI(c echo.Context) error {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return c.String(http.StatusOK, "anonymous")
	}
	return c.String(http.StatusOK, identity.Handle)
}

func serve(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRequireAuth(t *testing.T) {
	f := newGateFixture(t)
	user, token := f.login(t, "alice")
	mw := AuthMiddleware{Gate: f.gate}
	f.echo.GET("/private", whoAmI, mw.RequireAuth)

	t.Run("accepts a live session", func(t *testing.T) {
		rec := serve(f.echo, http.MethodGet, "/private", token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", rec.Body.String())
	})

	t.Run("missing assertion", func(t *testing.T) {
		rec := serve(f.echo, http.MethodGet, "/private", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, response.StatusError, env.Status)
		assert.Equal(t, "authentication required", env.Message)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set(echo.HeaderAuthorization, "Basic "+token)
		rec := httptest.NewRecorder()
		f.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered signature", func(t *testing.T) {
		rec := serve(f.echo, http.MethodGet, "/private", token+"x")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid token", decodeEnvelope(t, rec).Message)
	})

	t.Run("revoked ledger row", func(t *testing.T) {
		_, other := f.login(t, "bob")
		ctx := context.Background()
		bob, err := f.store.FindByHandle(ctx, "bob")
		require.NoError(t, err)
		_, err = f.store.Sessions().DeleteAllByUser(ctx, bob.ID)
		require.NoError(t, err)

		rec := serve(f.echo, http.MethodGet, "/private", other)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid token", decodeEnvelope(t, rec).Message)
	})

	t.Run("expired assertion", func(t *testing.T) {
		_, stale := f.login(t, "carol")
		f.clock.Advance(service.DefaultTokenTTL + time.Minute)
		defer f.clock.Advance(-(service.DefaultTokenTTL + time.Minute))

		rec := serve(f.echo, http.MethodGet, "/private", stale)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "token expired", decodeEnvelope(t, rec).Message)
	})

	t.Run("deleted user", func(t *testing.T) {
		f.store.DeleteUser(user.ID)

		rec := serve(f.echo, http.MethodGet, "/private", token)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "user not found", decodeEnvelope(t, rec).Message)
	})
}

func TestOptionalAuth(t *testing.T) {
	f := newGateFixture(t)
	_, token := f.login(t, "alice")
	mw := AuthMiddleware{Gate: f.gate}
	f.echo.GET("/public", whoAmI, mw.OptionalAuth)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "anonymous", token: "", want: "anonymous"},
		{name: "garbage token", token: "not-a-jwt", want: "anonymous"},
		{name: "authenticated", token: token, want: "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(f.echo, http.MethodGet, "/public", tt.token)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	f := newGateFixture(t)
	user, token := f.login(t, "alice")
	mw := AuthMiddleware{Gate: f.gate}
	f.echo.GET("/admin", whoAmI, mw.RequireAuth, RequireAdmin())
	f.echo.GET("/unguarded", whoAmI, RequireAdmin())

	rec := serve(f.echo, http.MethodGet, "/admin", token)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeEnvelope(t, rec).Message)

	f.store.SetAdmin(user.ID, true)
	rec = serve(f.echo, http.MethodGet, "/admin", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())

	rec = serve(f.echo, http.MethodGet, "/unguarded", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: "Bearer abc", want: "abc"},
		{header: "bearer  abc ", want: "abc"},
		{header: "Token abc", want: ""},
		{header: "Bearer", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", tt.header)
			assert.Equal(t, tt.want, extractBearerToken(req))
		})
	}
}
