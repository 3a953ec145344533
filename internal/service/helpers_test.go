package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"socialhub/internal/entity"
	"socialhub/internal/repository/memory"
	"socialhub/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	store     *memory.Store
	clock     *fakeClock
	signer    utils.JWTManager
	issuer    *TokenIssuer
	gate      *Authenticator
	auth      *AuthService
	twoFactor *TwoFactorService
	totp      *TOTPProvider
	logger    *logrus.Logger
	logs      *test.Hook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	require.NoError(t, SeedRoles(context.Background(), store))

	clock := newFakeClock()
	logger, hook := test.NewNullLogger()
	config := AuthConfig{TokenTTL: DefaultTokenTTL, Issuer: "socialhub-test", TwoFactorIssuer: "SocialHub"}
	signer := utils.JWTManager{
		Secret:   []byte("test-signing-secret"),
		Issuer:   config.Issuer,
		TokenTTL: config.TokenTTL,
		Now:      clock.Now,
	}
	provider := NewTOTPProvider(config.TwoFactorIssuer)
	provider.Now = clock.Now

	sessions := store.Sessions()
	issuer := NewTokenIssuer(sessions, signer, clock, config)
	return &testEnv{
		store:     store,
		clock:     clock,
		signer:    signer,
		issuer:    issuer,
		gate:      NewAuthenticator(store, sessions, signer),
		auth:      NewAuthService(store, sessions, store, store, BcryptPasswordHasher{Cost: bcrypt.MinCost}, issuer, provider, logger),
		twoFactor: NewTwoFactorService(store, provider, store, clock, logger),
		totp:      provider,
		logger:    logger,
		logs:      hook,
	}
}

func (e *testEnv) register(t *testing.T, handle, email, password string) *entity.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		Handle:   handle,
		Email:    email,
		Password: password,
		Username: "Display " + handle,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) login(t *testing.T, email, password string) *LoginResult {
	t.Helper()
	result, err := e.auth.Login(context.Background(), LoginInput{Email: email, Password: password})
	require.NoError(t, err)
	return result
}

func (e *testEnv) sessionCount(t *testing.T, user *entity.User) int64 {
	t.Helper()
	count, err := e.store.Sessions().CountByUser(context.Background(), user.ID)
	require.NoError(t, err)
	return count
}
