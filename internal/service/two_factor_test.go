package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"socialhub/internal/entity"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// enableTwoFactor runs a full enrollment and returns the confirmed secret.
func enableTwoFactor(t *testing.T, env *testEnv, user *entity.User) string {
	t.Helper()
	provisioning, err := env.twoFactor.BeginEnrollment(context.Background(), user.ID)
	require.NoError(t, err)
	code, err := totp.GenerateCode(provisioning.Secret, env.clock.Now())
	require.NoError(t, err)
	require.NoError(t, env.twoFactor.ConfirmEnrollment(context.Background(), user.ID, code))
	return provisioning.Secret
}

// codeFromOtherSecret returns a current code for an unrelated secret.
func codeFromOtherSecret(t *testing.T, env *testEnv) string {
	t.Helper()
	other, err := env.totp.Generate("someone-else@example.com")
	require.NoError(t, err)
	code, err := totp.GenerateCode(other.Secret, env.clock.Now())
	require.NoError(t, err)
	return code
}

func reload(t *testing.T, env *testEnv, user *entity.User) *entity.User {
	t.Helper()
	fresh, err := env.store.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	return fresh
}

func TestBeginEnrollment_StoresPendingState(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice", "alice@example.com", "pw")

	provisioning, err := env.twoFactor.BeginEnrollment(context.Background(), user.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, provisioning.Secret)
	assert.True(t, strings.HasPrefix(provisioning.URL, "otpauth://totp/"))
	assert.True(t, strings.HasPrefix(provisioning.QRCode, "data:image/png;base64,"))

	state := reload(t, env, user).TwoFactor
	assert.False(t, state.Enabled)
	assert.Empty(t, state.Secret)
	assert.Equal(t, provisioning.Secret, state.TempSecret)
	assert.Equal(t, provisioning.QRCode, state.TempQRCode)
	require.NotNil(t, state.TempCreated)
	assert.True(t, env.clock.Now().Equal(*state.TempCreated))
}

func TestBeginEnrollment_RestartOverwritesPending(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice", "alice@example.com", "pw")

	first, err := env.twoFactor.BeginEnrollment(context.Background(), user.ID)
	require.NoError(t, err)
	second, err := env.twoFactor.BeginEnrollment(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEqual(t, first.Secret, second.Secret)

	staleCode, err := totp.GenerateCode(first.Secret, env.clock.Now())
	require.NoError(t, err)
	err = env.twoFactor.ConfirmEnrollment(context.Background(), user.ID, staleCode)
	assert.ErrorIs(t, err, ErrInvalidTwoFactorCode)
	assert.Equal(t, second.Secret, reload(t, env, user).TwoFactor.TempSecret)
}

func TestConfirmEnrollment(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice", "alice@example.com", "pw")

	provisioning, err := env.twoFactor.BeginEnrollment(context.Background(), user.ID)
	require.NoError(t, err)

	err = env.twoFactor.ConfirmEnrollment(context.Background(), user.ID, codeFromOtherSecret(t, env))
	assert.ErrorIs(t, err, ErrInvalidTwoFactorCode)
	assert.False(t, reload(t, env, user).TwoFactor.Enabled)

	code, err := totp.GenerateCode(provisioning.Secret, env.clock.Now())
	require.NoError(t, err)
	require.NoError(t, env.twoFactor.ConfirmEnrollment(context.Background(), user.ID, code))

	state := reload(t, env, user).TwoFactor
	assert.True(t, state.Enabled)
	assert.Equal(t, provisioning.Secret, state.Secret)
	assert.Empty(t, state.TempSecret)
	assert.Empty(t, state.TempQRCode)
	assert.Nil(t, state.TempCreated)
}

func TestConfirmEnrollment_StepTolerance(t *testing.T) {
	tests := []struct {
		name    string
		offset  time.Duration
		wantErr error
	}{
		{name: "current step", offset: 0},
		{name: "previous step", offset: -30 * time.Second},
		{name: "next step", offset: 30 * time.Second},
		{name: "two steps back", offset: -60 * time.Second, wantErr: ErrInvalidTwoFactorCode},
		{name: "two steps ahead", offset: 60 * time.Second, wantErr: ErrInvalidTwoFactorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			user := env.register(t, "alice", "alice@example.com", "pw")
			provisioning, err := env.twoFactor.BeginEnrollment(context.Background(), user.ID)
			require.NoError(t, err)

			code, err := totp.GenerateCode(provisioning.Secret, env.clock.Now().Add(tt.offset))
			require.NoError(t, err)

			err = env.twoFactor.ConfirmEnrollment(context.Background(), user.ID, code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfirmEnrollment_NothingPending(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice", "alice@example.com", "pw")

	err := env.twoFactor.ConfirmEnrollment(context.Background(), user.ID, "123456")
	assert.ErrorIs(t, err, ErrInvalidTwoFactorCode)
}

func TestEnrollment_RejectedWhileEnabled(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice", "alice@example.com", "pw")
	secret := enableTwoFactor(t, env, user)

	_, err := env.twoFactor.BeginEnrollment(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrTwoFactorAlreadyEnabled)

	code, err := totp.GenerateCode(secret, env.clock.Now())
	require.NoError(t, err)
	err = env.twoFactor.ConfirmEnrollment(context.Background(), user.ID, code)
	assert.ErrorIs(t, err, ErrTwoFactorAlreadyEnabled)
}

func TestDisable(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice", "alice@example.com", "pw")

	err := env.twoFactor.Disable(context.Background(), user.ID, "123456")
	assert.ErrorIs(t, err, ErrTwoFactorNotEnabled)

	secret := enableTwoFactor(t, env, user)

	err = env.twoFactor.Disable(context.Background(), user.ID, codeFromOtherSecret(t, env))
	assert.ErrorIs(t, err, ErrInvalidTwoFactorCode)
	assert.True(t, reload(t, env, user).TwoFactor.Enabled)

	code, err := totp.GenerateCode(secret, env.clock.Now())
	require.NoError(t, err)
	require.NoError(t, env.twoFactor.Disable(context.Background(), user.ID, code))

	state := reload(t, env, user).TwoFactor
	assert.False(t, state.Enabled)
	assert.Empty(t, state.Secret)

	// Back at the start: a new enrollment is allowed again.
	_, err = env.twoFactor.BeginEnrollment(context.Background(), user.ID)
	assert.NoError(t, err)
}

func TestTwoFactor_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice", "alice@example.com", "pw")
	env.store.DeleteUser(user.ID)

	_, err := env.twoFactor.BeginEnrollment(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
