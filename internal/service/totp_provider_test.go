package service

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOTPProvider_GenerateAndValidate(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	provider := NewTOTPProvider("SocialHub")
	provider.Now = func() time.Time { return at }

	provisioning, err := provider.Generate("alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, provisioning.URL, "issuer=SocialHub")
	assert.Contains(t, provisioning.URL, "alice")

	code, err := totp.GenerateCode(provisioning.Secret, at)
	require.NoError(t, err)

	assert.True(t, provider.ValidateCode(provisioning.Secret, code))
	assert.True(t, provider.ValidateCode(provisioning.Secret, " "+code+" "))
	assert.False(t, provider.ValidateCode("", code))
	assert.False(t, provider.ValidateCode(provisioning.Secret, ""))
	assert.False(t, provider.ValidateCode(provisioning.Secret, "not-a-code"))
}

func TestTOTPProvider_FallbackIssuer(t *testing.T) {
	provisioning, err := (&TOTPProvider{}).Generate("bob@example.com")
	require.NoError(t, err)
	assert.Contains(t, provisioning.URL, "issuer=SocialHub")
}
