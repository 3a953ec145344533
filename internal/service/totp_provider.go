package service

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const qrCodeSize = 256

// Provisioning is what a client needs to add the account to an
// authenticator app.
type Provisioning struct {
	Secret string
	URL    string
	QRCode string
}

type TOTPProvider struct {
	Issuer    string
	Period    uint
	Skew      uint
	Digits    otp.Digits
	Algorithm otp.Algorithm
	Now       func() time.Time
}

func NewTOTPProvider(issuer string) *TOTPProvider {
	return &TOTPProvider{
		Issuer:    issuer,
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Generate creates a fresh shared secret for accountName along with its
// otpauth URL and a PNG QR code encoded as a data URI.
func (p *TOTPProvider) Generate(accountName string) (*Provisioning, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      fallbackIssuer(p.Issuer),
		AccountName: accountName,
		Period:      p.period(),
		Digits:      p.digits(),
		Algorithm:   p.algorithm(),
	})
	if err != nil {
		return nil, err
	}
	img, err := key.Image(qrCodeSize, qrCodeSize)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &Provisioning{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

func (p *TOTPProvider) ValidateCode(secret string, code string) bool {
	code = strings.TrimSpace(code)
	if secret == "" || code == "" {
		return false
	}
	valid, err := totp.ValidateCustom(code, secret, p.now(), totp.ValidateOpts{
		Period:    p.period(),
		Skew:      p.skew(),
		Digits:    p.digits(),
		Algorithm: p.algorithm(),
	})
	return err == nil && valid
}

func (p *TOTPProvider) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *TOTPProvider) period() uint {
	if p.Period == 0 {
		return 30
	}
	return p.Period
}

func (p *TOTPProvider) skew() uint {
	if p.Skew == 0 {
		return 1
	}
	return p.Skew
}

func (p *TOTPProvider) digits() otp.Digits {
	if p.Digits == 0 {
		return otp.DigitsSix
	}
	return p.Digits
}

func (p *TOTPProvider) algorithm() otp.Algorithm {
	if p.Algorithm == 0 {
		return otp.AlgorithmSHA1
	}
	return p.Algorithm
}

func fallbackIssuer(issuer string) string {
	if strings.TrimSpace(issuer) == "" {
		return "SocialHub"
	}
	return issuer
}
