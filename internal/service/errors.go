package service

import "errors"

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrEmailTaken              = errors.New("email is already in use")
	ErrHandleTaken             = errors.New("handle is already in use")
	ErrInvalidCredentials      = errors.New("email or password is incorrect")
	ErrUnauthenticated         = errors.New("authentication required")
	ErrInvalidToken            = errors.New("invalid token")
	ErrTokenExpired            = errors.New("token expired")
	ErrForbidden               = errors.New("forbidden")
	ErrUserNotFound            = errors.New("user not found")
	ErrTwoFactorAlreadyEnabled = errors.New("two-factor authentication is already enabled")
	ErrTwoFactorNotEnabled     = errors.New("two-factor authentication is not enabled")
	ErrInvalidTwoFactorCode    = errors.New("invalid two-factor code")
	ErrTwoFactorRequired       = errors.New("two-factor code required")
)
