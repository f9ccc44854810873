package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrGoogleAccount      = errors.New("your account is connected to Google - use the Google button to login")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrPasswordRequired   = errors.New("password is required")
	ErrGoogleTokenInvalid = errors.New("google identity could not be verified")
)
