package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrSessionExpired      = errors.New("session expired")
	ErrAccountLocked       = errors.New("account is locked")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrForbidden           = errors.New("access denied")
	ErrWrongPassword       = errors.New("current password is incorrect")
)
