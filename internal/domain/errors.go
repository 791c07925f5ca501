package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMatchNotFound      = errors.New("match not found")
	ErrCannotRequestSelf  = errors.New("cannot send a request to yourself")
	ErrNotRequestReceiver = errors.New("only the receiver can accept a request")
)
