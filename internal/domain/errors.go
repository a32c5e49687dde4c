package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrEmailInUse        = errors.New("email already in use")
	ErrWeakPassword      = errors.New("password does not meet the minimum requirements")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrUnknownAccount    = errors.New("no account found for this email")
	ErrInvalidEmail      = errors.New("invalid email address")
)
