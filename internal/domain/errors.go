package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrBadCreds           = errors.New("invalid email or password")
)
