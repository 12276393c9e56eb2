package application

import "errors"

// Service-level sentinel errors. Handlers map these onto HTTP statuses:
// invalid input 400, bad credentials 401, forbidden 403, not found 404,
// duplicate email 409. Anything else is logged and surfaced generically.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrEmptyUpdate        = errors.New("no fields to update")

	ErrSuggestionsDisabled = errors.New("suggestions not configured")
)
