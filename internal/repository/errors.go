package repository

import "errors"

// Sentinel errors surfaced to services and mapped to HTTP statuses by
// the handlers. A row that exists but is outside the caller's ownership
// scope reports ErrNotFound, indistinguishable from true absence.
var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrCodeTaken            = errors.New("invite code already in use")
	ErrInvalidInviteCode    = errors.New("invalid invite code")
	ErrSelfPairing          = errors.New("cannot pair with yourself")
	ErrAlreadyPaired        = errors.New("user is already paired")
	ErrPartnerAlreadyPaired = errors.New("partner is already paired")
)
