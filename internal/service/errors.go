package service

import "errors"

// Shared error classes surfaced by every service. Handlers map these onto
// HTTP statuses; anything else propagating from the store layer is treated
// as an external service failure.
var (
	// ErrValidation marks input rejected before any store call was made.
	ErrValidation = errors.New("validation failed")

	// ErrAccessDenied marks a role or ownership check failure. Checked
	// server-side on every operation, independent of what the UI exposes.
	ErrAccessDenied = errors.New("access denied")
)
