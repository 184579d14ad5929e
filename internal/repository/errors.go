// Package repository defines sentinel error values shared across the data
// stores.  Handlers use them to translate failures into the HTTP error
// taxonomy: ErrEmailExists -> 400, ErrNotFound -> 404, ErrOTPInvalid -> 400.
package repository

import "errors"

// ErrEmailExists is returned when a create collides with an existing
// normalized email address.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when no record matches the given identity.
var ErrNotFound = errors.New("not found")

// ErrOTPInvalid is returned when a submitted one-time code does not match
// the stored code or its expiry has passed.
var ErrOTPInvalid = errors.New("invalid or expired otp")
