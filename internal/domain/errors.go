package domain

import "errors"

var (
	// ErrNotFound means the store has no record for the requested id.
	// A cache miss is not ErrNotFound; only the store decides.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID means the supplied id is not a valid object id.
	ErrInvalidID = errors.New("invalid id")

	// ErrEmailTaken means a record with the same email already exists.
	ErrEmailTaken = errors.New("email already exists")

	// ErrBadCredentials covers a wrong password on login.
	ErrBadCredentials = errors.New("invalid credentials")

	// ErrInvalidStatus means the appointment status is outside the enum.
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrInvalidRole means the user role is outside the enum.
	ErrInvalidRole = errors.New("invalid role value")

	// ErrValidation wraps structurally bad input rejected at the boundary.
	ErrValidation = errors.New("invalid input")
)
