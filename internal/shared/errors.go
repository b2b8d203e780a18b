package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden indicates the current user may not perform the action.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicate indicates a uniqueness conflict on create.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrNoData indicates an operation had nothing to work on, such as a
	// report export over an empty record set.
	ErrNoData = errors.New("no data")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
