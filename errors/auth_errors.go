// api/errors/auth_errors.go
package errors

import "errors"

var (
	ErrCredentialRequired = errors.New("credential required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrValetKeyNotFound   = errors.New("valet key not found or expired")
	ErrValetKeyExpired    = errors.New("valet key expired")
	ErrForbidden          = errors.New("forbidden")
	ErrValetCannotIssue   = errors.New("valet keys cannot issue valet keys")
)
