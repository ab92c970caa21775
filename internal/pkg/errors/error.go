package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict: resource already exists")
	ErrInternal       = errors.New("internal server error")
	ErrRateLimited    = errors.New("too many requests")
	ErrBadRequest     = errors.New("bad request")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Authentication flow errors
var (
	// ErrUpstreamAuth means the identity provider rejected the access token.
	ErrUpstreamAuth = errors.New("identity provider rejected the access token")
	// ErrIncompleteProfile means the provider profile is missing id, email or name.
	ErrIncompleteProfile = errors.New("incomplete profile from identity provider")
	// ErrInvalidToken covers malformed, tampered and expired session tokens alike.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
