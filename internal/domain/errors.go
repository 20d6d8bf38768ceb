package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrCatalogFetch matches every *CatalogFetchError
	ErrCatalogFetch = errors.New("catalog request failed")

	// ErrStorage matches every *StorageError
	ErrStorage = errors.New("durable storage failure")

	// ErrNotFound indicates a durable key has no value
	ErrNotFound = errors.New("key not found")

	// ErrInvalidPreference indicates an unknown theme or language
	ErrInvalidPreference = errors.New("invalid preference value")
)

// Auth failure reasons. AuthError wraps exactly one of these.
var (
	ErrMissingFields      = errors.New("id and credential are required")
	ErrInvalidEmail       = errors.New("id is not a valid e-mail address")
	ErrCredentialMismatch = errors.New("credential confirmation does not match")
	ErrTermsNotAccepted   = errors.New("terms must be accepted")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrNoSuchAccount      = errors.New("no such account")
	ErrWrongCredential    = errors.New("wrong credential")
)

// CatalogFetchError reports a failed request to the remote catalog service.
type CatalogFetchError struct {
	Path       string
	StatusCode int // 0 for transport and decode failures
	Err        error
}

func (e *CatalogFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog request %s failed: status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("catalog request %s failed: %v", e.Path, e.Err)
}

func (e *CatalogFetchError) Unwrap() error { return e.Err }

func (e *CatalogFetchError) Is(target error) bool { return target == ErrCatalogFetch }

// AuthError is a sign-up or sign-in rejection. Reason is one of the Err*
// auth sentinels; Message is safe to show next to the form.
type AuthError struct {
	Reason  error
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Reason }

// StorageError reports a durable storage read, write or decode failure.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
