package acme

import "errors"

var (
	// ErrEmailRequired is returned when no account email is configured.
	ErrEmailRequired = errors.New("email is required for the acme account")

	// ErrStorageRequired is returned when no challenge storage is provided.
	ErrStorageRequired = errors.New("certificate storage is required")

	// ErrNoDomains is returned when Issue is called with an empty domain set.
	ErrNoDomains = errors.New("no domains to issue for")
)
