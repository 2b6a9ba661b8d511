package certstore

import "errors"

var (
	// ErrKeyNotFound is returned by Store implementations when a key is absent.
	// The facade translates it into the non-error "absent" outcome, so callers
	// of Storage methods normally never see it.
	ErrKeyNotFound = errors.New("key not found")

	// ErrMalformedRecord is returned when stored bytes do not decode into the
	// expected record shape. Distinct from absence and from store failures.
	ErrMalformedRecord = errors.New("malformed stored record")

	// ErrLockMismatch is returned when a lock release finds a token written by
	// another holder. The stored lock is left untouched.
	ErrLockMismatch = errors.New("lock value mismatch")

	// ErrLockNotHeld is returned when a lock release finds no stored lock at
	// all, typically because the store already expired it.
	ErrLockNotHeld = errors.New("lock already released")

	// ErrGroupNotFound is returned when mutating a multiname group that was
	// never created.
	ErrGroupNotFound = errors.New("multiname group not found")

	// ErrStoreRequired is returned when Config is missing a backing store.
	ErrStoreRequired = errors.New("backing store is required")

	// ErrCodecRequired is returned when Config is missing a codec.
	ErrCodecRequired = errors.New("codec is required")
)
