package redis

import "errors"

// Domain-specific Redis errors. Use errors.Is() for retry logic and
// user-facing messages.
var (
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")
	ErrNotReady                = errors.New("redis did not become ready")
	ErrHealthcheckFailed       = errors.New("redis healthcheck failed")
)
