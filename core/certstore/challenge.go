package certstore

import (
	"context"
	"errors"
	"fmt"
)

// SetChallenge stores an ACME challenge token under domain and path. No TTL
// is applied; the caller deletes challenge state after validation.
func (s *Storage) SetChallenge(ctx context.Context, domain, path, token string) error {
	if err := s.store.Set(ctx, challengeKey(domain, path), []byte(token), 0); err != nil {
		return fmt.Errorf("set challenge for %s: %w", domain, err)
	}
	return nil
}

// GetChallenge reads a stored challenge token. The found flag distinguishes
// absence from an empty token.
func (s *Storage) GetChallenge(ctx context.Context, domain, path string) (string, bool, error) {
	raw, err := s.store.Get(ctx, challengeKey(domain, path))
	if errors.Is(err, ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get challenge for %s: %w", domain, err)
	}
	return string(raw), true, nil
}

// DeleteChallenge removes a stored challenge token.
func (s *Storage) DeleteChallenge(ctx context.Context, domain, path string) error {
	if err := s.store.Delete(ctx, challengeKey(domain, path)); err != nil {
		return fmt.Errorf("delete challenge for %s: %w", domain, err)
	}
	return nil
}
