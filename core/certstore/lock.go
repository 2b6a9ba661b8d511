package certstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

const lockTokenBytes = 32

// AcquireIssueLock takes the cross-instance issuance lock for domain and
// returns the token required to release it. The token proves ownership; it is
// not a lock identity.
//
// The store offers no compare-and-swap, so acquisition is check-then-act:
// poll the key at a fixed backoff until it reads absent or the wait ceiling
// passes, then write the token with a TTL. Two waiters can both observe
// "absent" and both write — the lock reduces the probability of duplicate
// issuance, it does not guarantee exclusion. Callers pair it with a
// per-process mutex for the single-node case. The TTL is the sole crash
// recovery: a holder that dies without releasing self-heals once the store
// expires the key.
func (s *Storage) AcquireIssueLock(ctx context.Context, domain string) (string, error) {
	token, err := newLockToken()
	if err != nil {
		return "", fmt.Errorf("generate lock token: %w", err)
	}

	key := issueLockKey(domain)
	var waited time.Duration
	for {
		_, err := s.store.Get(ctx, key)
		if errors.Is(err, ErrKeyNotFound) {
			break // apparently free
		}
		if err != nil {
			return "", fmt.Errorf("read issuance lock for %s: %w", domain, err)
		}
		if waited >= s.lockWait {
			break // waited long enough, proceed regardless
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.lockBackoff):
		}
		waited += s.lockBackoff
	}

	if err := s.store.Set(ctx, key, []byte(token), s.lockTTL); err != nil {
		return "", fmt.Errorf("write issuance lock for %s: %w", domain, err)
	}
	return token, nil
}

// ReleaseIssueLock releases the issuance lock for domain if token still
// matches the stored value. A mismatch reports ErrLockMismatch and leaves the
// stored lock alone; an absent lock reports ErrLockNotHeld. The read-then-act
// sequence is an accepted race: a concurrent acquisition between the read and
// the delete is not prevented.
func (s *Storage) ReleaseIssueLock(ctx context.Context, domain, token string) error {
	key := issueLockKey(domain)

	current, err := s.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("%w: issuance lock for %s", ErrLockNotHeld, domain)
	}
	if err != nil {
		return fmt.Errorf("read issuance lock for %s: %w", domain, err)
	}
	if string(current) != token {
		return fmt.Errorf("%w: issuance lock for %s", ErrLockMismatch, domain)
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("release issuance lock for %s: %w", domain, err)
	}
	return nil
}

func newLockToken() (string, error) {
	buf := make([]byte, lockTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
