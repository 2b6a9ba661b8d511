package certstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Energy1190/autossl/core/logger"
)

const (
	multinameSeparator = ":"

	// maxMultinameMembers caps how many domains a single certificate may
	// carry, matching the CA's SAN count limit.
	maxMultinameMembers = 100

	// maxMultinameEncoded caps the encoded record size in characters,
	// approximating the CA's request size limit.
	maxMultinameEncoded = 1900

	// multinameRecordOverhead is the size of the encoded record envelope
	// around the member list, counted toward maxMultinameEncoded.
	multinameRecordOverhead = 28
)

// multinameRecord is the stored payload of a multiname group: the primary
// domain and the colon-delimited ordered member list.
type multinameRecord struct {
	Domain    string `json:"domain"`
	Subdomain string `json:"subdomain"`
}

// CreateMultiname initializes a multiname group keyed by domain with a
// singleton member list.
func (s *Storage) CreateMultiname(ctx context.Context, domain string) error {
	return s.putMultiname(ctx, domain, multinameRecord{Domain: domain, Subdomain: domain})
}

// UpdateMultiname appends newDomain to the member list of primary's group.
//
// This is a whole-record read-modify-write: two concurrent appends to the
// same group can race and one can be lost. Callers hold the advisory
// multiname lock (SetMultinameLock / DeleteMultinameLock) for the duration of
// the read-modify-write; this package only exposes the primitives.
func (s *Storage) UpdateMultiname(ctx context.Context, primary, newDomain string) error {
	rec, err := s.getMultiname(ctx, primary)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, primary)
	}

	rec.Subdomain = rec.Subdomain + multinameSeparator + newDomain
	return s.putMultiname(ctx, primary, *rec)
}

// RemoveMultiname removes domain from the member list of primary's group.
// Members are matched by exact equality after splitting on the separator, so
// removing "a.com" never damages a member like "xa.com". The stored format is
// unchanged.
func (s *Storage) RemoveMultiname(ctx context.Context, primary, domain string) error {
	rec, err := s.getMultiname(ctx, primary)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, primary)
	}

	members := splitMembers(rec.Subdomain)
	kept := members[:0]
	for _, m := range members {
		if m != domain {
			kept = append(kept, m)
		}
	}
	rec.Subdomain = strings.Join(kept, multinameSeparator)
	return s.putMultiname(ctx, primary, *rec)
}

// ValidateMultiname reports whether newDomain may join the group whose
// current member list is members. It checks the member count against the CA's
// SAN limit (exactly 100 is accepted) and the encoded size, including the
// candidate and the record envelope, against the request size limit (exactly
// 1900 is accepted). It never returns an error; callers decide whether to
// reject the domain or start a new group.
func (s *Storage) ValidateMultiname(members, newDomain string) bool {
	count := len(splitMembers(members)) + 1
	if count > maxMultinameMembers {
		return false
	}

	size := len(members) + len(multinameSeparator) + len(newDomain) + multinameRecordOverhead
	return size <= maxMultinameEncoded
}

// CheckMultiname returns the primary domain of the group containing domain as
// a member, or "" when no group contains it.
func (s *Storage) CheckMultiname(ctx context.Context, domain string) (string, error) {
	groups, err := s.AllMultinameGroups(ctx)
	if err != nil {
		return "", err
	}
	for primary, members := range groups {
		for _, m := range members {
			if m == domain {
				return primary, nil
			}
		}
	}
	return "", nil
}

// AllMultinameGroups folds every stored group into a primary-to-members
// mapping. Entries that cannot be read or decoded are logged and skipped so
// one damaged record cannot hide the rest; only a failed enumeration aborts
// the whole scan.
func (s *Storage) AllMultinameGroups(ctx context.Context) (map[string][]string, error) {
	keys, err := s.store.KeysWithSuffix(ctx, multinameSuffix)
	if err != nil {
		return nil, fmt.Errorf("list multiname keys: %w", err)
	}

	groups := make(map[string][]string, len(keys))
	for _, key := range keys {
		raw, err := s.store.Get(ctx, key)
		if errors.Is(err, ErrKeyNotFound) {
			continue // deleted between scan and read
		}
		if err != nil {
			s.log.WarnContext(ctx, "skipping unreadable multiname record",
				logger.Key(key), logger.Error(err))
			continue
		}

		var rec multinameRecord
		if err := s.codec.Decode(raw, &rec); err != nil {
			s.log.WarnContext(ctx, "skipping malformed multiname record",
				logger.Key(key), logger.Error(err))
			continue
		}
		groups[rec.Domain] = splitMembers(rec.Subdomain)
	}
	return groups, nil
}

// SetMultinameLock writes the advisory lock guarding a group's
// read-modify-write. It carries the same TTL as the issuance lock.
func (s *Storage) SetMultinameLock(ctx context.Context, domain, value string) error {
	if err := s.store.Set(ctx, multinameLockKey(domain), []byte(value), s.lockTTL); err != nil {
		return fmt.Errorf("set multiname lock for %s: %w", domain, err)
	}
	return nil
}

// GetMultinameLock reads the advisory multiname lock for domain.
func (s *Storage) GetMultinameLock(ctx context.Context, domain string) (string, bool, error) {
	raw, err := s.store.Get(ctx, multinameLockKey(domain))
	if errors.Is(err, ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get multiname lock for %s: %w", domain, err)
	}
	return string(raw), true, nil
}

// DeleteMultinameLock removes the advisory multiname lock for domain.
func (s *Storage) DeleteMultinameLock(ctx context.Context, domain string) error {
	if err := s.store.Delete(ctx, multinameLockKey(domain)); err != nil {
		return fmt.Errorf("delete multiname lock for %s: %w", domain, err)
	}
	return nil
}

func (s *Storage) getMultiname(ctx context.Context, primary string) (*multinameRecord, error) {
	raw, err := s.store.Get(ctx, multinameKey(primary))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get multiname group for %s: %w", primary, err)
	}

	var rec multinameRecord
	if err := s.codec.Decode(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: multiname group for %s: %v", ErrMalformedRecord, primary, err)
	}
	return &rec, nil
}

func (s *Storage) putMultiname(ctx context.Context, primary string, rec multinameRecord) error {
	raw, err := s.codec.Encode(rec)
	if err != nil {
		return fmt.Errorf("encode multiname group for %s: %w", primary, err)
	}
	if err := s.store.Set(ctx, multinameKey(primary), raw, 0); err != nil {
		return fmt.Errorf("set multiname group for %s: %w", primary, err)
	}
	return nil
}

func splitMembers(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, multinameSeparator)
	members := parts[:0]
	for _, p := range parts {
		if p != "" {
			members = append(members, p)
		}
	}
	return members
}
