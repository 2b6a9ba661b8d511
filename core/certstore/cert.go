package certstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Certificate is a domain's latest certificate material. All four fields live
// in one blob under a single key: the store guarantees atomicity only per
// key, so combining them is what keeps a reader from ever observing a newly
// rotated chain paired with a stale private key under concurrent writers.
type Certificate struct {
	FullchainPEM string `json:"fullchain_pem"`
	PrivkeyPEM   string `json:"privkey_pem"`
	CertPEM      string `json:"cert_pem"`
	Expiry       int64  `json:"expiry"`
}

// GetCert reads the latest certificate record for domain. A missing record is
// (nil, nil); bytes that do not decode report ErrMalformedRecord; a backend
// failure propagates as is.
func (s *Storage) GetCert(ctx context.Context, domain string) (*Certificate, error) {
	raw, err := s.store.Get(ctx, certKey(domain))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get certificate for %s: %w", domain, err)
	}

	var cert Certificate
	if err := s.codec.Decode(raw, &cert); err != nil {
		return nil, fmt.Errorf("%w: certificate for %s: %v", ErrMalformedRecord, domain, err)
	}
	return &cert, nil
}

// SetCert writes all four certificate fields in a single store call.
func (s *Storage) SetCert(ctx context.Context, domain string, cert Certificate) error {
	raw, err := s.codec.Encode(cert)
	if err != nil {
		return fmt.Errorf("encode certificate for %s: %w", domain, err)
	}
	if err := s.store.Set(ctx, certKey(domain), raw, 0); err != nil {
		return fmt.Errorf("set certificate for %s: %w", domain, err)
	}
	return nil
}

// DeleteCert removes the latest certificate record for domain.
func (s *Storage) DeleteCert(ctx context.Context, domain string) error {
	if err := s.store.Delete(ctx, certKey(domain)); err != nil {
		return fmt.Errorf("delete certificate for %s: %w", domain, err)
	}
	return nil
}

// AllCertDomains returns every domain with a stored certificate record. Used
// for fleet-wide inventory and renewal sweeps. A failed enumeration aborts
// with an error rather than returning a partial result.
func (s *Storage) AllCertDomains(ctx context.Context) ([]string, error) {
	keys, err := s.store.KeysWithSuffix(ctx, latestSuffix)
	if err != nil {
		return nil, fmt.Errorf("list certificate keys: %w", err)
	}

	domains := make([]string, 0, len(keys))
	for _, key := range keys {
		domains = append(domains, strings.TrimSuffix(key, latestSuffix))
	}
	return domains, nil
}
