package autossl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Energy1190/autossl/core/certstore"
	"github.com/Energy1190/autossl/core/logger"
)

// Issuer obtains a signed certificate covering the given domains. The ACME
// exchange itself stays an external collaborator behind this interface; see
// integration/acme for a ready-made implementation.
type Issuer interface {
	Issue(ctx context.Context, domains []string) (*certstore.Certificate, error)
}

// Config holds configuration for the Manager.
type Config struct {
	// Storage is the shared coordination storage. Required.
	Storage *certstore.Storage `env:"-"`

	// Issuer obtains certificates when none is stored or the stored one is
	// close to expiry. Required.
	Issuer Issuer `env:"-"`

	// RenewBefore is how long before expiry a certificate is considered due
	// for renewal.
	RenewBefore time.Duration `env:"AUTOSSL_RENEW_BEFORE" envDefault:"720h"`
}

// Manager drives the issuance flow: acquire lock, check existing record,
// issue through the collaborator, store the record, release the lock. It
// layers a per-domain in-process mutex under the cross-instance lock, which
// is exactly the pairing the best-effort lock is designed for.
type Manager struct {
	storage     *certstore.Storage
	issuer      Issuer
	log         *slog.Logger
	renewBefore time.Duration

	mu      sync.Mutex
	domains map[string]*sync.Mutex
}

// New creates a Manager from cfg, failing fast when a capability is absent.
func New(cfg Config, opts ...Option) (*Manager, error) {
	if cfg.Storage == nil {
		return nil, ErrStorageRequired
	}
	if cfg.Issuer == nil {
		return nil, ErrIssuerRequired
	}

	m := &Manager{
		storage:     cfg.Storage,
		issuer:      cfg.Issuer,
		log:         slog.Default(),
		renewBefore: cfg.RenewBefore,
		domains:     make(map[string]*sync.Mutex),
	}
	if m.renewBefore <= 0 {
		m.renewBefore = 30 * 24 * time.Hour
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// EnsureCertificate returns a usable certificate record for domain, issuing
// or renewing one when needed. A domain that belongs to a multiname group is
// served by the group's primary record, reissued for the full member set.
func (m *Manager) EnsureCertificate(ctx context.Context, domain string) (*certstore.Certificate, error) {
	primary, err := m.storage.CheckMultiname(ctx, domain)
	if err != nil {
		return nil, err
	}
	if primary == "" {
		primary = domain
	}

	lock := m.domainLock(primary)
	lock.Lock()
	defer lock.Unlock()

	cert, err := m.storage.GetCert(ctx, primary)
	if err != nil {
		return nil, err
	}
	if cert != nil && !m.expiring(cert) {
		return cert, nil
	}

	return m.issue(ctx, primary, false)
}

// Certificate returns the stored record serving domain without triggering
// issuance. Returns (nil, nil) when nothing is stored.
func (m *Manager) Certificate(ctx context.Context, domain string) (*certstore.Certificate, error) {
	primary, err := m.storage.CheckMultiname(ctx, domain)
	if err != nil {
		return nil, err
	}
	if primary == "" {
		primary = domain
	}
	return m.storage.GetCert(ctx, primary)
}

// AddDomain adds domain to primary's multiname group, creating the group if
// needed, and reissues the group certificate for the new member set. The
// advisory multiname lock is held around the read-modify-write.
func (m *Manager) AddDomain(ctx context.Context, primary, domain string) error {
	lock := m.domainLock(primary)
	lock.Lock()
	defer lock.Unlock()

	members, err := m.groupMembers(ctx, primary)
	if err != nil {
		return err
	}
	if members == nil {
		if err := m.storage.CreateMultiname(ctx, primary); err != nil {
			return err
		}
		members = []string{primary}
	}

	if !m.storage.ValidateMultiname(strings.Join(members, ":"), domain) {
		return fmt.Errorf("%w: adding %s to %s", ErrGroupLimits, domain, primary)
	}

	release, err := m.holdGroupLock(ctx, primary, domain)
	if err != nil {
		return err
	}
	defer release()

	if err := m.storage.UpdateMultiname(ctx, primary, domain); err != nil {
		return err
	}

	_, err = m.issue(ctx, primary, true)
	return err
}

// RemoveDomain removes domain from primary's multiname group and reissues the
// group certificate for the remaining members.
func (m *Manager) RemoveDomain(ctx context.Context, primary, domain string) error {
	if domain == primary {
		return fmt.Errorf("%w: %s", ErrRemovePrimary, primary)
	}

	lock := m.domainLock(primary)
	lock.Lock()
	defer lock.Unlock()

	release, err := m.holdGroupLock(ctx, primary, domain)
	if err != nil {
		return err
	}
	defer release()

	if err := m.storage.RemoveMultiname(ctx, primary, domain); err != nil {
		return err
	}

	_, err = m.issue(ctx, primary, true)
	return err
}

// RenewAll sweeps every stored certificate and renews the ones inside the
// renew-before window. Per-domain failures are logged and skipped; the sweep
// reports ErrRenewalIncomplete when any domain failed.
func (m *Manager) RenewAll(ctx context.Context) error {
	start := time.Now()

	domains, err := m.storage.AllCertDomains(ctx)
	if err != nil {
		return err
	}

	var failed int
	for _, domain := range domains {
		cert, err := m.storage.GetCert(ctx, domain)
		if err != nil {
			m.log.WarnContext(ctx, "renewal sweep: unreadable certificate",
				logger.Domain(domain), logger.Error(err))
			failed++
			continue
		}
		if cert != nil && !m.expiring(cert) {
			continue
		}
		if _, err := m.EnsureCertificate(ctx, domain); err != nil {
			m.log.WarnContext(ctx, "renewal sweep: renewal failed",
				logger.Domain(domain), logger.Error(err))
			failed++
		}
	}

	m.log.InfoContext(ctx, "renewal sweep finished",
		logger.Count("domains", len(domains)), logger.Count("failed", failed), logger.Elapsed(start))

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d domains", ErrRenewalIncomplete, failed, len(domains))
	}
	return nil
}

// issue obtains and stores a certificate for primary under the cross-instance
// issuance lock. Callers hold the per-domain in-process mutex. force skips the
// stored-record recheck; membership changes must reissue even when the current
// record is fresh.
func (m *Manager) issue(ctx context.Context, primary string, force bool) (*certstore.Certificate, error) {
	token, err := m.storage.AcquireIssueLock(ctx, primary)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := m.storage.ReleaseIssueLock(ctx, primary, token); err != nil {
			m.log.WarnContext(ctx, "issuance lock release failed",
				logger.Domain(primary), logger.Error(err))
		}
	}()

	// Another instance may have issued while we waited for the lock.
	if !force {
		if cert, err := m.storage.GetCert(ctx, primary); err == nil && cert != nil && !m.expiring(cert) {
			return cert, nil
		}
	}

	domains := []string{primary}
	if members, err := m.groupMembers(ctx, primary); err == nil && len(members) > 0 {
		domains = members
	}

	cert, err := m.issuer.Issue(ctx, domains)
	if err != nil {
		return nil, fmt.Errorf("issue certificate for %s: %w", primary, err)
	}
	if err := m.storage.SetCert(ctx, primary, *cert); err != nil {
		return nil, err
	}

	m.log.InfoContext(ctx, "certificate issued",
		logger.Domain(primary), logger.Count("covered_domains", len(domains)))
	return cert, nil
}

// holdGroupLock takes the advisory multiname lock for primary and returns the
// release func. A lock already held by someone else reports ErrGroupBusy.
func (m *Manager) holdGroupLock(ctx context.Context, primary, value string) (func(), error) {
	if _, held, err := m.storage.GetMultinameLock(ctx, primary); err != nil {
		return nil, err
	} else if held {
		return nil, fmt.Errorf("%w: %s", ErrGroupBusy, primary)
	}

	if err := m.storage.SetMultinameLock(ctx, primary, value); err != nil {
		return nil, err
	}
	return func() {
		if err := m.storage.DeleteMultinameLock(ctx, primary); err != nil {
			m.log.WarnContext(ctx, "multiname lock release failed",
				logger.Domain(primary), logger.Error(err))
		}
	}, nil
}

// groupMembers returns the member list of primary's group, or nil when no
// group exists.
func (m *Manager) groupMembers(ctx context.Context, primary string) ([]string, error) {
	groups, err := m.storage.AllMultinameGroups(ctx)
	if err != nil {
		return nil, err
	}
	return groups[primary], nil
}

func (m *Manager) expiring(cert *certstore.Certificate) bool {
	return time.Unix(cert.Expiry, 0).Before(time.Now().Add(m.renewBefore))
}

func (m *Manager) domainLock(domain string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.domains[domain]
	if !ok {
		lock = &sync.Mutex{}
		m.domains[domain] = lock
	}
	return lock
}
