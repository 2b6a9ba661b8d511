package acme

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"log/slog"

	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/registration"

	"github.com/Energy1190/autossl/core/certstore"
	"github.com/Energy1190/autossl/core/logger"
)

// Config holds ACME account configuration with environment variable mapping.
type Config struct {
	// Email is the contact email for the ACME account.
	Email string `env:"ACME_EMAIL,required"`

	// DirectoryURL selects the CA. Point it at the staging directory while
	// testing; Let's Encrypt production rate limits are unforgiving.
	DirectoryURL string `env:"ACME_DIRECTORY_URL" envDefault:"https://acme-v02.api.letsencrypt.org/directory"`
}

// user is the lego account: a fresh ECDSA key registered on construction.
type user struct {
	email        string
	registration *registration.Resource
	key          crypto.PrivateKey
}

func (u *user) GetEmail() string                        { return u.email }
func (u *user) GetRegistration() *registration.Resource { return u.registration }
func (u *user) GetPrivateKey() crypto.PrivateKey        { return u.key }

// Issuer obtains certificates over ACME with the HTTP-01 challenge, serving
// challenge tokens through the shared challenge record store so any instance
// behind the load balancer can answer for any other.
type Issuer struct {
	client *lego.Client
	log    *slog.Logger
}

// NewIssuer registers a fresh ACME account and wires the HTTP-01 provider to
// storage. This performs network I/O against the CA directory.
func NewIssuer(cfg Config, storage *certstore.Storage, opts ...Option) (*Issuer, error) {
	if cfg.Email == "" {
		return nil, ErrEmailRequired
	}
	if storage == nil {
		return nil, ErrStorageRequired
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate account key: %w", err)
	}

	u := &user{email: cfg.Email, key: key}
	legoConfig := lego.NewConfig(u)
	if cfg.DirectoryURL != "" {
		legoConfig.CADirURL = cfg.DirectoryURL
	}
	legoConfig.Certificate.KeyType = certcrypto.EC256

	client, err := lego.NewClient(legoConfig)
	if err != nil {
		return nil, fmt.Errorf("create acme client: %w", err)
	}

	if err := client.Challenge.SetHTTP01Provider(&http01Provider{storage: storage}); err != nil {
		return nil, fmt.Errorf("set http-01 provider: %w", err)
	}

	reg, err := client.Registration.Register(registration.RegisterOptions{TermsOfServiceAgreed: true})
	if err != nil {
		return nil, fmt.Errorf("register acme account: %w", err)
	}
	u.registration = reg

	i := &Issuer{client: client, log: slog.Default()}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue obtains a bundled certificate for domains and maps it into the atomic
// record shape: full chain, private key, leaf, and the leaf's expiry.
func (i *Issuer) Issue(ctx context.Context, domains []string) (*certstore.Certificate, error) {
	if len(domains) == 0 {
		return nil, ErrNoDomains
	}

	res, err := i.client.Certificate.Obtain(certificate.ObtainRequest{
		Domains: domains,
		Bundle:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("obtain certificate for %s: %w", domains[0], err)
	}

	certs, err := certcrypto.ParsePEMBundle(res.Certificate)
	if err != nil || len(certs) == 0 {
		return nil, fmt.Errorf("parse obtained certificate for %s: %v", domains[0], err)
	}
	leaf := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certs[0].Raw})

	i.log.InfoContext(ctx, "certificate obtained",
		logger.Domain(domains[0]), logger.Count("covered_domains", len(domains)))

	return &certstore.Certificate{
		FullchainPEM: string(res.Certificate),
		PrivkeyPEM:   string(res.PrivateKey),
		CertPEM:      string(leaf),
		Expiry:       certs[0].NotAfter.Unix(),
	}, nil
}

// Option configures an Issuer during initialization.
type Option func(*Issuer)

// WithLogger sets the issuer's logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(i *Issuer) {
		if log != nil {
			i.log = log
		}
	}
}
