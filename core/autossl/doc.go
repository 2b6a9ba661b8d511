// Package autossl coordinates certificate issuance on top of certstore.
//
// The Manager implements the full flow shared by every instance: acquire the
// cross-instance issuance lock, check for an existing usable record, obtain a
// certificate through the injected Issuer collaborator, store the record
// atomically, release the lock. A per-domain in-process mutex is layered
// under the distributed lock, covering the common single-node case the
// best-effort lock deliberately leaves open.
//
// # Basic Usage
//
//	storage, _ := certstore.New(certstore.Config{Store: store, Codec: certstore.JSONCodec{}})
//
//	manager, err := autossl.New(autossl.Config{
//		Storage: storage,
//		Issuer:  issuer, // e.g. integration/acme
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cert, err := manager.EnsureCertificate(ctx, "example.com")
//
// # Multiname groups
//
// AddDomain and RemoveDomain mutate a group under the advisory multiname lock
// and reissue the group certificate for the new member set. A domain served
// by a group resolves to the group primary's record everywhere.
//
// # Renewal
//
// RenewAll sweeps the stored inventory and renews records inside the
// renew-before window (default 30 days). Run it from a cron or ticker; the
// package schedules nothing on its own.
package autossl
