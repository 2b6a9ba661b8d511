package autossl

import "errors"

var (
	// ErrStorageRequired is returned when Config is missing the storage.
	ErrStorageRequired = errors.New("certificate storage is required")

	// ErrIssuerRequired is returned when Config is missing the issuer.
	ErrIssuerRequired = errors.New("certificate issuer is required")

	// ErrGroupBusy is returned when another caller holds the advisory
	// multiname lock for the group being mutated.
	ErrGroupBusy = errors.New("multiname group is being modified")

	// ErrGroupLimits is returned when adding a domain would push the group
	// past the CA's member count or request size limits.
	ErrGroupLimits = errors.New("multiname group limits exceeded")

	// ErrRemovePrimary is returned when asked to remove a group's primary
	// domain from its own group.
	ErrRemovePrimary = errors.New("cannot remove the primary domain from its group")

	// ErrRenewalIncomplete is returned by RenewAll when one or more domains
	// failed to renew. Successful renewals are kept.
	ErrRenewalIncomplete = errors.New("renewal sweep incomplete")
)
