package certstore

// Key construction is plain string concatenation. Each record class carries a
// distinct fixed segment, so challenge, certificate, lock, and multiname keys
// can never collide for any pair of domains.
const (
	challengeSegment    = ":challenge:"
	latestSuffix        = ":latest"
	issueLockSuffix     = ":issue_cert_lock"
	multinameSuffix     = ":main"
	multinameLockSuffix = ":multiname_lock"
)

func certKey(domain string) string { return domain + latestSuffix }

func challengeKey(domain, path string) string { return domain + challengeSegment + path }

func issueLockKey(domain string) string { return domain + issueLockSuffix }

func multinameKey(domain string) string { return domain + multinameSuffix }

func multinameLockKey(domain string) string { return domain + multinameLockSuffix }
