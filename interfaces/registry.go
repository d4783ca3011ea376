package interfaces

import "context"

// CertificateRegistry is the complete set of registry operations. The caller
// identity is an explicit argument on every gated operation: the registry
// checks roles, it does not authenticate. Each operation executes atomically
// against the registry state and either fully applies or leaves state
// untouched.
//
// Implementations include the in-process state machine (registry package)
// and the HTTP client (api/clients package).
type CertificateRegistry interface {
	// IssueCertificate creates a new certificate record owned by the calling
	// issuer and returns its derived ID. All four text fields are required.
	IssueCertificate(ctx context.Context, caller Identity, recipientName, courseName, issuingInstitution, certificateHash string) (CertificateID, error)

	// VerifyCertificate is the public verification read. It never fails for
	// an unknown ID; it returns the zero VerificationResult instead.
	VerifyCertificate(ctx context.Context, id CertificateID) (VerificationResult, error)

	// CertificateExists reports whether a certificate record occupies the ID.
	CertificateExists(ctx context.Context, id CertificateID) (bool, error)

	// GetCertificateDetails returns the full record, failing with ErrNotFound
	// for an unknown ID. Revoked certificates keep their descriptive fields.
	GetCertificateDetails(ctx context.Context, id CertificateID) (Certificate, error)

	// GetCertificateHash returns the caller-supplied content fingerprint,
	// failing with ErrNotFound for an unknown ID.
	GetCertificateHash(ctx context.Context, id CertificateID) (string, error)

	// RevokeCertificate marks a certificate invalid. Any currently authorized
	// issuer may revoke any certificate; revocation is not scoped to the
	// original issuer.
	RevokeCertificate(ctx context.Context, caller Identity, id CertificateID) error

	// TransferCertificate renames the recipient of a currently valid
	// certificate. No other field changes and no event is emitted.
	TransferCertificate(ctx context.Context, caller Identity, id CertificateID, newRecipientName string) error

	// AuthorizeIssuer grants issuer status. Owner-only.
	AuthorizeIssuer(ctx context.Context, caller, issuer Identity) error

	// RevokeIssuer deactivates an issuer without touching their historical
	// certificates or counters. Owner-only; the current owner cannot be
	// revoked.
	RevokeIssuer(ctx context.Context, caller, issuer Identity) error

	// ChangeOwner reassigns ownership. The old owner keeps whatever issuer
	// authorization it had and the new owner is not granted any; owner and
	// issuer are distinct roles.
	ChangeOwner(ctx context.Context, caller, newOwner Identity) error

	// Enumeration helpers, all public. Text filters match byte-for-byte with
	// no normalization.
	GetCertificateCountByIssuer(ctx context.Context, issuer Identity) (uint64, error)
	GetAllCertificatesIssuedBy(ctx context.Context, issuer Identity) ([]CertificateID, error)
	GetValidCertificateCountByIssuer(ctx context.Context, issuer Identity) (uint64, error)
	GetCertificatesByCourse(ctx context.Context, issuer Identity, courseName string) ([]CertificateID, error)
	GetCertificatesByInstitution(ctx context.Context, institution string) ([]CertificateID, error)
	GetCertificatesByRecipient(ctx context.Context, recipientName string) ([]CertificateID, error)
	GetAllAuthorizedIssuers(ctx context.Context) ([]Identity, error)
	IsAuthorizedIssuer(ctx context.Context, identity Identity) (bool, error)

	// TotalCertificates is the count of all certificates ever issued;
	// revocation does not decrement it.
	TotalCertificates(ctx context.Context) (uint64, error)

	// Owner returns the current registry owner.
	Owner(ctx context.Context) (Identity, error)
}
