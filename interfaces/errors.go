package interfaces

import "errors"

// Registry operation errors. Every operation runs all of its precondition
// checks before touching state, so any of these errors implies the registry
// is unchanged.
var (
	// ErrUnauthorized is returned when the caller lacks the required role:
	// not the owner for owner-only operations, or not an authorized issuer
	// for issuance, revocation and transfer.
	ErrUnauthorized = errors.New("caller is not authorized for this operation")

	// ErrInvalidInput is returned for empty required text fields or the
	// null/zero identity.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when the referenced certificate ID does not
	// exist.
	ErrNotFound = errors.New("certificate not found")

	// ErrDuplicateCertificate is returned when issuance derives an ID that
	// is already occupied, i.e. the exact same issuance was replayed at the
	// same timestamp by the same issuer.
	ErrDuplicateCertificate = errors.New("certificate already exists")

	// ErrAlreadyRevoked is returned when revoking a certificate that is no
	// longer valid.
	ErrAlreadyRevoked = errors.New("certificate already revoked")

	// ErrCertificateRevoked is returned when an operation requires a
	// currently valid certificate, such as transfer.
	ErrCertificateRevoked = errors.New("certificate is revoked")

	// ErrAlreadyAuthorized is returned when authorizing an issuer that is
	// already authorized.
	ErrAlreadyAuthorized = errors.New("issuer already authorized")

	// ErrNotAuthorizedIssuer is returned when revoking authorization from an
	// identity that is not currently an authorized issuer.
	ErrNotAuthorizedIssuer = errors.New("identity is not an authorized issuer")

	// ErrCannotRevokeOwner is returned when attempting to revoke the current
	// owner's issuer authorization.
	ErrCannotRevokeOwner = errors.New("cannot revoke the registry owner")
)

// Storage errors.
var (
	// ErrStateNotFound is returned by StateStore.Load when no snapshot has
	// been written yet.
	ErrStateNotFound = errors.New("registry state not found")

	// ErrInvalidLocationURI is returned by the store factory for malformed
	// location URIs.
	ErrInvalidLocationURI = errors.New("invalid storage location URI")
)
