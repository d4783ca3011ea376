package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Identity represents a 20-byte address-style identity. Issuers, owners and
// certificate holders are all identified this way; the fronting environment
// is responsible for authenticating that a caller controls an identity.
type Identity [20]byte

// NewIdentityFromBytes creates an identity from a raw 20-byte slice.
func NewIdentityFromBytes(raw []byte) (Identity, error) {
	if len(raw) != 20 {
		return Identity{}, errors.New("invalid identity length: must be 20 bytes")
	}

	var id Identity
	copy(id[:], raw)
	return id, nil
}

// NewIdentityFromHex creates an identity from a 40-character hex string,
// with or without a 0x prefix.
func NewIdentityFromHex(addr string) (Identity, error) {
	clean := strings.TrimPrefix(addr, "0x")
	if len(clean) != 40 {
		return Identity{}, errors.New("invalid identity length: hex string must be 40 characters")
	}

	raw, err := hex.DecodeString(clean)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewIdentityFromBytes(raw)
}

// String returns the hex string representation of the identity.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the raw 20-byte identity.
func (id Identity) Bytes() []byte {
	return id[:]
}

// Equal compares two identities for equality.
func (id Identity) Equal(other Identity) bool {
	return id == other
}

// IsZero reports whether the identity is the all-zero (null) identity.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// MarshalText implements encoding.TextMarshaler so identities serialize as
// hex strings, including when used as JSON map keys.
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := NewIdentityFromHex(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// CertificateID is the 32-byte keccak-256 hash uniquely identifying one
// certificate record. It is derived from the certificate's descriptive
// fields, the issue timestamp and the issuer identity, which makes IDs
// unpredictable before issuance and collisions equivalent to replayed
// issuance calls.
type CertificateID [32]byte

// NewCertificateIDFromBytes creates a certificate ID from a raw 32-byte slice.
func NewCertificateIDFromBytes(raw []byte) (CertificateID, error) {
	if len(raw) != 32 {
		return CertificateID{}, errors.New("invalid certificate ID length: must be 32 bytes")
	}

	var id CertificateID
	copy(id[:], raw)
	return id, nil
}

// NewCertificateIDFromHex creates a certificate ID from a 64-character hex
// string, with or without a 0x prefix.
func NewCertificateIDFromHex(source string) (CertificateID, error) {
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) != 64 {
		return CertificateID{}, errors.New("invalid certificate ID length: hex string must be 64 characters")
	}

	raw, err := hex.DecodeString(clean)
	if err != nil {
		return CertificateID{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewCertificateIDFromBytes(raw)
}

// String returns the hex representation of the certificate ID.
func (id CertificateID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the raw 32-byte hash.
func (id CertificateID) Bytes() []byte {
	return id[:]
}

// MarshalText implements encoding.TextMarshaler.
func (id CertificateID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *CertificateID) UnmarshalText(text []byte) error {
	parsed, err := NewCertificateIDFromHex(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Certificate is one issued certificate record. IssueDate is unix seconds,
// set once at issuance and immutable thereafter. IsValid starts true and can
// only ever transition to false.
type Certificate struct {
	RecipientName      string   `json:"recipient_name"`
	CourseName         string   `json:"course_name"`
	IssuingInstitution string   `json:"issuing_institution"`
	IssueDate          int64    `json:"issue_date"`
	CertificateHash    string   `json:"certificate_hash"`
	IsValid            bool     `json:"is_valid"`
	Issuer             Identity `json:"issuer"`
}

// VerificationResult is the public verification view of a certificate. For an
// unknown ID every field is the zero value; callers needing to distinguish
// "revoked" from "never issued" must check IssueDate > 0 or use
// CertificateExists.
type VerificationResult struct {
	IsValid            bool   `json:"is_valid"`
	RecipientName      string `json:"recipient_name"`
	CourseName         string `json:"course_name"`
	IssuingInstitution string `json:"issuing_institution"`
	IssueDate          int64  `json:"issue_date"`
}

// RegistryState is the durable snapshot of all registry state. The layout
// mirrors the registry's in-memory structures: a certificate KV map, the
// current authorized-issuer flags, the historical list of every identity
// ever authorized (for enumeration), per-issuer issued-ID lists, the single
// owner, and the monotonic total-issued counter.
type RegistryState struct {
	Certificates      map[CertificateID]Certificate `json:"certificates"`
	Owner             Identity                      `json:"owner"`
	AuthorizedIssuers map[Identity]bool             `json:"authorized_issuers"`
	IssuerHistory     []Identity                    `json:"issuer_history"`
	IssuedBy          map[Identity][]CertificateID  `json:"issued_by"`
	TotalCertificates uint64                        `json:"total_certificates"`
}

// NewRegistryState returns an empty state with all maps initialized.
func NewRegistryState() *RegistryState {
	return &RegistryState{
		Certificates:      make(map[CertificateID]Certificate),
		AuthorizedIssuers: make(map[Identity]bool),
		IssuedBy:          make(map[Identity][]CertificateID),
	}
}

// Clone returns a deep copy of the state. The registry uses this to keep a
// rollback point so a failed snapshot write leaves no partial mutation
// behind.
func (s *RegistryState) Clone() *RegistryState {
	out := &RegistryState{
		Certificates:      make(map[CertificateID]Certificate, len(s.Certificates)),
		Owner:             s.Owner,
		AuthorizedIssuers: make(map[Identity]bool, len(s.AuthorizedIssuers)),
		IssuerHistory:     append([]Identity(nil), s.IssuerHistory...),
		IssuedBy:          make(map[Identity][]CertificateID, len(s.IssuedBy)),
		TotalCertificates: s.TotalCertificates,
	}
	for id, cert := range s.Certificates {
		out.Certificates[id] = cert
	}
	for issuer, flag := range s.AuthorizedIssuers {
		out.AuthorizedIssuers[issuer] = flag
	}
	for issuer, ids := range s.IssuedBy {
		out.IssuedBy[issuer] = append([]CertificateID(nil), ids...)
	}
	return out
}
