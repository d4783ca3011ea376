package api

import (
	"encoding/json"

	"github.com/attestia/certificate-registry-backend/interfaces"
)

// CallerHeader carries the authenticated caller identity as a 40-character
// hex string, with or without a 0x prefix. The fronting environment is
// responsible for authenticating it.
const CallerHeader = "X-Registry-Caller"

// IssueCertificateRequest is the body of POST /api/certificates.
type IssueCertificateRequest struct {
	RecipientName      string `json:"recipient_name"`
	CourseName         string `json:"course_name"`
	IssuingInstitution string `json:"issuing_institution"`
	CertificateHash    string `json:"certificate_hash"`
}

// IssueCertificateResponse returns the derived certificate ID.
type IssueCertificateResponse struct {
	CertificateID string `json:"certificate_id"`
}

// VerifyCertificateResponse is the public verification view. For an unknown
// ID every field is the zero value; issue_date > 0 distinguishes a revoked
// certificate from one that never existed.
type VerifyCertificateResponse struct {
	IsValid            bool   `json:"is_valid"`
	RecipientName      string `json:"recipient_name"`
	CourseName         string `json:"course_name"`
	IssuingInstitution string `json:"issuing_institution"`
	IssueDate          int64  `json:"issue_date"`
}

// CertificateResponse is the full record returned by the details endpoint.
type CertificateResponse struct {
	CertificateID      string `json:"certificate_id"`
	RecipientName      string `json:"recipient_name"`
	CourseName         string `json:"course_name"`
	IssuingInstitution string `json:"issuing_institution"`
	IssueDate          int64  `json:"issue_date"`
	CertificateHash    string `json:"certificate_hash"`
	IsValid            bool   `json:"is_valid"`
	Issuer             string `json:"issuer"`
}

// NewCertificateResponse builds the response view of a certificate record.
func NewCertificateResponse(id interfaces.CertificateID, cert interfaces.Certificate) CertificateResponse {
	return CertificateResponse{
		CertificateID:      id.String(),
		RecipientName:      cert.RecipientName,
		CourseName:         cert.CourseName,
		IssuingInstitution: cert.IssuingInstitution,
		IssueDate:          cert.IssueDate,
		CertificateHash:    cert.CertificateHash,
		IsValid:            cert.IsValid,
		Issuer:             cert.Issuer.String(),
	}
}

// ExistsResponse reports hard existence of a certificate ID.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// HashResponse returns the caller-supplied content fingerprint.
type HashResponse struct {
	CertificateHash string `json:"certificate_hash"`
}

// TransferCertificateRequest is the body of the transfer endpoint.
type TransferCertificateRequest struct {
	NewRecipientName string `json:"new_recipient_name"`
}

// AuthorizeIssuerRequest is the body of POST /api/admin/issuers.
type AuthorizeIssuerRequest struct {
	Issuer string `json:"issuer"`
}

// ChangeOwnerRequest is the body of POST /api/admin/owner.
type ChangeOwnerRequest struct {
	NewOwner string `json:"new_owner"`
}

// IssuerListResponse lists issuer identities as hex strings.
type IssuerListResponse struct {
	Issuers []string `json:"issuers"`
}

// IssuerStatusResponse reports whether an identity is currently authorized.
type IssuerStatusResponse struct {
	Authorized bool `json:"authorized"`
}

// CertificateListResponse lists certificate IDs as hex strings.
type CertificateListResponse struct {
	CertificateIDs []string `json:"certificate_ids"`
}

// CountResponse carries a single counter value.
type CountResponse struct {
	Count uint64 `json:"count"`
}

// OwnerResponse returns the current registry owner.
type OwnerResponse struct {
	Owner string `json:"owner"`
}

// EventRecord is one entry of the replayable event log: the event name plus
// its payload fields.
type EventRecord struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorResponse carries the error message for non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewCertificateIDList converts IDs to their hex representation.
func NewCertificateIDList(ids []interfaces.CertificateID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// NewIssuerList converts identities to their hex representation.
func NewIssuerList(issuers []interfaces.Identity) []string {
	out := make([]string, 0, len(issuers))
	for _, issuer := range issuers {
		out = append(out, issuer.String())
	}
	return out
}
