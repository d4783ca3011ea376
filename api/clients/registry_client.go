package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/attestia/certificate-registry-backend/api"
	"github.com/attestia/certificate-registry-backend/interfaces"
)

// RegistryClient is the HTTP client for the certificate registry server. It
// implements interfaces.CertificateRegistry over the wire, so callers can
// swap an in-process registry for a remote one without code changes. The
// caller identity passed to each mutating method is forwarded in the
// X-Registry-Caller header.
type RegistryClient struct {
	// ServerAddr is the base URL of the registry server, e.g.
	// http://localhost:8080.
	ServerAddr string

	// HTTPClient is the client used for requests. Defaults to a client with
	// a 30 second timeout when nil.
	HTTPClient *http.Client
}

var _ interfaces.CertificateRegistry = (*RegistryClient)(nil)

// NewRegistryClient creates a client for the registry server at serverAddr.
func NewRegistryClient(serverAddr string) *RegistryClient {
	return &RegistryClient{
		ServerAddr: serverAddr,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *RegistryClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// doJSON performs one request and decodes a 2xx JSON body into out (out may
// be nil for 204-style endpoints). Non-2xx responses are translated back into
// the registry error taxonomy so errors.Is works across the wire.
func (c *RegistryClient) doJSON(ctx context.Context, method, path string, caller *interfaces.Identity, reqBody, out any) error {
	var bodyReader io.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("could not encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.ServerAddr+path, bodyReader)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != nil {
		req.Header.Set(api.CallerHeader, caller.String())
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("could not request registry endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not parse registry response: %w", err)
	}
	return nil
}

// decodeError rebuilds a sentinel-wrapped error from an error response. The
// 409 family collapses to the server's message since the precondition
// sentinels are not distinguishable by status alone.
func decodeError(resp *http.Response) error {
	var errResp api.ErrorResponse
	msg := ""
	if raw, err := io.ReadAll(resp.Body); err == nil {
		if json.Unmarshal(raw, &errResp) == nil {
			msg = errResp.Error
		} else {
			msg = string(raw)
		}
	}

	switch resp.StatusCode {
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, interfaces.ErrUnauthorized)
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", msg, interfaces.ErrInvalidInput)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, interfaces.ErrNotFound)
	default:
		return fmt.Errorf("registry endpoint returned error %d: %s", resp.StatusCode, msg)
	}
}

// IssueCertificate issues a certificate as the given caller.
func (c *RegistryClient) IssueCertificate(ctx context.Context, caller interfaces.Identity, recipientName, courseName, issuingInstitution, certificateHash string) (interfaces.CertificateID, error) {
	req := api.IssueCertificateRequest{
		RecipientName:      recipientName,
		CourseName:         courseName,
		IssuingInstitution: issuingInstitution,
		CertificateHash:    certificateHash,
	}
	var resp api.IssueCertificateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/certificates", &caller, req, &resp); err != nil {
		return interfaces.CertificateID{}, err
	}
	return interfaces.NewCertificateIDFromHex(resp.CertificateID)
}

// VerifyCertificate fetches the public verification view of a certificate.
func (c *RegistryClient) VerifyCertificate(ctx context.Context, id interfaces.CertificateID) (interfaces.VerificationResult, error) {
	var resp api.VerifyCertificateResponse
	path := fmt.Sprintf("/api/certificates/%s/verify", id.String())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return interfaces.VerificationResult{}, err
	}
	return interfaces.VerificationResult{
		IsValid:            resp.IsValid,
		RecipientName:      resp.RecipientName,
		CourseName:         resp.CourseName,
		IssuingInstitution: resp.IssuingInstitution,
		IssueDate:          resp.IssueDate,
	}, nil
}

// CertificateExists reports whether a certificate ID was ever issued.
func (c *RegistryClient) CertificateExists(ctx context.Context, id interfaces.CertificateID) (bool, error) {
	var resp api.ExistsResponse
	path := fmt.Sprintf("/api/certificates/%s/exists", id.String())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// GetCertificateDetails fetches the full certificate record.
func (c *RegistryClient) GetCertificateDetails(ctx context.Context, id interfaces.CertificateID) (interfaces.Certificate, error) {
	var resp api.CertificateResponse
	path := fmt.Sprintf("/api/certificates/%s", id.String())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return interfaces.Certificate{}, err
	}
	issuer, err := interfaces.NewIdentityFromHex(resp.Issuer)
	if err != nil {
		return interfaces.Certificate{}, fmt.Errorf("could not parse issuer in response: %w", err)
	}
	return interfaces.Certificate{
		RecipientName:      resp.RecipientName,
		CourseName:         resp.CourseName,
		IssuingInstitution: resp.IssuingInstitution,
		IssueDate:          resp.IssueDate,
		CertificateHash:    resp.CertificateHash,
		IsValid:            resp.IsValid,
		Issuer:             issuer,
	}, nil
}

// GetCertificateHash fetches the content fingerprint of a certificate.
func (c *RegistryClient) GetCertificateHash(ctx context.Context, id interfaces.CertificateID) (string, error) {
	var resp api.HashResponse
	path := fmt.Sprintf("/api/certificates/%s/hash", id.String())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.CertificateHash, nil
}

// RevokeCertificate revokes a certificate as the given caller.
func (c *RegistryClient) RevokeCertificate(ctx context.Context, caller interfaces.Identity, id interfaces.CertificateID) error {
	path := fmt.Sprintf("/api/certificates/%s/revoke", id.String())
	return c.doJSON(ctx, http.MethodPost, path, &caller, nil, nil)
}

// TransferCertificate updates the recipient name of a valid certificate.
func (c *RegistryClient) TransferCertificate(ctx context.Context, caller interfaces.Identity, id interfaces.CertificateID, newRecipientName string) error {
	path := fmt.Sprintf("/api/certificates/%s/transfer", id.String())
	return c.doJSON(ctx, http.MethodPost, path, &caller, api.TransferCertificateRequest{NewRecipientName: newRecipientName}, nil)
}

// AuthorizeIssuer grants issuance rights. Only succeeds for the owner.
func (c *RegistryClient) AuthorizeIssuer(ctx context.Context, caller, issuer interfaces.Identity) error {
	return c.doJSON(ctx, http.MethodPost, "/api/admin/issuers", &caller, api.AuthorizeIssuerRequest{Issuer: issuer.String()}, nil)
}

// RevokeIssuer withdraws issuance rights. Only succeeds for the owner.
func (c *RegistryClient) RevokeIssuer(ctx context.Context, caller, issuer interfaces.Identity) error {
	path := fmt.Sprintf("/api/admin/issuers/%s", issuer.String())
	return c.doJSON(ctx, http.MethodDelete, path, &caller, nil, nil)
}

// ChangeOwner transfers registry ownership. Only succeeds for the owner.
func (c *RegistryClient) ChangeOwner(ctx context.Context, caller, newOwner interfaces.Identity) error {
	return c.doJSON(ctx, http.MethodPost, "/api/admin/owner", &caller, api.ChangeOwnerRequest{NewOwner: newOwner.String()}, nil)
}

// GetCertificateCountByIssuer returns an issuer's lifetime issuance count.
func (c *RegistryClient) GetCertificateCountByIssuer(ctx context.Context, issuer interfaces.Identity) (uint64, error) {
	var resp api.CountResponse
	path := fmt.Sprintf("/api/issuers/%s/certificates/count", issuer.String())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// GetAllCertificatesIssuedBy lists the IDs an issuer has issued, in order.
func (c *RegistryClient) GetAllCertificatesIssuedBy(ctx context.Context, issuer interfaces.Identity) ([]interfaces.CertificateID, error) {
	var resp api.CertificateListResponse
	path := fmt.Sprintf("/api/issuers/%s/certificates", issuer.String())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return parseCertificateIDs(resp.CertificateIDs)
}

// GetValidCertificateCountByIssuer counts an issuer's still-valid
// certificates.
func (c *RegistryClient) GetValidCertificateCountByIssuer(ctx context.Context, issuer interfaces.Identity) (uint64, error) {
	var resp api.CountResponse
	path := fmt.Sprintf("/api/issuers/%s/certificates/valid-count", issuer.String())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// GetCertificatesByCourse filters one issuer's certificates by exact course
// name.
func (c *RegistryClient) GetCertificatesByCourse(ctx context.Context, issuer interfaces.Identity, courseName string) ([]interfaces.CertificateID, error) {
	var resp api.CertificateListResponse
	path := fmt.Sprintf("/api/issuers/%s/certificates/course/%s", issuer.String(), url.PathEscape(courseName))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return parseCertificateIDs(resp.CertificateIDs)
}

// GetCertificatesByInstitution scans all issuers for exact institution
// matches.
func (c *RegistryClient) GetCertificatesByInstitution(ctx context.Context, institution string) ([]interfaces.CertificateID, error) {
	var resp api.CertificateListResponse
	path := fmt.Sprintf("/api/certificates-by-institution/%s", url.PathEscape(institution))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return parseCertificateIDs(resp.CertificateIDs)
}

// GetCertificatesByRecipient scans all issuers for exact recipient matches.
func (c *RegistryClient) GetCertificatesByRecipient(ctx context.Context, recipientName string) ([]interfaces.CertificateID, error) {
	var resp api.CertificateListResponse
	path := fmt.Sprintf("/api/certificates-by-recipient/%s", url.PathEscape(recipientName))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return parseCertificateIDs(resp.CertificateIDs)
}

// GetAllAuthorizedIssuers lists currently authorized issuers.
func (c *RegistryClient) GetAllAuthorizedIssuers(ctx context.Context) ([]interfaces.Identity, error) {
	var resp api.IssuerListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/issuers", nil, nil, &resp); err != nil {
		return nil, err
	}
	issuers := make([]interfaces.Identity, 0, len(resp.Issuers))
	for _, raw := range resp.Issuers {
		issuer, err := interfaces.NewIdentityFromHex(raw)
		if err != nil {
			return nil, fmt.Errorf("could not parse issuer in response: %w", err)
		}
		issuers = append(issuers, issuer)
	}
	return issuers, nil
}

// IsAuthorizedIssuer reports whether an identity is currently authorized.
func (c *RegistryClient) IsAuthorizedIssuer(ctx context.Context, identity interfaces.Identity) (bool, error) {
	var resp api.IssuerStatusResponse
	path := fmt.Sprintf("/api/issuers/%s/status", identity.String())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Authorized, nil
}

// TotalCertificates returns the count of certificates ever issued.
func (c *RegistryClient) TotalCertificates(ctx context.Context) (uint64, error) {
	var resp api.CountResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/certificates/count", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// Owner returns the current registry owner.
func (c *RegistryClient) Owner(ctx context.Context) (interfaces.Identity, error) {
	var resp api.OwnerResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/owner", nil, nil, &resp); err != nil {
		return interfaces.Identity{}, err
	}
	return interfaces.NewIdentityFromHex(resp.Owner)
}

// Events replays the server's event log.
func (c *RegistryClient) Events(ctx context.Context) ([]api.EventRecord, error) {
	var records []api.EventRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/events", nil, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func parseCertificateIDs(raw []string) ([]interfaces.CertificateID, error) {
	ids := make([]interfaces.CertificateID, 0, len(raw))
	for _, s := range raw {
		id, err := interfaces.NewCertificateIDFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("could not parse certificate ID in response: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
