package registry

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/attestia/certificate-registry-backend/interfaces"
)

// MockRegistry mocks the CertificateRegistry interface for handler and
// client tests.
type MockRegistry struct {
	mock.Mock
}

var _ interfaces.CertificateRegistry = (*MockRegistry)(nil)

// IssueCertificate mocks the IssueCertificate method.
func (m *MockRegistry) IssueCertificate(ctx context.Context, caller interfaces.Identity, recipientName, courseName, issuingInstitution, certificateHash string) (interfaces.CertificateID, error) {
	args := m.Called(ctx, caller, recipientName, courseName, issuingInstitution, certificateHash)
	return args.Get(0).(interfaces.CertificateID), args.Error(1)
}

// VerifyCertificate mocks the VerifyCertificate method.
func (m *MockRegistry) VerifyCertificate(ctx context.Context, id interfaces.CertificateID) (interfaces.VerificationResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(interfaces.VerificationResult), args.Error(1)
}

// CertificateExists mocks the CertificateExists method.
func (m *MockRegistry) CertificateExists(ctx context.Context, id interfaces.CertificateID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// GetCertificateDetails mocks the GetCertificateDetails method.
func (m *MockRegistry) GetCertificateDetails(ctx context.Context, id interfaces.CertificateID) (interfaces.Certificate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(interfaces.Certificate), args.Error(1)
}

// GetCertificateHash mocks the GetCertificateHash method.
func (m *MockRegistry) GetCertificateHash(ctx context.Context, id interfaces.CertificateID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// RevokeCertificate mocks the RevokeCertificate method.
func (m *MockRegistry) RevokeCertificate(ctx context.Context, caller interfaces.Identity, id interfaces.CertificateID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

// TransferCertificate mocks the TransferCertificate method.
func (m *MockRegistry) TransferCertificate(ctx context.Context, caller interfaces.Identity, id interfaces.CertificateID, newRecipientName string) error {
	args := m.Called(ctx, caller, id, newRecipientName)
	return args.Error(0)
}

// AuthorizeIssuer mocks the AuthorizeIssuer method.
func (m *MockRegistry) AuthorizeIssuer(ctx context.Context, caller, issuer interfaces.Identity) error {
	args := m.Called(ctx, caller, issuer)
	return args.Error(0)
}

// RevokeIssuer mocks the RevokeIssuer method.
func (m *MockRegistry) RevokeIssuer(ctx context.Context, caller, issuer interfaces.Identity) error {
	args := m.Called(ctx, caller, issuer)
	return args.Error(0)
}

// ChangeOwner mocks the ChangeOwner method.
func (m *MockRegistry) ChangeOwner(ctx context.Context, caller, newOwner interfaces.Identity) error {
	args := m.Called(ctx, caller, newOwner)
	return args.Error(0)
}

// GetCertificateCountByIssuer mocks the GetCertificateCountByIssuer method.
func (m *MockRegistry) GetCertificateCountByIssuer(ctx context.Context, issuer interfaces.Identity) (uint64, error) {
	args := m.Called(ctx, issuer)
	return args.Get(0).(uint64), args.Error(1)
}

// GetAllCertificatesIssuedBy mocks the GetAllCertificatesIssuedBy method.
func (m *MockRegistry) GetAllCertificatesIssuedBy(ctx context.Context, issuer interfaces.Identity) ([]interfaces.CertificateID, error) {
	args := m.Called(ctx, issuer)
	return args.Get(0).([]interfaces.CertificateID), args.Error(1)
}

// GetValidCertificateCountByIssuer mocks the GetValidCertificateCountByIssuer method.
func (m *MockRegistry) GetValidCertificateCountByIssuer(ctx context.Context, issuer interfaces.Identity) (uint64, error) {
	args := m.Called(ctx, issuer)
	return args.Get(0).(uint64), args.Error(1)
}

// GetCertificatesByCourse mocks the GetCertificatesByCourse method.
func (m *MockRegistry) GetCertificatesByCourse(ctx context.Context, issuer interfaces.Identity, courseName string) ([]interfaces.CertificateID, error) {
	args := m.Called(ctx, issuer, courseName)
	return args.Get(0).([]interfaces.CertificateID), args.Error(1)
}

// GetCertificatesByInstitution mocks the GetCertificatesByInstitution method.
func (m *MockRegistry) GetCertificatesByInstitution(ctx context.Context, institution string) ([]interfaces.CertificateID, error) {
	args := m.Called(ctx, institution)
	return args.Get(0).([]interfaces.CertificateID), args.Error(1)
}

// GetCertificatesByRecipient mocks the GetCertificatesByRecipient method.
func (m *MockRegistry) GetCertificatesByRecipient(ctx context.Context, recipientName string) ([]interfaces.CertificateID, error) {
	args := m.Called(ctx, recipientName)
	return args.Get(0).([]interfaces.CertificateID), args.Error(1)
}

// GetAllAuthorizedIssuers mocks the GetAllAuthorizedIssuers method.
func (m *MockRegistry) GetAllAuthorizedIssuers(ctx context.Context) ([]interfaces.Identity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]interfaces.Identity), args.Error(1)
}

// IsAuthorizedIssuer mocks the IsAuthorizedIssuer method.
func (m *MockRegistry) IsAuthorizedIssuer(ctx context.Context, identity interfaces.Identity) (bool, error) {
	args := m.Called(ctx, identity)
	return args.Bool(0), args.Error(1)
}

// TotalCertificates mocks the TotalCertificates method.
func (m *MockRegistry) TotalCertificates(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

// Owner mocks the Owner method.
func (m *MockRegistry) Owner(ctx context.Context) (interfaces.Identity, error) {
	args := m.Called(ctx)
	return args.Get(0).(interfaces.Identity), args.Error(1)
}
