package interfaces

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentityFromHex(t *testing.T) {
	id, err := NewIdentityFromHex("0123456789abcdef0123456789abcdef01234567")
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", id.String())

	// 0x prefix is accepted and stripped.
	prefixed, err := NewIdentityFromHex("0x0123456789abcdef0123456789abcdef01234567")
	require.NoError(t, err)
	assert.Equal(t, id, prefixed)

	_, err = NewIdentityFromHex("0123")
	assert.Error(t, err)

	_, err = NewIdentityFromHex("zz23456789abcdef0123456789abcdef01234567")
	assert.Error(t, err)
}

func TestIdentity_IsZero(t *testing.T) {
	assert.True(t, Identity{}.IsZero())
	assert.False(t, Identity{0x01}.IsZero())
}

func TestNewCertificateIDFromHex(t *testing.T) {
	hex64 := "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"
	id, err := NewCertificateIDFromHex(hex64)
	require.NoError(t, err)
	assert.Equal(t, hex64, id.String())

	prefixed, err := NewCertificateIDFromHex("0x" + hex64)
	require.NoError(t, err)
	assert.Equal(t, id, prefixed)

	_, err = NewCertificateIDFromHex("abcd")
	assert.Error(t, err)
}

func TestRegistryState_JSONRoundTrip(t *testing.T) {
	owner := Identity{0xaa}
	certID := CertificateID{0x01, 0x02}

	state := NewRegistryState()
	state.Owner = owner
	state.AuthorizedIssuers[owner] = true
	state.IssuerHistory = []Identity{owner}
	state.Certificates[certID] = Certificate{
		RecipientName:      "Alice Zhang",
		CourseName:         "Distributed Systems",
		IssuingInstitution: "Example University",
		IssueDate:          1700000000,
		CertificateHash:    "sha256:deadbeef",
		IsValid:            true,
		Issuer:             owner,
	}
	state.IssuedBy[owner] = []CertificateID{certID}
	state.TotalCertificates = 1

	// Identities and certificate IDs serialize as hex, including as map
	// keys, so the snapshot survives a decode by a fresh process.
	data, err := json.Marshal(state)
	require.NoError(t, err)
	assert.Contains(t, string(data), owner.String())
	assert.Contains(t, string(data), certID.String())

	decoded := NewRegistryState()
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, state, decoded)
}

func TestRegistryState_CloneIndependence(t *testing.T) {
	owner := Identity{0xaa}
	certID := CertificateID{0x01}

	state := NewRegistryState()
	state.Owner = owner
	state.AuthorizedIssuers[owner] = true
	state.IssuerHistory = []Identity{owner}
	state.Certificates[certID] = Certificate{RecipientName: "Alice", IsValid: true}
	state.IssuedBy[owner] = []CertificateID{certID}
	state.TotalCertificates = 1

	clone := state.Clone()
	require.Equal(t, state, clone)

	clone.Certificates[CertificateID{0x02}] = Certificate{}
	clone.AuthorizedIssuers[Identity{0xbb}] = true
	clone.IssuerHistory = append(clone.IssuerHistory, Identity{0xbb})
	clone.IssuedBy[owner] = append(clone.IssuedBy[owner], CertificateID{0x02})
	clone.TotalCertificates = 5

	assert.Len(t, state.Certificates, 1)
	assert.Len(t, state.AuthorizedIssuers, 1)
	assert.Len(t, state.IssuerHistory, 1)
	assert.Len(t, state.IssuedBy[owner], 1)
	assert.Equal(t, uint64(1), state.TotalCertificates)
}
