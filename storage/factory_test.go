package storage

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia/certificate-registry-backend/interfaces"
)

func newTestFactory() *StateStoreFactory {
	return NewStateStoreFactory(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStateStoreFor_Memory(t *testing.T) {
	factory := newTestFactory()

	store, err := factory.StateStoreFor("mem://")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
	assert.Equal(t, "mem://", store.LocationURI())
}

func TestStateStoreFor_File(t *testing.T) {
	factory := newTestFactory()
	dir := t.TempDir()

	store, err := factory.StateStoreFor(interfaces.StoreLocation("file://" + dir))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
	assert.Equal(t, "file-"+filepath.Base(dir), store.Name())
}

func TestStateStoreFor_S3(t *testing.T) {
	factory := newTestFactory()

	store, err := factory.StateStoreFor("s3://my-bucket/registry/?region=eu-west-1")
	require.NoError(t, err)
	s3Store, ok := store.(*S3Store)
	require.True(t, ok)
	assert.Equal(t, "my-bucket", s3Store.bucketName)
	assert.Equal(t, "registry/"+snapshotFileName, s3Store.key)
	assert.Equal(t, "s3-my-bucket", s3Store.Name())
}

func TestStateStoreFor_S3WithCredentialsAndEndpoint(t *testing.T) {
	factory := newTestFactory()

	store, err := factory.StateStoreFor("s3://AKID:SECRET@my-bucket/prefix?region=us-east-1&endpoint=minio.local:9000")
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, store)
}

func TestStateStoreFor_Vault(t *testing.T) {
	factory := newTestFactory()

	store, err := factory.StateStoreFor("vault://vault.local:8200/secret/certificate-registry")
	require.NoError(t, err)
	vaultStore, ok := store.(*VaultStore)
	require.True(t, ok)
	assert.Equal(t, "secret", vaultStore.mountPath)
	assert.Equal(t, "certificate-registry", vaultStore.dataPath)
	assert.Equal(t, "vault://vault.local:8200/secret/certificate-registry", vaultStore.LocationURI())
}

func TestStateStoreFor_Invalid(t *testing.T) {
	factory := newTestFactory()

	tests := []struct {
		name     string
		location interfaces.StoreLocation
	}{
		{"unsupported scheme", "redis://localhost:6379"},
		{"empty file path", "file://"},
		{"missing s3 bucket", "s3://?region=us-east-1"},
		{"missing vault host", "vault:///secret/path"},
		{"vault path without mount", "vault://vault.local:8200/secretonly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := factory.StateStoreFor(tt.location)
			assert.Error(t, err)
		})
	}
}

func TestCreateMultiStore(t *testing.T) {
	factory := newTestFactory()

	store, err := factory.CreateMultiStore([]interfaces.StoreLocation{
		"mem://",
		interfaces.StoreLocation("file://" + t.TempDir()),
	})
	require.NoError(t, err)
	assert.IsType(t, &MultiStore{}, store)
}

func TestCreateMultiStore_SkipsInvalidLocations(t *testing.T) {
	factory := newTestFactory()

	store, err := factory.CreateMultiStore([]interfaces.StoreLocation{
		"bogus://nope",
		"mem://",
	})
	require.NoError(t, err)
	assert.IsType(t, &MultiStore{}, store)
}

func TestCreateMultiStore_AllInvalid(t *testing.T) {
	factory := newTestFactory()

	_, err := factory.CreateMultiStore([]interfaces.StoreLocation{"bogus://nope"})
	assert.Error(t, err)
}
