package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia/certificate-registry-backend/interfaces"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewFileStore(t.TempDir(), logger)
	require.NoError(t, err)
	return store
}

func TestFileStore_LoadBeforeSave(t *testing.T) {
	store := newTestFileStore(t)

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, interfaces.ErrStateNotFound)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	state := testState(0x01)
	certID := interfaces.CertificateID{0xab}
	state.Certificates[certID] = interfaces.Certificate{
		RecipientName:      "Alice Zhang",
		CourseName:         "Distributed Systems",
		IssuingInstitution: "Example University",
		IssueDate:          1700000000,
		CertificateHash:    "sha256:deadbeef",
		IsValid:            true,
		Issuer:             state.Owner,
	}
	state.IssuedBy[state.Owner] = []interfaces.CertificateID{certID}
	state.TotalCertificates = 1

	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestFileStore_SaveReplacesSnapshot(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testState(0x01)))
	require.NoError(t, store.Save(ctx, testState(0x02)))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, interfaces.Identity{0x02}, loaded.Owner)

	// No temp files linger after the atomic replace.
	entries, err := os.ReadDir(store.baseDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, snapshotFileName, entries[0].Name())
}

func TestFileStore_CorruptSnapshot(t *testing.T) {
	store := newTestFileStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(store.baseDir, snapshotFileName), []byte("not json"), 0o644))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, interfaces.ErrStateNotFound)
}

func TestFileStore_Available(t *testing.T) {
	store := newTestFileStore(t)
	assert.True(t, store.Available(context.Background()))

	require.NoError(t, os.RemoveAll(store.baseDir))
	assert.False(t, store.Available(context.Background()))
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, interfaces.ErrStateNotFound)

	state := testState(0x01)
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	// The store holds a copy: mutating the loaded state does not leak back.
	loaded.TotalCertificates = 99
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.TotalCertificates)
}
