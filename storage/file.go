package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/attestia/certificate-registry-backend/interfaces"
)

const snapshotFileName = "registry-state.json"

// FileStore persists the snapshot on the local filesystem. Saves write to a
// temporary file in the same directory and rename over the snapshot, so a
// crash mid-write never leaves a torn snapshot behind.
type FileStore struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

var _ interfaces.StateStore = (*FileStore)(nil)

// NewFileStore creates a file store rooted at baseDir, creating the
// directory if needed.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FileStore{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

func (s *FileStore) snapshotPath() string {
	return filepath.Join(s.baseDir, snapshotFileName)
}

// Load reads and decodes the snapshot. Returns ErrStateNotFound when no
// snapshot file exists yet.
func (s *FileStore) Load(ctx context.Context) (*interfaces.RegistryState, error) {
	data, err := os.ReadFile(s.snapshotPath())
	if os.IsNotExist(err) {
		return nil, interfaces.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	state := interfaces.NewRegistryState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s.log.Debug("Loaded registry snapshot",
		slog.String("path", s.snapshotPath()),
		slog.Int("size", len(data)))
	return state, nil
}

// Save encodes the snapshot and atomically replaces the previous one.
func (s *FileStore) Save(ctx context.Context, state *interfaces.RegistryState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.baseDir, snapshotFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, s.snapshotPath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	s.log.Debug("Saved registry snapshot",
		slog.String("path", s.snapshotPath()),
		slog.Int("size", len(data)))
	return nil
}

// Available checks if the base directory is accessible.
func (s *FileStore) Available(ctx context.Context) bool {
	_, err := os.Stat(s.baseDir)
	if err != nil {
		s.log.Debug("File store unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this store.
func (s *FileStore) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(s.baseDir))
}

// LocationURI returns the URI this store was created from.
func (s *FileStore) LocationURI() string {
	return s.locationURI
}
