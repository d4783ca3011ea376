package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"

	"github.com/attestia/certificate-registry-backend/interfaces"
)

// VaultStore persists the snapshot in a HashiCorp Vault KV v2 secrets
// engine. Authentication uses the standard Vault environment (VAULT_TOKEN).
type VaultStore struct {
	client      *vault.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

var _ interfaces.StateStore = (*VaultStore)(nil)

// NewVaultStore creates a Vault state store.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - mountPath: KV v2 mount path (e.g. "secret")
//   - dataPath: path within the mount (e.g. "certificate-registry")
//   - log: structured logger for operational insights
func NewVaultStore(address, mountPath, dataPath string, log *slog.Logger) (*VaultStore, error) {
	config := vault.DefaultConfig()
	config.Address = address
	config.Timeout = 30 * time.Second

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	mountPath = strings.Trim(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	return &VaultStore{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", strings.TrimPrefix(strings.TrimPrefix(address, "https://"), "http://"), mountPath, dataPath),
	}, nil
}

// Load fetches and decodes the snapshot secret. Returns ErrStateNotFound if
// the secret has never been written.
func (s *VaultStore) Load(ctx context.Context) (*interfaces.RegistryState, error) {
	secret, err := s.client.KVv2(s.mountPath).Get(ctx, s.dataPath)
	if err != nil {
		if strings.Contains(err.Error(), "secret not found") {
			return nil, interfaces.ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot from Vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, interfaces.ErrStateNotFound
	}

	raw, ok := secret.Data["state"].(string)
	if !ok {
		return nil, fmt.Errorf("snapshot secret has unexpected shape")
	}

	state := interfaces.NewRegistryState()
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s.log.Debug("Loaded registry snapshot from Vault",
		slog.String("mount", s.mountPath),
		slog.String("path", s.dataPath))
	return state, nil
}

// Save encodes the snapshot and writes it as a new secret version.
func (s *VaultStore) Save(ctx context.Context, state *interfaces.RegistryState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.client.KVv2(s.mountPath).Put(ctx, s.dataPath, map[string]interface{}{
		"state": string(data),
	})
	if err != nil {
		return fmt.Errorf("failed to store snapshot in Vault: %w", err)
	}

	s.log.Debug("Saved registry snapshot to Vault",
		slog.String("mount", s.mountPath),
		slog.String("path", s.dataPath),
		slog.Int("size", len(data)))
	return nil
}

// Available checks Vault health.
func (s *VaultStore) Available(ctx context.Context) bool {
	health, err := s.client.Sys().HealthWithContext(ctx)
	if err != nil {
		s.log.Debug("Vault store unavailable", "err", err)
		return false
	}
	return health.Initialized && !health.Sealed
}

// Name returns a unique identifier for this store.
func (s *VaultStore) Name() string {
	return fmt.Sprintf("vault-%s", s.dataPath)
}

// LocationURI returns the URI this store was created from.
func (s *VaultStore) LocationURI() string {
	return s.locationURI
}
