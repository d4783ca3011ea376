package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/attestia/certificate-registry-backend/interfaces"
)

// MultiStore implements interfaces.StateStore over multiple stores with
// fallback: saves fan out to every available store, loads come from the
// first store holding a snapshot.
type MultiStore struct {
	stores []interfaces.StateStore
	log    *slog.Logger
}

var _ interfaces.StateStore = (*MultiStore)(nil)

// NewMultiStore creates a multi-store over the given stores.
func NewMultiStore(stores []interfaces.StateStore, logger *slog.Logger) *MultiStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &MultiStore{
		stores: stores,
		log:    logger,
	}
}

// Load returns the snapshot from the first store that has one. Only if every
// store reports ErrStateNotFound does the multi-store report it too.
func (m *MultiStore) Load(ctx context.Context) (*interfaces.RegistryState, error) {
	start := time.Now()
	var errs []error
	allEmpty := true

	for _, store := range m.stores {
		if !store.Available(ctx) {
			m.log.Debug("State store unavailable", slog.String("store_name", store.Name()))
			continue
		}

		state, err := store.Load(ctx)
		if err == nil {
			m.log.Info("Loaded registry snapshot",
				slog.String("store_name", store.Name()),
				slog.Duration("duration", time.Since(start)))
			return state, nil
		}
		if err != interfaces.ErrStateNotFound {
			allEmpty = false
			errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
			m.log.Debug("Failed to load from store",
				slog.String("store_name", store.Name()),
				"err", err)
		}
	}

	if allEmpty && len(errs) == 0 {
		return nil, interfaces.ErrStateNotFound
	}

	m.log.Error("All state stores failed to load snapshot",
		slog.Int("failed_stores", len(errs)),
		slog.Duration("duration", time.Since(start)))
	return nil, fmt.Errorf("all state stores failed to load: %v", errs)
}

// Save writes the snapshot to every available store. At least one store must
// succeed; failures of the rest are logged but tolerated.
func (m *MultiStore) Save(ctx context.Context, state *interfaces.RegistryState) error {
	start := time.Now()
	var success bool
	var errs []error

	for _, store := range m.stores {
		if !store.Available(ctx) {
			m.log.Debug("State store unavailable", slog.String("store_name", store.Name()))
			continue
		}

		if err := store.Save(ctx, state); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
			m.log.Warn("Failed to save to store",
				slog.String("store_name", store.Name()),
				"err", err)
			continue
		}
		success = true
	}

	if !success {
		m.log.Error("All state stores failed to save snapshot",
			slog.Int("failed_stores", len(errs)),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("all state stores failed to save: %v", errs)
	}

	return nil
}

// Available checks if any store is available.
func (m *MultiStore) Available(ctx context.Context) bool {
	for _, store := range m.stores {
		if store.Available(ctx) {
			return true
		}
	}
	return false
}

// Name returns the name of this store.
func (m *MultiStore) Name() string {
	return "multi-store"
}

// LocationURI returns a combined location URI from all stores.
func (m *MultiStore) LocationURI() string {
	var locations []string
	for _, store := range m.stores {
		locations = append(locations, store.LocationURI())
	}

	return "multi:[" + strings.Join(locations, ",") + "]"
}
