package interfaces

import "context"

// StoreLocation is a URI describing where registry state is persisted, e.g.
// file:///var/lib/registry, s3://bucket/prefix?region=us-east-1 or
// vault://vault.example.com:8200/secret/registry.
type StoreLocation string

// StateStore persists registry state snapshots. The registry is
// write-through: state lives in memory and the full snapshot is saved after
// every successful mutation, so stores only need whole-state load and save
// with read-after-write consistency.
type StateStore interface {
	// Load retrieves the last saved snapshot, or ErrStateNotFound if no
	// snapshot has been written yet.
	Load(ctx context.Context) (*RegistryState, error)

	// Save durably replaces the snapshot.
	Save(ctx context.Context, state *RegistryState) error

	// Available checks if the store is currently accessible.
	Available(ctx context.Context) bool

	// Name returns a unique identifier for this store instance.
	Name() string

	// LocationURI returns the URI the store was created from.
	LocationURI() string
}

// StateStoreFactory creates state stores from location URIs.
type StateStoreFactory interface {
	// StateStoreFor creates a single store from a location URI.
	StateStoreFor(location StoreLocation) (StateStore, error)

	// CreateMultiStore aggregates several stores for redundancy: saves go to
	// every store, loads come from the first store holding a snapshot.
	CreateMultiStore(locations []StoreLocation) (StateStore, error)
}
