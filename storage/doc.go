// Package storage implements durable persistence for registry state
// snapshots across multiple backend types.
//
// The registry keeps its state in memory and writes the full snapshot
// through after every successful mutation, so a backend only needs
// whole-state Load and Save with read-after-write consistency.
//
// # Supported backends
//
//   - mem:// - In-process store for tests and ephemeral registries
//   - file:// - Local filesystem, atomic write-then-rename snapshots
//   - s3:// - Amazon S3 or compatible object storage
//   - vault:// - HashiCorp Vault KV v2 secrets engine
//
// Backends are created from location URIs by StateStoreFactory, which can
// also aggregate several locations into a MultiStore: saves fan out to every
// store, loads come from the first store holding a snapshot.
package storage
