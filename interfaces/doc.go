// Package interfaces defines the core interfaces and types for the
// certificate registry system, separating interface definitions from
// implementations.
//
// # Registry Interface
//
// CertificateRegistry: the full set of registry operations. Issuance,
// revocation and transfer are gated on the caller being an authorized
// issuer; issuer management and ownership transfer are gated on the caller
// being the registry owner. Verification and all enumeration helpers are
// public reads.
//
// # Storage Interfaces
//
// StateStore: durable snapshot storage for the registry state across
// multiple backend types (memory, file, S3, Vault).
//
// StateStoreFactory: creates state stores from URI strings and manages
// multi-store configurations for redundant storage.
//
// # Core Types
//
//   - Identity: 20-byte address-style identity for issuers and owners
//   - CertificateID: 32-byte keccak-256 hash uniquely identifying a certificate
//   - Certificate: one issued certificate record
//   - RegistryState: the serializable snapshot of all registry state
//   - Event: structured record emitted by every state-mutating operation
package interfaces
