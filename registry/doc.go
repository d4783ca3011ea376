// Package registry implements the certificate registry state machine: the
// rules governing certificate identity, issuer authorization, and the
// mutations permitted on certificate records over their lifetime.
//
// # State machine
//
// All state is owned by a single Registry guarded by one mutex, so every
// operation executes as an indivisible unit: precondition checks run before
// any write, and a failed operation leaves state untouched. There are no
// internal suspension points and no background work; every operation
// completes or fails deterministically given its inputs and the current
// state.
//
// # Identity derivation
//
// Certificate IDs are the keccak-256 hash of the canonical packing of
// (recipientName, courseName, issuingInstitution, issueDate, issuer).
// Replaying the exact same issuance call at the same timestamp by the same
// issuer derives the same ID and is rejected as a duplicate; varying any
// input yields a fresh ID.
//
// # Roles
//
// The deployer is the initial owner and is auto-authorized as an issuer.
// Issuer authorization gates issuance, revocation and transfer; ownership
// gates issuer management and ownership transfer. The two roles are
// deliberately distinct: changing the owner neither grants issuer status to
// the new owner nor strips it from the old one. Revocation is likewise not
// scoped to the issuing identity - any currently authorized issuer may
// revoke any certificate.
//
// # Persistence and events
//
// When constructed with a StateStore the registry is write-through: the full
// snapshot is saved after every successful mutation, and a failed save rolls
// the mutation back. Every mutation except transfer emits a typed event to
// the append-only log, which observers can replay via Events or follow live
// via Subscribe.
package registry
