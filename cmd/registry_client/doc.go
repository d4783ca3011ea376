// Package main (cmd/registry_client) implements a command-line client for the
// certificate registry API.
//
// The client wraps the full registry surface: issuing, verifying, revoking
// and transferring certificates, the owner-gated issuer and ownership
// management commands, the enumeration queries, and event log replay.
//
// Mutating commands require the --caller flag, a 40-char hex identity that is
// forwarded to the server in the X-Registry-Caller header. The server's
// registry decides whether that identity may perform the operation; the
// client performs no authorization of its own.
//
// Example usage:
//
//	registry-client --caller 1111111111111111111111111111111111111111 \
//	    issue "Alice Zhang" "Distributed Systems" "Example University" "sha256:..."
//
//	registry-client verify 6b0c...e1f2
package main
