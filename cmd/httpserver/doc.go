// Package main (cmd/httpserver) implements the certificate registry server.
//
// The server exposes the full registry API over HTTP: certificate issuance,
// verification, revocation and transfer, the issuer and ownership management
// surface, the public enumeration queries, and the replayable event log.
//
// State persistence is configured with one or more --storage location URIs.
// Snapshots are written to every configured store and loaded from the first
// store holding state, so a file store can be paired with S3 or Vault for
// redundancy. With the default mem:// location the registry state lives only
// in process memory.
//
// A fresh registry (no snapshot found in any store) requires the --deployer
// identity, which becomes the owner and the first authorized issuer. When a
// snapshot exists the deployer flag is ignored.
//
// The server implements graceful shutdown on termination signals
// (SIGINT/SIGTERM) and supports health checks, drain/undrain for load
// balancers, Prometheus metrics, and optional profiling endpoints.
//
// Example usage:
//
//	registry-server --listen-addr=0.0.0.0:8080 \
//	    --deployer=1111111111111111111111111111111111111111 \
//	    --storage=file:///var/lib/registry/ \
//	    --storage=s3://registry-backups/prod?region=us-east-1
package main
