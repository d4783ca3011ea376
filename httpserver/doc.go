/*
Package httpserver implements the HTTP server fronting the certificate
registry.

It exposes the registry operations to external callers: issuance,
verification, revocation and transfer of certificates, the issuer and
ownership management surface, the public enumeration queries, and the
replayable event log. The server is a thin transport: it parses identities
and certificate IDs, invokes the registry, and maps registry errors to HTTP
statuses. All trust decisions live in the registry state machine.

The package includes two handler groups:

 1. Certificate API - issuance, verification and queries
 2. Admin API - issuer authorization and ownership transfer, gated by the
    registry on the owner identity

# Caller identity

State-changing endpoints read the caller identity from the X-Registry-Caller
header (40-character hex). The server trusts the header; authentication is
the responsibility of whatever fronts the deployment.

# Health and diagnostics

The server carries livez/readyz endpoints, drain/undrain for load-balancer
coordination, an optional pprof mount, and a Prometheus metrics server on a
separate listen address.
*/
package httpserver
