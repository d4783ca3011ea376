// Package api defines the HTTP API surface shared by the server and its
// clients: request and response types, the caller identity header, and the
// server configuration.
//
// The API is a thin transport over the registry operations. Callers are
// identified by the X-Registry-Caller header carrying a 40-character hex
// identity; authenticating that header is the fronting environment's job,
// the registry only checks roles.
package api
