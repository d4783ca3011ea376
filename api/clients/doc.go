/*
Package clients provides the HTTP client for the certificate registry API.

RegistryClient implements interfaces.CertificateRegistry over the wire, so
tooling built against the interface works identically against an in-process
registry and a remote server. The caller identity supplied to each mutating
method is forwarded in the X-Registry-Caller header; authenticating that
header is the fronting environment's responsibility.

Server-side registry errors are translated back into the sentinel errors of
the interfaces package where the HTTP status is unambiguous, so errors.Is
checks work across the wire.

# Example Usage

	client := clients.NewRegistryClient("http://localhost:8080")

	caller, _ := interfaces.NewIdentityFromHex("1111111111111111111111111111111111111111")
	id, err := client.IssueCertificate(ctx, caller,
	    "Alice Zhang", "Distributed Systems", "Example University", "sha256:...")

	result, err := client.VerifyCertificate(ctx, id)
*/
package clients
