package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/attestia/certificate-registry-backend/api"
	"github.com/attestia/certificate-registry-backend/api/clients"
	"github.com/attestia/certificate-registry-backend/cmd/flags"
	"github.com/attestia/certificate-registry-backend/interfaces"
)

type clientConfig struct {
	client *clients.RegistryClient
	caller interfaces.Identity
}

// newClientConfig builds the client from CLI flags. The caller identity is
// only needed for mutating commands; callerRequired gates the check.
func newClientConfig(cCtx *cli.Context, callerRequired bool) (*clientConfig, error) {
	c := &clientConfig{
		client: clients.NewRegistryClient(cCtx.String(flags.ServerAddrFlag.Name)),
	}

	callerHex := cCtx.String(flags.CallerFlag.Name)
	if callerHex == "" {
		if callerRequired {
			return nil, fmt.Errorf("--%s is required for this command", flags.CallerFlag.Name)
		}
		return c, nil
	}

	caller, err := interfaces.NewIdentityFromHex(callerHex)
	if err != nil {
		return nil, fmt.Errorf("invalid caller identity: %w", err)
	}
	c.caller = caller
	return c, nil
}

func parseCertIDArg(cCtx *cli.Context) (interfaces.CertificateID, error) {
	if cCtx.Args().Len() < 1 {
		return interfaces.CertificateID{}, fmt.Errorf("certificate ID argument is required")
	}
	return interfaces.NewCertificateIDFromHex(cCtx.Args().First())
}

func parseIdentityArg(cCtx *cli.Context) (interfaces.Identity, error) {
	if cCtx.Args().Len() < 1 {
		return interfaces.Identity{}, fmt.Errorf("identity argument is required")
	}
	return interfaces.NewIdentityFromHex(cCtx.Args().First())
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	app := &cli.App{
		Name:  "registry-client",
		Usage: "Command-line client for the certificate registry API",
		Flags: []cli.Flag{
			flags.ServerAddrFlag,
			flags.CallerFlag,
		},
		Commands: []*cli.Command{
			{
				Name:      "issue",
				Usage:     "Issue a certificate as the caller",
				ArgsUsage: "RECIPIENT COURSE INSTITUTION HASH",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, true)
					if err != nil {
						return err
					}
					if cCtx.Args().Len() != 4 {
						return fmt.Errorf("expected 4 arguments: recipient, course, institution, hash")
					}
					args := cCtx.Args()
					id, err := c.client.IssueCertificate(context.Background(), c.caller,
						args.Get(0), args.Get(1), args.Get(2), args.Get(3))
					if err != nil {
						return err
					}
					return printJSON(api.IssueCertificateResponse{CertificateID: id.String()})
				},
			},
			{
				Name:      "verify",
				Usage:     "Fetch the public verification view of a certificate",
				ArgsUsage: "CERTIFICATE_ID",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, false)
					if err != nil {
						return err
					}
					id, err := parseCertIDArg(cCtx)
					if err != nil {
						return err
					}
					result, err := c.client.VerifyCertificate(context.Background(), id)
					if err != nil {
						return err
					}
					return printJSON(result)
				},
			},
			{
				Name:      "details",
				Usage:     "Fetch the full certificate record",
				ArgsUsage: "CERTIFICATE_ID",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, false)
					if err != nil {
						return err
					}
					id, err := parseCertIDArg(cCtx)
					if err != nil {
						return err
					}
					cert, err := c.client.GetCertificateDetails(context.Background(), id)
					if err != nil {
						return err
					}
					return printJSON(api.NewCertificateResponse(id, cert))
				},
			},
			{
				Name:      "exists",
				Usage:     "Check whether a certificate ID was ever issued",
				ArgsUsage: "CERTIFICATE_ID",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, false)
					if err != nil {
						return err
					}
					id, err := parseCertIDArg(cCtx)
					if err != nil {
						return err
					}
					exists, err := c.client.CertificateExists(context.Background(), id)
					if err != nil {
						return err
					}
					return printJSON(api.ExistsResponse{Exists: exists})
				},
			},
			{
				Name:      "hash",
				Usage:     "Fetch the content fingerprint of a certificate",
				ArgsUsage: "CERTIFICATE_ID",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, false)
					if err != nil {
						return err
					}
					id, err := parseCertIDArg(cCtx)
					if err != nil {
						return err
					}
					hash, err := c.client.GetCertificateHash(context.Background(), id)
					if err != nil {
						return err
					}
					return printJSON(api.HashResponse{CertificateHash: hash})
				},
			},
			{
				Name:      "revoke",
				Usage:     "Revoke a certificate as the caller",
				ArgsUsage: "CERTIFICATE_ID",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, true)
					if err != nil {
						return err
					}
					id, err := parseCertIDArg(cCtx)
					if err != nil {
						return err
					}
					return c.client.RevokeCertificate(context.Background(), c.caller, id)
				},
			},
			{
				Name:      "transfer",
				Usage:     "Update the recipient name of a valid certificate",
				ArgsUsage: "CERTIFICATE_ID NEW_RECIPIENT",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, true)
					if err != nil {
						return err
					}
					if cCtx.Args().Len() != 2 {
						return fmt.Errorf("expected 2 arguments: certificate ID, new recipient name")
					}
					id, err := interfaces.NewCertificateIDFromHex(cCtx.Args().Get(0))
					if err != nil {
						return err
					}
					return c.client.TransferCertificate(context.Background(), c.caller, id, cCtx.Args().Get(1))
				},
			},
			{
				Name:      "authorize-issuer",
				Usage:     "Grant issuance rights to an identity (owner only)",
				ArgsUsage: "ISSUER",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, true)
					if err != nil {
						return err
					}
					issuer, err := parseIdentityArg(cCtx)
					if err != nil {
						return err
					}
					return c.client.AuthorizeIssuer(context.Background(), c.caller, issuer)
				},
			},
			{
				Name:      "revoke-issuer",
				Usage:     "Withdraw issuance rights from an identity (owner only)",
				ArgsUsage: "ISSUER",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, true)
					if err != nil {
						return err
					}
					issuer, err := parseIdentityArg(cCtx)
					if err != nil {
						return err
					}
					return c.client.RevokeIssuer(context.Background(), c.caller, issuer)
				},
			},
			{
				Name:      "change-owner",
				Usage:     "Transfer registry ownership (owner only)",
				ArgsUsage: "NEW_OWNER",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, true)
					if err != nil {
						return err
					}
					newOwner, err := parseIdentityArg(cCtx)
					if err != nil {
						return err
					}
					return c.client.ChangeOwner(context.Background(), c.caller, newOwner)
				},
			},
			{
				Name:  "owner",
				Usage: "Show the current registry owner",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, false)
					if err != nil {
						return err
					}
					owner, err := c.client.Owner(context.Background())
					if err != nil {
						return err
					}
					return printJSON(api.OwnerResponse{Owner: owner.String()})
				},
			},
			{
				Name:  "issuers",
				Usage: "List currently authorized issuers",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, false)
					if err != nil {
						return err
					}
					issuers, err := c.client.GetAllAuthorizedIssuers(context.Background())
					if err != nil {
						return err
					}
					return printJSON(api.IssuerListResponse{Issuers: api.NewIssuerList(issuers)})
				},
			},
			{
				Name:      "issued-by",
				Usage:     "List certificate IDs issued by an identity",
				ArgsUsage: "ISSUER",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, false)
					if err != nil {
						return err
					}
					issuer, err := parseIdentityArg(cCtx)
					if err != nil {
						return err
					}
					ids, err := c.client.GetAllCertificatesIssuedBy(context.Background(), issuer)
					if err != nil {
						return err
					}
					return printJSON(api.CertificateListResponse{CertificateIDs: api.NewCertificateIDList(ids)})
				},
			},
			{
				Name:  "total",
				Usage: "Show the count of certificates ever issued",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, false)
					if err != nil {
						return err
					}
					count, err := c.client.TotalCertificates(context.Background())
					if err != nil {
						return err
					}
					return printJSON(api.CountResponse{Count: count})
				},
			},
			{
				Name:  "events",
				Usage: "Replay the registry event log",
				Action: func(cCtx *cli.Context) error {
					c, err := newClientConfig(cCtx, false)
					if err != nil {
						return err
					}
					records, err := c.client.Events(context.Background())
					if err != nil {
						return err
					}
					return printJSON(records)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
