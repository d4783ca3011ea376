package storage

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/attestia/certificate-registry-backend/interfaces"
)

// StateStoreFactory creates state stores from URI strings and manages
// multi-store configurations for redundant persistence.
type StateStoreFactory struct {
	log *slog.Logger
}

var _ interfaces.StateStoreFactory = (*StateStoreFactory)(nil)

// NewStateStoreFactory creates a new factory instance.
func NewStateStoreFactory(logger *slog.Logger) *StateStoreFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateStoreFactory{log: logger}
}

// StateStoreFor creates a state store from a location URI.
// The URI format is [scheme]://[auth@]host[:port][/path][?params]
//
// Supported schemes:
//   - mem:// - In-process storage
//   - file:// - Local filesystem storage
//   - s3:// - Amazon S3 or compatible object storage
//   - vault:// - HashiCorp Vault KV v2
//
// Returns an error if the URI is invalid or the scheme is unsupported.
func (sf *StateStoreFactory) StateStoreFor(location interfaces.StoreLocation) (interfaces.StateStore, error) {
	u, err := url.Parse(string(location))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mem":
		return NewMemoryStore(), nil
	case "file":
		return sf.createFileStore(u)
	case "s3":
		return sf.createS3Store(u)
	case "vault":
		return sf.createVaultStore(u)
	default:
		return nil, fmt.Errorf("unsupported store scheme: %s", u.Scheme)
	}
}

// CreateMultiStore creates a multi-store from a list of location URIs.
// The multi-store aggregates all valid stores: snapshots are saved to every
// available store and loaded from the first one holding state.
// Returns an error if no valid stores could be created.
func (sf *StateStoreFactory) CreateMultiStore(locations []interfaces.StoreLocation) (interfaces.StateStore, error) {
	stores := make([]interfaces.StateStore, 0, len(locations))

	for _, location := range locations {
		store, err := sf.StateStoreFor(location)
		if err != nil {
			sf.log.Warn("Failed to create state store",
				"err", err,
				slog.String("locationURI", string(location)))
			continue
		}
		stores = append(stores, store)
	}

	if len(stores) == 0 {
		return nil, fmt.Errorf("no valid state stores created")
	}

	return NewMultiStore(stores, sf.log), nil
}

// createFileStore creates a filesystem store.
// URI format: file:///absolute/path/ or file://./relative/path/
func (sf *StateStoreFactory) createFileStore(u *url.URL) (interfaces.StateStore, error) {
	sf.log.Debug("Creating file store", slog.String("uri", u.String()))

	path := u.Path
	if u.Host != "" {
		path = u.Host + "/" + strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return nil, fmt.Errorf("empty path in file URI: %s", u.String())
	}

	return NewFileStore(path, sf.log)
}

// createS3Store creates an S3 or S3-compatible store.
// URI format: s3://[ACCESS_KEY:SECRET_KEY@]bucket-name/path/?region=us-west-2&endpoint=custom.s3.com
func (sf *StateStoreFactory) createS3Store(u *url.URL) (interfaces.StateStore, error) {
	sf.log.Debug("Creating S3 store", slog.String("uri", u.String()))

	bucketName := u.Host
	if bucketName == "" {
		return nil, fmt.Errorf("missing bucket name in S3 URI: %s", u.String())
	}
	prefix := strings.TrimPrefix(u.Path, "/")

	query := u.Query()
	region := query.Get("region")
	if region == "" {
		region = "us-east-1"
	}
	endpoint := query.Get("endpoint")

	var accessKey, secretKey string
	if u.User != nil {
		accessKey = u.User.Username()
		secretKey, _ = u.User.Password()
		sf.log.Debug("Using embedded credentials for S3 write access")
	} else {
		sf.log.Debug("No credentials provided, relying on ambient AWS configuration")
	}

	return NewS3Store(bucketName, prefix, region, endpoint, accessKey, secretKey, sf.log)
}

// createVaultStore creates a HashiCorp Vault KV v2 store.
// URI format: vault://host:port/mount/path?tls=false
// The Vault token comes from the VAULT_TOKEN environment variable.
func (sf *StateStoreFactory) createVaultStore(u *url.URL) (interfaces.StateStore, error) {
	sf.log.Debug("Creating Vault store", slog.String("uri", u.String()))

	if u.Host == "" {
		return nil, fmt.Errorf("missing Vault address in URI: %s", u.String())
	}

	scheme := "https"
	if u.Query().Get("tls") == "false" {
		scheme = "http"
	}
	address := fmt.Sprintf("%s://%s", scheme, u.Host)

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid Vault URI path, expected vault://host:port/mount/path")
	}

	return NewVaultStore(address, parts[0], parts[1], sf.log)
}
