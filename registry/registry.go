package registry

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/attestia/certificate-registry-backend/interfaces"
	"github.com/attestia/certificate-registry-backend/metrics"
)

// EventQueueSize is the buffer of each subscriber channel. A subscriber that
// falls further behind than this loses events rather than blocking registry
// operations.
const EventQueueSize = 20

// SubscriberID identifies one live event subscription.
type SubscriberID int

// Config carries the dependencies for a Registry. Store and Metrics are
// optional; Now defaults to time.Now and exists so tests can pin timestamps.
type Config struct {
	// Deployer becomes the initial owner and auto-authorized issuer of a
	// fresh registry. Ignored when Store holds an existing snapshot.
	Deployer interfaces.Identity

	Store   interfaces.StateStore
	Log     *slog.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Registry is the certificate registry state machine. One mutex guards all
// state so every operation is atomic: precondition checks run before any
// write and a failing operation leaves state unmodified.
type Registry struct {
	mu    sync.Mutex
	log   *slog.Logger
	store interfaces.StateStore
	m     *metrics.Metrics
	now   func() time.Time

	state *interfaces.RegistryState

	events      []interfaces.Event
	subscribers map[SubscriberID]chan interfaces.Event
	lastSubID   SubscriberID
}

var _ interfaces.CertificateRegistry = (*Registry)(nil)

// New creates a Registry. With a store, the last snapshot is loaded and the
// deployer is ignored; without one (or with an empty store) a fresh registry
// is created with cfg.Deployer as owner and sole authorized issuer.
func New(ctx context.Context, cfg *Config) (*Registry, error) {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	r := &Registry{
		log:         log,
		store:       cfg.Store,
		m:           cfg.Metrics,
		now:         now,
		subscribers: make(map[SubscriberID]chan interfaces.Event),
	}

	if cfg.Store != nil {
		state, err := cfg.Store.Load(ctx)
		if err == nil {
			normalizeState(state)
			r.state = state
			log.Info("registry state loaded",
				"store", cfg.Store.Name(),
				"totalCertificates", state.TotalCertificates,
				"owner", state.Owner.String())
			return r, nil
		}
		if err != interfaces.ErrStateNotFound {
			return nil, fmt.Errorf("loading registry state: %w", err)
		}
	}

	if cfg.Deployer.IsZero() {
		return nil, fmt.Errorf("%w: deployer identity is required for a fresh registry", interfaces.ErrInvalidInput)
	}

	state := interfaces.NewRegistryState()
	state.Owner = cfg.Deployer
	state.AuthorizedIssuers[cfg.Deployer] = true
	state.IssuerHistory = []interfaces.Identity{cfg.Deployer}
	r.state = state

	if cfg.Store != nil {
		if err := cfg.Store.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("persisting initial registry state: %w", err)
		}
	}

	log.Info("registry created", "owner", cfg.Deployer.String())
	return r, nil
}

func normalizeState(s *interfaces.RegistryState) {
	if s.Certificates == nil {
		s.Certificates = make(map[interfaces.CertificateID]interfaces.Certificate)
	}
	if s.AuthorizedIssuers == nil {
		s.AuthorizedIssuers = make(map[interfaces.Identity]bool)
	}
	if s.IssuedBy == nil {
		s.IssuedBy = make(map[interfaces.Identity][]interfaces.CertificateID)
	}
}

// DeriveCertificateID computes the keccak-256 certificate ID over the
// canonical packing of the descriptive fields, the issue timestamp (8-byte
// big-endian unix seconds) and the issuer identity. The derivation is
// deterministic and byte-exact across reimplementations.
func DeriveCertificateID(recipientName, courseName, issuingInstitution string, issueDate int64, issuer interfaces.Identity) interfaces.CertificateID {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(issueDate))

	sum := crypto.Keccak256(
		[]byte(recipientName),
		[]byte(courseName),
		[]byte(issuingInstitution),
		ts[:],
		issuer.Bytes(),
	)

	var id interfaces.CertificateID
	copy(id[:], sum)
	return id
}

// fail counts a rejected operation and passes the error through unchanged.
func (r *Registry) fail(reason string, err error) error {
	if r.m != nil {
		r.m.OperationErrors.WithLabelValues(reason).Inc()
	}
	return err
}

// persistLocked writes the current snapshot through to the store. On failure
// the state is restored from rollback so the mutation never half-applies.
// Must be called with the mutex held.
func (r *Registry) persistLocked(ctx context.Context, rollback *interfaces.RegistryState) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Save(ctx, r.state); err != nil {
		r.state = rollback
		return r.fail("storage", fmt.Errorf("persisting registry state: %w", err))
	}
	return nil
}

// emitLocked appends the event to the replayable log and fans it out to live
// subscribers without blocking. Must be called with the mutex held.
func (r *Registry) emitLocked(ev interfaces.Event) {
	r.events = append(r.events, ev)
	for id, ch := range r.subscribers {
		select {
		case ch <- ev:
		default:
			if r.m != nil {
				r.m.DroppedEvents.Inc()
			}
			r.log.Warn("dropping event for slow subscriber",
				"subscriber", int(id), "event", string(ev.Name()))
		}
	}
}

// IssueCertificate creates a certificate record and returns its derived ID.
func (r *Registry) IssueCertificate(ctx context.Context, caller interfaces.Identity, recipientName, courseName, issuingInstitution, certificateHash string) (interfaces.CertificateID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.AuthorizedIssuers[caller] {
		return interfaces.CertificateID{}, r.fail("unauthorized", interfaces.ErrUnauthorized)
	}
	if recipientName == "" || courseName == "" || issuingInstitution == "" || certificateHash == "" {
		return interfaces.CertificateID{}, r.fail("invalid_input", interfaces.ErrInvalidInput)
	}

	issueDate := r.now().Unix()
	id := DeriveCertificateID(recipientName, courseName, issuingInstitution, issueDate, caller)
	if _, exists := r.state.Certificates[id]; exists {
		return interfaces.CertificateID{}, r.fail("duplicate", interfaces.ErrDuplicateCertificate)
	}

	rollback := r.state.Clone()
	r.state.Certificates[id] = interfaces.Certificate{
		RecipientName:      recipientName,
		CourseName:         courseName,
		IssuingInstitution: issuingInstitution,
		IssueDate:          issueDate,
		CertificateHash:    certificateHash,
		IsValid:            true,
		Issuer:             caller,
	}
	r.state.IssuedBy[caller] = append(r.state.IssuedBy[caller], id)
	r.state.TotalCertificates++

	if err := r.persistLocked(ctx, rollback); err != nil {
		return interfaces.CertificateID{}, err
	}

	r.emitLocked(interfaces.CertificateIssuedEvent{
		CertificateID:      id,
		RecipientName:      recipientName,
		CourseName:         courseName,
		IssuingInstitution: issuingInstitution,
		IssueDate:          issueDate,
	})
	if r.m != nil {
		r.m.CertificatesIssued.Inc()
	}
	r.log.Info("certificate issued",
		"certificateID", id.String(),
		"issuer", caller.String(),
		"institution", issuingInstitution)
	return id, nil
}

// VerifyCertificate is the public verification read. An unknown ID yields
// the zero result rather than an error; callers distinguish "revoked" from
// "never issued" via IssueDate > 0 or CertificateExists.
func (r *Registry) VerifyCertificate(ctx context.Context, id interfaces.CertificateID) (interfaces.VerificationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cert, ok := r.state.Certificates[id]
	if !ok {
		return interfaces.VerificationResult{}, nil
	}
	return interfaces.VerificationResult{
		IsValid:            cert.IsValid,
		RecipientName:      cert.RecipientName,
		CourseName:         cert.CourseName,
		IssuingInstitution: cert.IssuingInstitution,
		IssueDate:          cert.IssueDate,
	}, nil
}

// CertificateExists reports whether a record occupies the ID.
func (r *Registry) CertificateExists(ctx context.Context, id interfaces.CertificateID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.state.Certificates[id]
	return ok, nil
}

// GetCertificateDetails returns the full record or ErrNotFound.
func (r *Registry) GetCertificateDetails(ctx context.Context, id interfaces.CertificateID) (interfaces.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cert, ok := r.state.Certificates[id]
	if !ok {
		return interfaces.Certificate{}, r.fail("not_found", interfaces.ErrNotFound)
	}
	return cert, nil
}

// GetCertificateHash returns the caller-supplied content fingerprint or
// ErrNotFound.
func (r *Registry) GetCertificateHash(ctx context.Context, id interfaces.CertificateID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cert, ok := r.state.Certificates[id]
	if !ok {
		return "", r.fail("not_found", interfaces.ErrNotFound)
	}
	return cert.CertificateHash, nil
}

// RevokeCertificate flips a certificate to invalid. The transition is
// one-way and open to any currently authorized issuer, not just the issuing
// identity.
func (r *Registry) RevokeCertificate(ctx context.Context, caller interfaces.Identity, id interfaces.CertificateID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.AuthorizedIssuers[caller] {
		return r.fail("unauthorized", interfaces.ErrUnauthorized)
	}
	cert, ok := r.state.Certificates[id]
	if !ok {
		return r.fail("not_found", interfaces.ErrNotFound)
	}
	if !cert.IsValid {
		return r.fail("already_revoked", interfaces.ErrAlreadyRevoked)
	}

	rollback := r.state.Clone()
	cert.IsValid = false
	r.state.Certificates[id] = cert

	if err := r.persistLocked(ctx, rollback); err != nil {
		return err
	}

	r.emitLocked(interfaces.CertificateRevokedEvent{CertificateID: id})
	if r.m != nil {
		r.m.CertificatesRevoked.Inc()
	}
	r.log.Info("certificate revoked",
		"certificateID", id.String(), "caller", caller.String())
	return nil
}

// TransferCertificate renames the recipient of a valid certificate in place.
// No event is emitted for this mutation; observers must re-verify.
func (r *Registry) TransferCertificate(ctx context.Context, caller interfaces.Identity, id interfaces.CertificateID, newRecipientName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.AuthorizedIssuers[caller] {
		return r.fail("unauthorized", interfaces.ErrUnauthorized)
	}
	if newRecipientName == "" {
		return r.fail("invalid_input", interfaces.ErrInvalidInput)
	}
	cert, ok := r.state.Certificates[id]
	if !ok {
		return r.fail("not_found", interfaces.ErrNotFound)
	}
	if !cert.IsValid {
		return r.fail("revoked", interfaces.ErrCertificateRevoked)
	}

	rollback := r.state.Clone()
	cert.RecipientName = newRecipientName
	r.state.Certificates[id] = cert

	if err := r.persistLocked(ctx, rollback); err != nil {
		return err
	}

	if r.m != nil {
		r.m.CertificatesTransferred.Inc()
	}
	r.log.Info("certificate transferred",
		"certificateID", id.String(), "caller", caller.String())
	return nil
}

// AuthorizeIssuer grants issuer status to an identity. Owner-only.
func (r *Registry) AuthorizeIssuer(ctx context.Context, caller, issuer interfaces.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.state.Owner {
		return r.fail("unauthorized", interfaces.ErrUnauthorized)
	}
	if issuer.IsZero() {
		return r.fail("invalid_input", interfaces.ErrInvalidInput)
	}
	if r.state.AuthorizedIssuers[issuer] {
		return r.fail("already_authorized", interfaces.ErrAlreadyAuthorized)
	}

	rollback := r.state.Clone()
	r.state.AuthorizedIssuers[issuer] = true
	if !r.inHistoryLocked(issuer) {
		r.state.IssuerHistory = append(r.state.IssuerHistory, issuer)
	}

	if err := r.persistLocked(ctx, rollback); err != nil {
		return err
	}

	r.emitLocked(interfaces.IssuerAuthorizedEvent{Issuer: issuer})
	r.log.Info("issuer authorized", "issuer", issuer.String())
	return nil
}

// RevokeIssuer deactivates an issuer. Historical certificates and counters
// stay intact. Owner-only; the current owner cannot be revoked.
func (r *Registry) RevokeIssuer(ctx context.Context, caller, issuer interfaces.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.state.Owner {
		return r.fail("unauthorized", interfaces.ErrUnauthorized)
	}
	if issuer == r.state.Owner {
		return r.fail("cannot_revoke_owner", interfaces.ErrCannotRevokeOwner)
	}
	if !r.state.AuthorizedIssuers[issuer] {
		return r.fail("not_issuer", interfaces.ErrNotAuthorizedIssuer)
	}

	rollback := r.state.Clone()
	r.state.AuthorizedIssuers[issuer] = false

	if err := r.persistLocked(ctx, rollback); err != nil {
		return err
	}

	r.emitLocked(interfaces.IssuerRevokedEvent{Issuer: issuer})
	r.log.Info("issuer revoked", "issuer", issuer.String())
	return nil
}

// ChangeOwner reassigns ownership without touching issuer authorization on
// either side: the old owner keeps issuer status unless separately revoked,
// the new owner is not granted any.
func (r *Registry) ChangeOwner(ctx context.Context, caller, newOwner interfaces.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.state.Owner {
		return r.fail("unauthorized", interfaces.ErrUnauthorized)
	}
	if newOwner.IsZero() {
		return r.fail("invalid_input", interfaces.ErrInvalidInput)
	}

	rollback := r.state.Clone()
	oldOwner := r.state.Owner
	r.state.Owner = newOwner

	if err := r.persistLocked(ctx, rollback); err != nil {
		return err
	}

	r.emitLocked(interfaces.OwnershipTransferredEvent{OldOwner: oldOwner, NewOwner: newOwner})
	r.log.Info("ownership transferred",
		"oldOwner", oldOwner.String(), "newOwner", newOwner.String())
	return nil
}

func (r *Registry) inHistoryLocked(issuer interfaces.Identity) bool {
	for _, known := range r.state.IssuerHistory {
		if known == issuer {
			return true
		}
	}
	return false
}

// GetCertificateCountByIssuer returns how many certificates an identity has
// ever issued, including revoked ones.
func (r *Registry) GetCertificateCountByIssuer(ctx context.Context, issuer interfaces.Identity) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return uint64(len(r.state.IssuedBy[issuer])), nil
}

// GetAllCertificatesIssuedBy returns the IDs an identity has issued, in
// issuance order.
func (r *Registry) GetAllCertificatesIssuedBy(ctx context.Context, issuer interfaces.Identity) ([]interfaces.CertificateID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]interfaces.CertificateID(nil), r.state.IssuedBy[issuer]...), nil
}

// GetValidCertificateCountByIssuer counts the issuer's certificates that are
// still valid.
func (r *Registry) GetValidCertificateCountByIssuer(ctx context.Context, issuer interfaces.Identity) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count uint64
	for _, id := range r.state.IssuedBy[issuer] {
		if r.state.Certificates[id].IsValid {
			count++
		}
	}
	return count, nil
}

// GetCertificatesByCourse filters one issuer's certificates by exact course
// name match.
func (r *Registry) GetCertificatesByCourse(ctx context.Context, issuer interfaces.Identity, courseName string) ([]interfaces.CertificateID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []interfaces.CertificateID
	for _, id := range r.state.IssuedBy[issuer] {
		if r.state.Certificates[id].CourseName == courseName {
			out = append(out, id)
		}
	}
	return out, nil
}

// GetCertificatesByInstitution scans every known issuer's index for exact
// institution matches. Byte-for-byte equality, no normalization.
func (r *Registry) GetCertificatesByInstitution(ctx context.Context, institution string) ([]interfaces.CertificateID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.scanLocked(func(cert interfaces.Certificate) bool {
		return cert.IssuingInstitution == institution
	}), nil
}

// GetCertificatesByRecipient scans every known issuer's index for exact
// recipient matches.
func (r *Registry) GetCertificatesByRecipient(ctx context.Context, recipientName string) ([]interfaces.CertificateID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.scanLocked(func(cert interfaces.Certificate) bool {
		return cert.RecipientName == recipientName
	}), nil
}

// scanLocked walks all issuer indices in historical order. Linear by design;
// the issuer-indexed structure keeps lookups bounded by an issuer's volume.
func (r *Registry) scanLocked(match func(interfaces.Certificate) bool) []interfaces.CertificateID {
	var out []interfaces.CertificateID
	for _, issuer := range r.state.IssuerHistory {
		for _, id := range r.state.IssuedBy[issuer] {
			if match(r.state.Certificates[id]) {
				out = append(out, id)
			}
		}
	}
	return out
}

// GetAllAuthorizedIssuers filters the historical issuer list by the current
// authorized flag.
func (r *Registry) GetAllAuthorizedIssuers(ctx context.Context) ([]interfaces.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []interfaces.Identity
	for _, issuer := range r.state.IssuerHistory {
		if r.state.AuthorizedIssuers[issuer] {
			out = append(out, issuer)
		}
	}
	return out, nil
}

// IsAuthorizedIssuer reports whether an identity may currently issue.
func (r *Registry) IsAuthorizedIssuer(ctx context.Context, identity interfaces.Identity) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state.AuthorizedIssuers[identity], nil
}

// TotalCertificates returns the count of certificates ever issued.
// Revocation and transfer never change it.
func (r *Registry) TotalCertificates(ctx context.Context) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state.TotalCertificates, nil
}

// Owner returns the current registry owner.
func (r *Registry) Owner(ctx context.Context) (interfaces.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state.Owner, nil
}
