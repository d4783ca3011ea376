package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/attestia/certificate-registry-backend/api"
	"github.com/attestia/certificate-registry-backend/interfaces"
)

// EventSource exposes the replayable event log. The in-process registry
// implements it; handler tests stub it.
type EventSource interface {
	Events() []interfaces.Event
}

// Handler translates HTTP requests into registry operations and registry
// errors back into HTTP statuses. It holds no state of its own.
type Handler struct {
	registry interfaces.CertificateRegistry
	events   EventSource
	log      *slog.Logger
}

// NewHandler creates a Handler. events may be nil when the deployment does
// not expose the event log.
func NewHandler(registry interfaces.CertificateRegistry, events EventSource, log *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		events:   events,
		log:      log,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, api.ErrorResponse{Error: msg})
}

// writeRegistryError maps the registry error taxonomy onto HTTP statuses:
// role failures to 403, bad input to 400, unknown IDs to 404 and
// state-precondition violations to 409.
func (h *Handler) writeRegistryError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, interfaces.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, interfaces.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, interfaces.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, interfaces.ErrDuplicateCertificate),
		errors.Is(err, interfaces.ErrAlreadyRevoked),
		errors.Is(err, interfaces.ErrCertificateRevoked),
		errors.Is(err, interfaces.ErrAlreadyAuthorized),
		errors.Is(err, interfaces.ErrNotAuthorizedIssuer),
		errors.Is(err, interfaces.ErrCannotRevokeOwner):
		status = http.StatusConflict
	default:
		h.log.Error("Registry operation failed", "err", err)
		status = http.StatusInternalServerError
	}
	h.writeError(w, status, err.Error())
}

func callerFromRequest(r *http.Request) (interfaces.Identity, error) {
	raw := r.Header.Get(api.CallerHeader)
	if raw == "" {
		return interfaces.Identity{}, fmt.Errorf("missing %s header", api.CallerHeader)
	}
	return interfaces.NewIdentityFromHex(raw)
}

func certificateIDParam(r *http.Request) (interfaces.CertificateID, error) {
	return interfaces.NewCertificateIDFromHex(chi.URLParam(r, "certificate_id"))
}

func issuerParam(r *http.Request) (interfaces.Identity, error) {
	return interfaces.NewIdentityFromHex(chi.URLParam(r, "issuer"))
}

func textParam(r *http.Request, name string) (string, error) {
	return url.PathUnescape(chi.URLParam(r, name))
}

// HandleIssueCertificate creates a new certificate for the calling issuer.
func (h *Handler) HandleIssueCertificate(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req api.IssueCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.registry.IssueCertificate(r.Context(), caller,
		req.RecipientName, req.CourseName, req.IssuingInstitution, req.CertificateHash)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, api.IssueCertificateResponse{CertificateID: id.String()})
}

// HandleVerifyCertificate is the public verification read. Unknown IDs
// return 200 with the zero result, not 404.
func (h *Handler) HandleVerifyCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := certificateIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.registry.VerifyCertificate(r.Context(), id)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.VerifyCertificateResponse{
		IsValid:            result.IsValid,
		RecipientName:      result.RecipientName,
		CourseName:         result.CourseName,
		IssuingInstitution: result.IssuingInstitution,
		IssueDate:          result.IssueDate,
	})
}

// HandleGetCertificate returns the full record, 404 for unknown IDs.
func (h *Handler) HandleGetCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := certificateIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.registry.GetCertificateDetails(r.Context(), id)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.NewCertificateResponse(id, cert))
}

// HandleCertificateExists reports hard existence of an ID.
func (h *Handler) HandleCertificateExists(w http.ResponseWriter, r *http.Request) {
	id, err := certificateIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exists, err := h.registry.CertificateExists(r.Context(), id)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.ExistsResponse{Exists: exists})
}

// HandleGetCertificateHash returns the content fingerprint, 404 for unknown
// IDs.
func (h *Handler) HandleGetCertificateHash(w http.ResponseWriter, r *http.Request) {
	id, err := certificateIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := h.registry.GetCertificateHash(r.Context(), id)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.HashResponse{CertificateHash: hash})
}

// HandleRevokeCertificate marks a certificate invalid.
func (h *Handler) HandleRevokeCertificate(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := certificateIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registry.RevokeCertificate(r.Context(), caller, id); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleTransferCertificate renames the recipient of a valid certificate.
func (h *Handler) HandleTransferCertificate(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := certificateIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req api.TransferCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.registry.TransferCertificate(r.Context(), caller, id, req.NewRecipientName); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListAuthorizedIssuers lists currently authorized issuers.
func (h *Handler) HandleListAuthorizedIssuers(w http.ResponseWriter, r *http.Request) {
	issuers, err := h.registry.GetAllAuthorizedIssuers(r.Context())
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.IssuerListResponse{Issuers: api.NewIssuerList(issuers)})
}

// HandleIssuerStatus reports whether an identity is currently authorized.
func (h *Handler) HandleIssuerStatus(w http.ResponseWriter, r *http.Request) {
	issuer, err := issuerParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	authorized, err := h.registry.IsAuthorizedIssuer(r.Context(), issuer)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.IssuerStatusResponse{Authorized: authorized})
}

// HandleCertificatesByIssuer lists all IDs an identity has issued.
func (h *Handler) HandleCertificatesByIssuer(w http.ResponseWriter, r *http.Request) {
	issuer, err := issuerParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.registry.GetAllCertificatesIssuedBy(r.Context(), issuer)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.CertificateListResponse{CertificateIDs: api.NewCertificateIDList(ids)})
}

// HandleCertificateCountByIssuer returns an issuer's lifetime issuance count.
func (h *Handler) HandleCertificateCountByIssuer(w http.ResponseWriter, r *http.Request) {
	issuer, err := issuerParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.registry.GetCertificateCountByIssuer(r.Context(), issuer)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.CountResponse{Count: count})
}

// HandleValidCertificateCountByIssuer counts an issuer's still-valid
// certificates.
func (h *Handler) HandleValidCertificateCountByIssuer(w http.ResponseWriter, r *http.Request) {
	issuer, err := issuerParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.registry.GetValidCertificateCountByIssuer(r.Context(), issuer)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.CountResponse{Count: count})
}

// HandleCertificatesByCourse filters one issuer's certificates by exact
// course name.
func (h *Handler) HandleCertificatesByCourse(w http.ResponseWriter, r *http.Request) {
	issuer, err := issuerParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	course, err := textParam(r, "course")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.registry.GetCertificatesByCourse(r.Context(), issuer, course)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.CertificateListResponse{CertificateIDs: api.NewCertificateIDList(ids)})
}

// HandleCertificatesByInstitution scans all issuers for exact institution
// matches.
func (h *Handler) HandleCertificatesByInstitution(w http.ResponseWriter, r *http.Request) {
	institution, err := textParam(r, "institution")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.registry.GetCertificatesByInstitution(r.Context(), institution)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.CertificateListResponse{CertificateIDs: api.NewCertificateIDList(ids)})
}

// HandleCertificatesByRecipient scans all issuers for exact recipient
// matches.
func (h *Handler) HandleCertificatesByRecipient(w http.ResponseWriter, r *http.Request) {
	recipient, err := textParam(r, "recipient")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.registry.GetCertificatesByRecipient(r.Context(), recipient)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.CertificateListResponse{CertificateIDs: api.NewCertificateIDList(ids)})
}

// HandleTotalCertificates returns the count of certificates ever issued.
func (h *Handler) HandleTotalCertificates(w http.ResponseWriter, r *http.Request) {
	count, err := h.registry.TotalCertificates(r.Context())
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.CountResponse{Count: count})
}

// HandleGetOwner returns the current registry owner.
func (h *Handler) HandleGetOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := h.registry.Owner(r.Context())
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.OwnerResponse{Owner: owner.String()})
}

// HandleEvents replays the full event log in emission order.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		h.writeError(w, http.StatusNotFound, "event log not exposed")
		return
	}

	events := h.events.Events()
	records := make([]api.EventRecord, 0, len(events))
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			h.log.Error("Failed to encode event", "err", err)
			h.writeError(w, http.StatusInternalServerError, "failed to encode event log")
			return
		}
		records = append(records, api.EventRecord{
			Name:    string(ev.Name()),
			Payload: payload,
		})
	}

	h.writeJSON(w, http.StatusOK, records)
}
