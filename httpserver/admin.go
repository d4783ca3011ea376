package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/attestia/certificate-registry-backend/api"
	"github.com/attestia/certificate-registry-backend/interfaces"
)

// Admin handlers. All of these are owner-gated: the registry rejects callers
// other than the current owner, the server only forwards the identity.

// HandleAuthorizeIssuer grants issuance rights to an identity.
func (h *Handler) HandleAuthorizeIssuer(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req api.AuthorizeIssuerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	issuer, err := interfaces.NewIdentityFromHex(req.Issuer)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registry.AuthorizeIssuer(r.Context(), caller, issuer); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRevokeIssuer withdraws issuance rights from an identity.
func (h *Handler) HandleRevokeIssuer(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	issuer, err := issuerParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registry.RevokeIssuer(r.Context(), caller, issuer); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleChangeOwner transfers registry ownership to a new identity.
func (h *Handler) HandleChangeOwner(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req api.ChangeOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	newOwner, err := interfaces.NewIdentityFromHex(req.NewOwner)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registry.ChangeOwner(r.Context(), caller, newOwner); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
