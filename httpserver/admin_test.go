package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/attestia/certificate-registry-backend/api"
	"github.com/attestia/certificate-registry-backend/interfaces"
)

func TestHandleAuthorizeIssuer_Success(t *testing.T) {
	mockRegistry, mux := setupTestHandler(nil)

	owner := testIdentity(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	issuer := testIdentity(t, "1111111111111111111111111111111111111111")
	mockRegistry.On("AuthorizeIssuer", mock.Anything, owner, issuer).Return(nil)

	body, err := json.Marshal(api.AuthorizeIssuerRequest{Issuer: issuer.String()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/issuers", bytes.NewReader(body))
	req.Header.Set(api.CallerHeader, owner.String())
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	mockRegistry.AssertExpectations(t)
}

func TestHandleAuthorizeIssuer_NotOwner(t *testing.T) {
	mockRegistry, mux := setupTestHandler(nil)

	caller := testIdentity(t, "2222222222222222222222222222222222222222")
	issuer := testIdentity(t, "1111111111111111111111111111111111111111")
	mockRegistry.On("AuthorizeIssuer", mock.Anything, caller, issuer).
		Return(fmt.Errorf("authorize issuer: %w", interfaces.ErrUnauthorized))

	body, err := json.Marshal(api.AuthorizeIssuerRequest{Issuer: issuer.String()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/issuers", bytes.NewReader(body))
	req.Header.Set(api.CallerHeader, caller.String())
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	mockRegistry.AssertExpectations(t)
}

func TestHandleAuthorizeIssuer_AlreadyAuthorized(t *testing.T) {
	mockRegistry, mux := setupTestHandler(nil)

	owner := testIdentity(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	issuer := testIdentity(t, "1111111111111111111111111111111111111111")
	mockRegistry.On("AuthorizeIssuer", mock.Anything, owner, issuer).
		Return(fmt.Errorf("authorize issuer: %w", interfaces.ErrAlreadyAuthorized))

	body, err := json.Marshal(api.AuthorizeIssuerRequest{Issuer: issuer.String()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/issuers", bytes.NewReader(body))
	req.Header.Set(api.CallerHeader, owner.String())
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	mockRegistry.AssertExpectations(t)
}

func TestHandleAuthorizeIssuer_MalformedIssuer(t *testing.T) {
	mockRegistry, mux := setupTestHandler(nil)

	owner := testIdentity(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	body, err := json.Marshal(api.AuthorizeIssuerRequest{Issuer: "nonsense"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/issuers", bytes.NewReader(body))
	req.Header.Set(api.CallerHeader, owner.String())
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	mockRegistry.AssertNotCalled(t, "AuthorizeIssuer")
}

func TestHandleRevokeIssuer_Success(t *testing.T) {
	mockRegistry, mux := setupTestHandler(nil)

	owner := testIdentity(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	issuer := testIdentity(t, "1111111111111111111111111111111111111111")
	mockRegistry.On("RevokeIssuer", mock.Anything, owner, issuer).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/issuers/"+issuer.String(), nil)
	req.Header.Set(api.CallerHeader, owner.String())
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	mockRegistry.AssertExpectations(t)
}

func TestHandleRevokeIssuer_CannotRevokeOwner(t *testing.T) {
	mockRegistry, mux := setupTestHandler(nil)

	owner := testIdentity(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	mockRegistry.On("RevokeIssuer", mock.Anything, owner, owner).
		Return(fmt.Errorf("revoke issuer: %w", interfaces.ErrCannotRevokeOwner))

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/issuers/"+owner.String(), nil)
	req.Header.Set(api.CallerHeader, owner.String())
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	mockRegistry.AssertExpectations(t)
}

func TestHandleChangeOwner_Success(t *testing.T) {
	mockRegistry, mux := setupTestHandler(nil)

	owner := testIdentity(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	newOwner := testIdentity(t, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	mockRegistry.On("ChangeOwner", mock.Anything, owner, newOwner).Return(nil)

	body, err := json.Marshal(api.ChangeOwnerRequest{NewOwner: newOwner.String()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/owner", bytes.NewReader(body))
	req.Header.Set(api.CallerHeader, owner.String())
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	mockRegistry.AssertExpectations(t)
}

func TestHandleChangeOwner_ZeroIdentity(t *testing.T) {
	mockRegistry, mux := setupTestHandler(nil)

	owner := testIdentity(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	zero := interfaces.Identity{}
	mockRegistry.On("ChangeOwner", mock.Anything, owner, zero).
		Return(fmt.Errorf("change owner: %w", interfaces.ErrInvalidInput))

	body, err := json.Marshal(api.ChangeOwnerRequest{NewOwner: zero.String()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/owner", bytes.NewReader(body))
	req.Header.Set(api.CallerHeader, owner.String())
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	mockRegistry.AssertExpectations(t)
}
