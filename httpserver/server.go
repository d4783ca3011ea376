package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/atomic"

	"github.com/attestia/certificate-registry-backend/api"
	"github.com/attestia/certificate-registry-backend/metrics"
)

// Server ties the registry handler to the HTTP listener, the metrics
// listener and the health/drain lifecycle.
type Server struct {
	cfg     *api.HTTPServerConfig
	isReady atomic.Bool
	log     *slog.Logger

	srv        *http.Server
	metricsSrv *metrics.MetricsServer
	handler    *Handler
}

// New creates a Server for the given handler. The metrics server is created
// only when cfg.MetricsAddr is set.
func New(cfg *api.HTTPServerConfig, handler *Handler) (*Server, error) {
	srv := &Server{
		cfg:     cfg,
		log:     cfg.Log,
		handler: handler,
	}
	if cfg.MetricsAddr != "" && cfg.Metrics != nil {
		srv.metricsSrv = metrics.NewServer(cfg.Metrics, cfg.MetricsAddr)
	}
	srv.isReady.Store(true)

	srv.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.getRouter(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return srv, nil
}

func (srv *Server) getRouter() http.Handler {
	mux := chi.NewRouter()

	// Certificate operations
	mux.With(srv.httpLogger).Post("/api/certificates", srv.handler.HandleIssueCertificate)
	mux.With(srv.httpLogger).Get("/api/certificates/{certificate_id}", srv.handler.HandleGetCertificate)
	mux.With(srv.httpLogger).Get("/api/certificates/{certificate_id}/verify", srv.handler.HandleVerifyCertificate)
	mux.With(srv.httpLogger).Get("/api/certificates/{certificate_id}/exists", srv.handler.HandleCertificateExists)
	mux.With(srv.httpLogger).Get("/api/certificates/{certificate_id}/hash", srv.handler.HandleGetCertificateHash)
	mux.With(srv.httpLogger).Post("/api/certificates/{certificate_id}/revoke", srv.handler.HandleRevokeCertificate)
	mux.With(srv.httpLogger).Post("/api/certificates/{certificate_id}/transfer", srv.handler.HandleTransferCertificate)

	// Public enumeration queries
	mux.With(srv.httpLogger).Get("/api/issuers", srv.handler.HandleListAuthorizedIssuers)
	mux.With(srv.httpLogger).Get("/api/issuers/{issuer}/status", srv.handler.HandleIssuerStatus)
	mux.With(srv.httpLogger).Get("/api/issuers/{issuer}/certificates", srv.handler.HandleCertificatesByIssuer)
	mux.With(srv.httpLogger).Get("/api/issuers/{issuer}/certificates/count", srv.handler.HandleCertificateCountByIssuer)
	mux.With(srv.httpLogger).Get("/api/issuers/{issuer}/certificates/valid-count", srv.handler.HandleValidCertificateCountByIssuer)
	mux.With(srv.httpLogger).Get("/api/issuers/{issuer}/certificates/course/{course}", srv.handler.HandleCertificatesByCourse)
	mux.With(srv.httpLogger).Get("/api/certificates-by-institution/{institution}", srv.handler.HandleCertificatesByInstitution)
	mux.With(srv.httpLogger).Get("/api/certificates-by-recipient/{recipient}", srv.handler.HandleCertificatesByRecipient)
	mux.With(srv.httpLogger).Get("/api/certificates/count", srv.handler.HandleTotalCertificates)
	mux.With(srv.httpLogger).Get("/api/events", srv.handler.HandleEvents)
	mux.With(srv.httpLogger).Get("/api/owner", srv.handler.HandleGetOwner)

	// Owner-gated admin surface
	mux.With(srv.httpLogger).Post("/api/admin/issuers", srv.handler.HandleAuthorizeIssuer)
	mux.With(srv.httpLogger).Delete("/api/admin/issuers/{issuer}", srv.handler.HandleRevokeIssuer)
	mux.With(srv.httpLogger).Post("/api/admin/owner", srv.handler.HandleChangeOwner)

	// Health and diagnostic endpoints
	mux.With(srv.httpLogger).Get("/livez", srv.handleLivenessCheck)
	mux.With(srv.httpLogger).Get("/readyz", srv.handleReadinessCheck)
	mux.With(srv.httpLogger).Get("/drain", srv.handleDrain)
	mux.With(srv.httpLogger).Get("/undrain", srv.handleUndrain)

	if srv.cfg.EnablePprof {
		srv.log.Info("pprof API enabled")
		mux.Mount("/debug", middleware.Profiler())
	}
	return mux
}

func (srv *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(srv.log, next)
}

func (srv *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"alive"}`))
}

func (srv *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not ready"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

func (srv *Server) handleDrain(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Swap(false) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"already draining"}`))
		return
	}

	srv.log.Info("Server marked as not ready")

	// Wait out the drain period off the request handler so load balancers
	// can detect the readiness change.
	go func() {
		time.Sleep(srv.cfg.DrainDuration)
		srv.log.Info("Drain period completed")
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"draining"}`))
}

func (srv *Server) handleUndrain(w http.ResponseWriter, r *http.Request) {
	if srv.isReady.Swap(true) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"already ready"}`))
		return
	}

	srv.log.Info("Server marked as ready")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// RunInBackground starts the API and metrics listeners.
func (srv *Server) RunInBackground() {
	// metrics
	if srv.metricsSrv != nil {
		go func() {
			srv.log.With("metricsAddress", srv.cfg.MetricsAddr).Info("Starting metrics server")
			err := srv.metricsSrv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				srv.log.Error("Metrics server failed", "err", err)
			}
		}()
	}

	// api
	go func() {
		srv.log.Info("Starting HTTP server", "listenAddress", srv.cfg.ListenAddr)
		if err := srv.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.log.Error("HTTP server failed", "err", err)
		}
	}()
}

// Shutdown gracefully stops both listeners.
func (srv *Server) Shutdown() {
	// api
	ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
	defer cancel()
	if err := srv.srv.Shutdown(ctx); err != nil {
		srv.log.Error("Graceful HTTP server shutdown failed", "err", err)
	} else {
		srv.log.Info("HTTP server gracefully stopped")
	}

	// metrics
	if srv.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
		defer cancel()

		if err := srv.metricsSrv.Shutdown(ctx); err != nil {
			srv.log.Error("Graceful metrics server shutdown failed", "err", err)
		} else {
			srv.log.Info("Metrics server gracefully stopped")
		}
	}
}
