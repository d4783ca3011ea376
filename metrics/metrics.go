// Package metrics exposes Prometheus metrics for the certificate registry
// and serves them on a dedicated listen address, separate from the API
// server.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the registry.
type Metrics struct {
	registry *prometheus.Registry

	CertificatesIssued      prometheus.Counter
	CertificatesRevoked     prometheus.Counter
	CertificatesTransferred prometheus.Counter
	OperationErrors         *prometheus.CounterVec
	DroppedEvents           prometheus.Counter
}

// New creates and registers all metrics on a fresh Prometheus registry.
// namespace is prefixed to every metric name.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CertificatesIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificates_issued_total",
			Help:      "Total number of certificates ever issued",
		}),
		CertificatesRevoked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificates_revoked_total",
			Help:      "Total number of certificates revoked",
		}),
		CertificatesTransferred: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificates_transferred_total",
			Help:      "Total number of certificate recipient transfers",
		}),
		OperationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Registry operations rejected, by reason",
		}, []string{"reason"}),
		DroppedEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_subscriber_events_total",
			Help:      "Events dropped because a subscriber channel was full",
		}),
	}
}

// MetricsServer serves the /metrics endpoint for a Metrics instance.
type MetricsServer struct {
	metrics *Metrics
	srv     *http.Server
}

// NewServer creates a metrics server listening on addr.
func NewServer(m *Metrics, addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	return &MetricsServer{
		metrics: m,
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Metrics returns the metrics instance this server exposes.
func (s *MetricsServer) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe blocks serving metrics until the server is shut down.
func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
