package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// APIMetrics gerencia as métricas expostas pela aplicação: tráfego HTTP
// bruto e resultado por operação GraphQL.
type APIMetrics struct {
	requestCounter    *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	activeRequests    *prometheus.GaugeVec
	operationCounter  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationErrors   *prometheus.CounterVec
}

// NewAPIMetrics cria e registra métricas no registry padrão do prometheus
func NewAPIMetrics() *APIMetrics {
	return NewAPIMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewAPIMetricsWithRegistry registra as métricas em um registry específico.
// Testes usam um registry isolado para evitar registro duplicado.
func NewAPIMetricsWithRegistry(reg prometheus.Registerer) *APIMetrics {
	factory := promauto.With(reg)

	return &APIMetrics{
		requestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_api_requests_total",
				Help: "Total number of HTTP requests by path, method, and status code",
			},
			[]string{"path", "method", "status"},
		),

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "user_api_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		activeRequests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "user_api_active_requests",
				Help: "Number of in-flight requests being processed",
			},
			[]string{"path", "method"},
		),

		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_api_graphql_operations_total",
				Help: "Total number of GraphQL operations by name and result",
			},
			[]string{"operation", "result"},
		),

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "user_api_graphql_operation_duration_seconds",
				Help:    "GraphQL operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		operationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_api_graphql_operation_errors_total",
				Help: "Total number of GraphQL operation errors by name and code",
			},
			[]string{"operation", "code"},
		),
	}
}

// RequestStarted registra o início de uma requisição HTTP
func (m *APIMetrics) RequestStarted(path, method string) {
	m.activeRequests.WithLabelValues(path, method).Inc()
}

// RequestCompleted registra a conclusão de uma requisição HTTP
func (m *APIMetrics) RequestCompleted(path, method, status string, duration time.Duration) {
	m.activeRequests.WithLabelValues(path, method).Dec()
	m.requestCounter.WithLabelValues(path, method, status).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// OperationCompleted registra uma operação GraphQL bem-sucedida
func (m *APIMetrics) OperationCompleted(operation string, duration time.Duration) {
	m.operationCounter.WithLabelValues(operation, "ok").Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// OperationFailed registra uma operação GraphQL que terminou em erro
func (m *APIMetrics) OperationFailed(operation string, code int, duration time.Duration) {
	m.operationCounter.WithLabelValues(operation, "error").Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.operationErrors.WithLabelValues(operation, strconv.Itoa(code)).Inc()
}
