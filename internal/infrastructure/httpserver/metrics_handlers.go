package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "The total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "The HTTP request latencies in seconds",
		},
		[]string{"method", "endpoint"},
	)

	magicLinkRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "magic_link_requests_total",
			Help: "Magic link requests by outcome",
		},
		[]string{"result"},
	)

	magicLinkVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "magic_link_verifications_total",
			Help: "Magic link verifications by outcome",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, magicLinkRequests, magicLinkVerifications)
}

// GetRequestsTotal returns the requests total metric for middleware use
func GetRequestsTotal() *prometheus.CounterVec {
	return requestsTotal
}

// GetRequestDuration returns the request duration metric for middleware use
func GetRequestDuration() *prometheus.HistogramVec {
	return requestDuration
}

// LogMetricsInitialization logs that metrics have been initialized
func (s *Server) LogMetricsInitialization() {
	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"http_requests_total":            "Counter for HTTP requests by method, endpoint, status",
			"http_request_duration":          "Histogram for HTTP request duration by method, endpoint",
			"magic_link_requests_total":      "Counter for link requests by result",
			"magic_link_verifications_total": "Counter for link verifications by result",
			"metrics_endpoint":               "/metrics",
		}).Debug("Available Prometheus metrics")
	}
}

func (s *Server) metricsEndpoint(c echo.Context) error {
	promhttp.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}
