// Package metrics exposes Prometheus collectors for the runtime API client.
package metrics

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clientRequestsTotal          *prometheus.CounterVec
	clientRequestDurationSeconds *prometheus.HistogramVec
	clientRetriesTotal           *prometheus.CounterVec
	archiveWritesTotal           *prometheus.CounterVec
	archiveBytesTotal            *prometheus.CounterVec
	rateLimitDelaySeconds        *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		clientRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runtime_client_requests_total",
				Help: "Total number of runtime API requests, labeled by method, route and code.",
			},
			[]string{"method", "route", "code"},
		)

		clientRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runtime_client_request_duration_seconds",
				Help:    "Histogram of runtime API request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route"},
		)

		clientRetriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runtime_client_retries_total",
				Help: "Total number of retried runtime API requests, labeled by method.",
			},
			[]string{"method"},
		)

		archiveWritesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runtime_archive_writes_total",
				Help: "Total number of archived job artifacts, labeled by provider and status.",
			},
			[]string{"provider", "status"},
		)

		archiveBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runtime_archive_bytes_total",
				Help: "Total number of archived bytes, labeled by provider.",
			},
			[]string{"provider"},
		)

		rateLimitDelaySeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runtime_client_rate_limit_delay_seconds",
				Help:    "Histogram of time spent waiting on the client-side rate limiter, labeled by host.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"host"},
		)
	})
}

// idSegments are path segments whose successor is a resource identifier.
var idSegments = map[string]struct{}{
	"jobs":     {},
	"devices":  {},
	"backends": {},
}

// SanitizeRoute turns a request URL into a low-cardinality route label by
// replacing resource identifiers with "{id}". It returns "unknown" if the URL is
// invalid.
func SanitizeRoute(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		if _, ok := idSegments[segments[i-1]]; ok {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

// ObserveRequest records one completed runtime API request. code is 0 when no
// response was received.
func ObserveRequest(method, rawURL string, code int, duration time.Duration) {
	route := SanitizeRoute(rawURL)
	clientRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	clientRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveRetry increments the retry counter.
func ObserveRetry(method string) {
	clientRetriesTotal.WithLabelValues(method).Inc()
}

// ObserveArchive records an archive write.
func ObserveArchive(provider string, status string, bytesWritten int) {
	archiveWritesTotal.WithLabelValues(provider, status).Inc()
	if bytesWritten > 0 {
		archiveBytesTotal.WithLabelValues(provider).Add(float64(bytesWritten))
	}
}

// ObserveRateLimitDelay records how long a request waited for a rate limit token.
func ObserveRateLimitDelay(host string, d time.Duration) {
	rateLimitDelaySeconds.WithLabelValues(host).Observe(d.Seconds())
}

// Transport wraps next so that every round trip is observed. A nil next uses
// http.DefaultTransport.
func Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(req)
		code := 0
		if resp != nil {
			code = resp.StatusCode
		}
		ObserveRequest(req.Method, req.URL.String(), code, time.Since(start))
		return resp, err
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// WriteTextfile dumps the default registry in the text exposition format, for
// pickup by a node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
