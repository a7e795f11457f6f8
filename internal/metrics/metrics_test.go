package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSanitizeRoute(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"job self", "https://api.example.com/runtime/jobs/c1abc/", "/runtime/jobs/{id}"},
		{"job results", "https://api.example.com/jobs/c1abc/results", "/jobs/{id}/results"},
		{"interim results", "http://127.0.0.1:8080/jobs/x/interim_results", "/jobs/{id}/interim_results"},
		{"jobs limit", "https://api.example.com/devices/ibm_kyiv/jobsLimit", "/devices/{id}/jobsLimit"},
		{"query dropped", "https://api.example.com/jobs/a/logs?limit=5", "/jobs/{id}/logs"},
		{"root", "https://api.example.com", "/"},
		{"invalid url", "http://%", "unknown"},
		{"empty string", "", "/"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeRoute(tc.input); got != tc.expected {
				t.Errorf("SanitizeRoute(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestInit(t *testing.T) {
	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if clientRequestsTotal == nil || clientRequestDurationSeconds == nil ||
		clientRetriesTotal == nil || archiveWritesTotal == nil || archiveBytesTotal == nil ||
		rateLimitDelaySeconds == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}

	ObserveRequest("GET", "https://api.example.com/jobs/init-test/metrics", 200, 10*time.Millisecond)
	if val := testutil.ToFloat64(clientRequestsTotal.WithLabelValues("GET", "/jobs/{id}/metrics", "200")); val < 1 {
		t.Errorf("Expected runtime_client_requests_total to be >= 1, got %f", val)
	}

	ObserveRetry("PATCH")
	if val := testutil.ToFloat64(clientRetriesTotal.WithLabelValues("PATCH")); val != 1 {
		t.Errorf("Expected runtime_client_retries_total to be 1, got %f", val)
	}

	ObserveArchive("init-test", "success", 12)
	ObserveArchive("init-test", "error", 0)
	if val := testutil.ToFloat64(archiveBytesTotal.WithLabelValues("init-test")); val != 12 {
		t.Errorf("Expected runtime_archive_bytes_total to be 12, got %f", val)
	}
	if val := testutil.ToFloat64(archiveWritesTotal.WithLabelValues("init-test", "error")); val != 1 {
		t.Errorf("Expected runtime_archive_writes_total{status=error} to be 1, got %f", val)
	}

	ObserveRateLimitDelay("init-test.example.com", 20*time.Millisecond)
	if n := testutil.CollectAndCount(rateLimitDelaySeconds); n < 1 {
		t.Errorf("Expected runtime_client_rate_limit_delay_seconds to have a series, got %d", n)
	}
}

func TestWriteTextfile(t *testing.T) {
	Init()
	ObserveRequest("GET", "https://api.example.com/jobs/textfile/logs", 200, time.Millisecond)

	path := filepath.Join(t.TempDir(), "runtimectl.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "runtime_client_requests_total") {
		t.Errorf("textfile does not contain request counter:\n%s", data)
	}
}

func TestWriteTextfileMissingDir(t *testing.T) {
	Init()
	if err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "out.prom")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

// Fuzz test for SanitizeRoute.
func FuzzSanitizeRoute(f *testing.F) {
	testcases := []string{"https://api.example.com/jobs/1", "http://x/devices/y/jobsLimit", "ftp://example.com"}
	for _, tc := range testcases {
		f.Add(tc)
	}
	f.Fuzz(func(t *testing.T, orig string) {
		sanitized := SanitizeRoute(orig)
		if sanitized == "" {
			t.Errorf("SanitizeRoute(%q) returned an empty string", orig)
		}
	})
}
