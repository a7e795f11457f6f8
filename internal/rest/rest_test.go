package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/JakeFAU/quantum-runtime-client/internal/datamap"
	"github.com/JakeFAU/quantum-runtime-client/internal/session"
)

// fakeRuntime records every request it serves.
type fakeRuntime struct {
	mu       sync.Mutex
	requests []string
}

func (f *fakeRuntime) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
}

func (f *fakeRuntime) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newFakeRuntime(t *testing.T) (*fakeRuntime, *session.Session) {
	t.Helper()

	f := &fakeRuntime{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.record(req)
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api/jobs/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			if chi.URLParam(req, "id") == "missing" {
				http.Error(w, `{"errors":[{"message":"Job not found"}]}`, http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"` + chi.URLParam(req, "id") + `","status":"Running","created":"2024-01-02T03:04:05Z"}`))
		})
		r.Delete("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
		r.Get("/results", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"counts":{"00":512,"11":512}}`)) })
		r.Get("/interim_results", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("interim 1\ninterim 2\n")) })
		r.Post("/cancel", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
		r.Get("/logs", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("line one\nline two\n")) })
		r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"usage":{"seconds":3}}`)) })
	})
	r.Get("/api/devices/{name}/jobsLimit", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"maximumJobs":5,"runningJobs":2}`))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	s := session.New(session.Config{BaseURL: srv.URL},
		session.WithLogger(zaptest.NewLogger(t)),
		session.WithRetryPolicy(session.NewExponentialRetryPolicy(0, time.Millisecond, time.Millisecond)))
	return f, s
}

func TestProgramJobURLs(t *testing.T) {
	t.Parallel()

	job := NewProgramJob(nil, "c1 x", "/api")
	assert.Equal(t, "/api/jobs/c1%20x", job.Prefix())
	assert.Equal(t, "c1 x", job.JobID())

	tests := map[string]string{
		"self":            "/api/jobs/c1%20x",
		"results":         "/api/jobs/c1%20x/results",
		"cancel":          "/api/jobs/c1%20x/cancel",
		"logs":            "/api/jobs/c1%20x/logs",
		"interim_results": "/api/jobs/c1%20x/interim_results",
		"metrics":         "/api/jobs/c1%20x/metrics",
	}
	for name, want := range tests {
		got, err := job.URL(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := job.URL("nope")
	require.Error(t, err)
}

func TestProgramJobEndpoints(t *testing.T) {
	t.Parallel()

	fake, s := newFakeRuntime(t)
	ctx := context.Background()
	job := NewProgramJob(s, "job-1", "/api")

	record, err := job.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, datamap.RawRecord{"id": "job-1", "status": "Running", "created": "2024-01-02T03:04:05Z"}, record)

	results, err := job.Results(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"counts":{"00":512,"11":512}}`, results)

	interim, err := job.InterimResults(ctx)
	require.NoError(t, err)
	assert.Equal(t, "interim 1\ninterim 2\n", interim)

	logs, err := job.Logs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", logs)

	meta, err := job.Metadata(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"usage":{"seconds":3}}`, meta)

	require.NoError(t, job.Cancel(ctx))
	require.NoError(t, job.Delete(ctx))

	assert.Equal(t, []string{
		"GET /api/jobs/job-1",
		"GET /api/jobs/job-1/results",
		"GET /api/jobs/job-1/interim_results",
		"GET /api/jobs/job-1/logs",
		"GET /api/jobs/job-1/metrics",
		"POST /api/jobs/job-1/cancel",
		"DELETE /api/jobs/job-1",
	}, fake.seen())
}

func TestProgramJobNotFound(t *testing.T) {
	t.Parallel()

	_, s := newFakeRuntime(t)
	_, err := NewProgramJob(s, "missing", "/api").Get(context.Background())
	require.Error(t, err)
	assert.True(t, session.IsNotFound(err))

	var apiErr *session.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Body, "Job not found")
}

func TestBackendJobsLimit(t *testing.T) {
	t.Parallel()

	fake, s := newFakeRuntime(t)
	backend := NewBackend(s, "ibm_kyiv", "/api")

	limits, err := backend.JobsLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, datamap.RawRecord{"maximum_jobs": float64(5), "running_jobs": float64(2)}, limits)
	assert.Equal(t, []string{"GET /api/devices/ibm_kyiv/jobsLimit"}, fake.seen())
}

type stubSession struct {
	resp *session.Response
	err  error
}

func (s stubSession) Get(context.Context, string) (*session.Response, error) { return s.resp, s.err }
func (s stubSession) Post(context.Context, string, any) (*session.Response, error) {
	return s.resp, s.err
}
func (s stubSession) Delete(context.Context, string) (*session.Response, error) { return s.resp, s.err }

func TestAdaptersWrapErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	job := NewProgramJob(stubSession{err: boom}, "j", "")

	_, err := job.Logs(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "get logs")

	err = job.Cancel(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "post cancel")

	err = job.Delete(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "delete self")
}

func TestGetRejectsNonObjectBody(t *testing.T) {
	t.Parallel()

	job := NewProgramJob(stubSession{resp: &session.Response{StatusCode: 200, Body: []byte(`not json`)}}, "j", "")
	_, err := job.Get(context.Background())
	require.Error(t, err)

	backend := NewBackend(stubSession{resp: &session.Response{StatusCode: 200, Body: []byte(`null`)}}, "b", "")
	limits, err := backend.JobsLimit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, limits)
}
