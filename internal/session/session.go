package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/quantum-runtime-client/internal/id/uuid"
	"github.com/JakeFAU/quantum-runtime-client/internal/metrics"
	"github.com/JakeFAU/quantum-runtime-client/internal/policy/ratelimit"
	"github.com/JakeFAU/quantum-runtime-client/internal/telemetry"
)

// RequestIDHeader carries the ID shared by all attempts of one request.
const RequestIDHeader = "X-Request-ID"

// IDGenerator produces request IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// RateLimiter blocks until a request to url may be sent.
type RateLimiter interface {
	Wait(ctx context.Context, url string) error
}

// Config controls Session behavior. A positive RequestsPerSecond enables
// client-side rate limiting.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	MaxRetries        int
	BackoffInitial    time.Duration
	BackoffMax        time.Duration
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
}

// Session sends requests to the runtime API. It is safe for concurrent use.
type Session struct {
	baseURL   string
	userAgent string
	client    *http.Client
	retry     RetryPolicy
	ids       IDGenerator
	limiter   RateLimiter
	logger    *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client. Its transport is used as is, so
// requests made through it are not observed by the metrics package.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) {
		if client != nil {
			s.client = client
		}
	}
}

// WithRetryPolicy replaces the retry policy built from Config.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(s *Session) {
		if policy != nil {
			s.retry = policy
		}
	}
}

// WithIDGenerator replaces the request ID generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *Session) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithRateLimiter replaces the rate limiter built from Config.
func WithRateLimiter(limiter RateLimiter) Option {
	return func(s *Session) {
		if limiter != nil {
			s.limiter = limiter
		}
	}
}

// New creates a Session for cfg.BaseURL.
func New(cfg Config, opts ...Option) *Session {
	metrics.Init()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := &Session{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout:   timeout,
			Transport: telemetry.Transport(metrics.Transport(http.DefaultTransport)),
		},
		retry:  NewExponentialRetryPolicy(cfg.MaxRetries, cfg.BackoffInitial, cfg.BackoffMax),
		ids:    uuid.New(),
		logger: zap.NewNop(),
	}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = ratelimit.New(ratelimit.Config{RequestsPerSecond: cfg.RequestsPerSecond, Burst: cfg.Burst})
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL returns the URL every request path is resolved against.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// Get sends a GET request for path.
func (s *Session) Get(ctx context.Context, path string) (*Response, error) {
	return s.Do(ctx, http.MethodGet, path, nil)
}

// Post sends a POST request for path. A nil payload sends no body; anything else
// is encoded as JSON.
func (s *Session) Post(ctx context.Context, path string, payload any) (*Response, error) {
	return s.Do(ctx, http.MethodPost, path, payload)
}

// Delete sends a DELETE request for path.
func (s *Session) Delete(ctx context.Context, path string) (*Response, error) {
	return s.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends one logical request, retrying according to the session's policy.
// Non-2xx responses are returned as *APIError.
func (s *Session) Do(ctx context.Context, method, path string, payload any) (*Response, error) {
	fullURL := s.resolve(path)

	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s payload: %w", method, fullURL, err)
		}
		body = encoded
	}

	requestID, err := s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("request id: %w", err)
	}
	logger := s.logger.With(
		zap.String("method", method),
		zap.String("url", fullURL),
		zap.String("request_id", requestID),
	)

	for attempt := 0; ; attempt++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx, fullURL); err != nil {
				return nil, err
			}
		}
		resp, err := s.once(ctx, method, fullURL, requestID, body)
		if err == nil {
			logger.Debug("runtime api request succeeded",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt))
			return resp, nil
		}
		if !s.retry.ShouldRetry(err, attempt) {
			logger.Debug("runtime api request failed", zap.Int("attempt", attempt), zap.Error(err))
			return nil, err
		}

		wait := s.retry.Backoff(err, attempt)
		logger.Warn("retrying runtime api request",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err))
		metrics.ObserveRetry(method)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (s *Session) once(ctx context.Context, method, fullURL, requestID string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, fullURL, err)
	}
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, fullURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(method, fullURL, resp, data)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       data,
	}, nil
}

func (s *Session) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.baseURL + path
}
