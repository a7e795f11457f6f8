package session

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrorBody caps how much of a failed response body is kept on APIError.
const maxErrorBody = 512

// APIError represents a non-2xx HTTP response.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Temporary reports whether the status is worth retrying.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func newAPIError(method, url string, resp *http.Response, body []byte) *APIError {
	bodyStr := string(body)
	if len(bodyStr) > maxErrorBody {
		bodyStr = bodyStr[:maxErrorBody]
	}
	return &APIError{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       bodyStr,
		retryAfter: resp.Header.Get("Retry-After"),
	}
}
