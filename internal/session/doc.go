// Package session is the HTTP layer under the REST adapters. A Session resolves
// paths against the API base URL, tags every logical request with an
// X-Request-ID, retries transient failures with jittered exponential backoff and
// returns the raw body for the caller to decode as JSON or text.
package session
