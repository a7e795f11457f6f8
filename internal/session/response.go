package session

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JakeFAU/quantum-runtime-client/internal/datamap"
)

// Response is a successful HTTP response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON unmarshals the body into dest.
func (r *Response) JSON(dest any) error {
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Record decodes the body as a JSON object.
func (r *Response) Record() (datamap.RawRecord, error) {
	var record datamap.RawRecord
	if err := r.JSON(&record); err != nil {
		return nil, err
	}
	if record == nil {
		record = datamap.RawRecord{}
	}
	return record, nil
}
