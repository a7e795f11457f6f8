package rest

import (
	"context"
	"net/url"

	"github.com/JakeFAU/quantum-runtime-client/internal/datamap"
)

var backendURLs = map[string]string{
	"jobs_limit": "/jobsLimit",
}

// Backend is the adapter for the endpoints of a single backend device.
type Backend struct {
	Base
	name string
}

// NewBackend creates the adapter for the named backend under urlPrefix.
func NewBackend(s Session, name string, urlPrefix string) *Backend {
	return &Backend{
		Base: newBase(s, urlPrefix+"/devices/"+url.PathEscape(name), backendURLs),
		name: name,
	}
}

// JobsLimit returns the job limits of the backend with keys renamed to
// maximum_jobs and running_jobs.
func (b *Backend) JobsLimit(ctx context.Context) (datamap.RawRecord, error) {
	resp, err := b.get(ctx, "jobs_limit")
	if err != nil {
		return nil, err
	}
	record, err := resp.Record()
	if err != nil {
		return nil, err
	}
	return datamap.MapJobsLimitResponse(record), nil
}
