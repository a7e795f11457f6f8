package rest

import (
	"context"
	"net/url"

	"github.com/JakeFAU/quantum-runtime-client/internal/datamap"
)

var programJobURLs = map[string]string{
	"self":            "",
	"results":         "/results",
	"cancel":          "/cancel",
	"logs":            "/logs",
	"interim_results": "/interim_results",
	"metrics":         "/metrics",
}

// ProgramJob is the adapter for the endpoints of a single program job.
type ProgramJob struct {
	Base
	jobID string
}

// NewProgramJob creates the adapter for jobID under urlPrefix.
func NewProgramJob(s Session, jobID string, urlPrefix string) *ProgramJob {
	return &ProgramJob{
		Base:  newBase(s, urlPrefix+"/jobs/"+url.PathEscape(jobID), programJobURLs),
		jobID: jobID,
	}
}

// JobID returns the ID the adapter was built for.
func (p *ProgramJob) JobID() string {
	return p.jobID
}

// Get returns the job information as decoded JSON.
func (p *ProgramJob) Get(ctx context.Context) (datamap.RawRecord, error) {
	resp, err := p.get(ctx, "self")
	if err != nil {
		return nil, err
	}
	return resp.Record()
}

// Delete deletes the job.
func (p *ProgramJob) Delete(ctx context.Context) error {
	_, err := p.delete(ctx, "self")
	return err
}

// InterimResults returns the interim results of the job.
func (p *ProgramJob) InterimResults(ctx context.Context) (string, error) {
	return p.text(ctx, "interim_results")
}

// Results returns the final results of the job.
func (p *ProgramJob) Results(ctx context.Context) (string, error) {
	return p.text(ctx, "results")
}

// Cancel cancels the job.
func (p *ProgramJob) Cancel(ctx context.Context) error {
	_, err := p.post(ctx, "cancel")
	return err
}

// Logs returns the job logs.
func (p *ProgramJob) Logs(ctx context.Context) (string, error) {
	return p.text(ctx, "logs")
}

// Metadata returns the job metrics document.
func (p *ProgramJob) Metadata(ctx context.Context) (string, error) {
	return p.text(ctx, "metrics")
}

func (p *ProgramJob) text(ctx context.Context, name string) (string, error) {
	resp, err := p.get(ctx, name)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
