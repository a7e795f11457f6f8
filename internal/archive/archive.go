// Package archive saves fetched job artifacts (results, logs, metrics) to a
// blob store so they outlive the CLI invocation.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/quantum-runtime-client/internal/archive/gcs"
	"github.com/JakeFAU/quantum-runtime-client/internal/archive/local"
	"github.com/JakeFAU/quantum-runtime-client/internal/archive/memory"
	"github.com/JakeFAU/quantum-runtime-client/internal/hash/sha256"
	"github.com/JakeFAU/quantum-runtime-client/internal/metrics"
)

// Supported providers.
const (
	ProviderNone   = "none"
	ProviderMemory = "memory"
	ProviderLocal  = "local"
	ProviderGCS    = "gcs"
)

// BlobStore writes raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

// Hasher computes content digests.
type Hasher interface {
	Hash(data []byte) (string, error)
	Algorithm() string
}

// Receipt describes a saved artifact.
type Receipt struct {
	URI       string
	Algorithm string
	Digest    string
	Bytes     int
}

// Config selects and configures the blob store.
type Config struct {
	Provider string       `mapstructure:"provider"`
	Prefix   string       `mapstructure:"prefix"`
	Local    local.Config `mapstructure:"local"`
	GCS      gcs.Config   `mapstructure:"gcs"`
}

// Archiver names artifacts and writes them to a BlobStore.
type Archiver struct {
	store    BlobStore
	provider string
	prefix   string
	hasher   Hasher
	logger   *zap.Logger
}

// NewArchiver wraps store. provider is only used as a metrics label.
func NewArchiver(store BlobStore, provider, prefix string, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	return &Archiver{
		store:    store,
		provider: provider,
		prefix:   strings.Trim(prefix, "/"),
		hasher:   sha256.New(),
		logger:   logger,
	}
}

// Open builds the Archiver described by cfg. It returns a nil Archiver for the
// "none" provider. The close function is never nil.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Archiver, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Provider {
	case "", ProviderNone:
		return nil, noop, nil
	case ProviderMemory:
		return NewArchiver(memory.NewBlobStore(), ProviderMemory, cfg.Prefix, logger), noop, nil
	case ProviderLocal:
		store, err := local.New(cfg.Local)
		if err != nil {
			return nil, noop, fmt.Errorf("init local archive: %w", err)
		}
		return NewArchiver(store, ProviderLocal, cfg.Prefix, logger), noop, nil
	case ProviderGCS:
		store, closeFn, err := gcs.Dial(ctx, cfg.GCS)
		if err != nil {
			return nil, noop, fmt.Errorf("init gcs archive: %w", err)
		}
		return NewArchiver(store, ProviderGCS, cfg.Prefix, logger), closeFn, nil
	default:
		return nil, noop, fmt.Errorf("unknown archive provider: %s", cfg.Provider)
	}
}

// ObjectPath returns where an artifact of jobID is stored. JSON bodies get a
// .json extension, anything else .txt.
func (a *Archiver) ObjectPath(jobID, artifact string, body []byte) string {
	ext := ".txt"
	if json.Valid(body) {
		ext = ".json"
	}
	return path.Join(a.prefix, jobID, artifact+ext)
}

// Save writes body as the named artifact of jobID and returns where it went
// together with its digest.
func (a *Archiver) Save(ctx context.Context, jobID, artifact string, body []byte) (Receipt, error) {
	if strings.TrimSpace(jobID) == "" {
		return Receipt{}, fmt.Errorf("job id is required")
	}
	if strings.ContainsAny(jobID, `/\`) || jobID == "." || jobID == ".." {
		return Receipt{}, fmt.Errorf("invalid job id %q", jobID)
	}
	digest, err := a.hasher.Hash(body)
	if err != nil {
		return Receipt{}, fmt.Errorf("hash %s of job %s: %w", artifact, jobID, err)
	}
	objectPath := a.ObjectPath(jobID, artifact, body)
	contentType := "text/plain; charset=utf-8"
	if strings.HasSuffix(objectPath, ".json") {
		contentType = "application/json"
	}

	uri, err := a.store.PutObject(ctx, objectPath, contentType, bytes.NewReader(body))
	if err != nil {
		metrics.ObserveArchive(a.provider, "error", 0)
		return Receipt{}, fmt.Errorf("archive %s of job %s: %w", artifact, jobID, err)
	}
	metrics.ObserveArchive(a.provider, "success", len(body))

	receipt := Receipt{URI: uri, Algorithm: a.hasher.Algorithm(), Digest: digest, Bytes: len(body)}
	a.logger.Info("archived job artifact",
		zap.String("job_id", jobID),
		zap.String("artifact", artifact),
		zap.String("uri", uri),
		zap.String(receipt.Algorithm, digest),
		zap.Int("bytes", len(body)))
	return receipt, nil
}
