// Package app initializes and holds the long-lived services a runtimectl command
// needs, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/JakeFAU/quantum-runtime-client/internal/archive"
	"github.com/JakeFAU/quantum-runtime-client/internal/clock/system"
	"github.com/JakeFAU/quantum-runtime-client/internal/config"
	"github.com/JakeFAU/quantum-runtime-client/internal/converters"
	"github.com/JakeFAU/quantum-runtime-client/internal/metrics"
	"github.com/JakeFAU/quantum-runtime-client/internal/rest"
	"github.com/JakeFAU/quantum-runtime-client/internal/session"
	"github.com/JakeFAU/quantum-runtime-client/internal/telemetry"
)

// App holds the shared services for one command invocation.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	session   *session.Session
	converter *converters.Converter
	archiver  *archive.Archiver
	closers   []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NewApp builds the session, time converter and archiver described by cfg.
// It fails fast if any of them cannot be initialized.
func NewApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		session: session.New(cfg.SessionConfig(),
			session.WithLogger(logger.Named("session"))),
		converter: converters.New(
			converters.WithLocation(loc),
			converters.WithClock(system.NewIn(loc))),
	}

	if cfg.Tracing.Enabled {
		tp, err := telemetry.InitTracerProvider(ctx, cfg.Tracing)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		a.AddCloser(closerFunc(func() error {
			return tp.Shutdown(context.Background())
		}))
		logger.Debug("tracing enabled", zap.String("project_id", cfg.Tracing.ProjectID))
	}

	archiver, closeArchive, err := archive.Open(ctx, cfg.Archive, logger)
	if err != nil {
		a.closeResources()
		return nil, fmt.Errorf("failed to initialize archive: %w", err)
	}
	a.AddCloser(closerFunc(closeArchive))
	a.archiver = archiver
	if archiver == nil {
		logger.Debug("archiving disabled")
	} else {
		logger.Debug("archive ready", zap.String("provider", cfg.Archive.Provider))
	}

	return a, nil
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Converter returns the time converter bound to the configured zone.
func (a *App) Converter() *converters.Converter {
	return a.converter
}

// Archiver returns the artifact archiver, or nil when archiving is disabled.
func (a *App) Archiver() *archive.Archiver {
	return a.archiver
}

// Job returns the REST adapter for jobID.
func (a *App) Job(jobID string) *rest.ProgramJob {
	return rest.NewProgramJob(a.session, jobID, a.cfg.API.URLPrefix)
}

// Backend returns the REST adapter for the named backend.
func (a *App) Backend(name string) *rest.Backend {
	return rest.NewBackend(a.session, name, a.cfg.API.URLPrefix)
}

// AddCloser registers c to be closed by Close, in reverse order of addition.
func (a *App) AddCloser(c io.Closer) {
	a.closers = append(a.closers, c)
}

// Close releases every registered resource and writes the metrics textfile
// when one is configured. Failures are logged, not returned.
func (a *App) Close() {
	a.closeResources()

	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			a.logger.Warn("error writing metrics textfile", zap.String("path", path), zap.Error(err))
		}
	}

	_ = a.logger.Sync() //nolint:errcheck // stderr sync fails on some platforms
}

func (a *App) closeResources() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("error closing resource", zap.Error(err))
		}
	}
	a.closers = nil
}
